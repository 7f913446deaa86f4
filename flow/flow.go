// Package flow runs a city weather lookup: geocode, fetch the current
// temperature, classify it and show the result on a UI binding.
package flow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"city-weather/datasource"
	"city-weather/models"
	"city-weather/render"

	"go.uber.org/zap"
)

// Messages shown on the surface
const (
	MsgEmptyQuery    = "Inserire una città."
	MsgSearching     = "Ricerca in corso..."
	MsgGeocodeFailed = "Errore nella ricerca della città."
	MsgWeatherFailed = "Errore nel recupero del meteo."
)

// ErrBusy is returned when a submission arrives while another lookup is running
var ErrBusy = errors.New("a lookup is already in progress")

// Publisher receives every finished outcome. It must not block.
type Publisher interface {
	Publish(outcome models.Outcome)
}

// Flow is a single lookup pipeline bound to one UI. At most one lookup runs at a time.
type Flow struct {
	geocoder     datasource.Geocoder
	temperatures datasource.TemperatureSource
	binding      Binding
	publisher    Publisher
	logger       *zap.Logger
	callTimeout  time.Duration

	mu       sync.Mutex
	state    models.FlowState
	inFlight bool
	lastID   uint64
}

// Option configures a Flow
type Option func(*Flow)

// WithCallTimeout bounds each outbound call
func WithCallTimeout(d time.Duration) Option {
	return func(f *Flow) {
		if d > 0 {
			f.callTimeout = d
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(f *Flow) {
		if logger != nil {
			f.logger = logger
		}
	}
}

func WithPublisher(p Publisher) Option {
	return func(f *Flow) { f.publisher = p }
}

// New creates a flow over the given sources, driving binding
func New(geocoder datasource.Geocoder, temperatures datasource.TemperatureSource, binding Binding, opts ...Option) *Flow {
	f := &Flow{
		geocoder:     geocoder,
		temperatures: temperatures,
		binding:      binding.withDefaults(),
		logger:       zap.NewNop(),
		callTimeout:  datasource.DefaultRequestTimeout,
		state:        models.StateIdle,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// State returns the current flow state
func (f *Flow) State() models.FlowState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Busy reports whether a lookup is running
func (f *Flow) Busy() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

// Submit runs one lookup for the raw user input.
//
// A blank query shows MsgEmptyQuery and returns a validation error without any
// network call. A submission while another lookup runs returns ErrBusy and changes
// nothing. Otherwise the returned outcome is terminal and, when it is not a success,
// comes with the stage error. The trigger is enabled again on every exit path.
func (f *Flow) Submit(ctx context.Context, raw string) (outcome models.Outcome, err error) {
	query := strings.TrimSpace(raw)

	f.mu.Lock()
	if f.inFlight {
		f.mu.Unlock()
		return models.Outcome{Query: query, State: models.StateSearching}, ErrBusy
	}
	f.lastID++
	id := f.lastID
	if query == "" {
		f.mu.Unlock()
		f.binding.Surface.ShowText(id, MsgEmptyQuery)
		return models.Outcome{
			RequestID: id,
			State:     models.StateIdle,
			Text:      MsgEmptyQuery,
			ErrorKind: models.KindValidation,
		}, models.ValidationError(MsgEmptyQuery)
	}
	f.inFlight = true
	f.state = models.StateSearching
	f.mu.Unlock()

	f.binding.Trigger.SetEnabled(false)
	defer func() {
		f.mu.Lock()
		f.inFlight = false
		f.state = outcome.State
		f.mu.Unlock()
		f.binding.Trigger.SetEnabled(true)
	}()

	f.binding.Surface.ShowText(id, MsgSearching)

	outcome, err = f.run(ctx, id, query)

	f.binding.Surface.ShowText(id, outcome.Text)
	f.binding.Surface.SetTone(id, outcome.Tone)

	if f.publisher != nil {
		f.publisher.Publish(outcome)
	}
	return outcome, err
}

func (f *Flow) run(ctx context.Context, id uint64, query string) (models.Outcome, error) {
	log := f.logger.With(zap.Uint64("request_id", id), zap.String("city", query))
	start := time.Now()

	coords, err := f.geocode(ctx, query)
	if err != nil {
		log.Warn("geocoding failed", zap.Error(err))
		return failed(id, query, err, MsgGeocodeFailed, nil), err
	}

	// Only reached with a complete geocoding result
	reading, err := f.fetchTemperature(ctx, coords)
	if err != nil {
		log.Warn("temperature lookup failed",
			zap.Float64("latitude", coords.Latitude),
			zap.Float64("longitude", coords.Longitude),
			zap.Error(err))
		return failed(id, query, err, MsgWeatherFailed, &coords), err
	}

	rendering, err := render.ClassifyAndRender(coords.Name, reading.Celsius)
	if err != nil {
		log.Warn("rendering failed", zap.Float64("celsius", reading.Celsius), zap.Error(err))
		return failed(id, query, err, MsgWeatherFailed, &coords), err
	}

	log.Info("lookup succeeded",
		zap.String("name", coords.Name),
		zap.Float64("celsius", reading.Celsius),
		zap.Stringer("state", rendering.State),
		zap.Duration("took", time.Since(start)))

	return models.Outcome{
		RequestID:   id,
		Query:       query,
		State:       models.StateSuccess,
		Text:        rendering.Text,
		Tone:        rendering.Tone,
		Visual:      &rendering.State,
		Coordinates: &coords,
		Reading:     &reading,
	}, nil
}

func (f *Flow) geocode(ctx context.Context, query string) (models.Coordinates, error) {
	callCtx, cancel := context.WithTimeout(ctx, f.callTimeout)
	defer cancel()

	coords, err := f.geocoder.GeocodeCity(callCtx, query)
	if err != nil {
		return models.Coordinates{}, asLookupError(err)
	}
	return coords, nil
}

func (f *Flow) fetchTemperature(ctx context.Context, coords models.Coordinates) (models.TemperatureReading, error) {
	callCtx, cancel := context.WithTimeout(ctx, f.callTimeout)
	defer cancel()

	reading, err := f.temperatures.FetchCurrentTemperature(callCtx, coords.Latitude, coords.Longitude)
	if err != nil {
		return models.TemperatureReading{}, asLookupError(err)
	}
	return reading, nil
}

// asLookupError treats any untyped failure of a network stage as a network error
func asLookupError(err error) error {
	if models.KindOf(err) == "" {
		return models.NetworkError(err)
	}
	return err
}

func failed(id uint64, query string, err error, fallback string, coords *models.Coordinates) models.Outcome {
	return models.Outcome{
		RequestID:   id,
		Query:       query,
		State:       models.StateForError(err),
		Text:        models.UserMessage(err, fallback),
		Tone:        models.NeutralTone,
		Coordinates: coords,
		ErrorKind:   models.KindOf(err),
	}
}
