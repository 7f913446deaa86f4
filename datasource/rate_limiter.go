package datasource

import (
	"context"
	"fmt"

	"city-weather/models"

	"golang.org/x/time/rate"
)

// RateLimitedGeocoder wraps a Geocoder with client-side pacing
type RateLimitedGeocoder struct {
	geocoder Geocoder
	limiter  *rate.Limiter
	name     string
}

// NewRateLimitedGeocoder creates a new rate limited geocoder
// rps is the maximum requests per second allowed (can be fractional for less than 1 request per second)
// burst is the maximum burst size allowed
func NewRateLimitedGeocoder(geocoder Geocoder, rps float64, burst int) *RateLimitedGeocoder {
	return &RateLimitedGeocoder{
		geocoder: geocoder,
		limiter:  rate.NewLimiter(rate.Limit(rps), burst),
		name:     fmt.Sprintf("%s [Rate Limited]", geocoder.Name()),
	}
}

// GeocodeCity waits for a token, then forwards to the wrapped geocoder.
// A wait cut short by the context counts as a network failure.
func (r *RateLimitedGeocoder) GeocodeCity(ctx context.Context, query string) (models.Coordinates, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return models.Coordinates{}, models.NetworkError(fmt.Errorf("rate limit wait canceled: %w", err))
	}
	return r.geocoder.GeocodeCity(ctx, query)
}

// Name returns the geocoder name
func (r *RateLimitedGeocoder) Name() string {
	return r.name
}

// RateLimitedTemperatureSource wraps a TemperatureSource with client-side pacing
type RateLimitedTemperatureSource struct {
	source  TemperatureSource
	limiter *rate.Limiter
	name    string
}

// NewRateLimitedTemperatureSource creates a new rate limited temperature source
func NewRateLimitedTemperatureSource(source TemperatureSource, rps float64, burst int) *RateLimitedTemperatureSource {
	return &RateLimitedTemperatureSource{
		source:  source,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
		name:    fmt.Sprintf("%s [Rate Limited]", source.Name()),
	}
}

// FetchCurrentTemperature checks the coordinates, waits for a token, then forwards.
// Invalid coordinates are rejected without spending a token.
func (r *RateLimitedTemperatureSource) FetchCurrentTemperature(ctx context.Context, lat, lon float64) (models.TemperatureReading, error) {
	if !ValidCoordinates(lat, lon) {
		return models.TemperatureReading{}, models.InvalidCoordinatesError(MsgInvalidCoordinates, lat, lon)
	}
	if err := r.limiter.Wait(ctx); err != nil {
		return models.TemperatureReading{}, models.NetworkError(fmt.Errorf("rate limit wait canceled: %w", err))
	}
	return r.source.FetchCurrentTemperature(ctx, lat, lon)
}

// Name returns the source name
func (r *RateLimitedTemperatureSource) Name() string {
	return r.name
}

var (
	_ Geocoder          = (*RateLimitedGeocoder)(nil)
	_ TemperatureSource = (*RateLimitedTemperatureSource)(nil)
)
