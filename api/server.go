package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"city-weather/flow"
	"city-weather/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Server represents the API server
type Server struct {
	flow    *flow.Flow
	display *DisplayStore
	server  *http.Server
	logger  *zap.Logger
}

// NewServer creates a new API server. display must be the surface and trigger bound to f.
func NewServer(f *flow.Flow, display *DisplayStore, port int, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := &Server{
		flow:    f,
		display: display,
		logger:  logger,
	}

	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handlePage)
	r.Route("/api", func(r chi.Router) {
		r.Get("/weather", s.handleWeather)
		r.Get("/display", s.handleDisplay)
		r.Get("/health", s.handleHealthCheck)
	})

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the router
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Start begins the API server
func (s *Server) Start() error {
	s.logger.Info("starting API server", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// handleWeather runs one lookup for ?city= and returns the outcome
func (s *Server) handleWeather(w http.ResponseWriter, r *http.Request) {
	city := r.URL.Query().Get("city")

	outcome, err := s.flow.Submit(r.Context(), city)
	s.logOutcome(r, city, err)

	if errors.Is(err, flow.ErrBusy) {
		writeJSON(w, http.StatusConflict, map[string]string{
			"error": err.Error(),
			"state": outcome.State.String(),
		})
		return
	}
	writeJSON(w, statusFor(err), outcome)
}

// handleDisplay returns what the page currently shows
func (s *Server) handleDisplay(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.display.Snapshot())
}

// handleHealthCheck provides a simple health check endpoint
func (s *Server) handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"state":     s.flow.State().String(),
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) logOutcome(r *http.Request, city string, err error) {
	fields := []zap.Field{
		zap.String("request_id", RequestIDFrom(r.Context())),
		zap.String("city", city),
	}
	if err != nil {
		s.logger.Info("lookup finished with error", append(fields, zap.Error(err))...)
		return
	}
	s.logger.Info("lookup finished", fields...)
}

// statusFor maps a lookup error to an HTTP status
func statusFor(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, flow.ErrBusy) {
		return http.StatusConflict
	}
	switch models.KindOf(err) {
	case models.KindValidation:
		return http.StatusBadRequest
	case models.KindNotFound:
		return http.StatusNotFound
	case models.KindDataUnavailable, models.KindInvalidCoordinates, models.KindInvalidTemperature:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
