package app

import (
	"context"
	"testing"
	"time"

	"city-weather/datasource"

	"go.uber.org/zap"
)

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := NewLogger(level)
		if err != nil {
			t.Errorf("NewLogger(%q) failed: %v", level, err)
			continue
		}
		logger.Sync()
	}
	if _, err := NewLogger("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestBuildSourcesChain(t *testing.T) {
	cfg := datasource.DefaultConfig()
	cfg.RateLimit.Enabled = true
	cfg.Cache.TemperatureTTL = datasource.Duration{Duration: time.Minute}

	s := BuildSources(context.Background(), cfg, zap.NewNop())
	defer s.Close(context.Background(), zap.NewNop())

	if got, want := s.Geocoder.Name(), "Open-Meteo Geocoding [Rate Limited] [Cached]"; got != want {
		t.Errorf("geocoder = %q, want %q", got, want)
	}
	if got, want := s.Temperatures.Name(), "Open-Meteo Forecast [Rate Limited] [Cached]"; got != want {
		t.Errorf("temperatures = %q, want %q", got, want)
	}
	if s.GeocodeCache == nil || s.Redis != nil || s.Producer != nil {
		t.Errorf("sources = %+v", s)
	}
	if n := len(s.FlowOptions(cfg, zap.NewNop())); n != 2 {
		t.Errorf("flow options = %d, want 2", n)
	}
}

func TestBuildSourcesWithoutCaches(t *testing.T) {
	cfg := datasource.DefaultConfig()
	cfg.Cache.GeocodeTTL = datasource.Duration{}

	s := BuildSources(context.Background(), cfg, zap.NewNop())
	if s.GeocodeCache != nil {
		t.Error("geocode cache built with zero TTL")
	}
	if got := s.Geocoder.Name(); got != "Open-Meteo Geocoding" {
		t.Errorf("geocoder = %q", got)
	}
}

func TestBuildSourcesSkipsUnreachableRedis(t *testing.T) {
	cfg := datasource.DefaultConfig()
	cfg.Cache.RedisURL = "redis://127.0.0.1:1"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	s := BuildSources(ctx, cfg, zap.NewNop())
	if s.Redis != nil {
		t.Error("unreachable Redis was wired")
	}
	if s.Geocoder == nil {
		t.Fatal("no geocoder")
	}
}
