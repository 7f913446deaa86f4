// Package app assembles the lookup sources from configuration.
package app

import (
	"context"
	"fmt"

	"city-weather/cache"
	"city-weather/datasource"
	"city-weather/events"
	"city-weather/flow"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewLogger builds a logger for the given level. "debug" gets the development encoder.
func NewLogger(level string) (*zap.Logger, error) {
	if level == "debug" {
		return zap.NewDevelopment()
	}

	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}

// Sources is the wired geocoder and temperature chains plus the resources behind them
type Sources struct {
	Geocoder     datasource.Geocoder
	Temperatures datasource.TemperatureSource

	// GeocodeCache is the in-memory layer; prune it periodically
	GeocodeCache *cache.CachedGeocoder
	Redis        *redis.Client
	Producer     *events.Producer
}

// BuildSources wires the Open-Meteo clients with pacing, caches and the optional
// Redis and Kafka backends. Redis or Kafka being unreachable is logged and skipped.
func BuildSources(ctx context.Context, cfg *datasource.Config, logger *zap.Logger) *Sources {
	timeout := cfg.RequestTimeout.Duration

	var geocoder datasource.Geocoder = datasource.NewOpenMeteoGeocoder(cfg.Geocoding.BaseURL, timeout,
		datasource.WithLanguage(cfg.Geocoding.Language),
		datasource.WithResultCount(cfg.Geocoding.Count))
	var temperatures datasource.TemperatureSource = datasource.NewOpenMeteoForecast(cfg.Forecast.BaseURL, timeout)

	if cfg.RateLimit.Enabled {
		geocoder = datasource.NewRateLimitedGeocoder(geocoder, cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		temperatures = datasource.NewRateLimitedTemperatureSource(temperatures, cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		logger.Info("applied outbound rate limiting",
			zap.Float64("rps", cfg.RateLimit.RPS),
			zap.Int("burst", cfg.RateLimit.Burst))
	}

	s := &Sources{}

	if cfg.Cache.RedisURL != "" {
		client, err := cache.ConnectRedis(ctx, cfg.Cache.RedisURL)
		if err != nil {
			logger.Warn("redis disabled", zap.Error(err))
		} else {
			s.Redis = client
			geocoder = cache.NewRedisGeocoder(geocoder, client, cfg.Cache.GeocodeTTL.Duration, logger)
		}
	}

	if ttl := cfg.Cache.GeocodeTTL.Duration; ttl > 0 {
		s.GeocodeCache = cache.NewCachedGeocoder(geocoder, ttl, logger)
		geocoder = s.GeocodeCache
	}
	if ttl := cfg.Cache.TemperatureTTL.Duration; ttl > 0 {
		temperatures = cache.NewCachedTemperatureSource(temperatures, ttl, logger)
	}

	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := events.NewProducer(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
		if err != nil {
			logger.Warn("kafka disabled", zap.Error(err))
		} else {
			s.Producer = producer
		}
	}

	s.Geocoder = geocoder
	s.Temperatures = temperatures
	logger.Info("lookup sources ready",
		zap.String("geocoder", geocoder.Name()),
		zap.String("temperatures", temperatures.Name()))
	return s
}

// FlowOptions returns the flow options matching the configuration
func (s *Sources) FlowOptions(cfg *datasource.Config, logger *zap.Logger) []flow.Option {
	opts := []flow.Option{
		flow.WithCallTimeout(cfg.RequestTimeout.Duration),
		flow.WithLogger(logger),
	}
	if s.Producer != nil {
		opts = append(opts, flow.WithPublisher(s.Producer))
	}
	return opts
}

// Close releases the Redis and Kafka clients
func (s *Sources) Close(ctx context.Context, logger *zap.Logger) {
	if s.Producer != nil {
		s.Producer.Close(ctx)
	}
	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			logger.Warn("redis close error", zap.Error(err))
		}
	}
}
