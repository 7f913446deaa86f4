package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"city-weather/datasource"
	"city-weather/models"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const redisKeyPrefix = "geocode:"

// RedisGeocoder shares geocoding results between instances through Redis.
// Redis being unavailable never fails a lookup; it only costs a call upstream.
type RedisGeocoder struct {
	geocoder datasource.Geocoder
	redis    *redis.Client
	ttl      time.Duration
	logger   *zap.Logger
}

func NewRedisGeocoder(geocoder datasource.Geocoder, client *redis.Client, ttl time.Duration, logger *zap.Logger) *RedisGeocoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisGeocoder{
		geocoder: geocoder,
		redis:    client,
		ttl:      ttl,
		logger:   logger,
	}
}

// ConnectRedis parses a redis:// URL and pings the server
func ConnectRedis(ctx context.Context, redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}

func (r *RedisGeocoder) Name() string {
	return r.geocoder.Name() + " [Redis]"
}

func (r *RedisGeocoder) GeocodeCity(ctx context.Context, query string) (models.Coordinates, error) {
	key := redisKeyPrefix + NormalizeKey(query)

	data, err := r.redis.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var coords models.Coordinates
		if json.Unmarshal(data, &coords) == nil {
			r.logger.Debug("redis cache hit", zap.String("key", key))
			return coords, nil
		}
		r.logger.Warn("discarding unreadable cache entry", zap.String("key", key))
	case errors.Is(err, redis.Nil):
	default:
		r.logger.Warn("redis read failed", zap.String("key", key), zap.Error(err))
	}

	coords, err := r.geocoder.GeocodeCity(ctx, query)
	if err != nil {
		return models.Coordinates{}, err
	}

	if value, err := json.Marshal(coords); err == nil {
		if err := r.redis.Set(ctx, key, value, r.ttl).Err(); err != nil {
			r.logger.Warn("redis write failed", zap.String("key", key), zap.Error(err))
		}
	}

	return coords, nil
}

var _ datasource.Geocoder = (*RedisGeocoder)(nil)
