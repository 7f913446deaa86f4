package cache

import (
	"context"
	"sync"
	"time"

	"city-weather/datasource"
	"city-weather/models"

	"go.uber.org/zap"
)

// CachedTemperatureSource wraps a TemperatureSource and keeps readings for a short time
type CachedTemperatureSource struct {
	source         datasource.TemperatureSource
	cache          map[string]temperatureCacheEntry // key is rounded "lat,lon"
	mutex          sync.RWMutex
	cacheDuration  time.Duration
	cacheHitCount  int
	cacheMissCount int
	logger         *zap.Logger
}

type temperatureCacheEntry struct {
	Data      models.TemperatureReading
	Timestamp time.Time
}

// NewCachedTemperatureSource creates a new cached wrapper around a temperature source
func NewCachedTemperatureSource(source datasource.TemperatureSource, cacheDuration time.Duration, logger *zap.Logger) *CachedTemperatureSource {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedTemperatureSource{
		source:        source,
		cache:         make(map[string]temperatureCacheEntry),
		cacheDuration: cacheDuration,
		logger:        logger,
	}
}

// Name returns the name of the underlying source with [Cached] suffix
func (c *CachedTemperatureSource) Name() string {
	return c.source.Name() + " [Cached]"
}

// FetchCurrentTemperature returns a cached reading when fresh.
// Invalid coordinates go straight to the source so it reports the error.
func (c *CachedTemperatureSource) FetchCurrentTemperature(ctx context.Context, lat, lon float64) (models.TemperatureReading, error) {
	if !datasource.ValidCoordinates(lat, lon) {
		return c.source.FetchCurrentTemperature(ctx, lat, lon)
	}

	cacheKey := coordinateKey(lat, lon)

	c.mutex.RLock()
	entry, found := c.cache[cacheKey]
	c.mutex.RUnlock()

	if found && time.Since(entry.Timestamp) < c.cacheDuration {
		c.mutex.Lock()
		c.cacheHitCount++
		c.mutex.Unlock()

		c.logger.Debug("temperature cache hit", zap.String("coordinates", cacheKey))
		return entry.Data, nil
	}

	c.mutex.Lock()
	c.cacheMissCount++
	c.mutex.Unlock()

	reading, err := c.source.FetchCurrentTemperature(ctx, lat, lon)
	if err != nil {
		return models.TemperatureReading{}, err
	}

	c.mutex.Lock()
	c.cache[cacheKey] = temperatureCacheEntry{
		Data:      reading,
		Timestamp: time.Now(),
	}
	c.mutex.Unlock()

	return reading, nil
}

// CacheStats returns statistics about cache hits and misses
func (c *CachedTemperatureSource) CacheStats() (hits, misses int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.cacheHitCount, c.cacheMissCount
}

var _ datasource.TemperatureSource = (*CachedTemperatureSource)(nil)
