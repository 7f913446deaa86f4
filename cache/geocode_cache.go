package cache

import (
	"context"
	"sync"
	"time"

	"city-weather/datasource"
	"city-weather/models"

	"go.uber.org/zap"
)

// CachedGeocoder wraps a Geocoder and remembers successful lookups in memory
type CachedGeocoder struct {
	geocoder       datasource.Geocoder
	cache          map[string]cacheEntry
	mutex          sync.RWMutex
	cacheDuration  time.Duration
	cacheHitCount  int
	cacheMissCount int
	logger         *zap.Logger
}

// cacheEntry represents cached coordinates with their timestamp
type cacheEntry struct {
	Data      models.Coordinates
	Timestamp time.Time
}

// NewCachedGeocoder creates a new cached wrapper around a geocoder
func NewCachedGeocoder(geocoder datasource.Geocoder, cacheDuration time.Duration, logger *zap.Logger) *CachedGeocoder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedGeocoder{
		geocoder:      geocoder,
		cache:         make(map[string]cacheEntry),
		cacheDuration: cacheDuration,
		logger:        logger,
	}
}

// Name returns the name of the underlying geocoder with [Cached] suffix
func (c *CachedGeocoder) Name() string {
	return c.geocoder.Name() + " [Cached]"
}

// GeocodeCity returns cached coordinates when fresh, otherwise asks the wrapped geocoder.
// Failures are never cached.
func (c *CachedGeocoder) GeocodeCity(ctx context.Context, query string) (models.Coordinates, error) {
	key := NormalizeKey(query)

	c.mutex.RLock()
	entry, found := c.cache[key]
	c.mutex.RUnlock()

	if found && time.Since(entry.Timestamp) < c.cacheDuration {
		c.mutex.Lock()
		c.cacheHitCount++
		c.mutex.Unlock()

		c.logger.Debug("geocode cache hit",
			zap.String("city", key),
			zap.Duration("age", time.Since(entry.Timestamp).Round(time.Second)))
		return entry.Data, nil
	}

	c.mutex.Lock()
	c.cacheMissCount++
	c.mutex.Unlock()

	c.logger.Debug("geocode cache miss", zap.String("city", key), zap.String("source", c.geocoder.Name()))

	coords, err := c.geocoder.GeocodeCity(ctx, query)
	if err != nil {
		return models.Coordinates{}, err
	}

	c.mutex.Lock()
	c.cache[key] = cacheEntry{
		Data:      coords,
		Timestamp: time.Now(),
	}
	c.mutex.Unlock()

	return coords, nil
}

// Prune drops expired entries and returns how many were removed
func (c *CachedGeocoder) Prune() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	pruned := 0
	for key, entry := range c.cache {
		if time.Since(entry.Timestamp) >= c.cacheDuration {
			delete(c.cache, key)
			pruned++
		}
	}
	return pruned
}

// CacheStats returns statistics about cache hits and misses
func (c *CachedGeocoder) CacheStats() (hits, misses int) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.cacheHitCount, c.cacheMissCount
}

var _ datasource.Geocoder = (*CachedGeocoder)(nil)
