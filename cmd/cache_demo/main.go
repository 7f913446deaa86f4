// Command cache_demo repeats geocoding lookups against Open-Meteo to show the cache at work.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"city-weather/cache"
	"city-weather/datasource"

	"go.uber.org/zap"
)

func main() {
	cacheDuration := flag.Duration("ttl", 15*time.Second, "Geocoding cache TTL")
	flag.Parse()

	cities := flag.Args()
	if len(cities) == 0 {
		cities = []string{"Roma", "São Paulo", "ROMA"}
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	upstream := datasource.NewOpenMeteoGeocoder(datasource.DefaultGeocodingURL, datasource.DefaultRequestTimeout)
	geocoder := cache.NewCachedGeocoder(upstream, *cacheDuration, logger)

	ctx := context.Background()

	fmt.Println("*** First round, misses except for repeated spellings ***")
	lookup(ctx, geocoder, cities)

	fmt.Println("\n*** Second round, served from the cache ***")
	lookup(ctx, geocoder, cities)

	fmt.Printf("\nWaiting for the cache to expire (%s)...\n", *cacheDuration)
	time.Sleep(*cacheDuration + time.Second)
	fmt.Printf("Pruned %d entries\n", geocoder.Prune())

	fmt.Println("\n*** After expiry, misses again ***")
	lookup(ctx, geocoder, cities)

	hits, misses := geocoder.CacheStats()
	fmt.Printf("\nStats for %s: %d cache hits, %d cache misses\n", geocoder.Name(), hits, misses)
}

func lookup(ctx context.Context, geocoder datasource.Geocoder, cities []string) {
	for _, city := range cities {
		coords, err := geocoder.GeocodeCity(ctx, city)
		if err != nil {
			fmt.Printf("Error for %q: %v\n", city, err)
			continue
		}
		fmt.Printf("%q -> %s (%.4f, %.4f)\n", city, coords.Name, coords.Latitude, coords.Longitude)
	}
}
