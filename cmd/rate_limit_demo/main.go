// Command rate_limit_demo shows the outbound pacing against a simulated geocoder.
package main

import (
	"context"
	"flag"
	"fmt"
	"sync"
	"time"

	"city-weather/datasource"
	"city-weather/models"

	"go.uber.org/zap"
)

// slowGeocoder simulates latency and counts calls
type slowGeocoder struct {
	mu      sync.Mutex
	calls   int
	latency time.Duration
}

func (g *slowGeocoder) GeocodeCity(ctx context.Context, query string) (models.Coordinates, error) {
	g.mu.Lock()
	g.calls++
	g.mu.Unlock()

	select {
	case <-time.After(g.latency):
	case <-ctx.Done():
		return models.Coordinates{}, models.NetworkError(ctx.Err())
	}
	return models.Coordinates{Name: query, Latitude: 45.46, Longitude: 9.19}, nil
}

func (g *slowGeocoder) Name() string {
	return "SimulatedGeocoder"
}

func (g *slowGeocoder) callCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

func main() {
	requestsPerSecond := flag.Float64("rps", 1.0, "Rate limit in requests per second")
	burstSize := flag.Int("burst", 3, "Maximum burst size")
	totalRequests := flag.Int("requests", 10, "Total number of requests to make")
	concurrentRequests := flag.Int("concurrent", 5, "Number of concurrent requests")
	flag.Parse()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sim := &slowGeocoder{latency: 200 * time.Millisecond}
	geocoder := datasource.NewRateLimitedGeocoder(sim, *requestsPerSecond, *burstSize)

	logger.Info("starting pacing demo",
		zap.String("geocoder", geocoder.Name()),
		zap.Float64("rps", *requestsPerSecond),
		zap.Int("burst", *burstSize),
		zap.Int("requests", *totalRequests),
		zap.Int("workers", *concurrentRequests))

	startTime := time.Now()
	var wg sync.WaitGroup

	for i := 0; i < *concurrentRequests; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()

			n := *totalRequests / *concurrentRequests
			if workerID < *totalRequests%*concurrentRequests {
				n++
			}

			for j := 0; j < n; j++ {
				city := fmt.Sprintf("City-%d-%d", workerID, j)
				before := time.Now()
				_, err := geocoder.GeocodeCity(ctx, city)
				if err != nil {
					logger.Warn("request failed", zap.Int("worker", workerID), zap.String("city", city), zap.Error(err))
					continue
				}
				logger.Info("request completed", zap.Int("worker", workerID), zap.String("city", city), zap.Duration("took", time.Since(before)))
			}
		}(i)
	}
	wg.Wait()

	totalTime := time.Since(startTime)
	actualRPS := float64(*totalRequests) / totalTime.Seconds()

	expectedMinTime := float64(*totalRequests-*burstSize) / *requestsPerSecond
	if expectedMinTime < 0 {
		expectedMinTime = 0
	}

	fmt.Printf("\nTotal time: %.2f seconds\n", totalTime.Seconds())
	fmt.Printf("Actual requests per second: %.2f\n", actualRPS)
	fmt.Printf("Requests reaching the geocoder: %d\n", sim.callCount())
	fmt.Printf("Expected minimum time (theoretical): %.2f seconds\n", expectedMinTime)

	if actualRPS > *requestsPerSecond*1.5 && *totalRequests > *burstSize {
		fmt.Println("Actual rate is well above the configured limit")
	} else {
		fmt.Println("Pacing holds")
	}
}
