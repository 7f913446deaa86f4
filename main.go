package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"city-weather/api"
	"city-weather/app"
	"city-weather/datasource"
	"city-weather/flow"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// Load environment variables from .env file
	envErr := godotenv.Load()

	// Parse command line arguments
	port := flag.Int("port", 0, "Port to run the server on (overrides config)")
	configFile := flag.String("config", "config.json", "Path to configuration file")
	timeout := flag.Duration("timeout", 0, "Per-call timeout for outbound requests (overrides config)")
	enableRateLimiting := flag.Bool("rate-limit", false, "Pace outbound calls to the Open-Meteo API")
	pruneInterval := flag.Duration("prune", time.Hour, "Geocoding cache prune interval")
	flag.Parse()

	config, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port > 0 {
		config.Port = *port
	}
	if *timeout > 0 {
		config.RequestTimeout = datasource.Duration{Duration: *timeout}
	}
	if *enableRateLimiting {
		config.RateLimit.Enabled = true
	}

	logger, err := app.NewLogger(config.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Debug("no .env file loaded", zap.Error(envErr))
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	sources := app.BuildSources(startCtx, config, logger)
	cancel()

	display := api.NewDisplayStore()
	lookup := flow.New(sources.Geocoder, sources.Temperatures,
		flow.Binding{Surface: display, Trigger: display},
		sources.FlowOptions(config, logger)...)

	server := api.NewServer(lookup, display, config.Port, logger)

	// Set up channels for graceful shutdown
	shutdownChan := make(chan os.Signal, 1)
	signal.Notify(shutdownChan, syscall.SIGINT, syscall.SIGTERM)
	done := make(chan struct{})

	// Periodically drop expired geocoding entries
	if sources.GeocodeCache != nil {
		go func() {
			ticker := time.NewTicker(*pruneInterval)
			defer ticker.Stop()

			for {
				select {
				case <-ticker.C:
					pruned := sources.GeocodeCache.Prune()
					hits, misses := sources.GeocodeCache.CacheStats()
					logger.Info("pruned geocoding cache",
						zap.Int("pruned", pruned),
						zap.Int("hits", hits),
						zap.Int("misses", misses))
				case <-done:
					return
				}
			}
		}()
	}

	// Start the API server in a goroutine
	serverErr := make(chan error, 1)
	go func() {
		if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for shutdown signal
	select {
	case sig := <-shutdownChan:
		logger.Info("shutting down", zap.Stringer("signal", sig))
	case err := <-serverErr:
		logger.Error("server stopped", zap.Error(err))
	}
	close(done)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.Warn("server shutdown error", zap.Error(err))
	}
	sources.Close(ctx, logger)

	logger.Info("shutdown complete")
}

// loadConfig reads the config file, falling back to defaults when it does not exist,
// then applies environment overrides
func loadConfig(path string) (*datasource.Config, error) {
	config, err := datasource.LoadConfig(path)
	if errors.Is(err, os.ErrNotExist) {
		config, err = datasource.DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	if err := config.ApplyEnv(); err != nil {
		return nil, err
	}
	return config, nil
}
