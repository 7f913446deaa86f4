// Command weathercli looks up the current temperature of cities typed on stdin.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"time"

	"city-weather/app"
	"city-weather/datasource"
	"city-weather/flow"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	godotenv.Load()

	configFile := flag.String("config", "config.json", "Path to configuration file")
	timeout := flag.Duration("timeout", 0, "Per-call timeout for outbound requests (overrides config)")
	logLevel := flag.String("log-level", "warn", "Log level (logs go to stderr)")
	noColor := flag.Bool("no-color", false, "Disable coloured output")
	flag.Parse()

	config, err := datasource.LoadConfig(*configFile)
	if errors.Is(err, os.ErrNotExist) {
		config, err = datasource.DefaultConfig(), nil
	}
	if err == nil {
		err = config.ApplyEnv()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *timeout > 0 {
		config.RequestTimeout = datasource.Duration{Duration: *timeout}
	}

	logger, err := app.NewLogger(*logLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	sources := app.BuildSources(ctx, config, logger)
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		sources.Close(closeCtx, logger)
	}()

	surface := newTerminalSurface(os.Stdout, !*noColor)
	lookup := flow.New(sources.Geocoder, sources.Temperatures,
		flow.Binding{Surface: surface, Trigger: flow.NopTrigger{}},
		sources.FlowOptions(config, logger)...)

	// Cities given as arguments are looked up once each
	if flag.NArg() > 0 {
		for _, city := range flag.Args() {
			run(ctx, lookup, surface, logger, city)
		}
		return
	}

	fmt.Println("Inserire una città (Ctrl-D per uscire)")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() || ctx.Err() != nil {
			fmt.Println()
			return
		}
		run(ctx, lookup, surface, logger, scanner.Text())
	}
}

func run(ctx context.Context, lookup *flow.Flow, surface *terminalSurface, logger *zap.Logger, city string) {
	_, err := lookup.Submit(ctx, city)
	surface.done()
	if err != nil {
		logger.Debug("lookup failed", zap.String("city", strings.TrimSpace(city)), zap.Error(err))
	}
}
