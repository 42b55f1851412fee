package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	zlog "github.com/rs/zerolog/log"
	flag "github.com/spf13/pflag"
	"github.com/tarungka/mapsources"
	"github.com/tarungka/mapsources/internal/config"
	"github.com/tarungka/mapsources/internal/logger"
	"github.com/tarungka/mapsources/internal/metrics"
	"github.com/tarungka/mapsources/sinks"
	"github.com/tarungka/mapsources/sources"
	"github.com/tarungka/mapsources/stream"
)

const serviceName = "mapsources"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run reads file records from stdin, rewrites their source map sources and
// writes them to stdout. It returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cfg, err := config.Load(config.NewFlagSet(serviceName, stderr), args)
	if errors.Is(err, flag.ErrHelp) {
		return 0
	}
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	log := logger.New(serviceName, stderr, cfg.Debug)
	zlog.Logger = log // connectors log through the global logger

	registry := prometheus.NewRegistry()
	observer, err := metrics.NewObserver(serviceName, registry)
	if err != nil {
		log.Err(err).Msg("Error when registering metrics")
		return 1
	}

	rewriter := mapsources.New(
		mapsources.WithMapFunc(cfg.Map.MapFunc()),
		mapsources.WithLogger(log),
		mapsources.WithObserver(observer),
	)

	pipeline := stream.NewPipeline(
		sources.NewJSONSource("stdin", stdin),
		sinks.NewJSONSink("stdout", stdout),
	).WithLogger(log).AddOperator(rewriter)

	err = pipeline.Run(ctx)
	stats := pipeline.Stats()
	log.Info().Uint64("received", stats.Received).Uint64("emitted", stats.Emitted).Uint64("failed", stats.Failed).Msg("Pipeline finished")
	if cfg.Metrics {
		if metricsErr := metrics.WriteText(stderr, registry); metricsErr != nil {
			log.Err(metricsErr).Msg("Error when writing metrics")
		}
	}
	if err != nil {
		log.Err(err).Msg("Error when running the pipeline")
		return 1
	}
	return 0
}
