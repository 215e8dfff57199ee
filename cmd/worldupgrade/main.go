package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"worldupgrade/internal/chunkfix"
	"worldupgrade/internal/config"
	"worldupgrade/internal/datafix"
	"worldupgrade/internal/store"
	"worldupgrade/internal/upgrade"
)

func main() {
	var (
		cfgPath   string
		dryRun    bool
		workers   int
		dimension string
	)
	flag.StringVar(&cfgPath, "config", "", "path to upgrade configuration file (.json, .yaml or .yml)")
	flag.BoolVar(&dryRun, "dry-run", false, "migrate records without writing them back")
	flag.IntVar(&workers, "workers", 0, "override upgrade.workers")
	flag.StringVar(&dimension, "dimension", "", "override world.dimension")
	flag.Parse()

	if _, err := writeConfigFromEnv(cfgPath); err != nil {
		fmt.Fprintf(os.Stderr, "materialize config: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if dryRun {
		cfg.Upgrade.DryRun = true
	}
	if workers > 0 {
		cfg.Upgrade.Workers = workers
	}
	if dimension != "" {
		cfg.World.Dimension = dimension
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		fmt.Fprintf(os.Stderr, "initialise logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	ctx, cancel := signalContext(logger)
	defer cancel()

	if err := run(ctx, cfg, logger); err != nil {
		logger.Fatal("upgrade exited with error", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, logger *zap.Logger) error {
	source, err := store.Open(cfg.Source.Kind, cfg.Source.Path, logger.Named("source"))
	if err != nil {
		return errors.Wrap(err, "open source store")
	}
	defer source.Close()

	sink := source
	if cfg.Sink.Kind != "" {
		sink, err = store.Open(cfg.Sink.Kind, cfg.Sink.Path, logger.Named("sink"))
		if err != nil {
			return errors.Wrap(err, "open sink store")
		}
		defer sink.Close()
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := upgrade.NewMetrics(reg)
	if cfg.Metrics.ListenAddr != "" {
		srv := serveMetrics(cfg.Metrics.ListenAddr, reg, logger)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	fixes := append(datafix.BlockRenameFixes(), chunkfix.New(logger.Named("chunkfix")))
	runner := upgrade.NewRunner(source, sink, datafix.NewRegistry(fixes...), upgrade.Options{
		Context: datafix.Context{
			Dimension: cfg.World.Dimension,
			Generator: cfg.World.Generator,
		},
		TargetVersion:    cfg.Upgrade.TargetVersion,
		DefaultVersion:   cfg.Upgrade.DefaultVersion,
		Workers:          cfg.Upgrade.Workers,
		BatchSize:        cfg.Upgrade.BatchSize,
		FailFast:         cfg.Upgrade.FailFast,
		DryRun:           cfg.Upgrade.DryRun,
		ProgressInterval: cfg.Upgrade.ProgressInterval.Duration(),
	}, logger.Named("upgrade"), metrics)

	summary, err := runner.Run(ctx)
	if err != nil {
		return err
	}
	if summary.Failed > 0 {
		return errors.Errorf("%d of %d records failed to upgrade", summary.Failed, summary.Total())
	}
	return nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	level, err := zap.ParseAtomicLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	zcfg.Level = level
	return zcfg.Build()
}

func serveMetrics(addr string, reg *prometheus.Registry, logger *zap.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics endpoint stopped", zap.Error(err))
		}
	}()
	logger.Info("serving metrics", zap.String("addr", addr))
	return srv
}

func signalContext(logger *zap.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case sig := <-signals:
			logger.Info("stopping after current batch", zap.Stringer("signal", sig))
			cancel()
		case <-ctx.Done():
			return
		}

		// Ensure the process terminates if shutdown stalls.
		time.AfterFunc(30*time.Second, func() {
			logger.Error("forced shutdown after timeout")
			os.Exit(1)
		})
	}()

	return ctx, cancel
}
