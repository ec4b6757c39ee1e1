package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fg-stock-dashboard/api/internal/infrastructure/configs"
	"github.com/fg-stock-dashboard/api/internal/infrastructure/logging"
	"github.com/fg-stock-dashboard/api/internal/infrastructure/metrics"
	"github.com/fg-stock-dashboard/api/internal/infrastructure/tracing"
	"github.com/fg-stock-dashboard/api/internal/presentation/api"
	"github.com/fg-stock-dashboard/api/internal/presentation/handler/health"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "fg-stock-dashboard-api: %v\n", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string) error {
	configPath, err := configs.DetermineConfigPath(args)
	if err != nil {
		return err
	}

	cfg, err := configs.Load(configPath)
	if err != nil {
		return err
	}

	logger, err := logging.NewLogger(&logging.LoggerConfig{
		FilePath: cfg.Logger.FilePath,
		Encoding: cfg.Logger.Encoding,
		Level:    cfg.Logger.Level,
		Logger:   cfg.Logger.Logger,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize the logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info(logging.Config, logging.Startup, "configuration loaded", map[logging.ExtraKey]any{
		logging.ConfigPath: configPath,
		logging.Address:    cfg.HTTP.Addr(),
	})

	shutdownTracer, err := tracing.InitTracer(ctx, tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Tracing.Environment,
		Endpoint:    cfg.Tracing.Endpoint,
		SampleRatio: cfg.Tracing.SampleRatio,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize the tracer: %w", err)
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracer(flushCtx); err != nil {
			logger.Error(logging.Tracing, logging.Shutdown, "failed to flush traces", map[logging.ExtraKey]any{
				logging.ErrorMessage: err.Error(),
			})
		}
	}()

	var m *metrics.Metrics
	if cfg.Metrics.Enabled {
		m = metrics.New()
	}

	app := api.NewApplication(*cfg, *health.NewHandler(), logger, m)

	return app.Run(ctx)
}
