package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/fg-stock-dashboard/api/internal/infrastructure/configs"
	"github.com/fg-stock-dashboard/api/internal/infrastructure/json"
	"github.com/fg-stock-dashboard/api/internal/infrastructure/logging"
	"github.com/fg-stock-dashboard/api/internal/infrastructure/metrics"
	healthHandler "github.com/fg-stock-dashboard/api/internal/presentation/handler/health"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

type Application struct {
	config        configs.Config
	healthHandler healthHandler.Handler
	logger        logging.Logger
	metrics       *metrics.Metrics
}

// NewApplication wires the HTTP service. A nil metrics disables request
// instrumentation and the metrics endpoint.
func NewApplication(
	config configs.Config,
	healthHandler healthHandler.Handler,
	logger logging.Logger,
	metrics *metrics.Metrics,
) *Application {
	return &Application{
		config:        config,
		healthHandler: healthHandler,
		logger:        logger,
		metrics:       metrics,
	}
}

func (app *Application) Mount() http.Handler {
	r := chi.NewRouter()
	r.Use(app.requestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(app.loggerMiddleware)
	if app.metrics != nil {
		r.Use(app.prometheusMiddleware)
	}
	r.Use(middleware.Recoverer)

	// preflight requests are answered here and never reach routing
	r.Use(app.corsMiddleware())

	if app.config.HTTP.RequestTimeout > 0 {
		r.Use(middleware.Timeout(app.config.HTTP.RequestTimeout))
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		json.WriteNotFoundError(w)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		json.WriteMethodNotAllowedError(w)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", app.healthHandler.GetHealth)
	})

	if app.metrics != nil && app.config.Metrics.Enabled {
		r.Method(http.MethodGet, app.config.Metrics.Path, app.metrics.Handler())
	}

	return otelhttp.NewHandler(r, app.config.Tracing.ServiceName)
}

// Serve handles connections on ln until ctx is cancelled, then drains
// in-flight requests for at most the configured shutdown timeout.
func (app *Application) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:      app.Mount(),
		ReadTimeout:  app.config.HTTP.ReadTimeout,
		WriteTimeout: app.config.HTTP.WriteTimeout,
		IdleTimeout:  app.config.HTTP.IdleTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- srv.Serve(ln)
	}()

	addr := ln.Addr().String()
	app.logger.Info(logging.General, logging.Startup, "server has started", map[logging.ExtraKey]any{
		logging.Address: addr,
	})

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve %s: %w", addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	app.logger.Info(logging.General, logging.Shutdown, "shutdown requested", map[logging.ExtraKey]any{
		logging.Address: addr,
	})

	shutdownCtx, cancel := context.WithTimeout(context.Background(), app.config.HTTP.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown %s: %w", addr, err)
	}
	<-serveErr

	app.logger.Info(logging.General, logging.Shutdown, "server has stopped", map[logging.ExtraKey]any{
		logging.Address: addr,
	})

	return nil
}

func (app *Application) Run(ctx context.Context) error {
	addr := app.config.HTTP.Addr()

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", addr, err)
	}

	return app.Serve(ctx, ln)
}
