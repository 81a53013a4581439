package app

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"github.com/bengobox/advisor-service/internal/advisor"
	"github.com/bengobox/advisor-service/internal/config"
	"github.com/bengobox/advisor-service/internal/httpapi"
	"github.com/bengobox/advisor-service/internal/httpapi/handlers"
	httpmiddleware "github.com/bengobox/advisor-service/internal/httpapi/middleware"
	"github.com/bengobox/advisor-service/internal/reporting"
	"github.com/bengobox/advisor-service/internal/version"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const metricsNamespace = "advisor"

// App wires core dependencies and exposes server lifecycle controls.
type App struct {
	cfg        *config.Config
	logger     *zap.Logger
	reporter   reporting.ErrorReporter
	httpServer *http.Server
}

// New constructs the application.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	reporter, err := reporting.New(cfg.Sentry, version.Version, cfg.App.ServiceName, logger)
	if err != nil {
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := httpmiddleware.NewMetrics(registry, metricsNamespace)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}

	advisorHandler := handlers.NewAdvisorHandler(advisor.NewStub(), logger)

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Logger:         logger,
		HealthHandler:  handlers.Health,
		AdvisorHandler: advisorHandler.Advise,
		MetricsHandler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry}),
		Metrics:        metrics,
		ReportErrors:   reporter.Middleware,
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		HandlerTimeout: cfg.HTTP.HandlerTimeout,
		MaxBodyBytes:   cfg.HTTP.MaxBodyBytes,
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr(),
		Handler:           router,
		ReadTimeout:       cfg.HTTP.ReadTimeout,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
		WriteTimeout:      cfg.HTTP.WriteTimeout,
		IdleTimeout:       cfg.HTTP.IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	return &App{
		cfg:        cfg,
		logger:     logger,
		reporter:   reporter,
		httpServer: server,
	}, nil
}

// Handler exposes the router, mainly for tests.
func (a *App) Handler() http.Handler {
	return a.httpServer.Handler
}

// Run binds the listener and serves until Shutdown. A bind failure is
// returned immediately.
func (a *App) Run() error {
	ln, err := net.Listen("tcp", a.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", a.httpServer.Addr, err)
	}
	return a.Serve(ln)
}

// Serve accepts connections on ln until Shutdown.
func (a *App) Serve(ln net.Listener) error {
	a.logger.Info("starting HTTP server",
		zap.String("addr", ln.Addr().String()),
		zap.String("version", version.Version),
		zap.Bool("error_reporting", a.reporter.Enabled()),
	)
	if err := a.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("serve: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP server and flushes pending error reports.
func (a *App) Shutdown(ctx context.Context) error {
	shutdownErr := a.httpServer.Shutdown(ctx)

	a.reporter.Flush(a.cfg.Sentry.FlushTimeout)
	return shutdownErr
}
