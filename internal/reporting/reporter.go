package reporting

import (
	"fmt"
	"net/http"
	"time"

	"github.com/bengobox/advisor-service/internal/config"
	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"go.uber.org/zap"
)

// ErrorReporter forwards unhandled handler panics to an external service.
type ErrorReporter interface {
	Enabled() bool
	Middleware(next http.Handler) http.Handler
	Flush(timeout time.Duration) bool
}

// New picks the Sentry reporter when a DSN is configured and the no-op
// reporter otherwise.
func New(cfg config.SentryConfig, release, serviceName string, logger *zap.Logger) (ErrorReporter, error) {
	if !cfg.Enabled() {
		logger.Info("error reporting disabled", zap.String("reason", "SENTRY_DSN not set"))
		return Noop{}, nil
	}
	return NewSentry(cfg, release, serviceName, logger)
}

// Noop is used when no DSN is configured.
type Noop struct{}

func (Noop) Enabled() bool                             { return false }
func (Noop) Middleware(next http.Handler) http.Handler { return next }
func (Noop) Flush(time.Duration) bool                  { return true }

// Sentry reports through sentry-go bound to the request lifecycle.
type Sentry struct {
	handler *sentryhttp.Handler
	logger  *zap.Logger
}

// NewSentry initialises the global Sentry client.
func NewSentry(cfg config.SentryConfig, release, serviceName string, logger *zap.Logger) (*Sentry, error) {
	return newSentry(cfg, release, serviceName, logger, nil)
}

func newSentry(
	cfg config.SentryConfig,
	release, serviceName string,
	logger *zap.Logger,
	beforeSend func(*sentry.Event, *sentry.EventHint) *sentry.Event,
) (*Sentry, error) {
	if cfg.Release != "" {
		release = cfg.Release
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.DSN,
		Environment:      cfg.Environment,
		Release:          release,
		Debug:            cfg.Debug,
		SampleRate:       1.0,
		EnableTracing:    cfg.TracesSampleRate > 0,
		TracesSampleRate: cfg.TracesSampleRate,
		AttachStacktrace: true,
		BeforeSend:       beforeSend,
	})
	if err != nil {
		return nil, fmt.Errorf("init sentry: %w", err)
	}
	sentry.ConfigureScope(func(scope *sentry.Scope) {
		scope.SetTag("service", serviceName)
	})

	logger.Info("error reporting enabled",
		zap.String("environment", cfg.Environment),
		zap.String("release", release),
	)

	return &Sentry{
		handler: sentryhttp.New(sentryhttp.Options{Repanic: true}),
		logger:  logger,
	}, nil
}

func (s *Sentry) Enabled() bool { return true }

// Middleware captures panics and re-raises them so the router's recoverer
// still answers the request.
func (s *Sentry) Middleware(next http.Handler) http.Handler {
	return s.handler.Handle(next)
}

// Flush waits for buffered events to be delivered.
func (s *Sentry) Flush(timeout time.Duration) bool {
	ok := sentry.Flush(timeout)
	if !ok {
		s.logger.Warn("sentry flush timed out", zap.Duration("timeout", timeout))
	}
	return ok
}
