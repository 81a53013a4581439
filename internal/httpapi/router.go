package httpapi

import (
	"net/http"
	"time"

	"github.com/bengobox/advisor-service/internal/httpapi/handlers"
	httpmiddleware "github.com/bengobox/advisor-service/internal/httpapi/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterDeps defines router construction dependencies.
type RouterDeps struct {
	Logger         *zap.Logger
	HealthHandler  http.HandlerFunc
	AdvisorHandler http.HandlerFunc
	MetricsHandler http.Handler
	Metrics        *httpmiddleware.Metrics
	// ReportErrors wraps handlers so panics reach the error reporter before
	// the recoverer answers 500.
	ReportErrors   func(http.Handler) http.Handler
	AllowedOrigins []string
	HandlerTimeout time.Duration
	MaxBodyBytes   int64
}

// NewRouter wires HTTP routes.
func NewRouter(deps RouterDeps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := deps.HandlerTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	origins := deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(httpmiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(httpmiddleware.RequestLogger(logger))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Instrument)
	}
	r.Use(chimiddleware.Recoverer)
	if deps.ReportErrors != nil {
		r.Use(deps.ReportErrors)
	}
	r.Use(chimiddleware.Timeout(timeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", httpmiddleware.RequestIDHeader},
		ExposedHeaders: []string{httpmiddleware.RequestIDHeader},
		MaxAge:         300,
	}))

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	if deps.HealthHandler != nil {
		r.Get("/health", deps.HealthHandler)
	}
	if deps.MetricsHandler != nil {
		r.Method("GET", "/metrics", deps.MetricsHandler)
	}
	if deps.AdvisorHandler != nil {
		if deps.MaxBodyBytes > 0 {
			r.With(httpmiddleware.MaxBodySize(deps.MaxBodyBytes)).Post("/advisor", deps.AdvisorHandler)
		} else {
			r.Post("/advisor", deps.AdvisorHandler)
		}
	}

	r.Get("/openapi.json", handlers.OpenAPIJSON)
	r.Get("/docs", handlers.SwaggerUI)

	return r
}
