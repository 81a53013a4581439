package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config aggregates all runtime settings.
type Config struct {
	App    AppConfig    `envPrefix:"ADVISOR_"`
	HTTP   HTTPConfig
	CORS   CORSConfig   `envPrefix:"CORS_"`
	Sentry SentryConfig `envPrefix:"SENTRY_"`
}

type AppConfig struct {
	Environment string `env:"ENV" envDefault:"production"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"advisor-service"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
}

// HTTPConfig keeps HOST and PORT unprefixed so the service drops into
// platforms that inject PORT.
type HTTPConfig struct {
	Host              string        `env:"HOST" envDefault:"0.0.0.0"`
	Port              int           `env:"PORT" envDefault:"5000"`
	ReadTimeout       time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"5s"`
	ReadHeaderTimeout time.Duration `env:"HTTP_READ_HEADER_TIMEOUT" envDefault:"5s"`
	WriteTimeout      time.Duration `env:"HTTP_WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout       time.Duration `env:"HTTP_IDLE_TIMEOUT" envDefault:"120s"`
	ShutdownTimeout   time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"25s"`
	HandlerTimeout    time.Duration `env:"HTTP_HANDLER_TIMEOUT" envDefault:"60s"`
	MaxBodyBytes      int64         `env:"HTTP_MAX_BODY_BYTES" envDefault:"1048576"`
}

type CORSConfig struct {
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
}

// SentryConfig enables error reporting when DSN is set.
type SentryConfig struct {
	DSN              string        `env:"DSN"`
	Environment      string        `env:"ENVIRONMENT"`
	Release          string        `env:"RELEASE"`
	TracesSampleRate float64       `env:"TRACES_SAMPLE_RATE" envDefault:"0"`
	Debug            bool          `env:"DEBUG" envDefault:"false"`
	FlushTimeout     time.Duration `env:"FLUSH_TIMEOUT" envDefault:"2s"`
}

// Enabled reports whether a DSN was configured.
func (c SentryConfig) Enabled() bool {
	return c.DSN != ""
}

// Addr returns the listen address.
func (c HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Load parses environment variables into Config and performs validation.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if cfg.HTTP.Port < 1 || cfg.HTTP.Port > 65535 {
		return nil, fmt.Errorf("PORT must be between 1 and 65535, got %d", cfg.HTTP.Port)
	}
	if cfg.HTTP.MaxBodyBytes <= 0 {
		return nil, fmt.Errorf("HTTP_MAX_BODY_BYTES must be positive")
	}
	if cfg.Sentry.TracesSampleRate < 0 || cfg.Sentry.TracesSampleRate > 1 {
		return nil, fmt.Errorf("SENTRY_TRACES_SAMPLE_RATE must be within [0, 1]")
	}
	if cfg.Sentry.Environment == "" {
		cfg.Sentry.Environment = cfg.App.Environment
	}

	return cfg, nil
}
