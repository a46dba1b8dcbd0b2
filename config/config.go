package config

import (
	"errors"
	"fmt"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - xapi.go: remote API client configuration
//   - ingest.go: ingestion pipeline configuration
//   - database.go: PostgreSQL and Redis configuration
//   - http.go: HTTP server configuration
//   - observability.go: logging and metrics configuration
type AppConfig struct {
	// Remote API configuration
	XAPI XAPIConfig `envPrefix:"X_API_"`

	// Ingestion pipeline configuration
	Ingest IngestConfig `envPrefix:"INGEST_"`

	// Database configuration
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Logging configuration
	Log LogConfig `envPrefix:"LOG_"`

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.XAPI.Sanitize()
	c.Ingest.Sanitize()
	c.Postgres.Sanitize()
	c.HTTP.Sanitize()
	c.Log.Sanitize()
	c.Observability.Sanitize()
}

// Validate reports settings that have no safe default. Secrets are never defaulted.
func (c *AppConfig) Validate() error {
	var errs []error
	if err := c.XAPI.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Postgres.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}
