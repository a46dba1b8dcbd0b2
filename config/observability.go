package config

import (
	"log/slog"
	"strings"
)

const defaultMetricsPrefix = "xstats"

// LogConfig controls the process logger.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `env:"LEVEL" envDefault:"info"`
}

// Sanitize normalises the level name.
func (c *LogConfig) Sanitize() {
	c.Level = strings.ToLower(strings.TrimSpace(c.Level))
	if _, ok := parseLevel(c.Level); !ok {
		c.Level = "info"
	}
}

// SlogLevel returns the configured level, defaulting to info.
func (c LogConfig) SlogLevel() slog.Level {
	level, _ := parseLevel(c.Level)
	return level
}

func parseLevel(s string) (slog.Level, bool) {
	switch s {
	case "debug":
		return slog.LevelDebug, true
	case "info", "":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// ObservabilityConfig groups configuration that controls metrics emission.
type ObservabilityConfig struct {
	Metrics ObservabilityMetricsConfig
}

// Sanitize applies guardrails to observability sub-configs.
func (c *ObservabilityConfig) Sanitize() {
	c.Metrics.Sanitize()
}

// ObservabilityMetricsConfig controls emission of metrics to StatsD and the
// Prometheus scrape endpoint. Both backends may be active at once.
type ObservabilityMetricsConfig struct {
	Enabled           bool   `env:"OBSERVABILITY_METRICS_ENABLED"            envDefault:"false"`
	StatsdAddress     string `env:"OBSERVABILITY_METRICS_STATSD_ADDRESS"     envDefault:"127.0.0.1:8125"`
	Prefix            string `env:"OBSERVABILITY_METRICS_PREFIX"             envDefault:"xstats"`
	PrometheusEnabled bool   `env:"OBSERVABILITY_METRICS_PROMETHEUS_ENABLED" envDefault:"true"`
}

// Sanitize normalises derived fields and enforces safe defaults.
func (c *ObservabilityMetricsConfig) Sanitize() {
	c.StatsdAddress = strings.TrimSpace(c.StatsdAddress)
	if c.StatsdAddress == "" {
		c.Enabled = false
	}
	if c.Prefix = strings.TrimSpace(c.Prefix); c.Prefix == "" {
		c.Prefix = defaultMetricsPrefix
	}
}

// IsEnabled returns true when StatsD emission is active after sanitisation.
func (c *ObservabilityMetricsConfig) IsEnabled() bool {
	return c.Enabled && c.StatsdAddress != ""
}
