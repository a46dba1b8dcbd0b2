package config

import "time"

const (
	// maxIngestBatchLimit mirrors the remote API's ceiling on handles per lookup.
	maxIngestBatchLimit = 100
	maxConcurrentCap    = 32
)

// IngestConfig controls partitioning, concurrency and status retention of ingestion runs.
type IngestConfig struct {
	// BatchLimit is the number of handles sent per remote lookup (1..100).
	BatchLimit int `env:"BATCH_LIMIT" envDefault:"100"`

	// StatusTTL is how long per-handle status entries stay visible after their last write.
	StatusTTL time.Duration `env:"STATUS_TTL" envDefault:"24h"`

	// MaxConcurrentBatches bounds the in-flight remote lookups of a single run.
	MaxConcurrentBatches int `env:"MAX_CONCURRENT_BATCHES" envDefault:"4"`

	// BatchTimeout bounds one lookup plus the writes of its results.
	BatchTimeout time.Duration `env:"BATCH_TIMEOUT" envDefault:"30s"`

	// RunTimeout bounds a whole ingestion run.
	RunTimeout time.Duration `env:"RUN_TIMEOUT" envDefault:"10m"`

	// ShutdownTimeout bounds how long shutdown waits for in-flight runs.
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`
}

// Sanitize applies guardrails to ingestion configuration values.
func (c *IngestConfig) Sanitize() {
	if c.BatchLimit < 1 {
		c.BatchLimit = 1
	}
	if c.BatchLimit > maxIngestBatchLimit {
		c.BatchLimit = maxIngestBatchLimit
	}
	if c.StatusTTL < time.Minute {
		c.StatusTTL = time.Minute
	}
	if c.MaxConcurrentBatches < 1 {
		c.MaxConcurrentBatches = 1
	}
	if c.MaxConcurrentBatches > maxConcurrentCap {
		c.MaxConcurrentBatches = maxConcurrentCap
	}
	if c.BatchTimeout < time.Second {
		c.BatchTimeout = time.Second
	}
	if c.RunTimeout < c.BatchTimeout {
		c.RunTimeout = c.BatchTimeout
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = 30 * time.Second
	}
}
