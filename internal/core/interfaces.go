package core

import (
	"context"
	"time"

	"github.com/target/xstats/internal/domain/model"
)

// This file contains the ports of the ingestion pipeline. Services depend on these
// interfaces; the Redis, PostgreSQL and remote API adapters implement them.

// StatusStore records per-job, per-handle ingestion status with expiry.
type StatusStore interface {
	// SetStatus overwrites the status of one handle and refreshes its expiry.
	SetStatus(ctx context.Context, jobID, handle string, status model.AccountStatus, ttl time.Duration) error
	// SeedPending writes a PENDING entry for every handle in one round trip.
	SeedPending(ctx context.Context, jobID string, handles []string, ttl time.Duration) error
	// GetStatuses returns every entry of a job; an unknown job yields an empty slice.
	GetStatuses(ctx context.Context, jobID string) ([]model.StatusEntry, error)
}

// AccountStatsRepository persists account statistics keyed by the remote account id.
type AccountStatsRepository interface {
	Upsert(ctx context.Context, stats *model.AccountStats) (*model.AccountStats, error)
	GetByHandle(ctx context.Context, handle string) (*model.AccountStats, error)
}

// ProfileFetcher resolves account profiles against the remote API.
type ProfileFetcher interface {
	// FetchBatch resolves all handles in a single call. It either returns the resolved
	// profiles or fails as a whole; partial results are never returned with an error.
	FetchBatch(ctx context.Context, handles []string) ([]model.AccountStats, error)
	// FetchTweets lists recent tweets of an account. Failures yield an empty slice.
	FetchTweets(ctx context.Context, accountID string) []model.Tweet
	// BatchLimit is the largest number of handles FetchBatch accepts.
	BatchLimit() int
}
