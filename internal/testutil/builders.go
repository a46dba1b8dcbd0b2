package testutil

import "github.com/target/xstats/internal/domain/model"

// AccountStatsBuilder provides a fluent interface for building AccountStats records for testing.
type AccountStatsBuilder struct {
	stats model.AccountStats
}

// NewAccountStats creates a builder with sensible defaults derived from handle.
func NewAccountStats(externalID, handle string) *AccountStatsBuilder {
	return &AccountStatsBuilder{
		stats: model.AccountStats{
			ExternalID:     externalID,
			Handle:         handle,
			Name:           "Name of " + handle,
			FollowersCount: 10,
			FollowingCount: 5,
			Description:    "bio of " + handle,
		},
	}
}

// WithName sets the display name.
func (b *AccountStatsBuilder) WithName(name string) *AccountStatsBuilder {
	b.stats.Name = name
	return b
}

// WithCounts sets the follower and following counts.
func (b *AccountStatsBuilder) WithCounts(followers, following int) *AccountStatsBuilder {
	b.stats.FollowersCount = followers
	b.stats.FollowingCount = following
	return b
}

// WithDescription sets the profile description.
func (b *AccountStatsBuilder) WithDescription(desc string) *AccountStatsBuilder {
	b.stats.Description = desc
	return b
}

// Build returns a pointer to a copy of the built record.
func (b *AccountStatsBuilder) Build() *model.AccountStats {
	out := b.stats
	return &out
}

// Value returns the built record by value.
func (b *AccountStatsBuilder) Value() model.AccountStats {
	return b.stats
}
