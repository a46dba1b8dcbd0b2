// Package mocks provides gomock implementations of the ingestion pipeline ports.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	store := mocks.NewMockStatusStore(ctrl)
//	store.EXPECT().SeedPending(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
package mocks

// StatusStore: SetStatus, SeedPending, GetStatuses
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=status_store_mock.go github.com/target/xstats/internal/core StatusStore

// AccountStatsRepository: Upsert, GetByHandle
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=account_stats_repository_mock.go github.com/target/xstats/internal/core AccountStatsRepository

// ProfileFetcher: FetchBatch, FetchTweets, BatchLimit
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=profile_fetcher_mock.go github.com/target/xstats/internal/core ProfileFetcher
