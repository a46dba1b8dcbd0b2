package data

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/xstats/internal/domain/model"
	apperrors "github.com/target/xstats/internal/errors"
	"github.com/target/xstats/internal/testutil"
)

func countAccounts(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRowContext(context.Background(), `SELECT COUNT(*) FROM account_stats`).Scan(&n))
	return n
}

func TestAccountStatsRepo_UpsertInsertsThenUpdates(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		clock := testutil.NewTestTimeProvider(testutil.TestTime())
		repo := NewAccountStatsRepoWithTimeProvider(db, clock)

		first, err := repo.Upsert(ctx, testutil.NewAccountStats("1001", "alice").WithCounts(10, 3).Build())
		require.NoError(t, err)
		require.NotZero(t, first.ID)
		assert.Equal(t, "1001", first.ExternalID)
		assert.Equal(t, 10, first.FollowersCount)
		assert.True(t, first.CreatedAt.Equal(testutil.TestTime()))

		clock.AddTime(time.Hour)
		second, err := repo.Upsert(ctx, testutil.NewAccountStats("1001", "alice_renamed").
			WithName("Alice").
			WithCounts(25, 4).
			WithDescription("updated").
			Build())
		require.NoError(t, err)

		assert.Equal(t, first.ID, second.ID)
		assert.Equal(t, "1001", second.ExternalID)
		assert.Equal(t, "alice_renamed", second.Handle)
		assert.Equal(t, "Alice", second.Name)
		assert.Equal(t, 25, second.FollowersCount)
		assert.Equal(t, 4, second.FollowingCount)
		assert.Equal(t, "updated", second.Description)
		assert.True(t, second.CreatedAt.Equal(first.CreatedAt))
		assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
		assert.Equal(t, 1, countAccounts(t, db))
	})
}

func TestAccountStatsRepo_UpsertIsIdempotent(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAccountStatsRepo(db)
		rec := testutil.NewAccountStats("2002", "bob").Build()

		a, err := repo.Upsert(ctx, rec)
		require.NoError(t, err)
		b, err := repo.Upsert(ctx, rec)
		require.NoError(t, err)

		assert.Equal(t, a.ID, b.ID)
		assert.True(t, a.SameProfile(*b))
		assert.Equal(t, 1, countAccounts(t, db))
	})
}

func TestAccountStatsRepo_HandleConflict(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAccountStatsRepo(db)

		_, err := repo.Upsert(ctx, testutil.NewAccountStats("1", "shared").Build())
		require.NoError(t, err)

		_, err = repo.Upsert(ctx, testutil.NewAccountStats("2", "shared").Build())
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
		assert.Equal(t, "handle", apperrors.GetField(err))

		// The original row is untouched and a different record still writes.
		got, err := repo.GetByHandle(ctx, "shared")
		require.NoError(t, err)
		assert.Equal(t, "1", got.ExternalID)

		_, err = repo.Upsert(ctx, testutil.NewAccountStats("3", "other").Build())
		require.NoError(t, err)
		assert.Equal(t, 2, countAccounts(t, db))
	})
}

func TestAccountStatsRepo_ConcurrentFirstUpsertsAllSucceed(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAccountStatsRepo(db)

		const writers = 8
		for round := range 5 {
			externalID := fmt.Sprintf("race-%d", round)
			start := make(chan struct{})
			errs := make([]error, writers)
			var wg sync.WaitGroup
			for w := range writers {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					rec := testutil.NewAccountStats(externalID, "racer"+externalID).
						WithCounts(w, 0).
						Build()
					_, errs[w] = repo.Upsert(ctx, rec)
				}()
			}
			close(start)
			wg.Wait()

			for w, err := range errs {
				require.NoError(t, err, "writer %d of %s", w, externalID)
			}
			got, err := repo.GetByExternalID(ctx, externalID)
			require.NoError(t, err)
			assert.GreaterOrEqual(t, got.FollowersCount, 0)
			assert.Less(t, got.FollowersCount, writers)
		}
		assert.Equal(t, 5, countAccounts(t, db))
	})
}

func TestAccountStatsRepo_StoresFetchedFieldsVerbatim(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAccountStatsRepo(db)
		rec := testutil.NewAccountStats("77", "dave").
			WithName("  Dave  ").
			WithDescription(" bio with spaces \n").
			Build()

		stored, err := repo.Upsert(ctx, rec)
		require.NoError(t, err)
		assert.True(t, rec.SameProfile(*stored))

		got, err := repo.GetByHandle(ctx, "dave")
		require.NoError(t, err)
		assert.Equal(t, "  Dave  ", got.Name)
	})
}

func TestAccountStatsRepo_Lookups(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAccountStatsRepo(db)

		stored, err := repo.Upsert(ctx, testutil.NewAccountStats("42", "carol").Build())
		require.NoError(t, err)

		byHandle, err := repo.GetByHandle(ctx, "carol")
		require.NoError(t, err)
		assert.Equal(t, stored.ID, byHandle.ID)

		byID, err := repo.GetByExternalID(ctx, "42")
		require.NoError(t, err)
		assert.Equal(t, "carol", byID.Handle)

		_, err = repo.GetByHandle(ctx, "nobody")
		require.ErrorIs(t, err, ErrAccountNotFound)
		assert.True(t, apperrors.IsNotFound(err))

		_, err = repo.GetByExternalID(ctx, "0")
		require.ErrorIs(t, err, ErrAccountNotFound)
	})
}

func TestAccountStatsRepo_UpsertValidation(t *testing.T) {
	repo := NewAccountStatsRepo(nil)
	ctx := context.Background()

	_, err := repo.Upsert(ctx, nil)
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = repo.Upsert(ctx, &model.AccountStats{Handle: "x"})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))

	_, err = repo.Upsert(ctx, &model.AccountStats{ExternalID: "1", Handle: "x", FollowersCount: -1})
	require.Error(t, err)
	assert.True(t, apperrors.IsValidation(err))
}
