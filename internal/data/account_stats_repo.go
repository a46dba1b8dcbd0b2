package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/target/xstats/internal/core"
	"github.com/target/xstats/internal/data/pgxutil"
	"github.com/target/xstats/internal/domain/model"
	apperrors "github.com/target/xstats/internal/errors"
)

// ErrAccountNotFound is returned when no stored record matches a lookup.
var ErrAccountNotFound = apperrors.NotFound("account not found")

const accountStatsColumns = `id, external_id, name, handle, following_count, followers_count, description, created_at, updated_at`

const (
	// The unique index on external_id serializes concurrent writers of one
	// account; the last commit wins. created_at is kept from the first insert.
	accountUpsertQuery = `
		INSERT INTO account_stats (
			external_id, name, handle, following_count, followers_count, description, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		ON CONFLICT (external_id) DO UPDATE SET
			name = EXCLUDED.name,
			handle = EXCLUDED.handle,
			following_count = EXCLUDED.following_count,
			followers_count = EXCLUDED.followers_count,
			description = EXCLUDED.description,
			updated_at = EXCLUDED.updated_at
		RETURNING ` + accountStatsColumns

	accountGetByHandleQuery     = `SELECT ` + accountStatsColumns + ` FROM account_stats WHERE handle = $1`
	accountGetByExternalIDQuery = `SELECT ` + accountStatsColumns + ` FROM account_stats WHERE external_id = $1`
)

// AccountStatsRepo persists account statistics in PostgreSQL.
type AccountStatsRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

var _ core.AccountStatsRepository = (*AccountStatsRepo)(nil)

// NewAccountStatsRepo creates a new AccountStatsRepo with real time provider.
func NewAccountStatsRepo(db *sql.DB) *AccountStatsRepo {
	return &AccountStatsRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewAccountStatsRepoWithTimeProvider creates a new AccountStatsRepo with a custom time provider (useful for tests).
func NewAccountStatsRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *AccountStatsRepo {
	return &AccountStatsRepo{DB: db, timeProvider: tp}
}

// Upsert inserts the record or, when a row with the same external id exists,
// overwrites its mutable fields. The stored row is returned.
func (r *AccountStatsRepo) Upsert(ctx context.Context, stats *model.AccountStats) (*model.AccountStats, error) {
	if stats == nil {
		return nil, apperrors.Validation("account stats is required")
	}
	if err := stats.Validate(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeValidation, err.Error())
	}

	now := r.timeProvider.Now().UTC()
	var out model.AccountStats
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{
		Opts: &sql.TxOptions{
			Isolation: sql.LevelReadCommitted,
		},
		Fn: func(tx pgx.Tx) error {
			return collectAccount(ctx, tx, &out, accountUpsertQuery,
				stats.ExternalID, stats.Name, stats.Handle,
				stats.FollowingCount, stats.FollowersCount, stats.Description, now)
		},
	})
	if err != nil {
		return nil, mapAccountWriteErr(err)
	}
	return &out, nil
}

// GetByHandle retrieves the stored record for a handle.
func (r *AccountStatsRepo) GetByHandle(ctx context.Context, handle string) (*model.AccountStats, error) {
	return r.getByQuery(ctx, accountGetByHandleQuery, "failed to get account by handle", handle)
}

// GetByExternalID retrieves the stored record for a remote account id.
func (r *AccountStatsRepo) GetByExternalID(ctx context.Context, externalID string) (*model.AccountStats, error) {
	return r.getByQuery(ctx, accountGetByExternalIDQuery, "failed to get account by external id", externalID)
}

func (r *AccountStatsRepo) getByQuery(
	ctx context.Context,
	q string,
	errMsg string,
	args ...any,
) (*model.AccountStats, error) {
	var out model.AccountStats
	err := pgxutil.WithPgxConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, q, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AccountStats])
		return err
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("%s: %w", errMsg, apperrors.MapDBError(err))
	}
	return &out, nil
}

type pgxQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

func collectAccount(ctx context.Context, q pgxQuerier, out *model.AccountStats, sql string, args ...any) error {
	rows, err := q.Query(ctx, sql, args...)
	if err != nil {
		return err
	}
	defer rows.Close()
	*out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.AccountStats])
	return err
}

// mapAccountWriteErr reports a unique violation as a Conflict. The upsert
// absorbs external_id collisions, so the remaining one is a handle owned by
// another account.
func mapAccountWriteErr(err error) error {
	mapped := apperrors.MapDBError(err)
	if apperrors.IsConflict(mapped) {
		field := apperrors.GetField(mapped)
		msg := "account stats conflict"
		if field != "" {
			msg = field + " already belongs to another account"
		}
		return &apperrors.AppError{
			Code:    apperrors.ErrCodeConflict,
			Message: msg,
			Field:   field,
			Cause:   err,
		}
	}
	if _, ok := mapped.(*apperrors.AppError); ok {
		return mapped
	}
	return fmt.Errorf("upsert account stats: %w", err)
}
