// Package pgxutil runs native pgx work on connections borrowed from a database/sql pool.
package pgxutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// TxConfig describes a transaction for WithPgxTx. A nil Opts uses server defaults.
type TxConfig struct {
	Opts *sql.TxOptions
	Fn   func(pgx.Tx) error
}

var isoLevels = map[sql.IsolationLevel]pgx.TxIsoLevel{
	sql.LevelReadUncommitted: pgx.ReadUncommitted,
	sql.LevelReadCommitted:   pgx.ReadCommitted,
	sql.LevelWriteCommitted:  pgx.ReadCommitted,
	sql.LevelRepeatableRead:  pgx.RepeatableRead,
	sql.LevelSnapshot:        pgx.RepeatableRead,
	sql.LevelSerializable:    pgx.Serializable,
	sql.LevelLinearizable:    pgx.Serializable,
}

// ToPgxTxOptions translates database/sql transaction options. Levels with no
// PostgreSQL equivalent, including LevelDefault, leave IsoLevel empty.
func ToPgxTxOptions(opts *sql.TxOptions) pgx.TxOptions {
	if opts == nil {
		return pgx.TxOptions{}
	}
	mode := pgx.ReadWrite
	if opts.ReadOnly {
		mode = pgx.ReadOnly
	}
	return pgx.TxOptions{IsoLevel: isoLevels[opts.Isolation], AccessMode: mode}
}

// WithPgxConn runs fn on the *pgx.Conn underlying one pooled connection.
func WithPgxConn(ctx context.Context, db *sql.DB, fn func(*pgx.Conn) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire pooled conn: %w", err)
	}
	defer func() { _ = conn.Close() }()

	return conn.Raw(func(driverConn any) error {
		std, ok := driverConn.(*stdlib.Conn)
		if !ok {
			return errors.New("pooled connection is not a pgx stdlib connection")
		}
		return fn(std.Conn())
	})
}

// WithPgxTx runs cfg.Fn inside a transaction, committing on success and
// rolling back when Fn returns an error.
func WithPgxTx(ctx context.Context, db *sql.DB, cfg TxConfig) error {
	return WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		return pgx.BeginTxFunc(ctx, conn, ToPgxTxOptions(cfg.Opts), cfg.Fn)
	})
}
