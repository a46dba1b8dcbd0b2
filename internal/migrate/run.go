// Package migrate applies the embedded PostgreSQL schema migrations.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// advisoryLockKey serializes migration runs from replicas starting at the same time.
const advisoryLockKey int64 = 0x78737461747301

// Run applies all SQL migrations embedded in this package. It is safe to call multiple times.
func Run(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`); err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}

	files, err := Versions()
	if err != nil {
		return err
	}

	applied := 0
	for _, f := range files {
		info := migrationInfo{
			versionStr: strings.TrimSuffix(f, ".sql"),
			file:       f,
		}
		ok, applyErr := applyMigration(ctx, db, info)
		if applyErr != nil {
			return applyErr
		}
		if ok {
			applied++
		}
	}
	slog.Default().InfoContext(ctx, "migrations complete", "component", "migrations", "applied", applied, "total", len(files))
	return nil
}

// Versions lists the embedded migration files in apply order.
func Versions() ([]string, error) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			files = append(files, e.Name())
		}
	}
	slices.Sort(files)
	return files, nil
}

type migrationInfo struct {
	versionStr string
	file       string
}

func migrationExists(ctx context.Context, tx *sql.Tx, info migrationInfo) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`
	if err := tx.QueryRowContext(ctx, query, info.versionStr).Scan(&exists); err != nil {
		return false, fmt.Errorf("check migration %s: %w", info.file, err)
	}
	return exists, nil
}

func insertMigration(ctx context.Context, tx *sql.Tx, info migrationInfo) error {
	if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, info.versionStr); err != nil {
		return fmt.Errorf("record migration %s: %w", info.file, err)
	}
	return nil
}

// applyMigration runs one migration in its own transaction and reports whether it was applied.
func applyMigration(ctx context.Context, db *sql.DB, info migrationInfo) (bool, error) {
	logger := slog.Default().With("component", "migrations")

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rollbackErr := tx.Rollback(); rollbackErr != nil && !errors.Is(rollbackErr, sql.ErrTxDone) {
			logger.ErrorContext(ctx, "failed to rollback transaction", "err", rollbackErr, "migration_file", info.file)
		}
	}()

	if _, lockErr := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, advisoryLockKey); lockErr != nil {
		return false, fmt.Errorf("lock migration %s: %w", info.file, lockErr)
	}

	exists, err := migrationExists(ctx, tx, info)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	sqlBytes, err := migrationsFS.ReadFile("migrations/" + info.file)
	if err != nil {
		return false, fmt.Errorf("read migration %s: %w", info.file, err)
	}

	logger.InfoContext(ctx, "applying migration", "version", info.versionStr)
	if _, execErr := tx.ExecContext(ctx, string(sqlBytes)); execErr != nil {
		return false, fmt.Errorf("exec migration %s: %w", info.file, execErr)
	}
	if insertErr := insertMigration(ctx, tx, info); insertErr != nil {
		return false, insertErr
	}
	if commitErr := tx.Commit(); commitErr != nil {
		return false, fmt.Errorf("commit migration %s: %w", info.file, commitErr)
	}
	return true, nil
}
