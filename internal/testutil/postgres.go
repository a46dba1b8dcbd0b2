package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver

	"github.com/target/xstats/internal/migrate"
)

// SkipIfNoTestDB skips (or fails, when required) if PostgreSQL is unreachable.
func SkipIfNoTestDB(t TestingTB) {
	t.Helper()
	cfg := mustInfraConfig(t)

	db, err := sql.Open("pgx", cfg.DSN(nil))
	if err != nil {
		unavailable(t, cfg.dbRequired(), "test database not available: %v", err)
		return
	}
	defer closeQuietly(t, "check db", db)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := db.PingContext(ctx); err != nil {
		unavailable(t, cfg.dbRequired(), "test database not available at %s:%s: %v", cfg.DBHost, cfg.DBPort, err)
	}
}

// WithAutoDB runs fn against a freshly migrated schema private to the test.
// The schema is dropped on cleanup, so tests may run in parallel.
func WithAutoDB(t TestingTB, fn func(*sql.DB)) {
	t.Helper()
	fn(SetupSchemaDB(t))
}

// SetupSchemaDB creates a uniquely named schema, opens a pool whose
// search_path points at it and applies the production migrations.
func SetupSchemaDB(t TestingTB) *sql.DB {
	t.Helper()
	SkipIfNoTestDB(t)
	cfg := mustInfraConfig(t)

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	admin, err := sql.Open("pgx", cfg.DSN(nil))
	if err != nil {
		t.Fatalf("open admin db: %v", err)
	}
	schema := schemaName()
	if _, err := admin.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		closeQuietly(t, "admin db", admin)
		t.Fatalf("create schema %s: %v", schema, err)
	}

	db, err := sql.Open("pgx", cfg.DSN(url.Values{"search_path": {schema}}))
	if err != nil {
		closeQuietly(t, "admin db", admin)
		t.Fatalf("open schema db: %v", err)
	}
	db.SetMaxOpenConns(8)

	t.Cleanup(func() {
		closeQuietly(t, "schema db", db)
		dropCtx, dropCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer dropCancel()
		if _, err := admin.ExecContext(dropCtx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("warning: drop schema %s: %v", schema, err)
		}
		closeQuietly(t, "admin db", admin)
	})

	if err := migrate.Run(ctx, db); err != nil {
		t.Fatalf("migrate schema %s: %v", schema, err)
	}
	return db
}

// schemaName returns a lowercase identifier safe to interpolate into DDL.
func schemaName() string {
	b := make([]byte, 6)
	if _, err := rand.Read(b); err != nil {
		return "xstats_t" + time.Now().Format("150405000000")
	}
	return "xstats_t" + hex.EncodeToString(b)
}

func closeQuietly(t TestingTB, name string, c interface{ Close() error }) {
	if err := c.Close(); err != nil {
		t.Logf("warning: close %s: %v", name, err)
	}
}
