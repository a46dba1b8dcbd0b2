package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the "pgx" database/sql driver
	"github.com/redis/go-redis/v9"

	"github.com/target/xstats/config"
	"github.com/target/xstats/internal/migrate"
)

const connectTimeout = 5 * time.Second

// DatabaseConfig contains configuration for database connections.
type DatabaseConfig struct {
	DBConfig    config.DBConfig
	RedisConfig config.RedisConfig
	Logger      *slog.Logger
}

// ConnectDB opens the PostgreSQL pool through the pgx stdlib driver and verifies it.
func ConnectDB(cfg DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DBConfig.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.DBConfig.MaxOpenConns)
	db.SetMaxIdleConns(cfg.DBConfig.MaxIdleConns)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if pingErr := db.PingContext(ctx); pingErr != nil {
		if closeErr := db.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close database connection: %w", closeErr))
		}
		return nil, fmt.Errorf("ping database: %w", pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("database connected", "target", redactURL(cfg.DBConfig.DSN()))
	}

	return db, nil
}

type redisMode string

const (
	redisModeDirect   redisMode = "direct"
	redisModeSentinel redisMode = "sentinel"
	redisModeCluster  redisMode = "cluster"
)

// redisTarget is the resolved connection plan for one of the three topologies.
type redisTarget struct {
	mode redisMode
	opts *redis.UniversalOptions
}

func (t redisTarget) describe() string {
	if t.mode == redisModeSentinel {
		return "sentinel:" + t.opts.MasterName
	}
	return string(t.mode) + ":" + strings.Join(t.opts.Addrs, ",")
}

//nolint:ireturn // the topology decides the concrete client.
func (t redisTarget) client() redis.UniversalClient {
	switch t.mode {
	case redisModeCluster:
		return redis.NewClusterClient(t.opts.Cluster())
	case redisModeSentinel:
		return redis.NewFailoverClient(t.opts.Failover())
	default:
		return redis.NewClient(t.opts.Simple())
	}
}

// resolveRedisTarget turns configuration into client options. A redis:// or
// rediss:// URI supplies credentials, database and TLS; plain host:port uses
// the separate password and database settings.
func resolveRedisTarget(cfg config.RedisConfig) (redisTarget, error) {
	switch {
	case cfg.UseCluster:
		opts := &redis.UniversalOptions{Addrs: normalizeAddrs(cfg.ClusterNodes), Password: cfg.Password}
		if len(opts.Addrs) == 0 {
			fromURI, err := optionsFromURI(cfg)
			if err != nil {
				return redisTarget{}, err
			}
			opts = fromURI
			opts.DB = 0 // cluster mode has a single database
		}
		if len(opts.Addrs) == 0 {
			return redisTarget{}, errors.New("redis cluster configuration requires at least one address")
		}
		return redisTarget{mode: redisModeCluster, opts: opts}, nil

	case cfg.UseSentinel:
		nodes := normalizeAddrs(cfg.SentinelNodes)
		if len(nodes) == 0 {
			return redisTarget{}, errors.New("redis sentinel configuration requires at least one sentinel node")
		}
		return redisTarget{mode: redisModeSentinel, opts: &redis.UniversalOptions{
			Addrs:            nodes,
			MasterName:       cfg.SentinelMasterName,
			Password:         cfg.Password,
			SentinelPassword: cfg.SentinelPassword,
			DB:               cfg.DB,
		}}, nil

	default:
		opts, err := optionsFromURI(cfg)
		if err != nil {
			return redisTarget{}, err
		}
		if len(opts.Addrs) == 0 {
			return redisTarget{}, errors.New("redis direct configuration requires a URI")
		}
		return redisTarget{mode: redisModeDirect, opts: opts}, nil
	}
}

func optionsFromURI(cfg config.RedisConfig) (*redis.UniversalOptions, error) {
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return &redis.UniversalOptions{Password: cfg.Password, DB: cfg.DB}, nil
	}
	if !strings.HasPrefix(uri, "redis://") && !strings.HasPrefix(uri, "rediss://") {
		return &redis.UniversalOptions{Addrs: []string{uri}, Password: cfg.Password, DB: cfg.DB}, nil
	}

	parsed, err := redis.ParseURL(uri)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	password := parsed.Password
	if password == "" {
		password = cfg.Password
	}
	return &redis.UniversalOptions{
		Addrs:     []string{parsed.Addr},
		Username:  parsed.Username,
		Password:  password,
		DB:        parsed.DB,
		TLSConfig: parsed.TLSConfig,
	}, nil
}

func normalizeAddrs(raw []string) []string {
	result := make([]string, 0, len(raw))
	for _, addr := range raw {
		if trimmed := strings.TrimSpace(addr); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

// ConnectRedis builds a direct, sentinel or cluster client and verifies it with PING.
//
//nolint:ireturn // returning redis.UniversalClient lets us pick single, sentinel, or cluster clients at runtime.
func ConnectRedis(cfg DatabaseConfig) (redis.UniversalClient, error) {
	target, err := resolveRedisTarget(cfg.RedisConfig)
	if err != nil {
		return nil, err
	}
	client := target.client()

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if pingErr := client.Ping(ctx).Err(); pingErr != nil {
		if closeErr := client.Close(); closeErr != nil {
			pingErr = errors.Join(pingErr, fmt.Errorf("close redis client: %w", closeErr))
		}
		return nil, fmt.Errorf("ping redis: %w", pingErr)
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("redis connected", "target", target.describe(), "db", target.opts.DB)
	}

	return client, nil
}

// redactURL hides the password of a connection URL for logging.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "unparseable url"
	}
	return u.Redacted()
}

// RunMigrations applies the embedded schema migrations.
func RunMigrations(ctx context.Context, db *sql.DB, logger *slog.Logger) error {
	if err := migrate.Run(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}

	if logger != nil {
		logger.InfoContext(ctx, "database migrations completed")
	}

	return nil
}
