// Package testutil provides shared helpers for tests that need PostgreSQL or Redis.
//
// Integration tests skip when the backing service is unreachable unless
// TEST_REQUIRE_INFRA (or the per-service TEST_REQUIRE_DB / TEST_REQUIRE_REDIS)
// is set, in which case they fail.
package testutil

import (
	"net"
	"net/url"
	"sync"
	"time"

	env "github.com/caarlos0/env/v11"
)

// TestingTB is the subset of testing.TB the helpers need.
type TestingTB interface {
	Helper()
	Skip(args ...any)
	Skipf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
	Cleanup(func())
}

// InfraConfig locates the services used by integration tests.
type InfraConfig struct {
	DBHost     string `env:"TEST_DB_HOST"     envDefault:"localhost"`
	DBPort     string `env:"TEST_DB_PORT"     envDefault:"55432"`
	DBUser     string `env:"TEST_DB_USER"     envDefault:"xstats"`
	DBPassword string `env:"TEST_DB_PASSWORD" envDefault:"xstats"`
	DBName     string `env:"TEST_DB_NAME"     envDefault:"xstats"`
	DBSSLMode  string `env:"TEST_DB_SSL_MODE" envDefault:"disable"`
	// Empty means try the usual compose and local addresses.
	RedisAddr string `env:"TEST_REDIS_ADDR"`
	RedisDB   int    `env:"TEST_REDIS_DB"    envDefault:"9"`

	RequireInfra bool `env:"TEST_REQUIRE_INFRA"`
	RequireDB    bool `env:"TEST_REQUIRE_DB"`
	RequireRedis bool `env:"TEST_REQUIRE_REDIS"`
}

var (
	infraOnce sync.Once
	infraCfg  InfraConfig
	infraErr  error
)

// LoadInfraConfig reads InfraConfig from the environment once per process.
func LoadInfraConfig() (InfraConfig, error) {
	infraOnce.Do(func() {
		infraErr = env.Parse(&infraCfg)
	})
	return infraCfg, infraErr
}

func mustInfraConfig(t TestingTB) InfraConfig {
	t.Helper()
	cfg, err := LoadInfraConfig()
	if err != nil {
		t.Fatalf("parse test infrastructure env: %v", err)
	}
	return cfg
}

// DSN renders the database settings as a postgres URL. Extra query
// parameters are appended as given.
func (c InfraConfig) DSN(extra url.Values) string {
	q := url.Values{"sslmode": {c.DBSSLMode}}
	for k, vs := range extra {
		q[k] = vs
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     net.JoinHostPort(c.DBHost, c.DBPort),
		Path:     "/" + c.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func (c InfraConfig) dbRequired() bool    { return c.RequireInfra || c.RequireDB }
func (c InfraConfig) redisRequired() bool { return c.RequireInfra || c.RequireRedis }

// unavailable skips or fails depending on whether the service is required.
func unavailable(t TestingTB, required bool, format string, args ...any) {
	t.Helper()
	if required {
		t.Fatalf(format, args...)
	}
	t.Skipf(format, args...)
}

// TestTime returns a fixed time for testing.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

// TestTimeProvider is a settable clock for repositories under test.
type TestTimeProvider struct {
	mu  sync.Mutex
	now time.Time
}

// NewTestTimeProvider creates a clock frozen at start.
func NewTestTimeProvider(start time.Time) *TestTimeProvider {
	return &TestTimeProvider{now: start}
}

func (p *TestTimeProvider) Now() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.now
}

// AddTime advances the clock.
func (p *TestTimeProvider) AddTime(d time.Duration) {
	p.mu.Lock()
	p.now = p.now.Add(d)
	p.mu.Unlock()
}
