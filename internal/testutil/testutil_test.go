package testutil

import (
	"net/url"
	"testing"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInfraConfig_Defaults(t *testing.T) {
	var cfg InfraConfig
	require.NoError(t, env.ParseWithOptions(&cfg, env.Options{Environment: map[string]string{}}))

	assert.Equal(t, "localhost", cfg.DBHost)
	assert.Equal(t, "55432", cfg.DBPort)
	assert.Equal(t, "xstats", cfg.DBName)
	assert.Equal(t, 9, cfg.RedisDB)
	assert.False(t, cfg.dbRequired())
}

func TestInfraConfig_RequireInfraCoversBoth(t *testing.T) {
	var cfg InfraConfig
	require.NoError(t, env.ParseWithOptions(&cfg, env.Options{
		Environment: map[string]string{"TEST_REQUIRE_INFRA": "true", "TEST_DB_PORT": "5432"},
	}))

	assert.Equal(t, "5432", cfg.DBPort)
	assert.True(t, cfg.dbRequired())
	assert.True(t, cfg.redisRequired())
}

func TestInfraConfig_DSN(t *testing.T) {
	cfg := InfraConfig{
		DBHost: "db", DBPort: "5432", DBUser: "u", DBPassword: "p@ss",
		DBName: "n", DBSSLMode: "disable",
	}

	assert.Equal(t, "postgres://u:p%40ss@db:5432/n?sslmode=disable", cfg.DSN(nil))
	assert.Equal(t,
		"postgres://u:p%40ss@db:5432/n?search_path=xstats_tabc&sslmode=disable",
		cfg.DSN(url.Values{"search_path": {"xstats_tabc"}}))
}

func TestSchemaName(t *testing.T) {
	a, b := schemaName(), schemaName()
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^xstats_t[0-9a-f]{12}$`, a)
}

func TestTestTimeProvider(t *testing.T) {
	clock := NewTestTimeProvider(TestTime())
	clock.AddTime(90)
	assert.Equal(t, TestTime().Add(90), clock.Now())
}
