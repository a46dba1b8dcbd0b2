package testutil

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// redisCandidates are tried in order when TEST_REDIS_ADDR is unset:
// the compose service name, a default local install, then the test profile port.
var redisCandidates = []string{"redis:6379", "localhost:6379", "localhost:56379"}

// SetupTestRedis returns a client on the configured test database, flushed
// before use and closed on cleanup. Tests sharing the database should use
// distinct keys.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()
	cfg := mustInfraConfig(t)

	candidates := redisCandidates
	if cfg.RedisAddr != "" {
		candidates = []string{cfg.RedisAddr}
	}

	for _, addr := range candidates {
		client := redis.NewClient(&redis.Options{Addr: addr, DB: cfg.RedisDB})
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := client.Ping(ctx).Err()
		if err == nil {
			err = client.FlushDB(ctx).Err()
		}
		cancel()
		if err != nil {
			t.Logf("redis not usable at %s: %v", addr, err)
			closeQuietly(t, "redis candidate", client)
			continue
		}
		t.Cleanup(func() { closeQuietly(t, "redis client", client) })
		return client
	}

	unavailable(t, cfg.redisRequired(), "redis not available for testing (tried %v)", candidates)
	return nil
}
