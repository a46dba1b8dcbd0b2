package config

import (
	"errors"
	"net"
	"net/url"
	"strconv"
	"strings"
)

// DBConfig contains PostgreSQL database configuration.
type DBConfig struct {
	// URL is a full connection string; when set it takes precedence over the individual fields.
	URL      string `env:"URL"`
	Host     string `env:"HOST"                    envDefault:"localhost"`
	Port     int    `env:"PORT"                    envDefault:"5432"`
	User     string `env:"USER"                    envDefault:"xstats"`
	Password string `env:"PASSWORD"`
	Name     string `env:"NAME"                    envDefault:"xstats"`
	SSLMode  string `env:"SSL_MODE"                envDefault:"disable"` // Use 'disable' for local dev, 'require' for production
	// RunMigrationsOnStart controls whether the application automatically applies migrations during startup.
	RunMigrationsOnStart bool `env:"RUN_MIGRATIONS_ON_START" envDefault:"true"`
	MaxOpenConns         int  `env:"MAX_OPEN_CONNS"          envDefault:"25"`
	MaxIdleConns         int  `env:"MAX_IDLE_CONNS"          envDefault:"5"`
}

// Sanitize trims values and clamps the pool size.
func (c *DBConfig) Sanitize() {
	c.URL = strings.TrimSpace(c.URL)
	c.Host = strings.TrimSpace(c.Host)
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.MaxOpenConns < 1 {
		c.MaxOpenConns = 1
	}
	if c.MaxIdleConns < 0 {
		c.MaxIdleConns = 0
	}
	if c.MaxIdleConns > c.MaxOpenConns {
		c.MaxIdleConns = c.MaxOpenConns
	}
}

// Validate requires either a connection URL or a host and database name.
func (c *DBConfig) Validate() error {
	if c.URL != "" {
		if _, err := url.Parse(c.URL); err != nil {
			return errors.New("DB_URL is not a valid connection string")
		}
		return nil
	}
	if c.Host == "" || c.Name == "" {
		return errors.New("DB_URL or DB_HOST and DB_NAME are required")
	}
	return nil
}

// DSN returns the connection string, building it from the individual fields
// when URL is not set.
func (c *DBConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	// Build DSN using url.URL to safely handle special characters in credentials
	u := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	q := u.Query()
	q.Set("sslmode", c.SSLMode)
	u.RawQuery = q.Encode()
	return u.String()
}

// RedisConfig contains Redis configuration.
type RedisConfig struct {
	URI                string   `env:"URI"                  envDefault:"localhost:6379"`
	Password           string   `env:"PASSWORD"             envDefault:""`
	DB                 int      `env:"DB"                   envDefault:"0"`
	SentinelNodes      []string `env:"SENTINEL_NODES"       envDefault:"localhost:26379"`
	SentinelMasterName string   `env:"SENTINEL_MASTER_NAME" envDefault:"mymaster"`
	SentinelPassword   string   `env:"SENTINEL_PASSWORD"    envDefault:""`
	UseSentinel        bool     `env:"USE_SENTINEL"         envDefault:"false"`
	ClusterNodes       []string `env:"CLUSTER_NODES"        envDefault:""`
	UseCluster         bool     `env:"USE_CLUSTER"          envDefault:"false"`
}
