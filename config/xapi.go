package config

import (
	"errors"
	"net/url"
	"strings"
	"time"
)

// XAPIConfig configures the remote users API client.
type XAPIConfig struct {
	// BaseURL is the users collection endpoint, e.g. https://api.twitter.com/2/users.
	BaseURL string `env:"BASE_URL"`
	// BearerToken authenticates every outbound call. Required; never defaulted.
	BearerToken string        `env:"BEARER_TOKEN"`
	Timeout     time.Duration `env:"TIMEOUT"      envDefault:"15s"`
	// RPS and Burst shape the client-side token bucket; RPS <= 0 disables it.
	RPS   float64 `env:"RPS"   envDefault:"2"`
	Burst int     `env:"BURST" envDefault:"10"`
}

// Sanitize trims values and clamps the limiter settings.
func (c *XAPIConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	c.BearerToken = strings.TrimSpace(c.BearerToken)
	if c.Timeout <= 0 {
		c.Timeout = 15 * time.Second
	}
	if c.Burst < 1 {
		c.Burst = 1
	}
}

// Validate requires the endpoint and the bearer token.
func (c *XAPIConfig) Validate() error {
	var errs []error
	if c.BaseURL == "" {
		errs = append(errs, errors.New("X_API_BASE_URL is required"))
	} else if u, err := url.ParseRequestURI(c.BaseURL); err != nil || u.Host == "" {
		errs = append(errs, errors.New("X_API_BASE_URL must be an absolute URL"))
	}
	if c.BearerToken == "" {
		errs = append(errs, errors.New("X_API_BEARER_TOKEN is required"))
	}
	return errors.Join(errs...)
}
