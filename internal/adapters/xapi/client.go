// Package xapi is a client for the remote users API that resolves account
// profiles in batches and lists recent tweets.
package xapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/target/xstats/internal/core"
	"github.com/target/xstats/internal/domain/model"
)

const (
	// MaxBatchLimit is the upstream ceiling on usernames per lookup call.
	MaxBatchLimit = 100

	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 4 << 20

	userFields  = "public_metrics,description"
	tweetFields = "created_at"
)

// Config configures the remote client.
type Config struct {
	// BaseURL is the users collection endpoint, e.g. https://api.twitter.com/2/users.
	BaseURL     string
	BearerToken string
	Timeout     time.Duration
	BatchLimit  int
	// RPS and Burst configure the client-side token bucket; RPS <= 0 disables it.
	RPS   float64
	Burst int
	// HTTPClient overrides the transport; the bearer token is still injected.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client talks to the remote users API.
type Client struct {
	baseURL    string
	batchLimit int
	timeout    time.Duration
	http       *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

var _ core.ProfileFetcher = (*Client)(nil)

// NewClient builds a client. BaseURL and BearerToken are required.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, errors.New("x api base url is required")
	}
	if _, err := url.ParseRequestURI(base); err != nil {
		return nil, fmt.Errorf("invalid x api base url: %w", err)
	}
	token := strings.TrimSpace(cfg.BearerToken)
	if token == "" {
		return nil, errors.New("x api bearer token is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := cfg.BatchLimit
	if limit <= 0 || limit > MaxBatchLimit {
		limit = MaxBatchLimit
	}

	var baseTransport http.RoundTripper = http.DefaultTransport
	if cfg.HTTPClient != nil && cfg.HTTPClient.Transport != nil {
		baseTransport = cfg.HTTPClient.Transport
	}
	hc := &http.Client{
		Transport: &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}),
			Base:   baseTransport,
		},
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RPS > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RPS), burst)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL:    base,
		batchLimit: limit,
		timeout:    timeout,
		http:       hc,
		limiter:    limiter,
		logger:     logger.With("component", "xapi"),
	}, nil
}

// BatchLimit returns the largest number of handles FetchBatch accepts.
func (c *Client) BatchLimit() int { return c.batchLimit }

type publicMetrics struct {
	FollowersCount int `json:"followers_count"`
	FollowingCount int `json:"following_count"`
}

type userPayload struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Username      string        `json:"username"`
	Description   string        `json:"description"`
	PublicMetrics publicMetrics `json:"public_metrics"`
}

type apiProblem struct {
	Value  string `json:"value"`
	Detail string `json:"detail"`
	Title  string `json:"title"`
}

type usersResponse struct {
	Data   []userPayload `json:"data"`
	Errors []apiProblem  `json:"errors"`
}

type tweetsResponse struct {
	Data []struct {
		Text      string    `json:"text"`
		CreatedAt time.Time `json:"created_at"`
	} `json:"data"`
}

// FetchBatch resolves up to BatchLimit handles in one call. Handles the API
// reports as unresolvable are absent from the result; any other failure is a
// *FetchError covering the whole batch.
func (c *Client) FetchBatch(ctx context.Context, handles []string) ([]model.AccountStats, error) {
	if len(handles) == 0 {
		return nil, errors.New("fetch batch: no handles")
	}
	if len(handles) > c.batchLimit {
		return nil, fmt.Errorf("fetch batch: %d handles exceeds limit %d", len(handles), c.batchLimit)
	}

	q := url.Values{}
	q.Set("usernames", strings.Join(handles, ","))
	q.Set("user.fields", userFields)

	var body usersResponse
	status, err := c.getJSON(ctx, "/by", q, &body)
	if err != nil {
		return nil, &FetchError{Handles: append([]string(nil), handles...), StatusCode: status, Err: err}
	}

	for _, p := range body.Errors {
		c.logger.DebugContext(ctx, "handle not resolved", "handle", p.Value, "title", p.Title, "detail", p.Detail)
	}

	out := make([]model.AccountStats, 0, len(body.Data))
	for _, u := range body.Data {
		out = append(out, model.AccountStats{
			ExternalID:     u.ID,
			Name:           u.Name,
			Handle:         u.Username,
			FollowersCount: u.PublicMetrics.FollowersCount,
			FollowingCount: u.PublicMetrics.FollowingCount,
			Description:    u.Description,
		})
	}
	return out, nil
}

// FetchTweets lists recent tweets of an account. Any failure is logged and
// an empty slice returned.
func (c *Client) FetchTweets(ctx context.Context, accountID string) []model.Tweet {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" {
		return []model.Tweet{}
	}

	q := url.Values{}
	q.Set("tweet.fields", tweetFields)

	var body tweetsResponse
	if _, err := c.getJSON(ctx, "/"+url.PathEscape(accountID)+"/tweets", q, &body); err != nil {
		c.logger.WarnContext(ctx, "fetch tweets failed", "account_id", accountID, "error", err)
		return []model.Tweet{}
	}

	out := make([]model.Tweet, 0, len(body.Data))
	for _, t := range body.Data {
		out = append(out, model.Tweet{Text: t.Text, CreatedAt: t.CreatedAt})
	}
	return out
}

// getJSON performs a rate-limited GET and decodes a 2xx JSON body into dst.
// The returned status is 0 when no response was received.
func (c *Client) getJSON(ctx context.Context, path string, q url.Values, dst any) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return 0, fmt.Errorf("rate limiter: %w", err)
	}

	endpoint := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.WarnContext(ctx, "x api request failed",
			"endpoint", endpoint, "params", q.Encode(), "duration_ms", time.Since(start).Milliseconds(), "error", err)
		return 0, fmt.Errorf("request %s: %w", path, err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, resp.Body)
		_ = resp.Body.Close()
	}()

	c.logger.InfoContext(ctx, "x api request",
		"endpoint", endpoint, "params", q.Encode(), "status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds())

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return resp.StatusCode, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(dst); err != nil {
		return resp.StatusCode, fmt.Errorf("decode response: %w", err)
	}
	return resp.StatusCode, nil
}
