package xapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, h http.HandlerFunc, mutate ...func(*Config)) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	cfg := Config{BaseURL: srv.URL + "/2/users", BearerToken: "secret-token", Timeout: 2 * time.Second}
	for _, m := range mutate {
		m(&cfg)
	}
	c, err := NewClient(cfg)
	require.NoError(t, err)
	return c
}

func TestNewClient_Validation(t *testing.T) {
	_, err := NewClient(Config{BearerToken: "x"})
	require.Error(t, err)

	_, err = NewClient(Config{BaseURL: "https://api.example.com/2/users"})
	require.Error(t, err)

	c, err := NewClient(Config{BaseURL: "https://api.example.com/2/users/", BearerToken: "x", BatchLimit: 500})
	require.NoError(t, err)
	assert.Equal(t, MaxBatchLimit, c.BatchLimit())
	assert.Equal(t, "https://api.example.com/2/users", c.baseURL)

	c, err = NewClient(Config{BaseURL: "https://api.example.com/2/users", BearerToken: "x", BatchLimit: 7})
	require.NoError(t, err)
	assert.Equal(t, 7, c.BatchLimit())
}

func TestFetchBatch_Success(t *testing.T) {
	var gotAuth, gotPath, gotUsernames, gotFields string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		gotUsernames = r.URL.Query().Get("usernames")
		gotFields = r.URL.Query().Get("user.fields")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"data": [
				{"id": "1", "name": "Alice", "username": "alice", "description": "hi",
				 "public_metrics": {"followers_count": 10, "following_count": 2}},
				{"id": "2", "name": "Bob", "username": "bob", "description": "",
				 "public_metrics": {"followers_count": 0, "following_count": 7}}
			],
			"errors": [{"value": "ghost", "title": "Not Found Error", "detail": "Could not find user"}]
		}`))
	})

	got, err := c.FetchBatch(context.Background(), []string{"alice", "bob", "ghost"})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret-token", gotAuth)
	assert.Equal(t, "/2/users/by", gotPath)
	assert.Equal(t, "alice,bob,ghost", gotUsernames)
	assert.Equal(t, "public_metrics,description", gotFields)

	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].ExternalID)
	assert.Equal(t, "alice", got[0].Handle)
	assert.Equal(t, "Alice", got[0].Name)
	assert.Equal(t, 10, got[0].FollowersCount)
	assert.Equal(t, 2, got[0].FollowingCount)
	assert.Equal(t, "hi", got[0].Description)
	assert.Equal(t, 7, got[1].FollowingCount)
}

func TestFetchBatch_Failures(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus int
		temporary  bool
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			},
			wantStatus: http.StatusInternalServerError,
			temporary:  true,
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			wantStatus: http.StatusTooManyRequests,
			temporary:  true,
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "malformed json",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				_, _ = w.Write([]byte(`{"data": [`))
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, tt.handler)

			got, err := c.FetchBatch(context.Background(), []string{"a", "b"})
			require.Error(t, err)
			assert.Nil(t, got)

			var fe *FetchError
			require.True(t, errors.As(err, &fe))
			assert.Equal(t, []string{"a", "b"}, fe.Handles)
			assert.Equal(t, tt.wantStatus, fe.StatusCode)
			assert.Equal(t, tt.temporary, fe.Temporary())
			assert.True(t, IsFetchError(err))
		})
	}
}

func TestFetchBatch_Timeout(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}, func(cfg *Config) { cfg.Timeout = 50 * time.Millisecond })

	_, err := c.FetchBatch(context.Background(), []string{"slow"})
	var fe *FetchError
	require.ErrorAs(t, err, &fe)
	assert.Zero(t, fe.StatusCode)
	assert.True(t, fe.Temporary())
}

func TestFetchBatch_RejectsBadInput(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
	}, func(cfg *Config) { cfg.BatchLimit = 2 })

	_, err := c.FetchBatch(context.Background(), nil)
	require.Error(t, err)

	_, err = c.FetchBatch(context.Background(), []string{"a", "b", "c"})
	require.Error(t, err)
	assert.False(t, IsFetchError(err))
	assert.Zero(t, calls.Load())
}

func TestFetchTweets(t *testing.T) {
	var gotPath, gotFields string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFields = r.URL.Query().Get("tweet.fields")
		_, _ = w.Write([]byte(`{"data": [
			{"id": "9", "text": "hello", "created_at": "2024-03-01T10:00:00.000Z"},
			{"id": "8", "text": "world", "created_at": "2024-02-28T09:30:00.000Z"}
		]}`))
	})

	got := c.FetchTweets(context.Background(), "12345")
	assert.Equal(t, "/2/users/12345/tweets", gotPath)
	assert.Equal(t, "created_at", gotFields)
	require.Len(t, got, 2)
	assert.Equal(t, "hello", got[0].Text)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), got[0].CreatedAt.UTC())
}

func TestFetchTweets_FailureIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})

	got := c.FetchTweets(context.Background(), "12345")
	assert.NotNil(t, got)
	assert.Empty(t, got)

	assert.Empty(t, c.FetchTweets(context.Background(), "  "))
}

func TestFetchTweets_NoDataIsEmpty(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"meta": {"result_count": 0}}`))
	})

	got := c.FetchTweets(context.Background(), "1")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestClient_RateLimiterSpacesCalls(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		_, _ = w.Write([]byte(`{"data": []}`))
	}, func(cfg *Config) {
		cfg.RPS = 20
		cfg.Burst = 1
	})

	start := time.Now()
	for range 3 {
		_, err := c.FetchBatch(context.Background(), []string{"a"})
		require.NoError(t, err)
	}
	assert.Equal(t, int32(3), calls.Load())
	assert.GreaterOrEqual(t, time.Since(start), 90*time.Millisecond)
}

func TestFetchError_Message(t *testing.T) {
	err := &FetchError{Handles: []string{"a", "b"}, StatusCode: 503, Err: errors.New("down")}
	assert.True(t, strings.Contains(err.Error(), "status 503"))
	assert.True(t, strings.Contains(err.Error(), "a,b"))
	assert.Equal(t, "down", errors.Unwrap(err).Error())
}
