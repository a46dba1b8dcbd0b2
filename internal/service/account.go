package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/target/xstats/internal/core"
	"github.com/target/xstats/internal/domain/model"
	apperrors "github.com/target/xstats/internal/errors"
)

// AccountServiceOptions groups dependencies for AccountService.
type AccountServiceOptions struct {
	Accounts core.AccountStatsRepository
	Fetcher  core.ProfileFetcher
	Logger   *slog.Logger
}

// AccountService serves read-side queries over stored account statistics.
type AccountService struct {
	accounts core.AccountStatsRepository
	fetcher  core.ProfileFetcher
	logger   *slog.Logger
}

// NewAccountService constructs a new AccountService.
func NewAccountService(opts AccountServiceOptions) *AccountService {
	return &AccountService{
		accounts: opts.Accounts,
		fetcher:  opts.Fetcher,
		logger:   resolveLogger(opts.Logger).With("component", "accounts"),
	}
}

// GetByHandle returns the stored record for a handle or account URL.
func (s *AccountService) GetByHandle(ctx context.Context, ref string) (*model.AccountStats, error) {
	handle := model.NormalizeHandle(ref)
	if handle == "" {
		return nil, apperrors.ValidationField("handle", "handle is required")
	}
	return s.accounts.GetByHandle(ctx, handle)
}

// Tweets lists recent tweets of an account; upstream failures yield an empty slice.
func (s *AccountService) Tweets(ctx context.Context, accountID string) []model.Tweet {
	accountID = strings.TrimSpace(accountID)
	if accountID == "" || s.fetcher == nil {
		return []model.Tweet{}
	}
	tweets := s.fetcher.FetchTweets(ctx, accountID)
	if tweets == nil {
		return []model.Tweet{}
	}
	return tweets
}

func resolveLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
