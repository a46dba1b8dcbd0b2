package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/target/xstats/internal/core"
	"github.com/target/xstats/internal/domain/model"
	apperrors "github.com/target/xstats/internal/errors"
	"github.com/target/xstats/internal/observability/metrics"
	"github.com/target/xstats/internal/observability/statsd"
)

const (
	defaultStatusTTL            = 24 * time.Hour
	defaultBatchTimeout         = 30 * time.Second
	defaultRunTimeout           = 10 * time.Minute
	defaultMaxConcurrentBatches = 8
	defaultBatchLimit           = 100
)

// ErrIngestShuttingDown is returned by Submit once shutdown has begun.
var ErrIngestShuttingDown = apperrors.Unavailable("ingestion is shutting down")

// IngestServiceOptions groups dependencies for IngestService.
type IngestServiceOptions struct {
	Statuses core.StatusStore
	Accounts core.AccountStatsRepository
	Fetcher  core.ProfileFetcher
	Logger   *slog.Logger
	Metrics  statsd.Sink

	StatusTTL            time.Duration // defaults to 24h
	BatchTimeout         time.Duration // bounds the lookup and writes of one batch; defaults to 30s
	RunTimeout           time.Duration // bounds a whole detached run; defaults to 10m
	MaxConcurrentBatches int           // defaults to 8

	// NewJobID overrides job id generation (tests).
	NewJobID func() string
}

// IngestService accepts batches of account references, tracks per-handle
// status and ingests profiles in the background.
type IngestService struct {
	statuses core.StatusStore
	accounts core.AccountStatsRepository
	fetcher  core.ProfileFetcher
	logger   *slog.Logger
	metrics  statsd.Sink

	statusTTL    time.Duration
	batchTimeout time.Duration
	runTimeout   time.Duration
	concurrency  int
	newJobID     func() string

	mu       sync.Mutex
	closing  bool
	inflight sync.WaitGroup
}

// OutcomeKind classifies how a single batch ended.
type OutcomeKind string

const (
	// OutcomeSucceeded means every handle in the batch was resolved and stored.
	OutcomeSucceeded OutcomeKind = "succeeded"
	// OutcomePartial means the lookup succeeded but some handles were unresolved or failed to store.
	OutcomePartial OutcomeKind = "partial"
	// OutcomeFetchFailed means the remote lookup failed as a whole; every handle stays pending.
	OutcomeFetchFailed OutcomeKind = "fetch_failed"
)

// BatchOutcome records what happened to one batch of a run.
type BatchOutcome struct {
	Handles []string
	Kind    OutcomeKind
	// Succeeded handles were stored and marked success.
	Succeeded []string
	// Unresolved handles were absent from a successful lookup response.
	Unresolved []string
	// StoreFailed handles were resolved but could not be stored.
	StoreFailed []string
	Err         error
	Duration    time.Duration
}

// RunReport summarizes a full ingestion run.
type RunReport struct {
	JobID    string
	Batches  []BatchOutcome
	Duration time.Duration
}

// FailedBatches returns the batches whose lookup failed.
func (r RunReport) FailedBatches() []BatchOutcome {
	var out []BatchOutcome
	for _, b := range r.Batches {
		if b.Kind == OutcomeFetchFailed {
			out = append(out, b)
		}
	}
	return out
}

// SucceededCount counts handles marked success across the run.
func (r RunReport) SucceededCount() int {
	n := 0
	for _, b := range r.Batches {
		n += len(b.Succeeded)
	}
	return n
}

// NewIngestService constructs a new IngestService.
func NewIngestService(opts IngestServiceOptions) *IngestService {
	logger := resolveLogger(opts.Logger)
	sink := opts.Metrics
	if sink == nil {
		sink = statsd.Discard{}
	}
	newID := opts.NewJobID
	if newID == nil {
		newID = NewJobID
	}
	return &IngestService{
		statuses:     opts.Statuses,
		accounts:     opts.Accounts,
		fetcher:      opts.Fetcher,
		logger:       logger.With("component", "ingest"),
		metrics:      sink,
		statusTTL:    durationOr(opts.StatusTTL, defaultStatusTTL),
		batchTimeout: durationOr(opts.BatchTimeout, defaultBatchTimeout),
		runTimeout:   durationOr(opts.RunTimeout, defaultRunTimeout),
		concurrency:  intOr(opts.MaxConcurrentBatches, defaultMaxConcurrentBatches),
		newJobID:     newID,
	}
}

// NewJobID returns a random job id rendered as 32 lowercase hex characters.
func NewJobID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// Submit normalizes refs into handles, marks each one pending and starts the
// ingestion run in the background. The returned job id can be polled with
// Statuses immediately; every handle is already visible as pending.
func (s *IngestService) Submit(ctx context.Context, refs []string) (string, error) {
	handles := model.NormalizeHandles(refs)
	if len(handles) == 0 {
		err := apperrors.ValidationField("usernames", "at least one account reference is required")
		metrics.EmitSubmit(s.metrics, metrics.ResultRejected, 0, err)
		return "", err
	}

	s.mu.Lock()
	if s.closing {
		s.mu.Unlock()
		metrics.EmitSubmit(s.metrics, metrics.ResultRejected, 0, ErrIngestShuttingDown)
		return "", ErrIngestShuttingDown
	}
	s.inflight.Add(1)
	s.mu.Unlock()

	jobID := s.newJobID()
	if err := s.statuses.SeedPending(ctx, jobID, handles, s.statusTTL); err != nil {
		s.inflight.Done()
		s.logger.ErrorContext(ctx, "seed pending statuses failed", "job_id", jobID, "handles", len(handles), "error", err)
		metrics.EmitSubmit(s.metrics, metrics.ResultError, 0, err)
		return "", err
	}

	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.runTimeout)
	go func() {
		defer s.inflight.Done()
		defer cancel()
		s.Run(runCtx, jobID, handles)
	}()

	s.logger.InfoContext(ctx, "ingestion job submitted", "job_id", jobID, "handles", len(handles))
	metrics.EmitSubmit(s.metrics, metrics.ResultSuccess, len(handles), nil)
	return jobID, nil
}

// Statuses returns every live status entry of a job. An unknown or expired
// job yields an empty slice.
func (s *IngestService) Statuses(ctx context.Context, jobID string) ([]model.StatusEntry, error) {
	entries, err := s.statuses.GetStatuses(ctx, strings.TrimSpace(jobID))
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []model.StatusEntry{}
	}
	return entries, nil
}

// Run partitions handles into batches and processes them concurrently. It
// never fails as a whole; per-batch results are reported in RunReport.
func (s *IngestService) Run(ctx context.Context, jobID string, handles []string) RunReport {
	start := time.Now()
	batches := model.PartitionHandles(handles, s.batchLimit())
	report := RunReport{JobID: jobID, Batches: make([]BatchOutcome, len(batches))}

	var group errgroup.Group
	group.SetLimit(s.concurrency)
	for i, batch := range batches {
		group.Go(func() error {
			report.Batches[i] = s.runBatch(ctx, jobID, batch)
			return nil
		})
	}
	_ = group.Wait()

	report.Duration = time.Since(start)
	metrics.EmitRun(s.metrics, report.Duration)
	s.logger.InfoContext(ctx, "ingestion run finished",
		"job_id", jobID,
		"handles", len(handles),
		"batches", len(batches),
		"succeeded", report.SucceededCount(),
		"failed_batches", len(report.FailedBatches()),
		"duration_ms", report.Duration.Milliseconds(),
	)
	return report
}

// Wait stops accepting submissions and blocks until every in-flight run has
// finished or ctx is done.
func (s *IngestService) Wait(ctx context.Context) error {
	s.mu.Lock()
	s.closing = true
	s.mu.Unlock()

	done := make(chan struct{})
	go func() {
		s.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *IngestService) batchLimit() int {
	if s.fetcher == nil {
		return defaultBatchLimit
	}
	if n := s.fetcher.BatchLimit(); n > 0 {
		return n
	}
	return defaultBatchLimit
}

func (s *IngestService) runBatch(ctx context.Context, jobID string, batch []string) BatchOutcome {
	start := time.Now()
	out := BatchOutcome{Handles: batch}
	logger := s.logger.With("job_id", jobID, "batch_size", len(batch))

	bctx, cancel := context.WithTimeout(ctx, s.batchTimeout)
	defer cancel()

	profiles, err := s.fetcher.FetchBatch(bctx, batch)
	if err != nil {
		out.Kind = OutcomeFetchFailed
		out.Err = err
		out.Duration = time.Since(start)
		logger.WarnContext(ctx, "batch lookup failed; handles stay pending", "handles", batch, "error", err)
		// The status writes use the run context: a batch timeout must not prevent the reset.
		for _, h := range batch {
			s.setStatus(ctx, logger, jobID, h, model.AccountStatusPending)
		}
		metrics.EmitBatch(s.metrics, metrics.BatchMetric{
			Result:   metrics.ResultFetchFailed,
			Duration: out.Duration,
			Err:      err,
		})
		return out
	}

	// Every requested spelling of a handle is settled by the one profile returned for it.
	requested := make(map[string][]string, len(batch))
	for _, h := range batch {
		key := strings.ToLower(h)
		requested[key] = append(requested[key], h)
	}
	resolved := make(map[string]struct{}, len(batch))

	for i := range profiles {
		profile := profiles[i]
		spellings, ok := requested[strings.ToLower(profile.Handle)]
		if !ok {
			logger.WarnContext(ctx, "lookup returned an unrequested account", "handle", profile.Handle)
			continue
		}
		for _, h := range spellings {
			resolved[h] = struct{}{}
		}

		_, upsertErr := s.accounts.Upsert(bctx, &profile)
		metrics.EmitUpsert(s.metrics, upsertErr)
		if upsertErr != nil {
			out.StoreFailed = append(out.StoreFailed, spellings...)
			logger.ErrorContext(ctx, "store account stats failed; handle stays pending",
				"handles", spellings, "external_id", profile.ExternalID,
				"conflict", apperrors.IsConflict(upsertErr), "error", upsertErr)
			continue
		}
		for _, h := range spellings {
			if s.setStatus(ctx, logger, jobID, h, model.AccountStatusSuccess) {
				out.Succeeded = append(out.Succeeded, h)
			}
		}
	}

	for _, h := range batch {
		if _, ok := resolved[h]; !ok {
			out.Unresolved = append(out.Unresolved, h)
		}
	}
	if len(out.Unresolved) > 0 {
		logger.InfoContext(ctx, "handles not resolved by lookup; they stay pending", "handles", out.Unresolved)
	}

	out.Kind = OutcomeSucceeded
	result := metrics.ResultSuccess
	if len(out.Succeeded) != len(batch) {
		out.Kind = OutcomePartial
		result = metrics.ResultPartial
	}
	out.Duration = time.Since(start)
	metrics.EmitBatch(s.metrics, metrics.BatchMetric{
		Result:     result,
		Unresolved: len(out.Unresolved),
		Duration:   out.Duration,
	})
	return out
}

// setStatus writes one status entry and reports whether it succeeded. Failures
// are logged; the entry keeps its previous value and expires with the job.
func (s *IngestService) setStatus(
	ctx context.Context,
	logger *slog.Logger,
	jobID, handle string,
	status model.AccountStatus,
) bool {
	err := s.statuses.SetStatus(ctx, jobID, handle, status, s.statusTTL)
	if err == nil {
		return true
	}
	level := slog.LevelError
	if errors.Is(err, context.Canceled) {
		level = slog.LevelWarn
	}
	logger.Log(ctx, level, "status write failed", "handle", handle, "status", status, "error", err)
	return false
}

func durationOr(v, def time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return def
}

func intOr(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}
