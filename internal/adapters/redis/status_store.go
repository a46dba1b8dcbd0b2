// Package redis provides Redis-based adapters for the ingestion pipeline.
package redis

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/target/xstats/internal/core"
	"github.com/target/xstats/internal/domain/model"
	apperrors "github.com/target/xstats/internal/errors"
)

const (
	keySeparator = ":"
	scanCount    = 500
	// Characters with meaning in a SCAN MATCH pattern or a cluster hash tag,
	// plus the key separator.
	reservedJobIDChars = `*?[]\:{}`
)

// StatusStore keeps per-handle job statuses as plain string keys of the form
// "{<jobID>}:<handle>", each with its own expiry. The hash tag keeps every key
// of a job in one cluster slot, so a job can be scanned on a single node and
// read with one MGET.
type StatusStore struct {
	client redis.UniversalClient
}

var _ core.StatusStore = (*StatusStore)(nil)

// NewStatusStore creates a Redis-backed status store.
func NewStatusStore(client redis.UniversalClient) *StatusStore {
	return &StatusStore{client: client}
}

func jobKeyPrefix(jobID string) string {
	return "{" + jobID + "}" + keySeparator
}

func statusKey(jobID, handle string) string {
	return jobKeyPrefix(jobID) + handle
}

func validateJobID(jobID string) error {
	if strings.TrimSpace(jobID) == "" {
		return apperrors.ValidationField("job_id", "job id is required")
	}
	if strings.ContainsAny(jobID, reservedJobIDChars) {
		return apperrors.ValidationField("job_id", "job id contains reserved characters")
	}
	return nil
}

// SetStatus overwrites the status of a single handle and refreshes its TTL.
func (s *StatusStore) SetStatus(
	ctx context.Context,
	jobID, handle string,
	status model.AccountStatus,
	ttl time.Duration,
) error {
	if err := validateJobID(jobID); err != nil {
		return err
	}
	if handle == "" {
		return apperrors.ValidationField("handle", "handle is required")
	}
	if !status.Valid() {
		return apperrors.Validationf("unsupported status %q", status)
	}

	err := s.client.Set(ctx, statusKey(jobID, handle), string(status), ttl).Err()
	return apperrors.MapRedisError(err, "set status")
}

// SeedPending writes a PENDING entry for every handle using a single pipeline.
func (s *StatusStore) SeedPending(ctx context.Context, jobID string, handles []string, ttl time.Duration) error {
	if err := validateJobID(jobID); err != nil {
		return err
	}
	if len(handles) == 0 {
		return nil
	}

	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, h := range handles {
			pipe.Set(ctx, statusKey(jobID, h), string(model.AccountStatusPending), ttl)
		}
		return nil
	})
	return apperrors.MapRedisError(err, "seed pending statuses")
}

// GetStatuses lists every live entry of a job sorted by handle. Keys that expire
// between the scan and the read are skipped. An unknown job yields an empty slice.
func (s *StatusStore) GetStatuses(ctx context.Context, jobID string) ([]model.StatusEntry, error) {
	if err := validateJobID(jobID); err != nil {
		return nil, err
	}

	keys, err := s.scanJobKeys(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if len(keys) == 0 {
		return []model.StatusEntry{}, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, apperrors.MapRedisError(err, "read statuses")
	}

	prefix := jobKeyPrefix(jobID)
	entries := make([]model.StatusEntry, 0, len(keys))
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		status, ok := model.ParseAccountStatus(raw)
		if !ok {
			continue
		}
		entries = append(entries, model.StatusEntry{
			Handle: strings.TrimPrefix(keys[i], prefix),
			Status: status,
		})
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Handle < entries[j].Handle })
	return entries, nil
}

type keyScanner interface {
	Scan(ctx context.Context, cursor uint64, match string, count int64) *redis.ScanCmd
}

// scannerFor returns the client that owns the job's slot. A cluster routes a
// keyless SCAN to an arbitrary node, so it is sent to the slot master instead.
func (s *StatusStore) scannerFor(ctx context.Context, jobID string) (keyScanner, error) {
	cluster, ok := s.client.(*redis.ClusterClient)
	if !ok {
		return s.client, nil
	}
	node, err := cluster.MasterForKey(ctx, jobKeyPrefix(jobID))
	if err != nil {
		return nil, apperrors.MapRedisError(err, "locate status slot")
	}
	return node, nil
}

func (s *StatusStore) scanJobKeys(ctx context.Context, jobID string) ([]string, error) {
	scanner, err := s.scannerFor(ctx, jobID)
	if err != nil {
		return nil, err
	}
	match := jobKeyPrefix(jobID) + "*"
	seen := make(map[string]struct{})
	var keys []string
	var cursor uint64
	for {
		batch, next, err := scanner.Scan(ctx, cursor, match, scanCount).Result()
		if err != nil {
			return nil, apperrors.MapRedisError(err, "scan statuses")
		}
		for _, k := range batch {
			if _, dup := seen[k]; dup {
				continue
			}
			seen[k] = struct{}{}
			keys = append(keys, k)
		}
		cursor = next
		if cursor == 0 {
			return keys, nil
		}
	}
}
