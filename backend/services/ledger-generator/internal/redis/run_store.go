package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"lremanager/backend/services/ledger-generator/internal/models"
)

const (
	keyPrefix      = "ledgergen:runs:"
	indexKey       = "ledgergen:runs"
	defaultKeep    = 100
	defaultRunsTTL = 30 * 24 * time.Hour
)

// RunStore journals run summaries in redis.
type RunStore struct {
	client redis.Cmdable
	ttl    time.Duration
	keep   int64
}

// NewRunStore returns redis-backed journal. Non-positive ttl or keep use defaults.
func NewRunStore(client redis.Cmdable, ttl time.Duration, keep int) *RunStore {
	if ttl <= 0 {
		ttl = defaultRunsTTL
	}
	if keep <= 0 {
		keep = defaultKeep
	}
	return &RunStore{client: client, ttl: ttl, keep: int64(keep)}
}

func (s *RunStore) key(runID string) string {
	return keyPrefix + runID
}

// Save stores the summary and pushes its id onto the recent-runs index.
func (s *RunStore) Save(ctx context.Context, summary *models.RunSummary) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("redis: encode run: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.key(summary.RunID), data, s.ttl)
		pipe.LPush(ctx, indexKey, summary.RunID)
		pipe.LTrim(ctx, indexKey, 0, s.keep-1)
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis: save run %s: %w", summary.RunID, err)
	}
	return nil
}

// Get returns one stored summary.
func (s *RunStore) Get(ctx context.Context, runID string) (*models.RunSummary, error) {
	raw, err := s.client.Get(ctx, s.key(runID)).Bytes()
	if err != nil {
		return nil, err
	}
	var summary models.RunSummary
	if err := json.Unmarshal(raw, &summary); err != nil {
		return nil, fmt.Errorf("redis: decode run %s: %w", runID, err)
	}
	return &summary, nil
}

// Recent returns up to limit summaries, newest first. Expired entries are skipped.
func (s *RunStore) Recent(ctx context.Context, limit int) ([]models.RunSummary, error) {
	if limit <= 0 {
		return nil, nil
	}
	ids, err := s.client.LRange(ctx, indexKey, 0, s.keep-1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis: list runs: %w", err)
	}

	runs := make([]models.RunSummary, 0, min(limit, len(ids)))
	for _, id := range ids {
		if len(runs) == limit {
			break
		}
		summary, err := s.Get(ctx, id)
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, err
		}
		runs = append(runs, *summary)
	}
	return runs, nil
}
