package redisstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lremanager/backend/services/ledger-generator/internal/models"
)

func newStore(t *testing.T, ttl time.Duration, keep int) (*RunStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRunStore(client, ttl, keep), mr
}

func summary(id string) *models.RunSummary {
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return &models.RunSummary{
		RunID:      id,
		Seed:       42,
		StartedAt:  start,
		FinishedAt: start.Add(time.Second),
		Programs:   []models.ProgramSummary{{ProgramID: 1, Name: "Annual Program", Mode: "annual", Attempted: 40, Created: 40}},
	}
}

func TestSaveAndGet(t *testing.T) {
	store, mr := newStore(t, time.Hour, 10)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, summary("a")))

	got, err := store.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, "a", got.RunID)
	assert.Equal(t, uint64(42), got.Seed)
	assert.Equal(t, 40, got.Programs[0].Created)
	assert.Equal(t, time.Hour, mr.TTL("ledgergen:runs:a"))
}

func TestRecentNewestFirstAndTrimmed(t *testing.T) {
	store, mr := newStore(t, time.Hour, 3)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		require.NoError(t, store.Save(ctx, summary(id)))
	}

	runs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 3)
	assert.Equal(t, "d", runs[0].RunID)
	assert.Equal(t, "b", runs[2].RunID)

	ids, err := mr.List("ledgergen:runs")
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c", "b"}, ids)

	runs, err = store.Recent(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "d", runs[0].RunID)
}

func TestRecentSkipsExpired(t *testing.T) {
	store, mr := newStore(t, time.Minute, 10)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, summary("old")))
	mr.FastForward(2 * time.Minute)
	require.NoError(t, store.Save(ctx, summary("new")))

	runs, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "new", runs[0].RunID)

	_, err = store.Get(ctx, "old")
	assert.True(t, errors.Is(err, redis.Nil))
}
