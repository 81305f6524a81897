package app

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"lremanager/backend/libs/auth"
	libdb "lremanager/backend/libs/db"
	"lremanager/backend/services/ledger-generator/internal/config"
)

func TestSeedJournalsAndPushes(t *testing.T) {
	var posts, pushes atomic.Int32
	ledger := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		posts.Add(1)
		w.WriteHeader(http.StatusCreated)
	}))
	defer ledger.Close()
	gateway := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pushes.Add(1)
		w.WriteHeader(http.StatusOK)
	}))
	defer gateway.Close()
	mr := miniredis.RunT(t)

	cfg := config.Default()
	cfg.API.BaseURL = ledger.URL + "/api"
	cfg.Generator.Seed = 11
	cfg.Metrics.PushgatewayURL = gateway.URL
	cfg.Journal.RedisAddr = mr.Addr()

	var out bytes.Buffer
	application := New(cfg, zap.NewNop(), &out, false)
	defer application.Close()

	summary, err := application.Seed(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(80), posts.Load())
	assert.Equal(t, int32(1), pushes.Load())
	assert.Equal(t, uint64(11), summary.Seed)
	assert.Equal(t, "Generating transactions for Annual Program...\nGenerating transactions for POP Program...\n", out.String())

	out.Reset()
	require.NoError(t, application.Runs(context.Background(), 5))
	assert.True(t, strings.HasPrefix(out.String(), summary.RunID), out.String())
	assert.Contains(t, out.String(), "attempted=80 created=80 failed=0")
}

func TestSeedSendsServiceToken(t *testing.T) {
	const secret = "s3cret"
	validator := auth.NewTokenService(secret, 0)
	var bad atomic.Int32
	ledger := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := auth.BearerToken(r.Header.Get("Authorization"))
		if !ok {
			bad.Add(1)
		} else if _, err := validator.ValidateToken(token); err != nil {
			bad.Add(1)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer ledger.Close()

	cfg := config.Default()
	cfg.API.BaseURL = ledger.URL
	cfg.API.JWTSecret = secret
	cfg.Programs = cfg.Programs[:1]
	cfg.Programs[0].Count = 3

	application := New(cfg, zap.NewNop(), &bytes.Buffer{}, false)
	_, err := application.Seed(context.Background())
	require.NoError(t, err)
	assert.Zero(t, bad.Load())
}

func TestSeedSurvivesUnreachableJournal(t *testing.T) {
	ledger := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))
	defer ledger.Close()

	cfg := config.Default()
	cfg.API.BaseURL = ledger.URL
	cfg.Programs[0].Count = 1
	cfg.Programs[1].Count = 1
	cfg.Journal.RedisAddr = "127.0.0.1:1"

	application := New(cfg, zap.NewNop(), &bytes.Buffer{}, false)
	summary, err := application.Seed(context.Background())
	require.NoError(t, err)
	_, created, _ := summary.Totals()
	assert.Equal(t, 2, created)
}

func TestVerifyRequiresDSN(t *testing.T) {
	application := New(config.Default(), zap.NewNop(), &bytes.Buffer{}, false)
	assert.ErrorIs(t, application.Verify(context.Background()), libdb.ErrEmptyDSN)
	assert.ErrorIs(t, application.Purge(context.Background()), libdb.ErrEmptyDSN)
}

func TestRunsRequiresJournal(t *testing.T) {
	application := New(config.Default(), zap.NewNop(), &bytes.Buffer{}, false)
	assert.ErrorIs(t, application.Runs(context.Background(), 5), ErrJournalDisabled)
}
