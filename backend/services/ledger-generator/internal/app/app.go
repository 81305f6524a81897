package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"lremanager/backend/libs/auth"
	libdb "lremanager/backend/libs/db"
	libredis "lremanager/backend/libs/redis"
	"lremanager/backend/services/ledger-generator/internal/clients"
	"lremanager/backend/services/ledger-generator/internal/config"
	"lremanager/backend/services/ledger-generator/internal/generator"
	"lremanager/backend/services/ledger-generator/internal/metrics"
	"lremanager/backend/services/ledger-generator/internal/models"
	redisstore "lremanager/backend/services/ledger-generator/internal/redis"
	"lremanager/backend/services/ledger-generator/internal/repository"
	"lremanager/backend/services/ledger-generator/internal/service"
)

const (
	serviceName    = "ledger-generator"
	serviceRole    = "seeder"
	tokenLifetime  = 15 * time.Minute
	sideEffectWait = 10 * time.Second
)

// ErrJournalDisabled is returned by Runs when no redis address is configured.
var ErrJournalDisabled = errors.New("app: run journal is not configured")

// App wires ledger-generator dependencies. Connections are opened on first use.
type App struct {
	cfg    *config.Config
	logger *zap.Logger
	out    io.Writer
	color  bool

	httpClient  clients.HTTPDoer
	db          *sql.DB
	redisClient *redis.Client
}

// New constructs the application. out receives the human report.
func New(cfg *config.Config, logger *zap.Logger, out io.Writer, color bool) *App {
	return &App{
		cfg:        cfg,
		logger:     logger,
		out:        out,
		color:      color,
		httpClient: clients.NewDefaultHTTPClient(cfg.HTTPTimeout()),
	}
}

// Seed generates and submits transactions for every configured program, then
// records the run in the optional metrics and journal sinks.
func (a *App) Seed(ctx context.Context) (*models.RunSummary, error) {
	programs, err := a.cfg.SeedPrograms()
	if err != nil {
		return nil, err
	}

	seed := a.cfg.Generator.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}

	var tokens clients.TokenSource
	if a.cfg.API.JWTSecret != "" {
		ts := auth.NewTokenService(a.cfg.API.JWTSecret, tokenLifetime)
		tokens = clients.TokenFunc(func() (string, error) {
			return ts.GenerateToken(serviceName, serviceRole)
		})
	}

	recorder := metrics.NewRecorder()
	seeder := service.NewSeeder(
		generator.NewSeeded(seed),
		clients.NewLedgerClient(a.cfg.API.BaseURL, a.httpClient, tokens),
		recorder,
		a.out,
		a.logger,
		service.Options{
			Workers: a.cfg.Generator.Workers,
			DryRun:  a.cfg.Generator.DryRun,
			Seed:    seed,
			Color:   a.color,
		},
	)

	summary, err := seeder.Run(ctx, programs)
	if err != nil {
		return nil, err
	}
	recorder.ObserveRun(summary)

	// Side effects run on a fresh context so an interrupted run is still recorded.
	sideCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sideEffectWait)
	defer cancel()

	if url := a.cfg.Metrics.PushgatewayURL; url != "" {
		if err := recorder.Push(sideCtx, url, summary.RunID); err != nil {
			a.logger.Warn("failed to push metrics", zap.Error(err))
		}
	}
	if a.cfg.Journal.RedisAddr != "" {
		if err := a.journal(sideCtx, summary); err != nil {
			a.logger.Warn("failed to journal run", zap.String("run_id", summary.RunID), zap.Error(err))
		}
	}
	return summary, nil
}

func (a *App) journal(ctx context.Context, summary *models.RunSummary) error {
	store, err := a.runStore(ctx)
	if err != nil {
		return err
	}
	return store.Save(ctx, summary)
}

// Verify prints the number of stored ledger entries per configured program.
func (a *App) Verify(ctx context.Context) error {
	repo, err := a.ledgerRepository(ctx)
	if err != nil {
		return err
	}
	for _, p := range a.cfg.Programs {
		n, err := repo.CountByProgram(ctx, strconv.FormatInt(p.ID, 10))
		if err != nil {
			return err
		}
		fmt.Fprintf(a.out, "program %d (%s): %d ledger entries\n", p.ID, p.Name, n)
	}
	return nil
}

// Purge deletes stored ledger entries of every configured program.
func (a *App) Purge(ctx context.Context) error {
	repo, err := a.ledgerRepository(ctx)
	if err != nil {
		return err
	}
	for _, p := range a.cfg.Programs {
		n, err := repo.DeleteByProgram(ctx, strconv.FormatInt(p.ID, 10))
		if err != nil {
			return err
		}
		a.logger.Info("purged ledger entries", zap.Int64("program_id", p.ID), zap.Int64("removed", n))
		fmt.Fprintf(a.out, "program %d (%s): removed %d ledger entries\n", p.ID, p.Name, n)
	}
	return nil
}

// Runs prints up to limit journaled runs, newest first.
func (a *App) Runs(ctx context.Context, limit int) error {
	if a.cfg.Journal.RedisAddr == "" {
		return ErrJournalDisabled
	}
	store, err := a.runStore(ctx)
	if err != nil {
		return err
	}
	runs, err := store.Recent(ctx, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(a.out, "no runs recorded")
		return nil
	}
	for _, r := range runs {
		attempted, created, failed := r.Totals()
		line := fmt.Sprintf("%s  %s  seed=%d  attempted=%d created=%d failed=%d",
			r.RunID, r.StartedAt.Format(time.RFC3339), r.Seed, attempted, created, failed)
		if r.Canceled {
			line += "  canceled"
		}
		fmt.Fprintln(a.out, line)
	}
	return nil
}

func (a *App) ledgerRepository(ctx context.Context) (*repository.LedgerRepository, error) {
	if a.db == nil {
		sqlDB, err := libdb.NewPostgresDB(ctx, a.cfg.Database.DSN)
		if err != nil {
			return nil, err
		}
		a.db = sqlDB
	}
	return repository.NewLedgerRepository(a.db), nil
}

func (a *App) runStore(ctx context.Context) (*redisstore.RunStore, error) {
	if a.redisClient == nil {
		client, err := libredis.NewRedisClient(ctx, a.cfg.Journal.RedisAddr, a.cfg.Journal.RedisPassword, a.cfg.Journal.RedisDB)
		if err != nil {
			return nil, err
		}
		a.redisClient = client
	}
	return redisstore.NewRunStore(a.redisClient, a.cfg.JournalTTL(), a.cfg.Journal.Keep), nil
}

// Close releases resources.
func (a *App) Close() {
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Warn("failed to close db", zap.Error(err))
		}
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warn("failed to close redis", zap.Error(err))
		}
	}
}
