package app

import (
	"context"
	"net"
	"net/http"

	"go.uber.org/zap"

	"lremanager/backend/libs/auth"
	"lremanager/backend/services/ledger-sink/internal/config"
	httpserver "lremanager/backend/services/ledger-sink/internal/http"
	"lremanager/backend/services/ledger-sink/internal/http/handlers"
	"lremanager/backend/services/ledger-sink/internal/http/middleware"
	"lremanager/backend/services/ledger-sink/internal/metrics"
	"lremanager/backend/services/ledger-sink/internal/models"
	"lremanager/backend/services/ledger-sink/internal/service"
	"lremanager/backend/services/ledger-sink/internal/store"
)

// App wires ledger-sink dependencies.
type App struct {
	server  *httpserver.Server
	handler http.Handler
	logger  *zap.Logger
}

// New constructs the application graph.
func New(cfg *config.Config, logger *zap.Logger) *App {
	programs := make([]models.Program, 0, len(cfg.Programs))
	for _, p := range cfg.Programs {
		programs = append(programs, models.Program{ID: p.ID, Name: p.Name})
	}

	ledgerService := service.NewLedgerService(store.NewMemoryStore(programs), service.FailurePolicy{
		Rate:   cfg.Failure.Rate,
		Status: cfg.Failure.Status,
		Body:   cfg.Failure.Body,
	}, logger)
	sinkMetrics := metrics.New()

	var tokens *auth.TokenService
	if cfg.JWT.Secret != "" {
		tokens = auth.NewTokenService(cfg.JWT.Secret, 0)
	}

	router := httpserver.NewRouter(httpserver.RouterDeps{
		LedgerHandlers: handlers.NewLedgerHandlers(ledgerService, sinkMetrics, logger),
		HealthHandler:  handlers.NewHealthHandler(),
		MetricsHandler: sinkMetrics.Handler(),
	}, middleware.Auth(tokens))

	stack := []func(http.Handler) http.Handler{
		middleware.Recovery(logger),
		middleware.RequestID,
		middleware.Logger(logger),
	}

	return &App{
		server:  httpserver.NewServer(cfg.HTTPAddress(), router, logger, stack...),
		handler: middleware.Chain(router, stack...),
		logger:  logger,
	}
}

// Handler returns the fully wrapped HTTP handler.
func (a *App) Handler() http.Handler {
	return a.handler
}

// Run starts HTTP server.
func (a *App) Run(ctx context.Context) error {
	return a.server.Run(ctx)
}

// Serve runs the server on an existing listener.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	return a.server.Serve(ctx, ln)
}
