package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"lremanager/backend/libs/logging"
	"lremanager/backend/services/ledger-sink/internal/app"
	"lremanager/backend/services/ledger-sink/internal/config"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load("")
	if err != nil {
		panic(err)
	}

	logger, err := logging.NewLogger("ledger-sink")
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	application := app.New(cfg, logger)
	if err := application.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("ledger sink stopped with error", zap.Error(err))
	}
}
