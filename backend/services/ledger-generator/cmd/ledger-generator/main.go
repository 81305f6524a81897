package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"lremanager/backend/libs/logging"
	"lremanager/backend/services/ledger-generator/internal/cli"
)

var version = "0.0.0-dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := logging.NewLogger("ledger-generator")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: init logger: %v\n", err)
		os.Exit(1)
	}

	err = cli.NewCLIApp(version, os.Stdout, logger).Execute(ctx)
	_ = logger.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
