// Command lightning-alert matches lightning strikes to asset tiles and prints
// an alert line per owner.
package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/couchcryptid/lightning-alert-service/internal/config"
	"github.com/couchcryptid/lightning-alert-service/internal/observability"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	err = newRootCmd(cfg, logger).ExecuteContext(ctx)
	stop()
	if err != nil {
		logger.Error(err.Error())
		os.Exit(1)
	}
}
