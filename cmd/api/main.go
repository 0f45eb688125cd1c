package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"bookcatalog/internal/app"
	"bookcatalog/internal/config"
	"bookcatalog/internal/platform/database"
)

func main() {
	cfg := config.Load()
	logger := newLogger(cfg.Log)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("cannot start application", "dsn", database.RedactDSN(cfg.Database.DSN), "error", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Run(ctx); err != nil {
		logger.Error("server error", "error", err)
		application.Close()
		os.Exit(1)
	}
}
