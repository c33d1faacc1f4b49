// Package main implements the entry point for the picpost API
// server, which accepts image post submissions, processes them
// asynchronously and serves task state to polling clients.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"

	"github.com/mtereshin/picpost-api/internal/config"
	"github.com/mtereshin/picpost-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "",
		"run a migration command (up, down, status) and exit")
	flag.Parse()

	cfg, appLogger, err := initialize()
	if err != nil {
		log.Fatalf("failed to initialize application: %v", err)
	}

	if *migrateCmd != "" {
		if err := runMigrationCommand(cfg, *migrateCmd); err != nil {
			appLogger.Error("migration failed", "command", *migrateCmd, "error", err)
			log.Fatalf("migration failed: %v", err)
		}
		return
	}

	app, err := newApplication(context.Background(), cfg, appLogger)
	if err != nil {
		log.Fatalf("failed to build application: %v", err)
	}

	if err := app.run(context.Background()); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// initialize loads configuration and sets up structured logging.
func initialize() (*config.Config, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"ledger_backend", cfg.Ledger.Backend,
		"queue_backend", cfg.Queue.Backend,
		"worker_count", cfg.Worker.Count)

	return cfg, appLogger, nil
}
