// Command migrate applies or inspects the embedded database migrations.
//
//	migrate [up|down|status]
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/videotube/backend/internal/config"
	"github.com/videotube/backend/internal/logging"
	"github.com/videotube/backend/internal/repository/postgres"
)

func main() {
	cfg := config.Load()
	logger := logging.New(logging.Config{Level: cfg.Log.Level, Format: "text"})

	command := "up"
	if len(os.Args) > 1 {
		command = os.Args[1]
	}

	ctx := context.Background()
	pool, err := postgres.Connect(ctx, cfg.Database.URL, logger)
	if err != nil {
		logger.Error("connect failed", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	switch command {
	case "up":
		err = postgres.Migrate(ctx, pool)
	case "down":
		err = postgres.MigrateDown(ctx, pool)
	case "status":
		err = postgres.MigrationStatus(ctx, pool)
	default:
		fmt.Fprintf(os.Stderr, "usage: %s [up|down|status]\n", os.Args[0])
		pool.Close()
		os.Exit(2)
	}
	if err != nil {
		logger.Error("migration failed", "command", command, "error", err)
		pool.Close()
		os.Exit(1)
	}
	logger.Info("migration finished", "command", command)
}
