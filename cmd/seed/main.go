// Command seed loads curated teams and their aliases into the database.
// Idempotent: re-running upserts on the natural keys.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/joho/godotenv"

	"github.com/tipline/tipline/internal/pkg/config"
	"github.com/tipline/tipline/internal/pkg/logging"
	"github.com/tipline/tipline/internal/pkg/storage"
)

const defaultConfigPath = "configs/production.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("Seed failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}
	flag.StringVar(&configPath, "config", configPath, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.SetupLogger(&cfg.Logging, "seed")
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	store, err := storage.NewPostgres(&cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to init postgres: %w", err)
	}
	defer store.Close()

	ctx := context.Background()
	var teams, aliases int
	for sport, list := range curated {
		for _, t := range list {
			id, err := store.CreateTeamWithAlias(ctx, t.Name, t.Abbr, sport, strings.ToLower(t.Name))
			if err != nil {
				return fmt.Errorf("failed to seed team %s: %w", t.Name, err)
			}
			teams++
			aliases++
			for _, alias := range t.Aliases {
				if err := store.AddAlias(ctx, id, strings.ToLower(alias)); err != nil {
					return fmt.Errorf("failed to seed alias %s for %s: %w", alias, t.Name, err)
				}
				aliases++
			}
		}
		logger.Info("Seeded sport", "sport", sport, "teams", len(list))
	}

	logger.Info("Seeding complete", "teams", teams, "aliases", aliases)
	return nil
}
