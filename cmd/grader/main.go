package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tipline/tipline/internal/pkg/config"
	"github.com/tipline/tipline/internal/pkg/grader"
	"github.com/tipline/tipline/internal/pkg/logging"
	"github.com/tipline/tipline/internal/pkg/resolver"
	"github.com/tipline/tipline/internal/pkg/storage"
)

const defaultConfigPath = "configs/production.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("Grader failed", "error", err)
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

	logger, err := logging.SetupLogger(&cfg.Logging, "grader")
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	if cfg.Grader.ScoreboardURL == "" {
		return fmt.Errorf("grader.scoreboard_url must be set (or SCOREBOARD_URL env var)")
	}

	store, err := storage.NewPostgres(&cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to init postgres: %w", err)
	}
	defer store.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	source := grader.NewScoreboardClient(cfg.Grader.ScoreboardURL, 30*time.Second)
	g := grader.New(&cfg.Grader, store, resolver.New(store), source, logger)

	logger.Info("Starting grader", "interval", cfg.Grader.Interval, "sports", cfg.Grader.Sports)
	g.Run(ctx)

	logger.Info("Grader stopped")
	return nil
}
