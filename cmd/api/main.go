package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/tipline/tipline/internal/api"
	"github.com/tipline/tipline/internal/pkg/config"
	"github.com/tipline/tipline/internal/pkg/logging"
	"github.com/tipline/tipline/internal/pkg/scoring"
	"github.com/tipline/tipline/internal/pkg/storage"
)

const defaultConfigPath = "configs/production.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("API server failed", "error", err)
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

	logger, err := logging.SetupLogger(&cfg.Logging, "api")
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	store, err := storage.NewPostgres(&cfg.Postgres)
	if err != nil {
		return fmt.Errorf("failed to init postgres: %w", err)
	}
	defer store.Close()

	kv, err := storage.NewKV(&cfg.Redis)
	if err != nil {
		return fmt.Errorf("failed to init redis: %w", err)
	}
	defer kv.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	engine := scoring.NewEngine(store, kv, logger)
	server := api.New(&cfg.API, store, kv, engine, logger)
	return server.Run(ctx)
}
