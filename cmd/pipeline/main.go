package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sort"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/tipline/tipline/internal/pkg/adapters"
	"github.com/tipline/tipline/internal/pkg/config"
	"github.com/tipline/tipline/internal/pkg/fetch"
	"github.com/tipline/tipline/internal/pkg/logging"
	"github.com/tipline/tipline/internal/pkg/models"
	"github.com/tipline/tipline/internal/pkg/normalizer"
	"github.com/tipline/tipline/internal/pkg/queue"
	"github.com/tipline/tipline/internal/pkg/ratelimit"
	"github.com/tipline/tipline/internal/pkg/resolver"
	"github.com/tipline/tipline/internal/pkg/robots"
	"github.com/tipline/tipline/internal/pkg/scheduler"
	"github.com/tipline/tipline/internal/pkg/snapshot"
	"github.com/tipline/tipline/internal/pkg/storage"
	"github.com/tipline/tipline/internal/pkg/worker"

	// Register all supported adapters via init().
	_ "github.com/tipline/tipline/internal/pkg/adapters/all"
)

const defaultConfigPath = "configs/production.yaml"

type flags struct {
	configPath string
	runFor     time.Duration
	adapter    string // override adapters.enabled from config
}

func main() {
	if err := run(); err != nil {
		slog.Error("Pipeline failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()

	f := parseFlags()
	slog.Info("Loading config", "path", f.configPath)
	cfg, err := config.Load(f.configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := logging.SetupLogger(&cfg.Logging, "pipeline")
	if err != nil {
		return fmt.Errorf("failed to setup logging: %w", err)
	}

	if f.adapter != "" {
		cfg.Adapters.Enabled = []string{f.adapter}
	}
	enabled := enabledAdapters(cfg)
	if len(enabled) == 0 {
		return fmt.Errorf("no adapters enabled (available: %s)", strings.Join(adapters.AvailableIDs(), ", "))
	}
	printEnabled(enabled, logger)

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

	snaps, err := snapshot.NewStore(cfg.Snapshots.Dir)
	if err != nil {
		return fmt.Errorf("failed to init snapshot store: %w", err)
	}

	ctx, cancel := createContext(f.runFor)
	defer cancel()
	setupSignalHandler(ctx, cancel)

	if err := seedSources(ctx, store, enabled); err != nil {
		return fmt.Errorf("failed to seed sources: %w", err)
	}

	renderer, err := fetch.NewBrowserRenderer(cfg.Fetcher.UserAgent, cfg.Fetcher.BrowserContexts)
	if err != nil {
		return fmt.Errorf("failed to init browser renderer: %w", err)
	}
	defer renderer.Close()

	fetchQ := queue.New(kv.Client(), "fetch")
	parseQ := queue.New(kv.Client(), "parse")
	fetchQ.StartDelayedPump(ctx, time.Second)

	res := resolver.New(store)
	norm := normalizer.New(store, res, logger)

	fetcher := worker.NewFetcher(
		fetchQ, parseQ,
		fetch.NewHTTPFetcher(cfg.Fetcher.UserAgent, cfg.Fetcher.Timeout),
		renderer,
		robots.NewChecker(cfg.Fetcher.UserAgent, 10*time.Second),
		ratelimit.NewPerSource(),
		snaps, store, enabled, logger,
	)
	parser := worker.NewParser(parseQ, snaps, norm, kv, enabled, logger)

	sched := scheduler.New(&cfg.Scheduler, kv, fetchQ, enabled, logger)
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	logger.Info("Starting workers",
		"fetch_workers", cfg.Workers.FetchWorkers,
		"parse_workers", cfg.Workers.ParseWorkers)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		fetcher.Run(ctx, cfg.Workers.FetchWorkers)
	}()
	go func() {
		defer wg.Done()
		parser.Run(ctx, cfg.Workers.ParseWorkers)
	}()
	wg.Wait()

	logger.Info("Pipeline stopped")
	return nil
}

func parseFlags() flags {
	var f flags

	defaultConfig := os.Getenv("CONFIG_PATH")
	if defaultConfig == "" {
		defaultConfig = defaultConfigPath
	}

	flag.StringVar(&f.configPath, "config", defaultConfig, "Path to config file (can be set via CONFIG_PATH env var)")
	flag.DurationVar(&f.runFor, "run-for", 0, "Auto-stop after duration (e.g. 10s, 1m). 0 = run until SIGINT/SIGTERM")
	flag.StringVar(&f.adapter, "adapter", "", "Override adapters.enabled: run a single adapter by id. Empty = use config")
	flag.Parse()
	return f
}

func enabledAdapters(cfg *config.Config) []*adapters.Adapter {
	byID := adapters.Enabled(cfg.Adapters.Enabled)
	ids := make([]string, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*adapters.Adapter, 0, len(ids))
	for _, id := range ids {
		out = append(out, byID[id])
	}
	return out
}

func printEnabled(enabled []*adapters.Adapter, logger *slog.Logger) {
	ids := make([]string, 0, len(enabled))
	for _, a := range enabled {
		ids = append(ids, a.Config.ID)
	}
	logger.Info("Enabled adapters", "adapters", strings.Join(ids, ", "))
}

// seedSources upserts a source row per enabled adapter so normalization can
// attribute predictions on first run.
func seedSources(ctx context.Context, store *storage.Postgres, enabled []*adapters.Adapter) error {
	for _, a := range enabled {
		_, err := store.UpsertSource(ctx, &models.Source{
			Slug:        a.Config.ID,
			Name:        a.Config.Name,
			BaseURL:     a.Config.BaseURL,
			FetchMethod: a.Config.FetchMethod,
			IsActive:    true,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func createContext(runFor time.Duration) (context.Context, context.CancelFunc) {
	if runFor > 0 {
		return context.WithTimeout(context.Background(), runFor)
	}
	return context.WithCancel(context.Background())
}

func setupSignalHandler(ctx context.Context, cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			slog.Info("Received signal, shutting down", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
}
