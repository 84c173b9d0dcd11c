package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Postgres  PostgresConfig  `yaml:"postgres"`
	Redis     RedisConfig     `yaml:"redis"`
	Logging   LoggingConfig   `yaml:"logging"`
	Snapshots SnapshotsConfig `yaml:"snapshots"`
	Fetcher   FetcherConfig   `yaml:"fetcher"`
	Workers   WorkersConfig   `yaml:"workers"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Grader    GraderConfig    `yaml:"grader"`
	API       APIConfig       `yaml:"api"`
	Adapters  AdaptersConfig  `yaml:"adapters"`
}

type PostgresConfig struct {
	DSN          string `yaml:"dsn"`
	MaxOpenConns int    `yaml:"max_open_conns"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug|info|warn|error
	File  string `yaml:"file"`  // optional tee target
}

type SnapshotsConfig struct {
	Dir string `yaml:"dir"`
}

type FetcherConfig struct {
	UserAgent       string        `yaml:"user_agent"`
	Timeout         time.Duration `yaml:"timeout"`
	BrowserContexts int           `yaml:"browser_contexts"`
}

type WorkersConfig struct {
	FetchWorkers int `yaml:"fetch_workers"`
	ParseWorkers int `yaml:"parse_workers"`
}

type SchedulerConfig struct {
	LeaseKey string        `yaml:"lease_key"`
	LeaseTTL time.Duration `yaml:"lease_ttl"`
}

type GraderConfig struct {
	Interval      time.Duration `yaml:"interval"`
	Sports        []string      `yaml:"sports"`
	ScoreboardURL string        `yaml:"scoreboard_url"`
}

type APIConfig struct {
	Port              int           `yaml:"port"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
}

type AdaptersConfig struct {
	Enabled []string `yaml:"enabled"` // empty = all registered
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyEnv()
	config.applyDefaults()
	return &config, nil
}

// applyEnv lets deployment env vars override the file for the values that
// differ between environments.
func (c *Config) applyEnv() {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Postgres.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("SNAPSHOT_DIR"); v != "" {
		c.Snapshots.Dir = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("SCOREBOARD_URL"); v != "" {
		c.Grader.ScoreboardURL = v
	}
	if v := os.Getenv("API_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.API.Port = p
		}
	}
}

func (c *Config) applyDefaults() {
	if c.Postgres.MaxOpenConns <= 0 {
		c.Postgres.MaxOpenConns = 10
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Snapshots.Dir == "" {
		c.Snapshots.Dir = "data/snapshots"
	}
	if c.Fetcher.UserAgent == "" {
		c.Fetcher.UserAgent = "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/142.0.0.0 Safari/537.36"
	}
	if c.Fetcher.Timeout <= 0 {
		c.Fetcher.Timeout = 45 * time.Second
	}
	if c.Fetcher.BrowserContexts <= 0 {
		c.Fetcher.BrowserContexts = 2
	}
	if c.Workers.FetchWorkers <= 0 {
		c.Workers.FetchWorkers = 3
	}
	if c.Workers.ParseWorkers <= 0 {
		c.Workers.ParseWorkers = 2
	}
	if c.Scheduler.LeaseKey == "" {
		c.Scheduler.LeaseKey = "tipline:scheduler:leader"
	}
	if c.Scheduler.LeaseTTL <= 0 {
		c.Scheduler.LeaseTTL = 30 * time.Second
	}
	if c.Grader.Interval <= 0 {
		c.Grader.Interval = 15 * time.Minute
	}
	if len(c.Grader.Sports) == 0 {
		c.Grader.Sports = []string{"football", "basketball", "nfl", "baseball", "hockey"}
	}
	if c.API.Port <= 0 {
		c.API.Port = 8080
	}
	if c.API.ReadHeaderTimeout <= 0 {
		c.API.ReadHeaderTimeout = 5 * time.Second
	}
}
