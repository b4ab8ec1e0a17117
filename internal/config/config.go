package config

import (
	yamlenv "github.com/ifuryst/go-yaml-env"

	"github.com/zionge2k/news-alert-system/pkg/logger"
)

type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Logger    logger.Config   `yaml:"logger"`
	Redis     RedisConfig     `yaml:"redis"`
	Discord   DiscordConfig   `yaml:"discord"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
	Filter    FilterConfig    `yaml:"filter"`
	Auth      AuthConfig      `yaml:"auth"`
	Sources   []SourceConfig  `yaml:"sources"`
}

// SourceConfig declares one RSS/Atom feed to fan out to. Per-source
// scraping beyond feed parsing is out of scope; this is the one reference
// adapter kind the crawler ships with.
type SourceConfig struct {
	Tag      string `yaml:"tag"`
	FeedURL  string `yaml:"feed_url"`
	Category string `yaml:"category"`
}

type ServerConfig struct {
	Port     int    `yaml:"port"`
	Host     string `yaml:"host"`
	Mode     string `yaml:"mode"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`
}

type DatabaseConfig struct {
	Type     string `yaml:"type"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
	TimeZone string `yaml:"timezone"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	TTL      string `yaml:"ttl"`
}

type DiscordConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	ChannelID  string `yaml:"channel_id"`
	Timeout    string `yaml:"timeout"`
}

// SchedulerConfig tunes the Publisher Worker loop (spec.md §4.5, §6).
type SchedulerConfig struct {
	BatchSize        int    `yaml:"batch_size"`
	PublishInterval  string `yaml:"publish_interval"`
	EmptyBatchPause  string `yaml:"empty_batch_pause"`
	MaxRetries       int    `yaml:"max_retries"`
	CleanAge         string `yaml:"clean_age"`
	StuckThreshold   string `yaml:"stuck_threshold"`
	MaintenanceEvery string `yaml:"maintenance_every"`
	Concurrency      int    `yaml:"concurrency"`
	IngestInterval   string `yaml:"ingest_interval"`
}

// FilterConfig is the Enqueue Service's selection window (spec.md §6's
// filter.*) used by the run-all and ingest commands. Only the first entry
// of Platforms and of Categories is passed on. `queue add` does not read
// this section; it takes its own flags.
type FilterConfig struct {
	Platforms  []string `yaml:"platforms"`
	Categories []string `yaml:"categories"`
	Hours      int      `yaml:"hours"`
	Limit      int      `yaml:"limit"`
}

// AuthConfig gates the mutating admin endpoints with TOTP, adapted from
// the dashboard login flow into a machine-to-machine shared secret check.
type AuthConfig struct {
	TOTPSecret string `yaml:"totp_secret"`
}

func LoadConfig(configPath string) (*Config, error) {
	cfg, err := yamlenv.LoadConfig[Config](configPath)
	if err != nil {
		return nil, err
	}

	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 5334
	}
	if cfg.Server.Mode == "" {
		cfg.Server.Mode = "debug"
	}
	if cfg.Database.Type == "" {
		cfg.Database.Type = "postgres"
	}
	if cfg.Database.Host == "" {
		cfg.Database.Host = "localhost"
	}
	if cfg.Database.Port == 0 {
		cfg.Database.Port = 5432
	}
	if cfg.Database.SSLMode == "" {
		cfg.Database.SSLMode = "disable"
	}
	if cfg.Database.TimeZone == "" {
		cfg.Database.TimeZone = "UTC"
	}
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Redis.TTL == "" {
		cfg.Redis.TTL = "720h" // 30 days
	}
	if cfg.Discord.Timeout == "" {
		cfg.Discord.Timeout = "10s"
	}
	if cfg.Scheduler.BatchSize == 0 {
		cfg.Scheduler.BatchSize = 10
	}
	if cfg.Scheduler.PublishInterval == "" {
		cfg.Scheduler.PublishInterval = "30s"
	}
	if cfg.Scheduler.EmptyBatchPause == "" {
		cfg.Scheduler.EmptyBatchPause = "2m"
	}
	if cfg.Scheduler.MaxRetries == 0 {
		cfg.Scheduler.MaxRetries = 3
	}
	if cfg.Scheduler.CleanAge == "" {
		cfg.Scheduler.CleanAge = "168h" // 7 days
	}
	if cfg.Scheduler.StuckThreshold == "" {
		cfg.Scheduler.StuckThreshold = "15m"
	}
	if cfg.Scheduler.MaintenanceEvery == "" {
		cfg.Scheduler.MaintenanceEvery = "5m"
	}
	if cfg.Scheduler.Concurrency == 0 {
		cfg.Scheduler.Concurrency = 4
	}
	if cfg.Scheduler.IngestInterval == "" {
		cfg.Scheduler.IngestInterval = "5m"
	}
	if cfg.Filter.Hours == 0 {
		cfg.Filter.Hours = 24
	}
	if cfg.Filter.Limit == 0 {
		cfg.Filter.Limit = 100
	}

	return cfg, nil
}
