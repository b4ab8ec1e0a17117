// Package bootstrap wires config, storage, cache, and the domain services
// into the handful of shapes each CLI command needs. It exists so
// cmd/newsalert/main.go doesn't repeat the same construction sequence for
// run-all, publish, serve, and queue.
package bootstrap

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zionge2k/news-alert-system/internal/cache"
	"github.com/zionge2k/news-alert-system/internal/config"
	"github.com/zionge2k/news-alert-system/internal/crawler"
	"github.com/zionge2k/news-alert-system/internal/crawler/sources"
	"github.com/zionge2k/news-alert-system/internal/enqueue"
	"github.com/zionge2k/news-alert-system/internal/publish"
	"github.com/zionge2k/news-alert-system/internal/queueengine"
	"github.com/zionge2k/news-alert-system/internal/service"
	"github.com/zionge2k/news-alert-system/internal/store"
)

// App holds every wired component a command might need. Commands pull out
// only what they use.
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	DB        *gorm.DB
	Articles  store.ArticleStore
	Queue     *queueengine.Engine
	Published store.PublishedSet
	Enqueue   *enqueue.Service
	Adapters  map[string]crawler.Adapter
	Monitor   *service.MonitoringService
}

func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	db, err := service.NewDatabase(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	articles := store.NewGormArticleStore(db)
	queueStore := store.NewGormQueueStore(db)
	queue := queueengine.New(queueStore, logger)

	var published store.PublishedSet = store.NewGormPublishedSet(db)
	if cfg.Redis.Addr != "" {
		redisCache, err := cache.NewCache(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			logger.Warn("redis unavailable, published-set cache disabled", zap.Error(err))
		} else {
			ttl, err := time.ParseDuration(cfg.Redis.TTL)
			if err != nil {
				ttl = 720 * time.Hour
			}
			published = store.NewCachedPublishedSet(published, redisCache, ttl, logger)
		}
	}

	enqueuer := enqueue.New(articles, published, queue, logger)

	adapters := make(map[string]crawler.Adapter, len(cfg.Sources))
	for _, src := range cfg.Sources {
		adapters[src.Tag] = sources.NewRSSAdapter(src.Tag, src.FeedURL, src.Category)
	}

	return &App{
		Config:    cfg,
		Logger:    logger,
		DB:        db,
		Articles:  articles,
		Queue:     queue,
		Published: published,
		Enqueue:   enqueuer,
		Adapters:  adapters,
		Monitor:   service.NewMonitoringService(db, logger),
	}, nil
}

// NewChatTarget builds the Publisher Worker's dispatch target from config.
func NewChatTarget(cfg *config.Config) (publish.ChatTarget, error) {
	timeout, err := time.ParseDuration(cfg.Discord.Timeout)
	if err != nil {
		timeout = 10 * time.Second
	}
	if cfg.Discord.WebhookURL == "" {
		return nil, fmt.Errorf("discord.webhook_url is not configured")
	}
	return publish.NewDiscordChatTarget(cfg.Discord.WebhookURL, timeout), nil
}

// PublisherConfig translates the config file's scheduler section into the
// Worker's runtime Config, parsing every duration up front so the worker
// itself never has to handle a malformed string.
func PublisherConfig(cfg *config.Config) (publish.Config, error) {
	publishInterval, err := time.ParseDuration(cfg.Scheduler.PublishInterval)
	if err != nil {
		return publish.Config{}, fmt.Errorf("invalid publish_interval: %w", err)
	}
	emptyBatchPause, err := time.ParseDuration(cfg.Scheduler.EmptyBatchPause)
	if err != nil {
		return publish.Config{}, fmt.Errorf("invalid empty_batch_pause: %w", err)
	}
	cleanAge, err := time.ParseDuration(cfg.Scheduler.CleanAge)
	if err != nil {
		return publish.Config{}, fmt.Errorf("invalid clean_age: %w", err)
	}
	stuckThreshold, err := time.ParseDuration(cfg.Scheduler.StuckThreshold)
	if err != nil {
		return publish.Config{}, fmt.Errorf("invalid stuck_threshold: %w", err)
	}
	maintenanceEvery, err := time.ParseDuration(cfg.Scheduler.MaintenanceEvery)
	if err != nil {
		return publish.Config{}, fmt.Errorf("invalid maintenance_every: %w", err)
	}

	return publish.Config{
		BatchSize:        cfg.Scheduler.BatchSize,
		PublishInterval:  publishInterval,
		EmptyBatchPause:  emptyBatchPause,
		MaxRetries:       cfg.Scheduler.MaxRetries,
		CleanAge:         cleanAge,
		StuckThreshold:   stuckThreshold,
		MaintenanceEvery: maintenanceEvery,
		Concurrency:      cfg.Scheduler.Concurrency,
		ChannelID:        cfg.Discord.ChannelID,
	}, nil
}
