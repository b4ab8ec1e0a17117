package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zionge2k/news-alert-system/internal/crawler"
	"github.com/zionge2k/news-alert-system/internal/enqueue"
	"github.com/zionge2k/news-alert-system/internal/store"
)

// IngestScheduler runs a crawl-and-enqueue cycle on a fixed interval. It is
// the daemon form of the one-shot run-all CLI command: fan out to every
// adapter, ingest into the Article Store, then push eligible articles into
// the queue.
type IngestScheduler struct {
	interval time.Duration
	logger   *zap.Logger

	adapters map[string]crawler.Adapter
	articles store.ArticleStore
	enqueuer *enqueue.Service
	filter   enqueue.Filter

	ticker *time.Ticker
	stopCh chan struct{}
}

func NewIngestScheduler(interval time.Duration, adapters map[string]crawler.Adapter, articles store.ArticleStore, enqueuer *enqueue.Service, filter enqueue.Filter, logger *zap.Logger) *IngestScheduler {
	return &IngestScheduler{
		interval: interval,
		logger:   logger,
		adapters: adapters,
		articles: articles,
		enqueuer: enqueuer,
		filter:   filter,
		stopCh:   make(chan struct{}),
	}
}

func (s *IngestScheduler) Start(ctx context.Context) {
	s.ticker = time.NewTicker(s.interval)

	go func() {
		s.logger.Info("running initial ingest cycle")
		s.runCycle(ctx)
	}()

	go func() {
		for {
			select {
			case <-s.ticker.C:
				s.logger.Info("running scheduled ingest cycle")
				s.runCycle(ctx)
			case <-s.stopCh:
				s.logger.Info("ingest scheduler stopped")
				return
			case <-ctx.Done():
				s.logger.Info("ingest scheduler context cancelled")
				return
			}
		}
	}()
}

func (s *IngestScheduler) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.stopCh)
}

func (s *IngestScheduler) runCycle(ctx context.Context) {
	start := time.Now()
	result := crawler.RunCycle(ctx, s.adapters, s.articles, s.logger)

	inserted, err := s.enqueuer.AddArticlesFromDB(ctx, s.filter)
	if err != nil {
		s.logger.Error("enqueue after ingest failed", zap.Error(err))
	}

	s.logger.Info("ingest cycle completed",
		zap.Int("crawled_inserted", result.Inserted),
		zap.Int("crawled_skipped", result.Skipped),
		zap.Int("crawl_sources_failed", len(result.Failed)),
		zap.Int("queued", inserted),
		zap.Duration("duration", time.Since(start)),
	)
}
