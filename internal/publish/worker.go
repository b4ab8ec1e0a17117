// Package publish implements the Publisher Worker of spec.md §4.5: a
// ticker-driven loop that claims batches from the Queue Engine, dispatches
// each item to a ChatTarget with bounded concurrency, and reconciles the
// item back to COMPLETED or FAILED. It also owns the periodic maintenance
// calls (retry, clean, sweep_stuck) the queue needs to stay healthy.
package publish

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zionge2k/news-alert-system/internal/apperr"
	"github.com/zionge2k/news-alert-system/internal/models"
	"github.com/zionge2k/news-alert-system/internal/queueengine"
	"github.com/zionge2k/news-alert-system/internal/service"
	"github.com/zionge2k/news-alert-system/internal/store"
)

// Config holds every tunable spec.md §6 exposes for the publisher loop.
type Config struct {
	BatchSize        int
	PublishInterval  time.Duration
	EmptyBatchPause  time.Duration
	MaxRetries       int
	CleanAge         time.Duration
	StuckThreshold   time.Duration
	MaintenanceEvery time.Duration
	Concurrency      int
	ChannelID        string
}

// Worker is the Publisher Worker of spec.md §4.5.
type Worker struct {
	cfg       Config
	queue     *queueengine.Engine
	published store.PublishedSet
	target    ChatTarget
	monitor   *service.MonitoringService
	log       *zap.Logger

	ticker       *time.Ticker
	lastMaintain time.Time
}

// New builds a Worker. monitor is optional — pass nil to skip durable
// error-log recording and rely on the log file alone.
func New(cfg Config, queue *queueengine.Engine, published store.PublishedSet, target ChatTarget, monitor *service.MonitoringService, log *zap.Logger) *Worker {
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 1
	}
	return &Worker{cfg: cfg, queue: queue, published: published, target: target, monitor: monitor, log: log}
}

// Run drives the claim/dispatch/reconcile loop until ctx is cancelled. On
// cancellation it waits for any already-claimed batch to finish dispatch
// before returning, so no item is ever abandoned mid-PROCESSING — a
// restart must never find an orphaned PROCESSING row left by this worker.
func (w *Worker) Run(ctx context.Context) error {
	w.ticker = time.NewTicker(w.cfg.PublishInterval)
	defer w.ticker.Stop()

	for {
		n, err := w.runCycle(ctx)
		if err != nil {
			if apperr.IsStorageError(err) {
				return err
			}
			w.log.Error("publish cycle failed", zap.Error(err))
		}

		if n > 0 {
			if ctx.Err() != nil {
				return nil
			}
			continue
		}

		select {
		case <-ctx.Done():
			return nil
		case <-time.After(w.cfg.EmptyBatchPause):
		case <-w.ticker.C:
		}
	}
}

// runCycle claims one batch, dispatches it with bounded concurrency, and
// runs periodic maintenance if due. It returns the number of items claimed
// so Run can decide whether to pause before the next iteration.
func (w *Worker) runCycle(ctx context.Context) (int, error) {
	w.maintainIfDue(ctx)

	items, err := w.queue.Claim(ctx, w.cfg.BatchSize)
	if err != nil {
		return 0, err
	}
	if len(items) == 0 {
		return 0, nil
	}

	// cycleID correlates every log line and error-log row produced by this
	// batch, the same way a request id ties together one request's logs.
	cycleID := uuid.New().String()
	w.log.Debug("dispatching batch", zap.String("cycle_id", cycleID), zap.Int("count", len(items)))

	w.dispatchBatch(ctx, cycleID, items)
	return len(items), nil
}

// dispatchBatch fans each claimed item out to the chat target with at most
// cfg.Concurrency workers in flight. Unlike the crawler fan-out, which runs
// every adapter at once, it caps concurrency, since an outbound webhook is
// far more likely to rate-limit than an inbound fetch.
func (w *Worker) dispatchBatch(ctx context.Context, cycleID string, items []*models.QueueItem) {
	sem := make(chan struct{}, w.cfg.Concurrency)
	var wg sync.WaitGroup

	for _, item := range items {
		item := item
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			w.dispatchOne(ctx, cycleID, item)
		}()
	}
	wg.Wait()
}

func (w *Worker) dispatchOne(ctx context.Context, cycleID string, item *models.QueueItem) {
	msg := Message{
		Title:       item.Title,
		URL:         item.URL,
		Content:     item.Content,
		Category:    item.Category,
		Platform:    item.Platform,
		PublishedAt: item.PublishedAt,
	}

	// The outcome is recorded even after ctx is cancelled, so a shutdown
	// never leaves the claimed item in PROCESSING.
	recordCtx := context.WithoutCancel(ctx)

	err := w.target.Send(ctx, msg)
	if err != nil {
		if _, failErr := w.queue.Fail(recordCtx, item.UniqueID, err.Error()); failErr != nil {
			w.log.Error("failed to record publish failure", zap.String("unique_id", item.UniqueID), zap.Error(failErr))
		}
		w.log.Warn("publish failed", zap.String("cycle_id", cycleID), zap.String("unique_id", item.UniqueID), zap.Error(err))

		if w.monitor != nil && apperr.IsPermanent(err) {
			if logErr := w.monitor.RecordError("error", "publisher_worker", item.UniqueID, err.Error()); logErr != nil {
				w.log.Error("failed to persist permanent-failure error log", zap.Error(logErr))
			}
		}
		return
	}

	if _, completeErr := w.queue.Complete(recordCtx, item.UniqueID); completeErr != nil {
		w.log.Error("failed to mark item complete", zap.String("unique_id", item.UniqueID), zap.Error(completeErr))
		return
	}
	if addErr := w.published.Add(recordCtx, item.UniqueID, item.Platform, w.cfg.ChannelID); addErr != nil {
		w.log.Error("failed to record published set entry", zap.String("unique_id", item.UniqueID), zap.Error(addErr))
	}
}

// maintainIfDue runs retry/clean/sweep_stuck at most once per
// MaintenanceEvery, so every cycle doesn't pay the cost of three extra
// queries on top of the claim itself.
func (w *Worker) maintainIfDue(ctx context.Context) {
	if time.Since(w.lastMaintain) < w.cfg.MaintenanceEvery {
		return
	}
	w.lastMaintain = time.Now()

	if _, err := w.queue.Retry(ctx, w.cfg.MaxRetries); err != nil {
		w.log.Error("retry maintenance failed", zap.Error(err))
	}
	if _, err := w.queue.Clean(ctx, w.cfg.CleanAge); err != nil {
		w.log.Error("clean maintenance failed", zap.Error(err))
	}
	if _, err := w.queue.SweepStuck(ctx, w.cfg.StuckThreshold); err != nil {
		w.log.Error("sweep_stuck maintenance failed", zap.Error(err))
	}

	if w.monitor != nil {
		daysToKeep := int(w.cfg.CleanAge.Hours() / 24)
		if daysToKeep < 1 {
			daysToKeep = 1
		}
		if err := w.monitor.CleanupOldErrors(daysToKeep); err != nil {
			w.log.Error("error log cleanup failed", zap.Error(err))
		}
	}
}
