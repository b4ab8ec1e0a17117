// Package queueengine implements the state machine over QueueItems
// (spec.md §4.4): enqueue, claim, complete, fail, retry, clean, status,
// is_duplicate. It is deliberately thin above store.QueueStore, which
// already carries the CAS claim primitive — this layer's job is to own
// the policy around that primitive (logging, never swallowing
// StorageError, translating Article rows into QueueItems) so the
// Publisher Worker and Enqueue Service never touch store.QueueStore
// directly.
package queueengine

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zionge2k/news-alert-system/internal/models"
	"github.com/zionge2k/news-alert-system/internal/store"
)

// Engine is the Queue Engine of spec.md §4.4.
type Engine struct {
	store store.QueueStore
	log   *zap.Logger
}

func New(qs store.QueueStore, log *zap.Logger) *Engine {
	return &Engine{store: qs, log: log}
}

// Enqueue inserts a new PENDING QueueItem derived from an Article. Returns
// false (not an error) on a uniqueness conflict — the caller (Enqueue
// Service) treats that as "skipped."
func (e *Engine) Enqueue(ctx context.Context, a *models.Article) (bool, error) {
	item := &models.QueueItem{
		UniqueID:    a.UniqueID,
		ArticleID:   a.ArticleID,
		Platform:    a.Platform,
		Title:       a.Title,
		URL:         a.URL,
		Content:     a.Content,
		Category:    a.Category,
		PublishedAt: a.PublishedAt,
		RetryCount:  0,
	}

	inserted, err := e.store.Enqueue(ctx, item)
	if err != nil {
		// StorageError is never swallowed; it propagates to the caller.
		return false, err
	}
	if !inserted {
		e.log.Debug("enqueue skipped: duplicate unique_id", zap.String("unique_id", a.UniqueID))
	}
	return inserted, nil
}

// Claim atomically reserves up to limit PENDING items for processing.
func (e *Engine) Claim(ctx context.Context, limit int) ([]*models.QueueItem, error) {
	items, err := e.store.Claim(ctx, limit)
	if err != nil {
		return nil, err
	}
	e.log.Debug("claimed queue items", zap.Int("count", len(items)), zap.Int("limit", limit))
	return items, nil
}

func (e *Engine) Complete(ctx context.Context, uniqueID string) (bool, error) {
	ok, err := e.store.Complete(ctx, uniqueID)
	if err != nil {
		return false, err
	}
	if !ok {
		e.log.Warn("complete no-op: item not in PROCESSING", zap.String("unique_id", uniqueID))
	}
	return ok, nil
}

func (e *Engine) Fail(ctx context.Context, uniqueID string, errorMessage string) (bool, error) {
	ok, err := e.store.Fail(ctx, uniqueID, errorMessage)
	if err != nil {
		return false, err
	}
	if !ok {
		e.log.Warn("fail no-op: item not in PROCESSING", zap.String("unique_id", uniqueID))
	}
	return ok, nil
}

func (e *Engine) Retry(ctx context.Context, maxRetries int) (int, error) {
	n, err := e.store.Retry(ctx, maxRetries)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		e.log.Info("retried failed items", zap.Int("count", n), zap.Int("max_retries", maxRetries))
	}
	return n, nil
}

func (e *Engine) IsDuplicate(ctx context.Context, uniqueID string) (bool, error) {
	return e.store.IsDuplicate(ctx, uniqueID)
}

func (e *Engine) Status(ctx context.Context) (store.QueueStatusCounts, error) {
	return e.store.Status(ctx)
}

func (e *Engine) Clean(ctx context.Context, ageThreshold time.Duration) (int, error) {
	n, err := e.store.Clean(ctx, ageThreshold)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		e.log.Info("cleaned completed items", zap.Int("count", n))
	}
	return n, nil
}

func (e *Engine) SweepStuck(ctx context.Context, stuckThreshold time.Duration) (int, error) {
	n, err := e.store.SweepStuck(ctx, stuckThreshold)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		e.log.Warn("swept stuck PROCESSING items back to PENDING", zap.Int("count", n))
	}
	return n, nil
}
