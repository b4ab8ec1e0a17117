package store

import (
	"context"
	"time"

	"github.com/zionge2k/news-alert-system/internal/models"
)

// QueueStatusCounts is a snapshot of status -> count. Per spec.md §4.4,
// readers must tolerate that individual counts are not mutually consistent
// since they come from independent aggregations.
type QueueStatusCounts map[models.QueueStatus]int64

// QueueStore is the durable collection of queue items. Its defining
// operation is Claim: an atomic, linearizable PENDING->PROCESSING
// transition that guarantees no two callers ever observe the same item in
// PROCESSING state (spec.md §4.4).
type QueueStore interface {
	Enqueue(ctx context.Context, item *models.QueueItem) (bool, error)
	// Claim attempts to atomically move up to limit PENDING items to
	// PROCESSING, FIFO by created_at. The returned slice may be shorter
	// than limit.
	Claim(ctx context.Context, limit int) ([]*models.QueueItem, error)
	Complete(ctx context.Context, uniqueID string) (bool, error)
	Fail(ctx context.Context, uniqueID string, errorMessage string) (bool, error)
	Retry(ctx context.Context, maxRetries int) (int, error)
	IsDuplicate(ctx context.Context, uniqueID string) (bool, error)
	Status(ctx context.Context) (QueueStatusCounts, error)
	Clean(ctx context.Context, ageThreshold time.Duration) (int, error)
	// SweepStuck moves PROCESSING items claimed before the threshold back
	// to PENDING, incrementing retry_count, per spec.md §4.5's stuck-claim
	// recovery.
	SweepStuck(ctx context.Context, stuckThreshold time.Duration) (int, error)
}

func truncateError(msg string) string {
	if len(msg) <= models.MaxErrorMessageLen {
		return msg
	}
	return msg[:models.MaxErrorMessageLen]
}
