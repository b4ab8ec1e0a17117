package store

import (
	"context"
	"time"
)

// PublishedSet is the idempotence guard used by the Enqueue Service to
// skip already-published articles (spec.md §4.6). Beyond the spec's
// minimal contains/add, it is extended per SPEC_FULL.md §5 with
// per-platform counts and age-based cleanup, grounded on the original's
// PublishedArticleService.
type PublishedSet interface {
	Contains(ctx context.Context, uniqueID string) (bool, error)
	Add(ctx context.Context, uniqueID, platform, channelID string) error
	CountByPlatform(ctx context.Context) (map[string]int, error)
	Clean(ctx context.Context, age time.Duration) (int, error)
}
