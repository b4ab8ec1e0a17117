package store

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/zionge2k/news-alert-system/internal/cache"
)

// cachedPublishedSet decorates a persistent PublishedSet with a Redis
// fast-path for Contains. The persistent store remains the source of
// truth: a cache miss always falls through, and a cache error never fails
// the call — it just forfeits the speedup for that lookup.
type cachedPublishedSet struct {
	inner PublishedSet
	cache *cache.Cache
	ttl   time.Duration
	log   *zap.Logger
}

// NewCachedPublishedSet wraps inner with a Redis-backed fast path.
func NewCachedPublishedSet(inner PublishedSet, redisCache *cache.Cache, ttl time.Duration, log *zap.Logger) PublishedSet {
	return &cachedPublishedSet{inner: inner, cache: redisCache, ttl: ttl, log: log}
}

func (s *cachedPublishedSet) Contains(ctx context.Context, uniqueID string) (bool, error) {
	if hit, err := s.cache.Contains(ctx, uniqueID); err == nil && hit {
		return true, nil
	} else if err != nil {
		s.log.Warn("published-set cache lookup failed, falling back to store", zap.Error(err))
	}
	return s.inner.Contains(ctx, uniqueID)
}

func (s *cachedPublishedSet) Add(ctx context.Context, uniqueID, platform, channelID string) error {
	if err := s.inner.Add(ctx, uniqueID, platform, channelID); err != nil {
		return err
	}
	if err := s.cache.MarkPublished(ctx, uniqueID, s.ttl); err != nil {
		s.log.Warn("failed to populate published-set cache", zap.Error(err))
	}
	return nil
}

func (s *cachedPublishedSet) CountByPlatform(ctx context.Context) (map[string]int, error) {
	return s.inner.CountByPlatform(ctx)
}

func (s *cachedPublishedSet) Clean(ctx context.Context, age time.Duration) (int, error) {
	return s.inner.Clean(ctx, age)
}
