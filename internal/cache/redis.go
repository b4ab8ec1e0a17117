// Package cache wraps Redis as a fast-path membership cache in front of
// the Published Set, adapted from lysyi3m-rss-comb's feed-data cache to
// the shape this system needs: a set of published unique_ids.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache wraps a Redis client used to short-circuit PublishedSet.Contains
// checks without a round trip to Postgres.
type Cache struct {
	client *redis.Client
}

// NewCache dials Redis and verifies connectivity.
func NewCache(ctx context.Context, addr, password string, db int) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
		MinIdleConns: 2,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Cache{client: client}, nil
}

func publishedKey(uniqueID string) string {
	return fmt.Sprintf("published:%s", uniqueID)
}

// Contains reports whether uniqueID is marked published in the cache. A
// miss here does not mean "not published" — callers must fall back to the
// persistent store; the cache is never authoritative.
func (c *Cache) Contains(ctx context.Context, uniqueID string) (bool, error) {
	n, err := c.client.Exists(ctx, publishedKey(uniqueID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check cache for %s: %w", uniqueID, err)
	}
	return n > 0, nil
}

// MarkPublished records uniqueID in the cache with a TTL so stale entries
// age out rather than growing the keyspace unboundedly.
func (c *Cache) MarkPublished(ctx context.Context, uniqueID string, ttl time.Duration) error {
	if err := c.client.Set(ctx, publishedKey(uniqueID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache %s: %w", uniqueID, err)
	}
	return nil
}

func (c *Cache) Close() error {
	return c.client.Close()
}

// Health reports basic connectivity, mirroring the teacher pack's cache
// health-check convention.
func (c *Cache) Health(ctx context.Context) map[string]interface{} {
	health := map[string]interface{}{"status": "healthy", "type": "redis"}
	if err := c.client.Ping(ctx).Err(); err != nil {
		health["status"] = "unhealthy"
		health["error"] = err.Error()
	}
	return health
}
