package cache

import (
	"context"
	"encoding/json"
	"time"

	dom "Pulse/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	keyFeed  = "post:feed"
	keyStats = "dashboard:stats"
)

// PostCache caches the post feed and dashboard stats in Redis.
type PostCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewPostCache returns a new PostCache.
func NewPostCache(rdb *redis.Client, ttl time.Duration) *PostCache {
	return &PostCache{rdb: rdb, ttl: ttl}
}

// GetFeed returns the cached post feed or nil if miss.
func (c *PostCache) GetFeed(ctx context.Context) ([]dom.Post, error) {
	b, err := c.rdb.Get(ctx, keyFeed).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Post
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetFeed stores the post feed in cache.
func (c *PostCache) SetFeed(ctx context.Context, list []dom.Post) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyFeed, b, c.ttl).Err()
}

// GetStats returns cached dashboard stats, or nil if miss.
func (c *PostCache) GetStats(ctx context.Context) (*dom.DashboardStats, error) {
	b, err := c.rdb.Get(ctx, keyStats).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var s dom.DashboardStats
	if err := json.Unmarshal(b, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// SetStats stores dashboard stats in cache.
func (c *PostCache) SetStats(ctx context.Context, s dom.DashboardStats) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keyStats, b, c.ttl).Err()
}

// InvalidateAll removes the feed and stats keys (cache invalidation on write).
func (c *PostCache) InvalidateAll(ctx context.Context) error {
	return c.rdb.Del(ctx, keyFeed, keyStats).Err()
}
