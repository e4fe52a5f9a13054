package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/iamasit07/tic-tac-toe/backend/internal/domain"
	"github.com/redis/go-redis/v9"
)

const (
	leaderboardVersionKey = "leaderboard:version"
	LeaderboardChannel    = "leaderboard:refresh"
	LeaderboardTTL        = 5 * time.Minute
)

// LeaderboardCache stores rendered leaderboard pages under a version key.
// Bumping the version orphans every cached page at once.
type LeaderboardCache struct {
	cache *RedisCache
	ttl   time.Duration
}

func NewLeaderboardCache(cache *RedisCache) *LeaderboardCache {
	return &LeaderboardCache{cache: cache, ttl: LeaderboardTTL}
}

func (c *LeaderboardCache) pageKey(ctx context.Context, page int) (string, error) {
	version, err := c.cache.Get(ctx, leaderboardVersionKey)
	if errors.Is(err, redis.Nil) {
		version = "0"
	} else if err != nil {
		return "", err
	}
	return fmt.Sprintf("leaderboard:v%s:page:%d", version, page), nil
}

// Get reports ok=false on a miss or when redis is unavailable.
func (c *LeaderboardCache) Get(ctx context.Context, page int) (*domain.LeaderboardPage, bool) {
	if !c.cache.Enabled() {
		return nil, false
	}
	key, err := c.pageKey(ctx, page)
	if err != nil {
		return nil, false
	}
	raw, err := c.cache.Get(ctx, key)
	if err != nil {
		return nil, false
	}
	var result domain.LeaderboardPage
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, false
	}
	return &result, true
}

func (c *LeaderboardCache) Put(ctx context.Context, lb *domain.LeaderboardPage) error {
	if !c.cache.Enabled() {
		return nil
	}
	key, err := c.pageKey(ctx, lb.Page)
	if err != nil {
		return err
	}
	data, err := json.Marshal(lb)
	if err != nil {
		return err
	}
	return c.cache.Set(ctx, key, data, c.ttl)
}

// Invalidate bumps the version and tells every instance to refresh.
func (c *LeaderboardCache) Invalidate(ctx context.Context) error {
	if _, err := c.cache.Incr(ctx, leaderboardVersionKey); err != nil {
		return err
	}
	return c.cache.Publish(ctx, LeaderboardChannel, "refresh")
}

// Listen calls onRefresh for every invalidation published by any instance.
func (c *LeaderboardCache) Listen(ctx context.Context, onRefresh func()) {
	c.cache.Subscribe(ctx, LeaderboardChannel, func(string) { onRefresh() })
}
