package redis

import (
	"context"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// NewClient connects to redis. A failed ping is not fatal: it returns a
// nil client and the callers fall back to postgres only.
func NewClient(ctx context.Context, url, password string, logger *zap.SugaredLogger) *redis.Client {
	if strings.TrimSpace(url) == "" {
		logger.Infow("[REDIS] no address configured, cache disabled")
		return nil
	}

	opts := &redis.Options{Addr: url, Password: password, DB: 0}
	if strings.HasPrefix(url, "redis://") || strings.HasPrefix(url, "rediss://") {
		parsed, err := redis.ParseURL(url)
		if err != nil {
			logger.Warnw("[REDIS] invalid url, cache disabled", "error", err)
			return nil
		}
		if password != "" {
			parsed.Password = password
		}
		opts = parsed
	}

	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warnw("[REDIS] could not connect, falling back to postgres only", "error", err)
		_ = client.Close()
		return nil
	}

	logger.Infow("[REDIS] connected", "addr", opts.Addr)
	return client
}

// RedisCache wraps the few commands the services need. A nil client turns
// every call into a miss.
type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (r *RedisCache) Enabled() bool {
	return r != nil && r.client != nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if !r.Enabled() {
		return nil
	}
	return r.client.Set(ctx, key, value, expiration).Err()
}

// Get returns redis.Nil on a miss.
func (r *RedisCache) Get(ctx context.Context, key string) (string, error) {
	if !r.Enabled() {
		return "", redis.Nil
	}
	return r.client.Get(ctx, key).Result()
}

func (r *RedisCache) Del(ctx context.Context, keys ...string) error {
	if !r.Enabled() {
		return nil
	}
	return r.client.Del(ctx, keys...).Err()
}

func (r *RedisCache) Incr(ctx context.Context, key string) (int64, error) {
	if !r.Enabled() {
		return 0, nil
	}
	return r.client.Incr(ctx, key).Result()
}

func (r *RedisCache) Publish(ctx context.Context, channel, message string) error {
	if !r.Enabled() {
		return nil
	}
	return r.client.Publish(ctx, channel, message).Err()
}

// Subscribe delivers every message on channel to handle until ctx ends.
// It returns immediately when the cache is disabled.
func (r *RedisCache) Subscribe(ctx context.Context, channel string, handle func(payload string)) {
	if !r.Enabled() {
		return
	}
	sub := r.client.Subscribe(ctx, channel)
	defer sub.Close()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			handle(msg.Payload)
		}
	}
}
