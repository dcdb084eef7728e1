// Package cache keeps read-mostly responses in Redis as JSON.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/teleposta/ict-helpdesk/internal/config"
)

// Cache is a fail-open JSON cache. A nil *Cache, a disabled cache, or an
// unreachable Redis simply calls through to the loader.
type Cache struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	logger *zap.Logger
}

// New builds a cache. It returns nil when caching is disabled or no client is given.
func New(rdb *redis.Client, cfg config.CacheConfig, logger *zap.Logger) *Cache {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	ttl := cfg.TTL()
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Cache{rdb: rdb, prefix: cfg.Prefix, ttl: ttl, logger: logger}
}

func (c *Cache) key(name string) string {
	if c.prefix == "" {
		return name
	}
	return strings.Join([]string{c.prefix, name}, ":")
}

// Remember returns the cached value stored under key, or calls load and stores its result.
func Remember[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	if c == nil {
		return load(ctx)
	}

	full := c.key(key)
	raw, err := c.rdb.Get(ctx, full).Bytes()
	switch {
	case err == nil:
		var cached T
		if err := json.Unmarshal(raw, &cached); err == nil {
			return cached, nil
		}
		c.logger.Warn("discarding undecodable cache entry", zap.String("key", full))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("cache read failed", zap.String("key", full), zap.Error(err))
	}

	value, err := load(ctx)
	if err != nil {
		return value, err
	}

	payload, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("cache encode failed", zap.String("key", full), zap.Error(err))
		return value, nil
	}
	if err := c.rdb.Set(ctx, full, payload, c.ttl).Err(); err != nil {
		c.logger.Warn("cache write failed", zap.String("key", full), zap.Error(err))
	}
	return value, nil
}

// Invalidate drops the given keys.
func (c *Cache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || len(keys) == 0 {
		return
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.key(k)
	}
	if err := c.rdb.Del(ctx, full...).Err(); err != nil {
		c.logger.Warn("cache invalidate failed", zap.Strings("keys", full), zap.Error(err))
	}
}
