// Package ratelimit implements a Redis fixed-window limiter for fiber routes.
package ratelimit

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/teleposta/ict-helpdesk/internal/config"
	apperrors "github.com/teleposta/ict-helpdesk/pkg/util"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// Limiter counts requests per key in fixed windows.
type Limiter struct {
	rdb    *redis.Client
	prefix string
	window time.Duration
	logger *zap.Logger
	now    func() time.Time
}

// New builds a limiter. It returns nil when limiting is disabled or no client is given.
func New(rdb *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) *Limiter {
	if !cfg.Enabled || rdb == nil {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Limiter{rdb: rdb, prefix: cfg.Prefix, window: cfg.Window(), logger: logger, now: time.Now}
}

// Allow records one hit for key under scope.
func (l *Limiter) Allow(ctx context.Context, scope, key string, limit int) (Decision, error) {
	now := l.now()
	bucket := now.UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("%s:%s:%s:%d", l.prefix, scope, key, bucket)

	pipe := l.rdb.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{Allowed: true, Limit: limit, Remaining: limit}, err
	}

	count := int(incr.Val())
	windowEnd := time.Unix(0, (bucket+1)*int64(l.window))
	d := Decision{
		Allowed:   count <= limit,
		Limit:     limit,
		Remaining: max(limit-count, 0),
	}
	if !d.Allowed {
		d.RetryAfter = windowEnd.Sub(now)
	}
	return d, nil
}

// Middleware limits requests per client IP. A nil limiter or a non-positive
// limit disables it; Redis errors let the request through.
func (l *Limiter) Middleware(scope string, limit int) fiber.Handler {
	if l == nil || limit <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return func(c *fiber.Ctx) error {
		ip := c.IP()
		if ip == "" {
			ip = "unknown"
		}
		d, err := l.Allow(c.UserContext(), scope, ip, limit)
		if err != nil {
			l.logger.Warn("rate limiter unavailable", zap.String("scope", scope), zap.Error(err))
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			secs := int(math.Ceil(d.RetryAfter.Seconds()))
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secs))
			return apperrors.NewTooManyRequests("rate limit exceeded", map[string]any{"retry_after": secs})
		}
		return c.Next()
	}
}
