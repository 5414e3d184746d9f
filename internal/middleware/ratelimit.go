package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"funstar-catalog/internal/metrics"
)

// RateLimiter provides per-IP fixed-window limiting backed by Redis. When
// Redis is absent or failing it falls back to an in-process token bucket.
type RateLimiter struct {
	rdb     *redis.Client
	maxReqs int
	window  time.Duration

	mu        sync.Mutex
	clients   map[string]*localClient
	lastSweep time.Time
}

type localClient struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a rate limiter. rdb may be nil. maxReqs <= 0 disables limiting.
func NewRateLimiter(rdb *redis.Client, maxReqs int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		rdb:       rdb,
		maxReqs:   maxReqs,
		window:    window,
		clients:   make(map[string]*localClient),
		lastSweep: time.Now(),
	}
}

// Handler returns a Fiber middleware handler for rate limiting.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		if rl.maxReqs <= 0 {
			return c.Next()
		}
		ip := c.IP()

		if rl.rdb != nil {
			allowed, ttl, err := rl.allowRedis(c.Context(), ip, c)
			if err == nil {
				if !allowed {
					metrics.RateLimited.WithLabelValues("redis").Inc()
					return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
						"error":       "Too many requests",
						"retry_after": int(ttl.Seconds()),
					})
				}
				return c.Next()
			}
			slog.Warn("rate limit store unavailable, using local limiter", "error", err)
		}

		if !rl.allowLocal(ip) {
			metrics.RateLimited.WithLabelValues("local").Inc()
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests",
			})
		}
		return c.Next()
	}
}

func rateLimitKey(ip string) string {
	return fmt.Sprintf("ratelimit:%s", ip)
}

func (rl *RateLimiter) allowRedis(ctx context.Context, ip string, c fiber.Ctx) (bool, time.Duration, error) {
	key := rateLimitKey(ip)

	var incr *redis.IntCmd
	var ttlCmd *redis.DurationCmd
	if _, err := rl.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		ttlCmd = pipe.TTL(ctx, key)
		return nil
	}); err != nil {
		return false, 0, err
	}
	count, ttl := incr.Val(), ttlCmd.Val()

	// No expiry means a fresh window, or one whose EXPIRE never landed.
	if ttl < 0 {
		if err := rl.rdb.Expire(ctx, key, rl.window).Err(); err != nil {
			return false, 0, fmt.Errorf("failed to set rate limit window: %w", err)
		}
		ttl = rl.window
	}

	c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.maxReqs))
	c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", max(0, int64(rl.maxReqs)-count)))
	c.Set("X-RateLimit-Reset", fmt.Sprintf("%d", int(ttl.Seconds())))

	return int(count) <= rl.maxReqs, ttl, nil
}

func (rl *RateLimiter) allowLocal(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	// A bucket idle for a whole window is full again, so dropping it loses nothing.
	if now.Sub(rl.lastSweep) > rl.window {
		for k, cl := range rl.clients {
			if now.Sub(cl.lastSeen) > rl.window {
				delete(rl.clients, k)
			}
		}
		rl.lastSweep = now
	}

	cl, ok := rl.clients[ip]
	if !ok {
		perSecond := rate.Limit(float64(rl.maxReqs) / rl.window.Seconds())
		cl = &localClient{limiter: rate.NewLimiter(perSecond, rl.maxReqs)}
		rl.clients[ip] = cl
	}
	cl.lastSeen = now
	return cl.limiter.Allow()
}
