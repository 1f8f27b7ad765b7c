package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"jobmarket-backend/internal/delivery/http/response"
	"jobmarket-backend/pkg/redis"
	"jobmarket-backend/pkg/security"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
)

// RateLimitConfig is a fixed-window limit per key.
type RateLimitConfig struct {
	Limit  int
	Window time.Duration
	// KeyPrefix namespaces the Redis counters, e.g. "rl:login:".
	KeyPrefix string
	// KeyFunc extracts the client key; defaults to the client IP.
	KeyFunc func(*gin.Context) string
	// FailClosed rejects requests when Redis errors instead of falling back to memory.
	FailClosed bool
}

// Lua script for atomic increment with TTL on first hit.
// Returns: [current_count, ttl_remaining]
const rateLimitLuaScript = `
local count = redis.call('INCR', KEYS[1])
if count == 1 then
    redis.call('EXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('TTL', KEYS[1])
return {count, ttl}
`

type windowCounter struct {
	mu      sync.Mutex
	count   int
	resetAt time.Time
}

// memoryLimiter is the per-process fallback used when Redis is not configured.
type memoryLimiter struct {
	counters sync.Map
}

func (m *memoryLimiter) hit(key string, window time.Duration, now time.Time) (int, time.Time) {
	v, _ := m.counters.LoadOrStore(key, &windowCounter{resetAt: now.Add(window)})
	wc := v.(*windowCounter)

	wc.mu.Lock()
	defer wc.mu.Unlock()
	if now.After(wc.resetAt) {
		wc.count = 0
		wc.resetAt = now.Add(window)
	}
	wc.count++
	return wc.count, wc.resetAt
}

func (m *memoryLimiter) sweep(now time.Time) {
	m.counters.Range(func(key, value any) bool {
		wc := value.(*windowCounter)
		wc.mu.Lock()
		expired := now.After(wc.resetAt)
		wc.mu.Unlock()
		if expired {
			m.counters.Delete(key)
		}
		return true
	})
}

var (
	fallbackLimiter = &memoryLimiter{}
	sweepOnce       sync.Once
)

// GlobalRateLimit limits every request per client IP.
func GlobalRateLimit(limit int, window time.Duration) gin.HandlerFunc {
	return RateLimit(RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:ip:"})
}

// LoginRateLimit is the stricter limit for credential endpoints.
func LoginRateLimit(limit int, window time.Duration) gin.HandlerFunc {
	return RateLimit(RateLimitConfig{Limit: limit, Window: window, KeyPrefix: "rl:login:", FailClosed: true})
}

// RateLimit counts requests in Redis when available and in memory otherwise.
func RateLimit(cfg RateLimitConfig) gin.HandlerFunc {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *gin.Context) string { return c.ClientIP() }
	}
	if cfg.Window <= 0 {
		cfg.Window = time.Minute
	}
	sweepOnce.Do(func() {
		go func() {
			for now := range time.Tick(5 * time.Minute) {
				fallbackLimiter.sweep(now)
			}
		}()
	})

	return func(c *gin.Context) {
		if cfg.Limit <= 0 {
			c.Next()
			return
		}
		key := cfg.KeyPrefix + cfg.KeyFunc(c)

		var (
			count   int
			resetAt time.Time
		)
		client := redis.Client()
		if client != nil {
			var err error
			count, resetAt, err = redisHit(c.Request.Context(), client, key, cfg.Window)
			if err != nil {
				if cfg.FailClosed {
					logRateLimitError(c, err)
					response.Error(c, http.StatusServiceUnavailable, "Service temporarily unavailable. Please try again.", nil)
					c.Abort()
					return
				}
				count, resetAt = fallbackLimiter.hit(key, cfg.Window, time.Now())
			}
		} else {
			count, resetAt = fallbackLimiter.hit(key, cfg.Window, time.Now())
		}

		remaining := cfg.Limit - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", resetAt.Format(time.RFC3339))

		if count > cfg.Limit {
			retryAfter := int(time.Until(resetAt).Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			logRateLimitTriggered(c)
			response.Error(c, http.StatusTooManyRequests, "Rate limit exceeded. Please try again later.", nil)
			c.Abort()
			return
		}

		c.Next()
	}
}

func redisHit(ctx context.Context, client *goredis.Client, key string, window time.Duration) (int, time.Time, error) {
	result, err := client.Eval(ctx, rateLimitLuaScript, []string{key}, int(window.Seconds())).Result()
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("redis rate limit eval failed: %w", err)
	}

	arr, ok := result.([]interface{})
	if !ok || len(arr) < 2 {
		return 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}
	count, _ := arr[0].(int64)
	ttl, _ := arr[1].(int64)
	return int(count), time.Now().Add(time.Duration(ttl) * time.Second), nil
}

func logRateLimitTriggered(c *gin.Context) {
	if sl := security.DefaultLogger(); sl != nil {
		sl.LogRateLimitTriggered(c.Request.Context(), c.ClientIP(), c.GetHeader("User-Agent"),
			c.GetString(response.RequestIDKey), c.FullPath())
	}
}

func logRateLimitError(c *gin.Context, err error) {
	if sl := security.DefaultLogger(); sl != nil {
		sl.Log(c.Request.Context(), security.SecurityEvent{
			Event:       security.EventRateLimitTriggered,
			SubjectType: "system",
			IP:          c.ClientIP(),
			Details:     map[string]interface{}{"error": err.Error()},
		})
	}
}
