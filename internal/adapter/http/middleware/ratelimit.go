package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"

	"todoboard/internal/adapter/telemetry"
	"todoboard/pkg/config"
	"todoboard/pkg/logging"
)

// RateLimiter tracks fixed-window counters per route and caller.
type RateLimiter struct {
	cache   *cache.Cache
	config  map[string]config.RateLimitConfig
	logger  *logging.Logger
	metrics *telemetry.AppMetrics
	mutex   sync.Mutex
}

type rateLimitEntry struct {
	Count     int
	ResetTime time.Time
}

func NewRateLimiter(limits map[string]config.RateLimitConfig, logger *logging.Logger, metrics *telemetry.AppMetrics) *RateLimiter {
	return &RateLimiter{
		cache:  cache.New(5*time.Minute, 10*time.Minute),
		config: limits,
		logger: logger,
		// metrics may be nil in tests
		metrics: metrics,
	}
}

func (rl *RateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		methodPath := c.Request.Method + " " + path

		limit, exists := rl.config[methodPath]
		if !exists {
			limit, exists = rl.config[path]
			if !exists {
				limit = rl.config["default"]
			}
		}

		key := rl.generateKey(c, methodPath)

		allowed, remaining, resetTime := rl.check(key, limit)

		keyType := "ip"
		if strings.Contains(key, "user_") {
			keyType = "user"
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit.Requests))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			if rl.metrics != nil {
				rl.metrics.RecordRateLimitHit(c.Request.Context(), path, keyType)
			}

			rl.logger.Warn(c.Request.Context(), "Rate limit exceeded",
				zap.String("key", key),
				zap.String("path", path),
				zap.Int("limit", limit.Requests),
				zap.Duration("window", limit.Window))

			c.JSON(http.StatusTooManyRequests, gin.H{
				"message":     fmt.Sprintf("Too many requests. Limit: %d per %v", limit.Requests, limit.Window),
				"retry_after": int(time.Until(resetTime).Seconds()),
			})
			c.Abort()
			return
		}

		if rl.metrics != nil {
			rl.metrics.RecordRateLimitAllowed(c.Request.Context(), path, keyType)
		}

		c.Next()
	}
}

func (rl *RateLimiter) check(key string, limit config.RateLimitConfig) (bool, int, time.Time) {
	now := time.Now()

	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if value, found := rl.cache.Get(key); found {
		entry := value.(rateLimitEntry)

		if now.Before(entry.ResetTime) {
			if entry.Count >= limit.Requests {
				return false, 0, entry.ResetTime
			}

			entry.Count++
			rl.cache.Set(key, entry, cache.DefaultExpiration)

			return true, limit.Requests - entry.Count, entry.ResetTime
		}
	}

	resetTime := now.Add(limit.Window)
	rl.cache.Set(key, rateLimitEntry{Count: 1, ResetTime: resetTime}, limit.Window)

	return true, limit.Requests - 1, resetTime
}

func (rl *RateLimiter) generateKey(c *gin.Context, methodPath string) string {
	if userID, exists := c.Get("x-user-id"); exists {
		return fmt.Sprintf("rate_limit:%s:user_%v", methodPath, userID)
	}

	return fmt.Sprintf("rate_limit:%s:ip_%s", methodPath, ClientIP(c))
}

// ClientIP resolves the caller address, honoring proxy headers.
func ClientIP(c *gin.Context) string {
	if forwarded := c.GetHeader("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}

	if realIP := c.GetHeader("X-Real-IP"); realIP != "" {
		return realIP
	}

	return c.ClientIP()
}
