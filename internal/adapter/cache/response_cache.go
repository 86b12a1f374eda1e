package cache

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"todoboard/internal/adapter/telemetry"
	"todoboard/pkg/logging"
	"todoboard/pkg/tracing"
)

// ResponseCacheConfig controls caching for one route pattern.
type ResponseCacheConfig struct {
	TTL     time.Duration
	Enabled bool
}

// CachedResponse is what gets stored per key.
type CachedResponse struct {
	StatusCode int                 `json:"status_code"`
	Headers    map[string][]string `json:"headers"`
	Body       []byte              `json:"body"`
	Timestamp  time.Time           `json:"timestamp"`
}

// ResponseCache serves repeated GETs from the store instead of the database.
// Write handlers call InvalidateUser so todo mutations are never masked by a
// stale list.
type ResponseCache struct {
	store   Store
	config  map[string]ResponseCacheConfig
	logger  *logging.Logger
	metrics *telemetry.AppMetrics
}

func NewResponseCache(store Store, logger *logging.Logger, metrics *telemetry.AppMetrics) *ResponseCache {
	configs := map[string]ResponseCacheConfig{
		"/user/:userId/todo": {
			TTL:     3 * time.Second,
			Enabled: true,
		},
		"/user/:userId/todo/:todoId": {
			TTL:     3 * time.Second,
			Enabled: true,
		},
		"default": {
			TTL:     time.Second,
			Enabled: false,
		},
	}

	return &ResponseCache{
		store:   store,
		config:  configs,
		logger:  logger,
		metrics: metrics,
	}
}

func (rc *ResponseCache) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method != "GET" {
			c.Next()
			return
		}

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		config, exists := rc.config[path]
		if !exists {
			config = rc.config["default"]
		}

		if !config.Enabled {
			c.Next()
			return
		}

		cacheKey := rc.generateCacheKey(c, path)

		if cached, found := rc.store.Get(c.Request.Context(), cacheKey); found {
			if time.Since(cached.Timestamp) < config.TTL {
				_, span := tracing.CreateChildSpan(c.Request.Context(), "cache.response.hit", []attribute.KeyValue{
					attribute.String("cache.key", cacheKey),
					attribute.String("cache.path", path),
				})
				defer span.End()

				if rc.metrics != nil {
					rc.metrics.RecordCacheHit(c.Request.Context(), path)
				}

				for key, values := range cached.Headers {
					for _, value := range values {
						c.Header(key, value)
					}
				}

				c.Header("X-Cache", "HIT")
				c.Header("X-Cache-Age", fmt.Sprintf("%.0f", time.Since(cached.Timestamp).Seconds()))

				c.Data(cached.StatusCode, "application/json", cached.Body)
				c.Abort()
				return
			}
		}

		if rc.metrics != nil {
			rc.metrics.RecordCacheMiss(c.Request.Context(), path)
		}

		writer := &responseWriter{
			ResponseWriter: c.Writer,
			body:           &bytes.Buffer{},
		}
		c.Writer = writer

		c.Next()

		if writer.statusCode >= 200 && writer.statusCode < 300 {
			rc.store.Set(c.Request.Context(), cacheKey, CachedResponse{
				StatusCode: writer.statusCode,
				Headers:    writer.Header(),
				Body:       writer.body.Bytes(),
				Timestamp:  time.Now(),
			}, config.TTL)

			c.Header("X-Cache", "MISS")
		}
	}
}

// generateCacheKey scopes entries to the route, query string and caller, so
// one user's page never leaks into another's.
func (rc *ResponseCache) generateCacheKey(c *gin.Context, path string) string {
	keyString := path + "|" + c.Request.URL.RawQuery

	if userID, exists := c.Get("x-user-id"); exists {
		keyString += fmt.Sprintf("|user_%v", userID)
	}

	hash := md5.Sum([]byte(keyString))

	return fmt.Sprintf("response:%s:user_%v:%x", path, c.GetInt("x-user-id"), hash)
}

// InvalidateUser drops every cached response belonging to one user.
func (rc *ResponseCache) InvalidateUser(c *gin.Context, userID int) {
	rc.store.DeleteMatching(c.Request.Context(), fmt.Sprintf("user_%d", userID))

	rc.logger.Info(c.Request.Context(), "Response cache invalidated",
		zap.Int("user_id", userID))
}

type responseWriter struct {
	gin.ResponseWriter
	body       *bytes.Buffer
	statusCode int
}

func (w *responseWriter) Write(data []byte) (int, error) {
	w.body.Write(data)
	return w.ResponseWriter.Write(data)
}

func (w *responseWriter) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *responseWriter) WriteString(s string) (int, error) {
	w.body.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}
