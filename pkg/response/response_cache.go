package response

import (
	"bytes"
	"crypto/md5"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"taskapp/internal/core/port"
	"taskapp/pkg"
	"taskapp/pkg/tracing"
)

const cacheKeyPrefix = "cache:"

type ResponseCacheConfig struct {
	TTL     time.Duration
	Enabled bool
}

// ResponseCache serves repeated GETs from the cache port and invalidates
// everything under its prefix whenever a mutation succeeds.
type ResponseCache struct {
	store   port.CacheRepository
	config  map[string]ResponseCacheConfig
	logger  *zap.Logger
	metrics *tracing.AppMetrics
}

type CachedResponse struct {
	StatusCode int                 `json:"status_code"`
	Headers    map[string][]string `json:"headers"`
	Body       []byte              `json:"body"`
	Timestamp  time.Time           `json:"timestamp"`
}

func NewResponseCache(store port.CacheRepository, logger *zap.Logger, metrics *tracing.AppMetrics) *ResponseCache {
	configs := map[string]ResponseCacheConfig{
		"/api/tasks": {
			TTL:     3 * time.Second,
			Enabled: true,
		},
		"default": {
			TTL:     1 * time.Second,
			Enabled: true,
		},
	}

	return &ResponseCache{
		store:   store,
		config:  configs,
		logger:  logger,
		metrics: metrics,
	}
}

func (rc *ResponseCache) CacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}

		if c.Request.Method != "GET" {
			c.Next()

			// Any successful mutation makes every cached read stale.
			if c.Writer.Status() >= 200 && c.Writer.Status() < 300 {
				if err := rc.store.DeleteByPrefix(c.Request.Context(), cacheKeyPrefix); err != nil {
					rc.logger.Warn("Cache invalidation failed", zap.Error(err))
				}
			}

			return
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

		if raw, err := rc.store.Get(c.Request.Context(), cacheKey); err == nil && raw != nil {
			var cached CachedResponse

			if err := json.Unmarshal(raw, &cached); err == nil && time.Since(cached.Timestamp) < config.TTL {
				tracing.AddSpanEvent(trace.SpanFromContext(c.Request.Context()), "cache.response.hit", []attribute.KeyValue{
					attribute.String("cache.key", cacheKey),
					attribute.String("cache.path", path),
				})

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
			cached := CachedResponse{
				StatusCode: writer.statusCode,
				Headers:    writer.Header(),
				Body:       writer.body.Bytes(),
				Timestamp:  time.Now(),
			}

			raw, err := json.Marshal(cached)

			if err != nil {
				rc.logger.Warn("Cache serialization failed", zap.Error(err))
				return
			}

			if err := rc.store.Set(c.Request.Context(), cacheKey, raw, config.TTL); err != nil {
				rc.logger.Warn("Cache store failed", zap.Error(err))
				return
			}

			c.Header("X-Cache", "MISS")
		}
	}
}

func (rc *ResponseCache) generateCacheKey(c *gin.Context, path string) string {
	keyParts := []string{path}

	if c.Request.URL.RawQuery != "" {
		keyParts = append(keyParts, c.Request.URL.RawQuery)
	}

	keyParts = append(keyParts, "ip_"+pkg.GetClientIP(c))

	hash := md5.Sum([]byte(strings.Join(keyParts, "|")))

	return fmt.Sprintf("%s%s:%x", cacheKeyPrefix, path, hash)
}

func (rc *ResponseCache) SetConfig(path string, config ResponseCacheConfig) {
	rc.config[path] = config
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
