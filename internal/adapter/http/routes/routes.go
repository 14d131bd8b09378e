package routes

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"taskapp/internal/adapter/http/handler"
	"taskapp/internal/adapter/http/middleware"
	"taskapp/internal/core/port"
	"taskapp/pkg/config"
	"taskapp/pkg/response"
	"taskapp/pkg/tracing"
)

type HandlersConfig struct {
	TaskHandler *handler.TaskHandler
}

func SetupRouter(handlers HandlersConfig, metrics *tracing.AppMetrics, logger *config.AppLogger) *gin.Engine {
	return SetupRouterWithConfig(handlers, metrics, logger, config.GetDefaultConfig(), nil)
}

func SetupRouterWithConfig(handlers HandlersConfig, metrics *tracing.AppMetrics, logger *config.AppLogger, cfg *config.AppConfig, cacheStore port.CacheRepository) *gin.Engine {
	if gin.Mode() == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(otelgin.Middleware("taskapp"))

	if metrics != nil {
		router.Use(metricsMiddleware(metrics))
	}

	router.Use(middleware.ErrorHandler(logger, cfg))
	router.Use(corsMiddleware(cfg.AllowedOrigin))

	if cfg.RateLimitEnabled {
		limiter := config.NewRateLimiter(logger.Logger.Logger, metrics)
		router.Use(limiter.RateLimitMiddleware())
	}

	if cfg.CacheEnabled && cacheStore != nil {
		cache := response.NewResponseCache(cacheStore, logger.Logger.Logger, metrics)
		router.Use(cache.CacheMiddleware())
	}

	registerRoutes(router, handlers)

	return router
}

func registerRoutes(router *gin.Engine, handlers HandlersConfig) {
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if handlers.TaskHandler != nil {
		api := router.Group("/api")
		{
			api.GET("/tasks", handlers.TaskHandler.GetAllTasks)
			api.POST("/tasks", handlers.TaskHandler.CreateTask)
			api.GET("/tasks/:id", handlers.TaskHandler.GetTask)
			api.PATCH("/tasks/:id", handlers.TaskHandler.UpdateTask)
			api.DELETE("/tasks/:id", handlers.TaskHandler.DeleteTask)
		}
	}

	router.NoRoute(middleware.NotFoundHandler())
}

func metricsMiddleware(metrics *tracing.AppMetrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		metrics.IncrementActiveConnections(c.Request.Context())
		defer metrics.DecrementActiveConnections(c.Request.Context())

		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		metrics.RecordRequest(c.Request.Context(), c.Request.Method, path,
			strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

func corsMiddleware(allowedOrigin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", allowedOrigin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// SetupRouterForTests skips the rate limiter and response cache so tests
// exercise handlers directly.
func SetupRouterForTests(handlers HandlersConfig) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()

	cfg := config.GetDefaultConfig()

	router.Use(middleware.ErrorHandler(config.NewNopLogger(), cfg))
	router.Use(corsMiddleware(cfg.AllowedOrigin))

	registerRoutes(router, handlers)

	return router
}
