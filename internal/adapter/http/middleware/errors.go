package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"taskapp/internal/adapter/http/helper"
	"taskapp/pkg/config"
	"taskapp/pkg/tracing"
)

// ErrorHandler is the single exit point for failures: it recovers panics,
// normalizes whatever handlers pushed onto the context and renders the
// error envelope. Server faults get logged with their trace context.
func ErrorHandler(logger *config.AppLogger, cfg *config.AppConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				err := fmt.Errorf("panic: %v", recovered)
				appErr := helper.Normalize(err)

				logger.Logger.Ctx(c.Request.Context()).Error("Request panicked",
					zap.Any("panic", recovered),
					zap.String("method", c.Request.Method),
					zap.String("path", c.Request.URL.Path),
					zap.String("trace_id", tracing.GetTraceID(c.Request.Context())),
					zap.String("span_id", tracing.GetSpanID(c.Request.Context())),
				)

				helper.RenderError(c, appErr, !cfg.IsProduction())
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}

		appErr := helper.Normalize(c.Errors.Last().Err)

		if appErr.Status >= 500 {
			logger.Logger.Ctx(c.Request.Context()).Error("Request failed",
				zap.Error(c.Errors.Last().Err),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int("status", appErr.Status),
				zap.String("trace_id", tracing.GetTraceID(c.Request.Context())),
				zap.String("span_id", tracing.GetSpanID(c.Request.Context())),
			)
		}

		helper.RenderError(c, appErr, !cfg.IsProduction())
	}
}

// NotFoundHandler answers requests that matched no registered route.
func NotFoundHandler() gin.HandlerFunc {
	return helper.SendRouteNotFound
}
