package helper

import (
	"database/sql"
	"errors"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/response"
)

func SendSuccess(c *gin.Context, statusCode int, data any, message ...string) {
	body := response.SuccessResponse{
		Success: true,
		Data:    data,
	}

	if len(message) > 0 && message[0] != "" {
		body.Message = message[0]
	}

	c.JSON(statusCode, body)
}

// Normalize classifies any error into an AppError so every failure leaves
// the API in the same envelope. Unrecognized errors become 500s.
func Normalize(err error) *domain.AppError {
	var appErr *domain.AppError

	if errors.As(err, &appErr) {
		return appErr
	}

	if errors.Is(err, domain.ErrInvalidID) {
		return domain.NewInvalidIDError("")
	}

	if errors.Is(err, domain.ErrTaskNotFound) || errors.Is(err, sql.ErrNoRows) {
		return domain.NewNotFoundError("Task not found")
	}

	return domain.NewInternalError(err)
}

// RenderError writes the error envelope. Diagnostics (stack, error class)
// are only attached outside production.
func RenderError(c *gin.Context, appErr *domain.AppError, includeDiagnostics bool) {
	body := response.ErrorResponse{
		Success: false,
		Message: appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	}

	if includeDiagnostics {
		body.Stack = string(debug.Stack())
		body.Error = &response.ErrorInfo{
			Name:          appErr.Code,
			IsOperational: appErr.Operational,
		}
	}

	c.AbortWithStatusJSON(appErr.Status, body)
}

// SendRouteNotFound answers requests that matched no route.
func SendRouteNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, response.ErrorResponse{
		Success: false,
		Message: "Route not found " + c.Request.Method + " " + c.Request.URL.Path,
		Code:    "ROUTE_NOT_FOUND",
	})
}
