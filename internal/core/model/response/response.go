package response

import (
	"time"

	"github.com/google/uuid"

	"taskapp/internal/core/domain"
)

type TaskResponse struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
	DeletedAt   *time.Time `json:"deletedAt,omitempty"`
}

func NewTaskResponse(t domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.UUID,
		Title:       t.Title,
		Description: t.Description,
		Status:      string(t.Status),
		Priority:    string(t.Priority),
		DueDate:     t.DueDate,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
		DeletedAt:   t.DeletedAt,
	}
}

type ListMeta struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
	Total int `json:"total"`
	Pages int `json:"pages"`
}

type TaskListResponse struct {
	Data []TaskResponse `json:"data"`
	Meta ListMeta       `json:"meta"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// ErrorInfo holds the diagnostic fields emitted outside production only.
type ErrorInfo struct {
	Name          string `json:"name"`
	IsOperational bool   `json:"isOperational"`
}

type ErrorResponse struct {
	Success bool                `json:"success"`
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Details []domain.FieldError `json:"details,omitempty"`
	Stack   string              `json:"stack,omitempty"`
	Error   *ErrorInfo          `json:"error,omitempty"`
}
