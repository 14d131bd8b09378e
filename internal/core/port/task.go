package port

import (
	"context"

	"github.com/google/uuid"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/response"
)

type TaskRepository interface {
	// List returns one page of live tasks plus the total count matching the
	// filter. The two reads are independent; the count is not transactional
	// with the page.
	List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, int, error)
	GetByUUID(ctx context.Context, uid uuid.UUID) (domain.Task, error)
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	UpdateByUUID(ctx context.Context, uid uuid.UUID, patch domain.TaskPatch) (domain.Task, error)
	SoftDeleteByUUID(ctx context.Context, uid uuid.UUID) error
}

type TaskService interface {
	List(ctx context.Context, filter domain.TaskFilter) (*response.TaskListResponse, error)
	Get(ctx context.Context, uid uuid.UUID) (domain.Task, error)
	Create(ctx context.Context, task domain.Task) (domain.Task, error)
	Update(ctx context.Context, uid uuid.UUID, patch domain.TaskPatch) (domain.Task, error)
	Delete(ctx context.Context, uid uuid.UUID) error
}
