package service

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/response"
	"taskapp/internal/core/port"
	tel "taskapp/internal/core/telemetry"
)

type TaskService struct {
	repo      port.TaskRepository
	telemetry port.Telemetry
}

func NewTaskService(repo port.TaskRepository, telemetry port.Telemetry) *TaskService {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &TaskService{repo: repo, telemetry: telemetry}
}

func (ts *TaskService) List(ctx context.Context, filter domain.TaskFilter) (*response.TaskListResponse, error) {
	ctx, span := ts.telemetry.StartServiceSpan(ctx, "task", "List", map[string]interface{}{
		"pagination.page":  filter.Page,
		"pagination.limit": filter.Limit,
	})
	defer span.End()

	tasks, total, err := ts.repo.List(ctx, filter)

	if err != nil {
		span.RecordError(err)
		span.SetStatus("error", err.Error())
		return nil, err
	}

	data := make([]response.TaskResponse, 0, len(tasks))

	for _, task := range tasks {
		data = append(data, response.NewTaskResponse(task))
	}

	pages := int(math.Ceil(float64(total) / float64(filter.Limit)))

	span.SetAttributes(map[string]interface{}{
		"result.count": len(data),
		"result.total": total,
	})
	span.SetStatus("ok", "")

	return &response.TaskListResponse{
		Data: data,
		Meta: response.ListMeta{
			Page:  filter.Page,
			Limit: filter.Limit,
			Total: total,
			Pages: pages,
		},
	}, nil
}

func (ts *TaskService) Get(ctx context.Context, uid uuid.UUID) (domain.Task, error) {
	return ts.repo.GetByUUID(ctx, uid)
}

func (ts *TaskService) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	now := time.Now()

	newTask := domain.Task{
		UUID:        uuid.New(),
		Title:       task.Title,
		Description: task.Description,
		Status:      task.Status,
		Priority:    task.Priority,
		DueDate:     task.DueDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if newTask.Status == "" {
		newTask.Status = domain.StatusTodo
	}

	if newTask.Priority == "" {
		newTask.Priority = domain.PriorityMedium
	}

	created, err := ts.repo.Create(ctx, newTask)

	if err != nil {
		ts.telemetry.RecordError(ctx, "task.Create", err, map[string]interface{}{
			"title": newTask.Title,
		})
		return domain.Task{}, err
	}

	return created, nil
}

func (ts *TaskService) Update(ctx context.Context, uid uuid.UUID, patch domain.TaskPatch) (domain.Task, error) {
	return ts.repo.UpdateByUUID(ctx, uid, patch)
}

func (ts *TaskService) Delete(ctx context.Context, uid uuid.UUID) error {
	return ts.repo.SoftDeleteByUUID(ctx, uid)
}
