package http

import (
	"taskapp/internal/adapter/http/handler"
	"taskapp/internal/core/port"
	"taskapp/internal/core/service"
	"taskapp/pkg/config"
)

type Container struct {
	TaskRepo port.TaskRepository

	TaskUseCase port.TaskService

	TaskHandler *handler.TaskHandler
}

func NewContainer(taskRepo port.TaskRepository, telemetry port.Telemetry, logger *config.AppLogger) *Container {
	taskSvc := service.NewTaskService(taskRepo, telemetry)
	taskHandler := handler.NewTaskHandler(taskSvc, logger)

	return &Container{
		TaskRepo:    taskRepo,
		TaskUseCase: taskSvc,
		TaskHandler: taskHandler,
	}
}
