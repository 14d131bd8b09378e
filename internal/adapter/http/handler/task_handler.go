package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"

	"taskapp/internal/adapter/http/helper"
	"taskapp/internal/adapter/http/validation"
	"taskapp/internal/core/model/response"
	"taskapp/internal/core/port"
	"taskapp/pkg/config"
	"taskapp/pkg/tracing"
)

type TaskHandler struct {
	svc    port.TaskService
	Logger *config.AppLogger
}

func NewTaskHandler(svc port.TaskService, logger *config.AppLogger) *TaskHandler {
	return &TaskHandler{
		svc:    svc,
		Logger: logger,
	}
}

func (t *TaskHandler) GetAllTasks(c *gin.Context) {
	ctx, span := tracing.CreateChildSpan(c.Request.Context(), "handler.task.GetAllTasks", []attribute.KeyValue{
		attribute.String("handler.operation", "GetAllTasks"),
		attribute.String("handler.method", c.Request.Method),
		attribute.String("handler.path", c.FullPath()),
	})
	defer span.End()

	filter, appErr := validation.ParseListQuery(c.Request.URL.Query())

	if appErr != nil {
		c.Error(appErr)
		return
	}

	span.SetAttributes(
		attribute.Int("pagination.page", filter.Page),
		attribute.Int("pagination.limit", filter.Limit),
	)

	data, err := t.svc.List(ctx, filter)

	if err != nil {
		tracing.AddSpanError(span, err)
		c.Error(err)
		return
	}

	span.SetAttributes(attribute.Int("result.count", len(data.Data)))

	c.JSON(http.StatusOK, data)
}

func (t *TaskHandler) CreateTask(c *gin.Context) {
	ctx := c.Request.Context()

	task, appErr := validation.ParseCreateBody(c)

	if appErr != nil {
		c.Error(appErr)
		return
	}

	created, err := t.svc.Create(ctx, task)

	if err != nil {
		c.Error(err)
		return
	}

	helper.SendSuccess(c, http.StatusCreated, response.NewTaskResponse(created))
}

func (t *TaskHandler) GetTask(c *gin.Context) {
	ctx := c.Request.Context()

	uid, appErr := validation.ParseTaskID(c.Param("id"))

	if appErr != nil {
		c.Error(appErr)
		return
	}

	task, err := t.svc.Get(ctx, uid)

	if err != nil {
		c.Error(err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, response.NewTaskResponse(task))
}

func (t *TaskHandler) UpdateTask(c *gin.Context) {
	ctx := c.Request.Context()

	uid, appErr := validation.ParseTaskID(c.Param("id"))

	if appErr != nil {
		c.Error(appErr)
		return
	}

	patch, appErr := validation.ParseUpdateBody(c)

	if appErr != nil {
		c.Error(appErr)
		return
	}

	updated, err := t.svc.Update(ctx, uid, patch)

	if err != nil {
		c.Error(err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, response.NewTaskResponse(updated))
}

func (t *TaskHandler) DeleteTask(c *gin.Context) {
	ctx := c.Request.Context()

	uid, appErr := validation.ParseTaskID(c.Param("id"))

	if appErr != nil {
		c.Error(appErr)
		return
	}

	if err := t.svc.Delete(ctx, uid); err != nil {
		c.Error(err)
		return
	}

	helper.SendSuccess(c, http.StatusOK, nil, "Task deleted successfully")
}
