package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/suite"

	"taskapp/internal/adapter/database/sqlite"
	"taskapp/internal/adapter/database/sqlite/repository"
	"taskapp/internal/adapter/http/middleware"
	"taskapp/internal/core/domain"
	"taskapp/internal/core/model/response"
	"taskapp/internal/core/port"
	"taskapp/internal/core/service"
	"taskapp/pkg/config"
	"taskapp/pkg/test"
	factory "taskapp/pkg/test/factory"
)

type TaskHandlerSuite struct {
	suite.Suite
	db       *sqlite.DB
	TaskRepo port.TaskRepository
	Router   *gin.Engine
}

var ctx = context.Background()

func (s *TaskHandlerSuite) SetupTest() {
	s.db = test.InitTestStore()
	s.TaskRepo = repository.NewTaskRepository(s.db, nil)

	taskUseCase := service.NewTaskService(s.TaskRepo, nil)
	taskHandler := NewTaskHandler(taskUseCase, config.NewNopLogger())

	s.Router = setupTaskTestRouter(taskHandler)
}

func (s *TaskHandlerSuite) TearDownTest() {
	if s.db != nil {
		s.db.Close()
	}
}

func TestTaskHandlerSuite(t *testing.T) {
	RegisterTestingT(t)
	suite.Run(t, new(TaskHandlerSuite))
}

// Router is assembled inline to avoid an import cycle with the routes
// package.
func setupTaskTestRouter(taskHandler *TaskHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	router.Use(middleware.ErrorHandler(config.NewNopLogger(), config.GetDefaultConfig()))

	api := router.Group("/api")
	{
		api.GET("/tasks", taskHandler.GetAllTasks)
		api.POST("/tasks", taskHandler.CreateTask)
		api.GET("/tasks/:id", taskHandler.GetTask)
		api.PATCH("/tasks/:id", taskHandler.UpdateTask)
		api.DELETE("/tasks/:id", taskHandler.DeleteTask)
	}

	router.NoRoute(middleware.NotFoundHandler())

	return router
}

func (s *TaskHandlerSuite) do(method, path string, body string) *httptest.ResponseRecorder {
	var reader *strings.Reader

	if body == "" {
		reader = strings.NewReader("")
	} else {
		reader = strings.NewReader(body)
	}

	req, _ := http.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")

	rr := httptest.NewRecorder()
	s.Router.ServeHTTP(rr, req)

	return rr
}

func decodeSuccess(rr *httptest.ResponseRecorder) response.TaskResponse {
	envelope := struct {
		Success bool                  `json:"success"`
		Data    response.TaskResponse `json:"data"`
	}{}

	json.Unmarshal(rr.Body.Bytes(), &envelope)
	Expect(envelope.Success).To(BeTrue())

	return envelope.Data
}

func decodeError(rr *httptest.ResponseRecorder) response.ErrorResponse {
	errResp := response.ErrorResponse{}
	json.Unmarshal(rr.Body.Bytes(), &errResp)
	return errResp
}

func (s *TaskHandlerSuite) TestCreateTaskAppliesDefaults() {
	rr := s.do("POST", "/api/tasks", `{"title": "Write the release notes"}`)

	Expect(rr.Code).To(Equal(http.StatusCreated))

	task := decodeSuccess(rr)
	Expect(task.Title).To(Equal("Write the release notes"))
	Expect(task.Status).To(Equal("todo"))
	Expect(task.Priority).To(Equal("medium"))
	Expect(task.ID.String()).ToNot(BeEmpty())
}

func (s *TaskHandlerSuite) TestCreateTaskTitleTooShort() {
	rr := s.do("POST", "/api/tasks", `{"title": "ab"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	errResp := decodeError(rr)
	Expect(errResp.Success).To(BeFalse())
	Expect(errResp.Code).To(Equal("VALIDATION_ERROR"))
	Expect(errResp.Details).ToNot(BeEmpty())
	Expect(errResp.Details[0].Path).To(Equal("title"))
}

func (s *TaskHandlerSuite) TestCreateTaskTitleExactlyMinLength() {
	rr := s.do("POST", "/api/tasks", `{"title": "abc"}`)

	Expect(rr.Code).To(Equal(http.StatusCreated))
	Expect(decodeSuccess(rr).Title).To(Equal("abc"))
}

func (s *TaskHandlerSuite) TestCreateTaskTrimsTitle() {
	rr := s.do("POST", "/api/tasks", `{"title": "  Plan sprint  "}`)

	Expect(rr.Code).To(Equal(http.StatusCreated))
	Expect(decodeSuccess(rr).Title).To(Equal("Plan sprint"))
}

func (s *TaskHandlerSuite) TestCreateTaskEmptyDueDate() {
	rr := s.do("POST", "/api/tasks", `{"title": "Has empty due date", "dueDate": ""}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	errResp := decodeError(rr)
	Expect(errResp.Success).To(BeFalse())
	Expect(errResp.Code).To(Equal("VALIDATION_ERROR"))
}

func (s *TaskHandlerSuite) TestUpdateTaskEmptyDueDate() {
	created, err := s.TaskRepo.Create(ctx, factory.NewTask())
	Expect(err).ToNot(HaveOccurred())

	rr := s.do("PATCH", "/api/tasks/"+created.UUID.String(), `{"dueDate": ""}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decodeError(rr).Code).To(Equal("VALIDATION_ERROR"))
}

func (s *TaskHandlerSuite) TestCreateTaskInvalidStatus() {
	rr := s.do("POST", "/api/tasks", `{"title": "Valid title", "status": "archived"}`)

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decodeError(rr).Code).To(Equal("VALIDATION_ERROR"))
}

func (s *TaskHandlerSuite) TestListPastLastPageKeepsTotal() {
	for i := 1; i <= 5; i++ {
		s.TaskRepo.Create(ctx, factory.NewTask(map[string]any{
			"Title":  fmt.Sprintf("Done task %d", i),
			"Status": domain.StatusDone,
		}))
	}

	rr := s.do("GET", "/api/tasks?status=done&page=2&limit=10", "")

	Expect(rr.Code).To(Equal(http.StatusOK))

	list := response.TaskListResponse{}
	json.Unmarshal(rr.Body.Bytes(), &list)

	Expect(list.Data).To(BeEmpty())
	Expect(list.Meta.Total).To(Equal(5))
	Expect(list.Meta.Pages).To(Equal(1))
	Expect(list.Meta.Page).To(Equal(2))
}

func (s *TaskHandlerSuite) TestListRejectsInvertedDateRange() {
	rr := s.do("GET", "/api/tasks?from=2026-03-01&to=2026-02-01", "")

	Expect(rr.Code).To(Equal(http.StatusBadRequest))

	errResp := decodeError(rr)
	Expect(errResp.Code).To(Equal("VALIDATION_ERROR"))
	Expect(errResp.Details[0].Path).To(Equal("to"))
}

func (s *TaskHandlerSuite) TestListRejectsUnknownParameter() {
	rr := s.do("GET", "/api/tasks?bogus=1", "")

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decodeError(rr).Details[0].Type).To(Equal("unknown"))
}

func (s *TaskHandlerSuite) TestGetTaskMalformedID() {
	rr := s.do("GET", "/api/tasks/not-a-uuid", "")

	Expect(rr.Code).To(Equal(http.StatusBadRequest))
	Expect(decodeError(rr).Code).To(Equal("INVALID_ID"))
}

func (s *TaskHandlerSuite) TestGetSoftDeletedTask() {
	created, err := s.TaskRepo.Create(ctx, factory.NewTask())
	Expect(err).ToNot(HaveOccurred())

	Expect(s.TaskRepo.SoftDeleteByUUID(ctx, created.UUID)).To(Succeed())

	rr := s.do("GET", "/api/tasks/"+created.UUID.String(), "")

	Expect(rr.Code).To(Equal(http.StatusNotFound))

	errResp := decodeError(rr)
	Expect(errResp.Success).To(BeFalse())
	Expect(errResp.Code).To(Equal("NOT_FOUND"))
}

func (s *TaskHandlerSuite) TestUpdateTaskPartialPatch() {
	created, err := s.TaskRepo.Create(ctx, factory.NewTask(map[string]any{
		"Title":    "Keep this title",
		"Priority": domain.PriorityLow,
	}))
	Expect(err).ToNot(HaveOccurred())

	rr := s.do("PATCH", "/api/tasks/"+created.UUID.String(), `{"status": "done"}`)

	Expect(rr.Code).To(Equal(http.StatusOK))

	task := decodeSuccess(rr)
	Expect(task.Status).To(Equal("done"))
	Expect(task.Title).To(Equal("Keep this title"))
	Expect(task.Priority).To(Equal("low"))
}

func (s *TaskHandlerSuite) TestUpdateMissingTask() {
	rr := s.do("PATCH", "/api/tasks/"+factory.NewTask().UUID.String(), `{"status": "done"}`)

	Expect(rr.Code).To(Equal(http.StatusNotFound))
	Expect(decodeError(rr).Code).To(Equal("NOT_FOUND"))
}

func (s *TaskHandlerSuite) TestDeleteTask() {
	created, err := s.TaskRepo.Create(ctx, factory.NewTask())
	Expect(err).ToNot(HaveOccurred())

	rr := s.do("DELETE", "/api/tasks/"+created.UUID.String(), "")

	Expect(rr.Code).To(Equal(http.StatusOK))

	envelope := gin.H{}
	json.Unmarshal(rr.Body.Bytes(), &envelope)
	Expect(envelope["message"]).To(Equal("Task deleted successfully"))

	rr = s.do("DELETE", "/api/tasks/"+created.UUID.String(), "")
	Expect(rr.Code).To(Equal(http.StatusNotFound))
}

func (s *TaskHandlerSuite) TestRouteNotFound() {
	rr := s.do("GET", "/nope", "")

	Expect(rr.Code).To(Equal(http.StatusNotFound))

	errResp := decodeError(rr)
	Expect(errResp.Code).To(Equal("ROUTE_NOT_FOUND"))
	Expect(errResp.Message).To(Equal("Route not found GET /nope"))
}
