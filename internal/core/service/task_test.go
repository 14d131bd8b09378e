package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/gomega"

	"taskapp/internal/core/domain"
)

// fakeTaskRepository keeps tasks in a slice; enough to exercise the service
// without a database.
type fakeTaskRepository struct {
	tasks []domain.Task
}

func (f *fakeTaskRepository) List(ctx context.Context, filter domain.TaskFilter) ([]domain.Task, int, error) {
	total := len(f.tasks)
	start := int(filter.Offset())

	if start >= total {
		return []domain.Task{}, total, nil
	}

	end := start + filter.Limit
	if end > total {
		end = total
	}

	return f.tasks[start:end], total, nil
}

func (f *fakeTaskRepository) GetByUUID(ctx context.Context, uid uuid.UUID) (domain.Task, error) {
	for _, task := range f.tasks {
		if task.UUID == uid && task.DeletedAt == nil {
			return task, nil
		}
	}

	return domain.Task{}, domain.ErrTaskNotFound
}

func (f *fakeTaskRepository) Create(ctx context.Context, task domain.Task) (domain.Task, error) {
	task.ID = len(f.tasks) + 1
	f.tasks = append(f.tasks, task)
	return task, nil
}

func (f *fakeTaskRepository) UpdateByUUID(ctx context.Context, uid uuid.UUID, patch domain.TaskPatch) (domain.Task, error) {
	for i := range f.tasks {
		if f.tasks[i].UUID == uid && f.tasks[i].DeletedAt == nil {
			patch.Apply(&f.tasks[i])
			return f.tasks[i], nil
		}
	}

	return domain.Task{}, domain.ErrTaskNotFound
}

func (f *fakeTaskRepository) SoftDeleteByUUID(ctx context.Context, uid uuid.UUID) error {
	now := time.Now()

	for i := range f.tasks {
		if f.tasks[i].UUID == uid && f.tasks[i].DeletedAt == nil {
			f.tasks[i].DeletedAt = &now
			return nil
		}
	}

	return domain.ErrTaskNotFound
}

func TestCreateFillsIdentityAndDefaults(t *testing.T) {
	g := NewWithT(t)

	svc := NewTaskService(&fakeTaskRepository{}, nil)

	created, err := svc.Create(context.Background(), domain.Task{Title: "Write the release notes"})

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(created.UUID).ToNot(Equal(uuid.Nil))
	g.Expect(created.Status).To(Equal(domain.StatusTodo))
	g.Expect(created.Priority).To(Equal(domain.PriorityMedium))
	g.Expect(created.CreatedAt).ToNot(BeZero())
	g.Expect(created.UpdatedAt).To(Equal(created.CreatedAt))
}

func TestCreateKeepsProvidedFields(t *testing.T) {
	g := NewWithT(t)

	svc := NewTaskService(&fakeTaskRepository{}, nil)

	created, err := svc.Create(context.Background(), domain.Task{
		Title:    "Ship release",
		Status:   domain.StatusDoing,
		Priority: domain.PriorityHigh,
	})

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(created.Status).To(Equal(domain.StatusDoing))
	g.Expect(created.Priority).To(Equal(domain.PriorityHigh))
}

func TestListComputesPageCount(t *testing.T) {
	g := NewWithT(t)

	repo := &fakeTaskRepository{}
	svc := NewTaskService(repo, nil)

	for i := 0; i < 5; i++ {
		_, err := svc.Create(context.Background(), domain.Task{Title: "Task"})
		g.Expect(err).ToNot(HaveOccurred())
	}

	list, err := svc.List(context.Background(), domain.TaskFilter{Page: 1, Limit: 2})

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(list.Data).To(HaveLen(2))
	g.Expect(list.Meta.Total).To(Equal(5))
	g.Expect(list.Meta.Pages).To(Equal(3))
}

func TestListEmptyResult(t *testing.T) {
	g := NewWithT(t)

	svc := NewTaskService(&fakeTaskRepository{}, nil)

	list, err := svc.List(context.Background(), domain.TaskFilter{Page: 3, Limit: 20})

	g.Expect(err).ToNot(HaveOccurred())
	g.Expect(list.Data).To(BeEmpty())
	g.Expect(list.Meta.Total).To(Equal(0))
	g.Expect(list.Meta.Pages).To(Equal(0))
}
