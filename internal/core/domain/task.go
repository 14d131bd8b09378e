package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Status string

const (
	StatusTodo  Status = "todo"
	StatusDoing Status = "doing"
	StatusDone  Status = "done"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusTodo, StatusDoing, StatusDone:
		return Status(s), nil
	default:
		return "", fmt.Errorf("invalid status: %s", s)
	}
}

func ParsePriority(s string) (Priority, error) {
	switch Priority(s) {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return Priority(s), nil
	default:
		return "", fmt.Errorf("invalid priority: %s", s)
	}
}

type Task struct {
	ID          int
	UUID        uuid.UUID
	Title       string
	Description string
	Status      Status
	Priority    Priority
	DueDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
	DeletedAt   *time.Time
}

func (t *Task) IsDeleted() bool {
	return t.DeletedAt != nil
}

func (t *Task) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"title":       t.Title,
		"description": t.Description,
		"status":      string(t.Status),
		"priority":    string(t.Priority),
		"due_date":    t.DueDate,
		"updated_at":  t.UpdatedAt,
	}
}

// TaskFilter carries the validated list constraints. Zero-valued fields mean
// "not filtered"; Page and Limit are always set by the validation layer.
type TaskFilter struct {
	Page     int
	Limit    int
	Query    string
	Status   Status
	Priority Priority
	From     *time.Time
	To       *time.Time
}

func (f TaskFilter) Offset() uint64 {
	return uint64((f.Page - 1) * f.Limit)
}

// TaskPatch is a partial update: nil pointers mean "leave unchanged".
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *Status
	Priority    *Priority
	DueDate     *time.Time
}

func (p TaskPatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Status == nil &&
		p.Priority == nil && p.DueDate == nil
}

// Apply merges the supplied fields into the task and bumps UpdatedAt.
func (p TaskPatch) Apply(t *Task) {
	if p.Title != nil {
		t.Title = *p.Title
	}

	if p.Description != nil {
		t.Description = *p.Description
	}

	if p.Status != nil {
		t.Status = *p.Status
	}

	if p.Priority != nil {
		t.Priority = *p.Priority
	}

	if p.DueDate != nil {
		t.DueDate = p.DueDate
	}

	t.UpdatedAt = time.Now()
}
