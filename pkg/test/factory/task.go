package factory

import (
	"time"

	fab "github.com/Goldziher/fabricator"
	"github.com/google/uuid"

	"taskapp/internal/core/domain"
)

// NewTask builds a task that satisfies every table constraint; overrides are
// applied on top of the defaults in order.
func NewTask(customData ...map[string]any) domain.Task {
	now := time.Now().UTC().Truncate(time.Second)

	defaults := map[string]any{
		"ID":          0,
		"UUID":        uuid.New(),
		"Title":       "Write the weekly report",
		"Description": "",
		"Status":      domain.StatusTodo,
		"Priority":    domain.PriorityMedium,
		"DueDate":     (*time.Time)(nil),
		"CreatedAt":   now,
		"UpdatedAt":   now,
		"DeletedAt":   (*time.Time)(nil),
	}

	for _, data := range customData {
		for key, value := range data {
			defaults[key] = value
		}
	}

	return fab.New(domain.Task{}).Build(defaults)
}
