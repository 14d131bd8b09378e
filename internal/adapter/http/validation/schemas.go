package validation

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"taskapp/internal/core/domain"
)

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// listQueryKeys is the closed set of parameters the list endpoint accepts;
// anything else is a violation rather than being silently dropped.
var listQueryKeys = map[string]struct{}{
	"page":     {},
	"limit":    {},
	"q":        {},
	"status":   {},
	"priority": {},
	"from":     {},
	"to":       {},
}

var dateLayouts = []string{time.RFC3339, "2006-01-02"}

func parseDate(raw string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("invalid date: %s", raw)
}

// ParseListQuery coerces and validates the raw list query into a TaskFilter,
// applying defaults and collecting every violation instead of stopping at the
// first one.
func ParseListQuery(values url.Values) (domain.TaskFilter, *domain.AppError) {
	var details []domain.FieldError

	filter := domain.TaskFilter{
		Page:  defaultPage,
		Limit: defaultLimit,
	}

	for key := range values {
		if _, known := listQueryKeys[key]; !known {
			details = append(details, domain.FieldError{
				Path:    key,
				Message: fmt.Sprintf("%s is not allowed", key),
				Type:    "unknown",
			})
		}
	}

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)

		switch {
		case err != nil:
			details = append(details, domain.FieldError{Path: "page", Message: "page must be an integer", Type: "integer"})
		case page < 1:
			details = append(details, domain.FieldError{Path: "page", Message: "page must be at least 1", Type: "min"})
		default:
			filter.Page = page
		}
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)

		switch {
		case err != nil:
			details = append(details, domain.FieldError{Path: "limit", Message: "limit must be an integer", Type: "integer"})
		case limit < 1:
			details = append(details, domain.FieldError{Path: "limit", Message: "limit must be at least 1", Type: "min"})
		case limit > maxLimit:
			details = append(details, domain.FieldError{Path: "limit", Message: fmt.Sprintf("limit must be at most %d", maxLimit), Type: "max"})
		default:
			filter.Limit = limit
		}
	}

	if _, present := values["q"]; present {
		q := strings.TrimSpace(values.Get("q"))

		if q == "" {
			details = append(details, domain.FieldError{Path: "q", Message: "q must not be empty", Type: "min"})
		} else {
			filter.Query = q
		}
	}

	if raw := values.Get("status"); raw != "" {
		status, err := domain.ParseStatus(raw)

		if err != nil {
			details = append(details, domain.FieldError{Path: "status", Message: "status must be one of: todo, doing, done", Type: "enum"})
		} else {
			filter.Status = status
		}
	}

	if raw := values.Get("priority"); raw != "" {
		priority, err := domain.ParsePriority(raw)

		if err != nil {
			details = append(details, domain.FieldError{Path: "priority", Message: "priority must be one of: low, medium, high", Type: "enum"})
		} else {
			filter.Priority = priority
		}
	}

	if raw := values.Get("from"); raw != "" {
		from, err := parseDate(raw)

		if err != nil {
			details = append(details, domain.FieldError{Path: "from", Message: "from must be a valid date", Type: "date"})
		} else {
			filter.From = &from
		}
	}

	if raw := values.Get("to"); raw != "" {
		to, err := parseDate(raw)

		if err != nil {
			details = append(details, domain.FieldError{Path: "to", Message: "to must be a valid date", Type: "date"})
		} else {
			filter.To = &to
		}
	}

	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		details = append(details, domain.FieldError{Path: "to", Message: "to must not be before from", Type: "min"})
	}

	if len(details) > 0 {
		return domain.TaskFilter{}, domain.NewValidationError(details)
	}

	return filter, nil
}

// DateTime accepts RFC 3339 timestamps or bare YYYY-MM-DD dates in JSON.
type DateTime struct {
	time.Time
}

func (d *DateTime) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		return nil
	}

	t, err := parseDate(strings.Trim(string(data), `"`))

	if err != nil {
		return err
	}

	d.Time = t
	return nil
}

type CreateTaskBody struct {
	Title       string    `json:"title" validate:"required,min=3,max=255"`
	Description string    `json:"description" validate:"max=1000"`
	Status      string    `json:"status" validate:"omitempty,oneof=todo doing done"`
	Priority    string    `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *DateTime `json:"dueDate"`
}

type UpdateTaskBody struct {
	Title       *string   `json:"title" validate:"omitempty,min=3,max=255"`
	Description *string   `json:"description" validate:"omitempty,max=1000"`
	Status      *string   `json:"status" validate:"omitempty,oneof=todo doing done"`
	Priority    *string   `json:"priority" validate:"omitempty,oneof=low medium high"`
	DueDate     *DateTime `json:"dueDate"`
}

func malformedBodyError(err error) *domain.AppError {
	return domain.NewValidationError([]domain.FieldError{
		{Path: "body", Message: "Invalid request body: " + err.Error(), Type: "json"},
	})
}

// ParseCreateBody binds, trims, defaults and validates the create payload.
func ParseCreateBody(c *gin.Context) (domain.Task, *domain.AppError) {
	var body CreateTaskBody

	if err := c.ShouldBindJSON(&body); err != nil {
		return domain.Task{}, malformedBodyError(err)
	}

	body.Title = strings.TrimSpace(body.Title)

	if err := Validator.Struct(body); err != nil {
		return domain.Task{}, domain.NewValidationError(FormatValidationErrors(err))
	}

	task := domain.Task{
		Title:       body.Title,
		Description: body.Description,
		Status:      domain.StatusTodo,
		Priority:    domain.PriorityMedium,
	}

	if body.Status != "" {
		task.Status = domain.Status(body.Status)
	}

	if body.Priority != "" {
		task.Priority = domain.Priority(body.Priority)
	}

	if body.DueDate != nil {
		due := body.DueDate.Time
		task.DueDate = &due
	}

	return task, nil
}

// ParseUpdateBody binds and validates a partial update; nil fields stay
// untouched downstream.
func ParseUpdateBody(c *gin.Context) (domain.TaskPatch, *domain.AppError) {
	var body UpdateTaskBody

	if err := c.ShouldBindJSON(&body); err != nil {
		return domain.TaskPatch{}, malformedBodyError(err)
	}

	if body.Title != nil {
		trimmed := strings.TrimSpace(*body.Title)
		body.Title = &trimmed
	}

	if err := Validator.Struct(body); err != nil {
		return domain.TaskPatch{}, domain.NewValidationError(FormatValidationErrors(err))
	}

	patch := domain.TaskPatch{
		Title:       body.Title,
		Description: body.Description,
	}

	if body.Status != nil {
		status := domain.Status(*body.Status)
		patch.Status = &status
	}

	if body.Priority != nil {
		priority := domain.Priority(*body.Priority)
		patch.Priority = &priority
	}

	if body.DueDate != nil {
		due := body.DueDate.Time
		patch.DueDate = &due
	}

	return patch, nil
}

// ParseTaskID rejects identifiers that do not match the store's uuid format
// before they reach the repository.
func ParseTaskID(raw string) (uuid.UUID, *domain.AppError) {
	uid, err := uuid.Parse(raw)

	if err != nil {
		return uuid.Nil, domain.NewInvalidIDError(raw)
	}

	return uid, nil
}
