package domain

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrTaskNotFound covers both a nonexistent and a soft-deleted task; the
	// two cases are indistinguishable to callers.
	ErrTaskNotFound = errors.New("task not found")

	// ErrInvalidID marks an identifier that cannot be parsed as a task UUID.
	ErrInvalidID = errors.New("invalid id format")
)

// FieldError is a single violated rule, keyed by the field path it applies to.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
	Type    string `json:"type"`
}

// AppError is a classified failure carrying everything the HTTP boundary
// needs to render it. Operational distinguishes expected failures from bugs.
type AppError struct {
	Status      int
	Code        string
	Message     string
	Details     []FieldError
	Operational bool
	cause       error
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}

	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.cause
}

func NewValidationError(details []FieldError) *AppError {
	return &AppError{
		Status:      http.StatusBadRequest,
		Code:        "VALIDATION_ERROR",
		Message:     "Validation failed",
		Details:     details,
		Operational: true,
	}
}

// NewModelValidationError reports a persistence-level constraint violation,
// reclassified as a client error rather than a server fault.
func NewModelValidationError(details []FieldError, cause error) *AppError {
	return &AppError{
		Status:      http.StatusBadRequest,
		Code:        "MODEL_VALIDATION_ERROR",
		Message:     "Model validation failed",
		Details:     details,
		Operational: true,
		cause:       cause,
	}
}

func NewInvalidIDError(value string) *AppError {
	return &AppError{
		Status:  http.StatusBadRequest,
		Code:    "INVALID_ID",
		Message: "Invalid id format",
		Details: []FieldError{
			{Path: "id", Message: fmt.Sprintf("Invalid task id: %s", value), Type: "format"},
		},
		Operational: true,
		cause:       ErrInvalidID,
	}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{
		Status:      http.StatusNotFound,
		Code:        "NOT_FOUND",
		Message:     message,
		Operational: true,
		cause:       ErrTaskNotFound,
	}
}

func NewInternalError(cause error) *AppError {
	return &AppError{
		Status:      http.StatusInternalServerError,
		Code:        "INTERNAL_ERROR",
		Message:     "Internal Server Error",
		Operational: false,
		cause:       cause,
	}
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrTaskNotFound)
}
