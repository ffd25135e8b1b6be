package task

import (
	"errors"
	"strings"

	"github.com/BastianThoma/join/internal/model"
)

var ErrValidation = errors.New("task validation failed")

// ValidationError reports the required fields that are missing or empty.
// It aborts create/save before any remote call is issued.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validate checks the required-field gate: title, due date and category
// must be non-empty.
func Validate(t model.Task) error {
	var missing []string
	if strings.TrimSpace(t.Title) == "" {
		missing = append(missing, "title")
	}
	if strings.TrimSpace(t.DueDate) == "" {
		missing = append(missing, "dueDate")
	}
	if strings.TrimSpace(t.Category) == "" {
		missing = append(missing, "category")
	}
	if len(missing) > 0 {
		return &ValidationError{Fields: missing}
	}
	return nil
}
