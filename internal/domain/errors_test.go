package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
)

func TestValidationError_ErrorIsSorted(t *testing.T) {
	t.Parallel()

	err := &ValidationError{Fields: map[string]string{
		"title":   "is required",
		"dueDate": "is required",
	}}

	want := "validation error: dueDate: is required; title: is required"
	if got := err.Error(); got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
	if !errors.Is(err, ErrValidation) {
		t.Error("errors.Is(err, ErrValidation) = false, want true")
	}
}

func TestTypedErrors_Unwrap(t *testing.T) {
	t.Parallel()

	id := uuid.MustParse("0b9a2f0c-3c0e-4d55-8d8b-6c3a9f2b7e10")

	tests := []struct {
		name    string
		err     error
		target  error
		message string
	}{
		{
			name:    "rule error",
			err:     NewRuleError("due date cannot be earlier than the current date"),
			target:  ErrBusinessRule,
			message: "due date cannot be earlier than the current date",
		},
		{
			name:    "not found error",
			err:     NewNotFoundError("project", id),
			target:  ErrNotFound,
			message: "project not found with id: " + id.String(),
		},
		{
			name:    "wrapped not found error",
			err:     fmt.Errorf("loading: %w", NewNotFoundError("task", id)),
			target:  ErrNotFound,
			message: "loading: task not found with id: " + id.String(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if !errors.Is(tt.err, tt.target) {
				t.Errorf("errors.Is(%v, %v) = false, want true", tt.err, tt.target)
			}
			if got := tt.err.Error(); got != tt.message {
				t.Errorf("Error() = %q, want %q", got, tt.message)
			}
		})
	}
}
