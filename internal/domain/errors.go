package domain

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Sentinel errors for errors.Is() checking.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrBusinessRule = errors.New("business rule violation")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("unavailable")
)

// MsgRequired is the validation message for mandatory fields.
const MsgRequired = "is required"

// ValidationError provides programmatic access to field-level validation failures.
// Use errors.Is(err, ErrValidation) for simple checks, or errors.As(err, &verr) to
// access verr.Fields for per-field error details.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, field := range e.SortedFields() {
		parts = append(parts, field+": "+e.Fields[field])
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// SortedFields returns the failing field names in lexical order so that
// aggregated messages are stable across calls.
func (e *ValidationError) SortedFields() []string {
	fields := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		fields = append(fields, field)
	}
	slices.Sort(fields)
	return fields
}

// RuleError reports a request that is well formed but breaks a business rule,
// such as a duplicate project name or a due date in the past.
type RuleError struct {
	Message string
}

// NewRuleError returns a *RuleError carrying msg.
func NewRuleError(msg string) *RuleError {
	return &RuleError{Message: msg}
}

func (e *RuleError) Error() string {
	return e.Message
}

func (e *RuleError) Unwrap() error {
	return ErrBusinessRule
}

// NotFoundError names the missing resource and the identifier that was looked up.
type NotFoundError struct {
	Resource string
	ID       string
}

// NewNotFoundError returns a *NotFoundError for the given resource kind and id.
func NewNotFoundError(resource string, id fmt.Stringer) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id.String()}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id: %s", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrNotFound
}
