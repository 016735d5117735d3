package task

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/project-task-api/internal/domain"
)

// Field length bounds, counted in runes.
const (
	TitleMinLength       = 5
	TitleMaxLength       = 150
	DescriptionMaxLength = 500
)

// Resource is the name used for tasks in error messages.
const Resource = "task"

// MsgDueDateInPast is returned when a due date falls before the current date.
const MsgDueDateInPast = "due date cannot be earlier than the current date"

// Task is a unit of work that belongs to exactly one project.
type Task struct {
	ID          uuid.UUID
	Title       string
	Description string
	Status      Status
	Priority    Priority
	DueDate     *time.Time
	ProjectID   uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsNew reports whether the task has not been persisted yet.
func (t *Task) IsNew() bool {
	return t.ID == uuid.Nil
}

// Replace copies the mutable fields of from onto t. ID, ProjectID and
// timestamps are kept; moving a task between projects is a separate step.
func (t *Task) Replace(from *Task) {
	t.Title = from.Title
	t.Description = from.Description
	t.Status = from.Status
	t.Priority = from.Priority
	t.DueDate = from.DueDate
}

// Validate checks the structural rules for the Task entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with per-field details,
// or nil if all rules pass.
func (t *Task) Validate() error {
	if t == nil {
		return &domain.ValidationError{Fields: map[string]string{Resource: domain.MsgRequired}}
	}

	fields := make(map[string]string)

	switch n := utf8.RuneCountInString(t.Title); {
	case strings.TrimSpace(t.Title) == "":
		fields["title"] = domain.MsgRequired
	case n < TitleMinLength || n > TitleMaxLength:
		fields["title"] = fmt.Sprintf("the length must be between %d and %d", TitleMinLength, TitleMaxLength)
	}
	if utf8.RuneCountInString(t.Description) > DescriptionMaxLength {
		fields["description"] = fmt.Sprintf("the length must be no more than %d", DescriptionMaxLength)
	}
	if !t.Status.IsValid() {
		fields["status"] = fmt.Sprintf("invalid: %q", t.Status)
	}
	if !t.Priority.IsValid() {
		fields["priority"] = fmt.Sprintf("invalid: %q", t.Priority)
	}
	if t.DueDate == nil {
		fields["dueDate"] = domain.MsgRequired
	}
	if t.ProjectID == uuid.Nil {
		fields["projectId"] = domain.MsgRequired
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// CheckDueDate rejects a due date earlier than the calendar date of now.
// A due date of today is accepted. Returns a *domain.RuleError on violation.
func (t *Task) CheckDueDate(now time.Time) error {
	if t.DueDate == nil {
		return nil
	}
	if domain.DateOf(*t.DueDate).Before(domain.DateOf(now)) {
		return domain.NewRuleError(MsgDueDateInPast)
	}
	return nil
}
