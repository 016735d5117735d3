package project

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/project-task-api/internal/domain"
)

// Name length bounds, counted in runes.
const (
	NameMinLength = 3
	NameMaxLength = 100
)

// Resource is the name used for projects in error messages.
const Resource = "project"

// MsgEndBeforeStart is returned when a project's end date precedes its start date.
const MsgEndBeforeStart = "end date cannot precede start date"

// Project is a named container of tasks with an optional date window.
// Tasks reference their project; a project holds no task collection.
type Project struct {
	ID          uuid.UUID
	Name        string
	Description string
	StartDate   *time.Time
	EndDate     *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsNew reports whether the project has not been persisted yet.
func (p *Project) IsNew() bool {
	return p.ID == uuid.Nil
}

// Replace copies the mutable fields of from onto p. ID and timestamps are kept.
func (p *Project) Replace(from *Project) {
	p.Name = from.Name
	p.Description = from.Description
	p.StartDate = from.StartDate
	p.EndDate = from.EndDate
}

// Validate checks the structural rules for the Project entity.
// Returns a *domain.ValidationError (wrapping domain.ErrValidation) with per-field details,
// or nil if all rules pass.
func (p *Project) Validate() error {
	if p == nil {
		return &domain.ValidationError{Fields: map[string]string{Resource: domain.MsgRequired}}
	}

	fields := make(map[string]string)

	name := strings.TrimSpace(p.Name)
	switch n := utf8.RuneCountInString(p.Name); {
	case name == "":
		fields["name"] = domain.MsgRequired
	case n < NameMinLength || n > NameMaxLength:
		fields["name"] = fmt.Sprintf("the length must be between %d and %d", NameMinLength, NameMaxLength)
	}

	if len(fields) > 0 {
		return &domain.ValidationError{Fields: fields}
	}
	return nil
}

// CheckDates enforces that EndDate does not precede StartDate when both are set.
// Returns a *domain.RuleError (wrapping domain.ErrBusinessRule) on violation.
func (p *Project) CheckDates() error {
	if p.StartDate == nil || p.EndDate == nil {
		return nil
	}
	if domain.DateOf(*p.EndDate).Before(domain.DateOf(*p.StartDate)) {
		return domain.NewRuleError(MsgEndBeforeStart)
	}
	return nil
}

// DuplicateNameError returns the business-rule error for a name already in use.
func DuplicateNameError(name string) error {
	return domain.NewRuleError(fmt.Sprintf("a project with name %q already exists", name))
}
