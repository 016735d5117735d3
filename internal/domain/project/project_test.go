package project

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/project-task-api/internal/domain"
)

func datePtr(s string) *time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestProject_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		project   Project
		wantField string
	}{
		{
			name:    "valid project",
			project: Project{Name: "Backend rewrite"},
		},
		{
			name:    "minimum name length",
			project: Project{Name: "abc"},
		},
		{
			name:    "maximum name length",
			project: Project{Name: strings.Repeat("a", NameMaxLength)},
		},
		{
			name:      "blank name",
			project:   Project{Name: "   "},
			wantField: "name",
		},
		{
			name:      "name too short",
			project:   Project{Name: "ab"},
			wantField: "name",
		},
		{
			name:      "name too long",
			project:   Project{Name: strings.Repeat("a", NameMaxLength+1)},
			wantField: "name",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.project.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("Validate() = %v, want nil", err)
				}
				return
			}

			var verr *domain.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() = %v, want *ValidationError", err)
			}
			if _, ok := verr.Fields[tt.wantField]; !ok {
				t.Errorf("ValidationError.Fields missing key %q, got %v", tt.wantField, verr.Fields)
			}
		})
	}
}

func TestProject_CheckDates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		start   *time.Time
		end     *time.Time
		wantErr bool
	}{
		{name: "no dates"},
		{name: "only start", start: datePtr("2025-01-10")},
		{name: "only end", end: datePtr("2025-01-05")},
		{name: "same day", start: datePtr("2025-01-10"), end: datePtr("2025-01-10")},
		{name: "end after start", start: datePtr("2025-01-10"), end: datePtr("2025-02-01")},
		{name: "end before start", start: datePtr("2025-01-10"), end: datePtr("2025-01-05"), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := Project{Name: "Roadmap", StartDate: tt.start, EndDate: tt.end}
			err := p.CheckDates()
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("CheckDates() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, domain.ErrBusinessRule) {
				t.Fatalf("CheckDates() = %v, want ErrBusinessRule", err)
			}
			if err.Error() != MsgEndBeforeStart {
				t.Errorf("CheckDates() message = %q, want %q", err.Error(), MsgEndBeforeStart)
			}
		})
	}
}

func TestProject_IsNew(t *testing.T) {
	t.Parallel()

	if !(&Project{}).IsNew() {
		t.Error("IsNew() = false for zero ID, want true")
	}
	if (&Project{ID: uuid.New()}).IsNew() {
		t.Error("IsNew() = true for assigned ID, want false")
	}
}

func TestDuplicateNameError(t *testing.T) {
	t.Parallel()

	err := DuplicateNameError("Roadmap")
	if !errors.Is(err, domain.ErrBusinessRule) {
		t.Fatalf("DuplicateNameError() = %v, want ErrBusinessRule", err)
	}
	if !strings.Contains(err.Error(), `"Roadmap"`) {
		t.Errorf("DuplicateNameError() message = %q, want it to name the project", err.Error())
	}
}

func TestProject_ValidateNil(t *testing.T) {
	t.Parallel()

	var p *Project
	if err := p.Validate(); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("(*Project)(nil).Validate() = %v, want ErrValidation", err)
	}
}
