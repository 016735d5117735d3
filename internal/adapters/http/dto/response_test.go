package dto_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/project-task-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/project-task-api/internal/domain/project"
	"github.com/jsamuelsen11/project-task-api/internal/domain/task"
)

var testTime = time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

func stringPtr(s string) *string { return &s }

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestToProjectResponse(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		project   project.Project
		wantStart *string
		wantEnd   *string
	}{
		{
			name: "with dates",
			project: project.Project{
				ID:        uuid.New(),
				Name:      "Sprint 1",
				StartDate: date(2026, time.January, 1),
				EndDate:   date(2026, time.January, 31),
				CreatedAt: testTime,
				UpdatedAt: testTime,
			},
			wantStart: stringPtr("2026-01-01"),
			wantEnd:   stringPtr("2026-01-31"),
		},
		{
			name: "without dates",
			project: project.Project{
				ID:        uuid.New(),
				Name:      "Backlog",
				CreatedAt: testTime,
				UpdatedAt: testTime,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := dto.ToProjectResponse(&tt.project)

			if got.ID != tt.project.ID || got.Name != tt.project.Name {
				t.Errorf("ID/Name = %s/%q, want %s/%q", got.ID, got.Name, tt.project.ID, tt.project.Name)
			}
			requireDate(t, "StartDate", got.StartDate, tt.wantStart)
			requireDate(t, "EndDate", got.EndDate, tt.wantEnd)
			if got.Links != nil {
				t.Errorf("Links = %v, want nil before the handler adds them", got.Links)
			}
		})
	}
}

func TestToTaskResponse(t *testing.T) {
	t.Parallel()

	projectID := uuid.New()
	tk := task.Task{
		ID:        uuid.New(),
		Title:     "Write release notes",
		Status:    task.StatusDoing,
		Priority:  task.PriorityLow,
		DueDate:   date(2026, time.March, 9),
		ProjectID: projectID,
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}

	got := dto.ToTaskResponse(&tk)

	if got.Status != "DOING" || got.Priority != "LOW" {
		t.Errorf("Status/Priority = %s/%s, want DOING/LOW", got.Status, got.Priority)
	}
	if got.ProjectID != projectID {
		t.Errorf("ProjectID = %s, want %s", got.ProjectID, projectID)
	}
	requireDate(t, "DueDate", got.DueDate, stringPtr("2026-03-09"))
}

func TestProjectResponse_JSONSerialization(t *testing.T) {
	t.Parallel()

	resp := dto.ToProjectResponse(&project.Project{ID: uuid.New(), Name: "Sprint 1", CreatedAt: testTime, UpdatedAt: testTime})
	resp.Links = dto.Links{dto.RelSelf: {Href: "http://localhost/projects/1"}}

	m := toMap(t, resp)
	for _, key := range []string{"id", "name", "description", "startDate", "endDate", "createdAt", "updatedAt", "_links"} {
		if _, ok := m[key]; !ok {
			t.Errorf("JSON missing key %q, got keys: %v", key, keys(m))
		}
	}
	if m["startDate"] != nil {
		t.Errorf("startDate = %v, want null", m["startDate"])
	}
}

func TestTaskCollection_JSONSerialization(t *testing.T) {
	t.Parallel()

	coll := dto.TaskCollection{
		Embedded: dto.TaskList{Tasks: []dto.TaskResponse{}},
		Links:    dto.Links{dto.RelSelf: {Href: "http://localhost/tasks"}},
	}

	data, err := json.Marshal(coll)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}

	want := `{"_embedded":{"tasks":[]},"_links":{"self":{"href":"http://localhost/tasks"}}}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}

func requireDate(t *testing.T, name string, got, want *string) {
	t.Helper()
	switch {
	case want == nil && got != nil:
		t.Errorf("%s = %q, want nil", name, *got)
	case want != nil && got == nil:
		t.Errorf("%s = nil, want %q", name, *want)
	case want != nil && *got != *want:
		t.Errorf("%s = %q, want %q", name, *got, *want)
	}
}

func toMap(t *testing.T, v any) map[string]any {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal() error = %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatalf("json.Unmarshal() error = %v", err)
	}
	return m
}

func keys(m map[string]any) []string {
	result := make([]string, 0, len(m))
	for k := range m {
		result = append(result, k)
	}
	return result
}
