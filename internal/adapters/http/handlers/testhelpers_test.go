package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jsamuelsen11/project-task-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/project-task-api/internal/domain/project"
	"github.com/jsamuelsen11/project-task-api/internal/domain/task"
)

const testHost = "api.example.com"

var (
	testTime      = time.Date(2026, 2, 12, 15, 4, 5, 0, time.UTC)
	testProjectID = uuid.MustParse("8d7f1c1e-4a53-4b8e-9a8f-3f4c2b1d0e01")
	testTaskID    = uuid.MustParse("0b7e8a52-6c1d-4f0e-9d8e-2a5b6c7d8e9f")
)

func withChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// newRequest builds a request against testHost with an optional JSON body.
func newRequest(t *testing.T, method, target string, body any) *http.Request {
	t.Helper()

	var buf *bytes.Buffer
	switch b := body.(type) {
	case nil:
		buf = &bytes.Buffer{}
	case string:
		buf = bytes.NewBufferString(b)
	default:
		buf = jsonBody(t, b)
	}

	req := httptest.NewRequest(method, target, buf)
	req.Host = testHost
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func validProject() project.Project {
	return project.Project{
		ID:          testProjectID,
		Name:        "Sprint 1",
		Description: "First sprint tasks",
		StartDate:   datePtr(2026, time.February, 1),
		EndDate:     datePtr(2026, time.February, 28),
		CreatedAt:   testTime,
		UpdatedAt:   testTime,
	}
}

func validTask() task.Task {
	return task.Task{
		ID:          testTaskID,
		Title:       "Write release notes",
		Description: "Summarise the sprint",
		Status:      task.StatusTodo,
		Priority:    task.PriorityHigh,
		DueDate:     datePtr(2026, time.March, 1),
		ProjectID:   testProjectID,
		CreatedAt:   testTime,
		UpdatedAt:   testTime,
	}
}

func validTaskRequest() dto.TaskRequest {
	return dto.TaskRequest{
		Title:       "Write release notes",
		Description: "Summarise the sprint",
		Status:      "TODO",
		Priority:    "HIGH",
		DueDate:     "2026-03-01",
		ProjectID:   testProjectID.String(),
	}
}

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	if err := json.NewEncoder(buf).Encode(v); err != nil {
		t.Fatalf("failed to encode JSON body: %v", err)
	}
	return buf
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var result T
	if err := json.NewDecoder(rec.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode JSON response: %v", err)
	}
	return result
}

func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Errorf("status = %d, want %d; body = %s", rec.Code, want, rec.Body.String())
	}
}

func requireLink(t *testing.T, links dto.Links, rel, want string) {
	t.Helper()
	got, ok := links[rel]
	if !ok {
		t.Errorf("_links missing %q; links = %v", rel, links)
		return
	}
	if got.Href != want {
		t.Errorf("_links[%q].href = %q, want %q", rel, got.Href, want)
	}
}
