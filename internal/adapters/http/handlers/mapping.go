package handlers

import (
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/project-task-api/internal/adapters/http/dto"
	"github.com/jsamuelsen11/project-task-api/internal/domain"
	"github.com/jsamuelsen11/project-task-api/internal/domain/project"
	"github.com/jsamuelsen11/project-task-api/internal/domain/task"
)

// toNewProject converts a validated request into a project without an ID.
func toNewProject(req *dto.ProjectRequest) (*project.Project, error) {
	p := &project.Project{}
	if err := applyProjectRequest(req, p); err != nil {
		return nil, err
	}
	return p, nil
}

// applyProjectRequest copies the mutable fields of req onto p. The ID of p
// is left untouched.
func applyProjectRequest(req *dto.ProjectRequest, p *project.Project) error {
	start, err := parseOptionalDate("startDate", req.StartDate)
	if err != nil {
		return err
	}
	end, err := parseOptionalDate("endDate", req.EndDate)
	if err != nil {
		return err
	}

	p.Name = req.Name
	p.Description = req.Description
	p.StartDate = start
	p.EndDate = end
	return nil
}

// toNewTask converts a validated request into a task without an ID. The
// owning project is taken from req.ProjectID.
func toNewTask(req *dto.TaskRequest) (*task.Task, error) {
	projectID, err := uuid.Parse(req.ProjectID)
	if err != nil {
		return nil, invalidField("projectId", "must be a valid UUID")
	}

	t := &task.Task{ProjectID: projectID}
	if err := applyTaskRequest(req, t); err != nil {
		return nil, err
	}
	return t, nil
}

// applyTaskRequest copies title, description, status, priority and due date
// onto t. The project is not copied; moving a task is up to the service.
func applyTaskRequest(req *dto.TaskRequest, t *task.Task) error {
	due, err := parseOptionalDate("dueDate", req.DueDate)
	if err != nil {
		return err
	}

	t.Title = req.Title
	t.Description = req.Description
	t.Status = task.Status(req.Status)
	t.Priority = task.Priority(req.Priority)
	t.DueDate = due
	return nil
}

func parseOptionalDate(field, s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(s)
	if err != nil {
		return nil, invalidField(field, "must be a valid date in YYYY-MM-DD format")
	}
	return &d, nil
}

func invalidField(field, msg string) error {
	return &domain.ValidationError{Fields: map[string]string{field: msg}}
}
