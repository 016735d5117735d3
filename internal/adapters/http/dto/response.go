// Package dto provides HTTP request/response data transfer objects, the
// hypermedia envelope, and the error body for the inbound HTTP adapter layer.
package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/project-task-api/internal/domain"
	"github.com/jsamuelsen11/project-task-api/internal/domain/project"
	"github.com/jsamuelsen11/project-task-api/internal/domain/task"
)

// Link relation names used in the _links object.
const (
	RelSelf        = "self"
	RelAllProjects = "all-projects"
	RelAllTasks    = "all-tasks"
	RelTasks       = "tasks"
	RelProject     = "project"
)

// Link is a HAL link object.
type Link struct {
	Href string `json:"href"`
}

// Links maps relation names to links.
type Links map[string]Link

// ProjectResponse represents a single project in HTTP responses.
type ProjectResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	StartDate   *string   `json:"startDate"`
	EndDate     *string   `json:"endDate"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Links       Links     `json:"_links,omitempty"`
}

// ProjectCollection is the HAL envelope for a list of projects.
type ProjectCollection struct {
	Embedded ProjectList `json:"_embedded"`
	Links    Links       `json:"_links"`
}

// ProjectList holds the embedded projects of a ProjectCollection.
type ProjectList struct {
	Projects []ProjectResponse `json:"projects"`
}

// ToProjectResponse converts a domain Project entity to an HTTP response DTO
// without links.
func ToProjectResponse(p *project.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		StartDate:   formatDate(p.StartDate),
		EndDate:     formatDate(p.EndDate),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// TaskResponse represents a single task in HTTP responses. The owning
// project is flattened to its ID.
type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	DueDate     *string   `json:"dueDate"`
	ProjectID   uuid.UUID `json:"projectId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Links       Links     `json:"_links,omitempty"`
}

// TaskCollection is the HAL envelope for a list of tasks.
type TaskCollection struct {
	Embedded TaskList `json:"_embedded"`
	Links    Links    `json:"_links"`
}

// TaskList holds the embedded tasks of a TaskCollection.
type TaskList struct {
	Tasks []TaskResponse `json:"tasks"`
}

// ToTaskResponse converts a domain Task entity to an HTTP response DTO
// without links.
func ToTaskResponse(t *task.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Status:      t.Status.String(),
		Priority:    t.Priority.String(),
		DueDate:     formatDate(t.DueDate),
		ProjectID:   t.ProjectID,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateLayout)
	return &s
}
