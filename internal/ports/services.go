package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/project-task-api/internal/domain/project"
	"github.com/jsamuelsen11/project-task-api/internal/domain/task"
)

// ProjectService defines the service port for project operations.
// Implemented by the application layer; called by inbound adapters (handlers).
type ProjectService interface {
	// CreateProject stores a new project and returns it with its
	// server-assigned fields (ID, timestamps).
	// Returns domain.ErrValidation for malformed input and
	// domain.ErrBusinessRule for a duplicate name or reversed dates.
	CreateProject(ctx context.Context, p *project.Project) (*project.Project, error)

	// GetProject returns a single project by ID.
	// Returns domain.ErrNotFound if the project does not exist.
	GetProject(ctx context.Context, id uuid.UUID) (*project.Project, error)

	// ListProjects returns all projects.
	ListProjects(ctx context.Context) ([]project.Project, error)

	// UpdateProject replaces the mutable fields of an existing project with
	// those of changes. The ID of changes is ignored.
	// Returns domain.ErrNotFound if the project does not exist.
	UpdateProject(ctx context.Context, id uuid.UUID, changes *project.Project) (*project.Project, error)

	// DeleteProject removes a project.
	// Returns domain.ErrNotFound if the project does not exist and
	// domain.ErrConflict if tasks still reference it.
	DeleteProject(ctx context.Context, id uuid.UUID) error
}

// TaskService defines the service port for task operations.
type TaskService interface {
	// CreateTask stores a new task under t.ProjectID.
	// Returns domain.ErrNotFound if the project does not exist and
	// domain.ErrBusinessRule if the due date is in the past.
	CreateTask(ctx context.Context, t *task.Task) (*task.Task, error)

	// GetTask returns a single task by ID.
	// Returns domain.ErrNotFound if the task does not exist.
	GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error)

	// ListTasks returns the tasks matching filter.
	ListTasks(ctx context.Context, filter task.Filter) ([]task.Task, error)

	// UpdateTask replaces the mutable fields of an existing task with those
	// of changes and moves it to changes.ProjectID when that differs from
	// its current project.
	// Returns domain.ErrNotFound if the task or the target project does not exist.
	UpdateTask(ctx context.Context, id uuid.UUID, changes *task.Task) (*task.Task, error)

	// UpdateTaskStatus changes only the status of a task.
	// Returns domain.ErrNotFound if the task does not exist.
	UpdateTaskStatus(ctx context.Context, id uuid.UUID, status task.Status) (*task.Task, error)

	// DeleteTask removes a task.
	// Returns domain.ErrNotFound if the task does not exist.
	DeleteTask(ctx context.Context, id uuid.UUID) error
}
