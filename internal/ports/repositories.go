package ports

import (
	"context"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/project-task-api/internal/domain/project"
	"github.com/jsamuelsen11/project-task-api/internal/domain/task"
)

// ProjectRepository defines the persistence port for projects.
// Implemented by the store adapters; called by the application layer.
// Methods participate in the transaction carried by ctx, if any.
type ProjectRepository interface {
	// Save inserts the project when it has no ID (assigning one) and
	// updates it otherwise. Returns the stored entity.
	// Returns domain.ErrBusinessRule if the name is already taken.
	Save(ctx context.Context, p *project.Project) (*project.Project, error)

	// FindByID returns a single project.
	// Returns domain.ErrNotFound if the project does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error)

	// FindAll returns every project ordered by name.
	FindAll(ctx context.Context) ([]project.Project, error)

	// ExistsByID reports whether a project with the given ID is stored.
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// ExistsByName reports whether a project with exactly this name is stored.
	ExistsByName(ctx context.Context, name string) (bool, error)

	// DeleteByID removes a project.
	// Returns domain.ErrConflict if tasks still reference it.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// TaskRepository defines the persistence port for tasks.
type TaskRepository interface {
	// Save inserts the task when it has no ID (assigning one) and
	// updates it otherwise. Returns the stored entity.
	Save(ctx context.Context, t *task.Task) (*task.Task, error)

	// FindByID returns a single task.
	// Returns domain.ErrNotFound if the task does not exist.
	FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error)

	// FindAll returns the tasks matching every clause of filter.
	// A zero-value Filter returns all tasks.
	FindAll(ctx context.Context, filter task.Filter) ([]task.Task, error)

	// ExistsByID reports whether a task with the given ID is stored.
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)

	// DeleteByID removes a task.
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// Transactor runs a unit of work inside a database transaction.
// The transaction travels in the context passed to fn; repositories
// called with that context join it.
type Transactor interface {
	// WithinTx runs fn in a read-write transaction. The transaction commits
	// when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error

	// WithinReadOnlyTx runs fn in a read-only transaction.
	WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error
}
