package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/project-task-api/internal/domain"
	"github.com/jsamuelsen11/project-task-api/internal/domain/project"
	"github.com/jsamuelsen11/project-task-api/internal/domain/task"
	"github.com/jsamuelsen11/project-task-api/internal/ports"
)

// Compile-time check that TaskService implements ports.TaskService.
var _ ports.TaskService = (*TaskService)(nil)

// Clock returns the current time. Due dates are compared against its
// calendar date.
type Clock func() time.Time

// TaskService implements ports.TaskService.
type TaskService struct {
	tasks    ports.TaskRepository
	projects ports.ProjectRepository
	tx       ports.Transactor
	now      Clock
	logger   *slog.Logger
}

// NewTaskService creates a TaskService. A nil clock uses time.Now and a nil
// logger discards output.
func NewTaskService(
	tasks ports.TaskRepository,
	projects ports.ProjectRepository,
	tx ports.Transactor,
	now Clock,
	logger *slog.Logger,
) *TaskService {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &TaskService{
		tasks:    tasks,
		projects: projects,
		tx:       tx,
		now:      now,
		logger:   logger,
	}
}

// CreateTask validates and stores a new task under t.ProjectID.
func (s *TaskService) CreateTask(ctx context.Context, t *task.Task) (*task.Task, error) {
	if err := t.Validate(); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "creating task",
		slog.String("project_id", t.ProjectID.String()),
		slog.String("title", t.Title),
	)

	var created *task.Task
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ensureProjectExists(ctx, t.ProjectID); err != nil {
			return err
		}
		if err := t.CheckDueDate(s.now()); err != nil {
			return err
		}

		var err error
		created, err = s.tasks.Save(ctx, t)
		return err
	})
	if err != nil {
		logFailure(ctx, s.logger, "failed to create task", "CreateTask", err,
			slog.String("project_id", t.ProjectID.String()),
		)
		return nil, err
	}

	s.logger.InfoContext(ctx, "task created", slog.String("task_id", created.ID.String()))
	return created, nil
}

// GetTask returns a single task by ID.
func (s *TaskService) GetTask(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	s.logger.DebugContext(ctx, "fetching task", slog.String("task_id", id.String()))

	var found *task.Task
	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		found, err = s.tasks.FindByID(ctx, id)
		return err
	})
	if err != nil {
		logFailure(ctx, s.logger, "failed to fetch task", "GetTask", err,
			slog.String("task_id", id.String()),
		)
		return nil, err
	}

	return found, nil
}

// ListTasks returns the tasks matching every clause of filter.
func (s *TaskService) ListTasks(ctx context.Context, filter task.Filter) ([]task.Task, error) {
	s.logger.DebugContext(ctx, "listing tasks", slog.Any("filter", filter.Clauses()))

	var tasks []task.Task
	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		tasks, err = s.tasks.FindAll(ctx, filter)
		return err
	})
	if err != nil {
		logFailure(ctx, s.logger, "failed to list tasks", "ListTasks", err)
		return nil, err
	}

	return tasks, nil
}

// UpdateTask replaces the mutable fields of a task and moves it to
// changes.ProjectID when that differs from its current project.
func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, changes *task.Task) (*task.Task, error) {
	s.logger.InfoContext(ctx, "updating task", slog.String("task_id", id.String()))

	if err := changes.Validate(); err != nil {
		return nil, err
	}

	var updated *task.Task
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.tasks.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := changes.CheckDueDate(s.now()); err != nil {
			return err
		}

		if changes.ProjectID != current.ProjectID {
			if err := s.ensureProjectExists(ctx, changes.ProjectID); err != nil {
				return err
			}
			s.logger.InfoContext(ctx, "moving task to another project",
				slog.String("task_id", id.String()),
				slog.String("from_project_id", current.ProjectID.String()),
				slog.String("to_project_id", changes.ProjectID.String()),
			)
			current.ProjectID = changes.ProjectID
		}

		current.Replace(changes)
		updated, err = s.tasks.Save(ctx, current)
		return err
	})
	if err != nil {
		logFailure(ctx, s.logger, "failed to update task", "UpdateTask", err,
			slog.String("task_id", id.String()),
		)
		return nil, err
	}

	return updated, nil
}

// UpdateTaskStatus changes only the status of a task. Any transition
// between statuses is allowed.
func (s *TaskService) UpdateTaskStatus(ctx context.Context, id uuid.UUID, status task.Status) (*task.Task, error) {
	s.logger.InfoContext(ctx, "updating task status",
		slog.String("task_id", id.String()),
		slog.String("status", status.String()),
	)

	if !status.IsValid() {
		return nil, &domain.ValidationError{Fields: map[string]string{
			"status": fmt.Sprintf("invalid: %q", status),
		}}
	}

	var updated *task.Task
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.tasks.FindByID(ctx, id)
		if err != nil {
			return err
		}

		current.Status = status
		updated, err = s.tasks.Save(ctx, current)
		return err
	})
	if err != nil {
		logFailure(ctx, s.logger, "failed to update task status", "UpdateTaskStatus", err,
			slog.String("task_id", id.String()),
		)
		return nil, err
	}

	return updated, nil
}

// DeleteTask removes a task.
func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	s.logger.InfoContext(ctx, "deleting task", slog.String("task_id", id.String()))

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		found, err := s.tasks.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return domain.NewNotFoundError(task.Resource, id)
		}
		return s.tasks.DeleteByID(ctx, id)
	})
	if err != nil {
		logFailure(ctx, s.logger, "failed to delete task", "DeleteTask", err,
			slog.String("task_id", id.String()),
		)
		return err
	}

	return nil
}

func (s *TaskService) ensureProjectExists(ctx context.Context, id uuid.UUID) error {
	found, err := s.projects.ExistsByID(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return domain.NewNotFoundError(project.Resource, id)
	}
	return nil
}
