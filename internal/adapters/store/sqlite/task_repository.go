package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/project-task-api/internal/adapters/store"
	"github.com/jsamuelsen11/project-task-api/internal/domain"
	"github.com/jsamuelsen11/project-task-api/internal/domain/project"
	"github.com/jsamuelsen11/project-task-api/internal/domain/task"
	"github.com/jsamuelsen11/project-task-api/internal/platform/dbguard"
	"github.com/jsamuelsen11/project-task-api/internal/ports"
)

const taskColumns = "id, title, description, status, priority, due_date, project_id, created_at, updated_at"

// Compile-time interface check.
var _ ports.TaskRepository = (*TaskRepository)(nil)

// TaskRepository implements [ports.TaskRepository] on SQLite.
type TaskRepository struct {
	db    *sql.DB
	guard *dbguard.Guard
	now   func() time.Time
}

// NewTaskRepository creates a TaskRepository.
func NewTaskRepository(db *sql.DB, guard *dbguard.Guard) *TaskRepository {
	return &TaskRepository{db: db, guard: guard, now: time.Now}
}

// Save inserts a new task or updates an existing one, including its project.
func (r *TaskRepository) Save(ctx context.Context, t *task.Task) (*task.Task, error) {
	saved := *t
	now := r.now().UTC()
	saved.UpdatedAt = now

	err := r.guard.Do(ctx, "task.save", func(ctx context.Context) error {
		db := getExecutor(ctx, r.db)

		if saved.IsNew() {
			saved.ID = uuid.New()
			saved.CreatedAt = now
			_, err := db.ExecContext(ctx, fmt.Sprintf(`
				INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			`, taskTable, taskColumns),
				saved.ID, saved.Title, saved.Description, string(saved.Status), string(saved.Priority),
				formatDate(saved.DueDate), saved.ProjectID,
				formatTimestamp(saved.CreatedAt), formatTimestamp(saved.UpdatedAt),
			)
			return mapTaskSaveError(err, &saved)
		}

		var createdAt string
		err := db.QueryRowContext(ctx, fmt.Sprintf(`
			UPDATE %s
			SET title = ?, description = ?, status = ?, priority = ?,
			    due_date = ?, project_id = ?, updated_at = ?
			WHERE id = ?
			RETURNING created_at
		`, taskTable),
			saved.Title, saved.Description, string(saved.Status), string(saved.Priority),
			formatDate(saved.DueDate), saved.ProjectID, formatTimestamp(saved.UpdatedAt), saved.ID,
		).Scan(&createdAt)
		if err != nil {
			return mapTaskSaveError(err, &saved)
		}
		saved.CreatedAt, err = parseTimestamp(createdAt)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	return &saved, nil
}

// FindByID retrieves a task by ID.
func (r *TaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	var t *task.Task
	err := r.guard.Do(ctx, "task.find_by_id", func(ctx context.Context) error {
		row := getExecutor(ctx, r.db).QueryRowContext(ctx, fmt.Sprintf(`
			SELECT %s FROM %s WHERE id = ?
		`, taskColumns, taskTable), id)

		var err error
		t, err = scanTask(row)
		if isNoRowsError(err) {
			return domain.NewNotFoundError(task.Resource, id)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return t, nil
}

// FindAll retrieves the tasks matching every clause of filter.
func (r *TaskRepository) FindAll(ctx context.Context, filter task.Filter) ([]task.Task, error) {
	q := store.BuildTaskQuery(taskTable, projectTable, filter, store.QuestionPlaceholder)

	tasks := []task.Task{}
	err := r.guard.Do(ctx, "task.find_all", func(ctx context.Context) error {
		rows, err := getExecutor(ctx, r.db).QueryContext(ctx,
			fmt.Sprintf("SELECT %s FROM %s ORDER BY t.created_at, t.id", store.Qualify("t", taskColumns), q.From),
			q.Args...,
		)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			t, err := scanTask(rows)
			if err != nil {
				return fmt.Errorf("scan task: %w", err)
			}
			tasks = append(tasks, *t)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

// ExistsByID reports whether a task with the given ID exists.
func (r *TaskRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return exists(ctx, r.db, r.guard, "task.exists_by_id", taskTable, "id = ?", id)
}

// DeleteByID removes a task.
func (r *TaskRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	err := r.guard.Do(ctx, "task.delete", func(ctx context.Context) error {
		_, err := getExecutor(ctx, r.db).ExecContext(ctx, fmt.Sprintf(`
			DELETE FROM %s WHERE id = ?
		`, taskTable), id)
		return err
	})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// mapTaskSaveError translates constraint failures on insert or update into
// domain errors.
func mapTaskSaveError(err error, t *task.Task) error {
	switch {
	case err == nil:
		return nil
	case isForeignKeyError(err):
		return domain.NewNotFoundError(project.Resource, t.ProjectID)
	case isNoRowsError(err):
		return domain.NewNotFoundError(task.Resource, t.ID)
	default:
		return err
	}
}

func scanTask(row rowScanner) (*task.Task, error) {
	var (
		t                    task.Task
		status, priority     string
		due                  sql.NullString
		createdAt, updatedAt string
	)
	err := row.Scan(&t.ID, &t.Title, &t.Description, &status, &priority, &due, &t.ProjectID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	t.Status = task.Status(status)
	t.Priority = task.Priority(priority)

	if t.DueDate, err = parseDate(due); err != nil {
		return nil, err
	}
	if t.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}
