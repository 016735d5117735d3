package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

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

// TaskRepository implements [ports.TaskRepository] on PostgreSQL.
type TaskRepository struct {
	pool  *pgxpool.Pool
	guard *dbguard.Guard
	now   func() time.Time
}

// NewTaskRepository creates a TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool, guard *dbguard.Guard) *TaskRepository {
	return &TaskRepository{pool: pool, guard: guard, now: time.Now}
}

// Save inserts a new task or updates an existing one, including its project.
func (r *TaskRepository) Save(ctx context.Context, t *task.Task) (*task.Task, error) {
	saved := *t
	now := r.now().UTC()
	saved.UpdatedAt = now

	err := r.guard.Do(ctx, "task.save", func(ctx context.Context) error {
		db := getExecutor(ctx, r.pool)

		if saved.IsNew() {
			saved.ID = uuid.New()
			saved.CreatedAt = now
			_, err := db.Exec(ctx, fmt.Sprintf(`
				INSERT INTO %s (%s)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			`, taskTable, taskColumns),
				saved.ID, saved.Title, saved.Description, string(saved.Status), string(saved.Priority),
				saved.DueDate, saved.ProjectID, saved.CreatedAt, saved.UpdatedAt,
			)
			return mapTaskSaveError(err, &saved)
		}

		err := db.QueryRow(ctx, fmt.Sprintf(`
			UPDATE %s
			SET title = $2, description = $3, status = $4, priority = $5,
			    due_date = $6, project_id = $7, updated_at = $8
			WHERE id = $1
			RETURNING created_at
		`, taskTable),
			saved.ID, saved.Title, saved.Description, string(saved.Status), string(saved.Priority),
			saved.DueDate, saved.ProjectID, saved.UpdatedAt,
		).Scan(&saved.CreatedAt)
		return mapTaskSaveError(err, &saved)
	})
	if err != nil {
		return nil, fmt.Errorf("save task: %w", err)
	}

	return &saved, nil
}

// FindByID retrieves a task by ID.
func (r *TaskRepository) FindByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	var t task.Task
	err := r.guard.Do(ctx, "task.find_by_id", func(ctx context.Context) error {
		row := getExecutor(ctx, r.pool).QueryRow(ctx, fmt.Sprintf(`
			SELECT %s FROM %s WHERE id = $1
		`, taskColumns, taskTable), id)
		if err := scanTask(row, &t); err != nil {
			if isNoRowsError(err) {
				return domain.NewNotFoundError(task.Resource, id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get task: %w", err)
	}
	return &t, nil
}

// FindAll retrieves the tasks matching every clause of filter.
func (r *TaskRepository) FindAll(ctx context.Context, filter task.Filter) ([]task.Task, error) {
	q := store.BuildTaskQuery(taskTable, projectTable, filter, store.DollarPlaceholder)

	tasks := []task.Task{}
	err := r.guard.Do(ctx, "task.find_all", func(ctx context.Context) error {
		rows, err := getExecutor(ctx, r.pool).Query(ctx,
			fmt.Sprintf("SELECT %s FROM %s ORDER BY t.created_at, t.id", store.Qualify("t", taskColumns), q.From),
			q.Args...,
		)
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var t task.Task
			if err := scanTask(rows, &t); err != nil {
				return fmt.Errorf("scan task: %w", err)
			}
			tasks = append(tasks, t)
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
	var found bool
	err := r.guard.Do(ctx, "task.exists_by_id", func(ctx context.Context) error {
		return getExecutor(ctx, r.pool).QueryRow(ctx, fmt.Sprintf(`
			SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)
		`, taskTable), id).Scan(&found)
	})
	if err != nil {
		return false, fmt.Errorf("task.exists_by_id: %w", err)
	}
	return found, nil
}

// DeleteByID removes a task.
func (r *TaskRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	err := r.guard.Do(ctx, "task.delete", func(ctx context.Context) error {
		_, err := getExecutor(ctx, r.pool).Exec(ctx, fmt.Sprintf(`
			DELETE FROM %s WHERE id = $1
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

func scanTask(row pgx.Row, t *task.Task) error {
	return row.Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Status,
		&t.Priority,
		&t.DueDate,
		&t.ProjectID,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
}
