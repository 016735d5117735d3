package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jsamuelsen11/project-task-api/internal/domain"
	"github.com/jsamuelsen11/project-task-api/internal/domain/project"
	"github.com/jsamuelsen11/project-task-api/internal/platform/dbguard"
	"github.com/jsamuelsen11/project-task-api/internal/ports"
)

const projectColumns = "id, name, description, start_date, end_date, created_at, updated_at"

// Compile-time interface check.
var _ ports.ProjectRepository = (*ProjectRepository)(nil)

// ProjectRepository implements [ports.ProjectRepository] on PostgreSQL.
type ProjectRepository struct {
	pool  *pgxpool.Pool
	guard *dbguard.Guard
	now   func() time.Time
}

// NewProjectRepository creates a ProjectRepository.
func NewProjectRepository(pool *pgxpool.Pool, guard *dbguard.Guard) *ProjectRepository {
	return &ProjectRepository{pool: pool, guard: guard, now: time.Now}
}

// Save inserts a new project or updates an existing one.
func (r *ProjectRepository) Save(ctx context.Context, p *project.Project) (*project.Project, error) {
	saved := *p
	now := r.now().UTC()
	saved.UpdatedAt = now

	err := r.guard.Do(ctx, "project.save", func(ctx context.Context) error {
		db := getExecutor(ctx, r.pool)

		if saved.IsNew() {
			saved.ID = uuid.New()
			saved.CreatedAt = now
			_, err := db.Exec(ctx, fmt.Sprintf(`
				INSERT INTO %s (%s)
				VALUES ($1, $2, $3, $4, $5, $6, $7)
			`, projectTable, projectColumns),
				saved.ID, saved.Name, saved.Description, saved.StartDate, saved.EndDate,
				saved.CreatedAt, saved.UpdatedAt,
			)
			return mapProjectSaveError(err, &saved)
		}

		err := db.QueryRow(ctx, fmt.Sprintf(`
			UPDATE %s
			SET name = $2, description = $3, start_date = $4, end_date = $5, updated_at = $6
			WHERE id = $1
			RETURNING created_at
		`, projectTable),
			saved.ID, saved.Name, saved.Description, saved.StartDate, saved.EndDate, saved.UpdatedAt,
		).Scan(&saved.CreatedAt)
		return mapProjectSaveError(err, &saved)
	})
	if err != nil {
		return nil, fmt.Errorf("save project: %w", err)
	}

	return &saved, nil
}

// FindByID retrieves a project by ID.
func (r *ProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	var p project.Project
	err := r.guard.Do(ctx, "project.find_by_id", func(ctx context.Context) error {
		row := getExecutor(ctx, r.pool).QueryRow(ctx, fmt.Sprintf(`
			SELECT %s FROM %s WHERE id = $1
		`, projectColumns, projectTable), id)
		if err := scanProject(row, &p); err != nil {
			if isNoRowsError(err) {
				return domain.NewNotFoundError(project.Resource, id)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return &p, nil
}

// FindAll retrieves every project ordered by name.
func (r *ProjectRepository) FindAll(ctx context.Context) ([]project.Project, error) {
	projects := []project.Project{}
	err := r.guard.Do(ctx, "project.find_all", func(ctx context.Context) error {
		rows, err := getExecutor(ctx, r.pool).Query(ctx, fmt.Sprintf(`
			SELECT %s FROM %s ORDER BY name, id
		`, projectColumns, projectTable))
		if err != nil {
			return err
		}
		defer rows.Close()

		for rows.Next() {
			var p project.Project
			if err := scanProject(rows, &p); err != nil {
				return fmt.Errorf("scan project: %w", err)
			}
			projects = append(projects, p)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

// ExistsByID reports whether a project with the given ID exists.
func (r *ProjectRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	return r.exists(ctx, "project.exists_by_id", "id = $1", id)
}

// ExistsByName reports whether a project with exactly this name exists.
func (r *ProjectRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return r.exists(ctx, "project.exists_by_name", "name = $1", name)
}

func (r *ProjectRepository) exists(ctx context.Context, op, where string, arg any) (bool, error) {
	var found bool
	err := r.guard.Do(ctx, op, func(ctx context.Context) error {
		return getExecutor(ctx, r.pool).QueryRow(ctx, fmt.Sprintf(`
			SELECT EXISTS (SELECT 1 FROM %s WHERE %s)
		`, projectTable, where), arg).Scan(&found)
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return found, nil
}

// DeleteByID removes a project. Referenced projects are rejected by the
// foreign key on task.project_id.
func (r *ProjectRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	err := r.guard.Do(ctx, "project.delete", func(ctx context.Context) error {
		_, err := getExecutor(ctx, r.pool).Exec(ctx, fmt.Sprintf(`
			DELETE FROM %s WHERE id = $1
		`, projectTable), id)
		if isForeignKeyError(err) {
			return fmt.Errorf("project %s is referenced by tasks: %w", id, domain.ErrConflict)
		}
		return err
	})
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	return nil
}

// mapProjectSaveError translates constraint failures on insert or update into
// domain errors.
func mapProjectSaveError(err error, p *project.Project) error {
	switch {
	case err == nil:
		return nil
	case isDuplicateError(err):
		return project.DuplicateNameError(p.Name)
	case isNoRowsError(err):
		return domain.NewNotFoundError(project.Resource, p.ID)
	default:
		return err
	}
}

func scanProject(row pgx.Row, p *project.Project) error {
	return row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.StartDate,
		&p.EndDate,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}
