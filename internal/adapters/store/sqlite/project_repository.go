package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/project-task-api/internal/domain"
	"github.com/jsamuelsen11/project-task-api/internal/domain/project"
	"github.com/jsamuelsen11/project-task-api/internal/platform/dbguard"
	"github.com/jsamuelsen11/project-task-api/internal/ports"
)

const projectColumns = "id, name, description, start_date, end_date, created_at, updated_at"

// Compile-time interface check.
var _ ports.ProjectRepository = (*ProjectRepository)(nil)

// ProjectRepository implements [ports.ProjectRepository] on SQLite.
type ProjectRepository struct {
	db    *sql.DB
	guard *dbguard.Guard
	now   func() time.Time
}

// NewProjectRepository creates a ProjectRepository.
func NewProjectRepository(db *sql.DB, guard *dbguard.Guard) *ProjectRepository {
	return &ProjectRepository{db: db, guard: guard, now: time.Now}
}

// Save inserts a new project or updates an existing one.
func (r *ProjectRepository) Save(ctx context.Context, p *project.Project) (*project.Project, error) {
	saved := *p
	now := r.now().UTC()
	saved.UpdatedAt = now

	err := r.guard.Do(ctx, "project.save", func(ctx context.Context) error {
		db := getExecutor(ctx, r.db)

		if saved.IsNew() {
			saved.ID = uuid.New()
			saved.CreatedAt = now
			_, err := db.ExecContext(ctx, fmt.Sprintf(`
				INSERT INTO %s (%s) VALUES (?, ?, ?, ?, ?, ?, ?)
			`, projectTable, projectColumns),
				saved.ID, saved.Name, saved.Description,
				formatDate(saved.StartDate), formatDate(saved.EndDate),
				formatTimestamp(saved.CreatedAt), formatTimestamp(saved.UpdatedAt),
			)
			return mapProjectSaveError(err, &saved)
		}

		var createdAt string
		err := db.QueryRowContext(ctx, fmt.Sprintf(`
			UPDATE %s
			SET name = ?, description = ?, start_date = ?, end_date = ?, updated_at = ?
			WHERE id = ?
			RETURNING created_at
		`, projectTable),
			saved.Name, saved.Description,
			formatDate(saved.StartDate), formatDate(saved.EndDate),
			formatTimestamp(saved.UpdatedAt), saved.ID,
		).Scan(&createdAt)
		if err != nil {
			return mapProjectSaveError(err, &saved)
		}
		saved.CreatedAt, err = parseTimestamp(createdAt)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("save project: %w", err)
	}

	return &saved, nil
}

// FindByID retrieves a project by ID.
func (r *ProjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	var p *project.Project
	err := r.guard.Do(ctx, "project.find_by_id", func(ctx context.Context) error {
		row := getExecutor(ctx, r.db).QueryRowContext(ctx, fmt.Sprintf(`
			SELECT %s FROM %s WHERE id = ?
		`, projectColumns, projectTable), id)

		var err error
		p, err = scanProject(row)
		if isNoRowsError(err) {
			return domain.NewNotFoundError(project.Resource, id)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get project: %w", err)
	}
	return p, nil
}

// FindAll retrieves every project ordered by name.
func (r *ProjectRepository) FindAll(ctx context.Context) ([]project.Project, error) {
	projects := []project.Project{}
	err := r.guard.Do(ctx, "project.find_all", func(ctx context.Context) error {
		rows, err := getExecutor(ctx, r.db).QueryContext(ctx, fmt.Sprintf(`
			SELECT %s FROM %s ORDER BY name, id
		`, projectColumns, projectTable))
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			p, err := scanProject(rows)
			if err != nil {
				return fmt.Errorf("scan project: %w", err)
			}
			projects = append(projects, *p)
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
	return exists(ctx, r.db, r.guard, "project.exists_by_id", projectTable, "id = ?", id)
}

// ExistsByName reports whether a project with exactly this name exists.
func (r *ProjectRepository) ExistsByName(ctx context.Context, name string) (bool, error) {
	return exists(ctx, r.db, r.guard, "project.exists_by_name", projectTable, "name = ?", name)
}

// DeleteByID removes a project. Referenced projects are rejected by the
// foreign key on task.project_id.
func (r *ProjectRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	err := r.guard.Do(ctx, "project.delete", func(ctx context.Context) error {
		_, err := getExecutor(ctx, r.db).ExecContext(ctx, fmt.Sprintf(`
			DELETE FROM %s WHERE id = ?
		`, projectTable), id)
		if isRestrictError(err) {
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

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (*project.Project, error) {
	var (
		p                    project.Project
		start, end           sql.NullString
		createdAt, updatedAt string
	)
	if err := row.Scan(&p.ID, &p.Name, &p.Description, &start, &end, &createdAt, &updatedAt); err != nil {
		return nil, err
	}

	var err error
	if p.StartDate, err = parseDate(start); err != nil {
		return nil, err
	}
	if p.EndDate, err = parseDate(end); err != nil {
		return nil, err
	}
	if p.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func exists(ctx context.Context, db *sql.DB, guard *dbguard.Guard, op, table, where string, arg any) (bool, error) {
	var found bool
	err := guard.Do(ctx, op, func(ctx context.Context) error {
		return getExecutor(ctx, db).QueryRowContext(ctx, fmt.Sprintf(`
			SELECT EXISTS (SELECT 1 FROM %s WHERE %s)
		`, table, where), arg).Scan(&found)
	})
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return found, nil
}
