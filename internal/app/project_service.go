// Package app provides application services that orchestrate use cases by
// coordinating between domain logic and infrastructure through port interfaces.
package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/jsamuelsen11/project-task-api/internal/domain"
	"github.com/jsamuelsen11/project-task-api/internal/domain/project"
	"github.com/jsamuelsen11/project-task-api/internal/ports"
)

// Compile-time check that ProjectService implements ports.ProjectService.
var _ ports.ProjectService = (*ProjectService)(nil)

// ProjectService implements ports.ProjectService. Every use case runs in a
// single transaction so that existence and uniqueness checks see the same
// state as the write that follows them.
type ProjectService struct {
	projects ports.ProjectRepository
	tx       ports.Transactor
	logger   *slog.Logger
}

// NewProjectService creates a ProjectService. A nil logger discards output.
func NewProjectService(projects ports.ProjectRepository, tx ports.Transactor, logger *slog.Logger) *ProjectService {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ProjectService{
		projects: projects,
		tx:       tx,
		logger:   logger,
	}
}

// CreateProject validates and stores a new project, returning it with its
// server-assigned fields (ID, timestamps).
func (s *ProjectService) CreateProject(ctx context.Context, p *project.Project) (*project.Project, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "creating project", slog.String("name", p.Name))

	var created *project.Project
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ensureNameAvailable(ctx, p.Name); err != nil {
			return err
		}
		if err := p.CheckDates(); err != nil {
			return err
		}

		var err error
		created, err = s.projects.Save(ctx, p)
		return err
	})
	if err != nil {
		logFailure(ctx, s.logger, "failed to create project", "CreateProject", err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "project created", slog.String("project_id", created.ID.String()))
	return created, nil
}

// GetProject returns a single project by ID.
func (s *ProjectService) GetProject(ctx context.Context, id uuid.UUID) (*project.Project, error) {
	s.logger.DebugContext(ctx, "fetching project", slog.String("project_id", id.String()))

	var found *project.Project
	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		found, err = s.projects.FindByID(ctx, id)
		return err
	})
	if err != nil {
		logFailure(ctx, s.logger, "failed to fetch project", "GetProject", err,
			slog.String("project_id", id.String()),
		)
		return nil, err
	}

	return found, nil
}

// ListProjects returns all projects.
func (s *ProjectService) ListProjects(ctx context.Context) ([]project.Project, error) {
	s.logger.DebugContext(ctx, "listing projects")

	var projects []project.Project
	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		projects, err = s.projects.FindAll(ctx)
		return err
	})
	if err != nil {
		logFailure(ctx, s.logger, "failed to list projects", "ListProjects", err)
		return nil, err
	}

	return projects, nil
}

// UpdateProject replaces the name, description and dates of an existing
// project. The uniqueness check is skipped when the name only changes case.
func (s *ProjectService) UpdateProject(ctx context.Context, id uuid.UUID, changes *project.Project) (*project.Project, error) {
	s.logger.InfoContext(ctx, "updating project", slog.String("project_id", id.String()))

	if err := changes.Validate(); err != nil {
		return nil, err
	}

	var updated *project.Project
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.projects.FindByID(ctx, id)
		if err != nil {
			return err
		}

		if !strings.EqualFold(current.Name, changes.Name) {
			if err := s.ensureNameAvailable(ctx, changes.Name); err != nil {
				return err
			}
		}
		if err := changes.CheckDates(); err != nil {
			return err
		}

		current.Replace(changes)
		updated, err = s.projects.Save(ctx, current)
		return err
	})
	if err != nil {
		logFailure(ctx, s.logger, "failed to update project", "UpdateProject", err,
			slog.String("project_id", id.String()),
		)
		return nil, err
	}

	return updated, nil
}

// DeleteProject removes a project that no task references.
func (s *ProjectService) DeleteProject(ctx context.Context, id uuid.UUID) error {
	s.logger.InfoContext(ctx, "deleting project", slog.String("project_id", id.String()))

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		found, err := s.projects.ExistsByID(ctx, id)
		if err != nil {
			return err
		}
		if !found {
			return domain.NewNotFoundError(project.Resource, id)
		}
		return s.projects.DeleteByID(ctx, id)
	})
	if err != nil {
		logFailure(ctx, s.logger, "failed to delete project", "DeleteProject", err,
			slog.String("project_id", id.String()),
		)
		return err
	}

	return nil
}

func (s *ProjectService) ensureNameAvailable(ctx context.Context, name string) error {
	taken, err := s.projects.ExistsByName(ctx, name)
	if err != nil {
		return err
	}
	if taken {
		return project.DuplicateNameError(name)
	}
	return nil
}
