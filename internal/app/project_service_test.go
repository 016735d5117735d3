package app

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/jsamuelsen11/project-task-api/internal/domain"
	"github.com/jsamuelsen11/project-task-api/internal/domain/project"
	"github.com/jsamuelsen11/project-task-api/mocks"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

// passthroughTx returns a Transactor mock that runs every unit of work
// directly on the caller's context.
func passthroughTx(t *testing.T) *mocks.MockTransactor {
	t.Helper()

	tx := mocks.NewMockTransactor(t)
	run := func(ctx context.Context, fn func(context.Context) error) error { return fn(ctx) }
	tx.EXPECT().WithinTx(mock.Anything, mock.Anything).RunAndReturn(run).Maybe()
	tx.EXPECT().WithinReadOnlyTx(mock.Anything, mock.Anything).RunAndReturn(run).Maybe()
	return tx
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func validProject() project.Project {
	return project.Project{
		ID:          uuid.MustParse("8d7f1c1e-4a53-4b8e-9a8f-3f4c2b1d0e01"),
		Name:        "Sprint 1",
		Description: "First sprint tasks",
		StartDate:   datePtr(2025, time.January, 1),
		EndDate:     datePtr(2025, time.January, 14),
		CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		UpdatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// --- NewProjectService ---

func TestNewProjectService_NilLogger(t *testing.T) {
	t.Parallel()

	svc := NewProjectService(mocks.NewMockProjectRepository(t), mocks.NewMockTransactor(t), nil)
	if svc.logger == nil {
		t.Fatal("NewProjectService(nil logger) should create a no-op logger, got nil")
	}
}

// --- CreateProject ---

func TestProjectService_CreateProject(t *testing.T) {
	t.Parallel()

	t.Run("creates valid project", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewMockProjectRepository(t)
		svc := NewProjectService(repo, passthroughTx(t), discardLogger())

		input := &project.Project{Name: "New Project", Description: "A new project"}
		created := validProject()

		repo.EXPECT().ExistsByName(mock.Anything, "New Project").Return(false, nil)
		repo.EXPECT().Save(mock.Anything, input).Return(&created, nil)

		got, err := svc.CreateProject(context.Background(), input)
		if err != nil {
			t.Fatalf("CreateProject() error = %v, want nil", err)
		}
		if got.ID != created.ID {
			t.Errorf("CreateProject().ID = %s, want %s", got.ID, created.ID)
		}
	})

	t.Run("returns validation error for nil project", func(t *testing.T) {
		t.Parallel()
		svc := NewProjectService(mocks.NewMockProjectRepository(t), mocks.NewMockTransactor(t), discardLogger())

		_, err := svc.CreateProject(context.Background(), nil)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("CreateProject(nil) error = %v, want ErrValidation", err)
		}
	})

	t.Run("returns validation error for short name", func(t *testing.T) {
		t.Parallel()
		svc := NewProjectService(mocks.NewMockProjectRepository(t), mocks.NewMockTransactor(t), discardLogger())

		_, err := svc.CreateProject(context.Background(), &project.Project{Name: "ab"})
		var verr *domain.ValidationError
		if !errors.As(err, &verr) {
			t.Fatalf("CreateProject() error = %v, want *ValidationError", err)
		}
		if _, ok := verr.Fields["name"]; !ok {
			t.Errorf("ValidationError.Fields = %v, want entry for name", verr.Fields)
		}
	})

	t.Run("rejects duplicate name before checking dates", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewMockProjectRepository(t)
		svc := NewProjectService(repo, passthroughTx(t), discardLogger())

		input := &project.Project{
			Name:      "Taken",
			StartDate: datePtr(2025, time.March, 1),
			EndDate:   datePtr(2025, time.February, 1),
		}
		repo.EXPECT().ExistsByName(mock.Anything, "Taken").Return(true, nil)

		_, err := svc.CreateProject(context.Background(), input)
		var rerr *domain.RuleError
		if !errors.As(err, &rerr) {
			t.Fatalf("CreateProject() error = %v, want *RuleError", err)
		}
		if rerr.Message == project.MsgEndBeforeStart {
			t.Errorf("CreateProject() reported date rule, want duplicate name rule first")
		}
	})

	t.Run("rejects end date before start date", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewMockProjectRepository(t)
		svc := NewProjectService(repo, passthroughTx(t), discardLogger())

		input := &project.Project{
			Name:      "Backwards",
			StartDate: datePtr(2025, time.March, 1),
			EndDate:   datePtr(2025, time.February, 1),
		}
		repo.EXPECT().ExistsByName(mock.Anything, "Backwards").Return(false, nil)

		_, err := svc.CreateProject(context.Background(), input)
		var rerr *domain.RuleError
		if !errors.As(err, &rerr) || rerr.Message != project.MsgEndBeforeStart {
			t.Errorf("CreateProject() error = %v, want %q", err, project.MsgEndBeforeStart)
		}
	})

	t.Run("returns error when repository fails", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewMockProjectRepository(t)
		svc := NewProjectService(repo, passthroughTx(t), discardLogger())

		input := &project.Project{Name: "Project"}
		repo.EXPECT().ExistsByName(mock.Anything, "Project").Return(false, nil)
		repo.EXPECT().Save(mock.Anything, input).Return(nil, domain.ErrUnavailable)

		_, err := svc.CreateProject(context.Background(), input)
		if !errors.Is(err, domain.ErrUnavailable) {
			t.Errorf("CreateProject() error = %v, want ErrUnavailable", err)
		}
	})
}

// --- GetProject ---

func TestProjectService_GetProject(t *testing.T) {
	t.Parallel()

	t.Run("returns project", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewMockProjectRepository(t)
		svc := NewProjectService(repo, passthroughTx(t), discardLogger())

		proj := validProject()
		repo.EXPECT().FindByID(mock.Anything, proj.ID).Return(&proj, nil)

		got, err := svc.GetProject(context.Background(), proj.ID)
		if err != nil {
			t.Fatalf("GetProject() error = %v, want nil", err)
		}
		if got.Name != proj.Name {
			t.Errorf("GetProject().Name = %q, want %q", got.Name, proj.Name)
		}
	})

	t.Run("returns error when project not found", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewMockProjectRepository(t)
		svc := NewProjectService(repo, passthroughTx(t), discardLogger())

		id := uuid.New()
		repo.EXPECT().FindByID(mock.Anything, id).Return(nil, domain.NewNotFoundError(project.Resource, id))

		_, err := svc.GetProject(context.Background(), id)
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("GetProject() error = %v, want ErrNotFound", err)
		}
	})
}

// --- ListProjects ---

func TestProjectService_ListProjects(t *testing.T) {
	t.Parallel()

	t.Run("returns projects on success", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewMockProjectRepository(t)
		svc := NewProjectService(repo, passthroughTx(t), discardLogger())

		want := []project.Project{
			{ID: uuid.New(), Name: "Project A"},
			{ID: uuid.New(), Name: "Project B"},
		}
		repo.EXPECT().FindAll(mock.Anything).Return(want, nil)

		got, err := svc.ListProjects(context.Background())
		if err != nil {
			t.Fatalf("ListProjects() error = %v, want nil", err)
		}
		if len(got) != 2 {
			t.Errorf("ListProjects() len = %d, want 2", len(got))
		}
	})

	t.Run("returns error when repository fails", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewMockProjectRepository(t)
		svc := NewProjectService(repo, passthroughTx(t), discardLogger())

		repo.EXPECT().FindAll(mock.Anything).Return(nil, domain.ErrUnavailable)

		_, err := svc.ListProjects(context.Background())
		if !errors.Is(err, domain.ErrUnavailable) {
			t.Errorf("ListProjects() error = %v, want ErrUnavailable", err)
		}
	})
}

// --- UpdateProject ---

func TestProjectService_UpdateProject(t *testing.T) {
	t.Parallel()

	t.Run("replaces mutable fields and keeps identity", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewMockProjectRepository(t)
		svc := NewProjectService(repo, passthroughTx(t), discardLogger())

		current := validProject()
		changes := &project.Project{ID: uuid.New(), Name: "Renamed", Description: "new"}

		repo.EXPECT().FindByID(mock.Anything, current.ID).Return(&current, nil)
		repo.EXPECT().ExistsByName(mock.Anything, "Renamed").Return(false, nil)
		repo.EXPECT().Save(mock.Anything, mock.Anything).
			RunAndReturn(func(_ context.Context, p *project.Project) (*project.Project, error) { return p, nil })

		got, err := svc.UpdateProject(context.Background(), current.ID, changes)
		if err != nil {
			t.Fatalf("UpdateProject() error = %v, want nil", err)
		}
		if got.ID != current.ID {
			t.Errorf("UpdateProject().ID = %s, want %s", got.ID, current.ID)
		}
		if got.Name != "Renamed" || got.Description != "new" {
			t.Errorf("UpdateProject() = %+v, want replaced name and description", got)
		}
		if got.StartDate != nil || got.EndDate != nil {
			t.Errorf("UpdateProject() kept dates %v/%v, want them cleared", got.StartDate, got.EndDate)
		}
	})

	t.Run("skips uniqueness check when only case changes", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewMockProjectRepository(t)
		svc := NewProjectService(repo, passthroughTx(t), discardLogger())

		current := validProject()
		changes := &project.Project{Name: "SPRINT 1"}

		repo.EXPECT().FindByID(mock.Anything, current.ID).Return(&current, nil)
		repo.EXPECT().Save(mock.Anything, mock.Anything).
			RunAndReturn(func(_ context.Context, p *project.Project) (*project.Project, error) { return p, nil })

		if _, err := svc.UpdateProject(context.Background(), current.ID, changes); err != nil {
			t.Fatalf("UpdateProject() error = %v, want nil", err)
		}
	})

	t.Run("rejects name taken by another project", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewMockProjectRepository(t)
		svc := NewProjectService(repo, passthroughTx(t), discardLogger())

		current := validProject()
		repo.EXPECT().FindByID(mock.Anything, current.ID).Return(&current, nil)
		repo.EXPECT().ExistsByName(mock.Anything, "Other").Return(true, nil)

		_, err := svc.UpdateProject(context.Background(), current.ID, &project.Project{Name: "Other"})
		if !errors.Is(err, domain.ErrBusinessRule) {
			t.Errorf("UpdateProject() error = %v, want ErrBusinessRule", err)
		}
	})

	t.Run("returns validation error for nil changes", func(t *testing.T) {
		t.Parallel()
		svc := NewProjectService(mocks.NewMockProjectRepository(t), mocks.NewMockTransactor(t), discardLogger())

		_, err := svc.UpdateProject(context.Background(), uuid.New(), nil)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("UpdateProject(nil) error = %v, want ErrValidation", err)
		}
	})

	t.Run("returns error when project not found", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewMockProjectRepository(t)
		svc := NewProjectService(repo, passthroughTx(t), discardLogger())

		id := uuid.New()
		repo.EXPECT().FindByID(mock.Anything, id).Return(nil, domain.NewNotFoundError(project.Resource, id))

		_, err := svc.UpdateProject(context.Background(), id, &project.Project{Name: "Project"})
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("UpdateProject() error = %v, want ErrNotFound", err)
		}
	})
}

// --- DeleteProject ---

func TestProjectService_DeleteProject(t *testing.T) {
	t.Parallel()

	t.Run("deletes project successfully", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewMockProjectRepository(t)
		svc := NewProjectService(repo, passthroughTx(t), discardLogger())

		id := uuid.New()
		repo.EXPECT().ExistsByID(mock.Anything, id).Return(true, nil)
		repo.EXPECT().DeleteByID(mock.Anything, id).Return(nil)

		if err := svc.DeleteProject(context.Background(), id); err != nil {
			t.Errorf("DeleteProject() error = %v, want nil", err)
		}
	})

	t.Run("returns not found without deleting", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewMockProjectRepository(t)
		svc := NewProjectService(repo, passthroughTx(t), discardLogger())

		id := uuid.New()
		repo.EXPECT().ExistsByID(mock.Anything, id).Return(false, nil)

		err := svc.DeleteProject(context.Background(), id)
		var nerr *domain.NotFoundError
		if !errors.As(err, &nerr) {
			t.Fatalf("DeleteProject() error = %v, want *NotFoundError", err)
		}
		if nerr.Resource != project.Resource || nerr.ID != id.String() {
			t.Errorf("NotFoundError = %+v, want project %s", nerr, id)
		}
	})

	t.Run("propagates conflict for referenced project", func(t *testing.T) {
		t.Parallel()
		repo := mocks.NewMockProjectRepository(t)
		svc := NewProjectService(repo, passthroughTx(t), discardLogger())

		id := uuid.New()
		repo.EXPECT().ExistsByID(mock.Anything, id).Return(true, nil)
		repo.EXPECT().DeleteByID(mock.Anything, id).Return(domain.ErrConflict)

		err := svc.DeleteProject(context.Background(), id)
		if !errors.Is(err, domain.ErrConflict) {
			t.Errorf("DeleteProject() error = %v, want ErrConflict", err)
		}
	})
}

func TestProjectService_RollsBackOnFailure(t *testing.T) {
	t.Parallel()

	repo := mocks.NewMockProjectRepository(t)
	tx := mocks.NewMockTransactor(t)
	svc := NewProjectService(repo, tx, discardLogger())

	var txErr error
	tx.EXPECT().WithinTx(mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, fn func(context.Context) error) error {
			txErr = fn(ctx)
			return txErr
		})
	repo.EXPECT().ExistsByName(mock.Anything, "Project").Return(false, nil)
	repo.EXPECT().Save(mock.Anything, mock.Anything).Return(nil, domain.ErrUnavailable)

	_, err := svc.CreateProject(context.Background(), &project.Project{Name: "Project"})
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("CreateProject() error = %v, want ErrUnavailable", err)
	}
	if !errors.Is(txErr, domain.ErrUnavailable) {
		t.Errorf("unit of work returned %v to the transactor, want ErrUnavailable", txErr)
	}
}
