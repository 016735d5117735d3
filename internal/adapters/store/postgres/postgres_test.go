package postgres_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jsamuelsen11/project-task-api/internal/adapters/store/postgres"
	"github.com/jsamuelsen11/project-task-api/internal/domain"
	"github.com/jsamuelsen11/project-task-api/internal/domain/project"
	"github.com/jsamuelsen11/project-task-api/internal/domain/task"
	"github.com/jsamuelsen11/project-task-api/internal/platform/config"
	"github.com/jsamuelsen11/project-task-api/internal/platform/dbguard"
)

// testDatabaseURLEnv names a disposable PostgreSQL database. The tests
// truncate both tables, so never point it at real data.
const testDatabaseURLEnv = "APP_TEST_DATABASE_URL"

type testStore struct {
	pool     *pgxpool.Pool
	projects *postgres.ProjectRepository
	tasks    *postgres.TaskRepository
	tx       *postgres.Transactor
}

func newTestStore(t *testing.T) *testStore {
	t.Helper()

	url := os.Getenv(testDatabaseURLEnv)
	if url == "" {
		t.Skipf("%s not set, skipping PostgreSQL integration test", testDatabaseURLEnv)
	}

	ctx := context.Background()
	cfg := config.DatabaseConfig{
		Driver:   config.DriverPostgres,
		URL:      url,
		MaxConns: 4,
		MinConns: 1,
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       time.Minute,
			HalfOpenLimit: 1,
		},
	}
	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		t.Fatalf("NewPool() error = %v", err)
	}
	t.Cleanup(pool.Close)

	logger := slog.New(slog.DiscardHandler)
	if err := postgres.Migrate(ctx, pool, logger); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if _, err := pool.Exec(ctx, "TRUNCATE task, project"); err != nil {
		t.Fatalf("truncate tables: %v", err)
	}

	guard := dbguard.New(cfg.CircuitBreaker, postgres.System, nil, logger)
	return &testStore{
		pool:     pool,
		projects: postgres.NewProjectRepository(pool, guard),
		tasks:    postgres.NewTaskRepository(pool, guard),
		tx:       postgres.NewTransactor(pool, guard, logger),
	}
}

func dueDate() *time.Time {
	d := time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)
	return &d
}

// The PostgreSQL tests share one database, so they run sequentially.

func TestPostgres_ProjectLifecycle(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p, err := s.projects.Save(ctx, &project.Project{Name: "Platform"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	if _, err := s.projects.Save(ctx, &project.Project{Name: "Platform"}); !errors.Is(err, domain.ErrBusinessRule) {
		t.Errorf("Save(duplicate) error = %v, want ErrBusinessRule", err)
	}

	tk, err := s.tasks.Save(ctx, &task.Task{
		Title:     "Provision cluster",
		Status:    task.StatusTodo,
		Priority:  task.PriorityHigh,
		DueDate:   dueDate(),
		ProjectID: p.ID,
	})
	if err != nil {
		t.Fatalf("Save(task) error = %v", err)
	}

	if err := s.projects.DeleteByID(ctx, p.ID); !errors.Is(err, domain.ErrConflict) {
		t.Errorf("DeleteByID(referenced) error = %v, want ErrConflict", err)
	}
	if err := s.tasks.DeleteByID(ctx, tk.ID); err != nil {
		t.Fatalf("DeleteByID(task) error = %v", err)
	}
	if err := s.projects.DeleteByID(ctx, p.ID); err != nil {
		t.Fatalf("DeleteByID(project) error = %v", err)
	}
	if _, err := s.projects.FindByID(ctx, p.ID); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("FindByID(deleted) error = %v, want ErrNotFound", err)
	}
}

func TestPostgres_TaskForUnknownProject(t *testing.T) {
	s := newTestStore(t)

	_, err := s.tasks.Save(context.Background(), &task.Task{
		Title:     "Orphan task",
		Status:    task.StatusTodo,
		Priority:  task.PriorityLow,
		DueDate:   dueDate(),
		ProjectID: uuid.New(),
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Save() error = %v, want ErrNotFound", err)
	}
}

func TestPostgres_TaskFilter(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	p1, err := s.projects.Save(ctx, &project.Project{Name: "P1"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	p2, err := s.projects.Save(ctx, &project.Project{Name: "P2"})
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	seed := []struct {
		project  uuid.UUID
		status   task.Status
		priority task.Priority
	}{
		{p1.ID, task.StatusDone, task.PriorityHigh},
		{p1.ID, task.StatusTodo, task.PriorityHigh},
		{p2.ID, task.StatusDone, task.PriorityHigh},
	}
	for _, sd := range seed {
		_, err := s.tasks.Save(ctx, &task.Task{
			Title:     "Seeded task",
			Status:    sd.status,
			Priority:  sd.priority,
			DueDate:   dueDate(),
			ProjectID: sd.project,
		})
		if err != nil {
			t.Fatalf("Save(task) error = %v", err)
		}
	}

	done := task.StatusDone
	got, err := s.tasks.FindAll(ctx, task.Filter{Status: &done, ProjectID: &p1.ID})
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("FindAll() returned %d tasks, want 1", len(got))
	}
	if got[0].ProjectID != p1.ID || got[0].Status != task.StatusDone {
		t.Errorf("FindAll()[0] = %+v, want DONE task of P1", got[0])
	}

	all, err := s.tasks.FindAll(ctx, task.Filter{})
	if err != nil {
		t.Fatalf("FindAll() error = %v", err)
	}
	if len(all) != len(seed) {
		t.Errorf("FindAll(empty) returned %d tasks, want %d", len(all), len(seed))
	}
}

func TestPostgres_TransactorRollsBack(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	errAbort := errors.New("abort")

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.projects.Save(ctx, &project.Project{Name: "Rolled back"}); err != nil {
			return err
		}
		return errAbort
	})
	if !errors.Is(err, errAbort) {
		t.Fatalf("WithinTx() error = %v, want %v", err, errAbort)
	}

	found, err := s.projects.ExistsByName(ctx, "Rolled back")
	if err != nil {
		t.Fatalf("ExistsByName() error = %v", err)
	}
	if found {
		t.Error("project persisted despite rollback")
	}
}

func TestPostgres_HealthChecker(t *testing.T) {
	s := newTestStore(t)
	hc := postgres.NewHealthChecker(s.pool)

	if hc.Name() != postgres.System {
		t.Errorf("Name() = %q, want %q", hc.Name(), postgres.System)
	}
	if err := hc.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() = %v, want nil", err)
	}
}
