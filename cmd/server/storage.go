package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/project-task-api/internal/adapters/store/postgres"
	"github.com/jsamuelsen11/project-task-api/internal/adapters/store/sqlite"
	"github.com/jsamuelsen11/project-task-api/internal/platform/config"
	"github.com/jsamuelsen11/project-task-api/internal/platform/dbguard"
	"github.com/jsamuelsen11/project-task-api/internal/platform/telemetry"
	"github.com/jsamuelsen11/project-task-api/internal/ports"
)

// storage bundles the repository ports of the configured driver together
// with its health checkers and a function that releases the connections.
type storage struct {
	projects ports.ProjectRepository
	tasks    ports.TaskRepository
	tx       ports.Transactor
	checkers []ports.HealthChecker
	close    func()
}

// Close releases the underlying connections.
func (s *storage) Close() {
	if s.close != nil {
		s.close()
	}
}

func openStorage(
	ctx context.Context,
	cfg config.DatabaseConfig,
	metrics *telemetry.Metrics,
	logger *slog.Logger,
) (*storage, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		if cfg.Migrate {
			if err := postgres.Migrate(ctx, pool, logger); err != nil {
				pool.Close()
				return nil, err
			}
		}

		guard := dbguard.New(cfg.CircuitBreaker, postgres.System, metrics, logger)
		return &storage{
			projects: postgres.NewProjectRepository(pool, guard),
			tasks:    postgres.NewTaskRepository(pool, guard),
			tx:       postgres.NewTransactor(pool, guard, logger),
			checkers: []ports.HealthChecker{postgres.NewHealthChecker(pool), guard},
			close:    pool.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg)
		if err != nil {
			return nil, err
		}

		guard := dbguard.New(cfg.CircuitBreaker, sqlite.System, metrics, logger)
		return &storage{
			projects: sqlite.NewProjectRepository(db, guard),
			tasks:    sqlite.NewTaskRepository(db, guard),
			tx:       sqlite.NewTransactor(db, guard, logger),
			checkers: []ports.HealthChecker{sqlite.NewHealthChecker(db), guard},
			close:    func() { _ = db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}
