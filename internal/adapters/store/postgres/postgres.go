// Package postgres implements the repository and transactor ports on
// PostgreSQL using pgx. Repositories pick up the transaction stored in the
// context by Transactor, so every repository call made inside
// Transactor.WithinTx shares one atomic unit of work.
package postgres

import (
	"context"
	_ "embed"
	"fmt"
	"log/slog"
	"math"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jsamuelsen11/project-task-api/internal/platform/config"
)

// System is the db.system value reported in traces, metrics and health checks.
const System = "postgresql"

// Table names.
const (
	projectTable = "project"
	taskTable    = "task"
)

//go:embed schema.sql
var schema string

// NewPool creates a pgx connection pool sized from cfg and verifies that the
// database answers a ping.
func NewPool(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	poolCfg.MaxConns = toInt32(cfg.MaxConns)
	poolCfg.MinConns = toInt32(cfg.MinConns)
	if cfg.MaxConnLifetime > 0 {
		poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// Migrate applies the embedded schema. Statements are idempotent.
func Migrate(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	logger.InfoContext(ctx, "database schema applied", slog.String("db.system", System))
	return nil
}

// HealthChecker pings the pool on each readiness probe.
type HealthChecker struct {
	pool *pgxpool.Pool
}

// NewHealthChecker returns a HealthChecker for pool.
func NewHealthChecker(pool *pgxpool.Pool) *HealthChecker {
	return &HealthChecker{pool: pool}
}

// Name identifies the database on the readiness endpoint.
func (h *HealthChecker) Name() string {
	return System
}

// HealthCheck returns nil when the database answers a ping.
func (h *HealthChecker) HealthCheck(ctx context.Context) error {
	if err := h.pool.Ping(ctx); err != nil {
		return fmt.Errorf("%s: %w", System, err)
	}
	return nil
}

// toInt32 converts a pool size to int32, clamping to [0, MaxInt32].
func toInt32(v int) int32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxInt32 {
		return math.MaxInt32
	}
	return int32(v)
}
