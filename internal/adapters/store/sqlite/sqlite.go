// Package sqlite implements the repository and transactor ports on an
// embedded SQLite database. It backs the local profile and the integration
// tests; foreign keys are always enforced.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/jsamuelsen11/project-task-api/internal/platform/config"
)

// System is the db.system value reported in traces, metrics and health checks.
const System = "sqlite"

// Table names.
const (
	projectTable = "project"
	taskTable    = "task"
)

// Storage formats for date and timestamp columns. Timestamps are fixed
// width so that text ordering matches chronological ordering.
const (
	dateLayout      = time.DateOnly
	timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

//go:embed schema.sql
var schema string

// Open opens the database at cfg.URL (a file path or ":memory:") with
// foreign keys enabled and applies the schema.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", dsn(cfg.URL))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(max(cfg.MaxConns, 1))
	if cfg.URL == ":memory:" {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	}
	if cfg.MaxConnLifetime > 0 {
		db.SetConnMaxLifetime(cfg.MaxConnLifetime)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return db, nil
}

func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}

// HealthChecker pings the database on each readiness probe.
type HealthChecker struct {
	db *sql.DB
}

// NewHealthChecker returns a HealthChecker for db.
func NewHealthChecker(db *sql.DB) *HealthChecker {
	return &HealthChecker{db: db}
}

// Name identifies the database on the readiness endpoint.
func (h *HealthChecker) Name() string {
	return System
}

// HealthCheck returns nil when the database answers a ping.
func (h *HealthChecker) HealthCheck(ctx context.Context) error {
	if err := h.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%s: %w", System, err)
	}
	return nil
}

func formatDate(t *time.Time) sql.NullString {
	if t == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: t.UTC().Format(dateLayout), Valid: true}
}

func parseDate(s sql.NullString) (*time.Time, error) {
	if !s.Valid {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, s.String, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("parse date %q: %w", s.String, err)
	}
	return &t, nil
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func parseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(timestampLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, err)
	}
	return t, nil
}
