package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jsamuelsen11/project-task-api/internal/platform/dbguard"
	"github.com/jsamuelsen11/project-task-api/internal/ports"
)

// DBTX is the query surface shared by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type txKey struct{}

// getExecutor returns the transaction stored in ctx, or db when there is none.
func getExecutor(ctx context.Context, db *sql.DB) DBTX {
	if tx, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return tx
	}
	return db
}

// Compile-time interface check.
var _ ports.Transactor = (*Transactor)(nil)

// Transactor implements [ports.Transactor] on database/sql.
type Transactor struct {
	db     *sql.DB
	guard  *dbguard.Guard
	logger *slog.Logger
}

// NewTransactor creates a Transactor.
func NewTransactor(db *sql.DB, guard *dbguard.Guard, logger *slog.Logger) *Transactor {
	return &Transactor{db: db, guard: guard, logger: logger}
}

// WithinTx runs fn in a read-write transaction.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, &sql.TxOptions{}, fn)
}

// WithinReadOnlyTx runs fn in a read-only transaction.
func (t *Transactor) WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, &sql.TxOptions{ReadOnly: true}, fn)
}

func (t *Transactor) run(ctx context.Context, opts *sql.TxOptions, fn func(ctx context.Context) error) error {
	// Join an enclosing transaction.
	if _, ok := ctx.Value(txKey{}).(*sql.Tx); ok {
		return fn(ctx)
	}

	var tx *sql.Tx
	err := t.guard.Do(ctx, "tx.begin", func(ctx context.Context) error {
		var err error
		tx, err = t.db.BeginTx(ctx, opts)
		return err
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			t.logger.WarnContext(ctx, "transaction rollback failed", slog.Any("error", err))
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	err = t.guard.Do(ctx, "tx.commit", func(context.Context) error {
		return tx.Commit()
	})
	if err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
