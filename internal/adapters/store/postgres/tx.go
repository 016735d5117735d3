package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jsamuelsen11/project-task-api/internal/platform/dbguard"
	"github.com/jsamuelsen11/project-task-api/internal/ports"
)

// DBTX is the query surface shared by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type txKey struct{}

// getExecutor returns the transaction stored in ctx, or pool when there is none.
func getExecutor(ctx context.Context, pool *pgxpool.Pool) DBTX {
	if tx, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return tx
	}
	return pool
}

// Compile-time interface check.
var _ ports.Transactor = (*Transactor)(nil)

// Transactor implements [ports.Transactor] on a pgx pool.
type Transactor struct {
	pool   *pgxpool.Pool
	guard  *dbguard.Guard
	logger *slog.Logger
}

// NewTransactor creates a Transactor.
func NewTransactor(pool *pgxpool.Pool, guard *dbguard.Guard, logger *slog.Logger) *Transactor {
	return &Transactor{pool: pool, guard: guard, logger: logger}
}

// WithinTx runs fn in a read-write transaction.
func (t *Transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, pgx.TxOptions{AccessMode: pgx.ReadWrite}, fn)
}

// WithinReadOnlyTx runs fn in a read-only transaction.
func (t *Transactor) WithinReadOnlyTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.run(ctx, pgx.TxOptions{AccessMode: pgx.ReadOnly}, fn)
}

func (t *Transactor) run(ctx context.Context, opts pgx.TxOptions, fn func(ctx context.Context) error) error {
	// Join an enclosing transaction.
	if _, ok := ctx.Value(txKey{}).(pgx.Tx); ok {
		return fn(ctx)
	}

	var tx pgx.Tx
	err := t.guard.Do(ctx, "tx.begin", func(ctx context.Context) error {
		var err error
		tx, err = t.pool.BeginTx(ctx, opts)
		return err
	})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	// Rollback after a successful commit returns ErrTxClosed.
	defer func() {
		if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			t.logger.WarnContext(ctx, "transaction rollback failed", slog.Any("error", err))
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}

	err = t.guard.Do(ctx, "tx.commit", func(ctx context.Context) error {
		return tx.Commit(ctx)
	})
	if err != nil {
		return fmt.Errorf("commit transaction: %w", mapCommitError(err))
	}
	return nil
}
