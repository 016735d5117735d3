package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/jsamuelsen11/project-task-api/internal/domain"
)

// PostgreSQL SQLSTATE codes.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// isDuplicateError checks if error is a unique constraint violation.
func isDuplicateError(err error) bool {
	return pgErrorCode(err) == codeUniqueViolation
}

// isForeignKeyError checks if error is a foreign key violation.
func isForeignKeyError(err error) bool {
	return pgErrorCode(err) == codeForeignKeyViolation
}

// isNoRowsError checks if error is a "no rows" error.
func isNoRowsError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// mapCommitError surfaces deferred constraint failures raised at commit time.
func mapCommitError(err error) error {
	if isForeignKeyError(err) {
		return errors.Join(domain.ErrConflict, err)
	}
	return err
}
