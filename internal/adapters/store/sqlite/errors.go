package sqlite

import (
	"database/sql"
	"errors"

	"github.com/mattn/go-sqlite3"
)

func constraintCode(err error) sqlite3.ErrNoExtended {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint {
		return sqliteErr.ExtendedCode
	}
	return 0
}

// isDuplicateError checks if error is a unique constraint violation.
func isDuplicateError(err error) bool {
	return constraintCode(err) == sqlite3.ErrConstraintUnique
}

// isForeignKeyError checks if error is a foreign key violation.
func isForeignKeyError(err error) bool {
	return constraintCode(err) == sqlite3.ErrConstraintForeignKey
}

// isRestrictError checks if error is a delete blocked by a referencing row.
// SQLite reports an ON DELETE RESTRICT action as a trigger constraint, and a
// deferred or NO ACTION foreign key as a foreign key constraint.
func isRestrictError(err error) bool {
	switch constraintCode(err) {
	case sqlite3.ErrConstraintTrigger, sqlite3.ErrConstraintForeignKey:
		return true
	default:
		return false
	}
}

// isNoRowsError checks if error is a "no rows" error.
func isNoRowsError(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
