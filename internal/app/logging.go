package app

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jsamuelsen11/project-task-api/internal/domain"
)

// logFailure logs a failed use case. Errors caused by the request itself
// are logged at warn level; everything else is an error.
func logFailure(ctx context.Context, logger *slog.Logger, msg, operation string, err error, attrs ...slog.Attr) {
	level := slog.LevelError
	if isClientError(err) {
		level = slog.LevelWarn
	}

	args := make([]slog.Attr, 0, len(attrs)+2)
	args = append(args, slog.String("operation", operation))
	args = append(args, attrs...)
	args = append(args, slog.Any("error", err))

	logger.LogAttrs(ctx, level, msg, args...)
}

func isClientError(err error) bool {
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, domain.ErrBusinessRule) ||
		errors.Is(err, domain.ErrConflict)
}
