// Package dbguard wraps database operations with a circuit breaker,
// OpenTelemetry tracing, and operation metrics. Both store adapters run every
// statement through a Guard so that a failing database trips one breaker and
// shows up on the readiness probe.
//
// The guard applies processing in this order:
//
//	Circuit Breaker → OTEL Span → operation
//
// Construction:
//
//	guard := dbguard.New(cfg.Database.CircuitBreaker, "postgresql", metrics, logger)
//
// Executing an operation:
//
//	err := guard.Do(ctx, "project.find_by_id", func(ctx context.Context) error {
//	    return pool.QueryRow(ctx, q, id).Scan(&p.ID, &p.Name)
//	})
package dbguard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen11/project-task-api/internal/domain"
	"github.com/jsamuelsen11/project-task-api/internal/platform/config"
	"github.com/jsamuelsen11/project-task-api/internal/platform/telemetry"
)

// Guard runs database operations behind a circuit breaker and records a
// client span and metrics for each one.
type Guard struct {
	system  string
	breaker *gobreaker.CircuitBreaker[struct{}]
	metrics *telemetry.Metrics
	logger  *slog.Logger
}

// New creates a Guard for the named database system (e.g., "postgresql").
// If metrics is nil, metric recording is skipped.
func New(cfg config.CircuitBreakerConfig, system string, metrics *telemetry.Metrics, logger *slog.Logger) *Guard {
	cb := gobreaker.NewCircuitBreaker[struct{}](gobreaker.Settings{
		Name:        system,
		MaxRequests: toUint32(cfg.HalfOpenLimit),
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return int(counts.ConsecutiveFailures) >= cfg.MaxFailures
		},
		IsSuccessful: isSuccessful,
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				slog.String("breaker", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	})

	return &Guard{
		system:  system,
		breaker: cb,
		metrics: metrics,
		logger:  logger,
	}
}

// Do executes fn through the breaker. When the breaker rejects the call the
// returned error wraps domain.ErrUnavailable; otherwise fn's error is
// returned unchanged.
func (g *Guard) Do(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	start := time.Now()

	_, err := g.breaker.Execute(func() (struct{}, error) {
		spanCtx, span := g.startSpan(ctx, operation)
		defer span.End()

		opErr := fn(spanCtx)
		finishSpan(span, opErr)
		return struct{}{}, opErr
	})

	g.recordMetrics(ctx, operation, start, err)

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return fmt.Errorf("%s %s: %w: %w", g.system, operation, domain.ErrUnavailable, err)
	}
	return err
}

// Name identifies the breaker on the readiness endpoint.
func (g *Guard) Name() string {
	return g.system + "-breaker"
}

// HealthCheck reports the breaker state without touching the database.
//
// State mapping:
//   - "closed"    — returns nil.
//   - "half-open" — returns an error describing a degraded state.
//   - "open"      — returns an error describing a failing database.
func (g *Guard) HealthCheck(_ context.Context) error {
	state := g.breaker.State()
	switch state {
	case gobreaker.StateClosed:
		return nil
	case gobreaker.StateHalfOpen:
		return fmt.Errorf("%s: degraded (circuit breaker half-open)", g.system)
	case gobreaker.StateOpen:
		return fmt.Errorf("%s: failing (circuit breaker open)", g.system)
	default:
		return fmt.Errorf("%s: unknown circuit breaker state %v", g.system, state)
	}
}

// isSuccessful keeps outcomes that say nothing about database health from
// counting toward tripping the breaker.
func isSuccessful(err error) bool {
	if err == nil {
		return true
	}
	return errors.Is(err, domain.ErrNotFound) ||
		errors.Is(err, domain.ErrConflict) ||
		errors.Is(err, domain.ErrBusinessRule) ||
		errors.Is(err, domain.ErrValidation) ||
		errors.Is(err, context.Canceled)
}

func (g *Guard) startSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	tracer := otel.GetTracerProvider().Tracer("dbguard")

	return tracer.Start(ctx, "db "+operation,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("db.system", g.system),
			attribute.String("db.operation", operation),
		),
	)
}

func finishSpan(span trace.Span, err error) {
	if err != nil && !isSuccessful(err) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// recordMetrics records operation duration and count. Metrics are recorded
// outside the breaker so that rejected calls are captured. Safe to call
// with nil metrics.
func (g *Guard) recordMetrics(ctx context.Context, operation string, start time.Time, err error) {
	if g.metrics == nil {
		return
	}

	result := "success"
	switch {
	case errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests):
		result = "circuit_open"
	case !isSuccessful(err):
		result = "error"
	}

	attrs := metric.WithAttributes(
		telemetry.AttrDBSystem.String(g.system),
		telemetry.AttrDBOperation.String(operation),
		telemetry.AttrResult.String(result),
	)

	g.metrics.DBOperationDuration.Record(ctx, time.Since(start).Seconds(), attrs)
	g.metrics.DBOperationTotal.Add(ctx, 1, attrs)
}

// toUint32 safely converts a non-negative int to uint32, clamping at the
// uint32 maximum. Negative values are treated as zero.
func toUint32(v int) uint32 {
	if v <= 0 {
		return 0
	}
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
