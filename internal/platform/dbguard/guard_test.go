package dbguard_test

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/jsamuelsen11/project-task-api/internal/domain"
	"github.com/jsamuelsen11/project-task-api/internal/platform/config"
	"github.com/jsamuelsen11/project-task-api/internal/platform/dbguard"
	"github.com/jsamuelsen11/project-task-api/internal/platform/telemetry"
)

var errConnRefused = errors.New("dial tcp: connection refused")

func testConfig() config.CircuitBreakerConfig {
	return config.CircuitBreakerConfig{
		MaxFailures:   3,
		Timeout:       time.Minute,
		HalfOpenLimit: 1,
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func failN(t *testing.T, g *dbguard.Guard, n int) {
	t.Helper()
	for range n {
		err := g.Do(context.Background(), "ping", func(context.Context) error { return errConnRefused })
		if !errors.Is(err, errConnRefused) {
			t.Fatalf("Do() error = %v, want %v", err, errConnRefused)
		}
	}
}

func TestDo_Success(t *testing.T) {
	t.Parallel()

	g := dbguard.New(testConfig(), "sqlite", nil, testLogger())

	called := false
	err := g.Do(context.Background(), "project.find_all", func(context.Context) error {
		called = true
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if !called {
		t.Error("Do() did not invoke the operation")
	}
}

func TestDo_PassesThroughOperationError(t *testing.T) {
	t.Parallel()

	g := dbguard.New(testConfig(), "sqlite", nil, testLogger())

	err := g.Do(context.Background(), "task.find_by_id", func(context.Context) error {
		return domain.ErrNotFound
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("Do() error = %v, want ErrNotFound", err)
	}
}

func TestDo_OpensAfterConsecutiveFailures(t *testing.T) {
	t.Parallel()

	g := dbguard.New(testConfig(), "postgresql", nil, testLogger())
	failN(t, g, 3)

	called := false
	err := g.Do(context.Background(), "ping", func(context.Context) error {
		called = true
		return nil
	})
	if called {
		t.Error("Do() invoked the operation while the breaker is open")
	}
	if !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("Do() error = %v, want ErrUnavailable", err)
	}
}

func TestDo_DomainErrorsDoNotTripBreaker(t *testing.T) {
	t.Parallel()

	g := dbguard.New(testConfig(), "postgresql", nil, testLogger())

	outcomes := []error{
		domain.ErrNotFound,
		domain.ErrConflict,
		domain.NewRuleError("duplicate"),
		context.Canceled,
		domain.ErrNotFound,
	}
	for _, want := range outcomes {
		err := g.Do(context.Background(), "op", func(context.Context) error { return want })
		if !errors.Is(err, want) {
			t.Fatalf("Do() error = %v, want %v", err, want)
		}
	}

	if err := g.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() = %v, want nil (breaker closed)", err)
	}
}

func TestHealthCheck_ReflectsBreakerState(t *testing.T) {
	t.Parallel()

	g := dbguard.New(testConfig(), "postgresql", nil, testLogger())

	if err := g.HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck() = %v, want nil before failures", err)
	}

	failN(t, g, 3)

	err := g.HealthCheck(context.Background())
	if err == nil {
		t.Fatal("HealthCheck() = nil, want error when breaker is open")
	}
	if !strings.Contains(err.Error(), "open") {
		t.Errorf("HealthCheck() = %q, want it to mention the open breaker", err)
	}
}

func TestName(t *testing.T) {
	t.Parallel()

	g := dbguard.New(testConfig(), "postgresql", nil, testLogger())
	if got := g.Name(); got != "postgresql-breaker" {
		t.Errorf("Name() = %q, want %q", got, "postgresql-breaker")
	}
}

func TestDo_RecordsMetrics(t *testing.T) {
	t.Parallel()

	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	t.Cleanup(func() { _ = mp.Shutdown(context.Background()) })

	metrics, err := telemetry.NewMetrics(mp, "dbguard-test")
	if err != nil {
		t.Fatalf("NewMetrics() error = %v", err)
	}

	g := dbguard.New(testConfig(), "sqlite", metrics, testLogger())
	_ = g.Do(context.Background(), "project.save", func(context.Context) error { return nil })
	_ = g.Do(context.Background(), "project.save", func(context.Context) error { return errConnRefused })

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("Collect() error = %v", err)
	}

	var total int64
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "db.client.operation.total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("db.client.operation.total data = %T, want Sum[int64]", m.Data)
			}
			for _, dp := range sum.DataPoints {
				total += dp.Value
			}
		}
	}
	if total != 2 {
		t.Errorf("db.client.operation.total = %d, want 2", total)
	}
}
