package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/felixgeelhaar/popsolver/domain/planning"
)

// setupTestMetrics returns a provider backed by its own manual reader.
func setupTestMetrics(t *testing.T) (*metric.ManualReader, *MetricsProvider) {
	t.Helper()

	reader := metric.NewManualReader()
	provider := metric.NewMeterProvider(metric.WithReader(reader))
	t.Cleanup(func() { _ = provider.Shutdown(context.Background()) })

	config := DefaultMetricsConfig()
	config.MeterProvider = provider
	mp := NewMetricsProvider(config)
	if mp.Error() != nil {
		t.Fatalf("failed to create metrics provider: %v", mp.Error())
	}
	return reader, mp
}

func collect(t *testing.T, reader *metric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	out := make(map[string]metricdata.Metrics)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			out[m.Name] = m
		}
	}
	return out
}

func sumByAttr(t *testing.T, m metricdata.Metrics, key, value string) int64 {
	t.Helper()

	sum, ok := m.Data.(metricdata.Sum[int64])
	if !ok {
		t.Fatalf("%s: expected Sum[int64], got %T", m.Name, m.Data)
	}
	var total int64
	for _, dp := range sum.DataPoints {
		if v, ok := dp.Attributes.Value(attribute.Key(key)); ok && v.AsString() == value {
			total += dp.Value
		}
	}
	return total
}

func TestMetricsProvider_RecordPlan(t *testing.T) {
	t.Parallel()

	reader, mp := setupTestMetrics(t)
	ctx := context.Background()

	mp.RecordPlan(ctx, "robot", 2, 3*time.Millisecond, nil)
	mp.RecordPlan(ctx, "robot", 4, 5*time.Millisecond, nil)
	mp.RecordPlan(ctx, "robot", 0, time.Millisecond, &planning.UnreachableGoalError{Goal: planning.NewCondition("Dry", "Ladder")})

	metrics := collect(t, reader)

	plans, ok := metrics["popsolver.plans"]
	if !ok {
		t.Fatal("popsolver.plans metric not found")
	}
	if got := sumByAttr(t, plans, "outcome", OutcomeSuccess); got != 2 {
		t.Errorf("successful plans = %d, want 2", got)
	}
	if got := sumByAttr(t, plans, "outcome", OutcomeFailure); got != 1 {
		t.Errorf("failed plans = %d, want 1", got)
	}

	errs, ok := metrics["popsolver.errors"]
	if !ok {
		t.Fatal("popsolver.errors metric not found")
	}
	if got := sumByAttr(t, errs, "error.kind", "unreachable_goal"); got != 1 {
		t.Errorf("unreachable_goal errors = %d, want 1", got)
	}

	steps, ok := metrics["popsolver.plan.steps"]
	if !ok {
		t.Fatal("popsolver.plan.steps metric not found")
	}
	hist, ok := steps.Data.(metricdata.Histogram[int64])
	if !ok {
		t.Fatalf("expected Histogram[int64], got %T", steps.Data)
	}
	var count uint64
	var total int64
	for _, dp := range hist.DataPoints {
		count += dp.Count
		total += dp.Sum
	}
	if count != 2 || total != 6 {
		t.Errorf("plan.steps count=%d sum=%d, want 2 and 6", count, total)
	}

	if _, ok := metrics["popsolver.plan.duration"]; !ok {
		t.Error("popsolver.plan.duration metric not found")
	}
}

func TestMetricsProvider_RecordApply(t *testing.T) {
	t.Parallel()

	reader, mp := setupTestMetrics(t)
	ctx := context.Background()

	mp.RecordApply(ctx, "robot", "climb-ladder", nil)
	mp.RecordApply(ctx, "robot", "paint-ceiling", &planning.PreconditionError{
		Operator:  "paint-ceiling",
		Condition: planning.NewCondition("On", "Robot", "Ladder"),
	})

	metrics := collect(t, reader)

	applied, ok := metrics["popsolver.operators.applied"]
	if !ok {
		t.Fatal("popsolver.operators.applied metric not found")
	}
	if got := sumByAttr(t, applied, "domain", "robot"); got != 2 {
		t.Errorf("applications = %d, want 2", got)
	}
	if got := sumByAttr(t, metrics["popsolver.errors"], "error.class", string(planning.ClassRecoverable)); got != 1 {
		t.Errorf("recoverable errors = %d, want 1", got)
	}
}

func TestMetricsProvider_RecordErrorFatal(t *testing.T) {
	t.Parallel()

	reader, mp := setupTestMetrics(t)
	mp.RecordError(context.Background(), "create_plan", &planning.PlanExecutionError{Step: 0, Err: errors.New("boom")})

	metrics := collect(t, reader)
	if got := sumByAttr(t, metrics["popsolver.errors"], "error.class", string(planning.ClassFatal)); got != 1 {
		t.Errorf("fatal errors = %d, want 1", got)
	}
}

func TestDefaultMetricsConfig(t *testing.T) {
	t.Parallel()

	config := DefaultMetricsConfig()
	if config.MeterName != "github.com/felixgeelhaar/popsolver" {
		t.Errorf("MeterName = %s", config.MeterName)
	}
	if config.MeterProvider != nil {
		t.Error("expected nil MeterProvider by default")
	}
}

func TestNoopMetricsProvider(t *testing.T) {
	t.Parallel()

	var m Metrics = NoopMetricsProvider{}
	ctx := context.Background()
	m.RecordPlan(ctx, "robot", 1, time.Millisecond, nil)
	m.RecordApply(ctx, "robot", "climb-ladder", nil)
	m.RecordError(ctx, "create_plan", errors.New("x"))
}
