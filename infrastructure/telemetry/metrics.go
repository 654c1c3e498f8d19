// Package telemetry provides OpenTelemetry metrics and tracing for the planning engine.
package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/felixgeelhaar/popsolver/domain/planning"
)

// Outcome values recorded on the plans counter.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// MetricsProvider provides access to metrics instruments.
type MetricsProvider struct {
	meter metric.Meter

	// Counters
	plans            metric.Int64Counter
	operatorsApplied metric.Int64Counter
	errors           metric.Int64Counter

	// Histograms
	planDuration metric.Float64Histogram
	planSteps    metric.Int64Histogram

	initErr error
}

// MetricsConfig configures the metrics provider.
type MetricsConfig struct {
	// MeterName is the name of the meter (default: "github.com/felixgeelhaar/popsolver").
	MeterName string
	// MeterVersion is the version of the meter.
	MeterVersion string
	// MeterProvider overrides the global provider when set.
	MeterProvider metric.MeterProvider
}

// DefaultMetricsConfig returns a default metrics configuration.
func DefaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		MeterName:    "github.com/felixgeelhaar/popsolver",
		MeterVersion: "1.0.0",
	}
}

// NewMetricsProvider creates a new metrics provider.
func NewMetricsProvider(config MetricsConfig) *MetricsProvider {
	if config.MeterName == "" {
		config.MeterName = DefaultMetricsConfig().MeterName
	}
	provider := config.MeterProvider
	if provider == nil {
		provider = otel.GetMeterProvider()
	}

	mp := &MetricsProvider{
		meter: provider.Meter(
			config.MeterName,
			metric.WithInstrumentationVersion(config.MeterVersion),
		),
	}
	mp.initErr = mp.initInstruments()
	return mp
}

// initInstruments initializes all metric instruments.
func (mp *MetricsProvider) initInstruments() error {
	var err error

	mp.plans, err = mp.meter.Int64Counter(
		"popsolver.plans",
		metric.WithDescription("Number of plan requests"),
		metric.WithUnit("{plan}"),
	)
	if err != nil {
		return err
	}

	mp.operatorsApplied, err = mp.meter.Int64Counter(
		"popsolver.operators.applied",
		metric.WithDescription("Number of single operator applications"),
		metric.WithUnit("{application}"),
	)
	if err != nil {
		return err
	}

	mp.errors, err = mp.meter.Int64Counter(
		"popsolver.errors",
		metric.WithDescription("Number of failed requests"),
		metric.WithUnit("{error}"),
	)
	if err != nil {
		return err
	}

	mp.planDuration, err = mp.meter.Float64Histogram(
		"popsolver.plan.duration",
		metric.WithDescription("Duration of plan construction"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	mp.planSteps, err = mp.meter.Int64Histogram(
		"popsolver.plan.steps",
		metric.WithDescription("Number of steps in constructed plans"),
		metric.WithUnit("{step}"),
	)
	return err
}

// Error returns any initialization error.
func (mp *MetricsProvider) Error() error {
	return mp.initErr
}

// RecordPlan records a completed plan request. steps is ignored on failure.
func (mp *MetricsProvider) RecordPlan(ctx context.Context, domain string, steps int, duration time.Duration, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	attrs := metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("outcome", outcome),
	)

	mp.plans.Add(ctx, 1, attrs)
	mp.planDuration.Record(ctx, float64(duration.Milliseconds()), attrs)
	if err != nil {
		mp.RecordError(ctx, "create_plan", err)
		return
	}
	mp.planSteps.Record(ctx, int64(steps), metric.WithAttributes(attribute.String("domain", domain)))
}

// RecordApply records a single operator application.
func (mp *MetricsProvider) RecordApply(ctx context.Context, domain, operator string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeFailure
	}
	mp.operatorsApplied.Add(ctx, 1, metric.WithAttributes(
		attribute.String("domain", domain),
		attribute.String("operator", operator),
		attribute.String("outcome", outcome),
	))
	if err != nil {
		mp.RecordError(ctx, "apply_operator", err)
	}
}

// RecordError records a failed request with its error class and kind.
func (mp *MetricsProvider) RecordError(ctx context.Context, operation string, err error) {
	mp.errors.Add(ctx, 1, metric.WithAttributes(
		attribute.String("operation", operation),
		attribute.String("error.class", string(planning.Classify(err))),
		attribute.String("error.kind", planning.Kind(err)),
	))
}

// NoopMetricsProvider is a no-op metrics provider for testing or when metrics are disabled.
type NoopMetricsProvider struct{}

// RecordPlan is a no-op.
func (NoopMetricsProvider) RecordPlan(context.Context, string, int, time.Duration, error) {}

// RecordApply is a no-op.
func (NoopMetricsProvider) RecordApply(context.Context, string, string, error) {}

// RecordError is a no-op.
func (NoopMetricsProvider) RecordError(context.Context, string, error) {}

// Metrics defines the interface for metrics recording.
type Metrics interface {
	RecordPlan(ctx context.Context, domain string, steps int, duration time.Duration, err error)
	RecordApply(ctx context.Context, domain, operator string, err error)
	RecordError(ctx context.Context, operation string, err error)
}

// Ensure implementations satisfy the interface.
var (
	_ Metrics = (*MetricsProvider)(nil)
	_ Metrics = NoopMetricsProvider{}
)
