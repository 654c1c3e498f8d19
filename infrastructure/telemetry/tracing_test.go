package telemetry

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace/noop"
)

// Swaps the global tracer provider; must not run in parallel.
func TestSetupTracing(t *testing.T) {
	t.Cleanup(func() { otel.SetTracerProvider(noop.NewTracerProvider()) })

	var buf bytes.Buffer
	shutdown, err := SetupTracing(&buf, "popsolver", "test")
	if err != nil {
		t.Fatalf("SetupTracing() error = %v", err)
	}

	_, span := StartSpan(context.Background(), "create_plan", attribute.String("domain", "robot"))
	EndSpan(span, errors.New("unreachable"))

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{`"Name": "create_plan"`, `"robot"`, `unreachable`} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %s in exported span:\n%s", want, out)
		}
	}
}

func TestStartSpanWithoutProvider(t *testing.T) {
	t.Parallel()

	ctx, span := StartSpan(context.Background(), "apply_operator")
	if ctx == nil || span == nil {
		t.Fatal("StartSpan returned nil")
	}
	EndSpan(span, nil)
}
