package logging

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/felixgeelhaar/bolt/v3"

	"github.com/felixgeelhaar/popsolver/domain/planning"
)

// testLogger creates a logger that writes to a buffer for testing
func testLogger() (*bolt.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	handler := bolt.NewJSONHandler(buf)
	logger := bolt.New(handler).SetLevel(bolt.TRACE)
	return logger, buf
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()

	if config.Level != "info" {
		t.Errorf("Level = %s, want info", config.Level)
	}
	if config.Format != "console" {
		t.Errorf("Format = %s, want console", config.Format)
	}
	if config.Output != os.Stderr {
		t.Errorf("Output = %v, want os.Stderr", config.Output)
	}
}

func TestProductionConfig(t *testing.T) {
	t.Parallel()

	config := ProductionConfig()

	if config.Format != "json" {
		t.Errorf("Format = %s, want json", config.Format)
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected bolt.Level
	}{
		{"trace", bolt.TRACE},
		{"debug", bolt.DEBUG},
		{"info", bolt.INFO},
		{"warn", bolt.WARN},
		{"WARNING", bolt.WARN},
		{"error", bolt.ERROR},
		{"unknown", bolt.INFO},
		{"", bolt.INFO},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()

			if got := parseLevel(tt.input); got != tt.expected {
				t.Errorf("parseLevel(%s) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestFields(t *testing.T) {
	t.Parallel()

	goal := planning.NewCondition("Painted", "Ceiling")
	unreachable := &planning.UnreachableGoalError{Goal: goal}

	tests := []struct {
		name  string
		field Field
		want  []string
	}{
		{"domain", Domain("robot"), []string{`"domain":"robot"`}},
		{"domain version", DomainVersion("1.0.0"), []string{`"domain_version":"1.0.0"`}},
		{"operator", Operator("stack(A, B)"), []string{`"operator":"stack(A, B)"`}},
		{"goal", Goal(goal), []string{`"goal":"Painted(Ceiling)"`}},
		{"goals", Goals(2), []string{`"goals":2`}},
		{"plan id", PlanID("p-1"), []string{`"plan_id":"p-1"`}},
		{"steps", Steps(4), []string{`"steps":4`}},
		{"phase", Phase(planning.PhaseOrdering), []string{`"phase":"ordering"`}},
		{"duration", Duration(1500 * time.Millisecond), []string{`"duration_ms":1500`}},
		{"component", Component("catalog"), []string{`"component":"catalog"`}},
		{"path", Path("/tmp/d.yaml"), []string{`"path":"/tmp/d.yaml"`}},
		{"str", Str("k", "v"), []string{`"k":"v"`}},
		{"error class", ErrorClass(unreachable), []string{`"error_class":"recoverable"`, `"error_kind":"unreachable_goal"`}},
		{"error", ErrorField(errors.New("boom")), []string{`boom`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			logger, buf := testLogger()
			tt.field(logger.Info()).Msg("test")

			for _, w := range tt.want {
				if !bytes.Contains(buf.Bytes(), []byte(w)) {
					t.Errorf("expected %s in output: %s", w, buf.String())
				}
			}
		})
	}
}

func TestNilErrorFieldsAreNoops(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()
	ErrorClass(nil)(ErrorField(nil)(logger.Info())).Msg("test")

	if bytes.Contains(buf.Bytes(), []byte(`"error"`)) || bytes.Contains(buf.Bytes(), []byte(`"error_class"`)) {
		t.Errorf("unexpected error field in output: %s", buf.String())
	}
}

func TestErrorClassFatal(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()
	err := fmt.Errorf("wrapped: %w", &planning.OrderingConflictError{Condition: planning.NewCondition("P")})
	ErrorClass(err)(logger.Error()).Msg("test")

	if !bytes.Contains(buf.Bytes(), []byte(`"error_class":"fatal"`)) {
		t.Errorf("expected fatal class in output: %s", buf.String())
	}
}

func TestNewRespectsLevel(t *testing.T) {
	t.Parallel()

	buf := &bytes.Buffer{}
	logger := New(Config{Level: "warn", Format: "json", Output: buf})

	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	if bytes.Contains(buf.Bytes(), []byte("hidden")) {
		t.Errorf("info event written at warn level: %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("shown")) {
		t.Errorf("warn event missing: %s", buf.String())
	}
}

// Tests below swap the process logger and must not run in parallel.

func TestSetLoggerAndLogEvent(t *testing.T) {
	logger, buf := testLogger()
	SetLogger(logger)
	t.Cleanup(func() { SetLogger(nil) })

	Info().
		Add(Domain("blocksworld")).
		Add(Steps(2)).
		Msg("plan created")

	out := buf.String()
	for _, w := range []string{`"domain":"blocksworld"`, `"steps":2`, `plan created`} {
		if !bytes.Contains([]byte(out), []byte(w)) {
			t.Errorf("expected %s in output: %s", w, out)
		}
	}
}

func TestGetInitializesDefault(t *testing.T) {
	SetLogger(nil)
	if Get() == nil {
		t.Fatal("Get() returned nil")
	}
}

func TestSetLevel(t *testing.T) {
	logger, buf := testLogger()
	SetLogger(logger)
	t.Cleanup(func() { SetLogger(nil) })

	SetLevel("error")
	Warn().Msg("dropped")
	Error().Msg("kept")

	if bytes.Contains(buf.Bytes(), []byte("dropped")) {
		t.Errorf("warn event written at error level: %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("kept")) {
		t.Errorf("error event missing: %s", buf.String())
	}
}

func TestNewEvent(t *testing.T) {
	t.Parallel()

	logger, buf := testLogger()
	NewEvent(logger.Debug()).Add(Component("planner")).Send()

	if !bytes.Contains(buf.Bytes(), []byte(`"component":"planner"`)) {
		t.Errorf("expected component field in output: %s", buf.String())
	}
}
