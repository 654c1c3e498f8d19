package application

import (
	"errors"
	"testing"

	"github.com/felixgeelhaar/popsolver/domain/planning"
	"github.com/felixgeelhaar/popsolver/infrastructure/domains"
)

func robotSteps(t *testing.T, names ...string) []planning.Step {
	t.Helper()
	lib := domains.MustBuiltin(domains.Robot)
	steps := make([]planning.Step, len(names))
	for i, name := range names {
		op, err := lib.Ground(name, nil)
		if err != nil {
			t.Fatalf("Ground(%s) error = %v", name, err)
		}
		steps[i] = planning.Step{Operator: op}
	}
	return steps
}

func TestCheckOrdering(t *testing.T) {
	t.Parallel()

	start := planning.MustParseState("On(Robot, Floor)", "Dry(Ladder)")

	tests := []struct {
		name          string
		steps         []string
		wantErr       bool
		wantConsumer  string
		wantClobberer string
		wantCondition string
	}{
		{
			name:  "valid order",
			steps: []string{"climb-ladder", "paint-ceiling", "descend-ladder", "paint-ladder"},
		},
		{
			name:  "empty plan",
			steps: nil,
		},
		{
			name:          "step deletes a later precondition",
			steps:         []string{"climb-ladder", "paint-ladder"},
			wantErr:       true,
			wantConsumer:  "paint-ladder",
			wantClobberer: "climb-ladder",
			wantCondition: "On(Robot, Floor)",
		},
		{
			name:          "no establisher",
			steps:         []string{"paint-ceiling"},
			wantErr:       true,
			wantConsumer:  "paint-ceiling",
			wantCondition: "On(Robot, Ladder)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := CheckOrdering(start, robotSteps(t, tt.steps...))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("CheckOrdering() error = %v", err)
				}
				return
			}
			var oc *planning.OrderingConflictError
			if !errors.As(err, &oc) {
				t.Fatalf("CheckOrdering() error = %v, want *OrderingConflictError", err)
			}
			if !errors.Is(err, planning.ErrOrderingConflict) {
				t.Error("error does not wrap ErrOrderingConflict")
			}
			if oc.Consumer != tt.wantConsumer {
				t.Errorf("Consumer = %q, want %q", oc.Consumer, tt.wantConsumer)
			}
			if oc.Clobberer != tt.wantClobberer {
				t.Errorf("Clobberer = %q, want %q", oc.Clobberer, tt.wantClobberer)
			}
			if oc.Condition.String() != tt.wantCondition {
				t.Errorf("Condition = %s, want %s", oc.Condition, tt.wantCondition)
			}
		})
	}
}

func TestReplay(t *testing.T) {
	t.Parallel()

	start := planning.MustParseState("On(Robot, Floor)", "Dry(Ladder)")

	t.Run("records every state", func(t *testing.T) {
		t.Parallel()

		states, err := Replay(start, robotSteps(t, "climb-ladder", "paint-ceiling"))
		if err != nil {
			t.Fatalf("Replay() error = %v", err)
		}
		if len(states) != 3 {
			t.Fatalf("len(states) = %d, want 3", len(states))
		}
		if states[0] != start {
			t.Error("first state is not the start state")
		}
		if !states[1].Holds(planning.MustParseCondition("On(Robot, Ladder)")) {
			t.Errorf("after climb-ladder: %s", states[1])
		}
		if !states[2].Holds(planning.MustParseCondition("Painted(Ceiling)")) {
			t.Errorf("after paint-ceiling: %s", states[2])
		}
		if start.Holds(planning.MustParseCondition("On(Robot, Ladder)")) {
			t.Error("start state was modified")
		}
	})

	t.Run("reports the failing step", func(t *testing.T) {
		t.Parallel()

		_, err := Replay(start, robotSteps(t, "paint-ladder", "paint-ceiling"))
		var pe *planning.PlanExecutionError
		if !errors.As(err, &pe) {
			t.Fatalf("Replay() error = %v, want *PlanExecutionError", err)
		}
		if pe.Step != 1 {
			t.Errorf("Step = %d, want 1", pe.Step)
		}
		if !errors.Is(err, planning.ErrPreconditionViolation) {
			t.Error("error does not wrap the precondition violation")
		}
		if planning.Classify(err) != planning.ClassFatal {
			t.Errorf("Classify() = %s, want fatal", planning.Classify(err))
		}
	})
}
