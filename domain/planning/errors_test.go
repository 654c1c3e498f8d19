package planning

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestClassifyAndKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		err   error
		class Class
		kind  string
	}{
		{"parse", &ParseError{Text: "x", Reason: "bad"}, ClassRecoverable, "parse"},
		{"domain load", &DomainLoadError{Domain: "d", Problems: []string{"p"}}, ClassFatal, "domain_load"},
		{"lookup", fmt.Errorf("%w: domain", ErrLookup), ClassRecoverable, "lookup"},
		{"bindings", fmt.Errorf("%w: x", ErrInvalidBindings), ClassRecoverable, "value"},
		{"inconsistent", ErrInconsistentState, ClassRecoverable, "value"},
		{"precondition", &PreconditionError{Operator: "a", Condition: NewCondition("P")}, ClassRecoverable, "precondition_violation"},
		{"unreachable", &UnreachableGoalError{Goal: NewCondition("P")}, ClassRecoverable, "unreachable_goal"},
		{"ordering", &OrderingConflictError{Condition: NewCondition("P")}, ClassFatal, "ordering_conflict"},
		{"search limit", fmt.Errorf("%w: 10", ErrSearchLimitExceeded), ClassRecoverable, "search_limit_exceeded"},
		{"execution", &PlanExecutionError{Step: 1, Err: &PreconditionError{Operator: "a", Condition: NewCondition("P")}}, ClassFatal, "plan_execution"},
		{"other", context.Canceled, ClassRecoverable, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Classify(tt.err); got != tt.class {
				t.Errorf("Classify() = %s, want %s", got, tt.class)
			}
			if got := Kind(tt.err); got != tt.kind {
				t.Errorf("Kind() = %s, want %s", got, tt.kind)
			}
		})
	}

	if Kind(nil) != "" {
		t.Error("Kind(nil) should be empty")
	}
}

func TestPlanExecutionError_UnwrapsBoth(t *testing.T) {
	t.Parallel()

	inner := &PreconditionError{Operator: "stack(A, B)", Condition: NewCondition("Holding", "A")}
	err := &PlanExecutionError{Step: 1, Err: inner}

	if !errors.Is(err, ErrPlanExecution) || !errors.Is(err, ErrPreconditionViolation) {
		t.Error("expected both sentinels")
	}
	if !strings.Contains(err.Error(), "step 2") {
		t.Errorf("Error() = %q, want 1-based step", err.Error())
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want string
	}{
		{&UnreachableGoalError{Goal: NewCondition("Dry", "Ladder")},
			"no operator found with postconditions matching the goal condition 'Dry(Ladder)'"},
		{&PreconditionError{Operator: "paint-ceiling", Condition: NewCondition("On", "Robot", "Ladder")},
			"precondition 'On(Robot, Ladder)' is not met"},
		{&OrderingConflictError{Condition: NewCondition("Clear", "B"), Consumer: "stack(A, B)", Clobberer: "stack(C, B)"},
			"stack(C, B) deletes 'Clear(B)' needed by stack(A, B)"},
		{&OrderingConflictError{Condition: NewCondition("P"), Consumer: "a", Reason: "no earlier step establishes it"},
			"'P()' needed by a: no earlier step establishes it"},
		{&DomainLoadError{Domain: "d", Problems: []string{"name is required"}},
			`domain "d": name is required`},
	}
	for _, tt := range tests {
		if !strings.Contains(tt.err.Error(), tt.want) {
			t.Errorf("Error() = %q, want it to contain %q", tt.err.Error(), tt.want)
		}
	}
}
