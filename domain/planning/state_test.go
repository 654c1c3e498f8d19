package planning

import (
	"errors"
	"reflect"
	"testing"
)

func TestNewState_Inconsistent(t *testing.T) {
	t.Parallel()

	_, err := ParseState([]string{"Dry(Ladder)", "¬Dry(Ladder)"})
	if !errors.Is(err, ErrInconsistentState) || !errors.Is(err, ErrValue) {
		t.Errorf("error = %v, want ErrInconsistentState", err)
	}

	_, err = NewState(NewCondition("On", "?x", "Table"))
	if !errors.Is(err, ErrValue) {
		t.Errorf("error = %v, want ErrValue for non-ground state", err)
	}

	_, err = ParseState([]string{"On(Robot, Floor"})
	if !errors.Is(err, ErrParse) {
		t.Errorf("error = %v, want ErrParse", err)
	}
}

func TestState_ClosedWorld(t *testing.T) {
	t.Parallel()

	s := MustParseState("On(Robot, Floor)", "¬Dry(Ceiling)")

	tests := []struct {
		cond string
		want bool
	}{
		{"On(Robot, Floor)", true},
		{"¬On(Robot, Floor)", false},
		{"On(Robot, Ladder)", false},
		{"¬On(Robot, Ladder)", true},
		{"Dry(Ceiling)", false},
		{"¬Dry(Ceiling)", true},
	}
	for _, tt := range tests {
		if got := s.Holds(MustParseCondition(tt.cond)); got != tt.want {
			t.Errorf("Holds(%s) = %v, want %v", tt.cond, got, tt.want)
		}
	}
}

func TestState_ApplyClimbLadder(t *testing.T) {
	t.Parallel()

	lib := MustNewLibrary(robotDefinition())
	start := MustParseState("On(Robot, Floor)", "Dry(Ladder)", "Dry(Ceiling)")
	before := start.Strings()

	next, err := start.Apply(mustGround(lib, "climb-ladder", nil))
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	want := MustParseState("On(Robot, Ladder)", "Dry(Ladder)", "Dry(Ceiling)")
	if !next.Equal(want) {
		t.Errorf("Apply() = %s, want %s", next, want)
	}
	// Regression: the result must differ from the start state, and the start
	// state must be left untouched.
	if next.Equal(start) {
		t.Error("Apply() returned the unmodified start state")
	}
	if !reflect.DeepEqual(start.Strings(), before) {
		t.Errorf("start mutated: %v, was %v", start.Strings(), before)
	}
}

func TestState_ApplyPreconditionViolation(t *testing.T) {
	t.Parallel()

	lib := MustNewLibrary(robotDefinition())
	start := MustParseState("On(Robot, Floor)", "Dry(Ceiling)")

	_, err := start.Apply(mustGround(lib, "paint-ceiling", nil))
	var pe *PreconditionError
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v, want *PreconditionError", err)
	}
	if pe.Condition.String() != "On(Robot, Ladder)" {
		t.Errorf("Condition = %s, want On(Robot, Ladder)", pe.Condition)
	}
	if !errors.Is(err, ErrPreconditionViolation) {
		t.Error("expected ErrPreconditionViolation")
	}
}

func TestState_DeleteBeforeAdd(t *testing.T) {
	t.Parallel()

	// Libraries reject a postcondition that is both added and deleted, so
	// build the operator directly.
	op := &Operator{
		Name:           "refresh",
		Preconditions:  []Condition{NewCondition("Lit", "Lamp")},
		Postconditions: []Condition{Not("Lit", "Lamp"), NewCondition("Lit", "Lamp")},
	}

	next, err := MustParseState("Lit(Lamp)").Apply(op)
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !next.Holds(NewCondition("Lit", "Lamp")) {
		t.Error("add must win over delete of the same condition")
	}
}

func TestState_ApplyDropsExplicitNegation(t *testing.T) {
	t.Parallel()

	lib := MustNewLibrary(robotDefinition())
	start := MustParseState("On(Robot, Ladder)", "Dry(Ladder)", "¬Painted(Ceiling)")

	next, err := start.Apply(mustGround(lib, "paint-ceiling", nil))
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if next.Has(Not("Painted", "Ceiling")) {
		t.Errorf("explicit ¬Painted(Ceiling) kept after add: %s", next)
	}
	if !next.Holds(NewCondition("Painted", "Ceiling")) {
		t.Errorf("Painted(Ceiling) missing: %s", next)
	}
}

func TestState_ApplicabilityMonotonic(t *testing.T) {
	t.Parallel()

	lib := MustNewLibrary(blocksDefinition())
	small := MustParseState("On(A, Table)", "Clear(A)")
	large := MustParseState("On(A, Table)", "Clear(A)", "On(B, Table)", "Clear(B)")
	objects := []string{"A", "B"}

	for _, t0 := range lib.Templates() {
		for _, b := range Groundings(t0, nil, objects) {
			op, err := t0.Ground(b)
			if err != nil {
				t.Fatalf("Ground() error = %v", err)
			}
			// Monotonicity holds for operators with positive preconditions only.
			if small.IsApplicable(op) && !large.IsApplicable(op) {
				t.Errorf("%s applicable in subset state but not in superset", op)
			}
		}
	}
}

func TestState_Applicable(t *testing.T) {
	t.Parallel()

	lib := MustNewLibrary(blocksDefinition())
	s := MustParseState("On(A, Table)", "On(B, Table)", "Clear(A)", "Clear(B)")

	var got []string
	for _, op := range s.Applicable(lib, lib.Objects(s.Conditions())) {
		got = append(got, op.String())
	}
	want := []string{"pickup(A)", "pickup(B)"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Applicable() = %v, want %v", got, want)
	}
}

func TestState_Matches(t *testing.T) {
	t.Parallel()

	s := MustParseState("On(A, B)", "Clear(A)")
	if !s.Matches([]Condition{NewCondition("On", "A", "B")}) {
		t.Error("expected goal to match")
	}
	if !s.Matches(nil) {
		t.Error("empty goal list always matches")
	}
	if s.Matches([]Condition{NewCondition("On", "A", "B"), NewCondition("Clear", "B")}) {
		t.Error("unexpected match")
	}
}

func TestState_OrderAndClone(t *testing.T) {
	t.Parallel()

	s := MustParseState("C()", "A()", "B()", "A()")
	if got := s.Strings(); !reflect.DeepEqual(got, []string{"C()", "A()", "B()"}) {
		t.Errorf("Strings() = %v", got)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
	if s.String() != "C() ^ A() ^ B()" {
		t.Errorf("String() = %q", s.String())
	}

	c := s.Clone()
	c.remove(NewCondition("A"))
	if !s.Has(NewCondition("A")) || c.Has(NewCondition("A")) {
		t.Error("Clone must be independent")
	}
	if s.Equal(c) {
		t.Error("states with different members must not be equal")
	}
}

func TestGroundings(t *testing.T) {
	t.Parallel()

	lib := MustNewLibrary(blocksDefinition())
	stack, _ := lib.Lookup("stack")

	all := Groundings(stack, nil, []string{"A", "B", "C"})
	if len(all) != 6 {
		t.Errorf("len = %d, want 6 distinct pairs", len(all))
	}
	if all[0].String() != "block1=A, block2=B" {
		t.Errorf("first grounding = %v", all[0])
	}

	fixed := Groundings(stack, Bindings{"block1": "B"}, []string{"A", "B", "C"})
	if len(fixed) != 2 {
		t.Errorf("len = %d, want 2", len(fixed))
	}
	for _, b := range fixed {
		if b["block1"] != "B" || b["block2"] == "B" {
			t.Errorf("unexpected grounding %v", b)
		}
	}
}
