package planning

import (
	"fmt"
	"strings"
)

// State is the set of conditions currently true in one planning instance.
//
// Invariant: a State never holds both polarities of the same grounded predicate.
// Reads follow the closed-world assumption: ¬P holds whenever P is absent.
// States are not shared between requests; Apply returns a new State.
type State struct {
	order []string
	set   map[string]Condition
}

// NewState builds a consistent state from ground conditions.
func NewState(cs ...Condition) (*State, error) {
	s := &State{set: make(map[string]Condition, len(cs))}
	for _, c := range cs {
		if !c.IsGround() {
			return nil, fmt.Errorf("%w: state condition %s is not ground", ErrValue, c)
		}
		if _, clash := s.set[c.Negate().Key()]; clash {
			return nil, fmt.Errorf("%w: both %s and %s", ErrInconsistentState, c.Positive(), c.Positive().Negate())
		}
		s.insert(c)
	}
	return s, nil
}

// ParseState parses condition strings into a state.
func ParseState(texts []string) (*State, error) {
	cs, err := ParseConditions(texts)
	if err != nil {
		return nil, err
	}
	return NewState(cs...)
}

// MustParseState is like ParseState but panics on error. Intended for tests.
func MustParseState(texts ...string) *State {
	s, err := ParseState(texts)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *State) insert(c Condition) {
	k := c.Key()
	if _, ok := s.set[k]; ok {
		return
	}
	s.set[k] = c
	s.order = append(s.order, k)
}

func (s *State) remove(c Condition) {
	k := c.Key()
	if _, ok := s.set[k]; !ok {
		return
	}
	delete(s.set, k)
	for i, o := range s.order {
		if o == k {
			s.order = append(s.order[:i:i], s.order[i+1:]...)
			break
		}
	}
}

// Has reports literal membership.
func (s *State) Has(c Condition) bool {
	_, ok := s.set[c.Key()]
	return ok
}

// Holds reports whether the condition is true in the state.
func (s *State) Holds(c Condition) bool {
	if c.Negated {
		return !s.Has(c.Positive())
	}
	return s.Has(c)
}

// Unmet returns the first precondition of op that does not hold, if any.
func (s *State) Unmet(op *Operator) (Condition, bool) {
	for _, c := range op.Preconditions {
		if !s.Holds(c) {
			return c, true
		}
	}
	return Condition{}, false
}

// IsApplicable reports whether every precondition of the ground operator holds.
func (s *State) IsApplicable(op *Operator) bool {
	_, unmet := s.Unmet(op)
	return !unmet
}

// Apply returns the state produced by op. Deletes are applied before adds,
// so an add is never clobbered by a delete of the same predicate.
// The receiver is left unchanged.
func (s *State) Apply(op *Operator) (*State, error) {
	if c, unmet := s.Unmet(op); unmet {
		return nil, &PreconditionError{Operator: op.String(), Condition: c}
	}

	next := s.Clone()
	for _, c := range op.Deletes() {
		next.remove(c)
	}
	for _, c := range op.Adds() {
		next.remove(c.Negate())
		next.insert(c)
	}
	return next, nil
}

// Matches reports whether every goal condition holds.
func (s *State) Matches(goals []Condition) bool {
	for _, g := range goals {
		if !s.Holds(g) {
			return false
		}
	}
	return true
}

// Applicable lists ground operators of lib whose preconditions hold now.
// Parameterized templates are grounded over objects with distinct values per parameter.
func (s *State) Applicable(lib *Library, objects []string) []*Operator {
	var out []*Operator
	for _, t := range lib.Templates() {
		for _, b := range Groundings(t, nil, objects) {
			op, err := t.Ground(b)
			if err != nil {
				continue
			}
			if s.IsApplicable(op) {
				out = append(out, op)
			}
		}
	}
	return out
}

// Conditions returns the members in insertion order.
func (s *State) Conditions() []Condition {
	out := make([]Condition, len(s.order))
	for i, k := range s.order {
		out[i] = s.set[k]
	}
	return out
}

// Strings returns the members rendered in insertion order.
func (s *State) Strings() []string {
	return ConditionStrings(s.Conditions())
}

// Objects returns every argument mentioned in the state, in first-appearance order.
func (s *State) Objects() []string {
	return Objects(s.Conditions())
}

// Len returns the number of members.
func (s *State) Len() int {
	return len(s.order)
}

// Clone returns an independent copy.
func (s *State) Clone() *State {
	c := &State{
		order: append([]string(nil), s.order...),
		set:   make(map[string]Condition, len(s.set)),
	}
	for k, v := range s.set {
		c.set[k] = v
	}
	return c
}

// Equal reports whether both states hold exactly the same members.
func (s *State) Equal(other *State) bool {
	if other == nil || len(s.set) != len(other.set) {
		return false
	}
	for k := range s.set {
		if _, ok := other.set[k]; !ok {
			return false
		}
	}
	return true
}

// String renders the state as `A ^ B ^ C`.
func (s *State) String() string {
	return strings.Join(s.Strings(), " ^ ")
}

// Objects collects condition arguments in first-appearance order.
func Objects(cs []Condition) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range cs {
		for _, a := range c.Args {
			if isVariable(a) || seen[a] {
				continue
			}
			seen[a] = true
			out = append(out, a)
		}
	}
	return out
}

// Groundings enumerates complete bindings of t's parameters that extend fixed.
// Unbound parameters range over objects; all parameters take distinct values.
// Enumeration order follows parameter order, then object order.
func Groundings(t *Template, fixed Bindings, objects []string) []Bindings {
	used := make(map[string]bool, len(fixed))
	for _, v := range fixed {
		used[v] = true
	}
	if len(used) != len(fixed) {
		return nil
	}

	var free []string
	for _, p := range t.Params {
		if _, ok := fixed[p]; !ok {
			free = append(free, p)
		}
	}

	var out []Bindings
	var walk func(i int, b Bindings)
	walk = func(i int, b Bindings) {
		if i == len(free) {
			out = append(out, b.Clone())
			return
		}
		for _, o := range objects {
			if used[o] {
				continue
			}
			used[o] = true
			b[free[i]] = o
			walk(i+1, b)
			delete(b, free[i])
			used[o] = false
		}
	}
	walk(0, fixed.Clone())
	return out
}
