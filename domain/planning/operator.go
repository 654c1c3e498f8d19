package planning

import (
	"fmt"
	"sort"
	"strings"
)

// Bindings maps template parameter names (without `?`) to concrete arguments.
type Bindings map[string]string

// Clone returns an independent copy.
func (b Bindings) Clone() Bindings {
	out := make(Bindings, len(b))
	for k, v := range b {
		out[k] = v
	}
	return out
}

// String renders bindings in key order, e.g. `block1=A, block2=B`.
func (b Bindings) String() string {
	keys := make([]string, 0, len(b))
	for k := range b {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k + "=" + b[k]
	}
	return strings.Join(parts, ", ")
}

// Template is a named, optionally parameterized action definition.
// Conditions reference parameters as `?name`. Templates are immutable once built
// by a Library.
type Template struct {
	Name           string
	Params         []string
	Preconditions  []Condition
	Postconditions []Condition
}

// Ground substitutes concrete arguments for every parameter, producing an Operator.
// Binding keys may carry the `?` prefix.
func (t *Template) Ground(b Bindings) (*Operator, error) {
	normalized := make(Bindings, len(b))
	for k, v := range b {
		name := strings.TrimPrefix(k, variablePrefix)
		if !t.hasParam(name) {
			return nil, fmt.Errorf("%w: operator %s has no parameter %q", ErrInvalidBindings, t.Name, name)
		}
		v = strings.TrimSpace(v)
		if v == "" || isVariable(v) || !argumentPattern.MatchString(v) {
			return nil, fmt.Errorf("%w: operator %s: bad value %q for parameter %q", ErrInvalidBindings, t.Name, v, name)
		}
		normalized[name] = v
	}

	args := make([]string, len(t.Params))
	for i, p := range t.Params {
		v, ok := normalized[p]
		if !ok {
			return nil, fmt.Errorf("%w: operator %s: parameter %q is unbound", ErrInvalidBindings, t.Name, p)
		}
		args[i] = v
	}

	return &Operator{
		Name:           t.Name,
		Args:           args,
		Bindings:       normalized,
		Preconditions:  substituteAll(t.Preconditions, normalized),
		Postconditions: substituteAll(t.Postconditions, normalized),
	}, nil
}

// IsParameterized reports whether the template declares parameters.
func (t *Template) IsParameterized() bool {
	return len(t.Params) > 0
}

// Signature renders the template head, e.g. `stack(block1, block2)`.
func (t *Template) Signature() string {
	if len(t.Params) == 0 {
		return t.Name
	}
	return t.Name + "(" + strings.Join(t.Params, ", ") + ")"
}

func (t *Template) hasParam(name string) bool {
	for _, p := range t.Params {
		if p == name {
			return true
		}
	}
	return false
}

func substituteAll(cs []Condition, b Bindings) []Condition {
	out := make([]Condition, len(cs))
	for i, c := range cs {
		out[i] = c.substitute(b)
	}
	return out
}

// Operator is a ground action: every condition argument is concrete.
type Operator struct {
	Name           string
	Args           []string
	Bindings       Bindings
	Preconditions  []Condition
	Postconditions []Condition
}

// String renders the application form, e.g. `stack(A, B)` or `climb-ladder`.
func (o *Operator) String() string {
	if len(o.Args) == 0 {
		return o.Name
	}
	return o.Name + "(" + strings.Join(o.Args, ", ") + ")"
}

// Adds returns the positive postconditions.
func (o *Operator) Adds() []Condition {
	var out []Condition
	for _, c := range o.Postconditions {
		if !c.Negated {
			out = append(out, c)
		}
	}
	return out
}

// Deletes returns the positive forms of the negated postconditions.
func (o *Operator) Deletes() []Condition {
	var out []Condition
	for _, c := range o.Postconditions {
		if c.Negated {
			out = append(out, c.Positive())
		}
	}
	return out
}

// Asserts reports whether c holds after the operator applies, whatever the prior state.
// Adds win over deletes of the same predicate.
func (o *Operator) Asserts(c Condition) bool {
	if !c.Negated {
		return containsCondition(o.Adds(), c)
	}
	p := c.Positive()
	return containsCondition(o.Deletes(), p) && !containsCondition(o.Adds(), p)
}

// Denies reports whether c cannot hold after the operator applies.
func (o *Operator) Denies(c Condition) bool {
	return o.Asserts(c.Negate())
}

// Requires reports whether c is one of the operator's preconditions.
func (o *Operator) Requires(c Condition) bool {
	return containsCondition(o.Preconditions, c)
}

func containsCondition(cs []Condition, c Condition) bool {
	for _, x := range cs {
		if x.Equal(c) {
			return true
		}
	}
	return false
}

// Establishes reports whether the operator can serve as the achiever of goal g.
func (o *Operator) Establishes(g Condition) bool {
	return o.Asserts(g)
}
