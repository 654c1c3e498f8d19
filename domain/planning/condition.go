// Package planning provides the domain model of the partial-order planning engine:
// conditions, operator templates and their ground instances, operator libraries,
// world states and plans.
package planning

import (
	"regexp"
	"strings"
)

// NegationMark is the canonical negation prefix of a condition.
const NegationMark = "¬"

// variablePrefix marks a template parameter reference inside a condition.
const variablePrefix = "?"

var (
	conditionPattern = regexp.MustCompile(`^\s*(¬|~)?\s*([A-Za-z][A-Za-z0-9_-]*)\s*\((.*)\)\s*$`)
	argumentPattern  = regexp.MustCompile(`^\??[A-Za-z0-9_-]+$`)
)

// Condition is an atomic predicate with ordered arguments and a polarity.
// Conditions are values: they are never mutated after construction.
type Condition struct {
	Predicate string
	Args      []string
	Negated   bool
}

// NewCondition creates a positive condition.
func NewCondition(predicate string, args ...string) Condition {
	return Condition{Predicate: predicate, Args: append([]string(nil), args...)}
}

// Not creates a negated condition.
func Not(predicate string, args ...string) Condition {
	c := NewCondition(predicate, args...)
	c.Negated = true
	return c
}

// ParseCondition parses `Predicate(arg1, arg2)` or `¬Predicate(arg1, arg2)`.
// `~` is accepted as an ASCII negation marker.
func ParseCondition(text string) (Condition, error) {
	m := conditionPattern.FindStringSubmatch(text)
	if m == nil {
		return Condition{}, &ParseError{Text: text, Reason: "expected Name(args) or ¬Name(args)"}
	}

	c := Condition{Predicate: m[2], Negated: m[1] != ""}
	inner := strings.TrimSpace(m[3])
	if inner == "" {
		return c, nil
	}

	for _, raw := range strings.Split(inner, ",") {
		arg := strings.TrimSpace(raw)
		if arg == "" {
			return Condition{}, &ParseError{Text: text, Reason: "empty argument"}
		}
		if !argumentPattern.MatchString(arg) {
			return Condition{}, &ParseError{Text: text, Reason: "invalid argument " + arg}
		}
		c.Args = append(c.Args, arg)
	}
	return c, nil
}

// MustParseCondition is like ParseCondition but panics on malformed text.
// It is intended for static tables and tests.
func MustParseCondition(text string) Condition {
	c, err := ParseCondition(text)
	if err != nil {
		panic(err)
	}
	return c
}

// ParseConditions parses a list of condition strings, failing on the first malformed entry.
func ParseConditions(texts []string) ([]Condition, error) {
	out := make([]Condition, 0, len(texts))
	for _, text := range texts {
		c, err := ParseCondition(text)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

// String renders the canonical form, e.g. `On(Robot, Floor)` or `¬Dry(Ceiling)`.
func (c Condition) String() string {
	var b strings.Builder
	if c.Negated {
		b.WriteString(NegationMark)
	}
	b.WriteString(c.Predicate)
	b.WriteByte('(')
	b.WriteString(strings.Join(c.Args, ", "))
	b.WriteByte(')')
	return b.String()
}

// Key returns the identity used for set membership.
func (c Condition) Key() string {
	return c.String()
}

// Equal reports structural equality.
func (c Condition) Equal(other Condition) bool {
	if c.Predicate != other.Predicate || c.Negated != other.Negated || len(c.Args) != len(other.Args) {
		return false
	}
	for i := range c.Args {
		if c.Args[i] != other.Args[i] {
			return false
		}
	}
	return true
}

// Negate returns the condition with the opposite polarity.
func (c Condition) Negate() Condition {
	return Condition{Predicate: c.Predicate, Args: c.Args, Negated: !c.Negated}
}

// Positive returns the asserted form of the condition.
func (c Condition) Positive() Condition {
	return Condition{Predicate: c.Predicate, Args: c.Args}
}

// Arity returns the number of arguments.
func (c Condition) Arity() int {
	return len(c.Args)
}

// IsGround reports whether no argument is a template variable.
func (c Condition) IsGround() bool {
	for _, a := range c.Args {
		if isVariable(a) {
			return false
		}
	}
	return true
}

// Variables returns the parameter names referenced by the condition, without the `?` prefix.
func (c Condition) Variables() []string {
	var vars []string
	for _, a := range c.Args {
		if isVariable(a) {
			vars = append(vars, strings.TrimPrefix(a, variablePrefix))
		}
	}
	return vars
}

// substitute replaces every bound variable with its value.
func (c Condition) substitute(b Bindings) Condition {
	out := Condition{Predicate: c.Predicate, Negated: c.Negated, Args: make([]string, len(c.Args))}
	for i, a := range c.Args {
		if isVariable(a) {
			if v, ok := b[strings.TrimPrefix(a, variablePrefix)]; ok {
				out.Args[i] = v
				continue
			}
		}
		out.Args[i] = a
	}
	return out
}

// Unify matches a template condition against a ground one, extending the bindings.
// Polarity, predicate and arity must agree; constants must be equal; a variable
// already bound must carry the same value. The input bindings are not modified.
func Unify(pattern, ground Condition, b Bindings) (Bindings, bool) {
	if pattern.Predicate != ground.Predicate || pattern.Negated != ground.Negated || len(pattern.Args) != len(ground.Args) {
		return nil, false
	}
	out := b.Clone()
	for i, a := range pattern.Args {
		g := ground.Args[i]
		if !isVariable(a) {
			if a != g {
				return nil, false
			}
			continue
		}
		name := strings.TrimPrefix(a, variablePrefix)
		if bound, ok := out[name]; ok {
			if bound != g {
				return nil, false
			}
			continue
		}
		out[name] = g
	}
	return out, true
}

func isVariable(arg string) bool {
	return strings.HasPrefix(arg, variablePrefix)
}

// ConditionStrings renders a list of conditions.
func ConditionStrings(cs []Condition) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.String()
	}
	return out
}
