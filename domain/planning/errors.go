package planning

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for the planning engine.
var (
	// ErrParse indicates condition text does not match the Name(args) grammar.
	ErrParse = errors.New("malformed condition")

	// ErrDomainLoad indicates an operator table could not be loaded.
	ErrDomainLoad = errors.New("domain load failed")

	// ErrLookup indicates an unknown operator or domain name.
	ErrLookup = errors.New("not found")

	// ErrValue is the parent of all bad-input errors (bindings, state content).
	ErrValue = errors.New("invalid value")

	// ErrInvalidBindings indicates parameter bindings do not fit an operator template.
	ErrInvalidBindings = fmt.Errorf("%w: invalid bindings", ErrValue)

	// ErrInconsistentState indicates a condition set holding both polarities of a predicate.
	ErrInconsistentState = fmt.Errorf("%w: inconsistent conditions", ErrValue)

	// ErrInvalidState indicates a start state outside the domain vocabulary.
	ErrInvalidState = fmt.Errorf("%w: start state conditions are invalid", ErrValue)

	// ErrPreconditionViolation indicates an operator was applied with unmet preconditions.
	ErrPreconditionViolation = errors.New("precondition not met")

	// ErrUnreachableGoal indicates no operator establishes a needed condition.
	ErrUnreachableGoal = errors.New("unreachable goal")

	// ErrOrderingConflict indicates the ordered plan threatens one of its own causal links.
	ErrOrderingConflict = errors.New("ordering conflict")

	// ErrSearchLimitExceeded indicates the search scheduled more goals than allowed.
	ErrSearchLimitExceeded = errors.New("search limit exceeded")

	// ErrPlanExecution indicates replay of an accepted plan failed.
	ErrPlanExecution = errors.New("plan execution failed")
)

// ParseError reports malformed condition text.
type ParseError struct {
	Text   string
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrParse, e.Text, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// DomainLoadError lists every problem found while validating a domain table.
type DomainLoadError struct {
	Domain   string
	Problems []string
}

func (e *DomainLoadError) Error() string {
	if len(e.Problems) == 1 {
		return fmt.Sprintf("%s: domain %q: %s", ErrDomainLoad, e.Domain, e.Problems[0])
	}
	return fmt.Sprintf("%s: domain %q: %d problems:\n  - %s",
		ErrDomainLoad, e.Domain, len(e.Problems), strings.Join(e.Problems, "\n  - "))
}

func (e *DomainLoadError) Unwrap() error { return ErrDomainLoad }

// PreconditionError reports the first unmet precondition of an operator.
type PreconditionError struct {
	Operator  string
	Condition Condition
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s: operator %s: precondition '%s' is not met", ErrPreconditionViolation, e.Operator, e.Condition)
}

func (e *PreconditionError) Unwrap() error { return ErrPreconditionViolation }

// UnreachableGoalError names the condition no operator can establish.
type UnreachableGoalError struct {
	Goal Condition
}

func (e *UnreachableGoalError) Error() string {
	return fmt.Sprintf("%s: no operator found with postconditions matching the goal condition '%s'", ErrUnreachableGoal, e.Goal)
}

func (e *UnreachableGoalError) Unwrap() error { return ErrUnreachableGoal }

// OrderingConflictError describes a threatened causal link in an ordered plan.
// Clobberer is empty when the condition has no earlier establisher at all.
type OrderingConflictError struct {
	Condition Condition
	Consumer  string
	Clobberer string
	Reason    string
}

func (e *OrderingConflictError) Error() string {
	if e.Clobberer == "" {
		return fmt.Sprintf("%s: '%s' needed by %s: %s", ErrOrderingConflict, e.Condition, e.Consumer, e.Reason)
	}
	return fmt.Sprintf("%s: %s deletes '%s' needed by %s", ErrOrderingConflict, e.Clobberer, e.Condition, e.Consumer)
}

func (e *OrderingConflictError) Unwrap() error { return ErrOrderingConflict }

// PlanExecutionError reports a replay failure of an accepted plan.
type PlanExecutionError struct {
	Step int
	Err  error
}

func (e *PlanExecutionError) Error() string {
	return fmt.Sprintf("%s: step %d: %v", ErrPlanExecution, e.Step+1, e.Err)
}

// Unwrap exposes both the sentinel and the underlying violation.
func (e *PlanExecutionError) Unwrap() []error { return []error{ErrPlanExecution, e.Err} }

// Class separates outcomes a caller can act on from defect signals.
type Class string

const (
	// ClassRecoverable errors are normal outcomes returned to the caller.
	ClassRecoverable Class = "recoverable"
	// ClassFatal errors abort the request (or the process, for load errors).
	ClassFatal Class = "fatal"
)

// Classify returns the propagation class of an engine error.
func Classify(err error) Class {
	switch {
	case errors.Is(err, ErrDomainLoad),
		errors.Is(err, ErrOrderingConflict),
		errors.Is(err, ErrPlanExecution):
		return ClassFatal
	default:
		return ClassRecoverable
	}
}

// Kind returns a short stable name for an engine error, for logs and metrics.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPlanExecution):
		return "plan_execution"
	case errors.Is(err, ErrParse):
		return "parse"
	case errors.Is(err, ErrDomainLoad):
		return "domain_load"
	case errors.Is(err, ErrLookup):
		return "lookup"
	case errors.Is(err, ErrValue):
		return "value"
	case errors.Is(err, ErrPreconditionViolation):
		return "precondition_violation"
	case errors.Is(err, ErrUnreachableGoal):
		return "unreachable_goal"
	case errors.Is(err, ErrOrderingConflict):
		return "ordering_conflict"
	case errors.Is(err, ErrSearchLimitExceeded):
		return "search_limit_exceeded"
	default:
		return "internal"
	}
}
