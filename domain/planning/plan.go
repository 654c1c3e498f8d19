package planning

import (
	"strings"

	"github.com/google/uuid"
)

// Step is one ground operator of a plan together with the goal it was chosen for.
type Step struct {
	Operator    *Operator
	Establishes Condition
}

// Args returns the operator arguments.
func (s Step) Args() []string {
	return s.Operator.Args
}

// Bindings returns the parameter bindings used to ground the operator.
func (s Step) Bindings() Bindings {
	return s.Operator.Bindings
}

// String renders the operator application, e.g. `stack(A, B)`.
func (s Step) String() string {
	return s.Operator.String()
}

// Plan is an ordered sequence of ground operators reaching the goals from the start state.
// States holds the start state followed by the state after each step.
type Plan struct {
	ID     uuid.UUID
	Domain string
	Goals  []Condition
	Steps  []Step
	States []*State
}

// NewPlan creates an empty plan with a fresh ID.
func NewPlan(domain string, start *State, goals []Condition) *Plan {
	return &Plan{
		ID:     uuid.New(),
		Domain: domain,
		Goals:  append([]Condition(nil), goals...),
		States: []*State{start},
	}
}

// Start returns the state the plan begins from.
func (p *Plan) Start() *State {
	if len(p.States) == 0 {
		return nil
	}
	return p.States[0]
}

// FinalState returns the state after the last step.
func (p *Plan) FinalState() *State {
	if len(p.States) == 0 {
		return nil
	}
	return p.States[len(p.States)-1]
}

// Len returns the number of steps.
func (p *Plan) Len() int {
	return len(p.Steps)
}

// IsEmpty reports whether the goals already held at the start.
func (p *Plan) IsEmpty() bool {
	return len(p.Steps) == 0
}

// Operators returns the rendered step list, e.g. [pickup(A) stack(A, B)].
func (p *Plan) Operators() []string {
	out := make([]string, len(p.Steps))
	for i, s := range p.Steps {
		out[i] = s.String()
	}
	return out
}

// String renders the steps joined with arrows.
func (p *Plan) String() string {
	if p.IsEmpty() {
		return "(empty plan)"
	}
	return strings.Join(p.Operators(), " -> ")
}

// Phase is a stage of plan construction.
type Phase string

// Plan construction phases.
const (
	PhaseReceived  Phase = "received"
	PhaseSearching Phase = "searching"
	PhaseOrdering  Phase = "ordering"
	PhaseReplaying Phase = "replaying"
	PhaseDone      Phase = "done"
	PhaseFailed    Phase = "failed"
)

// IsTerminal reports whether no further phase can follow.
func (p Phase) IsTerminal() bool {
	return p == PhaseDone || p == PhaseFailed
}

// PhaseObserver is notified whenever the planner enters a new phase.
type PhaseObserver interface {
	OnPhase(phase Phase, goal Condition)
}

// PhaseObserverFunc adapts a function to PhaseObserver.
type PhaseObserverFunc func(phase Phase, goal Condition)

// OnPhase calls f.
func (f PhaseObserverFunc) OnPhase(phase Phase, goal Condition) { f(phase, goal) }
