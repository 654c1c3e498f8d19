// Package statemachine provides the statekit integration for the plan lifecycle.
package statemachine

import (
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/popsolver/domain/planning"
)

// Transition is one recorded phase change.
type Transition struct {
	From planning.Phase
	To   planning.Phase
	Goal string
	At   time.Time
}

// Context carries plan request state through the state machine.
type Context struct {
	PlanID  string
	Domain  string
	Phase   planning.Phase
	Goal    string
	History []Transition
	// Segments counts how many goals have been searched.
	Segments int
}

// NewContext creates a new machine context.
func NewContext(planID, domain string) *Context {
	return &Context{
		PlanID: planID,
		Domain: domain,
		Phase:  planning.PhaseReceived,
	}
}

// State IDs as StateID type for statekit.
const (
	stateReceived  statekit.StateID = statekit.StateID(planning.PhaseReceived)
	stateSearching statekit.StateID = statekit.StateID(planning.PhaseSearching)
	stateOrdering  statekit.StateID = statekit.StateID(planning.PhaseOrdering)
	stateReplaying statekit.StateID = statekit.StateID(planning.PhaseReplaying)
	stateDone      statekit.StateID = statekit.StateID(planning.PhaseDone)
	stateFailed    statekit.StateID = statekit.StateID(planning.PhaseFailed)
)

// Event types of the plan lifecycle.
const (
	EventSearch statekit.EventType = "SEARCH"
	EventOrder  statekit.EventType = "ORDER"
	EventReplay statekit.EventType = "REPLAY"
	EventDone   statekit.EventType = "DONE"
	EventFail   statekit.EventType = "FAIL"
)

// transitions mirrors the statechart below and lets callers test an event
// before sending it.
var transitions = map[planning.Phase][]planning.Phase{
	planning.PhaseReceived:  {planning.PhaseSearching, planning.PhaseDone, planning.PhaseFailed},
	planning.PhaseSearching: {planning.PhaseOrdering, planning.PhaseFailed},
	planning.PhaseOrdering:  {planning.PhaseReplaying, planning.PhaseFailed},
	planning.PhaseReplaying: {planning.PhaseSearching, planning.PhaseDone, planning.PhaseFailed},
}

// CanTransition reports whether the lifecycle allows moving from one phase to another.
func CanTransition(from, to planning.Phase) bool {
	for _, p := range transitions[from] {
		if p == to {
			return true
		}
	}
	return false
}

// NewPlanMachine creates the plan lifecycle statechart:
// received -> searching -> ordering -> replaying -> (searching | done), any -> failed.
func NewPlanMachine() (*statekit.MachineConfig[*Context], error) {
	return statekit.NewMachine[*Context]("plan").
		WithInitial(stateReceived).
		WithContext(&Context{}).
		WithAction("enterPhase", enterPhase).
		WithAction("recordGoal", recordGoal).
		WithGuard("hasGoal", guardHasGoal).
		State(stateReceived).
			OnEntry("enterPhase").
			On(EventSearch).Target(stateSearching).Guard("hasGoal").Do("recordGoal").
			On(EventDone).Target(stateDone).Do("recordGoal").
			On(EventFail).Target(stateFailed).Do("recordGoal").
			Done().
		State(stateSearching).
			OnEntry("enterPhase").
			On(EventOrder).Target(stateOrdering).Do("recordGoal").
			On(EventFail).Target(stateFailed).Do("recordGoal").
			Done().
		State(stateOrdering).
			OnEntry("enterPhase").
			On(EventReplay).Target(stateReplaying).Do("recordGoal").
			On(EventFail).Target(stateFailed).Do("recordGoal").
			Done().
		State(stateReplaying).
			OnEntry("enterPhase").
			On(EventSearch).Target(stateSearching).Guard("hasGoal").Do("recordGoal").
			On(EventDone).Target(stateDone).Do("recordGoal").
			On(EventFail).Target(stateFailed).Do("recordGoal").
			Done().
		State(stateDone).
			Final().
			OnEntry("enterPhase").
			Done().
		State(stateFailed).
			Final().
			OnEntry("enterPhase").
			Done().
		Build()
}

// EventForPhase returns the event that moves the machine into a phase.
func EventForPhase(p planning.Phase) statekit.EventType {
	switch p {
	case planning.PhaseSearching:
		return EventSearch
	case planning.PhaseOrdering:
		return EventOrder
	case planning.PhaseReplaying:
		return EventReplay
	case planning.PhaseDone:
		return EventDone
	case planning.PhaseFailed:
		return EventFail
	default:
		return statekit.EventType(p)
	}
}

// phaseForEvent is the inverse of EventForPhase.
func phaseForEvent(t statekit.EventType) planning.Phase {
	switch t {
	case EventSearch:
		return planning.PhaseSearching
	case EventOrder:
		return planning.PhaseOrdering
	case EventReplay:
		return planning.PhaseReplaying
	case EventDone:
		return planning.PhaseDone
	case EventFail:
		return planning.PhaseFailed
	default:
		return ""
	}
}
