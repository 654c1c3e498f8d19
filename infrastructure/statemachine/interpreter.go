package statemachine

import (
	"fmt"
	"sync"
	"time"

	"github.com/felixgeelhaar/statekit"

	"github.com/felixgeelhaar/popsolver/domain/planning"
	"github.com/felixgeelhaar/popsolver/infrastructure/logging"
)

// Interpreter wraps the statekit interpreter and tracks one plan request.
// It implements planning.PhaseObserver.
type Interpreter struct {
	mu     sync.Mutex
	interp *statekit.Interpreter[*Context]
	ctx    *Context
}

// NewInterpreter creates a new interpreter for the plan lifecycle machine.
func NewInterpreter(machine *statekit.MachineConfig[*Context], ctx *Context) *Interpreter {
	interp := statekit.NewInterpreter(machine)
	// Update the context reference in the machine
	interp.UpdateContext(func(c **Context) {
		*c = ctx
	})
	return &Interpreter{
		interp: interp,
		ctx:    ctx,
	}
}

// NewTracker builds the lifecycle machine and a started interpreter for one plan.
func NewTracker(planID, domain string) (*Interpreter, error) {
	machine, err := NewPlanMachine()
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	i := NewInterpreter(machine, NewContext(planID, domain))
	i.Start()
	return i, nil
}

// Start initializes the interpreter and enters the initial state.
func (i *Interpreter) Start() {
	i.mu.Lock()
	defer i.mu.Unlock()

	i.interp.Start()
	i.ctx.Phase = planning.Phase(i.interp.State().Value)
}

// Stop stops the interpreter.
func (i *Interpreter) Stop() {
	i.interp.Stop()
}

// Phase returns the current phase.
func (i *Interpreter) Phase() planning.Phase {
	i.mu.Lock()
	defer i.mu.Unlock()
	return planning.Phase(i.interp.State().Value)
}

// Transition moves the machine into the target phase.
func (i *Interpreter) Transition(to planning.Phase, goal string) error {
	i.mu.Lock()
	defer i.mu.Unlock()

	from := planning.Phase(i.interp.State().Value)
	if !CanTransition(from, to) {
		return fmt.Errorf("transition from %s to %s not allowed", from, to)
	}
	if to == planning.PhaseSearching && goal == "" {
		return fmt.Errorf("transition from %s to %s requires a goal", from, to)
	}

	// Send doesn't return an error; invalid events are caught above.
	i.interp.Send(statekit.Event{
		Type:    EventForPhase(to),
		Payload: PhasePayload{Goal: goal},
	})

	now := planning.Phase(i.interp.State().Value)
	if now != to {
		return fmt.Errorf("transition from %s to %s rejected by machine", from, to)
	}
	i.ctx.Phase = now
	if to == planning.PhaseSearching {
		i.ctx.Segments++
	}
	i.ctx.History = append(i.ctx.History, Transition{
		From: from,
		To:   to,
		Goal: goal,
		At:   time.Now(),
	})
	return nil
}

// OnPhase records a planner phase change. Changes the lifecycle does not allow
// are logged and dropped.
func (i *Interpreter) OnPhase(phase planning.Phase, goal planning.Condition) {
	var g string
	if goal.Predicate != "" {
		g = goal.String()
	}
	if err := i.Transition(phase, g); err != nil {
		logging.Warn().
			Add(logging.Component("statemachine")).
			Add(logging.PlanID(i.ctx.PlanID)).
			Add(logging.ErrorField(err)).
			Msg("phase change dropped")
		return
	}
	logging.Debug().
		Add(logging.Component("statemachine")).
		Add(logging.PlanID(i.ctx.PlanID)).
		Add(logging.Domain(i.ctx.Domain)).
		Add(logging.Phase(phase)).
		Add(logging.Str("goal", g)).
		Msg("plan phase")
}

// IsTerminal returns true if the interpreter is in a terminal state.
func (i *Interpreter) IsTerminal() bool {
	return i.interp.Done()
}

// Matches checks if the current state matches the given phase.
func (i *Interpreter) Matches(p planning.Phase) bool {
	return i.interp.Matches(statekit.StateID(p))
}

// Context returns the interpreter context.
func (i *Interpreter) Context() *Context {
	return i.ctx
}

// History returns a copy of the recorded transitions.
func (i *Interpreter) History() []Transition {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]Transition(nil), i.ctx.History...)
}

// Phases returns the visited phases in order, starting with received.
func (i *Interpreter) Phases() []planning.Phase {
	h := i.History()
	out := make([]planning.Phase, 0, len(h)+1)
	out = append(out, planning.PhaseReceived)
	for _, t := range h {
		out = append(out, t.To)
	}
	return out
}

var _ planning.PhaseObserver = (*Interpreter)(nil)
