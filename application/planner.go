package application

import (
	"context"
	"fmt"

	"github.com/felixgeelhaar/popsolver/domain/planning"
)

// DefaultMaxGoals bounds how many goals one search may schedule.
const DefaultMaxGoals = 1000

// Planner performs backward-chaining plan search over one operator library.
// A Planner is cheap to build; callers create one per request.
type Planner struct {
	library     *planning.Library
	maxGoals    int
	observer    planning.PhaseObserver
	fewestUnmet bool
}

// PlannerOption configures a Planner.
type PlannerOption func(*Planner)

// WithMaxGoals sets the search limit. Non-positive values keep the default.
func WithMaxGoals(n int) PlannerOption {
	return func(p *Planner) {
		if n > 0 {
			p.maxGoals = n
		}
	}
}

// WithPhaseObserver registers an observer for phase changes.
func WithPhaseObserver(o planning.PhaseObserver) PlannerOption {
	return func(p *Planner) {
		p.observer = o
	}
}

// WithFewestUnmetFirst prefers, among the candidates for a goal, the operator
// with the fewest preconditions unmet in the segment start state. Without it
// the first candidate in declaration order wins.
func WithFewestUnmetFirst() PlannerOption {
	return func(p *Planner) {
		p.fewestUnmet = true
	}
}

// NewPlanner creates a planner for the given library.
func NewPlanner(lib *planning.Library, opts ...PlannerOption) *Planner {
	p := &Planner{
		library:  lib,
		maxGoals: DefaultMaxGoals,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// causalStep is a step in discovery order with the index of the step whose
// precondition it serves (-1 for the top-level goal).
type causalStep struct {
	step      planning.Step
	requester int
}

type openGoal struct {
	goal      planning.Condition
	requester int
}

// BuildPlan finds an ordered operator sequence transforming start into a state
// where every goal holds.
//
// Goals are regressed one at a time in list order. Each goal's chain is searched
// against the state left by the chains before it, ordered, checked for threatened
// causal links, and replayed before the next goal is considered.
func (p *Planner) BuildPlan(ctx context.Context, start *planning.State, goals []planning.Condition) (plan *planning.Plan, err error) {
	defer func() {
		if err != nil {
			p.observe(planning.PhaseFailed, planning.Condition{})
		}
	}()

	plan = planning.NewPlan(p.library.Name(), start, goals)
	objects := p.library.Objects(append(start.Conditions(), goals...))

	scheduled := 0
	current := start
	for _, goal := range goals {
		if current.Holds(goal) {
			continue
		}

		p.observe(planning.PhaseSearching, goal)
		discovered, err := p.search(ctx, current, goal, objects, &scheduled)
		if err != nil {
			return nil, err
		}

		steps := executionOrder(discovered)

		p.observe(planning.PhaseOrdering, goal)
		if err := CheckOrdering(current, steps); err != nil {
			return nil, err
		}

		p.observe(planning.PhaseReplaying, goal)
		states, err := Replay(current, steps)
		if err != nil {
			return nil, err
		}

		plan.Steps = append(plan.Steps, steps...)
		plan.States = append(plan.States, states[1:]...)
		current = states[len(states)-1]
	}

	for _, g := range goals {
		if !current.Holds(g) {
			return nil, &planning.OrderingConflictError{
				Condition: g,
				Consumer:  "goal",
				Reason:    "undone by the steps planned for a later goal",
			}
		}
	}

	p.observe(planning.PhaseDone, planning.Condition{})
	return plan, nil
}

// search regresses one goal against the segment start state and returns the
// chosen steps in discovery order.
func (p *Planner) search(ctx context.Context, start *planning.State, goal planning.Condition, objects []string, scheduled *int) ([]causalStep, error) {
	var discovered []causalStep
	pending := make(map[string]bool)
	open := []openGoal{{goal: goal, requester: -1}}
	pending[goal.Key()] = true
	if err := p.schedule(scheduled); err != nil {
		return nil, err
	}

	for len(open) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		head := open[0]
		open = open[1:]
		delete(pending, head.goal.Key())

		g := head.goal
		if start.Holds(g) {
			continue
		}
		if reusable(discovered, head) {
			continue
		}

		candidates := p.candidates(g, objects)
		if len(candidates) == 0 {
			return nil, &planning.UnreachableGoalError{Goal: g}
		}
		chosen := candidates[0]
		if p.fewestUnmet {
			chosen = fewestUnmet(candidates, start)
		}

		idx := len(discovered)
		discovered = append(discovered, causalStep{
			step:      planning.Step{Operator: chosen, Establishes: g},
			requester: head.requester,
		})

		for _, pre := range chosen.Preconditions {
			if start.Holds(pre) || pending[pre.Key()] {
				continue
			}
			if err := p.schedule(scheduled); err != nil {
				return nil, err
			}
			open = append(open, openGoal{goal: pre, requester: idx})
			pending[pre.Key()] = true
		}
	}
	return discovered, nil
}

func (p *Planner) schedule(scheduled *int) error {
	*scheduled++
	if *scheduled > p.maxGoals {
		return fmt.Errorf("%w: more than %d goals scheduled", planning.ErrSearchLimitExceeded, p.maxGoals)
	}
	return nil
}

// reusable reports whether a step discovered after the requester already
// establishes the goal. Such a step runs before the requester once the
// discovery list is reversed.
func reusable(discovered []causalStep, g openGoal) bool {
	for i := g.requester + 1; i < len(discovered); i++ {
		if discovered[i].step.Operator.Establishes(g.goal) {
			return true
		}
	}
	return false
}

// candidates returns every ground operator that establishes g, in library
// declaration order then grounding order. Operators requiring g are skipped.
func (p *Planner) candidates(g planning.Condition, objects []string) []*planning.Operator {
	var out []*planning.Operator
	seen := make(map[string]bool)
	for _, t := range p.library.Templates() {
		for _, post := range t.Postconditions {
			b, ok := planning.Unify(post, g, nil)
			if !ok {
				continue
			}
			for _, full := range planning.Groundings(t, b, objects) {
				op, err := t.Ground(full)
				if err != nil || !op.Establishes(g) || op.Requires(g) {
					continue
				}
				if key := op.String(); !seen[key] {
					seen[key] = true
					out = append(out, op)
				}
			}
		}
	}
	return out
}

// fewestUnmet picks the candidate with the fewest preconditions unmet in start.
// Ties keep the earliest candidate.
func fewestUnmet(candidates []*planning.Operator, start *planning.State) *planning.Operator {
	best, bestUnmet := candidates[0], unmetCount(candidates[0], start)
	for _, op := range candidates[1:] {
		if n := unmetCount(op, start); n < bestUnmet {
			best, bestUnmet = op, n
		}
	}
	return best
}

func unmetCount(op *planning.Operator, s *planning.State) int {
	n := 0
	for _, c := range op.Preconditions {
		if !s.Holds(c) {
			n++
		}
	}
	return n
}

func (p *Planner) observe(phase planning.Phase, goal planning.Condition) {
	if p.observer != nil {
		p.observer.OnPhase(phase, goal)
	}
}

// executionOrder reverses the discovery list into a new slice.
func executionOrder(discovered []causalStep) []planning.Step {
	steps := make([]planning.Step, len(discovered))
	for i, cs := range discovered {
		steps[len(discovered)-1-i] = cs.step
	}
	return steps
}
