package application

import (
	"github.com/felixgeelhaar/popsolver/domain/planning"
)

// CheckOrdering verifies that every precondition of every step is supplied by
// the start state or an earlier step, and that no step in between undoes it.
func CheckOrdering(start *planning.State, steps []planning.Step) error {
	for k, consumer := range steps {
		for _, pre := range consumer.Operator.Preconditions {
			from, ok := establisher(start, steps, k, pre)
			if !ok {
				return &planning.OrderingConflictError{
					Condition: pre,
					Consumer:  consumer.String(),
					Reason:    "no earlier step establishes it",
				}
			}
			for j := from + 1; j < k; j++ {
				if steps[j].Operator.Denies(pre) {
					return &planning.OrderingConflictError{
						Condition: pre,
						Consumer:  consumer.String(),
						Clobberer: steps[j].String(),
					}
				}
			}
		}
	}
	return nil
}

// establisher returns the index of the latest step before k asserting c,
// or -1 when c comes from the start state.
func establisher(start *planning.State, steps []planning.Step, k int, c planning.Condition) (int, bool) {
	for j := k - 1; j >= 0; j-- {
		if steps[j].Operator.Asserts(c) {
			return j, true
		}
	}
	if start.Holds(c) {
		return -1, true
	}
	return 0, false
}

// Replay applies steps in order to start and returns start followed by every
// intermediate state. start is never modified.
func Replay(start *planning.State, steps []planning.Step) ([]*planning.State, error) {
	states := make([]*planning.State, 0, len(steps)+1)
	states = append(states, start)
	current := start
	for i, s := range steps {
		next, err := current.Apply(s.Operator)
		if err != nil {
			return nil, &planning.PlanExecutionError{Step: i, Err: err}
		}
		states = append(states, next)
		current = next
	}
	return states, nil
}
