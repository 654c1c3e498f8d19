package statemachine

import (
	"github.com/felixgeelhaar/statekit"
)

// PhasePayload carries the goal under consideration with a phase event.
type PhasePayload struct {
	Goal string
}

// enterPhase syncs the context phase with the entered state.
// In statekit, actions receive a pointer to the context. Since our context is *Context,
// actions receive **Context.
func enterPhase(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	if p := phaseForEvent(event.Type); p != "" {
		(*ctx).Phase = p
	}
}

// recordGoal remembers the goal named by the event payload.
func recordGoal(ctx **Context, event statekit.Event) {
	if ctx == nil || *ctx == nil {
		return
	}
	if payload, ok := event.Payload.(PhasePayload); ok && payload.Goal != "" {
		(*ctx).Goal = payload.Goal
	}
}
