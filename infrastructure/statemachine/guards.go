package statemachine

import (
	"github.com/felixgeelhaar/statekit"
)

// guardHasGoal allows a search only when the event names the goal being searched.
// Note: In statekit, guards receive the context by value. Since our context is *Context,
// the guard receives *Context directly.
func guardHasGoal(_ *Context, event statekit.Event) bool {
	payload, ok := event.Payload.(PhasePayload)
	return ok && payload.Goal != ""
}
