// Package tool provides the domain model for tools exposed by the planning service.
package tool

// Annotations describe tool behavior for clients.
type Annotations struct {
	// ReadOnly indicates the tool has no side effects.
	ReadOnly bool `json:"read_only"`

	// Idempotent indicates multiple calls with same input yield same result.
	Idempotent bool `json:"idempotent"`
}

// PureAnnotations returns annotations for a tool that only computes a result.
// Every planning tool is pure: requests carry their own state.
func PureAnnotations() Annotations {
	return Annotations{ReadOnly: true, Idempotent: true}
}
