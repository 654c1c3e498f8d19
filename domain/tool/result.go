package tool

import (
	"encoding/json"
	"time"
)

// Result contains the output of a tool execution.
//
// A Result with Failed set is a normal outcome the client should read, such as
// an operator whose precondition is not met. Execution errors are returned
// separately by Tool.Execute.
type Result struct {
	// Text is the human-readable message returned to clients.
	Text string `json:"text"`

	// Output is the structured result data.
	Output json.RawMessage `json:"output,omitempty"`

	// Failed marks a recoverable failure reported as a message.
	Failed bool `json:"failed,omitempty"`

	// Duration is how long the execution took.
	Duration time.Duration `json:"duration"`
}

// NewResult creates a successful result.
func NewResult(text string, output json.RawMessage) Result {
	return Result{Text: text, Output: output}
}

// NewFailedResult creates a result describing a recoverable failure.
func NewFailedResult(text string) Result {
	return Result{Text: text, Failed: true}
}

// OutputString returns the structured output as a string.
func (r Result) OutputString() string {
	return string(r.Output)
}
