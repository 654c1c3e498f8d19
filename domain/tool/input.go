package tool

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Decode unmarshals tool input into T. Unknown fields are rejected so a
// misspelled argument such as "goal" fails instead of being ignored.
// Errors wrap ErrInvalidInput.
func Decode[T any](input json.RawMessage) (T, error) {
	var v T
	if len(bytes.TrimSpace(input)) == 0 {
		input = json.RawMessage(`{}`)
	}
	dec := json.NewDecoder(bytes.NewReader(input))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&v); err != nil {
		return v, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return v, nil
}
