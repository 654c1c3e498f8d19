package tool

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Schema wraps JSON Schema for input validation.
type Schema struct {
	raw json.RawMessage
}

// NewSchema creates a schema from raw JSON.
func NewSchema(raw json.RawMessage) Schema {
	return Schema{raw: raw}
}

// EmptySchema returns a schema that accepts any input.
func EmptySchema() Schema {
	return Schema{raw: json.RawMessage(`{}`)}
}

// ObjectSchema returns a schema for an object with the given properties.
func ObjectSchema(properties map[string]json.RawMessage, required []string) Schema {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	raw, _ := json.Marshal(schema)
	return Schema{raw: raw}
}

// Raw returns the underlying JSON schema.
func (s Schema) Raw() json.RawMessage {
	return s.raw
}

// IsEmpty returns true if the schema is empty or nil.
func (s Schema) IsEmpty() bool {
	return len(s.raw) == 0 || string(s.raw) == "{}" || string(s.raw) == "null"
}

// Required returns the required property names, sorted.
func (s Schema) Required() []string {
	var doc struct {
		Required []string `json:"required"`
	}
	if s.IsEmpty() || json.Unmarshal(s.raw, &doc) != nil {
		return nil
	}
	sort.Strings(doc.Required)
	return doc.Required
}

// Properties returns the declared property names, sorted.
func (s Schema) Properties() []string {
	var doc struct {
		Properties map[string]json.RawMessage `json:"properties"`
	}
	if s.IsEmpty() || json.Unmarshal(s.raw, &doc) != nil {
		return nil
	}
	names := make([]string, 0, len(doc.Properties))
	for name := range doc.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate checks that data is a JSON object carrying every required property.
// Property types are left to the handler's decoder.
func (s Schema) Validate(data json.RawMessage) error {
	if s.IsEmpty() {
		return nil
	}
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("%w: expected a JSON object: %v", ErrInvalidInput, err)
	}
	for _, name := range s.Required() {
		v, ok := obj[name]
		if !ok || string(v) == "null" {
			return fmt.Errorf("%w: missing required property %q", ErrInvalidInput, name)
		}
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (s Schema) MarshalJSON() ([]byte, error) {
	if s.raw == nil {
		return []byte("{}"), nil
	}
	return s.raw, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Schema) UnmarshalJSON(data []byte) error {
	s.raw = append(json.RawMessage(nil), data...)
	return nil
}
