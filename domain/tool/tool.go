package tool

import (
	"context"
	"encoding/json"
	"strings"
)

// Tool is one operation the planning service exposes to clients.
type Tool interface {
	Name() string
	Description() string

	// InputSchema returns the JSON Schema the input is checked against.
	InputSchema() Schema

	Annotations() Annotations

	// Execute checks the input against the schema and runs the tool.
	Execute(ctx context.Context, input json.RawMessage) (Result, error)
}

// Handler runs a tool on input that has passed schema validation.
type Handler func(ctx context.Context, input json.RawMessage) (Result, error)

// Spec declares a tool.
type Spec struct {
	Name        string
	Description string
	Input       Schema
	Annotations Annotations
	Handler     Handler
}

type definition struct {
	spec Spec
}

// New validates a spec and returns the tool it declares.
func New(spec Spec) (Tool, error) {
	if strings.TrimSpace(spec.Name) == "" {
		return nil, ErrEmptyName
	}
	if spec.Handler == nil {
		return nil, ErrNoHandler
	}
	return &definition{spec: spec}, nil
}

// MustNew is like New but panics on an invalid spec.
func MustNew(spec Spec) Tool {
	t, err := New(spec)
	if err != nil {
		panic(err)
	}
	return t
}

func (d *definition) Name() string             { return d.spec.Name }
func (d *definition) Description() string      { return d.spec.Description }
func (d *definition) InputSchema() Schema      { return d.spec.Input }
func (d *definition) Annotations() Annotations { return d.spec.Annotations }

func (d *definition) Execute(ctx context.Context, input json.RawMessage) (Result, error) {
	if err := d.spec.Input.Validate(input); err != nil {
		return Result{}, err
	}
	return d.spec.Handler(ctx, input)
}

// Usage renders a one-line call signature from the input schema, with required
// arguments first: `create_plan(goals, start, [domain])`.
func Usage(t Tool) string {
	schema := t.InputSchema()
	required := schema.Required()
	isRequired := make(map[string]bool, len(required))
	for _, r := range required {
		isRequired[r] = true
	}

	args := append([]string(nil), required...)
	for _, p := range schema.Properties() {
		if !isRequired[p] {
			args = append(args, "["+p+"]")
		}
	}
	return t.Name() + "(" + strings.Join(args, ", ") + ")"
}
