// Package tools exposes the planning engine as tools: apply_operator,
// create_plan and list_domains.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/popsolver/application"
	"github.com/felixgeelhaar/popsolver/domain/planning"
	"github.com/felixgeelhaar/popsolver/domain/tool"
	"github.com/felixgeelhaar/popsolver/infrastructure/storage/memory"
)

// Tool names.
const (
	ApplyOperatorName = "apply_operator"
	CreatePlanName    = "create_plan"
	ListDomainsName   = "list_domains"
)

// Engine is the part of the planning engine the tools call.
type Engine interface {
	ApplyOperator(ctx context.Context, req application.ApplyRequest) (*application.ApplyResult, error)
	CreatePlan(ctx context.Context, req application.PlanRequest) (*planning.Plan, error)
	Catalog() planning.Catalog
	DefaultDomain() string
}

// NewRegistry returns a registry holding every planning tool.
func NewRegistry(engine Engine) (*memory.ToolRegistry, error) {
	return memory.NewToolRegistry(
		ApplyOperator(engine),
		CreatePlan(engine),
		ListDomains(engine),
	)
}

var conditionList = json.RawMessage(`{"type":"array","items":{"type":"string"},"description":"Conditions such as On(Robot, Floor) or ¬Dry(Ladder)"}`)

func domainProperty(engine Engine) json.RawMessage {
	raw, _ := json.Marshal(map[string]string{
		"type":        "string",
		"description": fmt.Sprintf("Domain name or alias; defaults to %s", engine.DefaultDomain()),
	})
	return raw
}

type applyInput struct {
	Domain   string            `json:"domain"`
	State    []string          `json:"state"`
	Operator string            `json:"operator"`
	Bindings map[string]string `json:"bindings"`
}

// ApplyOperator builds the apply_operator tool.
func ApplyOperator(engine Engine) tool.Tool {
	schema := tool.ObjectSchema(map[string]json.RawMessage{
		"domain":   domainProperty(engine),
		"state":    conditionList,
		"operator": json.RawMessage(`{"type":"string","description":"Operator name, e.g. climb-ladder or stack"}`),
		"bindings": json.RawMessage(`{"type":"object","additionalProperties":{"type":"string"},"description":"Parameter values for parameterized operators, e.g. {\"block1\": \"A\"}"}`),
	}, []string{"state", "operator"})

	return tool.MustNew(tool.Spec{
		Name:        ApplyOperatorName,
		Description: "Apply one operator to a state and return the resulting state.",
		Input:       schema,
		Annotations: tool.PureAnnotations(),
		Handler: func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			in, err := tool.Decode[applyInput](input)
			if err != nil {
				return tool.Result{}, err
			}
			start := strings.Join(in.State, " ^ ")

			result, err := engine.ApplyOperator(ctx, application.ApplyRequest{
				Domain:   in.Domain,
				State:    in.State,
				Operator: in.Operator,
				Bindings: in.Bindings,
			})
			if err != nil {
				var pe *planning.PreconditionError
				if errors.As(err, &pe) {
					return tool.NewFailedResult(fmt.Sprintf(
						"The provided operator '%s' cannot be applied to start state '%s' for the following reason: Precondition '%s' is not met.",
						pe.Operator, start, pe.Condition)), nil
				}
				return failure(err)
			}

			out, err := json.Marshal(result)
			if err != nil {
				return tool.Result{}, err
			}
			return tool.NewResult(fmt.Sprintf(
				"The result of applying the '%s' operator to start state '%s' is the resulting state '%s'",
				result.Operator, start, strings.Join(result.ResultState, " ^ ")), out), nil
		},
	})
}

type planInput struct {
	Domain string   `json:"domain"`
	Start  []string `json:"start"`
	Goals  []string `json:"goals"`
}

// PlanStep is one step of a plan in tool output.
type PlanStep struct {
	Operator    string            `json:"operator"`
	Bindings    map[string]string `json:"bindings,omitempty"`
	Establishes string            `json:"establishes"`
	State       []string          `json:"state"`
}

// PlanOutput is the structured output of create_plan.
type PlanOutput struct {
	ID         string     `json:"id"`
	Domain     string     `json:"domain"`
	Start      []string   `json:"start"`
	Goals      []string   `json:"goals"`
	Steps      []PlanStep `json:"steps"`
	FinalState []string   `json:"final_state"`
}

// NewPlanOutput renders a plan for clients. Each step carries its bindings and
// the state it leaves behind. An empty plan's final state is its start state.
func NewPlanOutput(plan *planning.Plan) PlanOutput {
	out := PlanOutput{
		ID:         plan.ID.String(),
		Domain:     plan.Domain,
		Start:      plan.Start().Strings(),
		Goals:      planning.ConditionStrings(plan.Goals),
		Steps:      make([]PlanStep, len(plan.Steps)),
		FinalState: plan.FinalState().Strings(),
	}
	for i, s := range plan.Steps {
		var bindings map[string]string
		if b := s.Bindings(); len(b) > 0 {
			bindings = b.Clone()
		}
		out.Steps[i] = PlanStep{
			Operator:    s.String(),
			Bindings:    bindings,
			Establishes: s.Establishes.String(),
			State:       plan.States[i+1].Strings(),
		}
	}
	return out
}

// CreatePlan builds the create_plan tool.
func CreatePlan(engine Engine) tool.Tool {
	schema := tool.ObjectSchema(map[string]json.RawMessage{
		"domain": domainProperty(engine),
		"start":  conditionList,
		"goals":  conditionList,
	}, []string{"start", "goals"})

	return tool.MustNew(tool.Spec{
		Name:        CreatePlanName,
		Description: "Build an ordered plan of operators that turns the start state into one where every goal holds.",
		Input:       schema,
		Annotations: tool.PureAnnotations(),
		Handler: func(ctx context.Context, input json.RawMessage) (tool.Result, error) {
			in, err := tool.Decode[planInput](input)
			if err != nil {
				return tool.Result{}, err
			}

			plan, err := engine.CreatePlan(ctx, application.PlanRequest{
				Domain: in.Domain,
				Start:  in.Start,
				Goals:  in.Goals,
			})
			if err != nil {
				return failure(err)
			}

			out, err := json.Marshal(NewPlanOutput(plan))
			if err != nil {
				return tool.Result{}, err
			}
			return tool.NewResult(fmt.Sprintf("The plan to reach '%s' from start state '%s' is: %s",
				strings.Join(in.Goals, " ^ "), strings.Join(in.Start, " ^ "), plan), out), nil
		},
	})
}

// DomainSummary describes one domain in list_domains output.
type DomainSummary struct {
	Name        string   `json:"name"`
	Version     string   `json:"version,omitempty"`
	Description string   `json:"description,omitempty"`
	Aliases     []string `json:"aliases,omitempty"`
	Operators   []string `json:"operators"`
}

// Summarize describes a library.
func Summarize(lib *planning.Library) DomainSummary {
	s := DomainSummary{
		Name:        lib.Name(),
		Version:     lib.Version(),
		Description: lib.Description(),
		Aliases:     lib.Aliases(),
	}
	for _, t := range lib.Templates() {
		s.Operators = append(s.Operators, t.Signature())
	}
	return s
}

// ListDomains builds the list_domains tool.
func ListDomains(engine Engine) tool.Tool {
	return tool.MustNew(tool.Spec{
		Name:        ListDomainsName,
		Description: "List the planning domains and their operators.",
		Input:       tool.EmptySchema(),
		Annotations: tool.PureAnnotations(),
		Handler: func(_ context.Context, _ json.RawMessage) (tool.Result, error) {
			catalog := engine.Catalog()
			var (
				summaries []DomainSummary
				lines     []string
			)
			for _, name := range catalog.Names() {
				lib, err := catalog.Library(name)
				if err != nil {
					return tool.Result{}, err
				}
				s := Summarize(lib)
				summaries = append(summaries, s)
				lines = append(lines, fmt.Sprintf("%s: %s", s.Name, strings.Join(s.Operators, ", ")))
			}
			out, err := json.Marshal(summaries)
			if err != nil {
				return tool.Result{}, err
			}
			return tool.NewResult(strings.Join(lines, "\n"), out), nil
		},
	})
}

// failure turns recoverable engine errors into an "Error: ..." result and
// returns fatal ones as execution errors.
func failure(err error) (tool.Result, error) {
	if planning.Classify(err) == planning.ClassFatal || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return tool.Result{}, err
	}
	return tool.NewFailedResult("Error: " + err.Error()), nil
}
