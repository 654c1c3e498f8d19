// Package application provides the planning engine: backward-chaining plan
// search and the request-level operations built on it.
package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/felixgeelhaar/popsolver/domain/planning"
	"github.com/felixgeelhaar/popsolver/infrastructure/logging"
	"github.com/felixgeelhaar/popsolver/infrastructure/statemachine"
	"github.com/felixgeelhaar/popsolver/infrastructure/telemetry"
)

// Engine serves operator applications and plan requests over a domain catalog.
// An Engine is safe for concurrent use; every request builds its own State and Planner.
type Engine struct {
	catalog       planning.Catalog
	metrics       telemetry.Metrics
	maxGoals      int
	defaultDomain string
	fewestUnmet   bool
}

// EngineConfig contains configuration for the engine.
type EngineConfig struct {
	Catalog       planning.Catalog
	Metrics       telemetry.Metrics
	MaxGoals      int
	DefaultDomain string
	// FewestUnmetFirst switches operator choice from declaration order to the
	// candidate with the fewest unmet preconditions.
	FewestUnmetFirst bool
}

// NewEngine creates a new engine with the given configuration.
func NewEngine(config EngineConfig) (*Engine, error) {
	if config.Catalog == nil {
		return nil, errors.New("catalog is required")
	}

	e := &Engine{
		catalog:       config.Catalog,
		metrics:       config.Metrics,
		maxGoals:      config.MaxGoals,
		defaultDomain: config.DefaultDomain,
		fewestUnmet:   config.FewestUnmetFirst,
	}

	// Set defaults
	if e.metrics == nil {
		e.metrics = telemetry.NoopMetricsProvider{}
	}
	if e.maxGoals <= 0 {
		e.maxGoals = DefaultMaxGoals
	}
	if e.defaultDomain == "" {
		e.defaultDomain = "robot"
	}
	return e, nil
}

// Catalog returns the domain catalog.
func (e *Engine) Catalog() planning.Catalog {
	return e.catalog
}

// DefaultDomain returns the domain used when a request names none.
func (e *Engine) DefaultDomain() string {
	return e.defaultDomain
}

// ApplyRequest asks for one operator application.
type ApplyRequest struct {
	Domain   string            `json:"domain,omitempty"`
	State    []string          `json:"state"`
	Operator string            `json:"operator"`
	Bindings map[string]string `json:"bindings,omitempty"`
}

// ApplyResult is the outcome of a successful operator application.
type ApplyResult struct {
	Domain      string   `json:"domain"`
	Operator    string   `json:"operator"`
	StartState  []string `json:"start_state"`
	ResultState []string `json:"result_state"`
}

// PlanRequest asks for a plan from a start state to a goal set.
type PlanRequest struct {
	Domain string   `json:"domain,omitempty"`
	Start  []string `json:"start"`
	Goals  []string `json:"goals"`
}

// ApplyOperator grounds the named operator and applies it to the given state.
func (e *Engine) ApplyOperator(ctx context.Context, req ApplyRequest) (result *ApplyResult, err error) {
	ctx, span := telemetry.StartSpan(ctx, "popsolver.apply_operator",
		attribute.String("domain", req.Domain),
		attribute.String("operator", req.Operator),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	lib, err := e.library(req.Domain)
	if err != nil {
		e.metrics.RecordApply(ctx, req.Domain, req.Operator, err)
		e.logFailure("apply failed", req.Domain, err)
		return nil, err
	}
	defer func() {
		e.metrics.RecordApply(ctx, lib.Name(), req.Operator, err)
		if err != nil {
			e.logFailure("apply failed", lib.Name(), err)
		}
	}()

	state, err := startState(lib, req.State)
	if err != nil {
		return nil, err
	}
	op, err := lib.Ground(req.Operator, planning.Bindings(req.Bindings))
	if err != nil {
		return nil, err
	}
	next, err := state.Apply(op)
	if err != nil {
		return nil, err
	}

	logging.Info().
		Add(logging.Domain(lib.Name())).
		Add(logging.Operator(op.String())).
		Msg("operator applied")

	return &ApplyResult{
		Domain:      lib.Name(),
		Operator:    op.String(),
		StartState:  state.Strings(),
		ResultState: next.Strings(),
	}, nil
}

// CreatePlan builds a plan reaching every goal from the start state.
func (e *Engine) CreatePlan(ctx context.Context, req PlanRequest) (plan *planning.Plan, err error) {
	started := time.Now()
	id := uuid.New()

	ctx, span := telemetry.StartSpan(ctx, "popsolver.create_plan",
		attribute.String("plan.id", id.String()),
		attribute.String("domain", req.Domain),
		attribute.Int("goals", len(req.Goals)),
	)
	defer func() { telemetry.EndSpan(span, err) }()

	domain := req.Domain
	defer func() {
		steps := 0
		if plan != nil {
			steps = plan.Len()
		}
		e.metrics.RecordPlan(ctx, domain, steps, time.Since(started), err)
		if err != nil {
			e.logFailure("plan failed", domain, err, logging.PlanID(id.String()))
		}
	}()

	lib, err := e.library(req.Domain)
	if err != nil {
		return nil, err
	}
	domain = lib.Name()

	state, err := startState(lib, req.Start)
	if err != nil {
		return nil, err
	}
	goals, err := goalConditions(req.Goals)
	if err != nil {
		return nil, err
	}

	tracker, err := statemachine.NewTracker(id.String(), lib.Name())
	if err != nil {
		return nil, err
	}
	defer tracker.Stop()

	logging.Info().
		Add(logging.PlanID(id.String())).
		Add(logging.Domain(lib.Name())).
		Add(logging.DomainVersion(lib.Version())).
		Add(logging.Goals(len(goals))).
		Msg("plan requested")

	popts := []PlannerOption{WithMaxGoals(e.maxGoals), WithPhaseObserver(tracker)}
	if e.fewestUnmet {
		popts = append(popts, WithFewestUnmetFirst())
	}
	planner := NewPlanner(lib, popts...)
	plan, err = planner.BuildPlan(ctx, state, goals)
	if err != nil {
		return nil, err
	}
	plan.ID = id

	logging.Info().
		Add(logging.PlanID(id.String())).
		Add(logging.Domain(lib.Name())).
		Add(logging.Steps(plan.Len())).
		Add(logging.Duration(time.Since(started))).
		Msg("plan created")

	return plan, nil
}

func (e *Engine) library(name string) (*planning.Library, error) {
	if name == "" {
		name = e.defaultDomain
	}
	return e.catalog.Library(name)
}

// logFailure logs recoverable errors at warn and fatal ones at error.
func (e *Engine) logFailure(msg, domain string, err error, fields ...logging.Field) {
	ev := logging.Warn()
	if planning.Classify(err) == planning.ClassFatal {
		ev = logging.Error()
	}
	ev.Add(logging.Domain(domain)).
		Add(logging.ErrorClass(err)).
		Add(logging.ErrorField(err))
	for _, f := range fields {
		ev.Add(f)
	}
	ev.Msg(msg)
}

// startState parses and validates caller-supplied start conditions.
func startState(lib *planning.Library, texts []string) (*planning.State, error) {
	cs, err := planning.ParseConditions(texts)
	if err != nil {
		return nil, err
	}
	if err := lib.ValidateState(cs); err != nil {
		return nil, err
	}
	return planning.NewState(cs...)
}

func goalConditions(texts []string) ([]planning.Condition, error) {
	goals, err := planning.ParseConditions(texts)
	if err != nil {
		return nil, err
	}
	for _, g := range goals {
		if !g.IsGround() {
			return nil, fmt.Errorf("%w: goal %s is not ground", planning.ErrValue, g)
		}
	}
	return goals, nil
}
