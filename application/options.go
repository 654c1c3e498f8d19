package application

import (
	"github.com/felixgeelhaar/popsolver/domain/planning"
	"github.com/felixgeelhaar/popsolver/infrastructure/telemetry"
)

// Option configures the engine.
type Option func(*EngineConfig)

// WithCatalog sets the domain catalog.
func WithCatalog(c planning.Catalog) Option {
	return func(cfg *EngineConfig) {
		cfg.Catalog = c
	}
}

// WithMetrics sets the metrics recorder.
func WithMetrics(m telemetry.Metrics) Option {
	return func(cfg *EngineConfig) {
		cfg.Metrics = m
	}
}

// WithSearchLimit sets how many goals a plan search may schedule.
func WithSearchLimit(n int) Option {
	return func(cfg *EngineConfig) {
		cfg.MaxGoals = n
	}
}

// WithDefaultDomain sets the domain used when a request names none.
func WithDefaultDomain(name string) Option {
	return func(cfg *EngineConfig) {
		cfg.DefaultDomain = name
	}
}

// WithFewestUnmet makes plan search prefer operators with the fewest unmet preconditions.
func WithFewestUnmet() Option {
	return func(cfg *EngineConfig) {
		cfg.FewestUnmetFirst = true
	}
}

// NewEngineWithOptions creates an engine with functional options.
func NewEngineWithOptions(opts ...Option) (*Engine, error) {
	config := EngineConfig{}
	for _, opt := range opts {
		opt(&config)
	}
	return NewEngine(config)
}
