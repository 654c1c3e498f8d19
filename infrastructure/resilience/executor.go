// Package resilience guards tool execution using fortify.
package resilience

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/felixgeelhaar/fortify/bulkhead"
	"github.com/felixgeelhaar/fortify/circuitbreaker"

	"github.com/felixgeelhaar/popsolver/domain/tool"
	"github.com/felixgeelhaar/popsolver/infrastructure/logging"
)

// Guard bounds tool execution with a bulkhead, a per-call timeout and a
// circuit breaker. Nothing is retried: planning is deterministic, so a failed
// call fails the same way again.
type Guard struct {
	bulkhead bulkhead.Bulkhead[tool.Result]
	breaker  circuitbreaker.CircuitBreaker[tool.Result]
	timeout  time.Duration
}

// GuardConfig configures the guard.
type GuardConfig struct {
	// MaxConcurrent limits concurrent tool executions.
	MaxConcurrent int

	// Timeout bounds one execution. Zero disables the timeout.
	Timeout time.Duration

	// BreakerThreshold is the number of consecutive execution errors before
	// the breaker opens. Recoverable planning outcomes are results, not errors,
	// and never count.
	BreakerThreshold int

	// BreakerTimeout is how long the breaker stays open.
	BreakerTimeout time.Duration
}

// DefaultGuardConfig returns a configuration with sensible defaults.
func DefaultGuardConfig() GuardConfig {
	return GuardConfig{
		MaxConcurrent:    10,
		Timeout:          30 * time.Second,
		BreakerThreshold: 5,
		BreakerTimeout:   30 * time.Second,
	}
}

// NewGuard creates a new guard. Non-positive limits fall back to the defaults.
func NewGuard(config GuardConfig) *Guard {
	defaults := DefaultGuardConfig()
	maxConcurrent := config.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = defaults.MaxConcurrent
	}
	threshold := config.BreakerThreshold
	if threshold <= 0 {
		threshold = defaults.BreakerThreshold
	}
	breakerTimeout := config.BreakerTimeout
	if breakerTimeout <= 0 {
		breakerTimeout = defaults.BreakerTimeout
	}

	return &Guard{
		bulkhead: bulkhead.New[tool.Result](bulkhead.Config{
			MaxConcurrent: maxConcurrent,
		}),
		breaker: circuitbreaker.New[tool.Result](circuitbreaker.Config{
			MaxRequests: uint32(maxConcurrent), // #nosec G115 -- bounds checked above
			Interval:    breakerTimeout,
			Timeout:     breakerTimeout,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(threshold) // #nosec G115 -- bounds checked above
			},
		}),
		timeout: config.Timeout,
	}
}

// NewDefaultGuard creates a guard with default configuration.
func NewDefaultGuard() *Guard {
	return NewGuard(DefaultGuardConfig())
}

// Execute runs a tool under the guard.
// Composition order: Bulkhead → Timeout → Circuit Breaker.
func (g *Guard) Execute(ctx context.Context, t tool.Tool, input json.RawMessage) (tool.Result, error) {
	start := time.Now()

	result, err := g.bulkhead.Execute(ctx, func(ctx context.Context) (tool.Result, error) {
		if g.timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, g.timeout)
			defer cancel()
		}

		return g.breaker.Execute(ctx, func(ctx context.Context) (tool.Result, error) {
			return t.Execute(ctx, input)
		})
	})

	if errors.Is(err, context.DeadlineExceeded) {
		logging.Warn().
			Add(logging.Component("resilience")).
			Add(logging.Str("tool", t.Name())).
			Add(logging.Duration(time.Since(start))).
			Msg("tool call timed out")
		err = fmt.Errorf("%w: %s after %s", tool.ErrExecutionTimeout, t.Name(), g.timeout)
	}
	if err != nil {
		return tool.Result{}, err
	}

	result.Duration = time.Since(start)
	return result, nil
}

// BreakerState returns the current state of the circuit breaker.
func (g *Guard) BreakerState() circuitbreaker.State {
	return g.breaker.State()
}
