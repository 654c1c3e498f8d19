package resilience

import "time"

// Option configures the guard.
type Option func(*GuardConfig)

// WithMaxConcurrent sets the maximum concurrent executions.
func WithMaxConcurrent(n int) Option {
	return func(c *GuardConfig) {
		c.MaxConcurrent = n
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *GuardConfig) {
		c.Timeout = d
	}
}

// WithBreakerThreshold sets the failure threshold for the circuit breaker.
func WithBreakerThreshold(n int) Option {
	return func(c *GuardConfig) {
		c.BreakerThreshold = n
	}
}

// WithBreakerTimeout sets how long the circuit breaker stays open.
func WithBreakerTimeout(d time.Duration) Option {
	return func(c *GuardConfig) {
		c.BreakerTimeout = d
	}
}

// NewGuardWithOptions creates a guard with the given options.
func NewGuardWithOptions(opts ...Option) *Guard {
	config := DefaultGuardConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return NewGuard(config)
}
