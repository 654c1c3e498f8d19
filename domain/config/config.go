// Package config provides domain models for service configuration.
package config

import "time"

// ServiceConfig represents the complete popsolver configuration.
type ServiceConfig struct {
	// Name is a human-readable name for this configuration.
	Name string `json:"name" yaml:"name" toml:"name"`
	// Version is the configuration schema version.
	Version string `json:"version" yaml:"version" toml:"version"`
	// Description describes the deployment.
	Description string `json:"description,omitempty" yaml:"description,omitempty" toml:"description"`

	// Log contains logging settings.
	Log LogConfig `json:"log,omitempty" yaml:"log,omitempty" toml:"log"`
	// Planner contains plan search settings.
	Planner PlannerConfig `json:"planner,omitempty" yaml:"planner,omitempty" toml:"planner"`
	// Domains contains domain catalog settings.
	Domains DomainsConfig `json:"domains,omitempty" yaml:"domains,omitempty" toml:"domains"`
	// Server contains tool server settings.
	Server ServerConfig `json:"server,omitempty" yaml:"server,omitempty" toml:"server"`
	// Telemetry contains tracing and metrics settings.
	Telemetry TelemetryConfig `json:"telemetry,omitempty" yaml:"telemetry,omitempty" toml:"telemetry"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	// Level is the minimum level (debug, info, warn, error).
	Level string `json:"level,omitempty" yaml:"level,omitempty" toml:"level"`
	// Format is the output format (json, console).
	Format string `json:"format,omitempty" yaml:"format,omitempty" toml:"format"`
}

// PlannerConfig configures plan search.
type PlannerConfig struct {
	// MaxGoals bounds how many goals one search may schedule.
	MaxGoals int `json:"max_goals,omitempty" yaml:"max_goals,omitempty" toml:"max_goals"`
	// DefaultDomain is used when a request names no domain.
	DefaultDomain string `json:"default_domain,omitempty" yaml:"default_domain,omitempty" toml:"default_domain"`
	// FewestUnmetFirst replaces declaration-order operator choice with the
	// candidate that has the fewest unmet preconditions.
	FewestUnmetFirst bool `json:"fewest_unmet_first,omitempty" yaml:"fewest_unmet_first,omitempty" toml:"fewest_unmet_first"`
}

// DomainsConfig configures the domain catalog.
type DomainsConfig struct {
	// Dir is an optional directory of extra domain files.
	Dir string `json:"dir,omitempty" yaml:"dir,omitempty" toml:"dir"`
	// Watch reloads the directory when its files change.
	Watch bool `json:"watch,omitempty" yaml:"watch,omitempty" toml:"watch"`
	// DisableBuiltins drops the embedded robot and blocks-world tables.
	DisableBuiltins bool `json:"disable_builtins,omitempty" yaml:"disable_builtins,omitempty" toml:"disable_builtins"`
}

// ServerConfig configures the tool server.
type ServerConfig struct {
	// Name is the server name announced to clients.
	Name string `json:"name,omitempty" yaml:"name,omitempty" toml:"name"`
	// MaxConcurrent limits concurrent tool calls.
	MaxConcurrent int `json:"max_concurrent,omitempty" yaml:"max_concurrent,omitempty" toml:"max_concurrent"`
	// Timeout bounds a single tool call.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty" toml:"timeout"`
}

// TelemetryConfig configures tracing and metrics.
type TelemetryConfig struct {
	// Tracing writes spans to stderr.
	Tracing bool `json:"tracing,omitempty" yaml:"tracing,omitempty" toml:"tracing"`
	// Metrics records OpenTelemetry metrics through the global meter provider.
	Metrics bool `json:"metrics,omitempty" yaml:"metrics,omitempty" toml:"metrics"`
}

// Default values.
const (
	DefaultMaxGoals      = 1000
	DefaultDomain        = "robot"
	DefaultMaxConcurrent = 10
	DefaultTimeout       = 30 * time.Second
	DefaultServerName    = "popsolver"
)

// Default returns a configuration with every default filled in.
func Default() *ServiceConfig {
	return &ServiceConfig{
		Name:    "popsolver",
		Version: "1.0",
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Planner: PlannerConfig{
			MaxGoals:      DefaultMaxGoals,
			DefaultDomain: DefaultDomain,
		},
		Server: ServerConfig{
			Name:          DefaultServerName,
			MaxConcurrent: DefaultMaxConcurrent,
			Timeout:       Duration(DefaultTimeout),
		},
	}
}

// ApplyDefaults fills zero values with defaults.
func (c *ServiceConfig) ApplyDefaults() {
	d := Default()
	if c.Log.Level == "" {
		c.Log.Level = d.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = d.Log.Format
	}
	if c.Planner.MaxGoals == 0 {
		c.Planner.MaxGoals = d.Planner.MaxGoals
	}
	if c.Planner.DefaultDomain == "" {
		c.Planner.DefaultDomain = d.Planner.DefaultDomain
	}
	if c.Server.Name == "" {
		c.Server.Name = d.Server.Name
	}
	if c.Server.MaxConcurrent == 0 {
		c.Server.MaxConcurrent = d.Server.MaxConcurrent
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = d.Server.Timeout
	}
}

// Duration is a time.Duration that supports JSON, YAML and TOML string representation.
type Duration time.Duration

// MarshalJSON implements json.Marshaler.
func (d Duration) MarshalJSON() ([]byte, error) {
	return []byte(`"` + time.Duration(d).String() + `"`), nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Duration) UnmarshalJSON(b []byte) error {
	// Handle null
	if string(b) == "null" {
		return nil
	}

	s := string(b)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = s[1 : len(s)-1]
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	return d.UnmarshalText([]byte(s))
}

// MarshalText implements encoding.TextMarshaler; TOML uses it.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(b []byte) error {
	dur, err := time.ParseDuration(string(b))
	if err != nil {
		return err
	}
	*d = Duration(dur)
	return nil
}

// Duration returns the underlying time.Duration.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
