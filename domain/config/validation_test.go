package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestValidator_Validate(t *testing.T) {
	t.Parallel()

	valid := func(mutate func(*ServiceConfig)) *ServiceConfig {
		cfg := Default()
		mutate(cfg)
		return cfg
	}

	tests := []struct {
		name      string
		config    *ServiceConfig
		wantPaths []string
	}{
		{
			name:   "default config",
			config: Default(),
		},
		{
			name:   "minimal config",
			config: &ServiceConfig{Name: "p", Version: "1"},
		},
		{
			name:      "missing name and version",
			config:    &ServiceConfig{},
			wantPaths: []string{"name", "version"},
		},
		{
			name:      "unknown log level",
			config:    valid(func(c *ServiceConfig) { c.Log.Level = "loud" }),
			wantPaths: []string{"log.level"},
		},
		{
			name:   "warning level accepted",
			config: valid(func(c *ServiceConfig) { c.Log.Level = "WARNING" }),
		},
		{
			name:      "unknown log format",
			config:    valid(func(c *ServiceConfig) { c.Log.Format = "xml" }),
			wantPaths: []string{"log.format"},
		},
		{
			name:      "negative search limit",
			config:    valid(func(c *ServiceConfig) { c.Planner.MaxGoals = -1 }),
			wantPaths: []string{"planner.max_goals"},
		},
		{
			name:      "padded default domain",
			config:    valid(func(c *ServiceConfig) { c.Planner.DefaultDomain = " robot" }),
			wantPaths: []string{"planner.default_domain"},
		},
		{
			name:      "watch without directory",
			config:    valid(func(c *ServiceConfig) { c.Domains.Watch = true }),
			wantPaths: []string{"domains.watch"},
		},
		{
			name: "no domains at all",
			config: valid(func(c *ServiceConfig) {
				c.Domains.DisableBuiltins = true
			}),
			wantPaths: []string{"domains.disable_builtins"},
		},
		{
			name: "negative server limits",
			config: valid(func(c *ServiceConfig) {
				c.Server.MaxConcurrent = -2
				c.Server.Timeout = Duration(-time.Second)
			}),
			wantPaths: []string{"server.max_concurrent", "server.timeout"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			errs := NewValidator().Validate(tt.config)
			if len(tt.wantPaths) == 0 {
				if errs.HasErrors() {
					t.Errorf("expected no errors, got: %v", errs)
				}
				return
			}
			if !reflect.DeepEqual(errs.Paths(), tt.wantPaths) {
				t.Errorf("paths = %v, want %v", errs.Paths(), tt.wantPaths)
			}
		})
	}
}

func TestValidationErrors_Error(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		errs ValidationErrors
		want string
	}{
		{name: "empty", errs: nil, want: "no validation errors"},
		{
			name: "single",
			errs: ValidationErrors{{Path: "name", Message: "name is required"}},
			want: "name: name is required",
		},
		{
			name: "no path",
			errs: ValidationErrors{{Message: "broken"}},
			want: "broken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.errs.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}

	multi := ValidationErrors{
		{Path: "name", Message: "name is required"},
		{Path: "version", Message: "version is required"},
	}
	if got := multi.Error(); !strings.HasPrefix(got, "2 validation errors:") {
		t.Errorf("Error() = %q", got)
	}
}
