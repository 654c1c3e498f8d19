package config

import (
	"encoding/json"
	"testing"
	"time"

	"gopkg.in/yaml.v3"
)

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := Default()
	if cfg.Planner.MaxGoals != DefaultMaxGoals {
		t.Errorf("MaxGoals = %d, want %d", cfg.Planner.MaxGoals, DefaultMaxGoals)
	}
	if cfg.Planner.DefaultDomain != "robot" {
		t.Errorf("DefaultDomain = %q, want robot", cfg.Planner.DefaultDomain)
	}
	if cfg.Server.Timeout.Duration() != 30*time.Second {
		t.Errorf("Timeout = %v, want 30s", cfg.Server.Timeout.Duration())
	}
	if errs := NewValidator().Validate(cfg); errs.HasErrors() {
		t.Errorf("Default() is invalid: %v", errs)
	}
}

func TestApplyDefaults(t *testing.T) {
	t.Parallel()

	cfg := &ServiceConfig{
		Name:    "custom",
		Version: "2",
		Planner: PlannerConfig{MaxGoals: 50},
	}
	cfg.ApplyDefaults()

	if cfg.Planner.MaxGoals != 50 {
		t.Errorf("MaxGoals = %d, want 50 (explicit value kept)", cfg.Planner.MaxGoals)
	}
	if cfg.Planner.DefaultDomain != DefaultDomain {
		t.Errorf("DefaultDomain = %q", cfg.Planner.DefaultDomain)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.Server.MaxConcurrent != DefaultMaxConcurrent {
		t.Errorf("MaxConcurrent = %d", cfg.Server.MaxConcurrent)
	}
	if cfg.Name != "custom" {
		t.Errorf("Name = %q", cfg.Name)
	}
}

func TestDuration_JSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   string
		want    time.Duration
		wantErr bool
	}{
		{name: "seconds", input: `"5s"`, want: 5 * time.Second},
		{name: "minutes", input: `"1m30s"`, want: 90 * time.Second},
		{name: "null", input: `null`, want: 0},
		{name: "invalid", input: `"soon"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var d Duration
			err := json.Unmarshal([]byte(tt.input), &d)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && d.Duration() != tt.want {
				t.Errorf("Duration = %v, want %v", d.Duration(), tt.want)
			}
		})
	}

	out, err := json.Marshal(Duration(2 * time.Second))
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != `"2s"` {
		t.Errorf("Marshal() = %s, want \"2s\"", out)
	}
}

func TestDuration_YAML(t *testing.T) {
	t.Parallel()

	var s ServerConfig
	if err := yaml.Unmarshal([]byte("timeout: 250ms\n"), &s); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if s.Timeout.Duration() != 250*time.Millisecond {
		t.Errorf("Timeout = %v, want 250ms", s.Timeout.Duration())
	}

	out, err := yaml.Marshal(ServerConfig{Timeout: Duration(time.Minute)})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if string(out) != "timeout: 1m0s\n" {
		t.Errorf("Marshal() = %q", out)
	}
}

func TestDuration_Text(t *testing.T) {
	t.Parallel()

	var d Duration
	if err := d.UnmarshalText([]byte("3s")); err != nil {
		t.Fatalf("UnmarshalText() error = %v", err)
	}
	text, _ := d.MarshalText()
	if string(text) != "3s" {
		t.Errorf("MarshalText() = %q, want 3s", text)
	}
}
