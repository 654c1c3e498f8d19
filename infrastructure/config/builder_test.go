package config

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	domainconfig "github.com/felixgeelhaar/popsolver/domain/config"
	"github.com/felixgeelhaar/popsolver/infrastructure/telemetry"
)

const lightsDomain = `
name: lights
version: "1"
operators:
  - name: switch-on
    preconditions:
      - Off(Lamp)
    postconditions:
      - Lit(Lamp)
      - ¬Off(Lamp)
`

func TestBuilder_Defaults(t *testing.T) {
	t.Parallel()

	result, err := NewBuilder(domainconfig.Default()).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := result.Catalog.Names(); len(got) != 2 {
		t.Errorf("Catalog.Names() = %v, want the two built-in domains", got)
	}
	if result.MaxGoals != domainconfig.DefaultMaxGoals {
		t.Errorf("MaxGoals = %d", result.MaxGoals)
	}
	if result.DefaultDomain != domainconfig.DefaultDomain {
		t.Errorf("DefaultDomain = %q", result.DefaultDomain)
	}
	if result.Guard.MaxConcurrent != domainconfig.DefaultMaxConcurrent || result.Guard.Timeout != domainconfig.DefaultTimeout {
		t.Errorf("Guard = %+v", result.Guard)
	}
	if result.Logging.Level != "info" || result.Logging.Format != "json" || result.Logging.Output == nil {
		t.Errorf("Logging = %+v", result.Logging)
	}
	if _, ok := result.Metrics.(telemetry.NoopMetricsProvider); !ok {
		t.Errorf("Metrics = %T, want NoopMetricsProvider", result.Metrics)
	}
	if result.FewestUnmetFirst {
		t.Error("FewestUnmetFirst should be off by default")
	}
}

func TestBuilder_FewestUnmetFirst(t *testing.T) {
	t.Parallel()

	cfg, err := NewLoader().LoadString("planner:\n  fewest_unmet_first: true\n", FormatYAML)
	if err != nil {
		t.Fatalf("LoadString() error = %v", err)
	}
	result, err := NewBuilder(cfg).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if !result.FewestUnmetFirst {
		t.Error("FewestUnmetFirst = false, want true")
	}
}

func TestBuilder_DomainDirectory(t *testing.T) {
	t.Parallel()

	path := writeFile(t, "lights.yaml", lightsDomain)
	cfg := domainconfig.Default()
	cfg.Domains.Dir = filepath.Dir(path)
	cfg.Domains.DisableBuiltins = true
	cfg.Planner.DefaultDomain = "lights"
	cfg.Server.Timeout = domainconfig.Duration(2 * time.Second)

	result, err := NewBuilder(cfg).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got := result.Catalog.Names(); len(got) != 1 || got[0] != "lights" {
		t.Errorf("Catalog.Names() = %v, want [lights]", got)
	}
	if result.Guard.Timeout != 2*time.Second {
		t.Errorf("Guard.Timeout = %v", result.Guard.Timeout)
	}
}

func TestBuilder_Metrics(t *testing.T) {
	t.Parallel()

	cfg := domainconfig.Default()
	cfg.Telemetry.Metrics = true
	result, err := NewBuilder(cfg).Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, ok := result.Metrics.(*telemetry.MetricsProvider); !ok {
		t.Fatalf("Metrics = %T, want *MetricsProvider", result.Metrics)
	}
	result.Metrics.RecordApply(context.Background(), "robot", "climb-ladder", nil)
}

func TestBuilder_Errors(t *testing.T) {
	t.Parallel()

	unknownDefault := domainconfig.Default()
	unknownDefault.Planner.DefaultDomain = "kitchen"

	badDir := domainconfig.Default()
	badDir.Domains.Dir = filepath.Dir(writeFile(t, "broken.yaml", "name: broken\noperators: []\n"))

	for name, cfg := range map[string]*domainconfig.ServiceConfig{
		"unknown default domain": unknownDefault,
		"invalid domain file":    badDir,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			if _, err := NewBuilder(cfg).Build(); !errors.Is(err, domainconfig.ErrBuildFailed) {
				t.Errorf("Build() error = %v, want ErrBuildFailed", err)
			}
		})
	}
}
