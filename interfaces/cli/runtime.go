package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/felixgeelhaar/popsolver/application"
	domainconfig "github.com/felixgeelhaar/popsolver/domain/config"
	infraconfig "github.com/felixgeelhaar/popsolver/infrastructure/config"
	"github.com/felixgeelhaar/popsolver/infrastructure/logging"
	"github.com/felixgeelhaar/popsolver/infrastructure/telemetry"
)

// runtime is everything a command needs once configuration is resolved.
type runtime struct {
	config   *domainconfig.ServiceConfig
	build    *infraconfig.BuildResult
	engine   *application.Engine
	shutdown func(context.Context) error
}

func (r *runtime) close() {
	if r.shutdown != nil {
		_ = r.shutdown(context.Background())
	}
}

// loadConfig reads --config (or the defaults) and applies flag overrides.
func (a *App) loadConfig() (*domainconfig.ServiceConfig, error) {
	cfg, err := infraconfig.NewLoader().LoadOrDefault(a.global.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if a.global.logLevel != "" {
		cfg.Log.Level = a.global.logLevel
	}
	if a.global.domainsDir != "" {
		cfg.Domains.Dir = a.global.domainsDir
	}
	if a.global.trace {
		cfg.Telemetry.Tracing = true
	}
	return cfg, nil
}

// setup loads configuration, installs the logger and tracer, and builds the engine.
func (a *App) setup() (*runtime, error) {
	cfg, err := a.loadConfig()
	if err != nil {
		return nil, err
	}

	build, err := infraconfig.NewBuilder(cfg).Build()
	if err != nil {
		return nil, err
	}

	build.Logging.Output = a.stderr
	logging.Init(build.Logging)

	rt := &runtime{config: cfg, build: build}
	if build.Tracing {
		rt.shutdown, err = telemetry.SetupTracing(a.stderr, cfg.Name, Version)
		if err != nil {
			return nil, fmt.Errorf("failed to set up tracing: %w", err)
		}
	}

	rt.engine, err = application.NewEngine(application.EngineConfig{
		Catalog:       build.Catalog,
		Metrics:       build.Metrics,
		MaxGoals:      build.MaxGoals,
		DefaultDomain: build.DefaultDomain,

		FewestUnmetFirst: build.FewestUnmetFirst,
	})
	if err != nil {
		rt.close()
		return nil, err
	}
	return rt, nil
}

// splitConditions accepts repeated flags as well as `A ^ B` conjunctions.
func splitConditions(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, "^") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
