package config

import (
	"fmt"
	"os"

	domainconfig "github.com/felixgeelhaar/popsolver/domain/config"
	"github.com/felixgeelhaar/popsolver/infrastructure/domains"
	"github.com/felixgeelhaar/popsolver/infrastructure/logging"
	"github.com/felixgeelhaar/popsolver/infrastructure/resilience"
	"github.com/felixgeelhaar/popsolver/infrastructure/telemetry"
)

// Builder builds service components from configuration.
type Builder struct {
	config *domainconfig.ServiceConfig
}

// NewBuilder creates a new configuration builder.
func NewBuilder(config *domainconfig.ServiceConfig) *Builder {
	return &Builder{config: config}
}

// BuildResult contains the components built from configuration.
type BuildResult struct {
	// Catalog resolves domain names to operator libraries.
	Catalog *domains.Catalog
	// Logging configures the process logger.
	Logging logging.Config
	// Metrics records engine outcomes. Noop unless telemetry.metrics is set.
	Metrics telemetry.Metrics
	// Guard bounds tool calls in the server.
	Guard resilience.GuardConfig
	// MaxGoals is the planner search limit.
	MaxGoals int
	// DefaultDomain is used when a request names no domain.
	DefaultDomain string
	// FewestUnmetFirst selects the fewest-unmet operator choice.
	FewestUnmetFirst bool
	// ServerName is the name announced to MCP clients.
	ServerName string
	// Watch enables hot reload of the domain directory.
	Watch bool
	// Tracing enables span export.
	Tracing bool
}

// Build builds the service components from configuration.
// Failures wrap domainconfig.ErrBuildFailed.
func (b *Builder) Build() (*BuildResult, error) {
	cfg := *b.config
	cfg.ApplyDefaults()

	catalog, err := b.buildCatalog(&cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: building catalog: %v", domainconfig.ErrBuildFailed, err)
	}
	if _, err := catalog.Library(cfg.Planner.DefaultDomain); err != nil {
		return nil, fmt.Errorf("%w: default domain: %v", domainconfig.ErrBuildFailed, err)
	}

	result := &BuildResult{
		Catalog: catalog,
		Logging: logging.Config{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			Output: os.Stderr,
		},
		Metrics: telemetry.NoopMetricsProvider{},
		Guard: resilience.GuardConfig{
			MaxConcurrent:    cfg.Server.MaxConcurrent,
			Timeout:          cfg.Server.Timeout.Duration(),
			BreakerThreshold: resilience.DefaultGuardConfig().BreakerThreshold,
			BreakerTimeout:   resilience.DefaultGuardConfig().BreakerTimeout,
		},
		MaxGoals:      cfg.Planner.MaxGoals,
		DefaultDomain: cfg.Planner.DefaultDomain,
		ServerName:    cfg.Server.Name,
		Watch:         cfg.Domains.Watch,
		Tracing:       cfg.Telemetry.Tracing,

		FewestUnmetFirst: cfg.Planner.FewestUnmetFirst,
	}

	if cfg.Telemetry.Metrics {
		mc := telemetry.DefaultMetricsConfig()
		mc.MeterVersion = cfg.Version
		mp := telemetry.NewMetricsProvider(mc)
		if err := mp.Error(); err != nil {
			return nil, fmt.Errorf("%w: metrics: %v", domainconfig.ErrBuildFailed, err)
		}
		result.Metrics = mp
	}

	return result, nil
}

func (b *Builder) buildCatalog(cfg *domainconfig.ServiceConfig) (*domains.Catalog, error) {
	var opts []domains.CatalogOption
	if cfg.Domains.Dir != "" {
		opts = append(opts, domains.WithDirectory(cfg.Domains.Dir))
	}
	if cfg.Domains.DisableBuiltins {
		opts = append(opts, domains.WithoutBuiltins())
	}
	return domains.NewCatalog(opts...)
}
