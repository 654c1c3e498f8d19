package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	infraconfig "github.com/felixgeelhaar/popsolver/infrastructure/config"
	"github.com/felixgeelhaar/popsolver/infrastructure/domains"
)

type validateOptions struct {
	strict     bool
	showSchema bool
}

func (a *App) newValidateCmd() *cobra.Command {
	opts := &validateOptions{}

	cmd := &cobra.Command{
		Use:   "validate [domain-file...]",
		Short: "Validate domain files and the configuration",
		Long: `Validate domain files, the configuration file, or both.

Each domain file is parsed and every operator is checked: parameters must be
declared, conditions must parse and use the declared predicates, and no
operator may both add and delete the same condition. When --config is given
the configuration is loaded, validated and built.

Examples:
  popsolver validate domains/kitchen.yaml
  popsolver validate -c popsolver.yaml --strict
  popsolver validate --schema`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.showSchema {
				return a.printSchema()
			}
			if len(args) == 0 && a.global.configPath == "" {
				return errors.New("nothing to validate: pass domain files or --config")
			}
			if a.global.configPath != "" {
				if err := a.validateConfig(opts); err != nil {
					return err
				}
			}
			return a.validateDomains(args)
		},
	}

	cmd.Flags().BoolVar(&opts.strict, "strict", false, "Fail on missing environment variables")
	cmd.Flags().BoolVar(&opts.showSchema, "schema", false, "Show the JSON schema for configuration")

	return cmd
}

func (a *App) validateConfig(opts *validateOptions) error {
	loader := infraconfig.NewLoaderWithOptions(infraconfig.WithStrictEnv(opts.strict))
	cfg, err := loader.LoadFile(a.global.configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}
	if a.global.domainsDir != "" {
		cfg.Domains.Dir = a.global.domainsDir
	}
	result, err := infraconfig.NewBuilder(cfg).Build()
	if err != nil {
		return fmt.Errorf("configuration build failed: %w", err)
	}

	fmt.Fprintf(a.stdout, "✓ Configuration is valid\n")
	fmt.Fprintf(a.stdout, "  Name: %s\n", cfg.Name)
	fmt.Fprintf(a.stdout, "  Version: %s\n", cfg.Version)
	fmt.Fprintf(a.stdout, "  Domains: %v\n", result.Catalog.Names())
	fmt.Fprintf(a.stdout, "  Default domain: %s\n", result.DefaultDomain)
	fmt.Fprintf(a.stdout, "  Max goals: %d\n", result.MaxGoals)
	return nil
}

func (a *App) validateDomains(paths []string) error {
	var failed int
	for _, path := range paths {
		lib, err := domains.LoadFile(path)
		if err != nil {
			failed++
			fmt.Fprintf(a.stdout, "✗ %v\n", err)
			continue
		}
		fmt.Fprintf(a.stdout, "✓ %s: domain %s with %d operators\n", path, lib.Name(), len(lib.Templates()))
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d domain files are invalid", failed, len(paths))
	}
	return nil
}

func (a *App) printSchema() error {
	schemaJSON, err := infraconfig.SchemaJSON()
	if err != nil {
		return fmt.Errorf("failed to generate schema: %w", err)
	}
	fmt.Fprintln(a.stdout, schemaJSON)
	return nil
}
