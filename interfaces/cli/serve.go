package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/popsolver/infrastructure/domains"
	"github.com/felixgeelhaar/popsolver/infrastructure/logging"
	"github.com/felixgeelhaar/popsolver/infrastructure/mcp"
	"github.com/felixgeelhaar/popsolver/infrastructure/resilience"
	"github.com/felixgeelhaar/popsolver/interfaces/tools"
)

const serverInstructions = `Planning tools for STRIPS-style domains.
Use list_domains to see the operators of each domain, apply_operator to step a state forward,
and create_plan to get an ordered operator sequence from a start state to goal conditions.
Conditions are written like On(Robot, Floor); prefix ¬ to negate.`

func (a *App) newServeCmd() *cobra.Command {
	var listTools bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the planning tools over MCP stdio",
		Long: `Serve apply_operator, create_plan and list_domains to MCP clients over
stdin/stdout. Logs go to stderr. When domains.watch is set the domain
directory is reloaded whenever its files change.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.setup()
			if err != nil {
				return err
			}
			defer rt.close()

			server, err := a.newServer(rt)
			if err != nil {
				return err
			}
			if listTools {
				return a.writeJSON(server.Definitions())
			}

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			if rt.build.Watch {
				watcher, err := domains.NewWatcher(rt.build.Catalog)
				if err != nil {
					return fmt.Errorf("failed to watch domains: %w", err)
				}
				defer watcher.Close()
				go func() {
					if err := watcher.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
						logging.Error().
							Add(logging.Component("watcher")).
							Add(logging.ErrorField(err)).
							Msg("watcher stopped")
					}
				}()
			}

			return server.ServeStdio(ctx)
		},
	}

	cmd.Flags().BoolVar(&listTools, "list-tools", false, "Print the tool definitions as JSON and exit")
	return cmd
}

func (a *App) newServer(rt *runtime) (*mcp.Server, error) {
	registry, err := tools.NewRegistry(rt.engine)
	if err != nil {
		return nil, err
	}
	return mcp.NewServer(mcp.ServerConfig{
		Name:         rt.build.ServerName,
		Version:      Version,
		Description:  "Partial-order planning engine",
		Instructions: serverInstructions,
		Registry:     registry,
		Guard:        resilience.NewGuard(rt.build.Guard),
		Metrics:      rt.build.Metrics,
	}), nil
}
