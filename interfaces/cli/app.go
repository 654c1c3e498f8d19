// Package cli provides the popsolver command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/popsolver"
)

// Version information set at build time.
var (
	Version   = popsolver.Version
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// App represents the CLI application.
type App struct {
	root   *cobra.Command
	stdout io.Writer
	stderr io.Writer
	global globalOptions
}

// globalOptions are the persistent flags shared by every command.
type globalOptions struct {
	configPath string
	logLevel   string
	domainsDir string
	trace      bool
}

// New creates a new CLI application.
func New() *App {
	app := &App{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}

	app.root = &cobra.Command{
		Use:   "popsolver",
		Short: "Partial-order planner for STRIPS-style domains",
		Long: `popsolver builds plans by regressing goals through operator tables.

Given a start state and goal conditions it chains operators backwards from
each goal, orders the chosen steps, checks them for clobbered preconditions
and replays them to record every intermediate state. The engine ships with
the robot-painting and blocks-world domains and can load more from YAML,
JSON or TOML files.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := app.root.PersistentFlags()
	flags.StringVarP(&app.global.configPath, "config", "c", "", "Path to configuration file")
	flags.StringVar(&app.global.logLevel, "log-level", "", "Log level (trace, debug, info, warn, error); overrides config")
	flags.StringVar(&app.global.domainsDir, "domains-dir", "", "Directory of domain files; overrides config")
	flags.BoolVar(&app.global.trace, "trace", false, "Export spans to stderr")

	app.root.AddCommand(
		app.newVersionCmd(),
		app.newDomainsCmd(),
		app.newApplyCmd(),
		app.newPlanCmd(),
		app.newValidateCmd(),
		app.newServeCmd(),
		app.newExportSchemaCmd(),
	)

	return app
}

// WithOutput sets custom output writers.
func (a *App) WithOutput(stdout, stderr io.Writer) *App {
	a.stdout = stdout
	a.stderr = stderr
	a.root.SetOut(stdout)
	a.root.SetErr(stderr)
	return a
}

// Execute runs the CLI application.
func (a *App) Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return a.root.ExecuteContext(ctx)
}

// ExecuteWithArgs runs the CLI with specific arguments (useful for testing).
func (a *App) ExecuteWithArgs(ctx context.Context, args []string) error {
	a.root.SetArgs(args)
	return a.Execute(ctx)
}

func (a *App) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "popsolver version %s\n", Version)
			fmt.Fprintf(a.stdout, "  Git commit: %s\n", GitCommit)
			fmt.Fprintf(a.stdout, "  Build date: %s\n", BuildDate)
		},
	}
}
