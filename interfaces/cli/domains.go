package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/popsolver/domain/planning"
	"github.com/felixgeelhaar/popsolver/interfaces/tools"
)

func (a *App) newDomainsCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "domains",
		Short: "List and inspect planning domains",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List the available domains",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.setup()
			if err != nil {
				return err
			}
			defer rt.close()

			catalog := rt.engine.Catalog()
			if jsonOutput {
				var out []tools.DomainSummary
				for _, name := range catalog.Names() {
					lib, err := catalog.Library(name)
					if err != nil {
						return err
					}
					out = append(out, tools.Summarize(lib))
				}
				return a.writeJSON(out)
			}

			for _, name := range catalog.Names() {
				lib, err := catalog.Library(name)
				if err != nil {
					return err
				}
				fmt.Fprintf(a.stdout, "%s", lib.Name())
				if lib.Version() != "" {
					fmt.Fprintf(a.stdout, " (v%s)", lib.Version())
				}
				if len(lib.Aliases()) > 0 {
					fmt.Fprintf(a.stdout, " aliases: %s", strings.Join(lib.Aliases(), ", "))
				}
				fmt.Fprintln(a.stdout)
				if lib.Description() != "" {
					fmt.Fprintf(a.stdout, "  %s\n", lib.Description())
				}
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <domain>",
		Short: "Show the operator table of a domain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.setup()
			if err != nil {
				return err
			}
			defer rt.close()

			lib, err := rt.engine.Catalog().Library(args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return a.writeJSON(tools.Summarize(lib))
			}
			a.printLibrary(lib)
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output as JSON")
	cmd.AddCommand(list, show)
	return cmd
}

func (a *App) printLibrary(lib *planning.Library) {
	fmt.Fprintf(a.stdout, "Domain: %s\n", lib.Name())
	if lib.Version() != "" {
		fmt.Fprintf(a.stdout, "Version: %s\n", lib.Version())
	}
	if lib.Description() != "" {
		fmt.Fprintf(a.stdout, "Description: %s\n", lib.Description())
	}
	fmt.Fprintf(a.stdout, "\nOperators (%d):\n", len(lib.Templates()))
	for _, t := range lib.Templates() {
		fmt.Fprintf(a.stdout, "\n  %s\n", t.Signature())
		fmt.Fprintf(a.stdout, "    pre:  %s\n", strings.Join(planning.ConditionStrings(t.Preconditions), " ^ "))
		fmt.Fprintf(a.stdout, "    post: %s\n", strings.Join(planning.ConditionStrings(t.Postconditions), " ^ "))
	}
}

func (a *App) writeJSON(v any) error {
	enc := json.NewEncoder(a.stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
