package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/popsolver/application"
	"github.com/felixgeelhaar/popsolver/domain/planning"
)

type applyOptions struct {
	domain     string
	state      []string
	bindings   map[string]string
	jsonOutput bool
}

func (a *App) newApplyCmd() *cobra.Command {
	opts := &applyOptions{}

	cmd := &cobra.Command{
		Use:   "apply <operator>",
		Short: "Apply one operator to a state",
		Long: `Apply one operator to a start state and print the resulting state.

Examples:
  popsolver apply climb-ladder --state "On(Robot, Floor) ^ Dry(Ladder)"

  popsolver apply --domain blocks stack --bind block1=A --bind block2=B \
    --state "Holding(A)" --state "Clear(B)"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.setup()
			if err != nil {
				return err
			}
			defer rt.close()

			state := splitConditions(opts.state)
			result, err := rt.engine.ApplyOperator(cmd.Context(), application.ApplyRequest{
				Domain:   opts.domain,
				State:    state,
				Operator: args[0],
				Bindings: opts.bindings,
			})
			var pre *planning.PreconditionError
			if errors.As(err, &pre) {
				return fmt.Errorf("operator '%s' cannot be applied to start state '%s': precondition '%s' is not met",
					pre.Operator, strings.Join(state, " ^ "), pre.Condition)
			}
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return a.writeJSON(result)
			}
			fmt.Fprintf(a.stdout, "%s\n", strings.Join(result.ResultState, " ^ "))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.domain, "domain", "d", "", "Domain name or alias (default from config)")
	cmd.Flags().StringArrayVarP(&opts.state, "state", "s", nil, "Start condition; repeat or join with ^")
	cmd.Flags().StringToStringVarP(&opts.bindings, "bind", "b", nil, "Parameter binding (param=value)")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the result as JSON")

	return cmd
}
