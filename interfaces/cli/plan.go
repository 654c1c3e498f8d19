package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/popsolver/application"
	"github.com/felixgeelhaar/popsolver/domain/planning"
	"github.com/felixgeelhaar/popsolver/interfaces/tools"
)

type planOptions struct {
	domain     string
	start      []string
	goals      []string
	verbose    bool
	jsonOutput bool
}

func (a *App) newPlanCmd() *cobra.Command {
	opts := &planOptions{}

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build a plan from a start state to goal conditions",
		Long: `Build an ordered plan that turns the start state into one where every goal holds.

Goals are planned one at a time in the order given.

Examples:
  popsolver plan --start "On(Robot, Floor) ^ Dry(Ladder) ^ Dry(Ceiling)" \
    --goal "Painted(Ceiling)" --goal "Painted(Ladder)"

  popsolver plan -d blocks --start "On(A, Table) ^ On(B, Table) ^ Clear(A) ^ Clear(B)" \
    --goal "On(A, B)" --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.setup()
			if err != nil {
				return err
			}
			defer rt.close()

			plan, err := rt.engine.CreatePlan(cmd.Context(), application.PlanRequest{
				Domain: opts.domain,
				Start:  splitConditions(opts.start),
				Goals:  splitConditions(opts.goals),
			})
			if err != nil {
				return err
			}

			if opts.jsonOutput {
				return a.writeJSON(tools.NewPlanOutput(plan))
			}
			a.printPlan(plan, opts.verbose)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.domain, "domain", "d", "", "Domain name or alias (default from config)")
	cmd.Flags().StringArrayVarP(&opts.start, "start", "s", nil, "Start condition; repeat or join with ^")
	cmd.Flags().StringArrayVarP(&opts.goals, "goal", "g", nil, "Goal condition; repeat or join with ^")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Print the state after every step")
	cmd.Flags().BoolVar(&opts.jsonOutput, "json", false, "Output the plan as JSON")
	_ = cmd.MarkFlagRequired("goal")

	return cmd
}

func (a *App) printPlan(plan *planning.Plan, verbose bool) {
	fmt.Fprintf(a.stdout, "Plan %s (%s)\n", plan.ID, plan.Domain)
	fmt.Fprintf(a.stdout, "Goals: %s\n", strings.Join(planning.ConditionStrings(plan.Goals), " ^ "))
	if plan.IsEmpty() {
		fmt.Fprintln(a.stdout, "Goals already hold; no steps needed.")
		return
	}
	for i, step := range plan.Steps {
		fmt.Fprintf(a.stdout, "%2d. %-20s establishes %s\n", i+1, step, step.Establishes)
		if verbose {
			fmt.Fprintf(a.stdout, "    state: %s\n", plan.States[i+1])
		}
	}
}
