package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/hubugs/internal/bugs"
)

var (
	milestoneOrders = []string{"number", "due_date", "completeness"}
	milestoneStates = []string{"open", "closed"}
)

func newMilestoneCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestone <title> [bug...]",
		Short: "Assign bugs to a milestone",
		Long: `Assign bugs to the milestone with the given title.

Examples:
  # Schedule bugs 4 and 9 for 1.0
  hubugs milestone 1.0 4 9`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums, err := bugNumbers(args[1:])
			if err != nil {
				return err
			}
			svc, err := a.service(cmd, false)
			if err != nil {
				return err
			}
			results, err := svc.Milestone(cmd.Context(), args[0], nums)
			a.report(results)
			return err
		},
	}
	return projectShorthand(cmd)
}

func newMilestonesCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "milestones",
		Short: "List or create milestones",
		Long: `List the project's milestones, or create a new one.

Examples:
  # List open milestones, nearest due date first
  hubugs milestones -l -o due_date

  # Create a milestone
  hubugs milestones -c 2.0`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			order, _ := cmd.Flags().GetString("order")
			state, _ := cmd.Flags().GetString("state")
			create, _ := cmd.Flags().GetString("create")
			list, _ := cmd.Flags().GetBool("list")
			if err := oneOf("order", order, milestoneOrders); err != nil {
				return err
			}
			if err := oneOf("state", state, milestoneStates); err != nil {
				return err
			}

			svc, err := a.service(cmd, false)
			if err != nil {
				return err
			}
			out, err := svc.Milestones(cmd.Context(), bugs.MilestonesOptions{
				Order:  order,
				State:  state,
				Create: create,
				List:   list,
			})
			if err != nil {
				return err
			}
			if list {
				return a.page(cmd, out)
			}
			fmt.Fprintln(a.stdout, out)
			return nil
		},
	}

	cmd.Flags().StringP("order", "o", "number", "Sort order for listing milestones (number, due_date, completeness)")
	cmd.Flags().StringP("state", "s", "open", "State of milestones to operate on (open, closed)")
	cmd.Flags().StringP("create", "c", "", "Create new milestone")
	cmd.Flags().BoolP("list", "l", false, "List available milestones")
	return projectShorthand(cmd)
}
