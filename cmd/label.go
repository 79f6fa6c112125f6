package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/hubugs/internal/bugs"
)

func addLabelFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("add", "a", nil, "Add label to issue (repeatable)")
	cmd.Flags().StringArrayP("create", "c", nil, "Create new label and add to issue (repeatable)")
}

func newLabelCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "label [bug...]",
		Short: "Label bugs",
		Long: `Add, create or remove labels on bugs, or list the project's labels.

Examples:
  # List available labels
  hubugs label -l

  # Label bugs 2 and 3 as 'feature', removing 'bug'
  hubugs label -a feature -r bug 2 3`,
		RunE: func(cmd *cobra.Command, args []string) error {
			add, _ := cmd.Flags().GetStringArray("add")
			create, _ := cmd.Flags().GetStringArray("create")
			remove, _ := cmd.Flags().GetStringArray("remove")
			list, _ := cmd.Flags().GetBool("list")
			nums, err := bugNumbers(args)
			if err != nil {
				return err
			}

			svc, err := a.service(cmd, false)
			if err != nil {
				return err
			}
			if list {
				names, err := svc.ListLabels(cmd.Context(), add, create)
				if err != nil {
					return err
				}
				fmt.Fprintln(a.stdout, names)
				return nil
			}

			results, err := svc.Label(cmd.Context(), bugs.LabelOptions{Add: add, Create: create, Remove: remove}, nums)
			a.report(results)
			return err
		},
	}

	addLabelFlags(cmd)
	cmd.Flags().StringArrayP("remove", "r", nil, "Remove label from issue (repeatable)")
	cmd.Flags().BoolP("list", "l", false, "List available labels")
	return projectShorthand(cmd)
}
