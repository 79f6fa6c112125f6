package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/hubugs/internal/bugs"
)

var (
	states = []string{"open", "closed", "all"}
	orders = []string{"number", "updated", "priority"}
)

// oneOf checks a flag value against its allowed choices.
func oneOf(flag, value string, choices []string) error {
	for _, c := range choices {
		if value == c {
			return nil
		}
	}
	return &bugs.InputError{Message: "invalid value for --" + flag + ": " + value + " (choose from " + strings.Join(choices, ", ") + ")"}
}

func newListCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List bugs",
		Long: `List the project's bugs.

Examples:
  # List open bugs
  hubugs list

  # List all bugs labelled 'feature', most recently updated last
  hubugs list -s all -l feature -o updated

  # List open pull requests
  hubugs list -r`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			state, _ := cmd.Flags().GetString("state")
			order, _ := cmd.Flags().GetString("order")
			labels, _ := cmd.Flags().GetStringArray("label")
			page, _ := cmd.Flags().GetInt("page")
			pulls, _ := cmd.Flags().GetBool("pull-requests")
			if err := oneOf("state", state, states); err != nil {
				return err
			}
			if err := oneOf("order", order, orders); err != nil {
				return err
			}

			svc, err := a.service(cmd, false)
			if err != nil {
				return err
			}
			out, err := svc.List(cmd.Context(), bugs.ListOptions{
				State:        state,
				Labels:       labels,
				Order:        order,
				Page:         page,
				PullRequests: pulls,
			})
			if err != nil {
				return err
			}
			return a.page(cmd, out)
		},
	}

	cmd.Flags().StringP("state", "s", "open", "Display bugs in the given state (open, closed, all)")
	cmd.Flags().StringArrayP("label", "l", nil, "List bugs with the given label (repeatable)")
	cmd.Flags().StringP("order", "o", "number", "Sort order for listing bugs (number, updated, priority)")
	cmd.Flags().IntP("page", "p", 1, "Page number to display")
	cmd.Flags().BoolP("pull-requests", "r", false, "List only bugs that have pull requests")
	return cmd
}

func newSearchCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <term>",
		Short: "Search bugs",
		Long: `Search the project's bugs for a term.

Examples:
  # Search open bugs for 'unicode'
  hubugs search unicode

  # Search open and closed bugs
  hubugs search -s all "pager crash"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			state, _ := cmd.Flags().GetString("state")
			order, _ := cmd.Flags().GetString("order")
			if err := oneOf("state", state, states); err != nil {
				return err
			}
			if err := oneOf("order", order, orders); err != nil {
				return err
			}

			svc, err := a.service(cmd, false)
			if err != nil {
				return err
			}
			out, err := svc.Search(cmd.Context(), bugs.SearchOptions{Term: args[0], State: state, Order: order})
			if err != nil {
				return err
			}
			return a.page(cmd, out)
		},
	}

	cmd.Flags().StringP("state", "s", "open", "Display bugs in the given state (open, closed, all)")
	cmd.Flags().StringP("order", "o", "number", "Sort order for listing bugs (number, updated, priority)")
	return projectShorthand(cmd)
}
