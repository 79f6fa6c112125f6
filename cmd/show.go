package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/hubugs/internal/bugs"
)

func newShowCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <bug>...",
		Short: "Display bugs",
		Long: `Display one or more bugs.

Examples:
  # Show bug 12 with its comments
  hubugs show -f 12

  # Show the patch attached to pull request 31
  hubugs show -o 31

  # Open bugs 3 and 4 in a web browser
  hubugs show -b 3 4`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			full, _ := cmd.Flags().GetBool("full")
			patch, _ := cmd.Flags().GetBool("patch")
			patchOnly, _ := cmd.Flags().GetBool("patch-only")
			browse, _ := cmd.Flags().GetBool("browse")
			nums, err := bugNumbers(args)
			if err != nil {
				return err
			}

			svc, err := a.service(cmd, false)
			if err != nil {
				return err
			}
			results, err := svc.Show(cmd.Context(), bugs.ShowOptions{
				Full:      full,
				Patch:     patch,
				PatchOnly: patchOnly,
				Browse:    browse,
			}, nums)
			if err != nil {
				return err
			}

			var pages []string
			for _, r := range results {
				if r.Err != nil {
					a.report([]bugs.Result{r})
					continue
				}
				if r.Output != "" {
					pages = append(pages, r.Output)
				}
			}
			return a.page(cmd, strings.Join(pages, "\n"))
		},
	}

	cmd.Flags().BoolP("full", "f", false, "Show bug including comments")
	cmd.Flags().BoolP("patch", "p", false, "Display patches for pull requests")
	cmd.Flags().BoolP("patch-only", "o", false, "Display only the patch content of pull requests")
	cmd.Flags().BoolP("browse", "b", false, "Open bug in web browser")
	return cmd
}
