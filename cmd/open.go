package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/hubugs/internal/bugs"
)

// textOptions merges --title/--body with positional title and body
// arguments. Flags win over positional text.
func textOptions(cmd *cobra.Command, positional []string) bugs.TextOptions {
	title, _ := cmd.Flags().GetString("title")
	body, _ := cmd.Flags().GetString("body")
	stdin, _ := cmd.Flags().GetBool("stdin")
	if title == "" && len(positional) > 0 {
		title = positional[0]
	}
	if body == "" && len(positional) > 1 {
		body = positional[1]
	}
	return bugs.TextOptions{Title: title, Body: body, Stdin: stdin}
}

func addTextFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("stdin", false, "Read message from standard input")
	cmd.Flags().String("title", "", "Title for the bug")
	cmd.Flags().String("body", "", "Body text for the bug")
}

// splitEditArgs separates leading title and body text from the trailing bug
// numbers.
func splitEditArgs(args []string) ([]string, []int, error) {
	i := len(args)
	for i > 0 {
		if _, err := strconv.Atoi(args[i-1]); err != nil {
			break
		}
		i--
	}
	text := args[:i]
	if len(text) > 2 {
		return nil, nil, &bugs.InputError{Message: "too many arguments, expected [title] [body] <bug>..."}
	}
	nums, err := bugNumbers(args[i:])
	if err != nil {
		return nil, nil, err
	}
	if len(nums) == 0 {
		return nil, nil, &bugs.InputError{Message: "no bugs specified"}
	}
	return text, nums, nil
}

func newOpenCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open [title] [body]",
		Short: "Open a new bug",
		Long: `Open a new bug.

Without a title the bug is composed in your editor; the first line is the
title and the remaining lines are the body.

Examples:
  # Compose a bug in the editor and label it 'bug'
  hubugs open -a bug

  # Open a bug from the command line, creating a new label
  hubugs open -c regression "Pager ignores LESS" "Set LESS=R and run list"

  # Read the bug text from a pipe
  git log -1 --format=%B | hubugs open --stdin`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			add, _ := cmd.Flags().GetStringArray("add")
			create, _ := cmd.Flags().GetStringArray("create")

			svc, err := a.service(cmd, false)
			if err != nil {
				return err
			}
			n, err := svc.Open(cmd.Context(), bugs.OpenOptions{
				TextOptions: textOptions(cmd, args),
				Add:         add,
				Create:      create,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Bug %d opened\n", n)
			return nil
		},
	}

	addLabelFlags(cmd)
	addTextFlags(cmd)
	return projectShorthand(cmd)
}

func newEditCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit [title] [body] <bug>...",
		Short: "Edit bugs",
		Long: `Edit the title and body of bugs.

Each bug is loaded into your editor unless a title is given or --stdin is set;
both of those only work with a single bug.

Every trailing numeric argument is a bug number, so a purely numeric title
must be given with --title.

Examples:
  # Edit bugs 5 and 6 in turn
  hubugs edit 5 6

  # Retitle bug 5
  hubugs edit "Crash on empty label list" 5

  # Retitle bug 5 to a number
  hubugs edit --title 2024 5`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, nums, err := splitEditArgs(args)
			if err != nil {
				return err
			}

			svc, err := a.service(cmd, false)
			if err != nil {
				return err
			}
			results, err := svc.Edit(cmd.Context(), textOptions(cmd, text), nums)
			a.report(results)
			return err
		},
	}

	addTextFlags(cmd)
	return projectShorthand(cmd)
}
