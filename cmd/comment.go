package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/danielolaszy/hubugs/internal/bugs"
)

func messageOptions(cmd *cobra.Command) bugs.MessageOptions {
	message, _ := cmd.Flags().GetString("message")
	stdin, _ := cmd.Flags().GetBool("stdin")
	return bugs.MessageOptions{Message: message, Stdin: stdin}
}

func addMessageFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("message", "m", "", "Comment text")
	cmd.Flags().Bool("stdin", false, "Read message from standard input")
}

func newCommentCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "comment <bug>...",
		Short: "Comment on bugs",
		Long: `Add a comment to one or more bugs.

Without --message or --stdin the comment is composed in your editor.

Examples:
  # Comment on bug 8
  hubugs comment -m "Fixed in 1a2b3c4" 8`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums, err := bugNumbers(args)
			if err != nil {
				return err
			}
			svc, err := a.service(cmd, false)
			if err != nil {
				return err
			}
			results, err := svc.Comment(cmd.Context(), messageOptions(cmd), nums)
			a.report(results)
			return err
		},
	}

	addMessageFlags(cmd)
	return projectShorthand(cmd)
}

type stateHandler func(*bugs.Service, context.Context, bugs.MessageOptions, []int) ([]bugs.Result, error)

// newStateCommand builds close and reopen, which differ only in the state
// they set.
func newStateCommand(a *app, name, short string, handler stateHandler) *cobra.Command {
	cmd := &cobra.Command{
		Use:   name + " <bug>...",
		Short: short,
		Long: short + `.

A comment may be given with --message or --stdin, or composed in your editor.
Leaving the editor empty skips the comment.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			nums, err := bugNumbers(args)
			if err != nil {
				return err
			}
			svc, err := a.service(cmd, false)
			if err != nil {
				return err
			}
			results, err := handler(svc, cmd.Context(), messageOptions(cmd), nums)
			a.report(results)
			return err
		},
	}

	addMessageFlags(cmd)
	return projectShorthand(cmd)
}
