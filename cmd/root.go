// Package cmd provides the command-line interface for hubugs.
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"

	"github.com/danielolaszy/hubugs/internal/bugs"
	"github.com/danielolaszy/hubugs/internal/config"
	"github.com/danielolaszy/hubugs/internal/editor"
	"github.com/danielolaszy/hubugs/internal/gitconfig"
	"github.com/danielolaszy/hubugs/internal/github"
	"github.com/danielolaszy/hubugs/internal/logging"
	"github.com/danielolaszy/hubugs/internal/pager"
	"github.com/danielolaszy/hubugs/internal/render"
)

// Version is the hubugs release.
const Version = "0.1.0"

// app is the per-invocation state shared by the subcommands.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	store  gitconfig.Store
	// hostURL overrides the API host, for tests.
	hostURL string

	svc   *bugs.Service
	pager *pager.Pager
}

// NewRootCommand builds the hubugs command tree.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		store:  gitconfig.Git{},
	})
}

func newRootCommand(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "hubugs",
		Short: "Simple client for GitHub issues",
		Long: `hubugs is a command line client for GitHub issues.

The project is taken from --project, $HUBUGS_PROJECT, the hubugs.project git
setting or the origin remote of the current repository. Run 'hubugs setup'
once to create an authorisation token.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().String("project", "", projectUsage)
	root.PersistentFlags().StringP("host-url", "u", "", "GitHub Enterprise host to connect to")
	root.PersistentFlags().Bool("pager", false, "Pass output through a pager")
	root.PersistentFlags().Bool("no-pager", false, "Do not pass output through a pager")
	root.MarkFlagsMutuallyExclusive("pager", "no-pager")

	root.AddCommand(
		newListCommand(a),
		newSearchCommand(a),
		newShowCommand(a),
		newOpenCommand(a),
		newCommentCommand(a),
		newEditCommand(a),
		newStateCommand(a, "close", "Close bugs", (*bugs.Service).Close),
		newStateCommand(a, "reopen", "Reopen closed bugs", (*bugs.Service).Reopen),
		newLabelCommand(a),
		newMilestoneCommand(a),
		newMilestonesCommand(a),
		newSetupCommand(a),
		newReportBugCommand(a),
	)
	return root
}

const projectUsage = "GitHub project to operate on (e.g., 'JNRowe/hubugs')"

// projectShorthand shadows the inherited --project flag with one that also
// answers to -p. list and show use -p for their own options and skip this.
func projectShorthand(cmd *cobra.Command) *cobra.Command {
	cmd.Flags().StringP("project", "p", "", projectUsage)
	return cmd
}

// Execute runs the root command.
func Execute() error {
	return NewRootCommand().Execute()
}

// service resolves the environment and builds the command handlers. With
// skipProject, a project that cannot be determined is not an error.
func (a *app) service(cmd *cobra.Command, skipProject bool) (*bugs.Service, error) {
	if a.svc != nil {
		return a.svc, nil
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, config.Options{
		Store:       a.store,
		Flags:       cmd.Flags(),
		EnvFile:     ".env",
		SkipProject: skipProject,
	})
	if err != nil {
		return nil, err
	}
	if a.hostURL != "" {
		cfg.HostURL = a.hostURL
	}

	client, err := github.NewClient(github.Config{
		HostURL:   cfg.HostURL,
		Project:   cfg.Project,
		Token:     cfg.Token,
		CacheDir:  cfg.CacheDir,
		UserAgent: "hubugs/" + Version,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize GitHub client: %w", err)
	}

	out, _ := a.stdout.(*os.File)
	width, colour := render.DefaultWidth, false
	if out != nil {
		width, colour = render.TerminalWidth(out), render.ColorEnabled(out)
	}

	var gitVars editor.VarGetter
	if g, ok := a.store.(gitconfig.Git); ok {
		gitVars = g
	}
	ed := editor.New(editor.Choose(ctx, gitVars))

	usePager, _ := cmd.Flags().GetBool("pager")
	a.pager = &pager.Pager{Command: cfg.Pager, Enabled: usePager, Out: a.stdout, Err: a.stderr}
	a.svc = &bugs.Service{
		Client: client,
		Renderer: render.New(render.Options{
			Set:         cfg.Templates,
			Width:       width,
			Color:       colour,
			CommentChar: cfg.CommentChar,
		}),
		Editor:  ed,
		Store:   a.store,
		WebHost: cfg.WebHost,
		Version: Version,
		Stdin:   a.stdin,
		Err:     a.stderr,
		Browse:  browser.OpenURL,
	}
	logging.Debug("service ready", "command", cmd.Name(), "project", cfg.Project)
	return a.svc, nil
}

// page writes command output, through the pager when --pager is given.
func (a *app) page(cmd *cobra.Command, text string) error {
	if text == "" {
		return nil
	}
	return a.pager.Write(cmd.Context(), text)
}

// report prints per-bug results: output to stdout, diagnostics to stderr.
func (a *app) report(results []bugs.Result) {
	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintln(a.stderr, r.String())
			continue
		}
		if r.Output != "" {
			fmt.Fprintln(a.stdout, r.Output)
		}
	}
}

// bugNumbers parses positional bug numbers.
func bugNumbers(args []string) ([]int, error) {
	nums := make([]int, 0, len(args))
	for _, arg := range args {
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			return nil, &bugs.InputError{Message: fmt.Sprintf("invalid bug number %q", arg)}
		}
		nums = append(nums, n)
	}
	return nums, nil
}
