package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"os/user"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/danielolaszy/hubugs/internal/bugs"
)

// prompter asks the setup questions on the command's input and output.
type prompter struct {
	in  *bufio.Reader
	raw io.Reader
	w   func(string)
}

func newPrompter(a *app) *prompter {
	return &prompter{
		in:  bufio.NewReader(a.stdin),
		raw: a.stdin,
		w:   func(s string) { fmt.Fprint(a.stderr, s) },
	}
}

func (p *prompter) line(question, def string) (string, error) {
	if def != "" {
		p.w(fmt.Sprintf("%s [%s]: ", question, def))
	} else {
		p.w(question + ": ")
	}
	answer, err := p.in.ReadString('\n')
	if err != nil && answer == "" {
		return "", fmt.Errorf("read answer: %w", err)
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return def, nil
	}
	return answer, nil
}

// secret reads without echo when input is a terminal.
func (p *prompter) secret(question string) (string, error) {
	if f, ok := p.raw.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		p.w(question + ": ")
		b, err := term.ReadPassword(int(f.Fd()))
		p.w("\n")
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	return p.line(question, "")
}

func (p *prompter) confirm(question string) (bool, error) {
	answer, err := p.line(question+" [y/N]", "")
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}

// defaultUser is $GITHUB_USER, then github.user, then the login name.
func defaultUser(cmd *cobra.Command, a *app) string {
	if u := os.Getenv("GITHUB_USER"); u != "" {
		return u
	}
	if u, err := a.store.Get(cmd.Context(), "github.user", false); err == nil && u != "" {
		return u
	}
	if u, err := user.Current(); err == nil {
		return u.Username
	}
	return ""
}

func newSetupCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Setup GitHub access token",
		Long: `Create a GitHub access token for hubugs and store it in git config.

You are asked for your GitHub user name and password, and whether hubugs
should be able to access private repositories. The token is stored as
hubugs.token, globally or with --local for the current repository only.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			local, _ := cmd.Flags().GetBool("local")

			svc, err := a.service(cmd, true)
			if err != nil {
				return err
			}

			p := newPrompter(a)
			name, err := p.line("GitHub user", defaultUser(cmd, a))
			if err != nil {
				return err
			}
			password, err := p.secret("GitHub password")
			if err != nil {
				return err
			}
			private, err := p.confirm("Support private repositories")
			if err != nil {
				return err
			}

			out, err := svc.Setup(cmd.Context(), bugs.SetupOptions{
				User:     name,
				Password: password,
				Private:  private,
				Local:    local,
			})
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, out)
			return nil
		},
	}

	cmd.Flags().Bool("local", false, "Set access token for local repository only")
	return projectShorthand(cmd)
}

func newReportBugCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report-bug",
		Short: "Report a new bug against hubugs",
		Long: `Compose a bug report against hubugs itself in your editor.

The report template is filled in with the versions of hubugs, Go and the
libraries it is built with.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service(cmd, true)
			if err != nil {
				return err
			}
			n, err := svc.ReportBug(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Bug %d opened against hubugs, thanks!\n", n)
			return nil
		},
	}
	return projectShorthand(cmd)
}
