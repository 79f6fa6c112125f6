// Package bugs implements the hubugs commands on top of the issues API.
package bugs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/danielolaszy/hubugs/internal/config"
	"github.com/danielolaszy/hubugs/internal/gitconfig"
	"github.com/danielolaszy/hubugs/internal/github"
	"github.com/danielolaszy/hubugs/internal/logging"
	"github.com/danielolaszy/hubugs/internal/render"
	"github.com/danielolaszy/hubugs/pkg/models"
)

// Service holds the state shared by the command handlers of one invocation.
type Service struct {
	Client   *github.Client
	Renderer *render.Renderer
	Editor   render.Editor
	Store    gitconfig.Store
	// WebHost is used for browser URLs, such as github.com.
	WebHost string
	Version string
	Stdin   io.Reader
	// Err receives warnings meant for the user.
	Err io.Writer
	// Browse opens a URL in the user's browser.
	Browse func(url string) error

	repo models.Record
}

// Project returns the owner/name the service operates on.
func (s *Service) Project() string {
	return s.Client.Project()
}

// CheckProject fetches the project once, failing when it does not exist or
// has issues disabled.
func (s *Service) CheckProject(ctx context.Context) (models.Record, error) {
	if s.repo != nil {
		return s.repo, nil
	}

	repo, err := s.Client.GetRecord(ctx, s.Client.RepoURL(""), nil, "Repo")
	if err != nil {
		if github.IsNotFound(err, "") {
			return nil, &config.RepoError{Project: s.Project(), Message: "Invalid project"}
		}
		return nil, err
	}
	hasIssues, err := repo.Bool("has_issues")
	if err != nil {
		return nil, err
	}
	if !hasIssues {
		return nil, &config.RepoError{Project: s.Project(), Message: "Issues aren't enabled"}
	}

	logging.Debug("project checked", "project", s.Project())
	s.repo = repo
	return repo, nil
}

// warn reports a non-fatal problem to the user.
func (s *Service) warn(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	logging.Debug("warning", "message", msg)
	if s.Err != nil {
		fmt.Fprintln(s.Err, msg)
	}
}

// bugPath is the issues API path of a single bug.
func bugPath(bug int, suffix ...string) string {
	return strings.Join(append([]string{strconv.Itoa(bug)}, suffix...), "/")
}

// perBug turns errors that only concern one bug into a Result. Any other
// error is returned for the caller to abort with.
func perBug(bug int, err error) (Result, error) {
	if github.IsNotFound(err, fmt.Sprintf("Issue #%d not found", bug)) {
		return Result{Bug: bug, Err: &NotFoundError{Bug: bug}}, nil
	}
	return Result{}, err
}

// readText resolves message text from stdin, an explicit value, or the
// editor, in that order. allowEmpty makes an empty editor message "".
func (s *Service) readText(ctx context.Context, stdin bool, explicit, kind string, data map[string]any, allowEmpty bool) (string, error) {
	switch {
	case stdin:
		b, err := io.ReadAll(s.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		text := strings.TrimSpace(string(b))
		if text == "" && !allowEmpty {
			return "", emptyMessage()
		}
		return text, nil
	case explicit != "":
		return explicit, nil
	}

	text, err := s.Renderer.EditText(ctx, s.Editor, kind, data)
	if errors.Is(err, render.ErrEmptyMessage) {
		if allowEmpty {
			return "", nil
		}
		return "", emptyMessage()
	}
	return text, err
}

func emptyMessage() error {
	return &InputError{Message: "No message given", Err: render.ErrEmptyMessage}
}

// splitText splits composed text into a title line and a body.
func splitText(text string) (string, string, error) {
	title, body, _ := strings.Cut(strings.TrimSpace(text), "\n")
	title = strings.TrimSpace(title)
	if title == "" {
		return "", "", emptyMessage()
	}
	return title, strings.TrimSpace(body), nil
}
