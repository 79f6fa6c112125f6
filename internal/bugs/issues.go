package bugs

import (
	"context"
	"fmt"

	"github.com/danielolaszy/hubugs/internal/github"
	"github.com/danielolaszy/hubugs/pkg/models"
)

// TextOptions is the text given on the command line for open and edit.
type TextOptions struct {
	Title string
	Body  string
	Stdin bool
}

// OpenOptions controls Open.
type OpenOptions struct {
	TextOptions
	Add    []string
	Create []string
}

// MessageOptions is the comment text for comment, close and reopen.
type MessageOptions struct {
	Message string
	Stdin   bool
}

// Open reconciles labels and creates a bug, returning its number.
func (s *Service) Open(ctx context.Context, opts OpenOptions) (int, error) {
	if _, err := s.CheckProject(ctx); err != nil {
		return 0, err
	}
	if _, err := s.SyncLabels(ctx, opts.Add, opts.Create); err != nil {
		return 0, err
	}

	title, body, err := s.composeText(ctx, opts.TextOptions, nil)
	if err != nil {
		return 0, err
	}

	labels := append(append([]string{}, opts.Add...), opts.Create...)
	bug, err := s.Client.PostRecord(ctx, "", map[string]any{
		"title":  title,
		"body":   body,
		"labels": labels,
	}, "Issue")
	if err != nil {
		return 0, err
	}
	return bug.Int("number")
}

// composeText returns a title and body from the command line, stdin, or the
// open template in the editor seeded with current.
func (s *Service) composeText(ctx context.Context, opts TextOptions, current map[string]any) (string, string, error) {
	if !opts.Stdin && opts.Title != "" {
		return opts.Title, opts.Body, nil
	}
	text, err := s.readText(ctx, opts.Stdin, "", "open", current, false)
	if err != nil {
		return "", "", err
	}
	return splitText(text)
}

// Comment adds the same comment to each bug.
func (s *Service) Comment(ctx context.Context, opts MessageOptions, bugs []int) ([]Result, error) {
	if _, err := s.CheckProject(ctx); err != nil {
		return nil, err
	}
	message, err := s.readText(ctx, opts.Stdin, opts.Message, "default", nil, false)
	if err != nil {
		return nil, err
	}

	return s.eachBug(bugs, false, func(n int) (string, error) {
		_, err := s.Client.PostRecord(ctx, bugPath(n, "comments"), map[string]string{"body": message}, "Comment")
		return fmt.Sprintf("Comment added to bug %d", n), err
	})
}

// Edit changes the title and body of each bug. Text from the command line or
// stdin can only apply to a single bug.
func (s *Service) Edit(ctx context.Context, opts TextOptions, bugs []int) ([]Result, error) {
	if (opts.Title != "" || opts.Stdin) && len(bugs) > 1 {
		return nil, &InputError{Message: "Can not use --stdin or command line title/body with multiple bugs"}
	}
	if _, err := s.CheckProject(ctx); err != nil {
		return nil, err
	}

	return s.eachBug(bugs, false, func(n int) (string, error) {
		var current map[string]any
		if !opts.Stdin && opts.Title == "" {
			bug, err := s.Client.GetRecord(ctx, bugPath(n), nil, "Issue")
			if err != nil {
				return "", err
			}
			current = map[string]any{"title": bug["title"], "body": bug["body"]}
		}

		title, body, err := s.composeText(ctx, opts, current)
		if err != nil {
			return "", err
		}
		_, err = s.Client.PatchRecord(ctx, bugPath(n), map[string]string{"title": title, "body": body}, "Issue")
		return fmt.Sprintf("Bug %d updated", n), err
	})
}

// Close optionally comments on, then closes each bug.
func (s *Service) Close(ctx context.Context, opts MessageOptions, bugs []int) ([]Result, error) {
	return s.setState(ctx, opts, bugs, "closed")
}

// Reopen optionally comments on, then reopens each bug.
func (s *Service) Reopen(ctx context.Context, opts MessageOptions, bugs []int) ([]Result, error) {
	return s.setState(ctx, opts, bugs, "open")
}

func (s *Service) setState(ctx context.Context, opts MessageOptions, bugs []int, state string) ([]Result, error) {
	if _, err := s.CheckProject(ctx); err != nil {
		return nil, err
	}
	// a message is good practice here, but not required
	message, err := s.readText(ctx, opts.Stdin, opts.Message, "default", nil, true)
	if err != nil {
		return nil, err
	}

	return s.eachBug(bugs, true, func(n int) (string, error) {
		if message != "" {
			if _, err := s.Client.PostRecord(ctx, bugPath(n, "comments"), map[string]string{"body": message}, "Comment"); err != nil {
				return "", err
			}
		}
		bug, err := s.Client.PatchRecord(ctx, bugPath(n), map[string]string{"state": state}, "Issue")
		if err != nil {
			return "", err
		}
		got, err := bug.String("state")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Bug %d is %s", n, got), nil
	})
}

// Milestone assigns each bug to the milestone with the given title.
func (s *Service) Milestone(ctx context.Context, title string, bugs []int) ([]Result, error) {
	if _, err := s.CheckProject(ctx); err != nil {
		return nil, err
	}

	milestones, err := s.Client.GetRecords(ctx, s.Client.RepoURL("milestones"), nil, "Milestone")
	if err != nil {
		return nil, err
	}
	number, err := milestoneNumber(milestones, title)
	if err != nil {
		return nil, err
	}

	return s.eachBug(bugs, false, func(n int) (string, error) {
		_, err := s.Client.PatchRecord(ctx, bugPath(n), map[string]int{"milestone": number}, "Issue")
		return fmt.Sprintf("Bug %d added to milestone %q", n, title), err
	})
}

func milestoneNumber(milestones []models.Record, title string) (int, error) {
	for _, m := range milestones {
		t, err := m.String("title")
		if err != nil {
			return 0, err
		}
		if t == title {
			return m.Int("number")
		}
	}
	return 0, &InputError{Message: fmt.Sprintf("No such milestone %q", title)}
}

// eachBug runs fn for every bug, collecting per-bug failures as results and
// aborting on any other error. With clientErrors set, every 4xx response is
// treated as a per-bug failure.
func (s *Service) eachBug(bugs []int, clientErrors bool, fn func(n int) (string, error)) ([]Result, error) {
	results := make([]Result, 0, len(bugs))
	for _, n := range bugs {
		out, err := fn(n)
		if err != nil {
			r, err := perBug(n, err)
			if ce, ok := github.AsClientError(err); ok && clientErrors {
				r, err = Result{Bug: n, Err: ce}, nil
			}
			if err != nil {
				return results, err
			}
			results = append(results, r)
			continue
		}
		results = append(results, Result{Bug: n, Output: out})
	}
	return results, nil
}
