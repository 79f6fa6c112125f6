package bugs

import (
	"context"
	"fmt"

	"github.com/danielolaszy/hubugs/internal/github"
	"github.com/danielolaszy/hubugs/pkg/models"
)

// ShowOptions controls Show.
type ShowOptions struct {
	Full      bool
	Patch     bool
	PatchOnly bool
	Browse    bool
}

// IssueURL returns the web page of a bug.
func (s *Service) IssueURL(bug int) string {
	return fmt.Sprintf("https://%s/%s/issues/%d", s.WebHost, s.Project(), bug)
}

// Show renders each bug, or opens it in a browser without touching the API
// when Browse is set.
func (s *Service) Show(ctx context.Context, opts ShowOptions, bugs []int) ([]Result, error) {
	results := make([]Result, 0, len(bugs))

	if opts.Browse {
		for _, n := range bugs {
			if err := s.Browse(s.IssueURL(n)); err != nil {
				results = append(results, Result{Bug: n, Err: fmt.Errorf("open browser: %w", err)})
				continue
			}
			results = append(results, Result{Bug: n})
		}
		return results, nil
	}

	repo, err := s.CheckProject(ctx)
	if err != nil {
		return nil, err
	}

	for _, n := range bugs {
		out, err := s.showOne(ctx, opts, repo, n)
		if err != nil {
			r, err := perBug(n, err)
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

func (s *Service) showOne(ctx context.Context, opts ShowOptions, repo models.Record, n int) (string, error) {
	bug, err := s.Client.GetRecord(ctx, bugPath(n), nil, "Issue")
	if err != nil {
		return "", err
	}

	var comments []models.Record
	if opts.Full {
		count, err := bug.Int("comments")
		if err != nil {
			return "", err
		}
		if count > 0 {
			if comments, err = s.Client.GetRecords(ctx, bugPath(n, "comments"), nil, "Comment"); err != nil {
				return "", err
			}
		}
	}

	patch := ""
	if (opts.Patch || opts.PatchOnly) && models.IsPullRequest(bug) {
		patch, err = s.Client.Raw(ctx, s.Client.RepoURL(fmt.Sprintf("pulls/%d", n)), github.MediaTypePatch)
		if err != nil {
			return "", err
		}
	}

	return s.Renderer.Render("view", "issue.txt", map[string]any{
		"bug":        bug,
		"comments":   comments,
		"full":       opts.Full,
		"patch":      patch,
		"patch_only": opts.PatchOnly,
		"project":    s.Project(),
		"repo":       repo,
	})
}
