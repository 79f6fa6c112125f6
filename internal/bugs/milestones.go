package bugs

import (
	"context"
	"fmt"
	"net/url"
)

// MilestonesOptions controls Milestones.
type MilestonesOptions struct {
	Order  string
	State  string
	Create string
	List   bool
}

// Milestones lists the project's milestones or creates a new one.
func (s *Service) Milestones(ctx context.Context, opts MilestonesOptions) (string, error) {
	if !opts.List && opts.Create == "" {
		return "", &InputError{Message: "No action specified!"}
	}
	repo, err := s.CheckProject(ctx)
	if err != nil {
		return "", err
	}
	milestonesURL := s.Client.RepoURL("milestones")

	if !opts.List {
		m, err := s.Client.PostRecord(ctx, milestonesURL, map[string]string{"title": opts.Create}, "Milestone")
		if err != nil {
			return "", err
		}
		n, err := m.Int("number")
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Milestone %d created", n), nil
	}

	state := opts.State
	if state == "" {
		state = "open"
	}
	params := url.Values{}
	params.Set("state", state)
	milestones, err := s.Client.GetRecords(ctx, milestonesURL, params, "Milestone")
	if err != nil {
		return "", err
	}
	return s.Renderer.DisplayMilestones(milestones, opts.Order, map[string]any{
		"state":   state,
		"project": s.Project(),
		"repo":    repo,
	})
}
