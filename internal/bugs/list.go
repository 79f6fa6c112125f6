package bugs

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/danielolaszy/hubugs/pkg/models"
)

// ListOptions selects the bugs shown by List.
type ListOptions struct {
	State        string
	Labels       []string
	Order        string
	Page         int
	PullRequests bool
}

// SearchOptions selects the bugs shown by Search.
type SearchOptions struct {
	Term  string
	State string
	Order string
}

// expandState turns "all" into the states the API understands.
func expandState(state string) []string {
	if state == "all" {
		return []string{"open", "closed"}
	}
	return []string{state}
}

func stateLabel(state string) string {
	if state == "all" {
		return "open and closed"
	}
	return state
}

// List renders one page of bugs per requested state.
func (s *Service) List(ctx context.Context, opts ListOptions) (string, error) {
	repo, err := s.CheckProject(ctx)
	if err != nil {
		return "", err
	}

	path := ""
	if opts.PullRequests {
		path = s.Client.RepoURL("pulls")
	}
	params := url.Values{}
	if opts.Page > 1 {
		params.Set("page", strconv.Itoa(opts.Page))
	}
	if len(opts.Labels) > 0 {
		params.Set("labels", strings.Join(opts.Labels, ","))
	}

	var bugs []models.Record
	for _, state := range expandState(opts.State) {
		p := url.Values{}
		for k, v := range params {
			p[k] = v
		}
		p.Set("state", state)
		page, err := s.Client.GetRecords(ctx, path, p, "Issue")
		if err != nil {
			return "", err
		}
		bugs = append(bugs, page...)
	}

	return s.Renderer.DisplayBugs(bugs, opts.Order, map[string]any{
		"state":   stateLabel(opts.State),
		"project": s.Project(),
		"repo":    repo,
	})
}

// Search renders the bugs matching a search term, one query per state.
func (s *Service) Search(ctx context.Context, opts SearchOptions) (string, error) {
	repo, err := s.CheckProject(ctx)
	if err != nil {
		return "", err
	}

	searchURL := s.Client.HostURL("search/issues")
	var bugs []models.Record
	for _, state := range expandState(opts.State) {
		params := url.Values{}
		params.Set("q", fmt.Sprintf("%s repo:%s state:%s", opts.Term, s.Project(), state))

		result, err := s.Client.GetRecord(ctx, searchURL, params, "Issue")
		if err != nil {
			return "", err
		}
		found, err := searchResults(result)
		if err != nil {
			return "", err
		}
		bugs = append(bugs, found...)
	}

	return s.Renderer.DisplayBugs(bugs, opts.Order, map[string]any{
		"state":   stateLabel(opts.State),
		"project": s.Project(),
		"repo":    repo,
		"term":    opts.Term,
	})
}

// searchResults accepts the current "items" response and the legacy
// "issues" one.
func searchResults(result models.Record) ([]models.Record, error) {
	if result.Has("items") {
		return result.Records("items")
	}
	legacy, err := result.Records("issues")
	if err != nil {
		return nil, err
	}
	bugs := make([]models.Record, 0, len(legacy))
	for _, obj := range legacy {
		bug, err := models.FromSearch(obj)
		if err != nil {
			return nil, err
		}
		bugs = append(bugs, bug)
	}
	return bugs, nil
}
