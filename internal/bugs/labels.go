package bugs

import (
	"context"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/danielolaszy/hubugs/internal/logging"
	"github.com/danielolaszy/hubugs/pkg/models"
)

// DefaultLabelColour is used for labels created by hubugs.
const DefaultLabelColour = "000000"

// SyncLabels validates add against the project's labels and creates the
// labels in create that do not exist yet. Every add label is checked
// before anything is created. It returns the project's label names, plus
// add and create.
func (s *Service) SyncLabels(ctx context.Context, add, create []string) ([]string, error) {
	labelsURL := s.Client.RepoURL("labels")
	params := url.Values{}
	params.Set("per_page", "100")

	labels, err := s.Client.GetRecords(ctx, labelsURL, params, "Label")
	if err != nil {
		return nil, err
	}
	existing := make(map[string]bool, len(labels))
	names := make([]string, 0, len(labels)+len(add)+len(create))
	for _, l := range labels {
		name, err := l.String("name")
		if err != nil {
			return nil, err
		}
		existing[name] = true
		names = append(names, name)
	}

	for _, name := range add {
		if !existing[name] {
			return nil, &InputError{Message: fmt.Sprintf("No such label %q", name)}
		}
	}

	for _, name := range create {
		if existing[name] {
			s.warn("%q label already exists", name)
			continue
		}
		body := map[string]string{"name": name, "color": DefaultLabelColour}
		if _, err := s.Client.PostRecord(ctx, labelsURL, body, "Label"); err != nil {
			return nil, fmt.Errorf("create label %q: %w", name, err)
		}
		logging.Info("label created", "label", name, "project", s.Project())
		existing[name] = true
	}

	names = append(names, add...)
	names = append(names, create...)
	return names, nil
}

// LabelOptions selects the label changes for Label.
type LabelOptions struct {
	Add    []string
	Create []string
	Remove []string
}

// ListLabels reconciles labels and returns the project's label names, sorted
// and comma separated.
func (s *Service) ListLabels(ctx context.Context, add, create []string) (string, error) {
	if _, err := s.CheckProject(ctx); err != nil {
		return "", err
	}
	names, err := s.SyncLabels(ctx, add, create)
	if err != nil {
		return "", err
	}
	return strings.Join(uniqueSorted(names), ", "), nil
}

// Label reconciles labels, then updates each bug's label set.
func (s *Service) Label(ctx context.Context, opts LabelOptions, bugs []int) ([]Result, error) {
	if _, err := s.CheckProject(ctx); err != nil {
		return nil, err
	}
	if _, err := s.SyncLabels(ctx, opts.Add, opts.Create); err != nil {
		return nil, err
	}

	results := make([]Result, 0, len(bugs))
	for _, n := range bugs {
		bug, err := s.Client.GetRecord(ctx, bugPath(n), nil, "Issue")
		if err != nil {
			r, err := perBug(n, err)
			if err != nil {
				return results, err
			}
			results = append(results, r)
			continue
		}

		current, err := models.LabelNames(bug)
		if err != nil {
			return results, err
		}
		labels, err := applyLabels(current, opts)
		if err != nil {
			results = append(results, Result{Bug: n, Err: err})
			continue
		}

		if _, err := s.Client.PatchRecord(ctx, bugPath(n), map[string]any{"labels": labels}, "Issue"); err != nil {
			r, err := perBug(n, err)
			if err != nil {
				return results, err
			}
			results = append(results, r)
			continue
		}
		results = append(results, Result{Bug: n, Output: fmt.Sprintf("Bug %d labels updated", n)})
	}
	return results, nil
}

// applyLabels merges add and create into current and drops remove. Removing
// a label that is not attached is an error.
func applyLabels(current []string, opts LabelOptions) ([]string, error) {
	labels := append([]string(nil), current...)
	seen := make(map[string]bool, len(labels))
	for _, l := range labels {
		seen[l] = true
	}
	for _, group := range [][]string{opts.Add, opts.Create} {
		for _, l := range group {
			if !seen[l] {
				labels = append(labels, l)
				seen[l] = true
			}
		}
	}

	for _, r := range opts.Remove {
		if !seen[r] {
			return nil, &InputError{Message: fmt.Sprintf("Label %q is not set", r)}
		}
		for i, l := range labels {
			if l == r {
				labels = append(labels[:i], labels[i+1:]...)
				break
			}
		}
		seen[r] = false
	}
	return labels, nil
}

func uniqueSorted(names []string) []string {
	set := make(map[string]bool, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if !set[n] {
			set[n] = true
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
