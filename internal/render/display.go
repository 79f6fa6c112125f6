package render

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/danielolaszy/hubugs/pkg/models"
)

// NoBugsFound is printed instead of an empty listing.
const NoBugsFound = "No bugs found!"

// orderFields maps user facing sort orders to record fields.
var orderFields = map[string]string{
	"number":   "number",
	"updated":  "updated_at",
	"priority": "priority",
	"due_date": "due_on",
}

// OrderField returns the record field an order sorts by.
func OrderField(order string) string {
	if f, ok := orderFields[order]; ok {
		return f
	}
	return order
}

// SortRecords stably sorts recs in place, ascending by field. Records
// without the field, or with a null value, keep their relative order after
// every record that has one.
func SortRecords(recs []models.Record, field string) {
	sort.SliceStable(recs, func(i, j int) bool {
		a, aok := recs[i][field]
		b, bok := recs[j][field]
		aok = aok && a != nil
		bok = bok && b != nil
		if !aok || !bok {
			return aok && !bok
		}
		return less(a, b)
	})
}

func less(a, b any) bool {
	if x, ok := asTime(a); ok {
		if y, ok := asTime(b); ok {
			return x.Before(y)
		}
	}
	switch x := a.(type) {
	case string:
		if y, ok := b.(string); ok {
			return x < y
		}
	}
	if x, ok := number(a); ok {
		if y, ok := number(b); ok {
			return x < y
		}
	}
	return fmt.Sprint(a) < fmt.Sprint(b)
}

func number(v any) (float64, bool) {
	switch n := v.(type) {
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// Completeness is the share of a milestone's issues that are closed.
func Completeness(milestone models.Record) float64 {
	open, _ := milestone.Int("open_issues")
	closed, _ := milestone.Int("closed_issues")
	if open+closed == 0 {
		return 0
	}
	return float64(closed) / float64(open+closed)
}

// SortMilestones sorts milestones by number, due_date or completeness.
func SortMilestones(milestones []models.Record, order string) {
	if order != "completeness" {
		SortRecords(milestones, OrderField(order))
		return
	}
	sort.SliceStable(milestones, func(i, j int) bool {
		return Completeness(milestones[i]) < Completeness(milestones[j])
	})
}

// layout computes the column values shared by the list templates.
func (r *Renderer) layout(recs []models.Record) (map[string]any, error) {
	maxID := 0
	for _, rec := range recs {
		n, err := rec.Int("number")
		if err != nil {
			return nil, err
		}
		if n > maxID {
			maxID = n
		}
	}
	idLen := len(strconv.Itoa(maxID))
	spacer := ""
	if idLen > 2 {
		spacer = strings.Repeat(" ", idLen-2)
	}
	return map[string]any{
		"id_len":    idLen,
		"spacer":    spacer,
		"max_title": r.width - idLen - 2,
	}, nil
}

// DisplayBugs sorts bugs by order and renders view/list.txt. An empty list
// renders NoBugsFound without touching the template.
func (r *Renderer) DisplayBugs(bugs []models.Record, order string, extras map[string]any) (string, error) {
	if len(bugs) == 0 {
		s, _ := r.colourise("green", NoBugsFound)
		return s, nil
	}

	sorted := append([]models.Record(nil), bugs...)
	SortRecords(sorted, OrderField(order))

	data, err := r.layout(sorted)
	if err != nil {
		return "", err
	}
	for k, v := range extras {
		data[k] = v
	}
	data["bugs"] = sorted
	data["order"] = order
	return r.Render("view", "list.txt", data)
}

// DisplayMilestones sorts milestones by order and renders
// view/list_milestones.txt.
func (r *Renderer) DisplayMilestones(milestones []models.Record, order string, extras map[string]any) (string, error) {
	sorted := append([]models.Record(nil), milestones...)
	SortMilestones(sorted, order)

	data, err := r.layout(sorted)
	if err != nil {
		return "", err
	}
	for k, v := range extras {
		data[k] = v
	}
	data["milestones"] = sorted
	data["order"] = order
	return r.Render("view", "list_milestones.txt", data)
}
