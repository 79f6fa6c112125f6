package render

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielolaszy/hubugs/pkg/models"
)

var fixedNow = time.Date(2012, 5, 1, 12, 0, 0, 0, time.UTC)

func newTestRenderer(opts Options) *Renderer {
	if opts.Dirs == nil {
		opts.Dirs = []string{}
	}
	if opts.Now == nil {
		opts.Now = func() time.Time { return fixedNow }
	}
	return New(opts)
}

func issue(number int64, title string, updated time.Time) models.Record {
	return models.Record{
		"number":     number,
		"title":      title,
		"state":      "open",
		"body":       "Some *body* text",
		"comments":   int64(0),
		"created_at": updated.Add(-time.Hour),
		"updated_at": updated,
		"user":       models.Record{"login": "JNRowe", models.KindKey: "User"},
		"labels": []any{
			models.Record{"name": "bug", "color": "fc2929", models.KindKey: "Label"},
		},
		models.KindKey: "Issue",
	}
}

func TestRelativeTime(t *testing.T) {
	tests := []struct {
		delta time.Duration
		want  string
	}{
		{365 * 24 * time.Hour, "last year"},
		{70 * 24 * time.Hour, "about two months ago"},
		{30 * 24 * time.Hour, "last month"},
		{21 * 24 * time.Hour, "about three weeks ago"},
		{4 * 24 * time.Hour, "about four days ago"},
		{24 * time.Hour, "yesterday"},
		{5 * time.Hour, "about five hours ago"},
		{time.Hour, "about an hour ago"},
		{6 * time.Minute, "about six minutes ago"},
		{time.Minute, "about a minute ago"},
		{10 * time.Second, "about ten seconds ago"},
		{12 * time.Second, "about 12 seconds ago"},
		{500 * time.Millisecond, "just now"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, RelativeTime(fixedNow, fixedNow.Add(-tt.delta)))
		})
	}
}

func TestSortRecords(t *testing.T) {
	base := fixedNow.Add(-48 * time.Hour)
	bugs := []models.Record{
		issue(3, "third", base.Add(time.Hour)),
		issue(1, "first", base.Add(3*time.Hour)),
		issue(2, "second", base.Add(time.Hour)),
	}

	byNumber := append([]models.Record(nil), bugs...)
	SortRecords(byNumber, OrderField("number"))
	assert.Equal(t, []string{"first", "second", "third"}, titles(byNumber))

	byUpdated := append([]models.Record(nil), bugs...)
	SortRecords(byUpdated, OrderField("updated"))
	// equal timestamps keep their input order
	assert.Equal(t, []string{"third", "second", "first"}, titles(byUpdated))
}

func TestSortRecordsMissingField(t *testing.T) {
	recs := []models.Record{
		{"number": int64(1)},
		{"number": int64(2), "priority": int64(5)},
		{"number": int64(3), "priority": nil},
		{"number": int64(4), "priority": int64(1)},
	}
	SortRecords(recs, "priority")

	var got []int
	for _, r := range recs {
		n, _ := r.Int("number")
		got = append(got, n)
	}
	assert.Equal(t, []int{4, 2, 1, 3}, got)
}

func TestSortMilestones(t *testing.T) {
	ms := []models.Record{
		{"number": int64(1), "open_issues": int64(1), "closed_issues": int64(3), "due_on": nil},
		{"number": int64(2), "open_issues": int64(3), "closed_issues": int64(1), "due_on": fixedNow},
		{"number": int64(3), "open_issues": int64(0), "closed_issues": int64(0), "due_on": fixedNow.Add(-time.Hour)},
	}

	numbers := func() []int {
		var out []int
		for _, m := range ms {
			n, _ := m.Int("number")
			out = append(out, n)
		}
		return out
	}

	SortMilestones(ms, "completeness")
	assert.Equal(t, []int{3, 2, 1}, numbers())

	SortMilestones(ms, "due_date")
	assert.Equal(t, []int{3, 2, 1}, numbers())

	SortMilestones(ms, "number")
	assert.Equal(t, []int{1, 2, 3}, numbers())

	assert.InDelta(t, 0.75, Completeness(models.Record{"open_issues": int64(1), "closed_issues": int64(3)}), 1e-9)
}

func titles(recs []models.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i], _ = r.String("title")
	}
	return out
}

func TestDisplayBugsEmpty(t *testing.T) {
	r := newTestRenderer(Options{Dirs: []string{"/nonexistent"}, Set: "missing"})

	out, err := r.DisplayBugs(nil, "number", nil)
	require.NoError(t, err)
	assert.Equal(t, NoBugsFound, out)
}

func TestDisplayBugs(t *testing.T) {
	r := newTestRenderer(Options{Width: 40})
	bugs := []models.Record{
		issue(120, "A title that is far too long to fit on one line", fixedNow.Add(-5*time.Hour)),
		issue(7, "Short", fixedNow.Add(-24*time.Hour)),
	}

	out, err := r.DisplayBugs(bugs, "number", map[string]any{"state": "open", "project": "JNRowe/hubugs"})
	require.NoError(t, err)

	assert.Less(t, strings.Index(out, "Short"), strings.Index(out, "A title"))
	assert.Contains(t, out, "  7  Short")
	assert.Contains(t, out, "120  A title that is far too long to ...")
	assert.Contains(t, out, "updated yesterday")
	assert.Contains(t, out, "updated about five hours ago")
	assert.Contains(t, out, "[bug]")
	assert.Contains(t, out, "2 open bugs found in JNRowe/hubugs")
	assert.NotContains(t, out, "\x1b[")
}

func TestDisplayBugsSearchTerm(t *testing.T) {
	r := newTestRenderer(Options{})
	out, err := r.DisplayBugs([]models.Record{issue(1, "Crash", fixedNow)}, "updated",
		map[string]any{"state": "closed", "project": "JNRowe/hubugs", "term": "crash"})
	require.NoError(t, err)
	assert.Contains(t, out, `1 closed bug found matching "crash" in JNRowe/hubugs`)
}

func TestDisplayBugsBindingError(t *testing.T) {
	r := newTestRenderer(Options{})
	_, err := r.DisplayBugs([]models.Record{{"title": "no number"}}, "number", nil)

	var fieldErr *models.FieldError
	assert.ErrorAs(t, err, &fieldErr)
}

func TestDisplayMilestones(t *testing.T) {
	r := newTestRenderer(Options{})
	ms := []models.Record{
		{"number": int64(2), "title": "v0.2", "open_issues": int64(4), "closed_issues": int64(0), "due_on": nil},
		{"number": int64(1), "title": "v0.1", "open_issues": int64(0), "closed_issues": int64(9), "due_on": fixedNow},
	}

	out, err := r.DisplayMilestones(ms, "number", map[string]any{"state": "open", "project": "JNRowe/hubugs"})
	require.NoError(t, err)
	assert.Less(t, strings.Index(out, "v0.1"), strings.Index(out, "v0.2"))
	assert.Contains(t, out, "0 open, 9 closed, due 2012-05-01")
	assert.Contains(t, out, "2 open milestones in JNRowe/hubugs")
}

func TestRenderIssue(t *testing.T) {
	r := newTestRenderer(Options{})
	bug := issue(12, "Broken thing", fixedNow.Add(-time.Hour))
	bug["state"] = "closed"
	bug["closed_at"] = fixedNow.Add(-time.Hour)
	bug["closed_by"] = models.Record{"login": "someone"}
	bug["milestone"] = models.Record{"title": "v1.0"}
	comments := []models.Record{
		{"body": "Me too", "created_at": fixedNow.Add(-6 * time.Minute), "user": models.Record{"login": "other"}},
	}

	out, err := r.Render("view", "issue.txt", map[string]any{
		"bug": bug, "comments": comments, "full": true,
		"patch": "", "patch_only": false, "project": "JNRowe/hubugs",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Broken thing")
	assert.Contains(t, out, "v1.0")
	assert.Contains(t, out, "by someone")
	assert.Contains(t, out, "Some")
	assert.Contains(t, out, "other commented about six minutes ago")
	assert.Contains(t, out, "Me too")
}

func TestRenderIssuePatchOnly(t *testing.T) {
	r := newTestRenderer(Options{})
	out, err := r.Render("view", "issue.txt", map[string]any{
		"bug": issue(4, "PR", fixedNow), "comments": nil, "full": false,
		"patch": "--- a\n+++ b\n", "patch_only": true, "project": "JNRowe/hubugs",
	})
	require.NoError(t, err)
	assert.NotContains(t, out, "Title:")
	assert.Contains(t, out, "--- a\n+++ b")
}

func TestUserTemplateOverride(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "mine", "view"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mine", "view", "list.txt"),
		[]byte(`{{ range .bugs }}#{{ .number }} {{ end }}`), 0o644))

	r := newTestRenderer(Options{Set: "mine", Dirs: []string{dir}})
	out, err := r.DisplayBugs([]models.Record{issue(2, "b", fixedNow), issue(1, "a", fixedNow)}, "number", nil)
	require.NoError(t, err)
	assert.Equal(t, "#1 #2 ", out)

	// templates missing from the user set come from the built-in set
	_, err = r.Template("view", "issue.txt")
	assert.NoError(t, err)
}

func TestFilters(t *testing.T) {
	plain := newTestRenderer(Options{})
	coloured := newTestRenderer(Options{Color: true})

	s, err := plain.colourise("red", "s")
	require.NoError(t, err)
	assert.Equal(t, "s", s)

	tests := []struct {
		spec string
		want string
	}{
		{"red", "\x1b[31"},
		{"on_blue", "\x1b[44"},
		{"bold", "\x1b[1"},
	}
	for _, tt := range tests {
		t.Run(tt.spec, func(t *testing.T) {
			s, err := coloured.colourise(tt.spec, "s")
			require.NoError(t, err)
			assert.Contains(t, s, tt.want)
		})
	}

	_, err = coloured.colourise("mauve with a hint of green", "s")
	assert.Error(t, err)

	assert.Equal(t, "+Test\n", plain.highlight("+Test\n"))
	assert.Contains(t, coloured.highlight("+++ a\n--- b\n+Test\n"), "\x1b[")

	html, err := Markdown("### hello")
	require.NoError(t, err)
	assert.Equal(t, "<h3>hello</h3>\n", html)

	text, err := HTMLToText("<p>hello <a href=\"https://example.com\">there</a></p>")
	require.NoError(t, err)
	assert.Contains(t, text, "hello")
	assert.NotContains(t, text, "<p>")

	empty, err := TermMarkdown(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)

	assert.Equal(t, "    a\n\n    b", indent(4, "a\n\nb"))
	assert.Equal(t, "abc", truncate(5, "abc"))
	assert.Equal(t, "ab...", truncate(5, "abcdefg"))
	assert.Equal(t, "  7", pad(3, int64(7)))
	assert.Equal(t, "a, b", join(", ", []any{"a", "b"}))
	assert.Equal(t, "2012-05-01", date(fixedNow))
}

func TestFiltersKeepTimestampText(t *testing.T) {
	ts := models.Timestamp{Time: fixedNow.Add(-time.Hour), Raw: "2012-05-01 11:00:00"}
	r := New(Options{Dirs: []string{}, Now: func() time.Time { return fixedNow }})

	assert.Equal(t, "2012-05-...", truncate(11, ts))
	assert.Equal(t, "  2012-05-01 11:00:00", indent(2, ts))
	assert.Equal(t, "2012-05-01 11:00:00", pad(4, ts))
	assert.Equal(t, "2012-05-01", date(ts))
	assert.Equal(t, "about an hour ago", r.relativeTime(ts))

	text, err := TermMarkdown(ts)
	require.NoError(t, err)
	assert.Equal(t, "2012-05-01 11:00:00", text)

	recs := []models.Record{
		{"updated_at": models.Timestamp{Time: fixedNow, Raw: "b"}},
		{"updated_at": fixedNow.Add(-time.Minute)},
	}
	SortRecords(recs, "updated_at")
	assert.Equal(t, fixedNow.Add(-time.Minute), recs[0]["updated_at"])
}

type fakeEditor struct {
	got    string
	result string
	err    error
}

func (f *fakeEditor) Edit(_ context.Context, text, _ string) (string, error) {
	f.got = text
	if f.result == "<echo>" {
		return text, f.err
	}
	return f.result, f.err
}

func TestEditText(t *testing.T) {
	r := newTestRenderer(Options{CommentChar: ";"})

	ed := &fakeEditor{result: "Some message\n; a comment\n"}
	msg, err := r.EditText(context.Background(), ed, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "Some message", msg)
	assert.Contains(t, ed.got, "; Please enter")

	_, err = r.EditText(context.Background(), &fakeEditor{result: ""}, "", nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)

	_, err = r.EditText(context.Background(), &fakeEditor{result: "; only comments\n"}, "", nil)
	assert.ErrorIs(t, err, ErrEmptyMessage)

	boom := errors.New("editor exploded")
	_, err = r.EditText(context.Background(), &fakeEditor{err: boom}, "", nil)
	assert.ErrorIs(t, err, boom)
}

func TestEditTextPrefill(t *testing.T) {
	r := newTestRenderer(Options{})
	msg, err := r.EditText(context.Background(), &fakeEditor{result: "<echo>"}, "open",
		map[string]any{"title": "Some message", "body": "Line one\nLine two"})
	require.NoError(t, err)
	assert.Equal(t, "Some message\nLine one\nLine two", msg)
}

func TestStripComments(t *testing.T) {
	assert.Equal(t, "title\n\nbody", StripComments("title\r\n# note\n\nbody\n# end\n", "#"))
}
