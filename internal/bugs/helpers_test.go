package bugs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/danielolaszy/hubugs/internal/gitconfig"
	"github.com/danielolaszy/hubugs/internal/github"
	"github.com/danielolaszy/hubugs/internal/render"
)

var testNow = time.Date(2012, 5, 1, 12, 0, 0, 0, time.UTC)

type seenRequest struct {
	Method string
	Path   string
	Query  url.Values
	Body   map[string]any
}

// fakeAPI is a ServeMux that records every request it receives.
type fakeAPI struct {
	*http.ServeMux

	mu       sync.Mutex
	requests []seenRequest
}

func newFakeAPI() *fakeAPI {
	api := &fakeAPI{ServeMux: http.NewServeMux()}
	api.HandleFunc("GET /repos/JNRowe/hubugs", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"full_name": "JNRowe/hubugs", "has_issues": true}`)
	})
	return api
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	req := seenRequest{Method: r.Method, Path: r.URL.Path, Query: r.URL.Query()}
	if r.Body != nil {
		data, _ := io.ReadAll(r.Body)
		r.Body = io.NopCloser(bytes.NewReader(data))
		if len(data) > 0 {
			_ = json.Unmarshal(data, &req.Body)
		}
	}
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()
	f.ServeMux.ServeHTTP(w, r)
}

// find returns the recorded requests with the given method and path.
func (f *fakeAPI) find(method, path string) []seenRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []seenRequest
	for _, r := range f.requests {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// mutations counts the non-GET requests.
func (f *fakeAPI) mutations() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, r := range f.requests {
		if r.Method != http.MethodGet {
			n++
		}
	}
	return n
}

func (f *fakeAPI) total() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	io.WriteString(w, body)
}

func issueJSON(n int, title, state string, labels ...string) string {
	ls := make([]map[string]any, 0, len(labels))
	for _, l := range labels {
		ls = append(ls, map[string]any{"name": l, "color": "fc2929", "url": "https://api.github.com/labels/" + l})
	}
	data, _ := json.Marshal(map[string]any{
		"number":     n,
		"title":      title,
		"body":       "Body of " + title,
		"state":      state,
		"comments":   0,
		"created_at": "2012-04-01T10:00:00Z",
		"updated_at": fmt.Sprintf("2012-04-%02dT10:00:00Z", n%28+1),
		"user":       map[string]any{"login": "JNRowe", "id": 1},
		"labels":     ls,
		"html_url":   fmt.Sprintf("https://github.com/JNRowe/hubugs/issues/%d", n),
	})
	return string(data)
}

// fakeEditor returns result, or its input when result is "<echo>".
type fakeEditor struct {
	result string
	calls  int
	got    string
}

func (e *fakeEditor) Edit(_ context.Context, text, _ string) (string, error) {
	e.calls++
	e.got = text
	if e.result == "<echo>" {
		return text, nil
	}
	return e.result, nil
}

type testService struct {
	*Service
	api    *fakeAPI
	editor *fakeEditor
	store  *gitconfig.MapStore
	errOut *bytes.Buffer
	opened []string
}

func newTestService(t *testing.T, api *fakeAPI) *testService {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	client, err := github.NewClient(github.Config{HostURL: srv.URL, Project: "JNRowe/hubugs", Token: "tok"})
	require.NoError(t, err)

	ts := &testService{
		api:    api,
		editor: &fakeEditor{},
		store:  gitconfig.NewMapStore(nil),
		errOut: &bytes.Buffer{},
	}
	ts.Service = &Service{
		Client:   client,
		Renderer: render.New(render.Options{Dirs: []string{}, Now: func() time.Time { return testNow }}),
		Editor:   ts.editor,
		Store:    ts.store,
		WebHost:  "github.com",
		Version:  "0.1.0",
		Stdin:    strings.NewReader(""),
		Err:      ts.errOut,
		Browse: func(u string) error {
			ts.opened = append(ts.opened, u)
			return nil
		},
	}
	return ts
}
