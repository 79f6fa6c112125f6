package github

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielolaszy/hubugs/pkg/models"
)

func newTestClient(t *testing.T, handler http.Handler, token string) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(Config{HostURL: srv.URL, Project: "JNRowe/hubugs", Token: token})
	require.NoError(t, err)
	return c, srv
}

func TestURL(t *testing.T) {
	c, err := NewClient(Config{HostURL: "https://api.github.com/", Project: "JNRowe/hubugs"})
	require.NoError(t, err)

	testCases := []struct {
		name string
		path string
		want string
	}{
		{name: "Issues root", path: "", want: "https://api.github.com/repos/JNRowe/hubugs/issues"},
		{name: "Single issue", path: "12", want: "https://api.github.com/repos/JNRowe/hubugs/issues/12"},
		{name: "Issue comments", path: "12/comments", want: "https://api.github.com/repos/JNRowe/hubugs/issues/12/comments"},
		{name: "Absolute URL", path: "https://api.github.com/search/issues", want: "https://api.github.com/search/issues"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, c.URL(tc.path))
		})
	}

	assert.Equal(t, "https://api.github.com/repos/JNRowe/hubugs/labels", c.RepoURL("labels"))
	assert.Equal(t, "https://api.github.com/search/issues", c.HostURL("search/issues"))
}

func TestDoBindsResponse(t *testing.T) {
	var gotAuth, gotQuery string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.RawQuery
		assert.Equal(t, "/repos/JNRowe/hubugs/issues", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `[{"number": 1, "updated_at": "2012-01-01T00:00:00Z"}]`)
	}), "secret")

	params := url.Values{}
	params.Set("state", "open")
	params.Set("labels", "bug,feature")
	issues, err := c.GetRecords(context.Background(), "", params, "Issue")
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "labels=bug%2Cfeature&state=open", gotQuery)
	require.Len(t, issues, 1)
	assert.Equal(t, "Issue", issues[0].Kind())
	n, err := issues[0].Int("number")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestDoSendsJSONBody(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "closed", body["state"])
		io.WriteString(w, `{"number": 3, "state": "closed"}`)
	}), "secret")

	issue, err := c.PatchRecord(context.Background(), "3", map[string]string{"state": "closed"}, "Issue")
	require.NoError(t, err)
	assert.Equal(t, "closed", issue["state"])
}

func TestDoRequiresToken(t *testing.T) {
	var hits int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		io.WriteString(w, `{}`)
	}), "")

	_, err := c.GetRecord(context.Background(), "1", nil, "Issue")
	assert.ErrorIs(t, err, ErrNoToken)
	assert.Zero(t, atomic.LoadInt32(&hits), "no request may be sent without a token")

	_, _, err = c.Do(context.Background(), Request{Path: "1", NoAuth: true})
	assert.NoError(t, err)
}

func TestClientError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"message": "Validation Failed", "errors": [{"resource": "Issue", "field": "title", "code": "missing_field", "message": "Issue #12 not found"}]}`)
	}), "secret")

	_, err := c.PostRecord(context.Background(), "", map[string]string{}, "Issue")
	require.Error(t, err)

	ce, ok := AsClientError(err)
	require.True(t, ok, "expected ClientError, got %T", err)
	assert.Equal(t, http.StatusUnprocessableEntity, ce.StatusCode)
	assert.Equal(t, "Validation Failed", ce.Message)
	assert.True(t, ce.Matches("Issue #12 not found"))
	assert.False(t, ce.NotFound())
	assert.True(t, IsNotFound(err, "Issue #12 not found"))
	assert.False(t, IsNotFound(err, "Issue #13 not found"))
}

func TestNotFound(t *testing.T) {
	c, _ := newTestClient(t, http.NotFoundHandler(), "secret")

	_, err := c.GetRecord(context.Background(), "99", nil, "Issue")
	require.Error(t, err)
	assert.True(t, IsNotFound(err, ""))
}

func TestServerErrorIsNotClientError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}), "secret")

	_, err := c.GetRecord(context.Background(), "1", nil, "Issue")
	require.Error(t, err)
	_, ok := AsClientError(err)
	assert.False(t, ok)
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	host := srv.URL
	srv.Close()

	c, err := NewClient(Config{HostURL: host, Project: "JNRowe/hubugs", Token: "secret"})
	require.NoError(t, err)

	_, err = c.GetRecord(context.Background(), "1", nil, "Issue")
	var netErr *NetworkError
	assert.True(t, errors.As(err, &netErr), "expected NetworkError, got %T: %v", err, err)
}

func TestRaw(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/repos/JNRowe/hubugs/pulls/4", r.URL.Path)
		assert.Equal(t, MediaTypePatch, r.Header.Get("Accept"))
		io.WriteString(w, "--- a\n+++ b\n")
	}), "secret")

	patch, err := c.Raw(context.Background(), c.RepoURL("pulls/4"), MediaTypePatch)
	require.NoError(t, err)
	assert.Equal(t, "--- a\n+++ b\n", patch)
}

func TestShapeMismatch(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `[]`)
	}), "secret")

	_, err := c.GetRecord(context.Background(), "1", nil, "Issue")
	var fieldErr *models.FieldError
	assert.ErrorAs(t, err, &fieldErr)
}

func TestWithBasicAuth(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "JNRowe", user)
		assert.Equal(t, "hunter2", pass)
		io.WriteString(w, `{"token": "abc"}`)
	}), "")

	basic := c.WithBasicAuth("JNRowe", "hunter2")
	_, content, err := basic.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   basic.HostURL("authorizations"),
		Body:   map[string]any{"note": "hubugs"},
		Model:  "Authorisation",
		NoAuth: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "abc", content.(models.Record)["token"])
}

func TestResponseCache(t *testing.T) {
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		w.Header().Set("Cache-Control", "private, max-age=60")
		io.WriteString(w, `{"has_issues": true}`)
	}))
	defer srv.Close()

	c, err := NewClient(Config{HostURL: srv.URL, Project: "JNRowe/hubugs", Token: "secret", CacheDir: t.TempDir()})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		_, err := c.GetRecord(context.Background(), c.RepoURL(""), nil, "Repo")
		require.NoError(t, err)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&hits))
}

func TestGraphQLURL(t *testing.T) {
	assert.Equal(t, "https://api.github.com/graphql", GraphQLURL("https://api.github.com"))
	assert.Equal(t, "https://ghe.example.com/api/graphql", GraphQLURL("https://ghe.example.com/api/v3/"))
}

func TestViewerLogin(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/graphql", r.URL.Path)
		assert.Equal(t, "Bearer new-token", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"data": {"viewer": {"login": "JNRowe"}}}`)
	}), "")

	login, err := c.ViewerLogin(context.Background(), "new-token")
	require.NoError(t, err)
	assert.Equal(t, "JNRowe", login)
}

func TestWithProject(t *testing.T) {
	c, err := NewClient(Config{HostURL: "https://api.github.com", Project: "someone/else", Token: "secret"})
	require.NoError(t, err)

	home := c.WithProject("danielolaszy/hubugs")
	assert.Equal(t, "https://api.github.com/repos/danielolaszy/hubugs/issues", home.URL(""))
	assert.Equal(t, "someone/else", c.Project())
	assert.True(t, home.HasToken())
}
