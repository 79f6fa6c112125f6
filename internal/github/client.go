// Package github provides the request helper used by every hubugs command.
//
// All issue URLs are built here: a relative path is composed as
// {host}/repos/{project}/issues[/{path}], absolute URLs pass through
// untouched. Responses are bound with pkg/models before being returned.
package github

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v41/github"
	"github.com/gregjones/httpcache"
	"github.com/gregjones/httpcache/diskcache"
	"golang.org/x/oauth2"

	"github.com/danielolaszy/hubugs/internal/logging"
	"github.com/danielolaszy/hubugs/pkg/models"
)

// DefaultHostURL is the public GitHub API root.
const DefaultHostURL = "https://api.github.com"

// MediaTypePatch requests a pull request as a patch instead of JSON.
const MediaTypePatch = "application/vnd.github.v3.patch"

// ErrNoToken is returned when an authenticated request is attempted without a token.
var ErrNoToken = errors.New("no hubugs authorisation token found, run 'hubugs setup' to create a token")

// Config holds the resolved settings a Client is built from.
type Config struct {
	HostURL   string
	Project   string
	Token     string
	CacheDir  string
	UserAgent string
	// Transport is the innermost round tripper; nil means http.DefaultTransport.
	Transport http.RoundTripper
}

// Client issues requests against the issues API of one project.
type Client struct {
	api     *github.Client
	base    http.RoundTripper
	host    string
	project string
	token   string
	agent   string
}

// Request describes one API call.
type Request struct {
	Method string
	// Path is relative to the project's issues URL, or an absolute URL.
	Path    string
	Params  url.Values
	Body    any
	Headers map[string]string
	// Model tags bound records whose JSON carries no type field.
	Model string
	// Raw skips JSON decoding; the content is returned as a string.
	Raw bool
	// NoAuth allows the request without a configured token.
	NoAuth bool
}

// Response is the metadata of a completed request.
type Response struct {
	StatusCode int
	Header     http.Header
	NextPage   int
	FromCache  bool
}

// NewClient creates a Client. The transport stack is oauth2 (when a token is
// set) over the on-disk response cache (when CacheDir is set).
func NewClient(cfg Config) (*Client, error) {
	host := strings.TrimRight(cfg.HostURL, "/")
	if host == "" {
		host = DefaultHostURL
	}
	baseURL, err := url.Parse(host + "/")
	if err != nil {
		return nil, fmt.Errorf("invalid host url %q: %w", cfg.HostURL, err)
	}

	base := cfg.Transport
	if base == nil {
		base = http.DefaultTransport
	}
	if cfg.CacheDir != "" {
		base = &httpcache.Transport{
			Transport:           base,
			Cache:               diskcache.New(cfg.CacheDir),
			MarkCachedResponses: true,
		}
	}

	transport := base
	if cfg.Token != "" {
		transport = &oauth2.Transport{
			Source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token}),
			Base:   base,
		}
	}

	c := &Client{
		base:    base,
		host:    host,
		project: cfg.Project,
		token:   cfg.Token,
		agent:   cfg.UserAgent,
	}
	c.api = newAPI(&http.Client{Transport: transport}, baseURL, cfg.UserAgent)

	logging.Debug("github client configured",
		"host", host,
		"project", cfg.Project,
		"token", logging.MaskSensitive(cfg.Token),
		"cache_dir", cfg.CacheDir)

	return c, nil
}

func newAPI(hc *http.Client, baseURL *url.URL, agent string) *github.Client {
	api := github.NewClient(hc)
	api.BaseURL = baseURL
	api.UploadURL = baseURL
	if agent != "" {
		api.UserAgent = agent
	}
	return api
}

// WithBasicAuth returns a copy of c that authenticates with a user name and
// password instead of the token. It is only used to create a token.
func (c *Client) WithBasicAuth(user, password string) *Client {
	basic := &github.BasicAuthTransport{
		Username:  user,
		Password:  password,
		Transport: c.base,
	}
	clone := *c
	clone.token = ""
	clone.api = newAPI(basic.Client(), c.api.BaseURL, c.agent)
	return &clone
}

// WithProject returns a copy of c that operates on project.
func (c *Client) WithProject(project string) *Client {
	clone := *c
	clone.project = project
	return &clone
}

// Host returns the API root, without a trailing slash.
func (c *Client) Host() string {
	return c.host
}

// Project returns the owner/name the client operates on.
func (c *Client) Project() string {
	return c.project
}

// HasToken reports whether requests will carry an authorisation token.
func (c *Client) HasToken() bool {
	return c.token != ""
}

// URL composes the absolute URL for path. Relative paths are placed under the
// project's issues URL.
func (c *Client) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	u := fmt.Sprintf("%s/repos/%s/issues", c.host, c.project)
	if path != "" {
		u += "/" + strings.TrimLeft(path, "/")
	}
	return u
}

// RepoURL returns {host}/repos/{project}[/{suffix}].
func (c *Client) RepoURL(suffix string) string {
	u := fmt.Sprintf("%s/repos/%s", c.host, c.project)
	if suffix != "" {
		u += "/" + strings.TrimLeft(suffix, "/")
	}
	return u
}

// HostURL returns {host}/{suffix}.
func (c *Client) HostURL(suffix string) string {
	return c.host + "/" + strings.TrimLeft(suffix, "/")
}

// Do performs r and returns the response metadata and bound content. 4xx
// responses are returned as *ClientError and transport failures as
// *NetworkError. Requests are never retried.
func (c *Client) Do(ctx context.Context, r Request) (*Response, any, error) {
	if !r.NoAuth && c.token == "" {
		return nil, nil, ErrNoToken
	}

	method := r.Method
	if method == "" {
		method = http.MethodGet
	}
	target := c.URL(r.Path)
	if len(r.Params) > 0 {
		target += "?" + r.Params.Encode()
	}

	req, err := c.api.NewRequest(method, target, r.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("build %s %s: %w", method, target, err)
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}

	logging.Debug("api request", "method", method, "url", target, "model", r.Model)

	var buf bytes.Buffer
	resp, err := c.api.Do(ctx, req, &buf)
	if err != nil {
		return nil, nil, classify(method, target, err)
	}

	meta := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		NextPage:   resp.NextPage,
		FromCache:  resp.Header.Get(httpcache.XFromCache) != "",
	}
	logging.Debug("api response", "status", meta.StatusCode, "from_cache", meta.FromCache, "bytes", buf.Len())

	if r.Raw {
		return meta, buf.String(), nil
	}
	content, err := models.Decode(buf.Bytes(), r.Model)
	if err != nil {
		return meta, nil, err
	}
	return meta, content, nil
}

// Get fetches path and returns its bound content.
func (c *Client) Get(ctx context.Context, path string, params url.Values, model string) (any, error) {
	_, content, err := c.Do(ctx, Request{Method: http.MethodGet, Path: path, Params: params, Model: model})
	return content, err
}

// GetRecord fetches a single object.
func (c *Client) GetRecord(ctx context.Context, path string, params url.Values, model string) (models.Record, error) {
	content, err := c.Get(ctx, path, params, model)
	if err != nil {
		return nil, err
	}
	return AsRecord(content, model)
}

// GetRecords fetches an array of objects.
func (c *Client) GetRecords(ctx context.Context, path string, params url.Values, model string) ([]models.Record, error) {
	content, err := c.Get(ctx, path, params, model)
	if err != nil {
		return nil, err
	}
	if content == nil {
		return nil, nil
	}
	recs, ok := models.AsRecords(content)
	if !ok {
		return nil, &models.FieldError{Kind: model, Field: "(response)", Want: "array of objects", Got: content}
	}
	return recs, nil
}

// PostRecord sends body with POST and returns the created object.
func (c *Client) PostRecord(ctx context.Context, path string, body any, model string) (models.Record, error) {
	_, content, err := c.Do(ctx, Request{Method: http.MethodPost, Path: path, Body: body, Model: model})
	if err != nil {
		return nil, err
	}
	return AsRecord(content, model)
}

// PatchRecord sends body with PATCH and returns the updated object.
func (c *Client) PatchRecord(ctx context.Context, path string, body any, model string) (models.Record, error) {
	_, content, err := c.Do(ctx, Request{Method: http.MethodPatch, Path: path, Body: body, Model: model})
	if err != nil {
		return nil, err
	}
	return AsRecord(content, model)
}

// Raw fetches path without JSON decoding, negotiating the accept media type.
func (c *Client) Raw(ctx context.Context, path, accept string) (string, error) {
	_, content, err := c.Do(ctx, Request{
		Method:  http.MethodGet,
		Path:    path,
		Headers: map[string]string{"Accept": accept},
		Raw:     true,
	})
	if err != nil {
		return "", err
	}
	return content.(string), nil
}

// AsRecord asserts that bound content is a single object.
func AsRecord(content any, model string) (models.Record, error) {
	rec, ok := content.(models.Record)
	if !ok {
		return nil, &models.FieldError{Kind: model, Field: "(response)", Want: "object", Got: content}
	}
	return rec, nil
}
