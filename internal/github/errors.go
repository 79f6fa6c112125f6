package github

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/go-github/v41/github"

	"github.com/danielolaszy/hubugs/pkg/models"
)

// ClientError is a 4xx response from the API.
type ClientError struct {
	StatusCode int
	Method     string
	URL        string
	Message    string
	// Body is the decoded error document.
	Body models.Record
}

func (e *ClientError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.StatusCode, e.Message)
}

// Matches reports whether text occurs in the error message or any of the
// detailed error messages of the response body.
func (e *ClientError) Matches(text string) bool {
	if strings.Contains(e.Message, text) {
		return true
	}
	details, _ := e.Body.Records("errors")
	for _, d := range details {
		if msg, _ := d.String("message"); strings.Contains(msg, text) {
			return true
		}
	}
	return false
}

// NotFound reports whether the response was a 404.
func (e *ClientError) NotFound() bool {
	return e.StatusCode == http.StatusNotFound || e.Message == "Not Found"
}

// NetworkError is a failure to reach the API host at all.
type NetworkError struct {
	URL string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("unable to reach %s: %v", e.URL, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// AsClientError unwraps a *ClientError from err.
func AsClientError(err error) (*ClientError, bool) {
	var ce *ClientError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}

// IsNotFound reports whether err is a 404 client error, or a client error
// whose body contains text (when text is not empty).
func IsNotFound(err error, text string) bool {
	ce, ok := AsClientError(err)
	if !ok {
		return false
	}
	if ce.NotFound() {
		return true
	}
	return text != "" && ce.Matches(text)
}

// classify converts go-github errors into the hubugs error taxonomy.
func classify(method, target string, err error) error {
	var (
		resp    *http.Response
		message string
		details []github.Error
		docURL  string
	)

	var errResp *github.ErrorResponse
	var rateErr *github.RateLimitError
	var abuseErr *github.AbuseRateLimitError
	var otpErr *github.TwoFactorAuthError
	var urlErr *url.Error

	switch {
	case errors.As(err, &errResp):
		resp, message, details, docURL = errResp.Response, errResp.Message, errResp.Errors, errResp.DocumentationURL
	case errors.As(err, &rateErr):
		resp, message = rateErr.Response, rateErr.Message
	case errors.As(err, &abuseErr):
		resp, message = abuseErr.Response, abuseErr.Message
	case errors.As(err, &otpErr):
		resp, message, docURL = otpErr.Response, otpErr.Message, otpErr.DocumentationURL
	case errors.As(err, &urlErr):
		return &NetworkError{URL: target, Err: urlErr.Err}
	default:
		return fmt.Errorf("%s %s: %w", method, target, err)
	}

	if resp == nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	if resp.StatusCode/100 != 4 {
		return fmt.Errorf("%s %s: server error %d: %w", method, target, resp.StatusCode, err)
	}

	errs := make([]any, 0, len(details))
	for _, d := range details {
		errs = append(errs, models.Record{
			"resource":     d.Resource,
			"field":        d.Field,
			"code":         d.Code,
			"message":      d.Message,
			models.KindKey: "Error",
		})
	}
	return &ClientError{
		StatusCode: resp.StatusCode,
		Method:     method,
		URL:        target,
		Message:    message,
		Body: models.Record{
			"message":           message,
			"errors":            errs,
			"documentation_url": docURL,
			models.KindKey:      "Error",
		},
	}
}
