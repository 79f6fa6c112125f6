// Package remote extracts GitHub project names from version-control remote URLs.
package remote

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// DefaultHost is the web host clone URLs are matched against.
const DefaultHost = "github.com"

// ErrUnrecognizedURL indicates a remote URL that does not point at a project on the expected host.
var ErrUnrecognizedURL = errors.New("unrecognized repository URL")

var (
	patternsMu sync.Mutex
	patterns   = map[string]*regexp.Regexp{}
)

// urlPattern accepts, for the given host:
//
//	git@host:owner/repo[.git]
//	git://host/owner/repo[.git]
//	http(s)://[user@]host/owner/repo[.git]
//	git+ssh://git@host:owner/repo[.git]   (hg-git)
func urlPattern(host string) *regexp.Regexp {
	patternsMu.Lock()
	defer patternsMu.Unlock()

	if re, ok := patterns[host]; ok {
		return re
	}
	h := regexp.QuoteMeta(host)
	re := regexp.MustCompile(`^(?:(?:git\+ssh://)?git@` + h + `:` +
		`|git://` + h + `/` +
		`|https?://(?:[^@/]*@)?` + h + `/)` +
		`([^/:]+/[^/]+?)` +
		`(?:\.git)?/?$`)
	patterns[host] = re
	return re
}

// Parse returns the owner/repo pair from a github.com remote URL.
func Parse(rawURL string) (string, error) {
	return ParseHost(rawURL, DefaultHost)
}

// ParseHost returns the owner/repo pair from a remote URL on host.
func ParseHost(rawURL, host string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if host == "" {
		host = DefaultHost
	}
	m := urlPattern(strings.ToLower(host)).FindStringSubmatch(rawURL)
	if m == nil {
		return "", fmt.Errorf("parse %q: %w", rawURL, ErrUnrecognizedURL)
	}
	return m[1], nil
}

// WebHost derives the web host from an API host URL.
//
//	https://api.github.com          -> github.com
//	https://ghe.example.com/api/v3  -> ghe.example.com
func WebHost(apiURL string) string {
	host := apiURL
	if i := strings.Index(host, "://"); i >= 0 {
		host = host[i+3:]
	}
	if i := strings.IndexAny(host, "/?#"); i >= 0 {
		host = host[:i]
	}
	host = strings.ToLower(host)
	if host == "" || host == "api.github.com" {
		return DefaultHost
	}
	return strings.TrimPrefix(host, "api.")
}
