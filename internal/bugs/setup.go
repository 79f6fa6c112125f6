package bugs

import (
	"context"
	"net/http"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/danielolaszy/hubugs/internal/github"
	"github.com/danielolaszy/hubugs/internal/logging"
)

// HomeProject is where hubugs' own bugs are tracked.
const HomeProject = "danielolaszy/hubugs"

// reportModules are the dependencies listed in bug reports.
var reportModules = []string{
	"github.com/spf13/cobra",
	"github.com/google/go-github/v41",
	"github.com/alecthomas/chroma/v2",
	"github.com/yuin/goldmark",
	"github.com/jaytaylor/html2text",
	"github.com/gregjones/httpcache",
}

// SetupOptions holds the answers to the setup prompts.
type SetupOptions struct {
	User     string
	Password string
	Private  bool
	Local    bool
}

// Setup creates an authorisation token with the user's credentials and
// stores it in git config. The login the token belongs to is stored as
// github.user when that is unset.
func (s *Service) Setup(ctx context.Context, opts SetupOptions) (string, error) {
	scope := "public_repo"
	if opts.Private {
		scope = "repo"
	}

	basic := s.Client.WithBasicAuth(opts.User, opts.Password)
	_, content, err := basic.Do(ctx, github.Request{
		Method: http.MethodPost,
		Path:   basic.HostURL("authorizations"),
		Body: map[string]any{
			"scopes":   []string{scope},
			"note":     "hubugs",
			"note_url": "https://" + s.WebHost + "/" + HomeProject,
		},
		Model:  "Authorisation",
		NoAuth: true,
	})
	if err != nil {
		return "", err
	}
	auth, err := github.AsRecord(content, "Authorisation")
	if err != nil {
		return "", err
	}
	token, err := auth.String("token")
	if err != nil {
		return "", err
	}
	if err := s.Store.Set(ctx, "hubugs.token", token, opts.Local); err != nil {
		return "", err
	}

	login, err := s.Client.ViewerLogin(ctx, token)
	if err != nil {
		s.warn("Unable to verify the new token: %v", err)
		return "Configuration complete!", nil
	}
	user, err := s.Store.Get(ctx, "github.user", false)
	if err != nil {
		return "", err
	}
	if user == "" {
		if err := s.Store.Set(ctx, "github.user", login, false); err != nil {
			return "", err
		}
	}
	logging.Info("token verified", "login", login)
	return "Configuration complete!", nil
}

// ReportBug composes a bug report against hubugs itself in the editor and
// opens it, returning the new bug's number.
func (s *Service) ReportBug(ctx context.Context) (int, error) {
	home := &Service{
		Client:   s.Client.WithProject(HomeProject),
		Renderer: s.Renderer,
		Editor:   s.Editor,
		Store:    s.Store,
		WebHost:  s.WebHost,
		Version:  s.Version,
		Stdin:    s.Stdin,
		Err:      s.Err,
	}

	text, err := home.readText(ctx, false, "", "report_bug", map[string]any{
		"local":      strings.EqualFold(s.Project(), HomeProject),
		"version":    s.Version,
		"go_version": runtime.Version(),
		"platform":   runtime.GOOS + "/" + runtime.GOARCH,
		"versions":   moduleVersions(),
	}, false)
	if err != nil {
		return 0, err
	}
	title, body, err := splitText(text)
	if err != nil {
		return 0, err
	}

	bug, err := home.Client.PostRecord(ctx, "", map[string]string{"title": title, "body": body}, "Issue")
	if err != nil {
		return 0, err
	}
	return bug.Int("number")
}

func moduleVersions() map[string]string {
	versions := make(map[string]string, len(reportModules))
	for _, m := range reportModules {
		versions[m] = "No version info"
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return versions
	}
	for _, dep := range info.Deps {
		if _, wanted := versions[dep.Path]; wanted {
			versions[dep.Path] = dep.Version
		}
	}
	return versions
}
