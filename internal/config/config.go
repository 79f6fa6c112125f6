// Package config resolves the hubugs execution environment.
//
// Values are looked up in order: command line flag, environment variable,
// git configuration, built-in default. A .env file in the working directory
// is loaded first, without overriding variables that are already set.
package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/danielolaszy/hubugs/internal/gitconfig"
	"github.com/danielolaszy/hubugs/internal/github"
	"github.com/danielolaszy/hubugs/internal/logging"
	"github.com/danielolaszy/hubugs/internal/remote"
)

const (
	// DefaultTemplates is the built-in template set.
	DefaultTemplates = "default"
	// DefaultCommentChar marks editor lines that are stripped from messages.
	DefaultCommentChar = "#"
	// DefaultPager is used when no pager is configured anywhere.
	DefaultPager = "less -R"
)

// Config holds the resolved settings for one invocation.
type Config struct {
	Project     string
	HostURL     string
	WebHost     string
	Token       string
	User        string
	Pager       string
	Templates   string
	CommentChar string
	CacheDir    string
}

// Options controls Load.
type Options struct {
	// Store is the git configuration backend; nil means gitconfig.Git{Dir: Dir}.
	Store gitconfig.Store
	// Flags holds the "project" and "host-url" persistent flags, if any.
	Flags *pflag.FlagSet
	// EnvFile is loaded with godotenv before reading the environment.
	EnvFile string
	// Dir is the working directory used for the mercurial fallback.
	Dir string
	// SkipProject leaves Project empty instead of failing when it cannot
	// be determined. setup and report-bug use it.
	SkipProject bool
}

// setting binds one viper key to its environment variable and git key.
type setting struct {
	key       string
	env       string
	gitKey    string
	localOnly bool
	fallback  string
	// flag marks settings that have a persistent command line flag.
	flag      bool
}

var settings = []setting{
	{key: "project", env: "HUBUGS_PROJECT", gitKey: "hubugs.project", localOnly: true, flag: true},
	{key: "host-url", env: "HUBUGS_HOST_URL", gitKey: "hubugs.host-url", fallback: github.DefaultHostURL, flag: true},
	{key: "token", env: "HUBUGS_TOKEN", gitKey: "hubugs.token"},
	{key: "user", env: "GITHUB_USER", gitKey: "github.user"},
	{key: "pager", env: "HUBUGS_PAGER", gitKey: "hubugs.pager"},
	{key: "templates", env: "HUBUGS_TEMPLATES", gitKey: "hubugs.templates", fallback: DefaultTemplates},
	{key: "comment-char", gitKey: "core.commentchar", fallback: DefaultCommentChar},
	{key: "cache-dir", env: "HUBUGS_CACHE_DIR"},
}

// Load resolves the configuration. The token is not checked here; requests
// that need it fail with github.ErrNoToken.
func Load(ctx context.Context, opts Options) (*Config, error) {
	if opts.EnvFile != "" {
		if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logging.Warn("failed to load env file", "file", opts.EnvFile, "error", err)
		}
	}

	store := opts.Store
	if store == nil {
		store = gitconfig.Git{Dir: opts.Dir}
	}

	v, err := newViper(ctx, store, opts.Flags)
	if err != nil {
		return nil, err
	}

	host := strings.TrimRight(v.GetString("host-url"), "/")
	cfg := &Config{
		HostURL:     host,
		WebHost:     remote.WebHost(host),
		Token:       v.GetString("token"),
		User:        v.GetString("user"),
		Pager:       v.GetString("pager"),
		Templates:   v.GetString("templates"),
		CommentChar: v.GetString("comment-char"),
		CacheDir:    v.GetString("cache-dir"),
	}
	if cfg.Pager == "" {
		cfg.Pager = os.Getenv("PAGER")
	}
	if cfg.Pager == "" {
		cfg.Pager = DefaultPager
	}
	if cfg.CacheDir == "" {
		cfg.CacheDir = defaultCacheDir()
	}

	project, err := resolveProject(ctx, store, opts.Dir, v.GetString("project"), cfg.WebHost)
	switch {
	case err == nil:
		if cfg.Project, err = qualify(project, cfg.User); err != nil {
			return nil, err
		}
	case opts.SkipProject:
		logging.Debug("no project resolved", "error", err)
	default:
		return nil, err
	}

	logging.Debug("configuration loaded",
		"project", cfg.Project,
		"host_url", cfg.HostURL,
		"token", logging.MaskSensitive(cfg.Token),
		"templates", cfg.Templates,
		"cache_dir", cfg.CacheDir)

	return cfg, nil
}

func newViper(ctx context.Context, store gitconfig.Store, flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	for _, s := range settings {
		if s.env != "" {
			if err := v.BindEnv(s.key, s.env); err != nil {
				return nil, fmt.Errorf("bind %s: %w", s.env, err)
			}
		}

		def := s.fallback
		if s.gitKey != "" {
			val, err := store.Get(ctx, s.gitKey, s.localOnly)
			if err != nil {
				return nil, err
			}
			if val != "" {
				def = val
			}
		}
		if def != "" {
			v.SetDefault(s.key, def)
		}

		if s.flag && flags != nil {
			if f := flags.Lookup(s.key); f != nil {
				if err := v.BindPFlag(s.key, f); err != nil {
					return nil, fmt.Errorf("bind --%s: %w", s.key, err)
				}
			}
		}
	}
	return v, nil
}

// resolveProject falls back from the configured value to the origin remote
// and then to an hg-git checkout's default path.
func resolveProject(ctx context.Context, store gitconfig.Store, dir, configured, webHost string) (string, error) {
	if configured != "" {
		return configured, nil
	}

	data, err := store.Get(ctx, "remote.origin.url", true)
	if err != nil {
		return "", err
	}
	if data == "" {
		if data, err = gitconfig.HgDefaultPath(ctx, dir); err != nil {
			return "", err
		}
	}
	if data == "" {
		return "", &RepoError{Message: "Unable to guess project from repository"}
	}

	project, err := remote.ParseHost(data, webHost)
	if err != nil {
		return "", &RepoError{Message: "Invalid project configuration, specify with `--project' option"}
	}
	return project, nil
}

// qualify prefixes a bare project name with the configured user.
func qualify(project, user string) (string, error) {
	if strings.Contains(project, "/") {
		return project, nil
	}
	if user == "" {
		return "", &EnvironmentError{Message: "No GitHub user setting!"}
	}
	return user + "/" + project, nil
}

func defaultCacheDir() string {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, "hubugs")
}
