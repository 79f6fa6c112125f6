// Package gitconfig reads and writes hubugs settings in git's configuration store.
package gitconfig

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"

	"gopkg.in/ini.v1"

	"github.com/danielolaszy/hubugs/internal/logging"
)

// Store is a key/value configuration backend.
type Store interface {
	// Get returns the value for key, or "" when it is unset.
	Get(ctx context.Context, key string, localOnly bool) (string, error)
	// Set stores value for key, globally unless localOnly is set.
	Set(ctx context.Context, key, value string, localOnly bool) error
}

// Git is a Store backed by the git command.
type Git struct {
	// Dir is the working directory for git invocations; empty means the process cwd.
	Dir string
}

// Get implements Store. Values beginning with "!" are run as commands and
// their output is returned instead.
func (g Git) Get(ctx context.Context, key string, localOnly bool) (string, error) {
	args := []string{"config"}
	if localOnly {
		args = append(args, "--local")
	}
	args = append(args, "--get", key)

	out, err := g.run(ctx, "git", args...)
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			// unset key, or not inside a repository for --local
			return "", nil
		}
		return "", fmt.Errorf("read git config %s: %w", key, err)
	}

	if strings.HasPrefix(out, "!") {
		fields := strings.Fields(out[1:])
		if len(fields) == 0 {
			return "", nil
		}
		out, err = g.run(ctx, fields[0], fields[1:]...)
		if err != nil {
			return "", fmt.Errorf("run command for git config %s: %w", key, err)
		}
	}
	return out, nil
}

// Set implements Store.
func (g Git) Set(ctx context.Context, key, value string, localOnly bool) error {
	args := []string{"config"}
	if !localOnly {
		args = append(args, "--global")
	}
	args = append(args, key, value)

	if _, err := g.run(ctx, "git", args...); err != nil {
		return fmt.Errorf("write git config %s: %w", key, err)
	}
	logging.Debug("stored git config value", "key", key, "local", localOnly)
	return nil
}

// Var returns a git logical variable, such as GIT_EDITOR.
func (g Git) Var(ctx context.Context, name string) (string, error) {
	return g.run(ctx, "git", "var", name)
}

func (g Git) run(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = g.Dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		logging.Debug("command failed", "command", name, "args", args, "stderr", strings.TrimSpace(stderr.String()))
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

// HgDefaultPath returns the default push/pull path of the enclosing mercurial
// checkout, for hg-git users. It returns "" when there is no hg checkout.
func HgDefaultPath(ctx context.Context, dir string) (string, error) {
	cmd := exec.CommandContext(ctx, "hg", "root")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		// no mercurial install, or not in a mercurial tree
		return "", nil
	}
	root := strings.TrimSpace(string(out))
	return hgrcDefault(filepath.Join(root, ".hg", "hgrc"))
}

func hgrcDefault(path string) (string, error) {
	cfg, err := ini.LooseLoad(path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", path, err)
	}
	return cfg.Section("paths").Key("default").String(), nil
}
