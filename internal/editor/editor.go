// Package editor lets the user compose text in their external editor.
package editor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/danielolaszy/hubugs/internal/logging"
)

// VarGetter reads git logical variables.
type VarGetter interface {
	Var(ctx context.Context, name string) (string, error)
}

// Choose returns the editor command: git's GIT_EDITOR, then $VISUAL,
// $EDITOR and finally vi.
func Choose(ctx context.Context, git VarGetter) string {
	if git != nil {
		if cmd, err := git.Var(ctx, "GIT_EDITOR"); err == nil && strings.TrimSpace(cmd) != "" {
			return strings.TrimSpace(cmd)
		}
	}
	for _, env := range []string{"VISUAL", "EDITOR"} {
		if cmd := os.Getenv(env); cmd != "" {
			return cmd
		}
	}
	return "vi"
}

// Editor runs an editor command on a temporary file.
type Editor struct {
	// Command is a shell command line; the file name is appended.
	Command string
	// TempDir holds the staging file; empty means os.TempDir().
	TempDir string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// New returns an Editor attached to the process's terminal.
func New(command string) *Editor {
	return &Editor{
		Command: command,
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Edit stages text in a temporary file named with ext, runs the editor on
// it and returns the saved content. Unchanged content is returned as "".
// The file is removed on every path.
func (e *Editor) Edit(ctx context.Context, text, ext string) (string, error) {
	f, err := os.CreateTemp(e.TempDir, "hubugs-*"+ext)
	if err != nil {
		return "", fmt.Errorf("create editor file: %w", err)
	}
	name := f.Name()
	defer os.Remove(name)

	if _, err := f.WriteString(text); err != nil {
		f.Close()
		return "", fmt.Errorf("write editor file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("write editor file: %w", err)
	}

	logging.Debug("running editor", "command", e.Command, "file", name)
	cmd := exec.CommandContext(ctx, "sh", "-c", e.Command+` "$@"`, e.Command, name)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("editor %q failed: %w", e.Command, err)
	}

	data, err := os.ReadFile(name)
	if err != nil {
		return "", fmt.Errorf("read editor file: %w", err)
	}
	if string(data) == text {
		return "", nil
	}
	return string(data), nil
}
