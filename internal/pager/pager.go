// Package pager writes command output, optionally through a pager.
package pager

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/danielolaszy/hubugs/internal/logging"
)

// Pager writes text to Out, through Command when Enabled.
type Pager struct {
	Command string
	Enabled bool
	Out     io.Writer
	Err     io.Writer
}

// Write outputs text followed by a newline.
func (p *Pager) Write(ctx context.Context, text string) error {
	if !strings.HasSuffix(text, "\n") {
		text += "\n"
	}
	if !p.Enabled || p.Command == "" || p.Command == "cat" {
		_, err := io.WriteString(p.Out, text)
		return err
	}

	logging.Debug("running pager", "command", p.Command)
	cmd := exec.CommandContext(ctx, "sh", "-c", p.Command)
	cmd.Stdin = strings.NewReader(text)
	cmd.Stdout = p.Out
	cmd.Stderr = p.Err
	cmd.Env = os.Environ()
	if os.Getenv("LESS") == "" {
		cmd.Env = append(cmd.Env, "LESS=FRX")
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pager %q failed: %w", p.Command, err)
	}
	return nil
}
