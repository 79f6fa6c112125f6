// Package main is the entry point for the hubugs CLI.
package main

import (
	"fmt"
	"os"

	"github.com/danielolaszy/hubugs/cmd"
	"github.com/danielolaszy/hubugs/internal/logging"
)

// main executes the root command and maps any error to an exit code.
func main() {
	logging.Debug("starting hubugs", "version", cmd.Version, "log_level", logging.LevelFromEnv())

	if err := cmd.Execute(); err != nil {
		logging.Debug("command execution failed", "error", err)
		fmt.Fprintln(os.Stderr, cmd.ErrorMessage(err))
		os.Exit(cmd.ExitCode(err))
	}
}
