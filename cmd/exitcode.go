package cmd

import (
	"errors"
	"fmt"

	"github.com/danielolaszy/hubugs/internal/bugs"
	"github.com/danielolaszy/hubugs/internal/config"
	"github.com/danielolaszy/hubugs/internal/github"
	"github.com/danielolaszy/hubugs/pkg/models"
)

const (
	// ExitOK indicates the command completed.
	ExitOK = 0
	// ExitRuntime indicates a failure with no more specific code.
	ExitRuntime = 1
	// ExitInvalidInput indicates bad arguments, configuration or project.
	ExitInvalidInput = 2
	// ExitNetwork indicates the API host could not be reached.
	ExitNetwork = 3
	// ExitClient indicates the API rejected a request.
	ExitClient = 4
	// ExitInternal indicates a response that did not have the expected shape.
	ExitInternal = 5
)

// ExitCode maps a command error to the process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}

	var fieldErr *models.FieldError
	if errors.As(err, &fieldErr) {
		return ExitInternal
	}

	var netErr *github.NetworkError
	if errors.As(err, &netErr) {
		return ExitNetwork
	}

	var clientErr *github.ClientError
	if errors.As(err, &clientErr) {
		return ExitClient
	}

	var envErr *config.EnvironmentError
	var repoErr *config.RepoError
	var inputErr *bugs.InputError
	if errors.As(err, &envErr) || errors.As(err, &repoErr) || errors.As(err, &inputErr) {
		return ExitInvalidInput
	}
	if errors.Is(err, github.ErrNoToken) {
		return ExitInvalidInput
	}

	return ExitRuntime
}

// ErrorMessage formats err for display on stderr.
func ErrorMessage(err error) string {
	var fieldErr *models.FieldError
	if errors.As(err, &fieldErr) {
		return fmt.Sprintf("Error: unexpected API response (%v), please report this", err)
	}
	var netErr *github.NetworkError
	if errors.As(err, &netErr) {
		return fmt.Sprintf("Error: project lookup failed, network or GitHub down? (%v)", netErr.Err)
	}
	var clientErr *github.ClientError
	if errors.As(err, &clientErr) && clientErr.Message != "" {
		return "Error: " + clientErr.Message
	}
	return "Error: " + err.Error()
}
