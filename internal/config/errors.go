package config

import "fmt"

// EnvironmentError reports missing or unusable settings: no user, no token,
// no project.
type EnvironmentError struct {
	Message string
}

func (e *EnvironmentError) Error() string {
	return e.Message
}

// RepoError reports a project that cannot be used: unguessable, invalid,
// missing on the host, or with issues disabled.
type RepoError struct {
	Project string
	Message string
}

func (e *RepoError) Error() string {
	if e.Project == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Message, e.Project)
}
