package github

import (
	"errors"
	"fmt"
)

// -- Sentinels --

var (
	ErrInvalidRepoID = errors.New("repository id must look like owner/repo")
)

// CredentialError is returned before any request when the credentials cannot be used.
type CredentialError struct {
	Reason string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("a valid personal access token with repo scope is required: %s", e.Reason)
}

// RemoteRequestError is returned when a request fails or answers with a non-success status.
type RemoteRequestError struct {
	Method  string
	Path    string
	Status  int
	Message string
	Cause   error
}

func (e *RemoteRequestError) Error() string {
	switch {
	case e.Cause != nil:
		return fmt.Sprintf("%s %s failed: %v", e.Method, e.Path, e.Cause)
	case e.Message != "":
		return fmt.Sprintf("%s %s returned %d: %s", e.Method, e.Path, e.Status, e.Message)
	default:
		return fmt.Sprintf("%s %s returned %d", e.Method, e.Path, e.Status)
	}
}

func (e *RemoteRequestError) Unwrap() error {
	return e.Cause
}

// EmptyResultError is returned when an import discovers no files.
type EmptyResultError struct {
	Repo string
}

func (e *EmptyResultError) Error() string {
	return fmt.Sprintf("repository %s appears empty or inaccessible", e.Repo)
}
