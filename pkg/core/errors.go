package core

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinels matched by the typed errors below through errors.Is.
var (
	ErrAuth           = errors.New("missing credential")
	ErrRemote         = errors.New("remote error")
	ErrRemoteNotFound = errors.New("remote file not found")
	ErrConflict       = errors.New("version conflict")
	ErrValidation     = errors.New("validation error")
	ErrNotFound       = errors.New("search string not found")
)

// AuthError is returned when a remote operation is attempted without a credential.
// It is raised before anything goes over the wire.
type AuthError struct {
	Op string
}

func (e *AuthError) Error() string {
	if e.Op == "" {
		return "credential is not set"
	}
	return fmt.Sprintf("%s: credential is not set", e.Op)
}

func (e *AuthError) Is(target error) bool { return target == ErrAuth }

// RemoteError carries a non-success response from the hosting API.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	return fmt.Sprintf("GitHub API error: %d - %s", e.Status, msg)
}

func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrRemote:
		return true
	case ErrRemoteNotFound:
		return e.Status == http.StatusNotFound
	case ErrConflict:
		return e.Status == http.StatusConflict || e.Status == http.StatusUnprocessableEntity
	}
	return false
}

// ValidationError reports a failed local precondition.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// Invalid is a shorthand for building a ValidationError.
func Invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// NotFoundError is returned when a search string is absent from the content.
type NotFoundError struct {
	Search string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("search string %q not found in content", e.Search)
}

func (e *NotFoundError) Is(target error) bool { return target == ErrNotFound }
