package api

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the backend reports 404 for a resource.
var ErrNotFound = errors.New("resource not found")

// ValidationError is a local pre-check failure (zero quantity, missing
// size selection, insufficient stock). No network call was attempted and
// no state was mutated.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// AuthenticationError means the session or credential is invalid (401).
// Callers redirect to login; the only cleanup is aborting the optimistic
// change.
type AuthenticationError struct{}

func (e *AuthenticationError) Error() string {
	return "authentication required"
}

// AuthorizationError means the caller is authenticated but lacks the
// privilege (403). Not retryable.
type AuthorizationError struct{}

func (e *AuthorizationError) Error() string {
	return "insufficient privileges"
}

// ServerValidationError carries the first offending field of a 400
// response. Triggers rollback of any optimistic local change.
type ServerValidationError struct {
	Field   string
	Message string
}

func (e *ServerValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("server rejected request: %s", e.Message)
	}
	return fmt.Sprintf("server rejected field %q: %s", e.Field, e.Message)
}

// NetworkError covers both transport failures and unexpected server
// errors. Unreachable distinguishes "server unreachable" from "server
// returned an error" for operator diagnosis.
type NetworkError struct {
	Op          string
	Status      int
	Unreachable bool
	Err         error
}

func (e *NetworkError) Error() string {
	if e.Unreachable {
		return fmt.Sprintf("%s: server unreachable: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: server returned an error (status %d)", e.Op, e.Status)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}
