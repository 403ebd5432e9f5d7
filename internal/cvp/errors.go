package cvp

import (
	"errors"
	"fmt"
)

// Sentinel errors surfaced by lookup and session methods so callers can
// branch with errors.Is.
var (
	// ErrNotFound is returned when a named entity does not exist on the server.
	ErrNotFound = errors.New("not found")

	// ErrUnauthorized is returned when the server rejects the session.
	ErrUnauthorized = errors.New("unauthorized")
)

// errCodeEntityNotFound is the CVP error code for a missing entity. The
// server reports it inside an HTTP 200 body.
const errCodeEntityNotFound = "132801"

// APIError is an application-level error embedded in an otherwise successful
// HTTP response body.
type APIError struct {
	Code    string `json:"errorCode"`
	Message string `json:"errorMessage"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("cvp error %s: %s", e.Code, e.Message)
}
