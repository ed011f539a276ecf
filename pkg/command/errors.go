package command

import (
	"errors"
	"fmt"
)

// Sentinel errors for the command package.
var (
	// ErrNoBaseURL is returned when the backend base URL is missing.
	ErrNoBaseURL = errors.New("command: base URL required")

	// ErrCommandFailed indicates the command request could not be
	// processed (transport failure or non-success response).
	ErrCommandFailed = errors.New("command: request failed")
)

// APIError represents a non-success response from the command endpoint.
type APIError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the error message from the backend, if any.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("command: API error %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("command: API error %d", e.StatusCode)
}

// Unwrap lets errors.Is match ErrCommandFailed.
func (e *APIError) Unwrap() error {
	return ErrCommandFailed
}

// IsUnauthorized returns true if this is an authentication error (HTTP 401).
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401
}

// IsServerError returns true if this is a server-side error (HTTP 5xx).
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// IsFailure returns true if the error means the command was not processed.
func IsFailure(err error) bool {
	return errors.Is(err, ErrCommandFailed)
}
