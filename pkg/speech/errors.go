package speech

import (
	"errors"
	"fmt"
)

// Sentinel errors for the speech package.
var (
	// ErrNoAPIKey is returned when the API key is missing.
	ErrNoAPIKey = errors.New("speech: API key required")

	// ErrNoSource is returned when a recognizer has no audio source.
	ErrNoSource = errors.New("speech: audio source required")

	// ErrNoEngine is returned when a speaker has no synthesis engine.
	ErrNoEngine = errors.New("speech: synthesis engine required")

	// ErrNoPlayer is returned when a speaker has no audio player.
	ErrNoPlayer = errors.New("speech: audio player required")

	// ErrAlreadyListening indicates a capture is already in flight.
	// Callers should swallow this, not surface it.
	ErrAlreadyListening = errors.New("speech: already listening")

	// ErrNoSpeech indicates recognition ended without a usable result.
	ErrNoSpeech = errors.New("speech: no speech detected")

	// ErrUnavailable indicates the capability is missing on this host.
	ErrUnavailable = errors.New("speech: capability unavailable")
)

// APIError represents an error response from a speech API.
type APIError struct {
	// Provider identifies which provider returned the error.
	Provider string

	// StatusCode is the HTTP status code.
	StatusCode int

	// Message is the error message from the API.
	Message string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("speech [%s]: API error %d: %s", e.Provider, e.StatusCode, e.Message)
}

// IsRateLimited returns true if this is a rate limit error (HTTP 429).
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == 429
}

// IsUnauthorized returns true if this is an authentication error (HTTP 401).
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401
}

// IsServerError returns true if this is a server-side error (HTTP 5xx).
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500 && e.StatusCode < 600
}

// ProviderError wraps an error with provider context.
type ProviderError struct {
	Provider string
	Err      error
}

// Error implements the error interface.
func (e *ProviderError) Error() string {
	return fmt.Sprintf("speech [%s]: %v", e.Provider, e.Err)
}

// Unwrap returns the underlying error.
func (e *ProviderError) Unwrap() error {
	return e.Err
}

// WrapError wraps an error with provider context.
func WrapError(provider string, err error) error {
	if err == nil {
		return nil
	}
	return &ProviderError{Provider: provider, Err: err}
}
