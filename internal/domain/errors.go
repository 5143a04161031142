package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrAuthenticationFailed indicates the backend rejected explicit credentials
	ErrAuthenticationFailed = errors.New("authentication failed")

	// ErrPasswordMismatch indicates password and confirmation differ
	ErrPasswordMismatch = errors.New("passwords do not match")

	// ErrMalformedCredential indicates the bearer token could not be decoded
	ErrMalformedCredential = errors.New("malformed bearer credential")

	// ErrNotAuthenticated indicates an operation that requires a session
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrNotFound indicates the requested movie does not exist in the store
	ErrNotFound = errors.New("movie not found")

	// ErrCatalogueUnavailable indicates the genre catalogue could not be fetched
	ErrCatalogueUnavailable = errors.New("genre catalogue unavailable")

	// ErrUpstreamUnavailable indicates the external metadata provider is unreachable
	ErrUpstreamUnavailable = errors.New("metadata provider unavailable")

	// ErrServerOffline indicates the catalogue backend is unreachable
	ErrServerOffline = errors.New("catalogue server is unreachable")
)

// InvalidInputError names the fields that failed validation.
// It is always raised before any network call.
type InvalidInputError struct {
	Fields []string
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid movie input: %s", strings.Join(e.Fields, ", "))
}

// BackendError carries the backend's own message for a well-formed non-2xx
// response, as distinct from a transport failure.
type BackendError struct {
	StatusCode int
	Message    string
}

func (e *BackendError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("backend request failed with status %d", e.StatusCode)
}
