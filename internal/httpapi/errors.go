package httpapi

import (
	"errors"
	"fmt"
)

// Common errors returned by the HTTP client.
var (
	// ErrNotFound indicates the resource was not found (HTTP 404).
	ErrNotFound = errors.New("not found")

	// ErrAuthError indicates a missing or invalid API key.
	ErrAuthError = errors.New("authentication error")

	// ErrRateLimited indicates the rate limit was still exceeded after retries.
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrNetworkError indicates a network connectivity issue.
	ErrNetworkError = errors.New("network error")
)

// APIError represents an unexpected HTTP status from an upstream API.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("API error (status %d) for %s", e.StatusCode, e.URL)
	}
	return fmt.Sprintf("API error (status %d) for %s: %s", e.StatusCode, e.URL, e.Message)
}

// IsNotFound returns true if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 404
	}
	return false
}

// IsAuthError returns true if the error indicates an authentication problem.
func IsAuthError(err error) bool {
	if errors.Is(err, ErrAuthError) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 401 || apiErr.StatusCode == 403
	}
	return false
}

// IsRateLimited returns true if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	if errors.Is(err, ErrRateLimited) {
		return true
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == 429
	}
	return false
}
