package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNotJSON marks a 2xx response whose content type is not application/json.
var ErrNotJSON = errors.New("Response is not JSON")

// TransportError means the backend could not be reached at all.
type TransportError struct {
	BaseURL string
	Err     error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("Failed to fetch %s: %v", e.BaseURL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsCORS reports whether the failure looks like a cross-origin rejection.
func (e *TransportError) IsCORS() bool {
	return e.Err != nil && strings.Contains(e.Err.Error(), "CORS")
}

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	StatusCode int
	StatusText string
	Body       string
}

func (e *StatusError) Error() string {
	return strings.TrimSpace(fmt.Sprintf("HTTP error! status: %d %s", e.StatusCode, e.StatusText))
}

// WithBody is the submission flavour of the message, carrying the response text.
func (e *StatusError) WithBody() string {
	return fmt.Sprintf("HTTP error! status: %d - %s", e.StatusCode, e.Body)
}

// ValidationError is a client-side rejection; no request was sent.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}
