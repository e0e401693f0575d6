package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for domain operations
var (
	// ErrInvalidMode indicates an upscale mode outside the supported pair
	ErrInvalidMode = errors.New("mode must be either 'clarity' or 'generative'")

	// ErrInvalidResponseFormat indicates a response format other than url or base64
	ErrInvalidResponseFormat = errors.New("invalid response format")

	// ErrEmptyPrompt indicates a generation request without a description
	ErrEmptyPrompt = errors.New("prompt cannot be empty")

	// ErrEmptyToken indicates the user supplied a blank API token
	ErrEmptyToken = errors.New("API token cannot be empty")

	// ErrNoToken indicates no token is stored and none could be obtained
	ErrNoToken = errors.New("no API token available")

	// ErrSecretNotFound indicates the secret store has no value for a key
	ErrSecretNotFound = errors.New("secret not found")

	// ErrAborted indicates the user declined an interactive confirmation
	ErrAborted = errors.New("aborted")
)

// ValidationError reports a locally rejected parameter. No request is sent.
type ValidationError struct {
	Field       string
	Value       string
	Allowed     []string
	Suggestions []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s '%s'", e.Field, e.Value)
}

// HTTPStatusError reports a non-2xx response from the remote endpoint
type HTTPStatusError struct {
	StatusCode int
	Body       string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("http status %d: %s", e.StatusCode, e.Body)
}

// TransportError reports a failure before a status was obtained
// (DNS, connection refused, timeout).
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UnexpectedError wraps any other failure during an operation
// (file I/O, malformed response).
type UnexpectedError struct {
	Err error
}

func (e *UnexpectedError) Error() string {
	return fmt.Sprintf("unexpected: %v", e.Err)
}

func (e *UnexpectedError) Unwrap() error { return e.Err }

// Describe renders err as the diagnostic shown to the user
func Describe(err error) string {
	var (
		validation *ValidationError
		status     *HTTPStatusError
		transport  *TransportError
		unexpected *UnexpectedError
	)
	switch {
	case errors.As(err, &validation):
		msg := fmt.Sprintf("Error: Invalid %s '%s'.", validation.Field, validation.Value)
		if len(validation.Suggestions) > 0 {
			msg += fmt.Sprintf(" Did you mean: %s?", strings.Join(validation.Suggestions, ", "))
		}
		if len(validation.Allowed) > 0 {
			msg += fmt.Sprintf(" Allowed %ss are: %s", validation.Field, strings.Join(validation.Allowed, ", "))
		}
		return msg
	case errors.As(err, &status):
		return fmt.Sprintf("HTTP error occurred: %d - %s", status.StatusCode, status.Body)
	case errors.As(err, &transport):
		return fmt.Sprintf("Request error occurred: %v", transport.Err)
	case errors.As(err, &unexpected):
		return fmt.Sprintf("Unexpected error occurred: %v", unexpected.Err)
	default:
		return fmt.Sprintf("Error: %v", err)
	}
}
