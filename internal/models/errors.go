package models

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCredential indicates the one-time code was rejected by the token exchange.
	ErrInvalidCredential = errors.New("invalid credential")

	// ErrMalformedResponse indicates the server returned a payload the client cannot use,
	// such as an empty token or a body that does not decode.
	ErrMalformedResponse = errors.New("malformed response")

	// ErrUnauthorized indicates a 401 on an authenticated call. The session has
	// already been cleared by the time a caller sees it.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNetworkFailure indicates a transport-level failure.
	ErrNetworkFailure = errors.New("network failure")

	// ErrRequestFailed indicates any other non-2xx response.
	ErrRequestFailed = errors.New("request failed")

	// ErrNoSession is returned by protected calls made without a session.
	// No request is sent in that case.
	ErrNoSession = errors.New("no session available")
)

// APIError describes a failed API call. It wraps one of the sentinel errors
// above so callers can classify it with errors.Is.
type APIError struct {
	// Kind is the sentinel this error classifies as.
	Kind error
	// Endpoint is the request path, e.g. "/monitors".
	Endpoint string
	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int
	// Message is the server-provided message, when there is one.
	Message string
	// Err is the underlying cause, when there is one.
	Err error
}

// NewAPIError creates an APIError of the given kind.
func NewAPIError(kind error, endpoint string, statusCode int) *APIError {
	return &APIError{
		Kind:       kind,
		Endpoint:   endpoint,
		StatusCode: statusCode,
	}
}

// WithMessage sets the server message and returns the same instance for chaining.
func (e *APIError) WithMessage(message string) *APIError {
	e.Message = message
	return e
}

// WithCause sets the underlying cause and returns the same instance for chaining.
func (e *APIError) WithCause(err error) *APIError {
	e.Err = err
	return e
}

// Error implements the error interface.
func (e *APIError) Error() string {
	msg := e.Kind.Error()
	if e.Endpoint != "" {
		msg = fmt.Sprintf("%s: %s", e.Endpoint, msg)
	}
	if e.StatusCode != 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Message != "" {
		msg = fmt.Sprintf("%s: %s", msg, e.Message)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

// Unwrap exposes both the classification and the cause to errors.Is and errors.As.
func (e *APIError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// IsAuthError reports whether err means the user has to sign in again.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrNoSession)
}
