package apperr

import (
	"errors"
	"fmt"
)

// ErrInvalid is returned when the input fails client-side validation.
var ErrInvalid = errors.New("invalid input")

// ErrAuthenticationRequired is returned when an authenticated call is attempted without a token.
var ErrAuthenticationRequired = errors.New("Authentication required")

// ErrSessionExpired marks a 401 response from the backend.
var ErrSessionExpired = errors.New("session expired")

// ErrInvalidCredentials marks a 401 on a call made without a session.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrForbidden marks a 403 response from the backend.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound marks a 404 response from the backend.
var ErrNotFound = errors.New("not found")

// ErrValidation marks a 400 response from the backend.
var ErrValidation = errors.New("validation failed")

// ErrServer marks a 5xx response from the backend.
var ErrServer = errors.New("server error")

// ErrUnexpected marks any other non-success response.
var ErrUnexpected = errors.New("unexpected response")

// ErrNetwork marks a transport-level failure.
var ErrNetwork = errors.New("network error")

// ErrDistanceUnavailable is returned when no distance resolver succeeds.
var ErrDistanceUnavailable = errors.New("no distance available")

// ErrUnknownRole is returned for a role the client has no page for.
var ErrUnknownRole = errors.New("unknown user role")

// ErrForbiddenRole is returned when the current role may not run an operation.
var ErrForbiddenRole = errors.New("operation not allowed for role")

// NetworkMessage is shown for every transport failure instead of the raw error.
const NetworkMessage = "Network error. Please check your connection and ensure the backend server is running."

// APIError is a non-success backend response reduced to a user-facing message.
type APIError struct {
	Kind    error
	Status  int
	Message string
}

func (e *APIError) Error() string { return e.Message }

// Unwrap exposes Kind so callers can match with errors.Is.
func (e *APIError) Unwrap() error { return e.Kind }

// NetworkError wraps a transport failure behind the generic connectivity message.
type NetworkError struct {
	Cause error
}

func (e *NetworkError) Error() string { return NetworkMessage }

// Unwrap returns both the ErrNetwork sentinel and the transport cause.
func (e *NetworkError) Unwrap() []error { return []error{ErrNetwork, e.Cause} }

// Invalidf returns an ErrInvalid carrying a user-facing message.
func Invalidf(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// ValidationError is a client-side validation failure.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalid }

// Message returns the text to show the user for err.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	var netErr *NetworkError
	if errors.As(err, &netErr) {
		return NetworkMessage
	}
	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return valErr.Message
	}
	return err.Error()
}
