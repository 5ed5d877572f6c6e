package errs

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrPermissionDenied is the sentinel error for refused location access.
	// Terminal for the current attempt: the operator has to grant access and retry.
	ErrPermissionDenied = errors.New("location permission denied")

	// ErrLocationUnavailable is the sentinel error for a position fix that could
	// not be obtained within the allowed time. Retryable.
	ErrLocationUnavailable = errors.New("location unavailable")

	// ErrUploadFailed is the sentinel error for evidence submissions that failed
	// in transit. Retryable by re-invoking the flow with fresh evidence.
	ErrUploadFailed = errors.New("upload failed")

	// ErrTransientNetwork is the sentinel error for connectivity-classified
	// failures on read operations. Retryable.
	ErrTransientNetwork = errors.New("transient network failure")

	// ErrServerRejected is the sentinel error for well-formed requests the
	// backend refused (4xx). Not retried automatically; the backend message is
	// surfaced verbatim.
	ErrServerRejected = errors.New("server rejected request")

	// ErrUnauthorized is the sentinel error for an invalid or expired session.
	// Propagated so the auth collaborator can force re-authentication.
	ErrUnauthorized = errors.New("unauthorized")
)

// PermissionDeniedError indicates the position source refused access for a scope
// ("foreground" or "background").
type PermissionDeniedError struct {
	Scope string
	Cause error
}

// NewPermissionDeniedError creates a PermissionDeniedError for the given scope.
func NewPermissionDeniedError(scope string) PermissionDeniedError {
	return PermissionDeniedError{Scope: scope}
}

// NewPermissionDeniedErrorWithCause creates a PermissionDeniedError wrapping an underlying cause.
func NewPermissionDeniedErrorWithCause(scope string, cause error) PermissionDeniedError {
	return PermissionDeniedError{Scope: scope, Cause: cause}
}

func (e PermissionDeniedError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrPermissionDenied, e.Scope, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrPermissionDenied, e.Scope))
}

func (e PermissionDeniedError) Unwrap() error {
	return ErrPermissionDenied
}

// LocationUnavailableError indicates no position fix arrived within Timeout.
type LocationUnavailableError struct {
	Timeout time.Duration
	Cause   error
}

// NewLocationUnavailableError creates a LocationUnavailableError for the given timeout.
func NewLocationUnavailableError(timeout time.Duration) LocationUnavailableError {
	return LocationUnavailableError{Timeout: timeout}
}

// NewLocationUnavailableErrorWithCause creates a LocationUnavailableError wrapping an underlying cause.
func NewLocationUnavailableErrorWithCause(timeout time.Duration, cause error) LocationUnavailableError {
	return LocationUnavailableError{Timeout: timeout, Cause: cause}
}

func (e LocationUnavailableError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: no fix within %s (cause: %s)", ErrLocationUnavailable, e.Timeout, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: no fix within %s", ErrLocationUnavailable, e.Timeout))
}

func (e LocationUnavailableError) Unwrap() error {
	return ErrLocationUnavailable
}

// UploadFailedError indicates an evidence submission failed in transit.
type UploadFailedError struct {
	Endpoint string
	Cause    error
}

// NewUploadFailedError creates an UploadFailedError for the given endpoint.
func NewUploadFailedError(endpoint string) UploadFailedError {
	return UploadFailedError{Endpoint: endpoint}
}

// NewUploadFailedErrorWithCause creates an UploadFailedError wrapping an underlying cause.
func NewUploadFailedErrorWithCause(endpoint string, cause error) UploadFailedError {
	return UploadFailedError{Endpoint: endpoint, Cause: cause}
}

func (e UploadFailedError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrUploadFailed, e.Endpoint, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrUploadFailed, e.Endpoint))
}

func (e UploadFailedError) Unwrap() error {
	return ErrUploadFailed
}

// TransientNetworkError indicates a read operation failed for connectivity reasons.
type TransientNetworkError struct {
	Operation string
	Cause     error
}

// NewTransientNetworkError creates a TransientNetworkError for the given operation.
func NewTransientNetworkError(operation string) TransientNetworkError {
	return TransientNetworkError{Operation: operation}
}

// NewTransientNetworkErrorWithCause creates a TransientNetworkError wrapping an underlying cause.
func NewTransientNetworkErrorWithCause(operation string, cause error) TransientNetworkError {
	return TransientNetworkError{Operation: operation, Cause: cause}
}

func (e TransientNetworkError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s: %s (cause: %s)", ErrTransientNetwork, e.Operation, e.Cause))
	}
	return sanitize(fmt.Sprintf("%s: %s", ErrTransientNetwork, e.Operation))
}

func (e TransientNetworkError) Unwrap() error {
	return ErrTransientNetwork
}

// ServerRejectedError carries the backend's 4xx status and verbatim message.
type ServerRejectedError struct {
	StatusCode int
	Message    string
}

// NewServerRejectedError creates a ServerRejectedError with the backend's status and message.
func NewServerRejectedError(statusCode int, message string) ServerRejectedError {
	return ServerRejectedError{StatusCode: statusCode, Message: message}
}

func (e ServerRejectedError) Error() string {
	if e.Message != "" {
		return sanitize(fmt.Sprintf("%s: %d: %s", ErrServerRejected, e.StatusCode, e.Message))
	}
	return sanitize(fmt.Sprintf("%s: %d", ErrServerRejected, e.StatusCode))
}

func (e ServerRejectedError) Unwrap() error {
	return ErrServerRejected
}

// UnauthorizedError indicates the session token was missing, invalid or expired.
type UnauthorizedError struct {
	Cause error
}

// NewUnauthorizedError creates an UnauthorizedError without an underlying cause.
func NewUnauthorizedError() UnauthorizedError {
	return UnauthorizedError{}
}

// NewUnauthorizedErrorWithCause creates an UnauthorizedError wrapping an underlying cause.
func NewUnauthorizedErrorWithCause(cause error) UnauthorizedError {
	return UnauthorizedError{Cause: cause}
}

func (e UnauthorizedError) Error() string {
	if e.Cause != nil {
		return sanitize(fmt.Sprintf("%s (cause: %s)", ErrUnauthorized, e.Cause))
	}
	return ErrUnauthorized.Error()
}

func (e UnauthorizedError) Unwrap() error {
	return ErrUnauthorized
}
