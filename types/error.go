package types

import "fmt"

// ErrorCode represents a unified error code across the module.
type ErrorCode string

// Lifecycle error codes
const (
	ErrInvalidRunningState ErrorCode = "INVALID_RUNNING_STATE"
	ErrHandshakeTimeout    ErrorCode = "HANDSHAKE_TIMEOUT"
	ErrTransportFault      ErrorCode = "TRANSPORT_FAULT"
	ErrInvalidArgument     ErrorCode = "INVALID_ARGUMENT"
)

// Gateway error codes
const (
	ErrGateway            ErrorCode = "GATEWAY_ERROR"
	ErrGatewayUnavailable ErrorCode = "GATEWAY_UNAVAILABLE"
)

// Error represents a structured error with code, message, and cause.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Cause   error     `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// NewError creates a new Error with the given code and message.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithCause adds a cause to the error.
func (e *Error) WithCause(cause error) *Error {
	e.Cause = cause
	return e
}

// GetErrorCode extracts the error code from an error.
func GetErrorCode(err error) ErrorCode {
	if e, ok := err.(*Error); ok {
		return e.Code
	}
	return ""
}
