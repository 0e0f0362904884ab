package models

import (
	"errors"
	"fmt"
)

// ErrorCode classifies failures raised by the client library
type ErrorCode int

const (
	// Setup-phase failures, raised before any stream exists
	BindError        ErrorCode = 1001
	ActivationFailed ErrorCode = 1002

	// Stream failures
	TransportError          ErrorCode = 2001
	ProtocolError           ErrorCode = 2002
	ProtocolVersionMismatch ErrorCode = 2003
	Timeout                 ErrorCode = 2004
	SessionClosed           ErrorCode = 2005

	// Facade contract failures
	InvalidResponse ErrorCode = 3001
	UnknownMethod   ErrorCode = 3002
	InvalidRequest  ErrorCode = 3003

	ConfigurationError ErrorCode = 4001
)

// String returns the string representation of the error code
func (code ErrorCode) String() string {
	switch code {
	case BindError:
		return "BIND_ERROR"
	case ActivationFailed:
		return "ACTIVATION_FAILED"
	case TransportError:
		return "TRANSPORT_ERROR"
	case ProtocolError:
		return "PROTOCOL_ERROR"
	case ProtocolVersionMismatch:
		return "PROTOCOL_VERSION_MISMATCH"
	case Timeout:
		return "TIMEOUT"
	case SessionClosed:
		return "SESSION_CLOSED"
	case InvalidResponse:
		return "INVALID_RESPONSE"
	case UnknownMethod:
		return "UNKNOWN_METHOD"
	case InvalidRequest:
		return "INVALID_REQUEST"
	case ConfigurationError:
		return "CONFIGURATION_ERROR"
	default:
		return fmt.Sprintf("UNKNOWN_ERROR_%d", int(code))
	}
}

// Message returns the standard human-readable message for the error code
func (code ErrorCode) Message() string {
	switch code {
	case BindError:
		return "Failed to bind socket"
	case ActivationFailed:
		return "Failed to activate GUI host"
	case TransportError:
		return "Transport error"
	case ProtocolError:
		return "Protocol error"
	case ProtocolVersionMismatch:
		return "Protocol version rejected by host"
	case Timeout:
		return "Operation timed out"
	case SessionClosed:
		return "Session closed"
	case InvalidResponse:
		return "Invalid response"
	case UnknownMethod:
		return "Unknown remote method"
	case InvalidRequest:
		return "Invalid request"
	case ConfigurationError:
		return "Configuration error"
	default:
		return "Unknown error"
	}
}

// Terminal reports whether a session that produced this code can still be used.
// Only facade contract failures leave the streams intact.
func (code ErrorCode) Terminal() bool {
	switch code {
	case InvalidResponse, UnknownMethod, InvalidRequest, ConfigurationError:
		return false
	default:
		return true
	}
}

// ErrorData contains additional error context information
type ErrorData struct {
	Details string `json:"details,omitempty"`
	Method  string `json:"method,omitempty"`
	Cause   error  `json:"-"`
}

// GUIError is the single error type surfaced by the library
type GUIError struct {
	Code    ErrorCode  `json:"code"`
	Message string     `json:"message"`
	Data    *ErrorData `json:"data,omitempty"`
}

// Error implements the error interface
func (e *GUIError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Code, e.Message)
	if e.Data == nil {
		return msg
	}
	if e.Data.Method != "" {
		msg += fmt.Sprintf(" [%s]", e.Data.Method)
	}
	if e.Data.Details != "" {
		msg += " - " + e.Data.Details
	}
	if e.Data.Cause != nil {
		msg += ": " + e.Data.Cause.Error()
	}
	return msg
}

// Unwrap exposes the underlying cause to errors.Is / errors.As
func (e *GUIError) Unwrap() error {
	if e.Data == nil {
		return nil
	}
	return e.Data.Cause
}

// NewGUIError creates a new error with the specified code
func NewGUIError(code ErrorCode, details string) *GUIError {
	err := &GUIError{
		Code:    code,
		Message: code.Message(),
	}
	if details != "" {
		err.Data = &ErrorData{Details: details}
	}
	return err
}

// WrapError creates a new error with the specified code around a cause
func WrapError(code ErrorCode, details string, cause error) *GUIError {
	return &GUIError{
		Code:    code,
		Message: code.Message(),
		Data: &ErrorData{
			Details: details,
			Cause:   cause,
		},
	}
}

// NewMethodError creates an error attributed to a single remote method
func NewMethodError(code ErrorCode, method, details string) *GUIError {
	return &GUIError{
		Code:    code,
		Message: code.Message(),
		Data: &ErrorData{
			Details: details,
			Method:  method,
		},
	}
}

// WithMethod returns a copy of the error attributed to method
func (e *GUIError) WithMethod(method string) *GUIError {
	clone := *e
	data := ErrorData{}
	if e.Data != nil {
		data = *e.Data
	}
	data.Method = method
	clone.Data = &data
	return &clone
}

// CodeOf returns the code of the first GUIError in err's chain
func CodeOf(err error) (ErrorCode, bool) {
	var guiErr *GUIError
	if errors.As(err, &guiErr) {
		return guiErr.Code, true
	}
	return 0, false
}

// IsCode reports whether err carries the given code
func IsCode(err error, code ErrorCode) bool {
	got, ok := CodeOf(err)
	return ok && got == code
}
