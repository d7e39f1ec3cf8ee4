package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrorCode represents a category of client-side error.
type ErrorCode string

const (
	// ErrCodeUnauthorized indicates the backend rejected the credential (HTTP 401).
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	// ErrCodeForbidden indicates the caller lacks permission (HTTP 403).
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeNotFound indicates a resource was not found (HTTP 404).
	ErrCodeNotFound ErrorCode = "not_found"
	// ErrCodeValidation indicates invalid input data (HTTP 400/422).
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeConflict indicates a conflict with existing data (HTTP 409).
	ErrCodeConflict ErrorCode = "conflict"
	// ErrCodeNetwork indicates the request never produced an HTTP response.
	ErrCodeNetwork ErrorCode = "network"
	// ErrCodeTimeout indicates the per-request timeout elapsed.
	ErrCodeTimeout ErrorCode = "timeout"
	// ErrCodeDecode indicates a response body that could not be decoded.
	ErrCodeDecode ErrorCode = "decode"
	// ErrCodeServer indicates a backend-side failure (HTTP 5xx).
	ErrCodeServer ErrorCode = "server"
)

// AppError represents a structured client error with a code, message, and
// optional cause. It supports error wrapping and unwrapping for use with
// errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a human-readable error message
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field names the input field the backend complained about
	// (optional, best-effort; see FieldFromMessage)
	Field string
	// Status is the HTTP status that produced this error, 0 when the
	// request never reached the backend
	Status int
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Unauthorized creates a new Unauthorized error.
func Unauthorized(message string) *AppError {
	return &AppError{Code: ErrCodeUnauthorized, Message: message, Status: http.StatusUnauthorized}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Status: http.StatusBadRequest}
}

// Validationf creates a new Validation error with formatted message.
func Validationf(format string, args ...any) *AppError {
	return Validation(fmt.Sprintf(format, args...))
}

// Conflict creates a new Conflict error.
func Conflict(message string) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: message, Status: http.StatusConflict}
}

// Network creates a new Network error wrapping the transport failure.
func Network(err error) *AppError {
	return &AppError{Code: ErrCodeNetwork, Message: "request failed", Cause: err}
}

// Timeout creates a new Timeout error wrapping the deadline failure.
func Timeout(err error) *AppError {
	return &AppError{Code: ErrCodeTimeout, Message: "request timed out", Cause: err}
}

// Decode creates a new Decode error wrapping the unmarshal failure.
func Decode(err error) *AppError {
	return &AppError{Code: ErrCodeDecode, Message: "decode response", Cause: err}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// FromStatus classifies a non-2xx HTTP response into an AppError. The
// message is whatever the backend sent, passed through verbatim for the
// calling surface to render; Field is filled in best-effort for
// validation-style statuses.
func FromStatus(status int, message string) *AppError {
	if message == "" {
		message = http.StatusText(status)
	}

	e := &AppError{Message: message, Status: status}
	switch {
	case status == http.StatusUnauthorized:
		e.Code = ErrCodeUnauthorized
	case status == http.StatusForbidden:
		e.Code = ErrCodeForbidden
	case status == http.StatusNotFound:
		e.Code = ErrCodeNotFound
	case status == http.StatusConflict:
		e.Code = ErrCodeConflict
		e.Field = FieldFromMessage(message)
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		e.Code = ErrCodeValidation
		e.Field = FieldFromMessage(message)
	case status >= 500:
		e.Code = ErrCodeServer
	default:
		e.Code = ErrCodeServer
	}
	return e
}

// FieldFromMessage guesses which input field a backend error message refers
// to by substring matching. The backend does not yet ship structured error
// codes, so duplicate-email style hints can only be recovered from prose;
// replace this with code-based matching once the contract is fixed.
func FieldFromMessage(message string) string {
	m := strings.ToLower(message)
	switch {
	case strings.Contains(m, "email"):
		return "email"
	case strings.Contains(m, "phone"):
		return "phoneNumber"
	case strings.Contains(m, "password"):
		return "password"
	case strings.Contains(m, "account"):
		return "accountNumber"
	default:
		return ""
	}
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsUnauthorized checks if an error is an Unauthorized error.
func IsUnauthorized(err error) bool {
	return isCode(err, ErrCodeUnauthorized)
}

// IsForbidden checks if an error is a Forbidden error.
func IsForbidden(err error) bool {
	return isCode(err, ErrCodeForbidden)
}

// IsNotFound checks if an error is a NotFound error.
func IsNotFound(err error) bool {
	return isCode(err, ErrCodeNotFound)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// IsConflict checks if an error is a Conflict error.
func IsConflict(err error) bool {
	return isCode(err, ErrCodeConflict)
}

// IsNetwork checks if an error is a Network error.
func IsNetwork(err error) bool {
	return isCode(err, ErrCodeNetwork)
}

// IsTimeout checks if an error is a Timeout error.
func IsTimeout(err error) bool {
	return isCode(err, ErrCodeTimeout)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
