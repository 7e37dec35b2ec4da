package errors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
)

// ErrorCode represents a unique error code
type ErrorCode string

const (
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
	ErrCodeValidationFailed  ErrorCode = "VALIDATION_FAILED"
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrCodeUnauthenticated   ErrorCode = "UNAUTHENTICATED"
	ErrCodeForbidden         ErrorCode = "FORBIDDEN"
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeIncorrectPassword ErrorCode = "INCORRECT_PASSWORD"
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
)

// Messages surfaced to API clients.
const (
	MsgValidation        = "Validation error"
	MsgUnauthorized      = "Unauthorized"
	MsgUnauthenticated   = "Unauthenticated."
	MsgForbidden         = "This action is unauthorized."
	MsgUserNotFound      = "User not found"
	MsgIncorrectPassword = "Current password is incorrect"
	MsgTooManyAttempts   = "Too Many Attempts."
	MsgInternal          = "Internal server error"
)

// FieldErrors maps a request field to its validation messages.
type FieldErrors map[string][]string

// Add appends a message for field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Has reports whether field has at least one message.
func (f FieldErrors) Has(field string) bool {
	return len(f[field]) > 0
}

// Empty reports whether no field has failed.
func (f FieldErrors) Empty() bool {
	return len(f) == 0
}

// Fields returns the failing field names in sorted order.
func (f FieldErrors) Fields() []string {
	fields := make([]string, 0, len(f))
	for k := range f {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

// Error represents a structured error with code, message, and optional details
type Error struct {
	Code    ErrorCode   // Unique error code
	Message string      // Human-readable error message
	Fields  FieldErrors // Per-field validation messages, set for VALIDATION_FAILED
	Err     error       // Wrapped underlying error
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	if len(e.Fields) > 0 {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Fields.Fields())
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the wrapped error for errors.Is and errors.As
func (e *Error) Unwrap() error {
	return e.Err
}

// WithField adds a validation message for field.
func (e *Error) WithField(field, message string) *Error {
	if e.Fields == nil {
		e.Fields = FieldErrors{}
	}
	e.Fields.Add(field, message)
	return e
}

// New creates a new Error with the given code and message
func New(code ErrorCode, message string) *Error {
	return &Error{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with code and message
func Wrap(err error, code ErrorCode, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsCode checks if an error has a specific error code
func IsCode(err error, code ErrorCode) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
// Returns ErrCodeInternal if the error is not a structured Error
func GetCode(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ErrCodeInternal
}

// GetMessage returns the client-facing message of a structured Error,
// or err.Error() for anything else
func GetMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// GetFields extracts validation messages from an error
// Returns nil if the error is not a structured Error
func GetFields(err error) FieldErrors {
	var e *Error
	if errors.As(err, &e) {
		return e.Fields
	}
	return nil
}

// MapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func MapErrorCodeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeIncorrectPassword:
		return http.StatusBadRequest
	case ErrCodeUnauthorized, ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeValidationFailed:
		return http.StatusUnprocessableEntity
	case ErrCodeRateLimitExceeded:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Validation creates a "validation failed" error carrying per-field messages
func Validation(fields FieldErrors) *Error {
	return &Error{
		Code:    ErrCodeValidationFailed,
		Message: MsgValidation,
		Fields:  fields,
	}
}

// NotFound creates a "not found" error
func NotFound(message string) *Error {
	return New(ErrCodeNotFound, message)
}

// Unauthorized creates an error for rejected credentials
func Unauthorized() *Error {
	return New(ErrCodeUnauthorized, MsgUnauthorized)
}

// Unauthenticated creates an error for a missing, invalid or revoked bearer token
func Unauthenticated() *Error {
	return New(ErrCodeUnauthenticated, MsgUnauthenticated)
}

// Forbidden creates an error for a caller that lacks the required role
func Forbidden() *Error {
	return New(ErrCodeForbidden, MsgForbidden)
}

// IncorrectPassword creates an error for a failed current-password check
func IncorrectPassword() *Error {
	return New(ErrCodeIncorrectPassword, MsgIncorrectPassword)
}

// RateLimitExceeded creates a "rate limit exceeded" error
func RateLimitExceeded() *Error {
	return New(ErrCodeRateLimitExceeded, MsgTooManyAttempts)
}

// InternalWrap wraps an internal error
func InternalWrap(err error, message string) *Error {
	return Wrap(err, ErrCodeInternal, message)
}
