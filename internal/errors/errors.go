// Package errors defines the application error taxonomy shared by the data, service and HTTP layers.
//
// Storage adapters translate driver errors into an *AppError (see MapDBError
// and MapRedisError); services add validation errors; the HTTP layer turns
// the code into a status without leaking the cause.
package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	ErrCodeNotFound    ErrorCode = "not_found"
	ErrCodeConflict    ErrorCode = "conflict"
	ErrCodeValidation  ErrorCode = "validation"
	ErrCodeUnavailable ErrorCode = "unavailable"
	ErrCodeInternal    ErrorCode = "internal"
	ErrCodeTimeout     ErrorCode = "timeout"
	ErrCodeCanceled    ErrorCode = "canceled"
)

// AppError carries a code, a caller-safe message and an optional cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
	// Field names the input or column at fault, when known.
	Field string
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return e.Message
	}
	return e.Message + ": " + e.Cause.Error()
}

func (e *AppError) Unwrap() error { return e.Cause }

// New returns an AppError without a cause.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

func NotFound(message string) *AppError    { return New(ErrCodeNotFound, message) }
func Unavailable(message string) *AppError { return New(ErrCodeUnavailable, message) }
func Validation(message string) *AppError  { return New(ErrCodeValidation, message) }

// Validationf is Validation with a formatted message.
func Validationf(format string, args ...any) *AppError {
	return New(ErrCodeValidation, fmt.Sprintf(format, args...))
}

// ValidationField reports invalid input attributed to field.
func ValidationField(field, message string) *AppError {
	return &AppError{Code: ErrCodeValidation, Message: message, Field: field}
}

// Wrap attaches code and message to err. A nil err stays nil.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{Code: code, Message: message, Cause: err}
}

// As returns the first AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err's chain holds an AppError with code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

func IsNotFound(err error) bool    { return HasCode(err, ErrCodeNotFound) }
func IsConflict(err error) bool    { return HasCode(err, ErrCodeConflict) }
func IsValidation(err error) bool  { return HasCode(err, ErrCodeValidation) }
func IsUnavailable(err error) bool { return HasCode(err, ErrCodeUnavailable) }

// GetCode returns the code of the first AppError in err's chain, or "".
func GetCode(err error) ErrorCode {
	if appErr, ok := As(err); ok {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field of the first AppError in err's chain, or "".
func GetField(err error) string {
	if appErr, ok := As(err); ok {
		return appErr.Field
	}
	return ""
}
