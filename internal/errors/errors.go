// Package errors provides the error taxonomy for the sync core.
package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorCode classifies a failure so the caller can pick the right
// recovery path: fall back to cache, buffer to the queue, or surface.
type ErrorCode string

const (
	// General errors
	ErrInternal ErrorCode = "INTERNAL_ERROR"
	ErrInvalid  ErrorCode = "INVALID_INPUT"
	ErrNotFound ErrorCode = "NOT_FOUND"

	// Remote errors
	//
	// ErrConnectivity means the remote store was unreachable: reads fall
	// back to the cache, writes attempted while offline are buffered.
	// ErrRemoteRejected means the call reached the server and was refused
	// (validation, permission, conflict): never queued, retrying would not
	// fix it, always surfaced to the caller.
	ErrConnectivity   ErrorCode = "CONNECTIVITY_ERROR"
	ErrRemoteRejected ErrorCode = "REMOTE_REJECTED"

	// Local errors
	//
	// ErrLocalStorage is fatal for the current operation (quota,
	// corruption); the operation must not be reported as successful.
	// ErrParse is recovered locally with safe defaults and never fatal.
	ErrLocalStorage ErrorCode = "LOCAL_STORAGE_ERROR"
	ErrParse        ErrorCode = "PARSE_ERROR"

	// Sync errors
	//
	// A drain requested while another is running is a silent no-op, not an
	// error; only a pass that started and could not finish carries a code.
	ErrDrainStopped ErrorCode = "DRAIN_STOPPED"
)

// AppError represents an application error with code and message.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error.
func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Newf creates a new AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...any) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap wraps an existing error with an error code.
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Is checks if an error, anywhere in its chain, carries the given code.
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// CodeOf returns the code carried by the error chain, or ErrInternal if
// the error is not an AppError.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrInternal
}
