// Package errors tests for error code definitions and error handling.
package errors

import (
	"errors"
	"fmt"
	"testing"
)

// TestAppError_Error verifies error message formatting.
func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appError *AppError
		want     string
	}{
		{
			name:     "error without underlying error",
			appError: &AppError{Code: ErrInternal, Message: "something failed"},
			want:     "[INTERNAL_ERROR] something failed",
		},
		{
			name:     "error with underlying error",
			appError: &AppError{Code: ErrConnectivity, Message: "remote unreachable", Err: errors.New("connection refused")},
			want:     "[CONNECTIVITY_ERROR] remote unreachable: connection refused",
		},
		{
			name:     "rejection",
			appError: &AppError{Code: ErrRemoteRejected, Message: "row violates policy"},
			want:     "[REMOTE_REJECTED] row violates policy",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.appError.Error()
			if got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

// TestAppError_Unwrap verifies unwrapping of underlying error.
func TestAppError_Unwrap(t *testing.T) {
	underlyingErr := errors.New("underlying error")

	withErr := &AppError{Code: ErrInternal, Message: "failed", Err: underlyingErr}
	if withErr.Unwrap() != underlyingErr {
		t.Errorf("Unwrap() = %v, want %v", withErr.Unwrap(), underlyingErr)
	}
	if !errors.Is(withErr, underlyingErr) {
		t.Error("errors.Is should find the wrapped error")
	}

	withoutErr := &AppError{Code: ErrInternal, Message: "failed"}
	if withoutErr.Unwrap() != nil {
		t.Errorf("Unwrap() without wrapped error = %v, want nil", withoutErr.Unwrap())
	}
}

// TestWrap verifies error wrapping.
func TestWrap(t *testing.T) {
	underlyingErr := errors.New("underlying")

	err := Wrap(ErrLocalStorage, "write failed", underlyingErr)
	if err.Code != ErrLocalStorage {
		t.Errorf("Wrap() code = %q, want %q", err.Code, ErrLocalStorage)
	}
	if err.Message != "write failed" {
		t.Errorf("Wrap() message = %q, want 'write failed'", err.Message)
	}
	if err.Err != underlyingErr {
		t.Errorf("Wrap() underlying error = %v, want %v", err.Err, underlyingErr)
	}
}

// TestIs verifies code checking across wrapping layers.
func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code ErrorCode
		want bool
	}{
		{
			name: "matching AppError",
			err:  New(ErrNotFound, "not found"),
			code: ErrNotFound,
			want: true,
		},
		{
			name: "non-matching AppError",
			err:  New(ErrNotFound, "not found"),
			code: ErrConnectivity,
			want: false,
		},
		{
			name: "AppError behind fmt wrapping",
			err:  fmt.Errorf("drain: %w", New(ErrConnectivity, "offline")),
			code: ErrConnectivity,
			want: true,
		},
		{
			name: "non-AppError",
			err:  errors.New("standard error"),
			code: ErrInternal,
			want: false,
		},
		{
			name: "nil error",
			err:  nil,
			code: ErrInternal,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is() = %v, want %v", got, tt.want)
			}
		})
	}
}

// TestCodeOf verifies code extraction with the internal fallback.
func TestCodeOf(t *testing.T) {
	if got := CodeOf(New(ErrRemoteRejected, "nope")); got != ErrRemoteRejected {
		t.Errorf("CodeOf() = %q, want %q", got, ErrRemoteRejected)
	}
	if got := CodeOf(errors.New("plain")); got != ErrInternal {
		t.Errorf("CodeOf() for plain error = %q, want %q", got, ErrInternal)
	}
}

// TestErrorCodes_areUnique verifies all error codes are unique.
func TestErrorCodes_areUnique(t *testing.T) {
	codes := []ErrorCode{
		ErrInternal, ErrInvalid, ErrNotFound,
		ErrConnectivity, ErrRemoteRejected,
		ErrLocalStorage, ErrParse,
		ErrDrainStopped,
	}

	seen := make(map[ErrorCode]bool)
	for _, code := range codes {
		if code == "" {
			t.Error("ErrorCode should not be empty")
		}
		if seen[code] {
			t.Errorf("ErrorCode %q is duplicated", code)
		}
		seen[code] = true
	}
}
