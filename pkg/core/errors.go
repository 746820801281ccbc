package core

import (
	"errors"
	"fmt"
)

// ErrorCategory classifies why a check failed.
type ErrorCategory int

const (
	ErrCategoryNone       ErrorCategory = iota // No error
	ErrCategoryAssertion                       // Response or page did not match the expectation
	ErrCategoryTimeout                         // A wait or request exceeded its deadline
	ErrCategoryConnection                      // Site unreachable, transport failure
	ErrCategoryConfig                          // Missing credentials, bad data file
)

// String returns the string representation of ErrorCategory
func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryNone:
		return "none"
	case ErrCategoryAssertion:
		return "assertion"
	case ErrCategoryTimeout:
		return "timeout"
	case ErrCategoryConnection:
		return "connection"
	case ErrCategoryConfig:
		return "config"
	default:
		return "unknown"
	}
}

// CheckError is a structured check failure with a category and a
// machine-readable code.
type CheckError struct {
	Category ErrorCategory
	Code     string // status_mismatch, message_mismatch, not_observed, ...
	Message  string
	Cause    error
}

// Error implements the error interface
func (e *CheckError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *CheckError) Unwrap() error {
	return e.Cause
}

// Is matches on category and code so callers can compare against the
// predefined errors below.
func (e *CheckError) Is(target error) bool {
	t, ok := target.(*CheckError)
	if !ok {
		return false
	}
	return e.Category == t.Category && e.Code == t.Code
}

// WithCause returns a copy of the error with the given cause
func (e *CheckError) WithCause(cause error) *CheckError {
	return &CheckError{
		Category: e.Category,
		Code:     e.Code,
		Message:  e.Message,
		Cause:    cause,
	}
}

// WithMessage returns a copy of the error with a custom message
func (e *CheckError) WithMessage(format string, args ...interface{}) *CheckError {
	return &CheckError{
		Category: e.Category,
		Code:     e.Code,
		Message:  fmt.Sprintf(format, args...),
		Cause:    e.Cause,
	}
}

// Predefined errors
var (
	ErrStatusMismatch = &CheckError{
		Category: ErrCategoryAssertion,
		Code:     "status_mismatch",
		Message:  "unexpected response status",
	}
	ErrMessageMismatch = &CheckError{
		Category: ErrCategoryAssertion,
		Code:     "message_mismatch",
		Message:  "unexpected response message",
	}
	ErrEmptyList = &CheckError{
		Category: ErrCategoryAssertion,
		Code:     "empty_list",
		Message:  "expected a non-empty list",
	}
	ErrNotVisible = &CheckError{
		Category: ErrCategoryAssertion,
		Code:     "not_visible",
		Message:  "element not visible",
	}

	ErrWaitTimeout = &CheckError{
		Category: ErrCategoryTimeout,
		Code:     "wait_timeout",
		Message:  "condition not observed before deadline",
	}

	ErrUnreachable = &CheckError{
		Category: ErrCategoryConnection,
		Code:     "unreachable",
		Message:  "site unreachable",
	}

	ErrMissingCredentials = &CheckError{
		Category: ErrCategoryConfig,
		Code:     "missing_credentials",
		Message:  "credentials are not configured",
	}
)

// CategoryOf returns the category of the first CheckError in err's chain, or
// ErrCategoryNone when there is none.
func CategoryOf(err error) ErrorCategory {
	var ce *CheckError
	if errors.As(err, &ce) {
		return ce.Category
	}
	return ErrCategoryNone
}
