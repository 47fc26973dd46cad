// Package errors provides the coded error type used across bestof.
//
// Codes separate the fatal failure classes (bad input document, unwritable
// output) from the recoverable ones that only degrade a single project's
// metadata (network failures, rate limits, missing registry entries).
//
//	err := errors.New(errors.ErrCodeInvalidInput, "no projects declared in %s", path)
//	if errors.Is(err, errors.ErrCodeInvalidInput) {
//	    // abort the run
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

const (
	// Fatal: the run aborts before any output is written.
	ErrCodeInvalidInput      Code = "INVALID_INPUT"
	ErrCodeInvalidConfig     Code = "INVALID_CONFIG"
	ErrCodeFileNotFound      Code = "FILE_NOT_FOUND"
	ErrCodeOutputUnwritable  Code = "OUTPUT_UNWRITABLE"
	ErrCodeInvalidIdentifier Code = "INVALID_IDENTIFIER"

	// Recoverable: only the affected registry contribution is lost.
	ErrCodeNetwork     Code = "NETWORK_ERROR"
	ErrCodeRateLimited Code = "RATE_LIMITED"
	ErrCodeNotFound    Code = "NOT_FOUND"

	ErrCodeInternal Code = "INTERNAL_ERROR"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the first *Error in err's chain carries code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode extracts the error code, or "" if err carries none.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	var rl *RateLimitedError
	if errors.As(err, &rl) {
		return ErrCodeRateLimited
	}
	return ""
}

// IsFatal reports whether err belongs to a class that must abort the run.
func IsFatal(err error) bool {
	switch GetCode(err) {
	case ErrCodeInvalidInput, ErrCodeInvalidConfig, ErrCodeFileNotFound, ErrCodeOutputUnwritable:
		return true
	}
	return false
}

// UserMessage returns the message without the code prefix.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return e.Message + ": " + e.Cause.Error()
		}
		return e.Message
	}
	return err.Error()
}

// RateLimitedError is returned when a registry answers HTTP 429.
type RateLimitedError struct {
	// Service names the rate-limited API.
	Service    string
	RetryAfter int // seconds, 0 if unknown
}

func (e *RateLimitedError) Error() string {
	msg := "rate limited"
	if e.Service != "" {
		msg = e.Service + ": " + msg
	}
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s: retry after %d seconds", msg, e.RetryAfter)
	}
	return msg
}

// Code returns ErrCodeRateLimited.
func (e *RateLimitedError) Code() Code {
	return ErrCodeRateLimited
}
