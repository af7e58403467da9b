// Package errors defines the coded errors shared by the dependency builder,
// the pipeline, the CLI and the HTTP API.
//
// Every failure that crosses a package boundary carries a [Code]. Callers
// branch on the code with [Is] or [GetCode]; the HTTP API maps codes to
// status codes and the CLI prints [UserMessage].
//
// Codes fall into four groups:
//   - INVALID_*: rejected input, patterns, configuration or formats
//   - NOT_FOUND, FILE_NOT_FOUND: missing artifacts and files
//   - ENTRYPOINT_EXCLUDED, EXTRACTION_FAILED: a dependency build that aborted
//   - INTERNAL_ERROR, UNSUPPORTED: everything else
//
// Usage:
//
//	err := errors.Wrap(errors.ErrCodeExtraction, cause, "extract %s", path)
//	if errors.Is(err, errors.ErrCodeExtraction) {
//	    // the build was aborted, no partial map exists
//	}
package errors

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error class.
type Code string

const (
	ErrCodeInvalidInput   Code = "INVALID_INPUT"
	ErrCodeInvalidPattern Code = "INVALID_PATTERN"
	ErrCodeInvalidConfig  Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat  Code = "INVALID_FORMAT"
	ErrCodeInvalidPath    Code = "INVALID_PATH"

	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Fatal to a dependency build: no map is returned.
	ErrCodeEntrypointExcluded Code = "ENTRYPOINT_EXCLUDED"
	ErrCodeExtraction         Code = "EXTRACTION_FAILED"

	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

// Error formats the error as "CODE: message[: cause]".
func (e *Error) Error() string {
	msg := string(e.Code) + ": " + e.Message
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error { return e.Cause }

// New creates an error without a cause.
func New(code Code, format string, args ...any) *Error {
	return Wrap(code, nil, format, args...)
}

// Wrap creates an error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether the first *Error in err's chain has code.
func Is(err error, code Code) bool {
	return GetCode(err) == code && code != ""
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	if e, ok := as(err); ok {
		return e.Code
	}
	return ""
}

// UserMessage returns the message of a coded error without its code and
// cause, or err.Error() for other errors.
func UserMessage(err error) string {
	if e, ok := as(err); ok {
		return e.Message
	}
	return err.Error()
}

// IsFatalBuild reports whether err aborted a dependency build, as opposed to a
// configuration or I/O problem around it.
func IsFatalBuild(err error) bool {
	switch GetCode(err) {
	case ErrCodeEntrypointExcluded, ErrCodeExtraction:
		return true
	}
	return false
}

func as(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
