package rectpack

import (
	"errors"
	"fmt"
)

// Code is a machine-readable error category.
type Code string

const (
	// ErrCodeInvalidInput marks a size or option rejected before packing starts.
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	// ErrCodeNonConvergence marks a growth loop that hit its attempt cap.
	ErrCodeNonConvergence Code = "NON_CONVERGENCE"
	// ErrCodeCanceled marks a run stopped by its context between attempts.
	ErrCodeCanceled Code = "CANCELED"
)

// Error is a packing failure with a code and an optional cause.
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

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates an Error with a formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates an Error around cause.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether any *Error in err's chain carries code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode returns the code of the first *Error in err's chain, or "".
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
