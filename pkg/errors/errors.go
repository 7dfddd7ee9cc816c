package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Error codes for different error categories
const (
	// General errors
	ErrUnknown      ErrorCode = "UNKNOWN"
	ErrInternal     ErrorCode = "INTERNAL"
	ErrInvalidInput ErrorCode = "INVALID_INPUT"

	// Variable errors
	ErrEscape          ErrorCode = "ESCAPE"
	ErrInvalidVariable ErrorCode = "INVALID_VARIABLE"

	// Configuration errors
	ErrConfigLoad        ErrorCode = "CONFIG_LOAD"
	ErrConfigParse       ErrorCode = "CONFIG_PARSE"
	ErrConfigShape       ErrorCode = "CONFIG_SHAPE"
	ErrUnsupportedFormat ErrorCode = "UNSUPPORTED_FORMAT"
	ErrSettings          ErrorCode = "SETTINGS"

	// Input errors
	ErrInputNotFound ErrorCode = "INPUT_NOT_FOUND"
	ErrMixedInput    ErrorCode = "MIXED_INPUT"
	ErrNoInputs      ErrorCode = "NO_INPUTS"
	ErrUnsafePath    ErrorCode = "UNSAFE_PATH"

	// Output errors
	ErrAmbiguousOutput      ErrorCode = "AMBIGUOUS_OUTPUT"
	ErrDestinationCollision ErrorCode = "DESTINATION_COLLISION"

	// Rendering errors
	ErrEncoding         ErrorCode = "ENCODING"
	ErrTemplateTooLarge ErrorCode = "TEMPLATE_TOO_LARGE"
	ErrTemplateSyntax   ErrorCode = "TEMPLATE_SYNTAX"
	ErrMissingVariable  ErrorCode = "MISSING_VARIABLE"
	ErrTemplateFilter   ErrorCode = "TEMPLATE_FILTER"
	ErrRender           ErrorCode = "RENDER"

	// FileSystem errors
	ErrFileAccess ErrorCode = "FILE_ACCESS"
	ErrFileWrite  ErrorCode = "FILE_WRITE"
	ErrDirCreate  ErrorCode = "DIR_CREATE"
)

// ShinkansenError represents a structured error with code and details
type ShinkansenError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ShinkansenError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ShinkansenError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ShinkansenError) Is(target error) bool {
	var targetErr *ShinkansenError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ShinkansenError with the given code and message
func New(code ErrorCode, message string) *ShinkansenError {
	return &ShinkansenError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ShinkansenError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ShinkansenError {
	return &ShinkansenError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ShinkansenError
func Wrap(err error, code ErrorCode, message string) *ShinkansenError {
	if err == nil {
		return nil
	}
	return &ShinkansenError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ShinkansenError {
	if err == nil {
		return nil
	}
	return &ShinkansenError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ShinkansenError) WithDetail(key string, value interface{}) *ShinkansenError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *ShinkansenError) WithDetails(details map[string]interface{}) *ShinkansenError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code.
// The whole chain is searched, so a wrapped coded error still matches.
func IsErrorCode(err error, code ErrorCode) bool {
	for err != nil {
		var coded *ShinkansenError
		if !errors.As(err, &coded) {
			return false
		}
		if coded.Code == code {
			return true
		}
		err = coded.Wrapped
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ShinkansenError
func GetErrorCode(err error) ErrorCode {
	var coded *ShinkansenError
	if errors.As(err, &coded) {
		return coded.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a ShinkansenError
func GetErrorDetails(err error) map[string]interface{} {
	var coded *ShinkansenError
	if errors.As(err, &coded) {
		return coded.Details
	}
	return nil
}
