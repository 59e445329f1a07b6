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
	ErrNotFound     ErrorCode = "NOT_FOUND"

	// Configuration errors
	ErrConfigLoad    ErrorCode = "CONFIG_LOAD"
	ErrConfigParse   ErrorCode = "CONFIG_PARSE"
	ErrConfigValid   ErrorCode = "CONFIG_INVALID"
	ErrConfigMissing ErrorCode = "CONFIG_MISSING"

	// FileSystem errors
	ErrFileAccess    ErrorCode = "FILE_ACCESS"
	ErrFileCreate    ErrorCode = "FILE_CREATE"
	ErrFileWrite     ErrorCode = "FILE_WRITE"
	ErrDirCreate     ErrorCode = "DIR_CREATE"
	ErrOwnership     ErrorCode = "OWNERSHIP"
	ErrSymlinkCreate ErrorCode = "SYMLINK_CREATE"

	// Archive errors
	ErrArchiveMissing ErrorCode = "ARCHIVE_MISSING"
	ErrArchiveExtract ErrorCode = "ARCHIVE_EXTRACT"

	// Template errors
	ErrTemplateNotFound ErrorCode = "TEMPLATE_NOT_FOUND"
	ErrTemplateRender   ErrorCode = "TEMPLATE_RENDER"

	// Identity lookup errors
	ErrUserLookup  ErrorCode = "USER_LOOKUP"
	ErrGroupLookup ErrorCode = "GROUP_LOOKUP"

	// Command execution errors
	ErrCommandRun ErrorCode = "COMMAND_RUN"
)

// ShipwayError represents a structured error with code and details
type ShipwayError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *ShipwayError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *ShipwayError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *ShipwayError) Is(target error) bool {
	var targetErr *ShipwayError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new ShipwayError with the given code and message
func New(code ErrorCode, message string) *ShipwayError {
	return &ShipwayError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new ShipwayError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *ShipwayError {
	return &ShipwayError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a ShipwayError
func Wrap(err error, code ErrorCode, message string) *ShipwayError {
	if err == nil {
		return nil
	}
	return &ShipwayError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *ShipwayError {
	if err == nil {
		return nil
	}
	return &ShipwayError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *ShipwayError) WithDetail(key string, value interface{}) *ShipwayError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var shipwayErr *ShipwayError
	if errors.As(err, &shipwayErr) {
		return shipwayErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a ShipwayError
func GetErrorCode(err error) ErrorCode {
	var shipwayErr *ShipwayError
	if errors.As(err, &shipwayErr) {
		return shipwayErr.Code
	}
	return ErrUnknown
}
