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
	ErrUnknown       ErrorCode = "UNKNOWN"
	ErrInternal      ErrorCode = "INTERNAL"
	ErrInvalidInput  ErrorCode = "INVALID_INPUT"
	ErrNotFound      ErrorCode = "NOT_FOUND"
	ErrAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	// Dispatch errors
	ErrDaemonUnavailable  ErrorCode = "DAEMON_UNAVAILABLE"
	ErrItemFailed         ErrorCode = "ITEM_FAILED"
	ErrNoClipboardContent ErrorCode = "NO_CLIPBOARD_CONTENT"
	ErrUnknownCommand     ErrorCode = "UNKNOWN_COMMAND"
	ErrRenameConflict     ErrorCode = "RENAME_CONFLICT"
	ErrSkipped            ErrorCode = "SKIPPED"

	// External command errors
	ErrCommandExecute ErrorCode = "COMMAND_EXECUTE"
	ErrCommandTimeout ErrorCode = "COMMAND_TIMEOUT"
	ErrPublish        ErrorCode = "PUBLISH"
	ErrUnpublish      ErrorCode = "UNPUBLISH"
	ErrClipboard      ErrorCode = "CLIPBOARD"
	ErrNotify         ErrorCode = "NOTIFY"

	// FileSystem errors
	ErrFileNotFound ErrorCode = "FILE_NOT_FOUND"
	ErrFileAccess   ErrorCode = "FILE_ACCESS"
	ErrFileCreate   ErrorCode = "FILE_CREATE"
	ErrFileCopy     ErrorCode = "FILE_COPY"
	ErrFileMove     ErrorCode = "FILE_MOVE"
)

// YDError represents a structured error with code and details
type YDError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *YDError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *YDError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *YDError) Is(target error) bool {
	var targetErr *YDError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new YDError with the given code and message
func New(code ErrorCode, message string) *YDError {
	return &YDError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new YDError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *YDError {
	return &YDError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a YDError
func Wrap(err error, code ErrorCode, message string) *YDError {
	if err == nil {
		return nil
	}
	return &YDError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *YDError {
	if err == nil {
		return nil
	}
	return &YDError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *YDError) WithDetail(key string, value interface{}) *YDError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *YDError) WithDetails(details map[string]interface{}) *YDError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var ydErr *YDError
	if errors.As(err, &ydErr) {
		return ydErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a YDError
func GetErrorCode(err error) ErrorCode {
	var ydErr *YDError
	if errors.As(err, &ydErr) {
		return ydErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a YDError
func GetErrorDetails(err error) map[string]interface{} {
	var ydErr *YDError
	if errors.As(err, &ydErr) {
		return ydErr.Details
	}
	return nil
}

// Describe returns the user-facing part of an error: the message of the
// outermost YDError, or the plain error text otherwise.
func Describe(err error) string {
	if err == nil {
		return ""
	}
	var ydErr *YDError
	if errors.As(err, &ydErr) {
		if ydErr.Wrapped != nil {
			return fmt.Sprintf("%s: %v", ydErr.Message, ydErr.Wrapped)
		}
		return ydErr.Message
	}
	return err.Error()
}

// ExitCode maps an error returned by a dispatch to the process exit status.
// Only the fatal categories produce a non-zero status.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	switch GetErrorCode(err) {
	case ErrUnknownCommand:
		return 0
	default:
		return 1
	}
}
