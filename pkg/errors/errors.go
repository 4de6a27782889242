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

	// Rule errors
	ErrRuleInvalid  ErrorCode = "RULE_INVALID"
	ErrRuleNotFound ErrorCode = "RULE_NOT_FOUND"

	// Canonical store persistence errors
	ErrPersistenceRead   ErrorCode = "PERSISTENCE_READ"
	ErrPersistenceWrite  ErrorCode = "PERSISTENCE_WRITE"
	ErrPersistenceEncode ErrorCode = "PERSISTENCE_ENCODE"
	ErrPersistenceDecode ErrorCode = "PERSISTENCE_DECODE"

	// Provider errors
	ErrNativeParse    ErrorCode = "NATIVE_PARSE"
	ErrNativeWrite    ErrorCode = "NATIVE_WRITE"
	ErrPolicyLockdown ErrorCode = "POLICY_LOCKDOWN"
	ErrSlotAmbiguous  ErrorCode = "SLOT_AMBIGUOUS"

	// Import errors
	ErrImportFailed ErrorCode = "IMPORT_FAILED"

	// Configuration errors
	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
)

// CodmateError represents a structured error with code and details
type CodmateError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *CodmateError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *CodmateError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *CodmateError) Is(target error) bool {
	var targetErr *CodmateError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new CodmateError with the given code and message
func New(code ErrorCode, message string) *CodmateError {
	return &CodmateError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new CodmateError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *CodmateError {
	return &CodmateError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a CodmateError
func Wrap(err error, code ErrorCode, message string) *CodmateError {
	if err == nil {
		return nil
	}
	return &CodmateError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *CodmateError {
	if err == nil {
		return nil
	}
	return &CodmateError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *CodmateError) WithDetail(key string, value interface{}) *CodmateError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var cmErr *CodmateError
	if errors.As(err, &cmErr) {
		return cmErr.Code == code
	}
	return false
}

// IsPersistence reports whether an error is a canonical store
// persistence failure of any kind.
func IsPersistence(err error) bool {
	switch GetErrorCode(err) {
	case ErrPersistenceRead, ErrPersistenceWrite,
		ErrPersistenceEncode, ErrPersistenceDecode:
		return true
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a CodmateError
func GetErrorCode(err error) ErrorCode {
	var cmErr *CodmateError
	if errors.As(err, &cmErr) {
		return cmErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a CodmateError
func GetErrorDetails(err error) map[string]interface{} {
	var cmErr *CodmateError
	if errors.As(err, &cmErr) {
		return cmErr.Details
	}
	return nil
}
