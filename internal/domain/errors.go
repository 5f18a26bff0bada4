package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a machine-readable error code
type ErrorCode string

const (
	// Validation errors (VALIDATION_*)
	ErrorCodeInvalidOrderID       ErrorCode = "VALIDATION_INVALID_ORDER_ID"
	ErrorCodeInvalidAmount        ErrorCode = "VALIDATION_INVALID_AMOUNT"
	ErrorCodeInvalidCurrency      ErrorCode = "VALIDATION_INVALID_CURRENCY"
	ErrorCodeInvalidPaymentMethod ErrorCode = "VALIDATION_INVALID_PAYMENT_METHOD"

	// Order errors (ORDER_*)
	ErrorCodeOrderNotFound ErrorCode = "ORDER_NOT_FOUND"

	// Conflict errors (CONFLICT_*)
	ErrorCodeAlreadyCompleted ErrorCode = "CONFLICT_ALREADY_COMPLETED"

	// Crypto errors (CRYPTO_*)
	ErrorCodeEncryptFailed ErrorCode = "CRYPTO_ENCRYPT_FAILED"
	ErrorCodeDecryptFailed ErrorCode = "CRYPTO_DECRYPT_FAILED"

	// Callback errors (CALLBACK_*)
	ErrorCodeMissingOrderID ErrorCode = "CALLBACK_MISSING_ORDER_ID"

	// Internal errors (INTERNAL_*)
	ErrorCodeInternalError ErrorCode = "INTERNAL_ERROR"
	ErrorCodeDatabaseError ErrorCode = "INTERNAL_DATABASE_ERROR"
)

// DomainError represents a structured domain error with error code and context
type DomainError struct {
	Err     error
	Details map[string]interface{}
	Code    ErrorCode
	Message string
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches by error code, so detail-carrying copies produced by WithDetail
// still compare equal to their base error under errors.Is
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// WithDetail returns a copy of the error with the detail field added. Copying
// keeps the shared error values immutable under concurrent requests.
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	details := make(map[string]interface{}, len(e.Details)+1)
	for k, v := range e.Details {
		details[k] = v
	}
	details[key] = value
	return &DomainError{
		Code:    e.Code,
		Message: e.Message,
		Err:     e.Err,
		Details: details,
	}
}

// NewDomainError creates a new domain error
func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// WrapError wraps an existing error with a domain error code
func WrapError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Err:     err,
	}
}

// IsDomainError checks if an error is a DomainError with the given code
func IsDomainError(err error, code ErrorCode) bool {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code == code
	}
	return false
}

// GetErrorCode extracts the error code from an error, returns empty string if not a DomainError
func GetErrorCode(err error) ErrorCode {
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr.Code
	}
	return ""
}

// IsValidationError checks if an error is a validation error
func IsValidationError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeInvalidOrderID ||
		code == ErrorCodeInvalidAmount ||
		code == ErrorCodeInvalidCurrency ||
		code == ErrorCodeInvalidPaymentMethod
}

// IsNotFoundError checks if an error represents a "not found" condition
func IsNotFoundError(err error) bool {
	return GetErrorCode(err) == ErrorCodeOrderNotFound
}

// IsConflictError checks if an error is an idempotency conflict.
// Conflicts are expected under retried callbacks and repeated initiation
// clicks and are not alert-worthy.
func IsConflictError(err error) bool {
	return GetErrorCode(err) == ErrorCodeAlreadyCompleted
}

// IsCryptoError checks if an error came from the payload codec. Messages with
// this code must never carry plaintext or key material.
func IsCryptoError(err error) bool {
	code := GetErrorCode(err)
	return code == ErrorCodeEncryptFailed || code == ErrorCodeDecryptFailed
}

// Structured error instances
var (
	ErrInvalidOrderID       = NewDomainError(ErrorCodeInvalidOrderID, "invalid order id")
	ErrInvalidAmount        = NewDomainError(ErrorCodeInvalidAmount, "order amount must be positive")
	ErrInvalidCurrency      = NewDomainError(ErrorCodeInvalidCurrency, "order currency is empty")
	ErrInvalidPaymentMethod = NewDomainError(ErrorCodeInvalidPaymentMethod, "order is not payable through the online gateway")

	ErrOrderNotFound = NewDomainError(ErrorCodeOrderNotFound, "order not found")

	ErrAlreadyCompleted = NewDomainError(ErrorCodeAlreadyCompleted, "payment already completed")

	ErrMissingOrderID = NewDomainError(ErrorCodeMissingOrderID, "callback payload has no order_id")

	ErrInternalError = NewDomainError(ErrorCodeInternalError, "internal server error")
	ErrDatabaseError = NewDomainError(ErrorCodeDatabaseError, "database error")
)
