package errors

import "fmt"

// ErrorCode represents a talkvault error code.
type ErrorCode string

const (
	ErrInvalidRequest   ErrorCode = "INVALID_REQUEST"   // 400
	ErrNotFound         ErrorCode = "NOT_FOUND"         // 404
	ErrUniqueConstraint ErrorCode = "UNIQUE_CONSTRAINT" // 409
	ErrDecodeFailed     ErrorCode = "DECODE_FAILED"     // 422
	ErrNoMessages       ErrorCode = "NO_MESSAGES"       // 422
	ErrInternal         ErrorCode = "INTERNAL"          // 500
)

// VaultError represents a structured error with code, status, and details.
type VaultError struct {
	Code    ErrorCode
	Status  int
	Message string
	Details map[string]any
}

// Error implements the error interface.
func (e *VaultError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewInvalidRequest creates a 400 error for invalid request parameters.
func NewInvalidRequest(msg string) *VaultError {
	return &VaultError{
		Code:    ErrInvalidRequest,
		Status:  400,
		Message: msg,
	}
}

// NewNotFound creates a 404 error for a missing file or record.
func NewNotFound(identifier string) *VaultError {
	return &VaultError{
		Code:    ErrNotFound,
		Status:  404,
		Message: fmt.Sprintf("not found: %s", identifier),
		Details: map[string]any{"identifier": identifier},
	}
}

// NewUniqueConstraint creates a 409 error for a duplicate dedup key.
// Callers normally recover from this locally and count the record as
// skipped instead of surfacing it.
func NewUniqueConstraint() *VaultError {
	return &VaultError{
		Code:    ErrUniqueConstraint,
		Status:  409,
		Message: "unique constraint violation",
	}
}

// NewDecodeFailed creates a 422 error for an upload no candidate encoding
// can decode.
func NewDecodeFailed(err error) *VaultError {
	msg := "could not decode upload"
	if err != nil {
		msg = err.Error()
	}
	return &VaultError{
		Code:    ErrDecodeFailed,
		Status:  422,
		Message: msg,
	}
}

// NewNoMessages creates a 422 error for an import that parsed to nothing.
func NewNoMessages() *VaultError {
	return &VaultError{
		Code:    ErrNoMessages,
		Status:  422,
		Message: "no messages found in the upload (check the file format)",
	}
}

// NewInternal creates a 500 error for unexpected internal errors.
func NewInternal(err error) *VaultError {
	msg := "internal error"
	if err != nil {
		msg = err.Error()
	}
	return &VaultError{
		Code:    ErrInternal,
		Status:  500,
		Message: msg,
	}
}

// Is checks if an error is a VaultError with the given code.
func Is(err error, code ErrorCode) bool {
	if vErr, ok := err.(*VaultError); ok {
		return vErr.Code == code
	}
	return false
}
