package errors

import (
	"errors"
	"fmt"
)

type AppError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
	Status  int    `json:"status"`
}

func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
}

// Common error codes
const (
	CodeValidation    = "VALIDATION_ERROR"
	CodeNotFound      = "NOT_FOUND"
	CodeUnauthorized  = "UNAUTHORIZED"
	CodeForbidden     = "FORBIDDEN"
	CodeConflict      = "CONFLICT"
	CodeGeneration    = "GENERATION_FAILED"
	CodeIntegrity     = "INTEGRITY_ERROR"
	CodeStoreFailure  = "STORE_UNAVAILABLE"
	CodeInternalError = "INTERNAL_ERROR"
	CodeBadRequest    = "BAD_REQUEST"
)

// Error constructors
func Validation(message string, details string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
		Details: details,
		Status:  400,
	}
}

func BadRequest(message string) *AppError {
	return &AppError{
		Code:    CodeBadRequest,
		Message: message,
		Status:  400,
	}
}

func NotFound(resource string) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found", resource),
		Status:  404,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
		Status:  401,
	}
}

func Forbidden(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
		Status:  403,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
		Status:  409,
	}
}

// Generation marks an upstream content-generation failure. The caller's
// existing data must be left intact when this is returned.
func Generation(details string) *AppError {
	return &AppError{
		Code:    CodeGeneration,
		Message: "question generation failed",
		Details: details,
		Status:  502,
	}
}

// Integrity marks a referential mismatch on a single record. Aggregate
// operations skip the record instead of failing outright.
func Integrity(details string) *AppError {
	return &AppError{
		Code:    CodeIntegrity,
		Message: "data integrity error",
		Details: details,
		Status:  500,
	}
}

// StoreUnavailable marks a transient persistence failure; callers may retry.
func StoreUnavailable(details string) *AppError {
	return &AppError{
		Code:    CodeStoreFailure,
		Message: "storage temporarily unavailable",
		Details: details,
		Status:  503,
	}
}

func Internal(message string, details string) *AppError {
	return &AppError{
		Code:    CodeInternalError,
		Message: message,
		Details: details,
		Status:  500,
	}
}

// IsCode reports whether err is an AppError with the given code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}
