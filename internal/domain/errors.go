package domain

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	// Authentication & Authorization
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden          ErrorCode = "FORBIDDEN"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeExpiredToken       ErrorCode = "EXPIRED_TOKEN"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"

	// Validation
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidInput     ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField     ErrorCode = "MISSING_FIELD"

	// Resource
	ErrCodeNotFound      ErrorCode = "NOT_FOUND"
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
	ErrCodeTaskNotFound  ErrorCode = "TASK_NOT_FOUND"
	ErrCodeUserNotFound  ErrorCode = "USER_NOT_FOUND"

	// External Services
	ErrCodeDatabaseError ErrorCode = "DATABASE_ERROR"
	ErrCodeRedisError    ErrorCode = "REDIS_ERROR"

	// System
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
	ErrCodeRateLimitExceeded ErrorCode = "RATE_LIMIT_EXCEEDED"
)

type AppError struct {
	Code       ErrorCode         `json:"code"`
	Message    string            `json:"message"`
	StatusCode int               `json:"-"`
	Details    map[string]string `json:"details,omitempty"`
	Err        error             `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewAppError(code ErrorCode, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// WithDetails returns a copy carrying field-level details, so the shared
// sentinel errors below stay immutable.
func (e *AppError) WithDetails(details map[string]string) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

func (e *AppError) WithError(err error) *AppError {
	clone := *e
	clone.Err = err
	return &clone
}

// Common errors
var (
	ErrUnauthorized = NewAppError(
		ErrCodeUnauthorized,
		"Authentication required",
		http.StatusUnauthorized,
	)

	ErrForbidden = NewAppError(
		ErrCodeForbidden,
		"Forbidden - admin access required",
		http.StatusForbidden,
	)

	ErrInvalidToken = NewAppError(
		ErrCodeInvalidToken,
		"Invalid or malformed token",
		http.StatusUnauthorized,
	)

	ErrExpiredToken = NewAppError(
		ErrCodeExpiredToken,
		"Token has expired",
		http.StatusUnauthorized,
	)

	ErrInvalidCredentials = NewAppError(
		ErrCodeInvalidCredentials,
		"Invalid email or password",
		http.StatusUnauthorized,
	)

	ErrValidationFailed = NewAppError(
		ErrCodeValidationFailed,
		"Validation failed",
		http.StatusBadRequest,
	)

	// ErrTaskNotFound covers both "does not exist" and "not owned by the
	// caller". The two cases are deliberately indistinguishable so a
	// caller cannot probe for other users' task ids.
	ErrTaskNotFound = NewAppError(
		ErrCodeTaskNotFound,
		"Task not found",
		http.StatusNotFound,
	)

	ErrAlreadyExists = NewAppError(
		ErrCodeAlreadyExists,
		"Resource already exists",
		http.StatusConflict,
	)

	ErrDatabaseError = NewAppError(
		ErrCodeDatabaseError,
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrInternal = NewAppError(
		ErrCodeInternal,
		"Internal server error",
		http.StatusInternalServerError,
	)

	ErrRateLimitExceeded = NewAppError(
		ErrCodeRateLimitExceeded,
		"Rate limit exceeded",
		http.StatusTooManyRequests,
	)
)
