package internal

import (
	"encoding/json"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"
	ErrCodeMissingStartDate ErrorCode = "MISSING_START_DATE"
	ErrCodeInvalidDate      ErrorCode = "INVALID_DATE"
	ErrCodeMissingName      ErrorCode = "MISSING_NAME"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeWrongOldPassword   ErrorCode = "WRONG_OLD_PASSWORD"
	ErrCodePasswordMismatch   ErrorCode = "PASSWORD_MISMATCH"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeTokenExpired       ErrorCode = "TOKEN_EXPIRED"

	ErrCodeStaffNotFound  ErrorCode = "STAFF_NOT_FOUND"
	ErrCodeRosterNotFound ErrorCode = "ROSTER_NOT_FOUND"
	ErrCodePDFNotFound    ErrorCode = "PDF_NOT_FOUND"
)

type AppError struct {
	Type       ErrorType `json:"type"`
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	StatusCode int       `json:"-"`
	Cause      error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewNotFoundError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeNotFound,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusNotFound,
	}
}

func NewUnauthorizedError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeUnauthorized,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusUnauthorized,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrMissingStartDate = NewValidationError("start and end dates are required", ErrCodeMissingStartDate)
	ErrInvalidDate      = NewValidationError("invalid date format, expected YYYY-MM-DD", ErrCodeInvalidDate)

	// The same message covers unknown username and wrong password so the
	// login form cannot be used to enumerate accounts.
	ErrInvalidCredentials = NewUnauthorizedError("invalid credentials, try again", ErrCodeInvalidCredentials)
	ErrWrongOldPassword   = NewValidationError("old password is incorrect", ErrCodeWrongOldPassword)
	ErrPasswordMismatch   = NewValidationError("new passwords do not match", ErrCodePasswordMismatch)
	ErrInvalidToken       = NewUnauthorizedError("invalid token", ErrCodeInvalidToken)
	ErrTokenExpired       = NewUnauthorizedError("token has expired", ErrCodeTokenExpired)

	ErrStaffNotFound  = NewNotFoundError("employee not found", ErrCodeStaffNotFound)
	ErrRosterNotFound = NewNotFoundError("roster not found", ErrCodeRosterNotFound)
	ErrPDFNotFound    = NewNotFoundError("roster PDF not found", ErrCodePDFNotFound)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type    ErrorType `json:"type"`
		Code    ErrorCode `json:"code"`
		Message string    `json:"message"`
	}{
		Type:    e.Type,
		Code:    e.Code,
		Message: e.Message,
	})
}
