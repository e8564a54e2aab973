package internal

import (
	"fmt"
	"net/http"
	"strings"
)

type ErrorType string

const (
	ErrorTypeValidation   ErrorType = "VALIDATION_ERROR"
	ErrorTypeNotFound     ErrorType = "NOT_FOUND"
	ErrorTypeUnauthorized ErrorType = "UNAUTHORIZED"
	ErrorTypeForbidden    ErrorType = "FORBIDDEN"
	ErrorTypeConflict     ErrorType = "CONFLICT"
	ErrorTypeInternal     ErrorType = "INTERNAL_ERROR"
)

type ErrorCode string

const (
	ErrCodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUserInactive       ErrorCode = "USER_INACTIVE"
	ErrCodeSessionExpired     ErrorCode = "SESSION_EXPIRED"
	ErrCodeDuplicateUsername  ErrorCode = "DUPLICATE_USERNAME"
	ErrCodeDuplicateEmail     ErrorCode = "DUPLICATE_EMAIL"

	ErrCodeAccessDenied ErrorCode = "ACCESS_DENIED"

	ErrCodeEquipmentNotFound   ErrorCode = "EQUIPMENT_NOT_FOUND"
	ErrCodeEquipmentInUse      ErrorCode = "EQUIPMENT_IN_USE"
	ErrCodeRoomNotFound        ErrorCode = "ROOM_NOT_FOUND"
	ErrCodeRoomOccupied        ErrorCode = "ROOM_OCCUPIED"
	ErrCodeMaintenanceNotFound ErrorCode = "MAINTENANCE_NOT_FOUND"
	ErrCodeInvalidStatus       ErrorCode = "INVALID_STATUS"
	ErrCodeAlreadyAssigned     ErrorCode = "ALREADY_ASSIGNED"
	ErrCodeBorrowingNotFound   ErrorCode = "BORROWING_NOT_FOUND"
	ErrCodeUserNotFound        ErrorCode = "USER_NOT_FOUND"

	ErrCodePersistence ErrorCode = "PERSISTENCE_ERROR"
)

// AppError is the single error shape that crosses a service boundary.
// Handlers translate it into a flash message, a redirect, or a re-rendered
// form; raw causes are logged and never shown to the user.
type AppError struct {
	Type       ErrorType
	Code       ErrorCode
	Message    string
	Details    interface{}
	StatusCode int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// UserMessage returns the text safe to show to an end user. Internal errors
// collapse to a generic failure so database error text never leaks.
func (e *AppError) UserMessage() string {
	if e.Type == ErrorTypeInternal {
		return "Something went wrong. Please try again."
	}
	if details, ok := e.Details.(ValidationErrors); ok && len(details.Errors) > 0 {
		messages := make([]string, len(details.Errors))
		for i, ve := range details.Errors {
			messages[i] = ve.Message
		}
		return strings.Join(messages, "; ")
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

func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

type ValidationError struct {
	Field   string
	Message string
}

type ValidationErrors struct {
	Errors []ValidationError
}

func (v *ValidationErrors) Add(field, message string) {
	v.Errors = append(v.Errors, ValidationError{Field: field, Message: message})
}

func (v ValidationErrors) HasErrors() bool {
	return len(v.Errors) > 0
}

// Messages returns the collected error texts for re-rendering a form.
func (v ValidationErrors) Messages() []string {
	messages := make([]string, len(v.Errors))
	for i, e := range v.Errors {
		messages[i] = e.Message
	}
	return messages
}

func NewValidationError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusBadRequest,
	}
}

func NewValidationErrors(errs ValidationErrors) *AppError {
	return &AppError{
		Type:       ErrorTypeValidation,
		Code:       ErrCodeValidationFailed,
		Message:    "Validation failed",
		StatusCode: http.StatusBadRequest,
		Details:    errs,
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

func NewForbiddenError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeForbidden,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusForbidden,
	}
}

func NewConflictError(message string, code ErrorCode) *AppError {
	return &AppError{
		Type:       ErrorTypeConflict,
		Code:       code,
		Message:    message,
		StatusCode: http.StatusConflict,
	}
}

func NewInternalError(message string, cause error) *AppError {
	return &AppError{
		Type:       ErrorTypeInternal,
		Code:       ErrCodePersistence,
		Message:    message,
		StatusCode: http.StatusInternalServerError,
		Cause:      cause,
	}
}

var (
	ErrInvalidCredentials = NewUnauthorizedError("Invalid username or password", ErrCodeInvalidCredentials)
	ErrUserInactive       = NewForbiddenError("Account is inactive", ErrCodeUserInactive)
	ErrDuplicateUsername  = NewConflictError("Username is already taken", ErrCodeDuplicateUsername)
	ErrDuplicateEmail     = NewConflictError("Email is already registered", ErrCodeDuplicateEmail)
	ErrAccessDenied       = NewForbiddenError("You do not have permission to perform this action", ErrCodeAccessDenied)
)

func IsAppError(err error) (*AppError, bool) {
	if appErr, ok := err.(*AppError); ok {
		return appErr, true
	}
	return nil, false
}
