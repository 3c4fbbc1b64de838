package domain

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes shared by every layer.
const (
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthenticated = "UNAUTHENTICATED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeUpstream        = "UPSTREAM_FAILURE"
)

// duplicate keys are reported like validation failures so the UI shows the message inline
var codeStatus = map[string]int{
	CodeValidation:      http.StatusBadRequest,
	CodeUnauthenticated: http.StatusUnauthorized,
	CodeForbidden:       http.StatusForbidden,
	CodeNotFound:        http.StatusNotFound,
	CodeConflict:        http.StatusBadRequest,
	CodeUpstream:        http.StatusInternalServerError,
}

// AppError carries a code, a user-facing message and the underlying cause.
type AppError struct {
	code    string
	message string
	err     error
}

func NewError(code, message string, err error) *AppError {
	return &AppError{code: code, message: message, err: err}
}

func (e *AppError) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %v", e.message, e.err)
	}
	return e.message
}

func (e *AppError) Code() string    { return e.code }
func (e *AppError) Message() string { return e.message }
func (e *AppError) Unwrap() error   { return e.err }

// Is matches any AppError of the same code against a bare sentinel.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	if t.err == nil && t.message == "" {
		return t.code == e.code
	}
	return t == e
}

var (
	ErrValidation      = &AppError{code: CodeValidation}
	ErrUnauthenticated = &AppError{code: CodeUnauthenticated}
	ErrForbidden       = &AppError{code: CodeForbidden}
	ErrNotFound        = &AppError{code: CodeNotFound}
	ErrConflict        = &AppError{code: CodeConflict}
	ErrUpstream        = &AppError{code: CodeUpstream}
)

func Validation(message string) error      { return NewError(CodeValidation, message, nil) }
func Unauthenticated(message string) error { return NewError(CodeUnauthenticated, message, nil) }
func Forbidden(message string) error       { return NewError(CodeForbidden, message, nil) }
func NotFound(message string) error        { return NewError(CodeNotFound, message, nil) }
func Conflict(message string) error        { return NewError(CodeConflict, message, nil) }

// Upstream wraps a failure of the store or the identity provider.
func Upstream(message string, err error) error {
	return NewError(CodeUpstream, message, err)
}

// HTTPStatus maps an error to a response status; unknown errors are 500.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		if status, ok := codeStatus[appErr.code]; ok {
			return status
		}
	}
	return http.StatusInternalServerError
}

// PublicMessage returns the message safe to show to clients.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.message != "" {
		return appErr.message
	}
	return "サーバーエラーが発生しました"
}
