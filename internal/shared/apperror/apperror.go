package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

// Code là error code trả về trong response envelope
type Code string

const (
	CodeValidation      Code = "VALIDATION_ERROR"
	CodeUnauthenticated Code = "UNAUTHENTICATED"
	CodeForbidden       Code = "FORBIDDEN"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeUpstream        Code = "UPSTREAM_FAILURE"
	CodeInternal        Code = "INTERNAL_ERROR"
)

// AppError là error type chung giữa service và handler.
// Handler chỉ cần map Code -> HTTP status, không cần biết domain.
type AppError struct {
	Code    Code
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus maps error code to HTTP status code
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeUnauthenticated:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeConflict:
		return http.StatusConflict
	case CodeUpstream:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func New(code Code, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func Validation(message string) *AppError {
	return New(CodeValidation, message, nil)
}

func Unauthenticated(message string) *AppError {
	return New(CodeUnauthenticated, message, nil)
}

func Forbidden(message string) *AppError {
	return New(CodeForbidden, message, nil)
}

func NotFound(message string, err error) *AppError {
	return New(CodeNotFound, message, err)
}

func Conflict(message string, err error) *AppError {
	return New(CodeConflict, message, err)
}

// Upstream wraps a media store failure. Không retry ở catalog core.
func Upstream(message string, err error) *AppError {
	return New(CodeUpstream, message, err)
}

func Internal(message string, err error) *AppError {
	return New(CodeInternal, message, err)
}

// From trả về AppError trong chain; error lạ được coi là internal failure
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal("Internal server error", err)
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}
