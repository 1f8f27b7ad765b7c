package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies an AppError independently of the HTTP status it maps to.
type Kind string

const (
	KindValidation Kind = "validation"
	KindAuth       Kind = "auth"
	KindPermission Kind = "permission"
	KindNotFound   Kind = "not_found"
	KindConflict   Kind = "conflict"
	KindDelivery   Kind = "delivery"
	KindInternal   Kind = "internal"
)

type AppError struct {
	Kind    Kind        `json:"kind"`
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	Err     error       `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(kind Kind, code int, message string, err error) *AppError {
	return &AppError{
		Kind:    kind,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetails attaches a client-visible payload, e.g. per-field validation messages.
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

func BadRequest(message string) *AppError {
	return New(KindValidation, http.StatusBadRequest, message, nil)
}

// Validation is an alias of BadRequest kept for readability at call sites.
func Validation(message string) *AppError {
	return BadRequest(message)
}

func Unauthorized(message string) *AppError {
	return New(KindAuth, http.StatusUnauthorized, message, nil)
}

// AuthFailed is used for credential and reset-token failures, which are
// reported with 400 rather than 401.
func AuthFailed(message string) *AppError {
	return New(KindAuth, http.StatusBadRequest, message, nil)
}

func Forbidden(message string) *AppError {
	return New(KindPermission, http.StatusForbidden, message, nil)
}

func NotFound(message string) *AppError {
	return New(KindNotFound, http.StatusNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return New(KindConflict, http.StatusConflict, message, nil)
}

// Delivery reports a failure of an outbound collaborator such as the mailer.
func Delivery(message string, err error) *AppError {
	return New(KindDelivery, http.StatusBadGateway, message, err)
}

func Internal(err error) *AppError {
	return New(KindInternal, http.StatusInternalServerError, "Internal Server Error", err)
}

// KindOf returns the Kind of err, or KindInternal if err is not an AppError.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}

// Is reports whether err is an AppError of the given kind.
func Is(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}
