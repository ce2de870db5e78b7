package shared

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

var (
	ErrInvalidPayload = errors.New("invalid payload")
	ErrInvalidEmail   = errors.New("invalid email")
	ErrNotFound       = errors.New("not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrServerError    = errors.New("server error")
)

// Error pairs one of the sentinel kinds above with a message that is safe to
// return to callers.
type Error struct {
	Kind    error
	Message string
}

func Errorf(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

type ConstraintKind int

const (
	ConstraintUnique ConstraintKind = iota
	ConstraintOther
)

// ConstraintError is a storage constraint violation reported by the database
// after a write was attempted.
type ConstraintError struct {
	Kind ConstraintKind
	Err  error
}

func (e *ConstraintError) Error() string {
	return "constraint violation: " + e.Err.Error()
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

func (e *ConstraintError) Is(target error) bool {
	return target == ErrConflict && e.Kind == ConstraintUnique
}

// ClassifyDBError wraps constraint violations in a ConstraintError and leaves
// every other error untouched.
func ClassifyDBError(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &ConstraintError{Kind: ConstraintUnique, Err: err}
	case errors.Is(err, gorm.ErrForeignKeyViolated), errors.Is(err, gorm.ErrCheckConstraintViolated):
		return &ConstraintError{Kind: ConstraintOther, Err: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) == 5 && pgErr.Code[:2] == "23" {
		if pgErr.Code == "23505" {
			return &ConstraintError{Kind: ConstraintUnique, Err: err}
		}
		return &ConstraintError{Kind: ConstraintOther, Err: err}
	}

	return err
}

// StatusOf returns the HTTP status matching the error kind.
func StatusOf(err error) int {
	var ce *ConstraintError
	if errors.As(err, &ce) && ce.Kind != ConstraintUnique {
		return http.StatusInternalServerError
	}

	switch {
	case errors.Is(err, ErrInvalidPayload), errors.Is(err, ErrInvalidEmail):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type APIError struct {
	Code    string `json:"code" example:"invalid_request"`
	Message string `json:"message" example:"Invalid request body"`
	Details any    `json:"details,omitempty" swaggertype:"object"`
}

func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

func (e *APIError) WithDetails(details any) *APIError {
	e.Details = details
	return e
}

func (e *APIError) ToHTTP(status int) *echo.HTTPError {
	return echo.NewHTTPError(status, e)
}

func BadRequest(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusBadRequest)
}

func Unauthorized(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusUnauthorized)
}

func Forbidden(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusForbidden)
}

func NotFound(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusNotFound)
}

func Conflict(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusConflict)
}

func InternalError(code, message string) *echo.HTTPError {
	return NewAPIError(code, message).ToHTTP(http.StatusInternalServerError)
}

// HTTPError converts a store or validation error into the response handlers
// return. Messages of *Error values are passed through; anything else gets the
// fallback code and message.
func HTTPError(err error, fallbackCode, fallbackMessage string) *echo.HTTPError {
	status := StatusOf(err)
	if status == http.StatusInternalServerError {
		return InternalError(fallbackCode, fallbackMessage)
	}

	message := fallbackMessage
	var e *Error
	if errors.As(err, &e) {
		message = e.Message
	}

	return NewAPIError(codeFor(err, fallbackCode), message).ToHTTP(status)
}

func codeFor(err error, fallback string) string {
	switch {
	case errors.Is(err, ErrInvalidPayload):
		return "invalid_payload"
	case errors.Is(err, ErrInvalidEmail):
		return "invalid_email"
	case errors.Is(err, ErrUnauthorized):
		return "auth_required"
	case errors.Is(err, ErrForbidden):
		return "permission_denied"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrConflict):
		return "conflict"
	default:
		return fallback
	}
}
