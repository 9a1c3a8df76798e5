package apperr

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

const (
	CodeNotFound       = "NOT_FOUND"
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeConflict       = "CONFLICT"
	CodeUnavailable    = "UNAVAILABLE"
	CodeInternalError  = "INTERNAL_ERROR"
)

var (
	// ErrNotFound is returned when a resource is not found.
	ErrNotFound = New(fiber.StatusNotFound, CodeNotFound, "resource not found with given parameters")

	// ErrInvalidReq is returned when a request is invalid.
	ErrInvalidReq = New(fiber.StatusBadRequest, CodeInvalidRequest, "invalid request: some or all request parameters are invalid")

	// ErrConflict is returned when a document was modified since the client last read it.
	ErrConflict = New(fiber.StatusConflict, CodeConflict, "document has been modified by someone else")

	// ErrUnavailable is returned when an upstream dependency cannot serve the request.
	ErrUnavailable = New(fiber.StatusServiceUnavailable, CodeUnavailable, "service temporarily unavailable")

	// ErrInternalError is returned when an internal error occurs.
	ErrInternalError = New(fiber.StatusInternalServerError, CodeInternalError, "internal server error occurred")
)

type Extras map[string]any

type AppError struct {
	StatusCode int
	ErrorCode  string
	Message    string
	Extras     *Extras
}

func New(statusCode int, errorCode string, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

func (e AppError) Msg(format string, parts ...any) *AppError {
	e.Message = fmt.Sprintf(format, parts...)
	return &e
}

func (e AppError) WithExtras(extras Extras) *AppError {
	e.Extras = &extras
	return &e
}

func NewInvalidViolations(violations any) *AppError {
	e := *ErrInvalidReq
	e.Extras = &Extras{
		"violations": violations,
	}
	return &e
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.ErrorCode, e.Message)
}

// Is reports whether target carries the same error code, so that copies made
// by Msg and WithExtras still match their sentinel with errors.Is.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.ErrorCode == t.ErrorCode
}
