package domain

import "errors"

// AppError is the uniform application error. StatusCode maps onto the HTTP
// response, IsOperational distinguishes expected conditions (bad input,
// duplicate keys, transient storage failures) from defects.
type AppError struct {
	Name          string `json:"name"`
	StatusCode    int    `json:"statusCode"`
	IsOperational bool   `json:"isOperational"`
	Message       string `json:"message"`
	Err           error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches two AppErrors by name so errors.Is(err, domain.ErrConflict)
// works regardless of message.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !errors.As(target, &t) {
		return false
	}
	return e.Name == t.Name
}

// Sentinel values for errors.Is checks.
var (
	ErrValidation   = &AppError{Name: "ValidationError", StatusCode: 400, IsOperational: true, Message: "Validation failed."}
	ErrUnauthorized = &AppError{Name: "UnauthorizedError", StatusCode: 401, IsOperational: true, Message: "Unauthorized."}
	ErrForbidden    = &AppError{Name: "ForbiddenError", StatusCode: 403, IsOperational: true, Message: "Forbidden."}
	ErrNotFound     = &AppError{Name: "NotFoundError", StatusCode: 404, IsOperational: true, Message: "Resource not found."}
	ErrConflict     = &AppError{Name: "ConflictError", StatusCode: 409, IsOperational: true, Message: "Resource already exists."}
	ErrDatabase     = &AppError{Name: "DatabaseError", StatusCode: 500, IsOperational: true, Message: "Database operation failed."}
	ErrInternal     = &AppError{Name: "InternalServerError", StatusCode: 500, IsOperational: false, Message: "Internal Server Error."}
)

func NewValidationError(message string) *AppError {
	return &AppError{Name: "ValidationError", StatusCode: 400, IsOperational: true, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Name: "UnauthorizedError", StatusCode: 401, IsOperational: true, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Name: "ForbiddenError", StatusCode: 403, IsOperational: true, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Name: "NotFoundError", StatusCode: 404, IsOperational: true, Message: message}
}

func NewConflictError(message string) *AppError {
	return &AppError{Name: "ConflictError", StatusCode: 409, IsOperational: true, Message: message}
}

func NewDatabaseError(message string, err error) *AppError {
	return &AppError{Name: "DatabaseError", StatusCode: 500, IsOperational: true, Message: message, Err: err}
}

func NewInternalError(message string, err error) *AppError {
	return &AppError{Name: "InternalServerError", StatusCode: 500, IsOperational: false, Message: message, Err: err}
}

// AsAppError normalizes any error into an AppError; unknown errors become
// non-operational internal errors so raw storage failures never reach clients.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError("Internal Server Error.", err)
}
