package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Error codes
const (
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeInternal          = "INTERNAL_ERROR"
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeUnprocessable     = "UNPROCESSABLE_GAME"
	ErrCodeOracleUnavailable = "ORACLE_UNAVAILABLE"
	ErrCodeUnavailable       = "SERVICE_UNAVAILABLE"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	Code    string // Error code (e.g., "NOT_FOUND", "VALIDATION_ERROR")
	Message string // Human-readable error message
	Status  int    // HTTP status code
	Err     error  // Wrapped underlying error (optional)
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

// NewNotFoundError creates a new NOT_FOUND error
func NewNotFoundError(resource string, id any) *AppError {
	return &AppError{
		Code:    ErrCodeNotFound,
		Message: fmt.Sprintf("%s not found: %v", resource, id),
		Status:  http.StatusNotFound,
	}
}

// NewValidationError creates a new VALIDATION_ERROR
func NewValidationError(field string, reason string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf("validation failed for %s: %s", field, reason),
		Status:  http.StatusBadRequest,
	}
}

// NewInternalError creates a new INTERNAL_ERROR
func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: "internal server error",
		Status:  http.StatusInternalServerError,
		Err:     err,
	}
}

// NewBadRequestError creates a new BAD_REQUEST error
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    ErrCodeBadRequest,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewUnavailableError creates a SERVICE_UNAVAILABLE error for work that cannot
// be accepted right now
func NewUnavailableError(message string, err error) *AppError {
	return &AppError{
		Code:    ErrCodeUnavailable,
		Message: message,
		Status:  http.StatusServiceUnavailable,
		Err:     err,
	}
}

// ParseError means a game's text could not be read at all. The game is skipped.
type ParseError struct {
	GameID string
	Reason string
}

func (e *ParseError) Error() string {
	if e.GameID == "" {
		return "parse game: " + e.Reason
	}
	return fmt.Sprintf("parse game %s: %s", e.GameID, e.Reason)
}

// IllegalMoveError means a move token does not decode to a legal move in the
// current position. The position is left unchanged.
type IllegalMoveError struct {
	Move string
	FEN  string
}

func (e *IllegalMoveError) Error() string {
	return fmt.Sprintf("illegal move %q in position %s", e.Move, e.FEN)
}

// OracleUnavailableError wraps a transport failure talking to the engine
// process: it exited, a pipe closed, or a reply timed out.
type OracleUnavailableError struct {
	Err error
}

func (e *OracleUnavailableError) Error() string {
	return "evaluation oracle unavailable: " + e.Err.Error()
}

func (e *OracleUnavailableError) Unwrap() error {
	return e.Err
}

// Unavailable wraps err as an OracleUnavailableError unless it already is one.
func Unavailable(err error) error {
	if err == nil {
		return nil
	}
	var oe *OracleUnavailableError
	if errors.As(err, &oe) {
		return err
	}
	return &OracleUnavailableError{Err: err}
}

// ToAppError maps domain errors to their HTTP representation. Unknown errors
// become internal errors.
func ToAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	var pe *ParseError
	if errors.As(err, &pe) {
		return &AppError{Code: ErrCodeUnprocessable, Message: pe.Error(), Status: http.StatusUnprocessableEntity, Err: err}
	}
	var ie *IllegalMoveError
	if errors.As(err, &ie) {
		return &AppError{Code: ErrCodeUnprocessable, Message: ie.Error(), Status: http.StatusUnprocessableEntity, Err: err}
	}
	var oe *OracleUnavailableError
	if errors.As(err, &oe) {
		return &AppError{Code: ErrCodeOracleUnavailable, Message: "evaluation engine unavailable", Status: http.StatusServiceUnavailable, Err: err}
	}
	return NewInternalError(err)
}
