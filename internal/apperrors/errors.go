package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates the actor lacks the role or ownership required for an operation.
var ErrForbidden = errors.New("forbidden")

// ErrInvalidTransition indicates a state machine guard was violated
// (wrong status, expired edit window, finalized purchase rate).
var ErrInvalidTransition = errors.New("invalid transition")

// ErrInsufficientFunds indicates a withdrawal would drive an account balance negative.
var ErrInsufficientFunds = errors.New("insufficient funds")

// AppError wraps infrastructure failures with an HTTP-ish code and a stable message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}
