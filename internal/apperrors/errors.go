package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrRateUnavailable indicates the upstream rate source failed or does not support the pair.
var ErrRateUnavailable = errors.New("exchange rate unavailable")

// ErrInsufficientAmount indicates a gold purchase below the one gram minimum.
var ErrInsufficientAmount = errors.New("insufficient amount")

// ErrInsufficientBalance indicates the ledger reported insufficient funds.
var ErrInsufficientBalance = errors.New("insufficient balance")

// ErrBalanceCheckTimedOut indicates no balance-check reply arrived in time.
// It is an availability problem, not a funds problem.
var ErrBalanceCheckTimedOut = errors.New("balance check timed out")

// AppError carries a status code alongside a wrapped cause.
type AppError struct {
	Code    int
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

// NewAppError creates an AppError with the given code, message and cause.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError creates a 404 AppError that matches ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return NewAppError(http.StatusNotFound, message, ErrNotFound)
}

// NewValidationError creates a 400 AppError that matches ErrValidation.
func NewValidationError(message string) *AppError {
	return NewAppError(http.StatusBadRequest, message, ErrValidation)
}
