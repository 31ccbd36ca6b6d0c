package errors

import (
	"errors"
	"fmt"
)

const (
	ErrorFailedToConnectToTheDatabase = "Failed to connect to the database"
	ErrorFailedToRunTheServer         = "Failed to run the server"
	ErrorFailedToShutdownTheServer    = "Failed to shutdown the server"
	ErrFailedDecodeRequestBody        = "Failed to decode request body"
	ErrInvalidRequestBody             = "Invalid request body"
	ErrFailedCreateTransaction        = "Failed to create transaction"
	ErrFailedInitializeTransaction    = "Failed to initialize transaction"
	ErrFailedReconcileTransaction     = "Failed to reconcile transaction"
	ErrFailedSweepPending             = "Failed to sweep pending transactions"
	ErrMissingPaymentReference        = "Missing payment reference"
	ErrAuthorizationRequired          = "Authorization required"
)

type ValidationError struct {
	Message string
}

func NewValidationError(message string) *ValidationError {
	return &ValidationError{Message: message}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s", e.Message)
}

type NotFoundError struct {
	Resource string
}

func NewNotFoundError(resource string) *NotFoundError {
	return &NotFoundError{Resource: resource}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Resource)
}

type InvalidTransitionError struct {
	From string
	To   string
}

func NewInvalidTransitionError(from, to string) *InvalidTransitionError {
	return &InvalidTransitionError{From: from, To: to}
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition %s -> %s", e.From, e.To)
}

type UnauthorizedError struct {
	Message string
}

func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

func (e *UnauthorizedError) Error() string {
	return fmt.Sprintf("unauthorized: %s", e.Message)
}

// ProviderUnavailableError is the translation of any network failure or
// malformed response at the payment-provider boundary. The underlying cause
// is kept for logs only.
type ProviderUnavailableError struct {
	Op  string
	Err error
}

func NewProviderUnavailableError(op string, err error) *ProviderUnavailableError {
	return &ProviderUnavailableError{Op: op, Err: err}
}

func (e *ProviderUnavailableError) Error() string {
	return fmt.Sprintf("payment provider unavailable during %s: %v", e.Op, e.Err)
}

func (e *ProviderUnavailableError) Unwrap() error {
	return e.Err
}

// ProviderDeclinedError carries a failure the provider itself reported. Its
// message is surfaced verbatim to the caller, never rewritten into a success.
type ProviderDeclinedError struct {
	Code    string
	Message string
}

func NewProviderDeclinedError(code, message string) *ProviderDeclinedError {
	return &ProviderDeclinedError{Code: code, Message: message}
}

func (e *ProviderDeclinedError) Error() string {
	return e.Message
}

func Is(err, target error) bool {
	return errors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
