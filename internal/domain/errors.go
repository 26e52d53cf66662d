package domain

import "fmt"

// Error types for consistent error handling across the engine.

// ErrNotFound indicates a record was not found, locally or remotely.
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrValidation indicates bad input, rejected before any state change.
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error on '%s': %s", e.Field, e.Message)
}

// ErrExternalService indicates a failure in a remote collaborator
// (persistence layer, rate source).
type ErrExternalService struct {
	Service string
	Err     error
}

func (e *ErrExternalService) Error() string {
	return fmt.Sprintf("external service error [%s]: %v", e.Service, e.Err)
}

func (e *ErrExternalService) Unwrap() error {
	return e.Err
}

// ErrCircuitOpen indicates the circuit breaker for a remote surface is open.
type ErrCircuitOpen struct {
	Service string
}

func (e *ErrCircuitOpen) Error() string {
	return fmt.Sprintf("circuit breaker open for service: %s", e.Service)
}

// ErrTimeout indicates an operation exceeded its deadline.
type ErrTimeout struct {
	Operation string
}

func (e *ErrTimeout) Error() string {
	return fmt.Sprintf("operation timed out: %s", e.Operation)
}

// ErrRateUnavailable indicates no usable rate exists for a conversion.
// Valuation treats it as a soft condition, never a hard failure.
type ErrRateUnavailable struct {
	Currency Currency
}

func (e *ErrRateUnavailable) Error() string {
	return fmt.Sprintf("no exchange rate available for %s", e.Currency)
}

// ErrSessionClosed indicates an operation on a torn-down session store.
type ErrSessionClosed struct {
	OwnerID string
}

func (e *ErrSessionClosed) Error() string {
	return fmt.Sprintf("session closed for owner %s", e.OwnerID)
}

// ErrUnauthorized indicates a missing or invalid bearer token.
type ErrUnauthorized struct {
	Message string
}

func (e *ErrUnauthorized) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return "unauthorized"
}
