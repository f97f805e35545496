package domain

import (
	"errors"
	"fmt"
)

// Common domain errors returned by engine operations.
var (
	// ErrSessionNotFound indicates the requested session id is unknown
	// to the store. It is always surfaced, never recovered.
	ErrSessionNotFound = errors.New("session not found")

	// ErrServiceUnavailable indicates an external collaborator
	// (transcriber, analyzer, generator) failed or timed out.
	ErrServiceUnavailable = errors.New("external service unavailable")

	// ErrQuestionRepeated indicates an attempt to ask a question whose id
	// was already asked in the same session.
	ErrQuestionRepeated = errors.New("question already asked in session")

	// ErrAnswerWithoutQuestion indicates an attempt to record more
	// answers than questions asked.
	ErrAnswerWithoutQuestion = errors.New("answer recorded without an asked question")
)

// InvalidTransitionError reports an illegal session state transition.
// It names both the current and the attempted state so callers can log
// exactly what was rejected; illegal transitions are never silently ignored.
type InvalidTransitionError struct {
	// Op is the operation that attempted the transition, e.g. "Start".
	Op string

	// From is the session's current status.
	From Status

	// To is the status the operation attempted to reach.
	To Status
}

// Error implements the error interface for InvalidTransitionError.
func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid state transition: %s from %s to %s", e.Op, e.From, e.To)
}

// NewInvalidTransition creates an InvalidTransitionError for the given
// operation and states.
func NewInvalidTransition(op string, from, to Status) *InvalidTransitionError {
	return &InvalidTransitionError{Op: op, From: from, To: to}
}

// ValidationError reports one or more validation failures for an entity,
// such as a malformed job context at session creation.
type ValidationError struct {
	// Entity is the name of the entity that failed validation.
	Entity string

	// Errors contains the individual validation failure messages.
	Errors []string
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation error for %s: %s", e.Entity, e.Errors[0])
	}
	return fmt.Sprintf("validation errors for %s: %v", e.Entity, e.Errors)
}

// AddError appends a validation failure message.
func (e *ValidationError) AddError(msg string) { e.Errors = append(e.Errors, msg) }

// HasErrors reports whether any validation failures were recorded.
func (e *ValidationError) HasErrors() bool { return len(e.Errors) > 0 }

// NewValidationError creates an empty ValidationError for the given entity.
func NewValidationError(entity string) *ValidationError {
	return &ValidationError{Entity: entity, Errors: make([]string, 0)}
}

// ServiceError wraps a failure from a named external collaborator.
// It matches ErrServiceUnavailable under errors.Is so callers can apply
// the recovery policy without inspecting the concrete service.
type ServiceError struct {
	// Service names the collaborator, e.g. "transcriber" or "generator".
	Service string

	// Op is the operation that failed.
	Op string

	// Err is the underlying cause.
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Service, e.Op, e.Err)
}

// Unwrap returns the underlying error for errors.Is/errors.As chains.
func (e *ServiceError) Unwrap() error { return e.Err }

// Is matches ServiceError against the ErrServiceUnavailable sentinel.
func (e *ServiceError) Is(target error) bool { return target == ErrServiceUnavailable }

// NewServiceError wraps err as a failure of the named service operation.
func NewServiceError(service, op string, err error) *ServiceError {
	return &ServiceError{Service: service, Op: op, Err: err}
}
