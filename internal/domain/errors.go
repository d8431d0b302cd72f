package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrConflict     = errors.New("conflict")

	// ErrUnsupportedAction is returned when an action kind is outside the
	// closed set understood by the simulator or executor.
	ErrUnsupportedAction = errors.New("unsupported action")

	// ErrRollbackExpired is returned when an undo is requested after the
	// rollback record's validity window has passed.
	ErrRollbackExpired = errors.New("rollback expired")

	// ErrRollbackExecuted is returned when an undo is requested for a
	// rollback record that was already consumed.
	ErrRollbackExecuted = errors.New("rollback already executed")

	// ErrUndoNotSupported is returned when a rollback record carries an undo
	// kind the store has no handler for.
	ErrUndoNotSupported = errors.New("undo not supported for this action")

	// ErrConfirmationRequired short-circuits execution of an action that
	// needs explicit user approval. Not a failure: the transport turns it
	// into a distinguished "confirm first" response.
	ErrConfirmationRequired = errors.New("confirmation required")
)

// ErrInvalidTransition lets callers match any InvalidTransitionError with
// errors.Is without caring about the states involved.
var ErrInvalidTransition = errors.New("invalid transition")

// InvalidTransitionError reports a state change that is not permitted from
// the conversation's current state. The conversation is left untouched.
type InvalidTransitionError struct {
	From ConversationState
	To   ConversationState
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid transition: %s -> %s", e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s — %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
