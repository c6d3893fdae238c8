package agent

import (
	"errors"
	"fmt"
)

// ValidationError is returned when tool arguments or a tool's resulting record are invalid
type ValidationError struct {
	Tool    string
	Message string
	Cause   error
}

func (e *ValidationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("invalid arguments for %s: %s: %v", e.Tool, e.Message, e.Cause)
	}
	return fmt.Sprintf("invalid arguments for %s: %s", e.Tool, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}

// NotFoundError is returned when a tool targets a record the session user does not own
type NotFoundError struct {
	Resource string
	ID       string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// UnknownToolError is returned when the model names a tool outside the toolset
type UnknownToolError struct {
	Name string
}

func (e *UnknownToolError) Error() string {
	return fmt.Sprintf("unknown tool %q", e.Name)
}

// StoreError wraps a storage failure during tool execution
type StoreError struct {
	Message string
	Cause   error
}

func (e *StoreError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("store error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("store error: %s", e.Message)
}

func (e *StoreError) Unwrap() error {
	return e.Cause
}

// ModelUnavailableError ends a turn when the planning model cannot be reached or misbehaves
type ModelUnavailableError struct {
	Message string
	Cause   error
}

func (e *ModelUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("model unavailable: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("model unavailable: %s", e.Message)
}

func (e *ModelUnavailableError) Unwrap() error {
	return e.Cause
}

// InputError reports a malformed turn request
type InputError struct {
	Message string
}

func (e *InputError) Error() string {
	return fmt.Sprintf("invalid chat input: %s", e.Message)
}

// errorKind names an error for the machine-readable observation sent back to the model
func errorKind(err error) string {
	var validationErr *ValidationError
	var notFoundErr *NotFoundError
	var unknownErr *UnknownToolError
	switch {
	case errors.As(err, &validationErr):
		return "validation_error"
	case errors.As(err, &notFoundErr):
		return "not_found"
	case errors.As(err, &unknownErr):
		return "unknown_tool"
	default:
		return "store_error"
	}
}
