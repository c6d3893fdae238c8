package extraction

import "fmt"

// ParseError is returned when no valid extraction payload can be located in
// the model response. The whole upload fails; nothing is persisted.
type ParseError struct {
	Message string
	Raw     string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction parse error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction parse error: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// ModelUnavailableError is returned when the extraction model is not configured or cannot be reached
type ModelUnavailableError struct {
	Message string
	Cause   error
}

func (e *ModelUnavailableError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("extraction model unavailable: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("extraction model unavailable: %s", e.Message)
}

func (e *ModelUnavailableError) Unwrap() error {
	return e.Cause
}
