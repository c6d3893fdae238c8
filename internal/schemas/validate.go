// Package schemas provides JSON Schema validation for model output and tool arguments.
package schemas

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed data/extraction_result.schema.json
var extractionResultSchema string

// ValidationError represents a schema validation error with field paths
type ValidationError struct {
	Errors []FieldError
}

// FieldError represents a single validation error at a specific field
type FieldError struct {
	Field   string
	Message string
}

// SchemaLoadError represents errors loading or parsing the schema itself
type SchemaLoadError struct {
	Path    string
	Message string
	Cause   error
}

func (e *SchemaLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to load schema %s: %s: %v", e.Path, e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to load schema %s: %s", e.Path, e.Message)
}

func (e *SchemaLoadError) Unwrap() error {
	return e.Cause
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, err := range ve.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s: %s\n", i+1, err.Field, err.Message))
	}
	return sb.String()
}

// Summary returns the field errors on a single line, suitable for feeding back to a model
func (ve *ValidationError) Summary() string {
	parts := make([]string, 0, len(ve.Errors))
	for _, err := range ve.Errors {
		parts = append(parts, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(parts, "; ")
}

// Schema is a compiled JSON Schema
type Schema struct {
	name   string
	schema *gojsonschema.Schema
}

// Compile compiles a JSON Schema expressed as a Go value (typically map[string]any)
func Compile(name string, schema any) (*Schema, error) {
	compiled, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(schema))
	if err != nil {
		return nil, &SchemaLoadError{Path: name, Message: "invalid schema", Cause: err}
	}
	return &Schema{name: name, schema: compiled}, nil
}

// MustCompile is like Compile but panics on an invalid schema
func MustCompile(name string, schema any) *Schema {
	s, err := Compile(name, schema)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the name the schema was compiled under
func (s *Schema) Name() string {
	return s.name
}

// Validate validates an already-decoded Go value
func (s *Schema) Validate(value any) error {
	return s.validate(gojsonschema.NewGoLoader(value))
}

// ValidateString validates raw JSON text
func (s *Schema) ValidateString(jsonContent string) error {
	return s.validate(gojsonschema.NewStringLoader(jsonContent))
}

func (s *Schema) validate(document gojsonschema.JSONLoader) error {
	result, err := s.schema.Validate(document)
	if err != nil {
		return &SchemaLoadError{
			Path:    s.name,
			Message: "document could not be loaded",
			Cause:   err,
		}
	}
	return toValidationError(result)
}

var (
	extractionOnce     sync.Once
	extractionCompiled *Schema
	extractionErr      error
)

// ExtractionResult returns the compiled schema for model extraction output:
// an object with five category arrays.
func ExtractionResult() (*Schema, error) {
	extractionOnce.Do(func() {
		compiled, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(extractionResultSchema))
		if err != nil {
			extractionErr = &SchemaLoadError{Path: "extraction_result.schema.json", Message: "invalid schema", Cause: err}
			return
		}
		extractionCompiled = &Schema{name: "ExtractionResult", schema: compiled}
	})
	return extractionCompiled, extractionErr
}

func toValidationError(result *gojsonschema.Result) error {
	if result.Valid() {
		return nil
	}

	validationErr := &ValidationError{
		Errors: make([]FieldError, 0, len(result.Errors())),
	}

	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		validationErr.Errors = append(validationErr.Errors, FieldError{
			Field:   field,
			Message: desc.Description(),
		})
	}

	return validationErr
}
