// Package rendering turns a profile snapshot into a resume document: LaTeX for
// storage and download, HTML for the PDF service.
package rendering

import "fmt"

// Output formats reported by RenderError
const (
	FormatLaTeX = "latex"
	FormatHTML  = "html"
)

// TemplateError reports an unknown template id or a template that fails to load.
// Template is empty when the failure is not tied to one template.
type TemplateError struct {
	Template string
	Message  string
	Cause    error
}

func (e *TemplateError) Error() string {
	msg := "template error: " + e.Message
	if e.Template != "" {
		msg = fmt.Sprintf("template %s: %s", e.Template, e.Message)
	}
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *TemplateError) Unwrap() error {
	return e.Cause
}

// RenderError reports a failure producing a document in one output format
type RenderError struct {
	Format  string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	msg := fmt.Sprintf("render %s: %s", e.Format, e.Message)
	if e.Cause != nil {
		return msg + ": " + e.Cause.Error()
	}
	return msg
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}
