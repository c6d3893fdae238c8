package rendering

import (
	"bytes"
	_ "embed"
	"html/template"
	"sync"

	"github.com/jonathan/rezoom/internal/types"
)

//go:embed templates/resume.html.tmpl
var htmlSource string

var (
	htmlOnce     sync.Once
	htmlTemplate *template.Template
	htmlErr      error
)

type htmlView struct {
	Template string
	Doc      document
}

// RenderHTML renders the same resume content as HTML for the PDF service.
// html/template escapes all profile text contextually.
func RenderHTML(profile *types.Profile, templateID string) (string, error) {
	if profile == nil {
		return "", &RenderError{Format: FormatHTML, Message: "profile is required"}
	}
	id, err := ResolveTemplate(templateID)
	if err != nil {
		return "", err
	}

	htmlOnce.Do(func() {
		htmlTemplate, htmlErr = template.New("resume.html").Parse(htmlSource)
		if htmlErr != nil {
			htmlErr = &TemplateError{Template: "resume.html", Message: "failed to parse", Cause: htmlErr}
		}
	})
	if htmlErr != nil {
		return "", htmlErr
	}

	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, htmlView{Template: id, Doc: newDocument(profile)}); err != nil {
		return "", &RenderError{Format: FormatHTML, Message: "failed to execute template " + id, Cause: err}
	}
	return buf.String(), nil
}
