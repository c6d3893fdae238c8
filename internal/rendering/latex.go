package rendering

import (
	"bytes"
	"embed"
	"sort"
	"strings"
	"sync"
	"text/template"

	"github.com/jonathan/rezoom/internal/types"
)

// Template identifiers
const (
	TemplateClassic = "classic"
	TemplateCompact = "compact"
	// DefaultTemplate is used when no template is requested
	DefaultTemplate = TemplateClassic
)

//go:embed templates/*.tex.tmpl
var latexFS embed.FS

var (
	latexOnce      sync.Once
	latexTemplates map[string]*template.Template
	latexErr       error
)

// latexView is what the LaTeX templates see. Every field is already escaped.
type latexView struct {
	Name            Text
	Contact         []Text
	Objective       Text
	Education       []latexEducation
	TechnicalSkills []Text
	SoftSkills      []Text
	Experience      []latexExperience
	Projects        []latexProject
	Certifications  []latexCertification
}

type latexExperience struct {
	Role, Company, Dates, Description, Technologies Text
}

type latexEducation struct {
	Degree, Institution, Years, Description Text
}

type latexProject struct {
	Title, Description, TechStack Text
	Links                         []Text
}

type latexCertification struct {
	Title, Issuer, Dates, Credential Text
}

// Templates lists the available template identifiers
func Templates() []string {
	if err := loadLaTeXTemplates(); err != nil {
		return nil
	}
	ids := make([]string, 0, len(latexTemplates))
	for id := range latexTemplates {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// ResolveTemplate normalizes a requested template id, falling back to the default
func ResolveTemplate(id string) (string, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	if id == "" {
		return DefaultTemplate, nil
	}
	if err := loadLaTeXTemplates(); err != nil {
		return "", err
	}
	if _, ok := latexTemplates[id]; !ok {
		return "", &TemplateError{Template: id, Message: "unknown template (available: " + strings.Join(Templates(), ", ") + ")"}
	}
	return id, nil
}

// RenderResume renders a loaded profile into a LaTeX document.
// Output depends only on the profile and the template id.
func RenderResume(profile *types.Profile, templateID string) (string, error) {
	if profile == nil {
		return "", &RenderError{Format: FormatLaTeX, Message: "profile is required"}
	}
	id, err := ResolveTemplate(templateID)
	if err != nil {
		return "", err
	}
	if err := loadLaTeXTemplates(); err != nil {
		return "", err
	}

	view := toLaTeX(newDocument(profile))

	var buf bytes.Buffer
	if err := latexTemplates[id].Execute(&buf, view); err != nil {
		return "", &RenderError{Format: FormatLaTeX, Message: "failed to execute template " + id, Cause: err}
	}
	return buf.String(), nil
}

func loadLaTeXTemplates() error {
	latexOnce.Do(func() {
		entries, err := latexFS.ReadDir("templates")
		if err != nil {
			latexErr = &TemplateError{Message: "failed to read embedded templates", Cause: err}
			return
		}
		latexTemplates = make(map[string]*template.Template, len(entries))
		for _, entry := range entries {
			name := entry.Name()
			id := strings.TrimSuffix(name, ".tex.tmpl")
			tmpl, err := parseTemplate(name)
			if err != nil {
				latexErr = err
				return
			}
			latexTemplates[id] = tmpl
		}
	})
	return latexErr
}

// parseTemplate parses an embedded LaTeX template. Angle delimiters keep LaTeX braces literal.
func parseTemplate(name string) (*template.Template, error) {
	content, err := latexFS.ReadFile("templates/" + name)
	if err != nil {
		return nil, &TemplateError{Template: name, Message: "embedded file not found", Cause: err}
	}
	tmpl, err := template.New(name).
		Delims("<<", ">>").
		Option("missingkey=error").
		Funcs(template.FuncMap{"join": joinText}).
		Parse(string(content))
	if err != nil {
		return nil, &TemplateError{Template: name, Message: "failed to parse", Cause: err}
	}
	return tmpl, nil
}

// joinText joins escaped items. sep comes from the template itself.
func joinText(items []Text, sep string) Text {
	parts := make([]string, len(items))
	for i, item := range items {
		parts[i] = string(item)
	}
	return Text(strings.Join(parts, sep))
}

func escapeAll(items []string) []Text {
	out := make([]Text, len(items))
	for i, item := range items {
		out[i] = EscapeText(item)
	}
	return out
}

func toLaTeX(doc document) latexView {
	view := latexView{
		Name:            EscapeText(doc.Name),
		Contact:         escapeAll(doc.Contact),
		Objective:       EscapeText(doc.Objective),
		TechnicalSkills: escapeAll(doc.TechnicalSkills),
		SoftSkills:      escapeAll(doc.SoftSkills),
	}
	for _, e := range doc.Experience {
		view.Experience = append(view.Experience, latexExperience{
			Role:         EscapeText(e.Role),
			Company:      EscapeText(e.Company),
			Dates:        EscapeText(e.Dates),
			Description:  EscapeText(e.Description),
			Technologies: EscapeText(e.Technologies),
		})
	}
	for _, e := range doc.Education {
		view.Education = append(view.Education, latexEducation{
			Degree:      EscapeText(e.Degree),
			Institution: EscapeText(e.Institution),
			Years:       EscapeText(e.Years),
			Description: EscapeText(e.Description),
		})
	}
	for _, p := range doc.Projects {
		view.Projects = append(view.Projects, latexProject{
			Title:       EscapeText(p.Title),
			Description: EscapeText(p.Description),
			TechStack:   EscapeText(p.TechStack),
			Links:       escapeAll(p.Links),
		})
	}
	for _, c := range doc.Certifications {
		view.Certifications = append(view.Certifications, latexCertification{
			Title:      EscapeText(c.Title),
			Issuer:     EscapeText(c.Issuer),
			Dates:      EscapeText(c.Dates),
			Credential: EscapeText(c.Credential),
		})
	}
	return view
}
