// Package prompts holds the model prompt templates used by the assistant.
// Prompt files are JSON objects of key to template, embedded at compile time.
// Templates use {{.Name}} placeholders.
package prompts

import (
	"embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"
)

//go:embed *.json
var promptFiles embed.FS

// AgentFile holds the chat assistant prompts
const AgentFile = "agent.json"

var placeholder = regexp.MustCompile(`\{\{\.([A-Za-z][A-Za-z0-9_]*)\}\}`)

// Set is the parsed contents of one prompt file
type Set struct {
	file      string
	templates map[string]string
}

// MissingKeyError is returned for a prompt key the file does not define
type MissingKeyError struct {
	File string
	Key  string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("prompt %q not found in %s", e.Key, e.File)
}

// UnfilledError is returned when rendering leaves placeholders without a value
type UnfilledError struct {
	Key     string
	Missing []string
}

func (e *UnfilledError) Error() string {
	return fmt.Sprintf("prompt %q: no value for %s", e.Key, strings.Join(e.Missing, ", "))
}

// Load parses an embedded prompt file
func Load(file string) (*Set, error) {
	data, err := promptFiles.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt file %s: %w", file, err)
	}
	var templates map[string]string
	if err := json.Unmarshal(data, &templates); err != nil {
		return nil, fmt.Errorf("failed to parse prompt file %s: %w", file, err)
	}
	return &Set{file: file, templates: templates}, nil
}

var agentPrompts = sync.OnceValues(func() (*Set, error) { return Load(AgentFile) })

// Agent returns the assistant prompt set. The file is embedded, so a parse
// failure is a build defect and panics.
func Agent() *Set {
	set, err := agentPrompts()
	if err != nil {
		panic(err)
	}
	return set
}

// Get returns the raw template for key
func (s *Set) Get(key string) (string, error) {
	tmpl, ok := s.templates[key]
	if !ok {
		return "", &MissingKeyError{File: s.file, Key: key}
	}
	return tmpl, nil
}

// Keys returns the prompt keys in sorted order
func (s *Set) Keys() []string {
	keys := make([]string, 0, len(s.templates))
	for key := range s.templates {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Placeholders returns the distinct placeholder names used by key's template
func (s *Set) Placeholders(key string) ([]string, error) {
	tmpl, err := s.Get(key)
	if err != nil {
		return nil, err
	}
	return placeholderNames(tmpl), nil
}

// Render fills key's placeholders from data. Every placeholder must have a value.
func (s *Set) Render(key string, data map[string]string) (string, error) {
	tmpl, err := s.Get(key)
	if err != nil {
		return "", err
	}
	var missing []string
	for _, name := range placeholderNames(tmpl) {
		if _, ok := data[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return "", &UnfilledError{Key: key, Missing: missing}
	}
	return Format(tmpl, data), nil
}

// MustRender is Render for embedded prompts whose keys and placeholders are fixed in code
func (s *Set) MustRender(key string, data map[string]string) string {
	out, err := s.Render(key, data)
	if err != nil {
		panic(err)
	}
	return out
}

// Format replaces {{.Key}} placeholders with values from data.
// Values are inserted verbatim and never re-expanded. Unknown placeholders are left as is.
func Format(template string, data map[string]string) string {
	if len(data) == 0 {
		return template
	}
	return placeholder.ReplaceAllStringFunc(template, func(m string) string {
		name := placeholder.FindStringSubmatch(m)[1]
		if v, ok := data[name]; ok {
			return v
		}
		return m
	})
}

func placeholderNames(tmpl string) []string {
	seen := map[string]bool{}
	var names []string
	for _, m := range placeholder.FindAllStringSubmatch(tmpl, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}
