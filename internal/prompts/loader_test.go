package prompts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgent_Keys(t *testing.T) {
	assert.Equal(t, []string{"apology", "apology-partial", "max-steps", "system"}, Agent().Keys())
}

func TestAgent_Placeholders(t *testing.T) {
	tests := map[string][]string{
		"system":          {"UserName", "Today", "CurrentStep", "ResumeID", "ScrapedData"},
		"apology":         nil,
		"apology-partial": {"Results"},
		"max-steps":       {"Results"},
	}
	for key, want := range tests {
		t.Run(key, func(t *testing.T) {
			got, err := Agent().Placeholders(key)
			require.NoError(t, err)
			assert.ElementsMatch(t, want, got)
		})
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("nonexistent.json")
	assert.ErrorContains(t, err, "failed to read prompt file")
}

func TestGet_MissingKey(t *testing.T) {
	_, err := Agent().Get("nonexistent-key")

	var missing *MissingKeyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, AgentFile, missing.File)
}

func TestRender_SystemPrompt(t *testing.T) {
	out, err := Agent().Render("system", map[string]string{
		"UserName":    "Jane",
		"Today":       "2026-01-02",
		"CurrentStep": "idle",
		"ResumeID":    "none",
		"ScrapedData": "none",
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Jane")
	assert.Contains(t, out, "Today is 2026-01-02.")
	assert.NotContains(t, out, "{{.")
}

func TestRender_Unfilled(t *testing.T) {
	_, err := Agent().Render("system", map[string]string{"UserName": "Jane"})

	var unfilled *UnfilledError
	require.ErrorAs(t, err, &unfilled)
	assert.Equal(t, []string{"Today", "CurrentStep", "ResumeID", "ScrapedData"}, unfilled.Missing)
}

func TestMustRender_Panics(t *testing.T) {
	assert.Panics(t, func() { Agent().MustRender("max-steps", nil) })
	assert.NotPanics(t, func() { Agent().MustRender("apology", nil) })
}

func TestFormat(t *testing.T) {
	tests := []struct {
		name, tmpl string
		data       map[string]string
		want       string
	}{
		{"fills", "Hello {{.Name}}, welcome to {{.Company}}!", map[string]string{"Name": "Alice", "Company": "Acme"}, "Hello Alice, welcome to Acme!"},
		{"values not re-expanded", "{{.A}} {{.B}}", map[string]string{"A": "{{.B}}", "B": "b"}, "{{.B}} b"},
		{"unknown kept", "{{.A}} {{.Z}}", map[string]string{"A": "a"}, "a {{.Z}}"},
		{"no data", "{{.A}}", nil, "{{.A}}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Format(tt.tmpl, tt.data))
		})
	}
}
