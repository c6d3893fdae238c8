package llm

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBalancedObject(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"nested objects", `{"outer": {"inner": "value"}}`, `{"outer": {"inner": "value"}}`},
		{"object with array", `{"items": [1, 2, 3]}`, `{"items": [1, 2, 3]}`},
		{"trailing text", `{"key": "value"} and some more text`, `{"key": "value"}`},
		{"braces inside strings", `{"template": "Hello {name}!"}`, `{"template": "Hello {name}!"}`},
		{"escaped quote", `{"a": "say \"}\""} x`, `{"a": "say \"}\""}`},
		{"unterminated", `{"a": 1`, ""},
		{"empty input", "", ""},
		{"not starting with brace", "not json", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, balancedObject(tt.input))
		})
	}
}

func TestExtractJSONObject(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{
			name:   "bare object",
			input:  `  {"skills": []}  `,
			want:   `{"skills": []}`,
			wantOK: true,
		},
		{
			name:   "fenced block wins over surrounding prose",
			input:  "Sure! {not this}\n```json\n{\"skills\": []}\n```\nThanks",
			want:   `{"skills": []}`,
			wantOK: true,
		},
		{
			name:   "fence without language tag",
			input:  "```\n{\"a\": 1}\n```",
			want:   `{"a": 1}`,
			wantOK: true,
		},
		{
			name:   "balanced object inside prose",
			input:  `Here you go: {"a": "x}y"} trailing {junk}`,
			want:   `{"a": "x}y"}`,
			wantOK: true,
		},
		{
			name:   "unbalanced falls back to first and last brace",
			input:  `prefix {"a": {"b": 1} end`,
			want:   `{"a": {"b": 1}`,
			wantOK: true,
		},
		{
			name:  "prose only",
			input: "I could not find any resume content in this document.",
		},
		{
			name:  "closing brace before opening",
			input: "} nothing {",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ExtractJSONObject(tt.input)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestJSONObjectCandidates(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "prose braces before the payload",
			input: "I found {5} sections.\n{\"a\": 1}",
			want:  []string{`{5}`, "{5} sections.\n{\"a\": 1}", `{"a": 1}`},
		},
		{
			name:  "fenced block first",
			input: "{x}\n```json\n{\"a\": 1}\n```",
			want:  []string{`{"a": 1}`, `{x}`, "{x}\n```json\n{\"a\": 1}"},
		},
		{
			name:  "nested objects are also offered",
			input: `{"a": {"b": 1}}`,
			want:  []string{`{"a": {"b": 1}}`, `{"b": 1}`},
		},
		{
			name:  "no braces",
			input: "nothing here",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, JSONObjectCandidates(tt.input))
		})
	}
}

func TestJSONObjectCandidates_Bounded(t *testing.T) {
	input := strings.Repeat("{x} ", 100)
	assert.LessOrEqual(t, len(JSONObjectCandidates(input)), maxCandidates+1)
}
