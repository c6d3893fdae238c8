// Package rendering turns a loaded profile into resume documents.
package rendering

import (
	"strings"
	"unicode"
)

// Text is LaTeX-safe content. Only EscapeText produces it from user input.
type Text string

// EscapeText escapes user content for insertion into a LaTeX template
func EscapeText(s string) Text {
	return Text(EscapeLaTeX(s))
}

var latexSpecials = map[rune]string{
	'\\': `\textbackslash{}`,
	'{':  `\{`,
	'}':  `\}`,
	'$':  `\$`,
	'&':  `\&`,
	'%':  `\%`,
	'#':  `\#`,
	'_':  `\_`,
	'^':  `\textasciicircum{}`,
	'~':  `\textasciitilde{}`,
}

// EscapeLaTeX makes text safe for a LaTeX body. The ten special characters
// are replaced with their escaped forms and control characters other than
// newline and tab are dropped.
func EscapeLaTeX(text string) string {
	if !needsEscape(text) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + len(text)/2)
	for _, r := range text {
		if esc, ok := latexSpecials[r]; ok {
			b.WriteString(esc)
			continue
		}
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func needsEscape(text string) bool {
	for _, r := range text {
		if _, ok := latexSpecials[r]; ok {
			return true
		}
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return true
		}
	}
	return false
}
