package llm

import "strings"

// maxCandidates bounds how many object positions JSONObjectCandidates tries
const maxCandidates = 32

// ExtractJSONObject isolates a single JSON object from free-form model output.
// It returns the first of JSONObjectCandidates, or "" and false if no
// object-shaped text is present.
func ExtractJSONObject(text string) (string, bool) {
	candidates := JSONObjectCandidates(text)
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[0], true
}

// JSONObjectCandidates lists object-shaped spans of model output in the order
// they should be tried: the body of a fenced code block, the balanced object
// (string aware) at the first '{', the span from the first '{' to the last '}',
// and then the balanced object at each later '{'. Callers pick the first
// candidate they can use.
func JSONObjectCandidates(text string) []string {
	text = strings.TrimSpace(text)

	var out []string
	seen := map[string]bool{}
	add := func(c string) {
		if c != "" && !seen[c] {
			seen[c] = true
			out = append(out, c)
		}
	}

	if fenced, ok := fencedBlock(text); ok && strings.HasPrefix(fenced, "{") {
		if obj := balancedObject(fenced); obj != "" {
			add(obj)
		} else {
			add(fenced)
		}
	}

	start := strings.Index(text, "{")
	if start < 0 {
		return out
	}
	add(balancedObject(text[start:]))
	if end := strings.LastIndex(text, "}"); end > start {
		add(text[start : end+1])
	}

	tried := 1
	for i := start + 1; i < len(text) && tried < maxCandidates; i++ {
		if text[i] == '{' {
			tried++
			add(balancedObject(text[i:]))
		}
	}
	return out
}

// fencedBlock returns the body of a ``` fenced block if text contains one
func fencedBlock(text string) (string, bool) {
	open := strings.Index(text, "```")
	if open < 0 {
		return "", false
	}
	body := text[open+3:]
	// Skip potential language identifier on first line
	if idx := strings.Index(body, "\n"); idx >= 0 {
		firstLine := strings.TrimSpace(body[:idx])
		if len(firstLine) < 20 && !strings.Contains(firstLine, " ") && !strings.ContainsAny(firstLine, "{[") {
			body = body[idx+1:]
		}
	}
	closing := strings.Index(body, "```")
	if closing < 0 {
		return "", false
	}
	return strings.TrimSpace(body[:closing]), true
}

// balancedObject returns the object at the start of s, ignoring braces inside strings
func balancedObject(s string) string {
	if s == "" || s[0] != '{' {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
