package agent

// JSON Schema builders for tool parameters. Every object rejects unknown keys.

func object(props map[string]any, required ...string) map[string]any {
	schema := map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func str(description string, maxLen int) map[string]any {
	return map[string]any{"type": "string", "description": description, "maxLength": maxLen}
}

func requiredStr(description string, maxLen int) map[string]any {
	s := str(description, maxLen)
	s["minLength"] = 1
	return s
}

func date(description string) map[string]any {
	return map[string]any{
		"type":        "string",
		"description": description + " (YYYY-MM-DD)",
		"pattern":     `^\d{4}-\d{2}-\d{2}$`,
	}
}

func nullableDate(description string) map[string]any {
	s := date(description)
	s["type"] = []any{"string", "null"}
	return s
}

func nullableStr(description string, maxLen int) map[string]any {
	s := str(description, maxLen)
	s["type"] = []any{"string", "null"}
	return s
}

func year(description string) map[string]any {
	return map[string]any{"type": "integer", "description": description, "minimum": 1900, "maximum": 2100}
}

func nullableYear(description string) map[string]any {
	s := year(description)
	s["type"] = []any{"integer", "null"}
	return s
}

func stringList(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"description": description,
		"items":       map[string]any{"type": "string", "maxLength": 100},
		"maxItems":    50,
	}
}

func enum(description string, values ...string) map[string]any {
	return map[string]any{"type": "string", "description": description, "enum": values}
}

func recordID(resource string) map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Id of the " + resource + " as returned by list_profile",
		"format":      "uuid",
	}
}
