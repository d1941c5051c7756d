package frontmatter

import (
	"bufio"
	"bytes"
	"strings"
)

// ParseLenient reads `key: value` lines without requiring valid YAML.
//
// Supported shapes: scalar values (optionally single or double quoted),
// inline lists `[a, b]`, and block lists where an empty value is followed by
// `- item` lines. Lines without a colon and comment lines are ignored.
func ParseLenient(frontmatter []byte) map[string]any {
	fields := map[string]any{}

	var listKey string
	scanner := bufio.NewScanner(bytes.NewReader(frontmatter))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "#") {
			continue
		}

		if listKey != "" && strings.HasPrefix(trimmed, "- ") {
			items, _ := fields[listKey].([]any)
			fields[listKey] = append(items, unquote(strings.TrimSpace(trimmed[2:])))
			continue
		}
		listKey = ""

		key, value, ok := strings.Cut(trimmed, ":")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		value = strings.TrimSpace(value)

		switch {
		case value == "":
			fields[key] = nil
			listKey = key
		case strings.HasPrefix(value, "[") && strings.HasSuffix(value, "]"):
			fields[key] = parseInlineList(value[1 : len(value)-1])
		default:
			fields[key] = unquote(value)
		}
	}
	return fields
}

func parseInlineList(inner string) []any {
	items := []any{}
	for _, part := range strings.Split(inner, ",") {
		part = unquote(strings.TrimSpace(part))
		if part != "" {
			items = append(items, part)
		}
	}
	return items
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
