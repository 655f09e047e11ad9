package llm

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// trailingCommaRegex matches a trailing comma before a closing bracket.
var trailingCommaRegex = regexp.MustCompile(`,\s*([\]}])`)

// StripFences removes a surrounding markdown code fence from LLM output.
// Handles ```json, ```python, and bare ``` fences. Returns the input
// trimmed when no fence is present.
func StripFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if !strings.HasPrefix(cleaned, "```") {
		return cleaned
	}

	lines := strings.Split(cleaned, "\n")
	if len(lines) < 2 {
		return cleaned
	}

	// Drop the opening fence line (```json, ```python, or bare ```)
	body := lines[1:]

	// Drop the closing fence when present
	if strings.TrimSpace(body[len(body)-1]) == "```" {
		body = body[:len(body)-1]
	}

	return strings.TrimSpace(strings.Join(body, "\n"))
}

// ParseResponse parses LLM output that should be JSON into target. The
// output may be wrapped in a markdown code fence, and models occasionally
// emit Python-style literals instead of JSON (single quotes, True/False/None,
// trailing commas), so a tolerant second pass converts those before giving up.
func ParseResponse(raw string, target interface{}) error {
	cleaned := StripFences(raw)
	if cleaned == "" {
		return fmt.Errorf("empty LLM output")
	}

	jsonErr := json.Unmarshal([]byte(cleaned), target)
	if jsonErr == nil {
		return nil
	}

	if err := json.Unmarshal([]byte(literalToJSON(cleaned)), target); err == nil {
		return nil
	}

	return fmt.Errorf("failed to parse LLM output as JSON: %w", jsonErr)
}

// literalToJSON rewrites a Python literal into JSON: single-quoted strings
// become double-quoted, True/False/None become true/false/null, and
// trailing commas are removed. String contents are preserved.
func literalToJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inSingle, inDouble := false, false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		switch {
		case inSingle:
			switch {
			case ch == '\\' && i+1 < len(s):
				// An escaped single quote needs no escape in JSON
				if s[i+1] == '\'' {
					b.WriteByte('\'')
				} else {
					b.WriteByte(ch)
					b.WriteByte(s[i+1])
				}
				i++
			case ch == '\'':
				b.WriteByte('"')
				inSingle = false
			case ch == '"':
				b.WriteString(`\"`)
			default:
				b.WriteByte(ch)
			}
		case inDouble:
			if ch == '\\' && i+1 < len(s) {
				b.WriteByte(ch)
				b.WriteByte(s[i+1])
				i++
			} else {
				if ch == '"' {
					inDouble = false
				}
				b.WriteByte(ch)
			}
		default:
			switch {
			case ch == '\'':
				b.WriteByte('"')
				inSingle = true
			case ch == '"':
				b.WriteByte(ch)
				inDouble = true
			case ch == 'T' && strings.HasPrefix(s[i:], "True"):
				b.WriteString("true")
				i += 3
			case ch == 'F' && strings.HasPrefix(s[i:], "False"):
				b.WriteString("false")
				i += 4
			case ch == 'N' && strings.HasPrefix(s[i:], "None"):
				b.WriteString("null")
				i += 3
			default:
				b.WriteByte(ch)
			}
		}
	}

	return trailingCommaRegex.ReplaceAllString(b.String(), "$1")
}
