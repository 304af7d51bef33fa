package utils

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSONFound is returned when no valid JSON object/array is found in
// the input.
var ErrNoJSONFound = errors.New("no valid JSON object or array found in response")

// ExtractJSON pulls a valid JSON document out of model output that may be
// wrapped in markdown fences or surrounded by prose. It tries, in order:
// stripped code fences, bracket-matched extraction, the whole cleaned
// string, and finally a first-to-last brace scan.
func ExtractJSON(response string) (string, error) {
	if response == "" {
		return "", ErrNoJSONFound
	}

	cleaned := stripFences(response)

	if candidate := matchBrackets(cleaned); candidate != "" && json.Valid([]byte(candidate)) {
		return candidate, nil
	}

	if json.Valid([]byte(cleaned)) {
		return cleaned, nil
	}

	if candidate := widestSpan(response); candidate != "" && json.Valid([]byte(candidate)) {
		return candidate, nil
	}

	return "", fmt.Errorf("%w: response length=%d", ErrNoJSONFound, len(response))
}

// ExtractJSONTo extracts JSON from the response and unmarshals it into
// target.
func ExtractJSONTo(response string, target interface{}) error {
	jsonStr, err := ExtractJSON(response)
	if err != nil {
		return err
	}
	return json.Unmarshal([]byte(jsonStr), target)
}

// stripFences removes markdown code block wrappers.
func stripFences(s string) string {
	s = strings.TrimSpace(s)

	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}

// matchBrackets finds the first complete {...} or [...] span by depth
// counting, respecting string literals and escapes.
func matchBrackets(s string) string {
	startObj := strings.Index(s, "{")
	startArr := strings.Index(s, "[")

	var start int
	var openChar, closeChar byte

	switch {
	case startObj == -1 && startArr == -1:
		return ""
	case startArr == -1 || (startObj != -1 && startObj < startArr):
		start, openChar, closeChar = startObj, '{', '}'
	default:
		start, openChar, closeChar = startArr, '[', ']'
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(s); i++ {
		c := s[i]

		if escaped {
			escaped = false
			continue
		}
		if c == '\\' && inString {
			escaped = true
			continue
		}
		if c == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		if c == openChar {
			depth++
		} else if c == closeChar {
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}

	return ""
}

// widestSpan takes everything between the first opening and last closing
// brace/bracket, for responses with trailing prose after valid JSON.
func widestSpan(s string) string {
	if first, last := strings.Index(s, "{"), strings.LastIndex(s, "}"); first != -1 && last > first {
		if candidate := s[first : last+1]; json.Valid([]byte(candidate)) {
			return candidate
		}
	}
	if first, last := strings.Index(s, "["), strings.LastIndex(s, "]"); first != -1 && last > first {
		if candidate := s[first : last+1]; json.Valid([]byte(candidate)) {
			return candidate
		}
	}
	return ""
}
