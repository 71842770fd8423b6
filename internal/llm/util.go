package llm

import "strings"

// CleanJSONBlock strips markdown code fences and conversational text around
// a JSON payload. Text with no JSON value is returned trimmed and otherwise
// untouched so that the caller's decoder reports the failure.
func CleanJSONBlock(text string) string {
	text = strings.TrimSpace(text)

	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		// optional language tag on the fence line
		if idx := strings.Index(text, "\n"); idx >= 0 {
			tag := text[:idx]
			if len(tag) < 20 && !strings.ContainsAny(tag, " {[") {
				text = text[idx+1:]
			}
		}
		if idx := strings.LastIndex(text, "```"); idx >= 0 {
			text = text[:idx]
		}
		text = strings.TrimSpace(text)
	}

	if text == "" || text[0] == '{' || text[0] == '[' {
		if v := extractJSONValue(text); v != "" {
			return v
		}
		return text
	}

	// preamble: take the first balanced value after it
	start := strings.IndexAny(text, "{[")
	if start < 0 {
		return text
	}
	if v := extractJSONValue(text[start:]); v != "" {
		return v
	}
	return text
}

// extractJSONValue returns the balanced object or array at the start of s,
// or "" when s does not start with one or it never closes.
func extractJSONValue(s string) string {
	if s == "" || (s[0] != '{' && s[0] != '[') {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{', '[':
			depth++
		case '}', ']':
			depth--
			if depth == 0 {
				return s[:i+1]
			}
		}
	}
	return ""
}
