package analysis

import "strings"

// extractJSONObject pulls a JSON object out of an LLM response that may
// wrap it in markdown fences or surrounding prose.
func extractJSONObject(response string) string {
	return extractJSON(response, '{', '}')
}

// extractJSONArray pulls a JSON array out of an LLM response.
func extractJSONArray(response string) string {
	return extractJSON(response, '[', ']')
}

func extractJSON(response string, opening, closing byte) string {
	response = stripFences(response)

	start := strings.IndexByte(response, opening)
	if start == -1 {
		return ""
	}

	// Walk to the matching delimiter, skipping string contents.
	depth := 0
	inString := false
	escapeNext := false

	for i := start; i < len(response); i++ {
		char := response[i]

		if escapeNext {
			escapeNext = false
			continue
		}
		if char == '\\' {
			escapeNext = true
			continue
		}
		if char == '"' {
			inString = !inString
			continue
		}
		if inString {
			continue
		}

		switch char {
		case opening:
			depth++
		case closing:
			depth--
			if depth == 0 {
				return response[start : i+1]
			}
		}
	}
	return ""
}

// stripFences unwraps a markdown code block if the response carries one.
func stripFences(response string) string {
	response = strings.TrimSpace(response)

	start := strings.Index(response, "```")
	if start == -1 {
		return response
	}
	start += 3
	// Skip an optional language tag such as "json".
	if newline := strings.IndexByte(response[start:], '\n'); newline != -1 {
		firstLine := strings.TrimSpace(response[start : start+newline])
		if firstLine == "" || firstLine == "json" {
			start += newline + 1
		}
	}
	end := strings.Index(response[start:], "```")
	if end == -1 {
		return response
	}
	return strings.TrimSpace(response[start : start+end])
}
