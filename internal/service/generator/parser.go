package generator

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var errNoQuestions = errors.New("no questions found in response")

var listMarker = regexp.MustCompile(`^(?:[-*•]\s*|\d+\s*[.)]\s*)+`)

// ParseQuestions extracts a question list from a raw model response. Attempts
// run in order of preference: a JSON object with a "questions" field, then the
// first bracketed span as a JSON array, then line-based extraction. The first
// success wins and is truncated to limit.
func ParseQuestions(raw string, limit int) ([]string, error) {
	cleaned := stripCodeFences(raw)

	if questions, ok := parseQuestionsObject(cleaned); ok {
		return truncate(questions, limit), nil
	}

	if questions, ok := parseBracketSpan(cleaned); ok {
		return truncate(questions, limit), nil
	}

	questions := parseLines(cleaned)
	if len(questions) == 0 {
		return nil, errNoQuestions
	}
	return truncate(questions, limit), nil
}

// parseQuestionsObject tries the whole response as {"questions": [...]}.
func parseQuestionsObject(raw string) ([]string, bool) {
	var payload struct {
		Questions []string `json:"questions"`
	}
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, false
	}
	if len(payload.Questions) == 0 {
		return nil, false
	}
	return compact(payload.Questions), true
}

// parseBracketSpan tries the span between the first '[' and the last ']' as a
// JSON string array.
func parseBracketSpan(raw string) ([]string, bool) {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end <= start {
		return nil, false
	}

	var questions []string
	if err := json.Unmarshal([]byte(raw[start:end+1]), &questions); err != nil {
		return nil, false
	}
	if len(questions) == 0 {
		return nil, false
	}
	return compact(questions), true
}

// parseLines splits the response into lines, dropping blanks and stripping
// bullet and numeric list markers.
func parseLines(raw string) []string {
	var questions []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		line = listMarker.ReplaceAllString(line, "")
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		questions = append(questions, line)
	}
	return questions
}

// stripCodeFences removes markdown ```json fences models like to wrap JSON in.
func stripCodeFences(raw string) string {
	cleaned := strings.TrimSpace(raw)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	return strings.TrimSpace(cleaned)
}

func compact(questions []string) []string {
	result := questions[:0]
	for _, q := range questions {
		if q = strings.TrimSpace(q); q != "" {
			result = append(result, q)
		}
	}
	return result
}

func truncate(questions []string, limit int) []string {
	if limit > 0 && len(questions) > limit {
		return questions[:limit]
	}
	return questions
}
