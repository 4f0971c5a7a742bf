package plan

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
)

// ErrParse indicates the model response could not be decoded as JSON.
var ErrParse = fmt.Errorf("plan response is not valid JSON")

// ErrInvalidShape indicates the decoded response is missing the required
// workout and diet sections.
var ErrInvalidShape = fmt.Errorf("plan response is missing workout or diet")

// ParsePlanResponse parses raw model output into a canonical Plan.
// Markdown code fences are stripped and, when the text is not pure JSON,
// the substring from the first '{' to the last '}' is used. Generative
// output is not contractually reliable; callers that must always produce a
// plan should use ParseOrFallback instead of handling the error themselves.
func ParsePlanResponse(raw string) (*Plan, error) {
	text := strings.TrimSpace(raw)
	text = strings.ReplaceAll(text, "```json", "")
	text = strings.ReplaceAll(text, "```", "")
	text = strings.TrimSpace(text)

	if !json.Valid([]byte(text)) {
		start := strings.Index(text, "{")
		end := strings.LastIndex(text, "}")
		if start < 0 || end <= start {
			return nil, fmt.Errorf("%w: no JSON object found", ErrParse)
		}
		text = text[start : end+1]
	}

	var value map[string]interface{}
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParse, err)
	}

	if _, ok := value["workout"]; !ok {
		return nil, ErrInvalidShape
	}
	if _, ok := value["diet"]; !ok {
		return nil, ErrInvalidShape
	}

	return NormalizeValue(value), nil
}

// ParseOrFallback parses raw model output and substitutes the fixed fallback
// plan on any failure. The offending text is logged for diagnostics; the
// error never reaches the caller.
func ParseOrFallback(raw string) *Plan {
	p, err := ParsePlanResponse(raw)
	if err != nil {
		slog.Error("Failed to parse plan response, substituting fallback",
			"error", err,
			"response", raw)
		return FallbackPlan()
	}
	return p
}
