package decision

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode"
)

// ParseError is returned when the controller's reply is not a single JSON
// object once code fences are removed.
type ParseError struct {
	Body string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("decision parse error: %v", e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParsePlan reads a TurnPlan from a controller reply. A surrounding fenced
// code block (``` or ```json) is removed first.
func ParsePlan(body string) (TurnPlan, error) {
	text := stripFences(body)
	if !strings.HasPrefix(text, "{") {
		return TurnPlan{}, &ParseError{Body: body, Err: fmt.Errorf("expected a JSON object")}
	}

	var plan TurnPlan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		return TurnPlan{}, &ParseError{Body: body, Err: err}
	}

	plan.ConfidenceHint = strings.ToLower(strings.TrimSpace(plan.ConfidenceHint))
	plan.ReasoningHint = strings.TrimSpace(plan.ReasoningHint)
	plan.DirectAnswer = strings.TrimSpace(plan.DirectAnswer)
	return plan, nil
}

func stripFences(body string) string {
	text := strings.TrimSpace(body)
	if !strings.HasPrefix(text, "```") {
		return text
	}

	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	// Info string, e.g. "json".
	text = strings.TrimLeftFunc(strings.TrimSpace(text), unicode.IsLetter)
	return strings.TrimSpace(text)
}
