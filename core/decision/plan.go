package decision

import (
	"encoding/json"
	"fmt"
	"strings"
)

// TurnPlan is what the controller model decides about one question.
type TurnPlan struct {
	NeedThinking bool `json:"need_thinking" jsonschema:"description=Whether the robot should think visibly before answering"`
	// ConfidenceHint is one of low, medium or high, or empty.
	ConfidenceHint       string          `json:"confidence" jsonschema:"enum=low,enum=medium,enum=high"`
	ThinkingNotes        Notes           `json:"thinking_notes" jsonschema:"description=Short phrases guiding the visible thinking"`
	ThinkingBehaviorPlan []BehaviorEntry `json:"thinking_behavior_plan" jsonschema:"maxItems=3"`
	ReasoningHint        string          `json:"reasoning_hint"`
	// DirectAnswer is only set when no thinking is needed.
	DirectAnswer string `json:"answer"`
}

// BehaviorEntry is one advisory step of the thinking choreography. It is not
// interpreted here.
type BehaviorEntry struct {
	Gesture    string    `json:"gesture,omitempty"`
	Expression string    `json:"expression,omitempty"`
	LookAt     *Position `json:"look_at,omitempty"`
	Reason     string    `json:"reason,omitempty"`
}

// Position is a head target in meters relative to the robot.
type Position struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Notes accepts either a list of strings or a single string on the wire.
// Empty entries are dropped.
type Notes []string

func (n *Notes) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch value := raw.(type) {
	case nil:
		*n = nil
	case string:
		if note := strings.TrimSpace(value); note != "" {
			*n = Notes{note}
		} else {
			*n = nil
		}
	case []any:
		notes := make(Notes, 0, len(value))
		for _, item := range value {
			if item == nil {
				continue
			}
			note := strings.TrimSpace(fmt.Sprint(item))
			if note == "" {
				continue
			}
			notes = append(notes, note)
		}
		*n = notes
	default:
		return fmt.Errorf("thinking notes must be a string or a list, got %T", raw)
	}
	return nil
}
