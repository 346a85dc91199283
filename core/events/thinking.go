package events

import "github.com/koscakluka/ema-thinking/core/decision"

const (
	KindThinkingStarted Kind = "thinking.started"
	KindThinkingCue     Kind = "thinking.cue"
	KindThinkingEnded   Kind = "thinking.ended"
)

type ThinkingStarted struct {
	Base
	Plan []decision.BehaviorEntry
}

func NewThinkingStarted(turnID string, plan []decision.BehaviorEntry) ThinkingStarted {
	return ThinkingStarted{Base: NewBase(KindThinkingStarted, turnID), Plan: plan}
}

// ThinkingCue is one surfaced thinking line. Fallback is set for filler lines
// used after the thinking stream ran dry.
type ThinkingCue struct {
	Base
	Index    int
	Text     string
	Fallback bool
}

func NewThinkingCue(turnID string, index int, text string, fallback bool) ThinkingCue {
	return ThinkingCue{Base: NewBase(KindThinkingCue, turnID), Index: index, Text: text, Fallback: fallback}
}

type ThinkingEnded struct {
	Base
	Cues int
}

func NewThinkingEnded(turnID string, cues int) ThinkingEnded {
	return ThinkingEnded{Base: NewBase(KindThinkingEnded, turnID), Cues: cues}
}
