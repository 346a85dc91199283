package events

import "github.com/koscakluka/ema-thinking/core/behavior"

const (
	KindAnswerHandoff Kind = "answer.handoff"
	KindAnswerClause  Kind = "answer.clause"
	KindAnswerFinal   Kind = "answer.final"
	KindDirectAnswer  Kind = "answer.direct"
)

type AnswerHandoff struct {
	Base
	Tier       behavior.Tier
	Descriptor behavior.Descriptor
}

func NewAnswerHandoff(turnID string, tier behavior.Tier) AnswerHandoff {
	return AnswerHandoff{Base: NewBase(KindAnswerHandoff, turnID), Tier: tier, Descriptor: behavior.Describe(tier)}
}

type AnswerClause struct {
	Base
	Index  int
	Clause string
}

func NewAnswerClause(turnID string, index int, clause string) AnswerClause {
	return AnswerClause{Base: NewBase(KindAnswerClause, turnID), Index: index, Clause: clause}
}

// AnswerFinal carries the utterance as it was handed to the actuator,
// verbal prefix included.
type AnswerFinal struct {
	Base
	Tier      behavior.Tier
	Utterance string
}

func NewAnswerFinal(turnID string, tier behavior.Tier, utterance string) AnswerFinal {
	return AnswerFinal{Base: NewBase(KindAnswerFinal, turnID), Tier: tier, Utterance: utterance}
}

type DirectAnswer struct {
	Base
	Tier      behavior.Tier
	Utterance string
}

func NewDirectAnswer(turnID string, tier behavior.Tier, utterance string) DirectAnswer {
	return DirectAnswer{Base: NewBase(KindDirectAnswer, turnID), Tier: tier, Utterance: utterance}
}
