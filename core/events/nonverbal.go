package events

import "github.com/koscakluka/ema-thinking/core/behavior"

const KindNonverbalGesture Kind = "nonverbal.gesture"

type NonverbalGesture struct {
	Base
	Tier       behavior.Tier
	Gesture    behavior.Gesture
	Expression behavior.Expression
	LEDColor   string
}

func NewNonverbalGesture(turnID string, tier behavior.Tier) NonverbalGesture {
	descriptor := behavior.Describe(tier)
	return NonverbalGesture{
		Base:       NewBase(KindNonverbalGesture, turnID),
		Tier:       tier,
		Gesture:    descriptor.Gesture,
		Expression: descriptor.Expression,
		LEDColor:   descriptor.LEDColor,
	}
}
