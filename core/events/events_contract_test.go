package events

import (
	"errors"
	"testing"

	"github.com/koscakluka/ema-thinking/core/behavior"
)

func TestConstructorsEmitExpectedKinds(t *testing.T) {
	testCases := []struct {
		name     string
		event    Event
		expected Kind
	}{
		{name: "turn started", event: NewTurnStarted("t", "q"), expected: KindTurnStarted},
		{name: "turn state changed", event: NewTurnStateChanged("t", TurnStateDeciding, TurnStateDone), expected: KindTurnStateChanged},
		{name: "turn completed", event: NewTurnCompleted("t"), expected: KindTurnCompleted},
		{name: "turn failed", event: NewTurnFailed("t", errors.New("boom")), expected: KindTurnFailed},
		{name: "thinking started", event: NewThinkingStarted("t", nil), expected: KindThinkingStarted},
		{name: "thinking cue", event: NewThinkingCue("t", 0, "hmm", false), expected: KindThinkingCue},
		{name: "thinking ended", event: NewThinkingEnded("t", 1), expected: KindThinkingEnded},
		{name: "answer handoff", event: NewAnswerHandoff("t", behavior.TierHigh), expected: KindAnswerHandoff},
		{name: "answer clause", event: NewAnswerClause("t", 0, "clause"), expected: KindAnswerClause},
		{name: "answer final", event: NewAnswerFinal("t", behavior.TierHigh, "text"), expected: KindAnswerFinal},
		{name: "direct answer", event: NewDirectAnswer("t", behavior.TierHigh, "text"), expected: KindDirectAnswer},
		{name: "nonverbal gesture", event: NewNonverbalGesture("t", behavior.TierHigh), expected: KindNonverbalGesture},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			if got := testCase.event.Kind(); got != testCase.expected {
				t.Fatalf("expected kind %q, got %q", testCase.expected, got)
			}
			if got := testCase.event.TurnID(); got != "t" {
				t.Fatalf("expected turn id t, got %q", got)
			}
			if testCase.event.Timestamp().IsZero() {
				t.Fatalf("expected timestamp to be set")
			}
		})
	}
}

func TestNonverbalGestureCarriesTierDescriptor(t *testing.T) {
	event := NewNonverbalGesture("t", behavior.TierLow)

	if event.Gesture != behavior.GestureShakeSlightly {
		t.Fatalf("expected slight head shake, got %v", event.Gesture)
	}
	if event.Expression != behavior.ExpressionOh {
		t.Fatalf("expected Oh expression, got %q", event.Expression)
	}
	if event.LEDColor != "yellow" {
		t.Fatalf("expected yellow LED, got %q", event.LEDColor)
	}
}
