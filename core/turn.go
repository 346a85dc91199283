package orchestration

import (
	"slices"
	"sync"

	"github.com/google/uuid"
	"github.com/koscakluka/ema-thinking/core/behavior"
	"github.com/koscakluka/ema-thinking/core/decision"
	"github.com/koscakluka/ema-thinking/core/events"
)

// TurnResult summarises a finished (or failed) turn.
type TurnResult struct {
	ID    string
	Plan  decision.TurnPlan
	State events.TurnState
	Tier  behavior.Tier
	// Utterance is the answer text handed to the actuator, verbal prefix
	// included. Empty when nothing was said.
	Utterance    string
	ThinkingCues []string
	FallbackCues int
	// ThinkingWords is how much of the thinking stream arrived before it
	// ended or was stopped.
	ThinkingWords int
}

type turn struct {
	id       string
	question string
	emit     eventEmitter

	mu            sync.Mutex
	plan          decision.TurnPlan
	state         events.TurnState
	tier          behavior.Tier
	utterance     string
	thinkingCues  []string
	fallbackCues  int
	thinkingWords int
}

func newTurn(question string, emit eventEmitter) *turn {
	return &turn{
		id:       uuid.NewString(),
		question: question,
		emit:     emit,
		state:    events.TurnStateDeciding,
	}
}

func (t *turn) setPlan(plan decision.TurnPlan) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.plan = plan
}

func (t *turn) transition(to events.TurnState) {
	t.mu.Lock()
	from := t.state
	t.state = to
	t.mu.Unlock()

	t.emit(events.NewTurnStateChanged(t.id, from, to))
}

func (t *turn) addCue(text string, fallback bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.thinkingCues = append(t.thinkingCues, text)
	if fallback {
		t.fallbackCues++
	}
}

func (t *turn) setThinkingWords(count int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.thinkingWords = count
}

func (t *turn) setAnswer(tier behavior.Tier, utterance string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.tier = tier
	t.utterance = utterance
}

func (t *turn) result() TurnResult {
	t.mu.Lock()
	defer t.mu.Unlock()
	return TurnResult{
		ID:            t.id,
		Plan:          t.plan,
		State:         t.state,
		Tier:          t.tier,
		Utterance:     t.utterance,
		ThinkingCues:  slices.Clone(t.thinkingCues),
		FallbackCues:  t.fallbackCues,
		ThinkingWords: t.thinkingWords,
	}
}
