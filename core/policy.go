package orchestration

import "time"

// Cancellation decides what happens to visible thinking once the answer
// stream produces its first clause.
type Cancellation int

const (
	// RunToDeadline keeps thinking until the window or the cue cap is used up.
	RunToDeadline Cancellation = iota
	// StopOnFirstAnswerClause ends thinking as soon as the first answer clause
	// arrives.
	StopOnFirstAnswerClause
)

func (c Cancellation) String() string {
	switch c {
	case StopOnFirstAnswerClause:
		return "stop_on_first_answer_clause"
	default:
		return "run_to_deadline"
	}
}

const (
	defaultThinkingWindow = 10 * time.Second
	defaultMaxCues        = 12
	defaultCuePause       = 500 * time.Millisecond
)

var defaultFallbackLines = []string{
	"Let me think this through.",
	"I'm weighing a couple of options.",
	"Checking what I already know.",
	"Almost ready with an answer.",
	"Considering how this fits your question.",
}

type ThinkingPolicy struct {
	// Window bounds the wall-clock time of visible thinking.
	Window time.Duration
	// MaxCues caps the number of surfaced cues, fillers included.
	MaxCues int
	// Pause is waited after every cue.
	Pause        time.Duration
	Cancellation Cancellation
	// FallbackLines are cycled once the thinking stream ends before the
	// window does.
	FallbackLines []string
}

func DefaultThinkingPolicy() ThinkingPolicy {
	return ThinkingPolicy{
		Window:        defaultThinkingWindow,
		MaxCues:       defaultMaxCues,
		Pause:         defaultCuePause,
		Cancellation:  RunToDeadline,
		FallbackLines: defaultFallbackLines,
	}
}

func (p ThinkingPolicy) withDefaults() ThinkingPolicy {
	if p.Window <= 0 {
		p.Window = defaultThinkingWindow
	}
	if p.MaxCues <= 0 {
		p.MaxCues = defaultMaxCues
	}
	if p.Pause < 0 {
		p.Pause = 0
	}
	if len(p.FallbackLines) == 0 {
		p.FallbackLines = defaultFallbackLines
	}
	return p
}
