package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/koscakluka/ema-thinking/core/clauses"
	"github.com/koscakluka/ema-thinking/core/events"
	"go.opentelemetry.io/otel/attribute"
)

// relayThinking surfaces thinking clauses until the window closes, the cue
// cap is reached or it is asked to stop. Once the stream runs dry the
// remaining window is filled with filler lines. thinkingDone is signalled on
// every way out.
func (o *Orchestrator) relayThinking(ctx context.Context, t *turn, thoughts *clauses.Segmenter, thinkingDone *barrier) error {
	defer thinkingDone.Signal()

	ctx, span := tracer.Start(ctx, "relay thinking")
	defer span.End()

	policy := o.thinkingPolicy
	window, cancel := context.WithTimeout(ctx, policy.Window)
	defer cancel()

	cues := 0
	defer func() {
		span.SetAttributes(attribute.Int("thinking.cues", cues))
		t.emit(events.NewThinkingEnded(t.id, cues))
	}()

	streamEnded := false
	fallbackIndex := 0
	startedAt := time.Now()
relay:
	for cues < policy.MaxCues && window.Err() == nil {
		text, fallback := "", false
		if streamEnded {
			text = policy.FallbackLines[fallbackIndex%len(policy.FallbackLines)]
			fallbackIndex++
			fallback = true
		} else {
			clause, err := thoughts.Next(window)
			switch {
			case err == nil:
				if !isMeaningfulCue(clause) {
					continue
				}
				text = clause
			case errors.Is(err, io.EOF):
				streamEnded = true
				logger.DebugContext(ctx, "thinking stream ended early",
					"turn_id", t.id,
					"elapsed", time.Since(startedAt))
				continue
			case window.Err() != nil:
				break relay
			default:
				return fmt.Errorf("thinking stream failed: %w", err)
			}
		}

		o.surfaceCue(window, t, cues, text, fallback)
		cues++
		if cues < policy.MaxCues && !sleepContext(window, policy.Pause) {
			break
		}
	}

	// Running out of window or being stopped is how thinking normally ends;
	// only a cancelled turn is an error.
	if cause := context.Cause(ctx); cause != nil && !errors.Is(cause, errThinkingStopped) {
		return cause
	}
	return nil
}

func (o *Orchestrator) surfaceCue(ctx context.Context, t *turn, index int, text string, fallback bool) {
	t.addCue(text, fallback)
	t.emit(events.NewThinkingCue(t.id, index, text, fallback))
	if fallback {
		fallbackCuesCounter.Add(ctx, 1)
	} else {
		thinkingCuesCounter.Add(ctx, 1)
	}

	o.speak(ctx, text)
	o.performer.PerformThinking(ctx, index)
}

// isMeaningfulCue drops clauses that are only terminal punctuation.
func isMeaningfulCue(text string) bool {
	return strings.Trim(strings.TrimSpace(text), ".!?…") != ""
}
