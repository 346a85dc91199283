package orchestration

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/koscakluka/ema-thinking/core/behavior"
	"github.com/koscakluka/ema-thinking/core/clauses"
	"github.com/koscakluka/ema-thinking/core/events"
	"go.opentelemetry.io/otel/attribute"
)

// relayAnswer reads answer clauses as soon as they arrive but holds them back
// until thinkingDone opens. The first released clause announces the handoff;
// the complete answer is spoken once at the end.
func (o *Orchestrator) relayAnswer(
	ctx context.Context,
	t *turn,
	answer *clauses.Segmenter,
	thinkingDone *barrier,
	stopThinking context.CancelCauseFunc,
) error {
	ctx, span := tracer.Start(ctx, "relay answer")
	defer span.End()

	var (
		pending  []string
		released []string
		tier     behavior.Tier
		received int
	)
	release := func() {
		for _, clause := range pending {
			if len(released) == 0 {
				tier = behavior.Resolve(t.plan.ConfidenceHint, answer.WordCount())
				span.SetAttributes(attribute.String("answer.tier", string(tier)))
				t.emit(events.NewAnswerHandoff(t.id, tier))
			}
			t.emit(events.NewAnswerClause(t.id, len(released), clause))
			released = append(released, clause)
		}
		pending = pending[:0]
	}

	for {
		readCtx, cancelRead := ctx, context.CancelFunc(func() {})
		if !thinkingDone.Signalled() {
			readCtx, cancelRead = untilClosed(ctx, thinkingDone.Done())
		}
		clause, err := answer.Next(readCtx)
		cancelRead()

		switch {
		case err == nil:
			received++
			if received == 1 && o.thinkingPolicy.Cancellation == StopOnFirstAnswerClause {
				stopThinking(errStopOnAnswer)
			}
			pending = append(pending, clause)
		case errors.Is(err, io.EOF):
		case ctx.Err() != nil:
			return context.Cause(ctx)
		case readCtx.Err() != nil:
			// Thinking finished while waiting for the next clause.
		default:
			return fmt.Errorf("answer stream failed: %w", err)
		}

		if thinkingDone.Signalled() {
			release()
		}
		if errors.Is(err, io.EOF) {
			break
		}
	}

	if len(pending) > 0 {
		if err := thinkingDone.Wait(ctx); err != nil {
			return err
		}
		release()
	}
	span.SetAttributes(attribute.Int("answer.clauses", len(released)))
	if len(released) == 0 {
		logger.WarnContext(ctx, "answer stream produced no clauses", "turn_id", t.id)
		return nil
	}

	utterance := behavior.Describe(tier).Utterance(strings.Join(released, " "))
	o.speak(ctx, utterance)
	t.setAnswer(tier, utterance)
	t.emit(events.NewAnswerFinal(t.id, tier, utterance))
	t.emit(events.NewNonverbalGesture(t.id, tier))
	return nil
}
