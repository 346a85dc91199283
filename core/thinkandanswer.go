package orchestration

import (
	"context"
	"errors"
	"fmt"

	"github.com/koscakluka/ema-thinking/core/clauses"
	"github.com/koscakluka/ema-thinking/core/events"
	"golang.org/x/sync/errgroup"
)

// thinkAndAnswer streams the thinking and the answer generation at the same
// time. Thinking is relayed in the background while the answer is relayed
// here; the thinking relay is always joined before returning.
func (o *Orchestrator) thinkAndAnswer(ctx context.Context, t *turn) error {
	ctx, span := tracer.Start(ctx, "think and answer")
	defer span.End()

	thinkingPromptText, err := buildThinkingPrompt(t.question, t.plan.ThinkingNotes)
	if err != nil {
		return fmt.Errorf("failed to build thinking prompt: %w", err)
	}
	reasoningPromptText, err := buildReasoningPrompt(t.question, t.plan.ReasoningHint)
	if err != nil {
		return fmt.Errorf("failed to build reasoning prompt: %w", err)
	}

	thoughts := clauses.New(
		o.llm.PromptWithStream(ctx, thinkingPromptText, o.thinkingRole.promptOptions(thinkingSystemPrompt)...),
		clauses.WithName("thinking"),
		clauses.WithWordCountCallback(t.setThinkingWords),
	)
	defer thoughts.Close()
	answer := clauses.New(
		o.llm.PromptWithStream(ctx, reasoningPromptText, o.reasoningRole.promptOptions(reasoningSystemPrompt)...),
		clauses.WithName("answer"),
	)
	defer answer.Close()

	thoughts.Start(ctx)
	answer.Start(ctx)

	o.forwardBehaviorPlan(ctx, t)
	t.emit(events.NewThinkingStarted(t.id, t.plan.ThinkingBehaviorPlan))

	thinkingDone := newBarrier()
	thinkingCtx, stopThinking := context.WithCancelCause(ctx)
	defer stopThinking(nil)
	answerCtx, cancelAnswer := context.WithCancelCause(ctx)
	defer cancelAnswer(nil)

	var group errgroup.Group
	group.Go(func() error {
		err := panicSafeNamedWorker("thinking relay", func(ctx context.Context) error {
			return o.relayThinking(ctx, t, thoughts, thinkingDone)
		})(thinkingCtx)
		if err != nil {
			// Make sure the barrier opens even if the relay never got to it.
			thinkingDone.Signal()
			cancelAnswer(err)
		}
		return err
	})

	answerErr := panicSafeNamedWorker("answer relay", func(ctx context.Context) error {
		return o.relayAnswer(ctx, t, answer, thinkingDone, stopThinking)
	})(answerCtx)
	if answerErr != nil {
		stopThinking(errAnswerFailed)
	}

	thinkingErr := group.Wait()
	if thinkingErr != nil && answerErr != nil && errors.Is(answerErr, thinkingErr) {
		// The answer relay only stopped because thinking failed.
		answerErr = nil
	}
	if err := errors.Join(thinkingErr, answerErr); err != nil {
		span.RecordError(err)
		return err
	}
	return nil
}
