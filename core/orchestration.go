package orchestration

import (
	"context"
	"errors"
	"fmt"

	"github.com/koscakluka/ema-thinking/core/actuation"
	"github.com/koscakluka/ema-thinking/core/behavior"
	"github.com/koscakluka/ema-thinking/core/events"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
)

const fallbackDirectAnswer = "I'm sorry, I can't provide an answer at the moment."

// Orchestrator runs question-to-answer turns. It holds no per-turn state, so
// one orchestrator can run several turns, also concurrently.
type Orchestrator struct {
	decider   Decider
	llm       LLMWithStream
	actuator  actuation.Actuator
	performer *behavior.Performer

	thinkingRole   Role
	reasoningRole  Role
	thinkingPolicy ThinkingPolicy
}

func NewOrchestrator(opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		thinkingPolicy: DefaultThinkingPolicy(),
	}
	for _, opt := range opts {
		opt(o)
	}

	if o.performer == nil && o.actuator != nil {
		o.performer = behavior.NewPerformer(o.actuator)
	}

	return o
}

// RunTurn decides how to handle question and then either answers directly or
// shows visible thinking while the answer streams in. It returns once all
// work of the turn has finished.
//
// Transport and decision failures end the turn and are returned. Failed
// actuation calls are logged and the turn goes on.
func (o *Orchestrator) RunTurn(ctx context.Context, question string, opts ...TurnOption) (TurnResult, error) {
	if o.decider == nil {
		return TurnResult{}, ErrDeciderNotConfigured
	}

	options := TurnOptions{}
	for _, opt := range opts {
		opt(&options)
	}

	t := newTurn(question, newSerialEventEmitter(options.onEvent))

	ctx, span := tracer.Start(ctx, "run turn")
	defer span.End()
	span.SetAttributes(attribute.String("turn.id", t.id))

	fail := func(path string, err error) (TurnResult, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		turnsCounter.Add(ctx, 1, metric.WithAttributes(
			attribute.String("path", path),
			attribute.String("outcome", "failed"),
		))
		t.emit(events.NewTurnFailed(t.id, err))
		return t.result(), err
	}

	t.emit(events.NewTurnStarted(t.id, question))

	plan, err := o.decider.Decide(ctx, question)
	if err != nil {
		return fail("decision", fmt.Errorf("failed to decide turn: %w", err))
	}
	t.setPlan(plan)
	span.SetAttributes(attribute.Bool("turn.need_thinking", plan.NeedThinking))

	path := "direct"
	if !plan.NeedThinking {
		t.transition(events.TurnStateDirectAnswer)
		o.answerDirectly(ctx, t)
	} else {
		path = "thinking"
		if o.llm == nil {
			return fail(path, ErrLLMNotConfigured)
		}
		t.transition(events.TurnStateThinkingAndAnswering)
		if err := o.thinkAndAnswer(ctx, t); err != nil {
			return fail(path, err)
		}
	}

	t.transition(events.TurnStateDone)
	t.emit(events.NewTurnCompleted(t.id))
	turnsCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("path", path),
		attribute.String("outcome", "completed"),
	))
	return t.result(), nil
}

func (o *Orchestrator) answerDirectly(ctx context.Context, t *turn) {
	ctx, span := tracer.Start(ctx, "answer directly")
	defer span.End()

	answer := t.plan.DirectAnswer
	if answer == "" {
		answer = fallbackDirectAnswer
	}
	tier, ok := behavior.ParseTier(t.plan.ConfidenceHint)
	if !ok {
		tier = behavior.InferTier(answer)
	}
	utterance := behavior.Describe(tier).Utterance(answer)
	if !ok && tier != behavior.TierMedium {
		// The answer hedges or asserts on its own.
		utterance = answer
	}
	span.SetAttributes(attribute.String("answer.tier", string(tier)))

	o.speak(ctx, utterance)
	t.setAnswer(tier, utterance)
	t.emit(events.NewDirectAnswer(t.id, tier, utterance))
	t.emit(events.NewNonverbalGesture(t.id, tier))
}

// speak is best effort: a failure is logged and counted.
func (o *Orchestrator) speak(ctx context.Context, text string) {
	if o.actuator == nil {
		return
	}
	if err := actuation.Wrap("speak", o.actuator.Speak(ctx, text)); err != nil {
		actuationFailuresCounter.Add(ctx, 1)
		logger.WarnContext(ctx, "failed to speak", "error", err)
	}
}

func (o *Orchestrator) forwardBehaviorPlan(ctx context.Context, t *turn) {
	planner, ok := o.actuator.(actuation.BehaviorPlanner)
	if !ok || len(t.plan.ThinkingBehaviorPlan) == 0 {
		return
	}
	if err := planner.PlanBehavior(ctx, t.plan.ThinkingBehaviorPlan); err != nil {
		var actuationErr *actuation.Error
		if !errors.As(err, &actuationErr) {
			err = actuation.Wrap("plan behavior", err)
		}
		actuationFailuresCounter.Add(ctx, 1)
		logger.WarnContext(ctx, "failed to forward behavior plan", "error", err)
	}
}
