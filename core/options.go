package orchestration

import (
	"context"

	"github.com/koscakluka/ema-thinking/core/actuation"
	"github.com/koscakluka/ema-thinking/core/behavior"
	"github.com/koscakluka/ema-thinking/core/decision"
	"github.com/koscakluka/ema-thinking/core/events"
	"github.com/koscakluka/ema-thinking/core/llms"
)

type OrchestratorOption func(*Orchestrator)

type Decider interface {
	Decide(ctx context.Context, question string) (decision.TurnPlan, error)
}

type LLMWithStream interface {
	PromptWithStream(ctx context.Context, prompt string, opts ...llms.StreamingPromptOption) llms.Stream
}

func WithDecider(decider Decider) OrchestratorOption {
	return func(o *Orchestrator) {
		o.decider = decider
	}
}

func WithStreamingLLM(client LLMWithStream) OrchestratorOption {
	return func(o *Orchestrator) {
		o.llm = client
	}
}

// WithActuator sets where speech goes. Unless WithPerformer is used, thinking
// behaviour is performed on the same actuator.
func WithActuator(actuator actuation.Actuator) OrchestratorOption {
	return func(o *Orchestrator) {
		o.actuator = actuator
	}
}

func WithPerformer(performer *behavior.Performer) OrchestratorOption {
	return func(o *Orchestrator) {
		o.performer = performer
	}
}

// Role is the model configuration of one of the two streamed generations.
// Empty fields fall back to the client's defaults.
type Role struct {
	Model       string
	Temperature *float64
}

func (r Role) promptOptions(systemPrompt string) []llms.StreamingPromptOption {
	opts := []llms.StreamingPromptOption{llms.WithSystemPrompt(systemPrompt)}
	if r.Model != "" {
		opts = append(opts, llms.WithModel(r.Model))
	}
	if r.Temperature != nil {
		opts = append(opts, llms.WithTemperature(*r.Temperature))
	}
	return opts
}

func WithRoles(thinking, reasoning Role) OrchestratorOption {
	return func(o *Orchestrator) {
		o.thinkingRole = thinking
		o.reasoningRole = reasoning
	}
}

// WithThinkingPolicy replaces the default policy. Non-positive window or cap
// and an empty filler list keep their defaults.
func WithThinkingPolicy(policy ThinkingPolicy) OrchestratorOption {
	return func(o *Orchestrator) {
		o.thinkingPolicy = policy.withDefaults()
	}
}

type TurnOptions struct {
	onEvent func(events.Event)
}

type TurnOption func(*TurnOptions)

// WithEventHandler receives every event of the turn. Calls are serialised and
// happen on relay goroutines, so the handler should return quickly.
func WithEventHandler(handler func(events.Event)) TurnOption {
	return func(o *TurnOptions) {
		o.onEvent = handler
	}
}
