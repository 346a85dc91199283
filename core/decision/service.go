// Package decision asks the controller model how a question should be handled.
package decision

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/koscakluka/ema-thinking/core/llms"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

//go:embed controller.tmpl
var controllerSystemPrompt string

type LLMWithPrompt interface {
	Prompt(ctx context.Context, prompt string, opts ...llms.GeneralPromptOption) (*llms.Response, error)
}

type Service struct {
	llm LLMWithPrompt

	model        string
	temperature  *float64
	systemPrompt string
	structured   bool
}

type Option func(*Service)

func WithModel(model string) Option {
	return func(s *Service) { s.model = model }
}

func WithTemperature(temperature float64) Option {
	return func(s *Service) { s.temperature = &temperature }
}

// WithSystemPrompt replaces the built-in controller instructions.
func WithSystemPrompt(prompt string) Option {
	return func(s *Service) { s.systemPrompt = prompt }
}

// WithStructuredOutput additionally asks the endpoint to constrain the reply
// to the TurnPlan JSON schema. Not every compatible endpoint supports it.
func WithStructuredOutput() Option {
	return func(s *Service) { s.structured = true }
}

func NewService(llm LLMWithPrompt, opts ...Option) *Service {
	s := &Service{
		llm:          llm,
		systemPrompt: controllerSystemPrompt,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Decide runs a single controller request for question. Transport failures
// come back as they are (*llms.TransportError), an unusable reply as
// *ParseError. Nothing is retried.
func (s *Service) Decide(ctx context.Context, question string) (TurnPlan, error) {
	ctx, span := tracer.Start(ctx, "decide turn")
	defer span.End()

	opts := []llms.GeneralPromptOption{llms.WithSystemPrompt(s.systemPrompt)}
	if s.model != "" {
		opts = append(opts, llms.WithModel(s.model))
	}
	if s.temperature != nil {
		opts = append(opts, llms.WithTemperature(*s.temperature))
	}
	if s.structured {
		opts = append(opts, llms.WithResponseSchema("turn_plan", &TurnPlan{}))
	}

	response, err := s.llm.Prompt(ctx, question, opts...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return TurnPlan{}, fmt.Errorf("failed to prompt controller: %w", err)
	}

	plan, err := ParsePlan(response.Content)
	if err != nil {
		logger.WarnContext(ctx, "controller reply is not a turn plan", "error", err, "body", response.Content)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return TurnPlan{}, err
	}

	span.SetAttributes(
		attribute.Bool("plan.need_thinking", plan.NeedThinking),
		attribute.String("plan.confidence", plan.ConfidenceHint),
		attribute.Int("plan.thinking_notes", len(plan.ThinkingNotes)),
		attribute.Int("plan.behavior_entries", len(plan.ThinkingBehaviorPlan)),
	)
	return plan, nil
}
