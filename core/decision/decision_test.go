package decision

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/koscakluka/ema-thinking/core/llms"
)

func TestParsePlanStripsCodeFences(t *testing.T) {
	bodies := []string{
		"```json\n{\"need_thinking\": false, \"confidence\": \"High\", \"answer\": \"Paris is the capital.\"}\n```",
		"```\n{\"need_thinking\": false, \"confidence\": \"High\", \"answer\": \"Paris is the capital.\"}\n```",
		"```json {\"need_thinking\": false, \"confidence\": \"High\", \"answer\": \"Paris is the capital.\"}```",
		"``` json\n{\"need_thinking\": false, \"confidence\": \"High\", \"answer\": \"Paris is the capital.\"}```",
		"  {\"need_thinking\": false, \"confidence\": \"High\", \"answer\": \" Paris is the capital. \"}  ",
	}

	for _, body := range bodies {
		plan, err := ParsePlan(body)
		if err != nil {
			t.Fatalf("body %q: unexpected error: %v", body, err)
		}
		if plan.NeedThinking {
			t.Fatalf("body %q: expected no thinking", body)
		}
		if plan.ConfidenceHint != "high" {
			t.Fatalf("body %q: expected normalized confidence high, got %q", body, plan.ConfidenceHint)
		}
		if plan.DirectAnswer != "Paris is the capital." {
			t.Fatalf("body %q: unexpected answer %q", body, plan.DirectAnswer)
		}
	}
}

func TestParsePlanReadsThinkingFields(t *testing.T) {
	body := `{
		"need_thinking": true,
		"confidence": "",
		"thinking_notes": ["compare options", "", "check budget"],
		"thinking_behavior_plan": [
			{"gesture": "look straight", "expression": "Thoughtful", "look_at": {"x": 0.1, "y": 0.3, "z": 1}, "reason": "focus"}
		],
		"reasoning_hint": "mention trade-offs",
		"answer": ""
	}`

	plan, err := ParsePlan(body)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := TurnPlan{
		NeedThinking:  true,
		ThinkingNotes: Notes{"compare options", "check budget"},
		ThinkingBehaviorPlan: []BehaviorEntry{{
			Gesture:    "look straight",
			Expression: "Thoughtful",
			LookAt:     &Position{X: 0.1, Y: 0.3, Z: 1},
			Reason:     "focus",
		}},
		ReasoningHint: "mention trade-offs",
	}
	if diff := cmp.Diff(want, plan); diff != "" {
		t.Fatalf("unexpected plan (-want +got):\n%s", diff)
	}
}

func TestParsePlanAcceptsSingleStringNotes(t *testing.T) {
	plan, err := ParsePlan(`{"need_thinking": true, "thinking_notes": "  weigh both jobs  "}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if diff := cmp.Diff(Notes{"weigh both jobs"}, plan.ThinkingNotes); diff != "" {
		t.Fatalf("unexpected notes (-want +got):\n%s", diff)
	}
}

func TestParsePlanRejectsNonObjects(t *testing.T) {
	bodies := []string{
		"",
		"Sure! Here is the plan.",
		"[1, 2, 3]",
		"```json\nnot json\n```",
		`{"need_thinking": true} trailing`,
		`{"need_thinking": "maybe"}`,
		`{"thinking_notes": 42}`,
	}

	for _, body := range bodies {
		_, err := ParsePlan(body)
		var parseErr *ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("body %q: expected ParseError, got %v", body, err)
		}
	}
}

func TestDecideSendsControllerPromptAndParsesReply(t *testing.T) {
	llm := &promptLLMStub{content: "```json\n{\"need_thinking\": true, \"thinking_notes\": [\"a\"]}\n```"}
	service := NewService(llm, WithModel("controller-model"), WithTemperature(0.2), WithStructuredOutput())

	plan, err := service.Decide(context.Background(), "Should I take job A or B?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !plan.NeedThinking {
		t.Fatalf("expected thinking to be needed")
	}

	if llm.prompt != "Should I take job A or B?" {
		t.Fatalf("expected question as prompt, got %q", llm.prompt)
	}
	if llm.options.Instructions != controllerSystemPrompt {
		t.Fatalf("expected controller system prompt")
	}
	if llm.options.Model != "controller-model" {
		t.Fatalf("expected controller model, got %q", llm.options.Model)
	}
	if llm.options.Temperature == nil || *llm.options.Temperature != 0.2 {
		t.Fatalf("expected temperature 0.2, got %v", llm.options.Temperature)
	}
	if _, ok := llm.options.ResponseSchema.(*TurnPlan); !ok {
		t.Fatalf("expected TurnPlan response schema, got %T", llm.options.ResponseSchema)
	}
}

func TestDecidePropagatesTransportErrors(t *testing.T) {
	transportErr := llms.NewTransportError("send request", errors.New("connection refused"))
	service := NewService(&promptLLMStub{err: transportErr})

	_, err := service.Decide(context.Background(), "question")
	if !errors.Is(err, transportErr) {
		t.Fatalf("expected transport error, got %v", err)
	}
	if !llms.IsTransportError(err) {
		t.Fatalf("expected error to be recognised as transport error")
	}
}

func TestDecideReturnsParseErrorForProse(t *testing.T) {
	service := NewService(&promptLLMStub{content: "I think you should think."})

	_, err := service.Decide(context.Background(), "question")
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("expected ParseError, got %v", err)
	}
	if parseErr.Body != "I think you should think." {
		t.Fatalf("expected body to be kept, got %q", parseErr.Body)
	}
}

type promptLLMStub struct {
	content string
	err     error

	prompt  string
	options llms.GeneralPromptOptions
}

func (stub *promptLLMStub) Prompt(_ context.Context, prompt string, opts ...llms.GeneralPromptOption) (*llms.Response, error) {
	stub.prompt = prompt
	stub.options = llms.NewGeneralPromptOptions(opts...)
	if stub.err != nil {
		return nil, stub.err
	}
	return &llms.Response{Content: stub.content}, nil
}
