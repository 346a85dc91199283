package openaisdk

import (
	"context"
	"errors"
	"time"

	"github.com/koscakluka/ema-thinking/core/llms"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var errReadTimeout = errors.New("read timeout")

func (c *Client) PromptWithStream(_ context.Context, prompt string, opts ...llms.StreamingPromptOption) llms.Stream {
	options := llms.NewStreamingPromptOptions(opts...)
	return &Stream{client: c, prompt: prompt, options: options.BaseOptions}
}

type Stream struct {
	client  *Client
	prompt  string
	options llms.BaseOptions
}

func (s *Stream) Chunks(ctx context.Context) func(func(llms.StreamChunk, error) bool) {
	return func(yield func(llms.StreamChunk, error) bool) {
		ctx, span := tracer.Start(ctx, "prompt llm stream")
		defer span.End()

		params := s.client.params(s.options, s.prompt)
		span.SetAttributes(attribute.String("request.model", params.Model))

		ctx, cancel := context.WithCancelCause(ctx)
		defer cancel(nil)
		// Only armed while waiting on the server, so a slow consumer does not
		// count as a stalled stream.
		idle := time.AfterFunc(s.client.readTimeout, func() { cancel(errReadTimeout) })
		defer idle.Stop()

		stream := s.client.client.Chat.Completions.NewStreaming(ctx, params)
		defer stream.Close()

		for stream.Next() {
			idle.Stop()

			chunk := stream.Current()
			if len(chunk.Choices) > 0 && chunk.Choices[0].Delta.Content != "" {
				choice := chunk.Choices[0]
				var finishReason *string
				if choice.FinishReason != "" {
					finishReason = &choice.FinishReason
				}
				if !yield(contentChunk{finishReason: finishReason, content: choice.Delta.Content}, nil) {
					return
				}
			}
			if chunk.Usage.TotalTokens > 0 {
				if !yield(usageChunk{usage: llms.Usage{
					InputTokens:  int(chunk.Usage.PromptTokens),
					OutputTokens: int(chunk.Usage.CompletionTokens),
					TotalTokens:  int(chunk.Usage.TotalTokens),
				}}, nil) {
					return
				}
			}
			idle.Reset(s.client.readTimeout)
		}

		if err := stream.Err(); err != nil {
			if cause := context.Cause(ctx); errors.Is(cause, errReadTimeout) {
				err = cause
			}
			err = toTransportError("read stream", err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			yield(nil, err)
		}
	}
}

type contentChunk struct {
	finishReason *string
	content      string
}

func (c contentChunk) FinishReason() *string { return c.finishReason }
func (c contentChunk) Content() string       { return c.content }

type usageChunk struct {
	usage llms.Usage
}

func (c usageChunk) FinishReason() *string { return nil }
func (c usageChunk) Usage() llms.Usage     { return c.usage }
