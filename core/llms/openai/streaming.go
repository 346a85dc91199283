package openai

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/koscakluka/ema-thinking/core/llms"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

var errReadTimeout = errors.New("read timeout")

// PromptWithStream prepares a streaming chat completion. Nothing is sent until
// the returned stream's Chunks is ranged over.
func (c *Client) PromptWithStream(_ context.Context, prompt string, opts ...llms.StreamingPromptOption) llms.Stream {
	options := llms.NewStreamingPromptOptions(opts...)

	return &Stream{
		client:      c,
		model:       c.resolveModel(options.Model),
		temperature: c.resolveTemperature(options.Temperature),
		messages:    toMessages(options.Instructions, options.Messages, prompt),
	}
}

type Stream struct {
	client *Client

	model       string
	temperature *float64
	messages    []message
}

func (s *Stream) Chunks(ctx context.Context) func(func(llms.StreamChunk, error) bool) {
	requestToFirstTokenTime := time.Time{}
	setRequestToFirstTokenTime := func(span trace.Span) {
		if requestToFirstTokenTime.IsZero() {
			return
		}
		span.SetAttributes(attribute.Float64("response.request_to_first_token_time", time.Since(requestToFirstTokenTime).Seconds()))
		span.AddEvent("received first chunk")
		requestToFirstTokenTime = time.Time{}
	}

	return func(yield func(llms.StreamChunk, error) bool) {
		ctx, span := tracer.Start(ctx, "prompt llm stream")
		defer span.End()
		span.SetAttributes(attribute.String("request.model", s.model))

		fail := func(err error) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			yield(nil, err)
		}

		reqBody := requestBody{
			Model:       s.model,
			Temperature: s.temperature,
			Stream:      true,
			Messages:    s.messages,
		}

		requestBodyBytes, err := json.Marshal(reqBody)
		if err != nil {
			fail(fmt.Errorf("error marshalling JSON: %w", err))
			return
		}

		ctx, cancel := context.WithCancelCause(ctx)
		defer cancel(nil)

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.client.url(), bytes.NewBuffer(requestBodyBytes))
		if err != nil {
			fail(llms.NewTransportError("create request", err))
			return
		}
		s.client.setHeaders(req)

		span.SetAttributes(attribute.String("request.url", req.URL.String()))
		requestToFirstTokenTime = time.Now()
		startedAt := requestToFirstTokenTime
		span.AddEvent("request started")
		resp, err := s.client.httpClient.Do(req)
		if err != nil {
			fail(llms.NewTransportError("send request", err))
			return
		}
		defer resp.Body.Close()

		span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
		if resp.StatusCode != http.StatusOK {
			if errorBody, err := io.ReadAll(resp.Body); err != nil {
				span.SetAttributes(attribute.String("error", err.Error()))
			} else {
				span.SetAttributes(attribute.String("response.error", string(errorBody)))
			}

			fail(&llms.TransportError{
				Op:         "stream",
				StatusCode: resp.StatusCode,
				Err:        fmt.Errorf("non-OK HTTP status: %s", resp.Status),
			})
			return
		}

		idle := time.AfterFunc(s.client.readTimeout, func() { cancel(errReadTimeout) })
		defer idle.Stop()

		scanner := bufio.NewScanner(resp.Body)
		for scanner.Scan() {
			idle.Reset(s.client.readTimeout)
			line := strings.TrimSpace(scanner.Text())
			if len(line) == 0 || strings.HasPrefix(line, ":") || strings.HasPrefix(line, "event:") {
				continue
			}

			chunk := strings.TrimSpace(strings.TrimPrefix(line, chunkPrefix))
			setRequestToFirstTokenTime(span)
			if len(chunk) == 0 {
				continue
			}
			if chunk == endMessage {
				span.SetAttributes(attribute.Float64("response.total_time", time.Since(startedAt).Seconds()))
				return
			}

			var responseBody streamingResponseBody
			if err := json.Unmarshal([]byte(chunk), &responseBody); err != nil {
				fail(llms.NewTransportError("decode chunk", err))
				return
			}

			if len(responseBody.Choices) > 0 {
				choice := responseBody.Choices[0]
				finishReason := choice.FinishReason

				if choice.Delta.Role != "" {
					if !yield(StreamRoleChunk{finishReason: finishReason, role: choice.Delta.Role}, nil) {
						return
					}
				}
				if choice.Delta.Reasoning != "" {
					if !yield(StreamReasoningChunk{finishReason: finishReason, reasoning: choice.Delta.Reasoning}, nil) {
						return
					}
				}
				if choice.Delta.Content != "" {
					if !yield(StreamContentChunk{finishReason: finishReason, content: choice.Delta.Content}, nil) {
						return
					}
				}
			}

			if usage := responseBody.Usage.toUsage(); usage != nil {
				span.SetAttributes(attribute.Int("usage.input", usage.InputTokens))
				span.SetAttributes(attribute.Int("usage.output", usage.OutputTokens))
				span.SetAttributes(attribute.Int("usage.total", usage.TotalTokens))
				usage.TotalTime = time.Since(startedAt).Seconds()
				if !yield(StreamUsageChunk{usage: *usage}, nil) {
					return
				}
			}
		}

		if err := scanner.Err(); err != nil {
			if cause := context.Cause(ctx); errors.Is(cause, errReadTimeout) {
				err = cause
			}
			fail(llms.NewTransportError("read stream", err))
			return
		}
		// The body ended without the terminating line, which the endpoint
		// never does on success.
		logger.WarnContext(ctx, "stream ended without [DONE] marker", "model", s.model)
	}
}

type streamingResponseBody struct {
	Choices []struct {
		Delta struct {
			Role      string `json:"role,omitempty"`
			Content   string `json:"content,omitempty"`
			Reasoning string `json:"reasoning,omitempty"`
		} `json:"delta"`
		FinishReason *string `json:"finish_reason,omitempty"`
	} `json:"choices"`
	Usage *responseBodyUsage `json:"usage,omitempty"`
}

type StreamRoleChunk struct {
	finishReason *string
	role         string
}

func (s StreamRoleChunk) FinishReason() *string {
	return s.finishReason
}

func (s StreamRoleChunk) Role() string {
	return s.role
}

type StreamReasoningChunk struct {
	finishReason *string
	reasoning    string
}

func (s StreamReasoningChunk) FinishReason() *string {
	return s.finishReason
}

func (s StreamReasoningChunk) Reasoning() string {
	return s.reasoning
}

type StreamContentChunk struct {
	finishReason *string
	content      string
}

func (s StreamContentChunk) FinishReason() *string {
	return s.finishReason
}

func (s StreamContentChunk) Content() string {
	return s.content
}

type StreamUsageChunk struct {
	finishReason *string
	usage        llms.Usage
}

func (s StreamUsageChunk) FinishReason() *string {
	return s.finishReason
}

func (s StreamUsageChunk) Usage() llms.Usage {
	return s.usage
}
