package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/koscakluka/ema-thinking/core/llms"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// Prompt sends a single non-streaming chat completion request and returns the
// content of the first choice.
func (c *Client) Prompt(ctx context.Context, prompt string, opts ...llms.GeneralPromptOption) (*llms.Response, error) {
	ctx, span := tracer.Start(ctx, "prompt llm")
	defer span.End()

	options := llms.NewGeneralPromptOptions(opts...)
	model := c.resolveModel(options.Model)
	span.SetAttributes(attribute.String("request.model", model))

	reqBody := requestBody{
		Model:       model,
		Temperature: c.resolveTemperature(options.Temperature),
		Stream:      false,
		Messages:    toMessages(options.Instructions, options.Messages, prompt),
	}
	if options.ResponseSchema != nil {
		reqBody.ResponseFormat = toResponseFormat(options.ResponseSchemaName, options.ResponseSchema)
	}

	fail := func(err error) (*llms.Response, error) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	requestBodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return fail(fmt.Errorf("error marshalling JSON: %w", err))
	}

	if c.promptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.promptTimeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url(), bytes.NewBuffer(requestBodyBytes))
	if err != nil {
		return fail(llms.NewTransportError("create request", err))
	}
	c.setHeaders(req)
	span.SetAttributes(attribute.String("request.url", req.URL.String()))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fail(llms.NewTransportError("send request", err))
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("response.status_code", resp.StatusCode))
	if resp.StatusCode != http.StatusOK {
		if errorBody, err := io.ReadAll(resp.Body); err == nil {
			span.SetAttributes(attribute.String("response.error", string(errorBody)))
		}
		return fail(&llms.TransportError{
			Op:         "prompt",
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("non-OK HTTP status: %s", resp.Status),
		})
	}

	respBodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(llms.NewTransportError("read response", err))
	}

	var responseBody generalResponseBody
	if err := json.Unmarshal(respBodyBytes, &responseBody); err != nil {
		return fail(llms.NewTransportError("decode response", err))
	}
	if len(responseBody.Choices) == 0 {
		return fail(llms.NewTransportError("decode response", fmt.Errorf("no choices returned")))
	}

	return &llms.Response{
		Content: responseBody.Choices[0].Message.Content,
		Usage:   responseBody.Usage.toUsage(),
	}, nil
}

func toResponseFormat(name string, schemaValue any) *responseFormat {
	// TODO: Implement a custom reflector that only emits the subset of
	// jsonschema accepted by strict mode, then flip Strict on
	reflector := jsonschema.Reflector{DoNotReference: true}
	var schema *jsonschema.Schema
	valueType := reflect.TypeOf(schemaValue)
	if valueType.Kind() == reflect.Ptr {
		valueType = valueType.Elem()
	}
	schema = reflector.ReflectFromType(valueType)
	if name == "" {
		name = valueType.Name()
	}

	return &responseFormat{
		Type: "json_schema",
		JSONSchema: &responseJSONSchema{
			Name:   name,
			Schema: schema,
			Strict: false,
		},
	}
}

type generalResponseBody struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role,omitempty"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason *string `json:"finish_reason,omitempty"`
	} `json:"choices"`
	Usage *responseBodyUsage `json:"usage,omitempty"`
}
