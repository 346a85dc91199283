// Package openaisdk implements the same prompting contract as core/llms/openai
// on top of the official openai-go SDK.
package openaisdk

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"github.com/koscakluka/ema-thinking/core/llms"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	defaultConnectTimeout = 10 * time.Second
	defaultReadTimeout    = 90 * time.Second
)

type Client struct {
	client openai.Client

	model       string
	temperature *float64

	readTimeout   time.Duration
	promptTimeout time.Duration
}

type config struct {
	baseURL        string
	model          string
	temperature    *float64
	connectTimeout time.Duration
	readTimeout    time.Duration
	promptTimeout  time.Duration
	httpClient     *http.Client
}

type ClientOption func(*config)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *config) { c.baseURL = baseURL }
}

func WithDefaultModel(model string) ClientOption {
	return func(c *config) { c.model = model }
}

func WithDefaultTemperature(temperature float64) ClientOption {
	return func(c *config) { c.temperature = &temperature }
}

// WithConnectTimeout bounds dialing and the TLS handshake.
func WithConnectTimeout(timeout time.Duration) ClientOption {
	return func(c *config) { c.connectTimeout = timeout }
}

// WithReadTimeout bounds the wait for response headers and, on streams, the
// gap between two consecutive chunks.
func WithReadTimeout(timeout time.Duration) ClientOption {
	return func(c *config) { c.readTimeout = timeout }
}

func WithPromptTimeout(timeout time.Duration) ClientOption {
	return func(c *config) { c.promptTimeout = timeout }
}

func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *config) { c.httpClient = client }
}

func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}

	cfg := config{
		connectTimeout: defaultConnectTimeout,
		readTimeout:    defaultReadTimeout,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.connectTimeout <= 0 {
		cfg.connectTimeout = defaultConnectTimeout
	}
	if cfg.readTimeout <= 0 {
		cfg.readTimeout = defaultReadTimeout
	}
	if cfg.httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.DialContext = (&net.Dialer{
			Timeout:   cfg.connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext
		transport.TLSHandshakeTimeout = cfg.connectTimeout
		transport.ResponseHeaderTimeout = cfg.readTimeout

		cfg.httpClient = &http.Client{Transport: otelhttp.NewTransport(transport)}
	}

	requestOptions := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithHTTPClient(cfg.httpClient),
		// Transport failures surface to the caller as is.
		option.WithMaxRetries(0),
	}
	if baseURL := strings.TrimRight(strings.TrimSpace(cfg.baseURL), "/"); baseURL != "" {
		requestOptions = append(requestOptions, option.WithBaseURL(baseURL+"/v1/"))
	}

	return &Client{
		client:        openai.NewClient(requestOptions...),
		model:         cfg.model,
		temperature:   cfg.temperature,
		readTimeout:   cfg.readTimeout,
		promptTimeout: cfg.promptTimeout,
	}, nil
}

func (c *Client) Prompt(ctx context.Context, prompt string, opts ...llms.GeneralPromptOption) (*llms.Response, error) {
	ctx, span := tracer.Start(ctx, "prompt llm")
	defer span.End()

	options := llms.NewGeneralPromptOptions(opts...)
	params := c.params(options.BaseOptions, prompt)
	span.SetAttributes(attribute.String("request.model", params.Model))
	if options.ResponseSchema != nil {
		params.ResponseFormat = toResponseFormat(options.ResponseSchemaName, options.ResponseSchema)
	}

	if c.promptTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.promptTimeout)
		defer cancel()
	}

	completion, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		err = toTransportError("prompt", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if len(completion.Choices) == 0 {
		err := llms.NewTransportError("decode response", fmt.Errorf("no choices returned"))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	return &llms.Response{
		Content: completion.Choices[0].Message.Content,
		Usage: &llms.Usage{
			InputTokens:  int(completion.Usage.PromptTokens),
			OutputTokens: int(completion.Usage.CompletionTokens),
			TotalTokens:  int(completion.Usage.TotalTokens),
		},
	}, nil
}

func (c *Client) params(options llms.BaseOptions, prompt string) openai.ChatCompletionNewParams {
	model := options.Model
	if model == "" {
		model = c.model
	}
	params := openai.ChatCompletionNewParams{
		Model:    model,
		Messages: toMessages(llms.ToMessages(options.Instructions, options.Messages, prompt)),
	}
	if options.Temperature != nil {
		params.Temperature = openai.Float(*options.Temperature)
	} else if c.temperature != nil {
		params.Temperature = openai.Float(*c.temperature)
	}
	return params
}

func toMessages(messages []llms.Message) []openai.ChatCompletionMessageParamUnion {
	converted := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, msg := range messages {
		switch msg.Role {
		case llms.MessageRoleSystem:
			converted = append(converted, openai.SystemMessage(msg.Content))
		case llms.MessageRoleAssistant:
			converted = append(converted, openai.AssistantMessage(msg.Content))
		default:
			converted = append(converted, openai.UserMessage(msg.Content))
		}
	}
	return converted
}

func toResponseFormat(name string, schemaValue any) openai.ChatCompletionNewParamsResponseFormatUnion {
	reflector := jsonschema.Reflector{DoNotReference: true}
	valueType := reflect.TypeOf(schemaValue)
	if valueType.Kind() == reflect.Ptr {
		valueType = valueType.Elem()
	}
	if name == "" {
		name = valueType.Name()
	}

	return openai.ChatCompletionNewParamsResponseFormatUnion{
		OfJSONSchema: &shared.ResponseFormatJSONSchemaParam{
			JSONSchema: shared.ResponseFormatJSONSchemaJSONSchemaParam{
				Name:   name,
				Schema: reflector.ReflectFromType(valueType),
				Strict: openai.Bool(false),
			},
		},
	}
}

func toTransportError(op string, err error) error {
	transportErr := llms.NewTransportError(op, err)
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		transportErr.StatusCode = apiErr.StatusCode
	}
	return transportErr
}
