package openai

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	DefaultBaseURL = "https://api.openai.com"

	completionsPath = "/v1/chat/completions"

	chunkPrefix = "data:"
	endMessage  = "[DONE]"

	defaultConnectTimeout = 10 * time.Second
	defaultReadTimeout    = 90 * time.Second
	defaultPromptTimeout  = 60 * time.Second
)

// Client talks to an OpenAI compatible chat completions endpoint. It is safe
// for concurrent use; every prompt builds its own request.
type Client struct {
	apiKey  string
	baseURL string

	model       string
	temperature *float64

	connectTimeout time.Duration
	readTimeout    time.Duration
	promptTimeout  time.Duration

	httpClient *http.Client
}

type ClientOption func(*Client)

func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) { c.baseURL = baseURL }
}

// WithDefaultModel sets the model used when a prompt does not pass
// llms.WithModel.
func WithDefaultModel(model string) ClientOption {
	return func(c *Client) { c.model = model }
}

func WithDefaultTemperature(temperature float64) ClientOption {
	return func(c *Client) { c.temperature = &temperature }
}

// WithConnectTimeout bounds dialing and the TLS handshake.
func WithConnectTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) { c.connectTimeout = timeout }
}

// WithReadTimeout bounds the wait for response headers and, on streams, the
// gap between two consecutive lines.
func WithReadTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) { c.readTimeout = timeout }
}

// WithPromptTimeout bounds a whole non-streaming request.
func WithPromptTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) { c.promptTimeout = timeout }
}

// WithHTTPClient replaces the instrumented client built from the timeouts.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = client }
}

func NewClient(apiKey string, opts ...ClientOption) (*Client, error) {
	c := &Client{
		apiKey:         apiKey,
		baseURL:        DefaultBaseURL,
		connectTimeout: defaultConnectTimeout,
		readTimeout:    defaultReadTimeout,
		promptTimeout:  defaultPromptTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.apiKey == "" {
		return nil, fmt.Errorf("api key is required")
	}
	c.baseURL = strings.TrimRight(strings.TrimSpace(c.baseURL), "/")
	if c.baseURL == "" {
		return nil, fmt.Errorf("base url is required")
	}

	if c.httpClient == nil {
		transport := http.DefaultTransport.(*http.Transport).Clone()
		transport.DialContext = (&net.Dialer{
			Timeout:   c.connectTimeout,
			KeepAlive: 30 * time.Second,
		}).DialContext
		transport.TLSHandshakeTimeout = c.connectTimeout
		transport.ResponseHeaderTimeout = c.readTimeout

		c.httpClient = &http.Client{Transport: otelhttp.NewTransport(transport,
			otelhttp.WithSpanNameFormatter(func(operationName string, request *http.Request) string {
				return operationName + " " + request.URL.Path
			}),
		)}
	}

	return c, nil
}

func (c *Client) url() string {
	return c.baseURL + completionsPath
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
}

func (c *Client) resolveModel(model string) string {
	if model != "" {
		return model
	}
	return c.model
}

func (c *Client) resolveTemperature(temperature *float64) *float64 {
	if temperature != nil {
		return temperature
	}
	return c.temperature
}
