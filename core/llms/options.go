package llms

// BaseOptions holds the options shared by every prompt kind.
type BaseOptions struct {
	Instructions string
	Model        string
	Temperature  *float64
	Messages     []Message
}

type GeneralPromptOptions struct {
	BaseOptions
	// ResponseSchema, when set, asks the model for a JSON object matching the
	// reflected schema of the value.
	ResponseSchema     any
	ResponseSchemaName string
}

type StreamingPromptOptions struct {
	BaseOptions
}

type GeneralPromptOption interface {
	ApplyToGeneral(*GeneralPromptOptions)
}

type StreamingPromptOption interface {
	ApplyToStreaming(*StreamingPromptOptions)
}

// PromptOption is an option that applies to both general and streaming
// prompts.
type PromptOption func(*BaseOptions)

func (f PromptOption) ApplyToGeneral(o *GeneralPromptOptions) {
	f(&o.BaseOptions)
}

func (f PromptOption) ApplyToStreaming(o *StreamingPromptOptions) {
	f(&o.BaseOptions)
}

// GeneralOnlyOption is an option that only makes sense for non-streaming
// prompts.
type GeneralOnlyOption func(*GeneralPromptOptions)

func (f GeneralOnlyOption) ApplyToGeneral(o *GeneralPromptOptions) {
	f(o)
}

// WithSystemPrompt sets the system prompt for the prompt.
// Repeating this option will overwrite the previous system prompt.
func WithSystemPrompt(prompt string) PromptOption {
	return func(opts *BaseOptions) {
		opts.Instructions = prompt
	}
}

// WithModel overrides the model the client was configured with.
func WithModel(model string) PromptOption {
	return func(opts *BaseOptions) {
		opts.Model = model
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(temperature float64) PromptOption {
	return func(opts *BaseOptions) {
		opts.Temperature = &temperature
	}
}

// WithMessages adds messages between the system prompt and the user prompt.
// Repeating this option will sequentially add more messages.
func WithMessages(messages ...Message) PromptOption {
	return func(opts *BaseOptions) {
		opts.Messages = append(opts.Messages, messages...)
	}
}

// WithResponseSchema asks for structured output. The schema is reflected from
// the passed value, so pass a pointer to the type the response will be
// unmarshalled into.
func WithResponseSchema(name string, schema any) GeneralOnlyOption {
	return func(opts *GeneralPromptOptions) {
		opts.ResponseSchemaName = name
		opts.ResponseSchema = schema
	}
}

func NewGeneralPromptOptions(opts ...GeneralPromptOption) GeneralPromptOptions {
	options := GeneralPromptOptions{}
	for _, opt := range opts {
		opt.ApplyToGeneral(&options)
	}
	return options
}

func NewStreamingPromptOptions(opts ...StreamingPromptOption) StreamingPromptOptions {
	options := StreamingPromptOptions{}
	for _, opt := range opts {
		opt.ApplyToStreaming(&options)
	}
	return options
}
