package openai

import "github.com/koscakluka/ema-thinking/core/llms"

type message struct {
	Role    messageRole `json:"role"`
	Content string      `json:"content"`
}

type messageRole string

const (
	messageRoleSystem    messageRole = "system"
	messageRoleUser      messageRole = "user"
	messageRoleAssistant messageRole = "assistant"
)

func toMessages(instructions string, history []llms.Message, prompt string) []message {
	llmMessages := llms.ToMessages(instructions, history, prompt)
	messages := make([]message, 0, len(llmMessages))
	for _, msg := range llmMessages {
		messages = append(messages, message{
			Role:    toMessageRole(msg.Role),
			Content: msg.Content,
		})
	}
	return messages
}

func toMessageRole(role llms.MessageRole) messageRole {
	switch role {
	case llms.MessageRoleSystem:
		return messageRoleSystem
	case llms.MessageRoleAssistant:
		return messageRoleAssistant
	default:
		return messageRoleUser
	}
}

type requestBody struct {
	Model          string          `json:"model"`
	Temperature    *float64        `json:"temperature,omitempty"`
	Stream         bool            `json:"stream"`
	Messages       []message       `json:"messages"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type       string              `json:"type"`
	JSONSchema *responseJSONSchema `json:"json_schema,omitempty"`
}

type responseJSONSchema struct {
	// Name is used to further identify the schema in the response.
	Name string `json:"name"`
	// Schema is the reflected JSON schema the response should follow.
	Schema any `json:"schema"`
	// Strict determines whether to enforce the schema upon the generated
	// content.
	Strict bool `json:"strict"`
}

type responseBodyUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func (u *responseBodyUsage) toUsage() *llms.Usage {
	if u == nil {
		return nil
	}
	return &llms.Usage{
		InputTokens:  u.PromptTokens,
		OutputTokens: u.CompletionTokens,
		TotalTokens:  u.TotalTokens,
	}
}
