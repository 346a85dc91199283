package llms

// Response is a single, complete response from an LLM
type Response struct {
	Content string
	Usage   *Usage
}

// Message is one entry of the conversation sent to the model
type Message struct {
	Role    MessageRole
	Content string
}

// MessageRole describes who is the message from
type MessageRole string

const (
	MessageRoleSystem    MessageRole = "system"
	MessageRoleUser      MessageRole = "user"
	MessageRoleAssistant MessageRole = "assistant"
)

// ToMessages builds the message list for a single-shot prompt: an optional
// system message, any extra messages and the user prompt last.
func ToMessages(instructions string, history []Message, prompt string) []Message {
	messages := make([]Message, 0, len(history)+2)
	if instructions != "" {
		messages = append(messages, Message{Role: MessageRoleSystem, Content: instructions})
	}
	messages = append(messages, history...)
	if prompt != "" {
		messages = append(messages, Message{Role: MessageRoleUser, Content: prompt})
	}
	return messages
}
