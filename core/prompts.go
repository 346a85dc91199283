package orchestration

import (
	_ "embed"
	"strings"
	"text/template"
)

//go:embed prompts/thinking_system.tmpl
var thinkingSystemPrompt string

//go:embed prompts/reasoning_system.tmpl
var reasoningSystemPrompt string

//go:embed prompts/thinking_prompt.tmpl
var thinkingPromptTemplate string

//go:embed prompts/reasoning_prompt.tmpl
var reasoningPromptTemplate string

var (
	thinkingPrompt  = template.Must(template.New("thinking").Parse(thinkingPromptTemplate))
	reasoningPrompt = template.Must(template.New("reasoning").Parse(reasoningPromptTemplate))
)

func buildThinkingPrompt(question string, notes []string) (string, error) {
	var filtered []string
	for _, note := range notes {
		if note = strings.TrimSpace(note); note != "" {
			filtered = append(filtered, note)
		}
	}

	var prompt strings.Builder
	err := thinkingPrompt.Execute(&prompt, struct {
		Question string
		Notes    []string
	}{Question: question, Notes: filtered})
	return strings.TrimSpace(prompt.String()), err
}

func buildReasoningPrompt(question, hint string) (string, error) {
	var prompt strings.Builder
	err := reasoningPrompt.Execute(&prompt, struct {
		Question string
		Hint     string
	}{Question: question, Hint: strings.TrimSpace(hint)})
	return strings.TrimSpace(prompt.String()), err
}
