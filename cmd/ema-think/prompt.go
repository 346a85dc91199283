package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const defaultQuestion = "How do you show thinking?"

var errPromptCancelled = errors.New("question prompt cancelled")

var promptLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))

type questionModel struct {
	input     textinput.Model
	done      bool
	cancelled bool
}

func newQuestionModel() questionModel {
	input := textinput.New()
	input.Placeholder = defaultQuestion
	input.CharLimit = 500
	input.Width = 60
	input.Focus()
	return questionModel{input: input}
}

func (m questionModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m questionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.cancelled = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m questionModel) View() string {
	if m.done || m.cancelled {
		return ""
	}
	return fmt.Sprintf("%s\n%s\n", promptLabelStyle.Render("Ask the robot a question:"), m.input.View())
}

// question is the typed text, or the default question when nothing was typed.
func (m questionModel) question() string {
	if question := strings.TrimSpace(m.input.Value()); question != "" {
		return question
	}
	return defaultQuestion
}

func promptQuestion() (string, error) {
	final, err := tea.NewProgram(newQuestionModel()).Run()
	if err != nil {
		return "", fmt.Errorf("failed to read question: %w", err)
	}

	model := final.(questionModel)
	if model.cancelled {
		return "", errPromptCancelled
	}
	return model.question(), nil
}
