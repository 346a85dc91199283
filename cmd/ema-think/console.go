package main

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/koscakluka/ema-thinking/core/events"
	"github.com/muesli/reflow/indent"
	"github.com/muesli/reflow/wordwrap"
)

const consoleWidth = 80

var (
	participantStyle = lipgloss.NewStyle().Bold(true)
	thinkingStyle    = lipgloss.NewStyle().Faint(true).Italic(true)
	answerStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("10"))
	nonverbalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	actuationStyle   = lipgloss.NewStyle().Faint(true)
	failureStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
)

// console prints turn events. Handlers run on relay goroutines, so writes
// are serialised.
type console struct {
	mu  sync.Mutex
	out io.Writer
}

func newConsole(out io.Writer) *console {
	return &console{out: out}
}

func (c *console) render(event events.Event) {
	switch event := event.(type) {
	case events.TurnStarted:
		c.line(participantStyle, "Participant: "+event.Question)
	case events.ThinkingCue:
		label := "Robot (thinking): "
		if event.Fallback {
			label = "Robot (thinking, filler): "
		}
		c.line(thinkingStyle, label+event.Text)
	case events.AnswerHandoff:
		legacy := event.Descriptor.Legacy()
		c.line(actuationStyle, fmt.Sprintf("(%s confidence: %q, %s)", event.Tier, legacy.Prefix, legacy.Gesture))
	case events.AnswerFinal:
		c.line(answerStyle, "Robot: "+event.Utterance)
	case events.DirectAnswer:
		c.line(answerStyle, "Robot: "+event.Utterance)
	case events.NonverbalGesture:
		c.line(nonverbalStyle, "Robot (nonverbal): "+event.Gesture.String())
	case events.TurnFailed:
		c.line(failureStyle, "Turn failed: "+event.Err.Error())
	}
}

func (c *console) line(style lipgloss.Style, text string) {
	wrapped := wordwrap.String(text, consoleWidth)
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.out, style.Render(wrapped))
}

func (c *console) actuation(text string) {
	c.line(actuationStyle, indent.String("↳ "+text, 2))
}

// consoleActuator stands in for a robot. Speech is already shown through the
// turn events, so only nonverbal calls are printed.
type consoleActuator struct {
	console *console
}

func newConsoleActuator(console *console) *consoleActuator {
	return &consoleActuator{console: console}
}

func (a *consoleActuator) Speak(context.Context, string) error {
	return nil
}

func (a *consoleActuator) StartGesture(_ context.Context, name string, intensity, duration float64) error {
	a.console.actuation(fmt.Sprintf("gesture %s (intensity %.1f, %.1fs)", name, intensity, duration))
	return nil
}

func (a *consoleActuator) SetLED(_ context.Context, color string) error {
	a.console.actuation("LED " + color)
	return nil
}

func (a *consoleActuator) AttendUser(context.Context) error {
	a.console.actuation("attend user")
	return nil
}

func (a *consoleActuator) LookAt(_ context.Context, x, y, z float64) error {
	a.console.actuation(fmt.Sprintf("look at (%.2f, %.2f, %.2f)", x, y, z))
	return nil
}
