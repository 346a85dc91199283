// Package actuation describes the embodied output a turn drives: speech,
// gestures, the LED ring and gaze. Every call is best effort.
package actuation

import (
	"context"
	"fmt"

	"github.com/koscakluka/ema-thinking/core/decision"
)

type Actuator interface {
	Speak(ctx context.Context, text string) error
	StartGesture(ctx context.Context, name string, intensity, duration float64) error
	// SetLED takes a hex color, e.g. "#FFA500".
	SetLED(ctx context.Context, color string) error
	AttendUser(ctx context.Context) error
	LookAt(ctx context.Context, x, y, z float64) error
}

// BehaviorPlanner is implemented by actuators that want the advisory
// behaviour plan of a thinking phase. The plan is passed on as decided.
type BehaviorPlanner interface {
	PlanBehavior(ctx context.Context, plan []decision.BehaviorEntry) error
}

// Error wraps a failed actuation call. Callers log it and carry on.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("actuation %s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Wrap returns nil for a nil err and an *Error otherwise.
func Wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
