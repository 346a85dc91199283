package orchestration

import (
	"errors"
	"fmt"
)

var (
	ErrDeciderNotConfigured = errors.New("decider is not configured")
	ErrLLMNotConfigured     = errors.New("streaming llm is not configured")

	// errThinkingStopped is the cancellation cause of a thinking relay that was
	// asked to stop early. It ends the relay without failing it.
	errThinkingStopped = errors.New("thinking stopped")
	errStopOnAnswer    = fmt.Errorf("%w: first answer clause arrived", errThinkingStopped)
	errAnswerFailed    = fmt.Errorf("%w: answer relay failed", errThinkingStopped)
)
