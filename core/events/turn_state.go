package events

const (
	KindTurnStarted      Kind = "turn_state.started"
	KindTurnStateChanged Kind = "turn_state.changed"
	KindTurnCompleted    Kind = "turn_state.completed"
	KindTurnFailed       Kind = "turn_state.failed"
)

// TurnState is the linear lifecycle of a turn.
type TurnState string

const (
	TurnStateDeciding             TurnState = "deciding"
	TurnStateDirectAnswer         TurnState = "direct_answer"
	TurnStateThinkingAndAnswering TurnState = "thinking_and_answering"
	TurnStateDone                 TurnState = "done"
)

type TurnStarted struct {
	Base
	Question string
}

func NewTurnStarted(turnID, question string) TurnStarted {
	return TurnStarted{Base: NewBase(KindTurnStarted, turnID), Question: question}
}

type TurnStateChanged struct {
	Base
	From TurnState
	To   TurnState
}

func NewTurnStateChanged(turnID string, from, to TurnState) TurnStateChanged {
	return TurnStateChanged{Base: NewBase(KindTurnStateChanged, turnID), From: from, To: to}
}

type TurnCompleted struct{ Base }

func NewTurnCompleted(turnID string) TurnCompleted {
	return TurnCompleted{Base: NewBase(KindTurnCompleted, turnID)}
}

type TurnFailed struct {
	Base
	Err error
}

func NewTurnFailed(turnID string, err error) TurnFailed {
	return TurnFailed{Base: NewBase(KindTurnFailed, turnID), Err: err}
}
