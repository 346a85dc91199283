package events

import "time"

type Kind string

type Event interface {
	Kind() Kind
	// TurnID identifies the turn the event belongs to.
	TurnID() string
	Timestamp() time.Time
}

type Base struct {
	kind      Kind
	turnID    string
	timestamp time.Time
}

func NewBase(kind Kind, turnID string) Base {
	return Base{kind: kind, turnID: turnID, timestamp: time.Now()}
}

func (b Base) Kind() Kind {
	return b.kind
}

func (b Base) TurnID() string {
	return b.turnID
}

func (b Base) Timestamp() time.Time {
	return b.timestamp
}
