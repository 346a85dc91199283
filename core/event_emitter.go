package orchestration

import (
	"sync"

	"github.com/koscakluka/ema-thinking/core/events"
)

type eventEmitter func(events.Event)

func noopEventEmitter(events.Event) {}

// newSerialEventEmitter delivers events to handler one at a time, in the
// order they were emitted, even when both relays emit.
func newSerialEventEmitter(handler func(events.Event)) eventEmitter {
	if handler == nil {
		return noopEventEmitter
	}

	var mu sync.Mutex
	return func(event events.Event) {
		mu.Lock()
		defer mu.Unlock()
		handler(event)
	}
}
