package clauses

import (
	"context"
	"io"
)

type item[T any] struct {
	value T
	err   error
}

// bridge hands values from one producer goroutine to one consumer. It holds
// at most one pending item; a failure takes the same slot as a value and
// closing the channel marks the end.
type bridge[T any] struct {
	items chan item[T]
}

func newBridge[T any]() *bridge[T] {
	return &bridge[T]{items: make(chan item[T], 1)}
}

func (b *bridge[T]) send(ctx context.Context, value T) bool {
	select {
	case b.items <- item[T]{value: value}:
		return true
	case <-ctx.Done():
		return false
	}
}

func (b *bridge[T]) fail(ctx context.Context, err error) {
	select {
	case b.items <- item[T]{err: err}:
	case <-ctx.Done():
	}
}

// close must only be called by the producer, once.
func (b *bridge[T]) close() {
	close(b.items)
}

func (b *bridge[T]) receive(ctx context.Context) (T, error) {
	var zero T
	select {
	case it, ok := <-b.items:
		if !ok {
			return zero, io.EOF
		}
		return it.value, it.err
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}
