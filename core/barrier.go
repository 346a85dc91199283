package orchestration

import (
	"context"
	"sync"
)

// barrier is the one-shot signal with which the thinking relay lets the
// answer relay announce the answer.
type barrier struct {
	once sync.Once
	done chan struct{}
}

func newBarrier() *barrier {
	return &barrier{done: make(chan struct{})}
}

func (b *barrier) Signal() {
	b.once.Do(func() { close(b.done) })
}

func (b *barrier) Done() <-chan struct{} {
	return b.done
}

func (b *barrier) Signalled() bool {
	select {
	case <-b.done:
		return true
	default:
		return false
	}
}

func (b *barrier) Wait(ctx context.Context) error {
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return context.Cause(ctx)
	}
}
