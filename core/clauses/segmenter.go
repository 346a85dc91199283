// Package clauses turns an incremental completion stream into a lazy sequence
// of speakable clauses.
package clauses

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/koscakluka/ema-thinking/core/llms"
)

// ErrAlreadyStarted is returned when the clause sequence of a segmenter is
// iterated a second time.
var ErrAlreadyStarted = errors.New("clause sequence already consumed")

type Option func(*Segmenter)

// WithWordCountCallback is called from the producer goroutine with the
// cumulative word count after every received fragment.
func WithWordCountCallback(callback func(int)) Option {
	return func(s *Segmenter) {
		s.onWordCount = callback
	}
}

// WithName labels the segmenter in logs and spans.
func WithName(name string) Option {
	return func(s *Segmenter) {
		s.name = name
	}
}

// Segmenter reads one stream on its own goroutine and hands out complete
// clauses in order. It is single use and has a single consumer.
type Segmenter struct {
	name        string
	stream      llms.Stream
	onWordCount func(int)

	bridge    *bridge[string]
	wordCount atomic.Int64

	startOnce sync.Once
	cancel    context.CancelFunc
	done      chan struct{}

	iterated atomic.Bool
	// err is the first failure handed to the consumer, kept so later reads
	// keep returning it. Only touched by the consumer.
	err error
}

func New(stream llms.Stream, opts ...Option) *Segmenter {
	s := &Segmenter{
		name:   "clauses",
		stream: stream,
		bridge: newBridge[string](),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start begins fetching the stream. Calling it is optional, the first read
// starts the producer too, but lets a caller put two streams in flight before
// consuming either. Only the first call's context is used.
func (s *Segmenter) Start(ctx context.Context) {
	s.startOnce.Do(func() {
		ctx, cancel := context.WithCancel(ctx)
		s.cancel = cancel
		go s.produce(ctx)
	})
}

// Next blocks until the next clause is ready. It returns io.EOF after the
// last clause and ctx.Err() when ctx ends first, in which case a later call
// picks up where this one left off.
func (s *Segmenter) Next(ctx context.Context) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	s.Start(ctx)

	clause, err := s.bridge.receive(ctx)
	if err != nil && err != io.EOF && ctx.Err() == nil {
		s.err = err
	}
	return clause, err
}

// Clauses returns the lazy clause sequence. Iteration ends after the last
// clause or after the first error. The sequence can only be ranged over once.
func (s *Segmenter) Clauses(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		if !s.iterated.CompareAndSwap(false, true) {
			yield("", ErrAlreadyStarted)
			return
		}
		for {
			clause, err := s.Next(ctx)
			if err == io.EOF {
				return
			}
			if err != nil {
				yield("", err)
				return
			}
			if !yield(clause, nil) {
				return
			}
		}
	}
}

// WordCount is the number of whitespace separated words received so far.
func (s *Segmenter) WordCount() int {
	return int(s.wordCount.Load())
}

// Close stops the producer and waits for it to exit. Safe to call more than
// once and on a segmenter that was never started.
func (s *Segmenter) Close() {
	s.startOnce.Do(func() {
		s.bridge.close()
		close(s.done)
	})
	if s.cancel != nil {
		s.cancel()
	}
	<-s.done
}

func (s *Segmenter) produce(ctx context.Context) {
	defer close(s.done)
	defer s.bridge.close()
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%s producer panic: %v", s.name, r)
			logger.ErrorContext(ctx, "clause producer panicked", "segmenter", s.name, "error", err)
			s.bridge.fail(ctx, err)
		}
	}()

	ctx, span := tracer.Start(ctx, "segment stream")
	defer span.End()

	var text strings.Builder
	pending := ""
	clauseCount := 0
	for chunk, err := range s.stream.Chunks(ctx) {
		if err != nil {
			span.RecordError(err)
			s.bridge.fail(ctx, fmt.Errorf("%s stream: %w", s.name, err))
			return
		}

		content, ok := chunk.(llms.StreamContentChunk)
		if !ok || content.Content() == "" {
			continue
		}
		fragment := content.Content()

		text.WriteString(fragment)
		count := len(strings.Fields(text.String()))
		s.wordCount.Store(int64(count))
		if s.onWordCount != nil {
			s.onWordCount(count)
		}

		var clauses []string
		clauses, pending = splitClauses(pending + fragment)
		for _, clause := range clauses {
			if !s.bridge.send(ctx, clause) {
				return
			}
			clauseCount++
		}
	}
	if ctx.Err() != nil {
		return
	}

	if clause, ok := flush(pending); ok {
		if !s.bridge.send(ctx, clause) {
			return
		}
		clauseCount++
	}
	logger.DebugContext(ctx, "stream segmented",
		"segmenter", s.name,
		"clauses", clauseCount,
		"words", s.WordCount())
}
