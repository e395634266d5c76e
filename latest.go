package flume

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/windrose-engine/flume/fwatch"
)

// Latest is the single-value-only variant of [Stream]:
// a state cell with subscriptions.
//
// It keeps exactly the most recent value,
// conflating older ones when subscribers lag,
// so setting a value never blocks.
// A new subscriber always receives the current value first.
type Latest[T any] struct {
	s *Stream[T]
}

// NewLatest returns a Latest holding initial.
func NewLatest[T any](log *slog.Logger, initial T) *Latest[T] {
	s, err := New(log, Config[T]{
		Initial: initial,
		Replay:  1,
		OnFull:  DropOldest,
	})
	if err != nil {
		panic(fmt.Errorf("BUG: fixed latest-value config was rejected: %w", err))
	}

	return &Latest[T]{s: s}
}

// Set publishes v as the new current value.
// It never blocks; a lagging subscriber skips superseded values.
func (l *Latest[T]) Set(v T) {
	// DropOldest never suspends, so this cannot fail.
	_ = l.s.TryPublish(v)
}

// Value returns the current value.
func (l *Latest[T]) Value() T {
	return l.s.Value()
}

// Subscribe delivers the current value and then every subsequent
// Set value to sink, with the same lifecycle as [*Stream.Subscribe].
func (l *Latest[T]) Subscribe(ctx context.Context, sink func(T) error) error {
	return l.s.Subscribe(ctx, sink)
}

// Subscribers returns the live subscriber count as a watchable cell.
func (l *Latest[T]) Subscribers() *fwatch.Cell[int] {
	return l.s.Subscribers()
}

// ResetReplayCache always fails:
// the latest-value variant cannot forget its only value,
// and reporting the misuse beats silently doing nothing.
func (l *Latest[T]) ResetReplayCache() error {
	return UnsupportedOperationError{
		Op:      "ResetReplayCache",
		Variant: "latest-value stream",
	}
}
