package flume

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/windrose-engine/flume/fwatch"
)

// Stream is a multicast value stream with an always-present current value.
//
// A Stream has a single logical owner of its state,
// but any number of goroutines may publish to it and subscribe to it
// without external synchronization.
//
// All subscribers observe published values in the same total order.
// A subscriber that attaches while the replay window is empty
// receives the current value as its first delivered item,
// so a consumer never waits indefinitely for an initial state.
type Stream[T any] struct {
	log *slog.Logger

	replay int
	extra  int
	onFull Overflow

	mu sync.Mutex

	// Current value, defined at all times after construction.
	cur T

	// Retained values, oldest first.
	// buf[0] has sequence number headSeq.
	// A value is retained while it is inside the replay window,
	// or while at least one attached subscriber has not consumed it.
	buf     []T
	headSeq uint64

	// How many of the newest buffered values are replayable
	// to a subscriber attaching now. Never exceeds replay,
	// and drops to zero on a replay cache reset.
	replayLen int

	subs map[*cursor]struct{}

	// Closed and replaced whenever state changes,
	// waking blocked publishers and idle subscribers.
	change chan struct{}

	nSubs *fwatch.Cell[int]

	// Forced drops under DropOldest/DropLatest,
	// tracked for throttled slow-subscriber logging.
	drops uint64
}

// cursor is an attached subscriber's private read position:
// the sequence number of the next value it will consume.
type cursor struct {
	next uint64
}

// Config is the configuration passed to [New].
type Config[T any] struct {
	// The stream's current value before anything is published.
	Initial T

	// How many of the most recent values are replayed
	// to each newly attached subscriber. Must be >= 0.
	Replay int

	// Additional buffer capacity beyond the replay window,
	// decoupling producer pacing from consumer pacing. Must be >= 0.
	ExtraBuffer int

	// What publish does when the buffer is full.
	// The zero value is [Suspend].
	OnFull Overflow
}

// New returns a Stream with the given configuration.
//
// Replay and ExtraBuffer must both be non-negative.
// A drop policy requires at least one slot of total capacity;
// Replay=0 with ExtraBuffer=0 is only meaningful under [Suspend],
// where the stream degenerates to a single-slot rendezvous channel.
func New[T any](log *slog.Logger, cfg Config[T]) (*Stream[T], error) {
	if cfg.Replay < 0 {
		return nil, InvalidConfigError{
			Reason: fmt.Sprintf("Replay must be non-negative (got %d)", cfg.Replay),
		}
	}
	if cfg.ExtraBuffer < 0 {
		return nil, InvalidConfigError{
			Reason: fmt.Sprintf("ExtraBuffer must be non-negative (got %d)", cfg.ExtraBuffer),
		}
	}
	if cfg.OnFull != Suspend && cfg.Replay == 0 && cfg.ExtraBuffer == 0 {
		return nil, InvalidConfigError{
			Reason: fmt.Sprintf(
				"%v policy requires Replay or ExtraBuffer to be positive", cfg.OnFull,
			),
		}
	}

	return &Stream[T]{
		log: log,

		replay: cfg.Replay,
		extra:  cfg.ExtraBuffer,
		onFull: cfg.OnFull,

		cur: cfg.Initial,

		subs:   make(map[*cursor]struct{}),
		change: make(chan struct{}),

		nSubs: fwatch.NewCell(0),
	}, nil
}

// Value returns the current value.
// It never blocks and requires no subscription.
func (s *Stream[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.cur
}

// ReplayCache returns a copy of the replay window, oldest to newest:
// the values a subscriber attaching right now would have replayed.
func (s *Stream[T]) ReplayCache() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.replayLen == 0 {
		return nil
	}

	out := make([]T, s.replayLen)
	copy(out, s.buf[len(s.buf)-s.replayLen:])
	return out
}

// ResetReplayCache empties the replay window without touching the current value.
//
// Subscribers already attached are unaffected:
// values they have not yet consumed remain buffered for them.
// Subscribers attaching afterwards see empty history
// and therefore receive the current value as their first item.
func (s *Stream[T]) ResetReplayCache() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.replayLen = 0
	s.evictLocked()
	s.wakeLocked()
}

// Reset sets the current value to v and empties the replay window,
// atomically with respect to concurrent attaches:
// a new subscriber observes either the old value with the old window,
// or v with no history, never a mix.
func (s *Stream[T]) Reset(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cur = v
	s.replayLen = 0
	s.evictLocked()
	s.wakeLocked()
}

// Subscribers returns the live subscriber count as a watchable cell.
// The latest count is immediately visible to a new observer,
// and observers can watch the cell for subsequent changes.
func (s *Stream[T]) Subscribers() *fwatch.Cell[int] {
	return s.nSubs
}

// tailSeq is the sequence number the next published value will take.
func (s *Stream[T]) tailSeq() uint64 {
	return s.headSeq + uint64(len(s.buf))
}

// replayStart is the sequence number of the oldest replayable value.
func (s *Stream[T]) replayStart() uint64 {
	return s.tailSeq() - uint64(s.replayLen)
}

// minCursor returns the smallest read position among attached subscribers,
// or the tail sequence if there are none.
func (s *Stream[T]) minCursor() uint64 {
	min := s.tailSeq()
	for c := range s.subs {
		if c.next < min {
			min = c.next
		}
	}
	return min
}

// evictLocked discards buffered values that are outside the replay window
// and already consumed by every attached subscriber.
// It reports whether anything was evicted.
func (s *Stream[T]) evictLocked() bool {
	cut := s.minCursor()
	if rs := s.replayStart(); rs < cut {
		cut = rs
	}

	evicted := false
	for len(s.buf) > 0 && s.headSeq < cut {
		s.popFrontLocked()
		evicted = true
	}
	return evicted
}

// popFrontLocked removes the oldest buffered value,
// clearing the slot so the value can be collected.
func (s *Stream[T]) popFrontLocked() {
	var zero T
	s.buf[0] = zero
	s.buf = s.buf[1:]
	s.headSeq++

	if s.replayLen > len(s.buf) {
		s.replayLen = len(s.buf)
	}
}

// wakeLocked notifies every waiter of a state change
// by closing the current change channel and installing a fresh one.
func (s *Stream[T]) wakeLocked() {
	close(s.change)
	s.change = make(chan struct{})
}
