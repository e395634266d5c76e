package flume

import "context"

// Publish appends v to the stream.
//
// On acceptance, v becomes the current value
// and is delivered to every attached subscriber in publish order.
//
// When the buffer is full under the [Suspend] policy,
// Publish blocks until a subscriber frees the oldest slot
// or ctx is canceled, in which case v is not published
// and the context's error is returned.
// A publish whose context is already canceled
// returns the context's error without publishing,
// whether or not a slot is free.
// Under the drop policies Publish never blocks;
// note that a [DropLatest] discard still returns nil,
// leaving the current value unchanged.
func (s *Stream[T]) Publish(ctx context.Context, v T) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	for {
		if s.tryInsertLocked(v) {
			s.mu.Unlock()
			return nil
		}

		// Full buffer under Suspend: wait for a slot to free.
		ch := s.change
		s.mu.Unlock()

		select {
		case <-ch:
			// State changed; retry.
		case <-ctx.Done():
			return ctx.Err()
		}

		s.mu.Lock()
	}
}

// TryPublish is Publish without suspension.
//
// Under [Suspend] with a full buffer it immediately returns false,
// leaving the current value and replay window untouched;
// the caller retains v and may retry.
// Under [DropOldest] and [DropLatest] it always returns true,
// with the same acceptance semantics as [*Stream.Publish].
func (s *Stream[T]) TryPublish(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.tryInsertLocked(v)
}

// tryInsertLocked attempts to append v under the stream's overflow policy.
//
// It reports whether the publish finished,
// either because v entered the buffer
// or because a drop policy resolved it without insertion.
// False means Suspend with a full buffer,
// where the caller must wait and retry.
func (s *Stream[T]) tryInsertLocked(v T) bool {
	// With no attached subscribers this never overflows:
	// eviction reduces the buffer to the replay window,
	// and the replay window alone never triggers the policy.
	s.evictLocked()

	if !s.overflowingLocked() {
		s.insertLocked(v)
		return true
	}

	switch s.onFull {
	case DropOldest:
		s.dropOldestLocked()
		s.insertLocked(v)
		return true

	case DropLatest:
		// The new value is the one discarded.
		// It must not become the current value.
		s.noteDropLocked("newest value discarded")
		return true

	default:
		return false
	}
}

// overflowingLocked reports whether a publish must apply the overflow policy.
//
// That is the case only when the buffer has no free slot
// AND the slowest subscriber has not yet reached the replay window;
// occupancy by the replay window alone never counts as overflow,
// because inserting then lets the oldest replayed value rotate out.
// Zero configured capacity still admits a single in-flight value,
// which is what makes the degenerate Suspend configuration a rendezvous.
func (s *Stream[T]) overflowingLocked() bool {
	limit := s.replay + s.extra
	if limit == 0 {
		limit = 1
	}
	return len(s.buf) >= limit && s.minCursor() <= s.replayStart()
}

// insertLocked appends v, grows the replay window up to its capacity,
// sets the current value, rotates out values no longer retained,
// and wakes waiting subscribers.
func (s *Stream[T]) insertLocked(v T) {
	s.buf = append(s.buf, v)
	if s.replayLen < s.replay {
		s.replayLen++
	}
	s.cur = v
	s.evictLocked()
	s.wakeLocked()
}

// dropOldestLocked force-evicts the oldest buffered value,
// advancing any subscriber cursor that had not yet consumed it.
// Those subscribers lose that value.
func (s *Stream[T]) dropOldestLocked() {
	s.popFrontLocked()
	for c := range s.subs {
		if c.next < s.headSeq {
			c.next = s.headSeq
		}
	}
	s.noteDropLocked("oldest value evicted")
}

// noteDropLocked accounts for a forced drop,
// warning at most once per 100 drops to avoid flooding the log.
func (s *Stream[T]) noteDropLocked(reason string) {
	s.drops++
	if s.drops%100 == 1 {
		s.log.Warn(
			"Buffer full, dropping values",
			"policy", s.onFull,
			"reason", reason,
			"drops", s.drops,
		)
	}
}
