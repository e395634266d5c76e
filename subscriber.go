package flume

import (
	"context"
	"errors"
)

// Subscribe attaches a subscriber and delivers values to sink,
// in publish order, until the subscription ends.
// It is a long-running call, not a single call-return:
// it blocks for the lifetime of the subscription.
//
// Delivery starts with the oldest value in the replay window.
// If the replay window is empty at attach time,
// sink first receives the current value as a synthetic item,
// so that a subscriber never waits indefinitely for initial state.
// After catching up, the subscriber receives every subsequently
// published value live, none skipped and none duplicated
// (except values force-evicted by [DropOldest] before it consumed them).
//
// The subscription ends when:
//   - sink returns [ErrDetach]: Subscribe returns nil;
//   - ctx is canceled: Subscribe returns the context's error;
//   - sink returns any other error: Subscribe returns it.
//
// Every exit decrements the subscriber count exactly once.
// Subscribers are independent: a slow subscriber under [Suspend]
// can block publishers, but never affects what other subscribers see.
func (s *Stream[T]) Subscribe(ctx context.Context, sink func(T) error) error {
	s.mu.Lock()

	c := &cursor{next: s.tailSeq()}

	var initial T
	synthetic := s.replayLen == 0
	if synthetic {
		initial = s.cur
	} else {
		c.next = s.replayStart()
	}

	s.subs[c] = struct{}{}
	s.nSubs.Set(len(s.subs))
	s.mu.Unlock()

	defer s.detach(c)

	if err := ctx.Err(); err != nil {
		return err
	}

	if synthetic {
		if err := sink(initial); err != nil {
			return sinkResult(err)
		}
	}

	for {
		s.mu.Lock()
		for c.next < s.tailSeq() {
			// Keep cancellation prompt even when the stream
			// always has values ready.
			if err := ctx.Err(); err != nil {
				s.mu.Unlock()
				return err
			}

			v := s.buf[c.next-s.headSeq]
			c.next++

			// Advancing may free the slot a publisher is suspended on,
			// even when nothing is evicted
			// (the oldest value can stay retained for replay).
			// Waking is cheap and every waiter re-checks.
			s.evictLocked()
			s.wakeLocked()
			s.mu.Unlock()

			if err := sink(v); err != nil {
				return sinkResult(err)
			}

			s.mu.Lock()
		}

		ch := s.change
		s.mu.Unlock()

		select {
		case <-ch:
			// New values may be available; loop around.
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// detach removes the subscriber's cursor and updates the count.
// Removal can free buffered slots the cursor was pinning,
// so any suspended publisher is woken to re-check.
func (s *Stream[T]) detach(c *cursor) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.subs, c)
	s.nSubs.Set(len(s.subs))
	s.evictLocked()
	s.wakeLocked()
}

// sinkResult maps a sink error to the Subscribe return value:
// a requested detach is a normal exit, anything else is a failure.
func sinkResult(err error) error {
	if errors.Is(err, ErrDetach) {
		return nil
	}
	return err
}
