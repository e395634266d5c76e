package fwatch

import "sync"

// Cell is a read-many value cell with change notifications.
// The latest value is always immediately visible to a new observer;
// there is no history or replay.
type Cell[T any] struct {
	mu  sync.Mutex
	val T

	// Closed and replaced on every Set,
	// signaling watchers that the value may have changed.
	changed chan struct{}
}

// NewCell returns a Cell holding initial.
func NewCell[T any](initial T) *Cell[T] {
	return &Cell[T]{
		val:     initial,
		changed: make(chan struct{}),
	}
}

// Load returns the current value. It never blocks.
func (c *Cell[T]) Load() T {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.val
}

// Set replaces the value and wakes all current watchers.
func (c *Cell[T]) Set(v T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.val = v
	close(c.changed)
	c.changed = make(chan struct{})
}

// Watch returns the current value together with a channel
// that is closed on the next Set.
//
// The snapshot and the signal are taken atomically,
// so a watcher looping on Watch observes every distinct state
// it is fast enough to read, and never misses the fact of a change:
//
//	for {
//		v, changed := cell.Watch()
//		use(v)
//		select {
//		case <-changed:
//		case <-ctx.Done():
//			return
//		}
//	}
func (c *Cell[T]) Watch() (T, <-chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.val, c.changed
}
