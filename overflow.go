package flume

import "fmt"

// Overflow is the policy applied on publish
// when the stream's buffer (replay window plus extra capacity) is full.
type Overflow uint8

const (
	// Suspend blocks the publishing goroutine
	// until a subscriber advances past the oldest buffered value.
	// This is the default policy.
	Suspend Overflow = iota

	// DropOldest evicts the oldest buffered value to make room,
	// so publish always succeeds immediately.
	// Subscribers that had not yet consumed the evicted value lose it.
	DropOldest

	// DropLatest discards the newly published value when full.
	// The publish still reports success,
	// but the discarded value never becomes the current value
	// and is never delivered to any subscriber.
	DropLatest
)

func (o Overflow) String() string {
	switch o {
	case Suspend:
		return "suspend"
	case DropOldest:
		return "drop-oldest"
	case DropLatest:
		return "drop-latest"
	default:
		return fmt.Sprintf("unknown-overflow(%d)", uint8(o))
	}
}
