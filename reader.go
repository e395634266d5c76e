package flume

import "context"

// Reader is the narrow, consume-only view of a value stream.
// Both [*Stream] and [*Latest] satisfy it.
type Reader[T any] interface {
	// Subscribe attaches a subscriber and delivers values to sink
	// until the subscription ends. See [*Stream.Subscribe].
	Subscribe(ctx context.Context, sink func(T) error) error
}

// ValueOr returns the stream's live current value
// if the concrete type behind r exposes one, else def.
//
// The check is a capability check against the concrete type,
// so code holding only a Reader can opportunistically read
// a current value without knowing statically whether one exists.
// It fails closed: an r without the capability yields def.
func ValueOr[T any](r Reader[T], def T) T {
	type valuer interface {
		Value() T
	}

	if v, ok := r.(valuer); ok {
		return v.Value()
	}
	return def
}
