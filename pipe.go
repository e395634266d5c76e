package flume

import "context"

// Pump starts a background goroutine that reads values from ch
// and publishes them to s, honoring s's overflow policy.
//
// The returned done channel is closed when the goroutine stops,
// which happens on context cancellation or
// if the given channel is closed.
func Pump[T any](ctx context.Context, s *Stream[T], ch <-chan T) (done <-chan struct{}) {
	doneCh := make(chan struct{})

	go pump(ctx, s, ch, doneCh)

	return doneCh
}

func pump[T any](
	ctx context.Context,
	s *Stream[T],
	ch <-chan T,
	done chan<- struct{},
) {
	defer close(done)

	for {
		select {
		case <-ctx.Done():
			return

		case v, ok := <-ch:
			if !ok {
				return
			}
			if err := s.Publish(ctx, v); err != nil {
				// Only context cancellation can interrupt a publish.
				return
			}
		}
	}
}

// Recv subscribes to r in a background goroutine
// and forwards every delivered value to the returned channel,
// which has the given buffer size.
// The channel is closed when the subscription ends,
// normally on context cancellation.
func Recv[T any](ctx context.Context, r Reader[T], buf int) <-chan T {
	out := make(chan T, buf)

	go func() {
		defer close(out)

		_ = r.Subscribe(ctx, func(v T) error {
			select {
			case out <- v:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}()

	return out
}
