package flume_test

import (
	"context"
	"testing"
	"time"

	"github.com/windrose-engine/flume/fwatch"
	"github.com/windrose-engine/flume/internal/ftest"
)

// gate is a subscriber sink the test drives one delivery at a time.
// Each delivered value parks in the sink until the test calls release,
// which keeps the subscriber's cursor position deterministic.
type gate struct {
	delivered chan int
	proceed   chan struct{}
}

func newGate() *gate {
	return &gate{
		delivered: make(chan int),
		proceed:   make(chan struct{}),
	}
}

func (g *gate) sink(ctx context.Context) func(int) error {
	return func(v int) error {
		select {
		case g.delivered <- v:
		case <-ctx.Done():
			return ctx.Err()
		}

		select {
		case <-g.proceed:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (g *gate) next(t *testing.T) int {
	t.Helper()
	return ftest.ReceiveSoon(t, g.delivered)
}

func (g *gate) release(t *testing.T) {
	t.Helper()
	ftest.SendSoon(t, g.proceed, struct{}{})
}

// waitForCount blocks until the cell reports want,
// failing t if that does not happen within the helper timeout.
func waitForCount(t *testing.T, c *fwatch.Cell[int], want int) {
	t.Helper()

	timer := time.NewTimer(ftest.SoonTimeout)
	defer timer.Stop()

	for {
		v, changed := c.Watch()
		if v == want {
			return
		}

		select {
		case <-changed:
			// Re-check.
		case <-timer.C:
			t.Fatalf("subscriber count did not reach %d within %s (still %d)", want, ftest.SoonTimeout, v)
		}
	}
}
