package ftest

import (
	"testing"
	"time"
)

// SoonTimeout is the timeout used by the "soon" helpers,
// long enough to absorb scheduler jitter on a loaded machine
// while keeping genuinely stuck tests from hanging.
const SoonTimeout = 5 * time.Second

// SendSoon sends v on ch, failing t if the send does not
// complete within the helper timeout.
func SendSoon[T any](t *testing.T, ch chan<- T, v T) {
	t.Helper()

	timer := time.NewTimer(SoonTimeout)
	defer timer.Stop()

	select {
	case ch <- v:
		// Okay.
	case <-timer.C:
		t.Fatalf("failed to send value %v within %s", v, SoonTimeout)
	}
}

// ReceiveSoon receives a value from ch, failing t if nothing
// arrives within the helper timeout.
func ReceiveSoon[T any](t *testing.T, ch <-chan T) T {
	t.Helper()

	timer := time.NewTimer(SoonTimeout)
	defer timer.Stop()

	select {
	case v := <-ch:
		return v
	case <-timer.C:
		t.Fatalf("failed to receive within %s", SoonTimeout)
		panic("unreachable")
	}
}

// IsSending asserts that ch has a value ready right now.
func IsSending[T any](t *testing.T, ch <-chan T) T {
	t.Helper()

	select {
	case v := <-ch:
		return v
	default:
		t.Fatal("expected channel to have a value ready, but it did not")
		panic("unreachable")
	}
}

// NotSending asserts that ch has no value ready right now.
func NotSending[T any](t *testing.T, ch <-chan T) {
	t.Helper()

	select {
	case v := <-ch:
		t.Fatalf("expected channel to be empty, but received %v", v)
	default:
		// Okay.
	}
}
