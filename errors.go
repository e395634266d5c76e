package flume

import (
	"errors"
	"fmt"
)

// ErrDetach is returned by a subscriber's sink
// to end its subscription normally.
// [*Stream.Subscribe] treats it as a clean exit and returns nil.
var ErrDetach = errors.New("subscriber requested detach")

// InvalidConfigError is returned from [New]
// if the given [Config] cannot describe a usable stream.
type InvalidConfigError struct {
	Reason string
}

func (e InvalidConfigError) Error() string {
	return "invalid stream config: " + e.Reason
}

// UnsupportedOperationError is returned from operations
// that a restricted stream variant deliberately does not support,
// so that misuse is caught at the call site instead of silently no-opping.
type UnsupportedOperationError struct {
	Op      string
	Variant string
}

func (e UnsupportedOperationError) Error() string {
	return fmt.Sprintf("operation %s is not supported on a %s", e.Op, e.Variant)
}
