// Package flume contains an in-process, multicast, replayable value stream.
//
// The [Stream] type blends a state cell with a broadcast queue:
// it always holds a current value readable without subscribing,
// while every attached subscriber independently observes
// the full sequence of published values, in publish order,
// optionally preceded by a bounded window of replayed history.
//
// Producers choose their backpressure behavior at construction
// through an [Overflow] policy: suspend until a slot frees,
// evict the oldest buffered value, or discard the newest.
package flume
