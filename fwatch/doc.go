// Package fwatch contains a minimal watchable value cell.
//
// The [Cell] type holds a single value that many goroutines
// may read, replace, and watch for changes.
// It backs observable scalar state such as
// a stream's live subscriber count.
package fwatch
