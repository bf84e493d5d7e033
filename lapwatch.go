// Package lapwatch implements a stopwatch for measuring elapsed time
// inside a running program. A Stopwatch accounts active time across
// pause and resume cycles, splits laps, reports periodically after a
// number of hits, times function calls, supervises time-bounded loops
// and summarizes lap statistics.
//
// A Stopwatch is not safe for concurrent use. All timing side effects
// of the loop producers run on the consumer goroutine, between element
// deliveries.
package lapwatch

import "github.com/pkg/errors"

var (
	// ErrInvalidFormat is returned for a report format whose verb count
	// does not match the selected rendering mode.
	ErrInvalidFormat = errors.New("lapwatch: invalid report format")
	// ErrInvalidAfter is returned when a hit-gated operation is called
	// with a threshold below one.
	ErrInvalidAfter = errors.New("lapwatch: after must be at least 1")
	// ErrInvalidChunkSize is returned for a loop chunk size below one.
	ErrInvalidChunkSize = errors.New("lapwatch: chunk size must be at least 1")
	// ErrInvalidCutoff is returned for an unknown cutoff policy.
	ErrInvalidCutoff = errors.New("lapwatch: unknown cutoff policy")
	// ErrInsufficientData is returned when a statistic needs more laps
	// than have been recorded.
	ErrInsufficientData = errors.New("lapwatch: not enough laps")
	// ErrNilTarget is returned when Sync receives a nil stopwatch.
	ErrNilTarget = errors.New("lapwatch: nil stopwatch target")
)
