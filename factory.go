package lapwatch

import (
	"time"

	"github.com/lapwatch/lapwatch-go/seq"
	"github.com/lapwatch/lapwatch-go/timesource"
)

// New creates a Stopwatch. Unless configured otherwise it runs on the
// monotonic clock, starts immediately and renders reports in
// hours:minutes:seconds form.
func New(opts ...Option) (*Stopwatch, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if err := validateFormat(o.report.format, o.report.hms); err != nil {
		return nil, err
	}
	src := o.src
	if src == nil {
		var err error
		src, err = timesource.New(o.kind, o.clk)
		if err != nil {
			return nil, err
		}
	}
	sw := &Stopwatch{
		src:      src,
		clk:      o.clk,
		out:      o.out,
		defaults: o.report,
	}
	sw.Reset(!o.paused)
	return sw, nil
}

// Checkpoint creates a one-off stopwatch and returns its bound Check
// function. Each call of the returned function reports the time passed
// since Checkpoint was called.
func Checkpoint(opts ...Option) (func(opts ...CallOption) Report, error) {
	sw, err := New(opts...)
	if err != nil {
		return nil, err
	}
	return sw.Check, nil
}

// NewTimedLoop creates a fresh stopwatch and returns a time-bounded
// loop over src. See Stopwatch.TimedLoop.
func NewTimedLoop(src seq.Seq, budget time.Duration, policy CutoffPolicy, opts ...LoopOption) (*Loop, error) {
	sw, err := New()
	if err != nil {
		return nil, err
	}
	return sw.TimedLoop(src, budget, policy, opts...)
}
