package lapwatch

import (
	"io"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"

	"github.com/lapwatch/lapwatch-go/timesource"
)

const (
	timestampLayout     = "2006-01-02 15:04:05"
	timestampLayoutLong = "Monday January 02, 2006 15:04:05"
)

// Stopwatch measures elapsed active time on a reading source.
// Pausing stops the clock for totals and laps alike; resuming nets the
// paused interval out. Use New to create one.
//
// A Stopwatch must not be used from multiple goroutines at once.
type Stopwatch struct {
	src      timesource.Source
	clk      clock.Clock
	out      io.Writer
	defaults reportOptions

	start     time.Duration
	split     time.Duration
	paused    bool
	pausedAt  time.Duration
	offset    time.Duration
	lapOffset time.Duration
	laps      []time.Duration
	hits      int
	lastLap   time.Duration
	lastCheck time.Duration
	breakLoop bool
}

// reading is the current instant: the live source reading while
// running, the captured reading while paused.
func (sw *Stopwatch) reading() time.Duration {
	if sw.paused {
		return sw.pausedAt
	}
	return sw.src.Reading()
}

// Active returns true while the stopwatch is running.
func (sw *Stopwatch) Active() bool {
	return !sw.paused
}

// Paused returns true while the stopwatch is paused.
func (sw *Stopwatch) Paused() bool {
	return sw.paused
}

// Source returns the reading source the stopwatch runs on.
func (sw *Stopwatch) Source() timesource.Source {
	return sw.src
}

// Pause stops the clock for both totals and laps.
// Pausing an already paused stopwatch does nothing.
func (sw *Stopwatch) Pause() {
	if sw.paused {
		return
	}
	sw.pausedAt = sw.src.Reading()
	sw.paused = true
}

// Start resumes a paused stopwatch, netting the paused interval out of
// both the total and the current lap. Starting a running stopwatch
// does nothing.
func (sw *Stopwatch) Start() {
	if !sw.paused {
		return
	}
	idle := sw.src.Reading() - sw.pausedAt
	sw.offset += idle
	sw.lapOffset += idle
	sw.paused = false
}

// Reset reinitializes the stopwatch: elapsed time, laps, hits and the
// loop break flag are cleared. The stopwatch comes back running when
// active is true, paused otherwise.
func (sw *Stopwatch) Reset(active bool) {
	sw.resetAt(active, sw.src.Reading(), 0)
}

func (sw *Stopwatch) resetAt(active bool, start, offset time.Duration) {
	sw.start = start
	sw.split = start
	sw.paused = !active
	if sw.paused {
		sw.pausedAt = start
	}
	sw.offset = offset
	sw.lapOffset = 0
	sw.laps = nil
	sw.hits = 0
	sw.lastLap = 0
	sw.lastCheck = 0
	sw.breakLoop = false
}

func (sw *Stopwatch) applyAuto(c *callOptions) {
	if c.autoPause {
		sw.Pause()
	}
	if c.autoStart {
		sw.Start()
	}
	c.autoPause = false
	c.autoStart = false
}

// checkAt computes the total elapsed active time at the given reading
// and caches it.
func (sw *Stopwatch) checkAt(stamp time.Duration) time.Duration {
	sw.lastCheck = stamp - sw.start - sw.offset
	return sw.lastCheck
}

// Elapsed returns the total elapsed active time as a raw duration.
func (sw *Stopwatch) Elapsed() time.Duration {
	return sw.checkAt(sw.reading())
}

// Check reports the total elapsed active time.
func (sw *Stopwatch) Check(opts ...CallOption) Report {
	return sw.check(newCallOptions(opts))
}

func (sw *Stopwatch) check(c *callOptions) Report {
	sw.applyAuto(c)
	rep := newReport(sw.checkAt(sw.reading()), sw.resolveReport(c))
	if c.echo {
		sw.writeLine(rep.String())
	}
	return rep
}

// Lap splits the current lap and reports its duration. The lap is
// committed to the lap record while the stopwatch is running, or while
// paused if the lap duration is positive; SkipLog suppresses the
// commit. The returned report always carries the computed duration.
func (sw *Stopwatch) Lap(opts ...CallOption) Report {
	lap, _ := sw.lapWithTotal(newCallOptions(opts))
	return lap
}

// LapWithTotal splits like Lap and additionally reports the total
// elapsed active time, computed at the same reading as the lap.
func (sw *Stopwatch) LapWithTotal(opts ...CallOption) (lap, total Report) {
	return sw.lapWithTotal(newCallOptions(opts))
}

func (sw *Stopwatch) lapWithTotal(c *callOptions) (Report, Report) {
	sw.applyAuto(c)
	ref := sw.reading()
	lapDur := ref - sw.split - sw.lapOffset
	if !c.skipLog && (!sw.paused || lapDur > 0) {
		sw.laps = append(sw.laps, lapDur)
		sw.lastLap = lapDur
		sw.split = ref
		sw.lapOffset = 0
	}
	ro := sw.resolveReport(c)
	lap := newReport(lapDur, ro)
	total := newReport(sw.checkAt(ref), ro)
	if c.echo {
		sw.writef("Lap Time: %s; \tTotal Time: %s", lap, total)
	}
	return lap, total
}

// CheckAfter counts a hit and, once the hit count reaches a multiple
// of after, reports the total elapsed active time. Calls in between
// return nil. An after below one fails.
func (sw *Stopwatch) CheckAfter(after int, opts ...CallOption) (*Report, error) {
	if after < 1 {
		return nil, errors.Wrapf(ErrInvalidAfter, "after %d", after)
	}
	c := newCallOptions(opts)
	sw.applyAuto(c)
	sw.AddHits(1)
	if sw.hits%after != 0 {
		return nil, nil
	}
	rep := sw.check(c)
	return &rep, nil
}

// LapAfter counts a hit and, once the hit count reaches a multiple of
// after, splits like Lap and reports the lap. Calls in between return
// nil. An after below one fails.
func (sw *Stopwatch) LapAfter(after int, opts ...CallOption) (*Report, error) {
	if after < 1 {
		return nil, errors.Wrapf(ErrInvalidAfter, "after %d", after)
	}
	c := newCallOptions(opts)
	sw.applyAuto(c)
	sw.AddHits(1)
	if sw.hits%after != 0 {
		return nil, nil
	}
	echo := c.echo
	c.echo = false
	lap, total := sw.lapWithTotal(c)
	if echo {
		sw.writef("Hits: %d; \tLap Time: %s; \tTotal Time: %s", sw.hits, lap, total)
	}
	return &lap, nil
}

// Hit increases the hit count by one.
func (sw *Stopwatch) Hit() {
	sw.AddHits(1)
}

// AddHits increases the hit count by n.
func (sw *Stopwatch) AddHits(n int) {
	sw.hits += n
}

// Hits returns the hit count.
func (sw *Stopwatch) Hits() int {
	return sw.hits
}

// ResetHits sets the hit count back to zero.
func (sw *Stopwatch) ResetHits() {
	sw.hits = 0
}

// Sync resets each target to this stopwatch's activity state, epoch
// reading and pause offset, so subsequent checks agree. Targets should
// run on the same reading source, or sources sharing a timeline. A nil
// target fails immediately; targets already processed keep their sync.
func (sw *Stopwatch) Sync(targets ...*Stopwatch) error {
	for i, target := range targets {
		if target == nil {
			return errors.Wrapf(ErrNilTarget, "sync target %d", i)
		}
		target.resetAt(!sw.paused, sw.start, sw.offset)
	}
	return nil
}

// Now returns the current wall-clock time as "2006-01-02 15:04:05".
func (sw *Stopwatch) Now() string {
	return sw.clk.Now().Format(timestampLayout)
}

// NowLong returns the current wall-clock time in long form, like
// "Monday January 02, 2006 15:04:05".
func (sw *Stopwatch) NowLong() string {
	return sw.clk.Now().Format(timestampLayoutLong)
}

// String renders the total elapsed active time with the instance
// report settings.
func (sw *Stopwatch) String() string {
	return sw.Check().String()
}

func (sw *Stopwatch) resolveReport(c *callOptions) reportOptions {
	ro := sw.defaults
	for _, override := range c.overrides {
		override(&ro)
	}
	return ro
}
