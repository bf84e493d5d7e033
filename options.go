package lapwatch

import (
	"io"
	"os"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/lapwatch/lapwatch-go/timesource"
)

// ProcessFunc transforms a measured duration into a custom report value.
// When configured it supersedes numeric, clock-style and format settings.
type ProcessFunc func(time.Duration) interface{}

type reportOptions struct {
	numeric bool
	hms     bool
	format  string
	process ProcessFunc
}

func (ro reportOptions) resolvedFormat() string {
	if ro.format != "" {
		return ro.format
	}
	if ro.hms {
		return defaultHMSFormat
	}
	return defaultSecondsFormat
}

type options struct {
	paused bool
	kind   timesource.Kind
	src    timesource.Source
	clk    clock.Clock
	out    io.Writer
	report reportOptions
}

func defaultOptions() options {
	return options{
		kind:   timesource.PerfCounter,
		clk:    clock.New(),
		out:    os.Stdout,
		report: reportOptions{hms: true},
	}
}

// Option configures a new Stopwatch.
type Option func(*options)

// StartPaused creates the stopwatch paused instead of running.
func StartPaused() Option {
	return func(o *options) {
		o.paused = true
	}
}

// WithTimeSource selects the built-in reading source to run on.
func WithTimeSource(kind timesource.Kind) Option {
	return func(o *options) {
		o.kind = kind
	}
}

// WithSource injects a concrete reading source, overriding the kind.
func WithSource(src timesource.Source) Option {
	return func(o *options) {
		o.src = src
	}
}

// WithClock injects the wall clock used for timestamps.
func WithClock(c clock.Clock) Option {
	return func(o *options) {
		if c != nil {
			o.clk = c
		}
	}
}

// WithWriter sets the sink for printed report lines.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

// WithNumeric sets the instance default for numeric reporting.
func WithNumeric(on bool) Option {
	return func(o *options) {
		o.report.numeric = on
	}
}

// WithHMS sets the instance default for clock-style reporting in hours,
// minutes and seconds.
func WithHMS(on bool) Option {
	return func(o *options) {
		o.report.hms = on
	}
}

// WithFormat sets the instance default report format. The format
// receives three floating-point fields for clock-style reports and one
// for plain-seconds reports.
func WithFormat(format string) Option {
	return func(o *options) {
		o.report.format = format
	}
}

// WithProcess sets the instance default process function.
func WithProcess(fn ProcessFunc) Option {
	return func(o *options) {
		o.report.process = fn
	}
}

type callOptions struct {
	autoPause bool
	autoStart bool
	skipLog   bool
	echo      bool
	overrides []func(*reportOptions)
}

func newCallOptions(opts []CallOption) *callOptions {
	c := &callOptions{}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CallOption adjusts a single report-producing call.
type CallOption func(*callOptions)

// AutoPause pauses the stopwatch at the start of the call.
// When combined with AutoStart, the pause is applied first and the two
// net out to a running stopwatch.
func AutoPause() CallOption {
	return func(c *callOptions) {
		c.autoPause = true
	}
}

// AutoStart resumes the stopwatch at the start of the call.
func AutoStart() CallOption {
	return func(c *callOptions) {
		c.autoStart = true
	}
}

// SkipLog computes the lap without committing it to the lap record.
func SkipLog() CallOption {
	return func(c *callOptions) {
		c.skipLog = true
	}
}

// Echo prints the report line to the stopwatch writer in addition to
// returning it.
func Echo() CallOption {
	return func(c *callOptions) {
		c.echo = true
	}
}

// Numeric overrides the numeric reporting default for this call.
func Numeric(on bool) CallOption {
	return func(c *callOptions) {
		c.overrides = append(c.overrides, func(ro *reportOptions) {
			ro.numeric = on
		})
	}
}

// HMS overrides the clock-style reporting default for this call.
func HMS(on bool) CallOption {
	return func(c *callOptions) {
		c.overrides = append(c.overrides, func(ro *reportOptions) {
			ro.hms = on
		})
	}
}

// Format overrides the report format for this call.
func Format(format string) CallOption {
	return func(c *callOptions) {
		c.overrides = append(c.overrides, func(ro *reportOptions) {
			ro.format = format
		})
	}
}

// Process overrides the process function for this call.
func Process(fn ProcessFunc) CallOption {
	return func(c *callOptions) {
		c.overrides = append(c.overrides, func(ro *reportOptions) {
			ro.process = fn
		})
	}
}

type loopOptions struct {
	chunkSize int
	verbose   bool
}

func newLoopOptions(opts []LoopOption) loopOptions {
	o := loopOptions{chunkSize: 1}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// LoopOption configures a loop producer.
type LoopOption func(*loopOptions)

// ChunkSize sets how many elements each lap covers. Default is 1.
func ChunkSize(n int) LoopOption {
	return func(o *loopOptions) {
		o.chunkSize = n
	}
}

// Verbose prints the loop summary and a split line per chunk.
func Verbose() LoopOption {
	return func(o *loopOptions) {
		o.verbose = true
	}
}
