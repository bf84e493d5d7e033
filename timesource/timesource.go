// Package timesource provides the reading sources a stopwatch can run on.
// A Source exposes instants on its own timeline; only differences between
// readings are meaningful.
package timesource

import (
	"os"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/lapwatch/lapwatch-go/logger"
)

// ErrUnsupportedKind is returned for a Kind this package does not know.
var ErrUnsupportedKind = errors.New("timesource: unsupported kind")

type (
	// Source supplies readings for elapsed-time accounting.
	Source interface {
		// Reading returns the current instant on the source timeline.
		Reading() time.Duration
	}

	// Func is an adapter allowing a plain function to act as a Source.
	Func func() time.Duration

	// Kind identifies a built-in reading source.
	Kind int8
)

// Reading calls f.
func (f Func) Reading() time.Duration {
	return f()
}

const (
	// PerfCounter reads the runtime monotonic clock at its highest
	// available resolution.
	PerfCounter Kind = iota
	// Monotonic also reads the runtime monotonic clock. Go exposes a
	// single monotonic clock, so this is an alias of PerfCounter kept
	// for source-selection compatibility.
	Monotonic
	// ProcessCPU reads the CPU time (user plus system) consumed by the
	// current process. Sleeping does not advance it.
	ProcessCPU
	// Wall reads the wall clock. Subject to clock adjustments.
	Wall
)

var kindNames = map[Kind]string{
	PerfCounter: "perf_counter",
	Monotonic:   "monotonic",
	ProcessCPU:  "process",
	Wall:        "wall",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind converts a source name to its Kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return 0, errors.Wrapf(ErrUnsupportedKind, "parse %q", s)
}

// New creates a Source of the given kind.
// Monotonic kinds take their origin from c at construction, so readings
// start near zero. ProcessCPU and Wall ignore c for readings.
func New(kind Kind, c clock.Clock) (Source, error) {
	if c == nil {
		c = clock.New()
	}
	switch kind {
	case PerfCounter, Monotonic:
		return &monotonicSource{clk: c, origin: c.Now()}, nil
	case ProcessCPU:
		proc, err := process.NewProcess(int32(os.Getpid()))
		if err != nil {
			return nil, errors.Wrap(err, "timesource: open process handle")
		}
		return &processSource{proc: proc}, nil
	case Wall:
		return wallSource{clk: c}, nil
	default:
		return nil, errors.Wrapf(ErrUnsupportedKind, "kind %d", kind)
	}
}

type monotonicSource struct {
	clk    clock.Clock
	origin time.Time
}

func (s *monotonicSource) Reading() time.Duration {
	return s.clk.Now().Sub(s.origin)
}

type wallSource struct {
	clk clock.Clock
}

func (s wallSource) Reading() time.Duration {
	return time.Duration(s.clk.Now().UnixNano())
}

type processSource struct {
	proc *process.Process
	last time.Duration
}

// Reading returns the process CPU time consumed so far.
// A failed poll keeps the timeline monotonic: it logs and returns the
// previous reading.
func (s *processSource) Reading() time.Duration {
	times, err := s.proc.Times()
	if err != nil {
		logger.Warnf("process cpu reading failed: %s\n", err)
		return s.last
	}
	d := time.Duration((times.User + times.System) * float64(time.Second))
	if d > s.last {
		s.last = d
	}
	return s.last
}
