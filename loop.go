package lapwatch

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"

	"github.com/lapwatch/lapwatch-go/logger"
	"github.com/lapwatch/lapwatch-go/seq"
)

// CutoffPolicy decides how a time-bounded loop stops.
type CutoffPolicy int8

const (
	// CutoffOvertime stops after the budget has been exceeded.
	CutoffOvertime CutoffPolicy = iota
	// CutoffLastLap stops early when the last lap predicts an overrun.
	CutoffLastLap
	// CutoffMeanLap stops early when the mean lap predicts an overrun.
	CutoffMeanLap
	// CutoffMedianLap stops early when the median lap predicts an
	// overrun.
	CutoffMedianLap
	// CutoffMaxLap stops early when the longest lap predicts an
	// overrun.
	CutoffMaxLap
	// CutoffEwmaLap stops early when an exponentially weighted moving
	// average of the laps predicts an overrun.
	CutoffEwmaLap
)

func (p CutoffPolicy) String() string {
	switch p {
	case CutoffOvertime:
		return "overtime"
	case CutoffLastLap:
		return "lastlap"
	case CutoffMeanLap:
		return "meanlap"
	case CutoffMedianLap:
		return "medianlap"
	case CutoffMaxLap:
		return "maxlap"
	case CutoffEwmaLap:
		return "ewmalap"
	default:
		return "unknown"
	}
}

// Loop is a lap-committing sequence producer. It yields the elements
// of its source in order and commits one lap per chunk; a time-bounded
// loop additionally stops once its budget is spent. A Loop is lazy,
// single-pass and not restartable.
type Loop struct {
	sw      *Stopwatch
	src     seq.Seq
	chunks  *seq.Chunks
	size    int
	verbose bool

	timed  bool
	budget time.Duration
	policy CutoffPolicy

	started    bool
	finished   bool
	chunk      []interface{}
	pos        int
	chunkStart int
	chunkOpen  bool
	yielded    int
}

var _ seq.Seq = (*Loop)(nil)

// LoopTimer returns a loop over src committing one lap per chunk of
// consumed elements. The stopwatch is reset when the first element is
// pulled; each chunk's lap closes strictly after its last consumed
// element and before the next chunk's first. With Verbose the loop
// prints a summary line, one split line per chunk and a closing line.
func (sw *Stopwatch) LoopTimer(src seq.Seq, opts ...LoopOption) (*Loop, error) {
	o := newLoopOptions(opts)
	if o.chunkSize < 1 {
		return nil, errors.Wrapf(ErrInvalidChunkSize, "chunk size %d", o.chunkSize)
	}
	return &Loop{
		sw:      sw,
		src:     src,
		chunks:  seq.ChunksOf(src, o.chunkSize),
		size:    o.chunkSize,
		verbose: o.verbose,
	}, nil
}

// TimedLoop returns a loop over src bounded by a time budget. A nil
// src iterates the infinite counter 0, 1, 2, ... until time is up.
// CutoffOvertime stops the loop once elapsed time reaches the budget;
// the other policies predict the next chunk from a lap statistic and
// stop early when it would overrun. Expiration is checked once per
// chunk of consumed elements.
func (sw *Stopwatch) TimedLoop(src seq.Seq, budget time.Duration, policy CutoffPolicy, opts ...LoopOption) (*Loop, error) {
	switch policy {
	case CutoffOvertime, CutoffLastLap, CutoffMeanLap, CutoffMedianLap, CutoffMaxLap, CutoffEwmaLap:
	default:
		return nil, errors.Wrapf(ErrInvalidCutoff, "policy %d", policy)
	}
	if src == nil {
		src = seq.Ints()
	}
	loop, err := sw.LoopTimer(src, opts...)
	if err != nil {
		return nil, err
	}
	loop.timed = true
	loop.budget = budget
	loop.policy = policy
	return loop, nil
}

// Break tells the loop to stop: the next pull commits the lap in
// progress and ends the loop without yielding further elements.
func (l *Loop) Break() {
	l.sw.breakLoop = true
}

// Next yields the next element of the source.
// The ok result is false once the source is exhausted or, for a
// time-bounded loop, once the budget is spent.
func (l *Loop) Next() (interface{}, bool) {
	if l.finished {
		return nil, false
	}
	if !l.started {
		l.begin()
		l.started = true
	} else {
		if l.timed && (l.yielded-1)%l.size == 0 {
			l.checkExpiration()
		}
		if l.sw.breakLoop {
			l.endChunk()
			return l.finish()
		}
	}
	for {
		if l.pos < len(l.chunk) {
			v := l.chunk[l.pos]
			l.pos++
			l.yielded++
			return v, true
		}
		l.endChunk()
		chunk, ok := l.chunks.Next()
		if !ok {
			return l.finish()
		}
		l.chunk = chunk
		l.pos = 0
		l.chunkStart = l.yielded
		l.chunkOpen = true
		l.sw.Start()
	}
}

// begin runs once, on the first pull.
func (l *Loop) begin() {
	l.sw.breakLoop = false
	if l.verbose {
		if sized, ok := l.src.(seq.Sized); ok {
			items := sized.Len()
			chunks := (items + l.size - 1) / l.size
			l.sw.writef("Begin loop timer (%d items in %d chunks).", items, chunks)
		} else {
			l.sw.writeLine("Begin loop timer.")
		}
	}
	l.sw.Reset(false)
}

// endChunk commits the lap covering the elements consumed from the
// current chunk.
func (l *Loop) endChunk() {
	if !l.chunkOpen {
		return
	}
	l.chunkOpen = false
	if !l.verbose {
		l.sw.Lap()
		return
	}
	lap, total := l.sw.LapWithTotal()
	first := humanize.Comma(int64(l.chunkStart + 1))
	last := humanize.Comma(int64(l.chunkStart + l.pos))
	l.sw.writef("Items: %s - %s \tSplit time: %s \tTotal time: %s", first, last, lap, total)
}

func (l *Loop) finish() (interface{}, bool) {
	l.finished = true
	if l.verbose {
		l.sw.writeLine("End loop timer.")
	}
	return nil, false
}

// checkExpiration runs between element deliveries, once per chunk.
func (l *Loop) checkExpiration() {
	elapsed := l.sw.Elapsed()
	if l.policy == CutoffOvertime {
		if elapsed >= l.budget {
			l.sw.breakLoop = true
			logger.Debugf("timed loop expired: elapsed=%s budget=%s\n", elapsed, l.budget)
		}
		return
	}
	predicted := l.predictLap()
	if elapsed+predicted*time.Duration(l.size) > l.budget {
		l.sw.breakLoop = true
		logger.Debugf("timed loop cutoff (%s): elapsed=%s predicted=%s budget=%s\n",
			l.policy, elapsed, predicted, l.budget)
	}
}

func (l *Loop) predictLap() time.Duration {
	switch l.policy {
	case CutoffLastLap:
		return l.sw.lastLapDur()
	case CutoffMeanLap:
		return l.sw.meanLapDur()
	case CutoffMedianLap:
		return l.sw.medianLapDur()
	case CutoffMaxLap:
		return l.sw.maxLapDur()
	case CutoffEwmaLap:
		return l.sw.ewmaLapDur()
	default:
		return 0
	}
}
