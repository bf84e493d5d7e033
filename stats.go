package lapwatch

import (
	"fmt"
	"math"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/pkg/errors"

	"github.com/lapwatch/lapwatch-go/internal/common"
	"github.com/lapwatch/lapwatch-go/logger"
)

func (sw *Stopwatch) lapSeconds() []float64 {
	out := make([]float64, len(sw.laps))
	for i, lap := range sw.laps {
		out[i] = lap.Seconds()
	}
	return out
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}

// LapCount returns the number of committed laps.
func (sw *Stopwatch) LapCount() int {
	return len(sw.laps)
}

// Laps reports every committed lap in order.
func (sw *Stopwatch) Laps(opts ...CallOption) []Report {
	ro := sw.resolveReport(newCallOptions(opts))
	out := make([]Report, len(sw.laps))
	for i, lap := range sw.laps {
		out[i] = newReport(lap, ro)
	}
	return out
}

func (sw *Stopwatch) statReport(d time.Duration, opts []CallOption) Report {
	return newReport(d, sw.resolveReport(newCallOptions(opts)))
}

// LastLap reports the most recently committed lap, zero when there is
// none.
func (sw *Stopwatch) LastLap(opts ...CallOption) Report {
	return sw.statReport(sw.lastLapDur(), opts)
}

// MinLap reports the shortest committed lap, zero when there is none.
func (sw *Stopwatch) MinLap(opts ...CallOption) Report {
	return sw.statReport(sw.minLapDur(), opts)
}

// MaxLap reports the longest committed lap, zero when there is none.
func (sw *Stopwatch) MaxLap(opts ...CallOption) Report {
	return sw.statReport(sw.maxLapDur(), opts)
}

// MeanLap reports the mean of committed laps, zero when there is none.
func (sw *Stopwatch) MeanLap(opts ...CallOption) Report {
	return sw.statReport(sw.meanLapDur(), opts)
}

// MedianLap reports the median of committed laps, zero when there is
// none.
func (sw *Stopwatch) MedianLap(opts ...CallOption) Report {
	return sw.statReport(sw.medianLapDur(), opts)
}

// EwmaLap reports an exponentially weighted moving average of the
// committed laps, zero when there is none. Lap weights halve every
// ewmaHalfLife laps of age, so the average tracks recent pace.
func (sw *Stopwatch) EwmaLap(opts ...CallOption) Report {
	return sw.statReport(sw.ewmaLapDur(), opts)
}

// PercentileLap reports the pth percentile of committed laps, zero when
// there is none. A percentile the sample cannot resolve yields an
// error.
func (sw *Stopwatch) PercentileLap(p float64, opts ...CallOption) (Report, error) {
	ro := sw.resolveReport(newCallOptions(opts))
	if len(sw.laps) == 0 {
		return newReport(0, ro), nil
	}
	v, err := stats.Percentile(sw.lapSeconds(), p)
	if err != nil {
		return newReport(0, ro), errors.Wrapf(err, "lapwatch: percentile %v", p)
	}
	return newReport(secondsToDuration(v), ro), nil
}

// StdevLap reports the sample standard deviation of committed laps.
// With no laps it returns a zero report; with exactly one lap the
// statistic is undefined and ErrInsufficientData is returned.
func (sw *Stopwatch) StdevLap(opts ...CallOption) (Report, error) {
	ro := sw.resolveReport(newCallOptions(opts))
	switch len(sw.laps) {
	case 0:
		return newReport(0, ro), nil
	case 1:
		return newReport(0, ro), errors.Wrap(ErrInsufficientData, "stdev needs at least 2 laps")
	}
	v, err := stats.StandardDeviationSample(sw.lapSeconds())
	if err != nil {
		return newReport(0, ro), errors.Wrap(err, "lapwatch: stdev")
	}
	return newReport(secondsToDuration(v), ro), nil
}

func (sw *Stopwatch) lastLapDur() time.Duration {
	if len(sw.laps) == 0 {
		return 0
	}
	return sw.laps[len(sw.laps)-1]
}

func (sw *Stopwatch) minLapDur() time.Duration {
	if len(sw.laps) == 0 {
		return 0
	}
	v, _ := stats.Min(sw.lapSeconds())
	return secondsToDuration(v)
}

func (sw *Stopwatch) maxLapDur() time.Duration {
	if len(sw.laps) == 0 {
		return 0
	}
	v, _ := stats.Max(sw.lapSeconds())
	return secondsToDuration(v)
}

func (sw *Stopwatch) meanLapDur() time.Duration {
	if len(sw.laps) == 0 {
		return 0
	}
	v, _ := stats.Mean(sw.lapSeconds())
	return secondsToDuration(v)
}

func (sw *Stopwatch) medianLapDur() time.Duration {
	if len(sw.laps) == 0 {
		return 0
	}
	v, _ := stats.Median(sw.lapSeconds())
	return secondsToDuration(v)
}

// ewmaHalfLife is the smoothing horizon of EwmaLap, in laps.
const ewmaHalfLife = 4

var ewmaWeight = math.Exp(-math.Ln2 / ewmaHalfLife)

func (sw *Stopwatch) ewmaLapDur() time.Duration {
	secs := sw.lapSeconds()
	if len(secs) == 0 {
		return 0
	}
	ewma := secs[0]
	for _, x := range secs[1:] {
		ewma = ewmaWeight*ewma + (1-ewmaWeight)*x
	}
	return secondsToDuration(ewma)
}

// Stats prints the lap statistics block to the stopwatch writer.
// The standard deviation line shows "n/a" when only one lap has been
// committed.
func (sw *Stopwatch) Stats(opts ...CallOption) {
	stdev, err := sw.StdevLap(opts...)
	stdevLine := stdev.String()
	if err != nil {
		stdevLine = "n/a"
	}
	bb := common.BorrowByteBuffer()
	defer common.ReturnByteBuffer(bb)
	_, _ = bb.WriteString("Lap Statistics\n--------------\n")
	_, _ = fmt.Fprintf(bb, "Count:  %d laps\n", len(sw.laps))
	_, _ = fmt.Fprintf(bb, "Range:  %s - %s\n", sw.MinLap(opts...), sw.MaxLap(opts...))
	_, _ = fmt.Fprintf(bb, "Median: %s\n", sw.MedianLap(opts...))
	_, _ = fmt.Fprintf(bb, "Mean:   %s\n", sw.MeanLap(opts...))
	_, _ = fmt.Fprintf(bb, "Stdev.: %s\n", stdevLine)
	_, _ = bb.WriteString("--------------\n\n")
	if _, err := bb.WriteTo(sw.out); err != nil {
		logger.Errorf("write stats failed: %s\n", err)
	}
}
