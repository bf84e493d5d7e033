package lapwatch

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const (
	defaultHMSFormat     = "%.0f:%02.0f:%05.2f"
	defaultSecondsFormat = "%.2f"
)

// Report is a measured duration bound to the reporting settings that
// were in effect when it was produced.
type Report struct {
	d    time.Duration
	opts reportOptions
}

func newReport(d time.Duration, opts reportOptions) Report {
	return Report{d: d, opts: opts}
}

// Duration returns the measured duration.
func (r Report) Duration() time.Duration {
	return r.d
}

// Seconds returns the measured duration in seconds.
func (r Report) Seconds() float64 {
	return r.d.Seconds()
}

// HMS returns the measured duration split into hours, minutes and
// seconds.
func (r Report) HMS() (h, m, s float64) {
	return SecondsToHMS(r.d.Seconds())
}

// Value returns the report in its configured shape: the process
// function result when one is set, the [hours, minutes, seconds]
// triple for numeric clock-style reports, raw seconds for plain
// numeric reports, and the rendered string otherwise.
func (r Report) Value() interface{} {
	if r.opts.process != nil {
		return r.opts.process(r.d)
	}
	if r.opts.numeric {
		if r.opts.hms {
			h, m, s := r.HMS()
			return [3]float64{h, m, s}
		}
		return r.Seconds()
	}
	s, _ := r.Render()
	return s
}

// Render returns the formatted report string. The format receives
// three floating-point fields for clock-style reports and one for
// plain-seconds reports; a mismatched format yields ErrInvalidFormat.
// A configured process function supersedes formatting: its result is
// stringified.
func (r Report) Render() (string, error) {
	if r.opts.process != nil {
		return fmt.Sprint(r.opts.process(r.d)), nil
	}
	format := r.opts.resolvedFormat()
	var s string
	if r.opts.hms {
		h, m, sec := r.HMS()
		s = fmt.Sprintf(format, h, m, sec)
	} else {
		s = fmt.Sprintf(format, r.Seconds())
	}
	if strings.Contains(s, "%!") {
		return s, errors.Wrapf(ErrInvalidFormat, "format %q", format)
	}
	return s, nil
}

// String returns the rendered report, with the standard fmt error
// markers left in place when the format is invalid.
func (r Report) String() string {
	s, _ := r.Render()
	return s
}

// SecondsToHMS splits a number of seconds into hours, minutes and
// seconds. Inputs are expected to be non-negative.
func SecondsToHMS(seconds float64) (h, m, s float64) {
	h = math.Floor(seconds / 3600)
	m = math.Floor(math.Mod(seconds, 3600) / 60)
	s = math.Mod(seconds, 60)
	return
}

// HMSToSeconds converts hours, minutes and seconds into seconds.
func HMSToSeconds(h, m, s float64) float64 {
	return h*3600 + m*60 + s
}

func validateFormat(format string, hms bool) error {
	if format == "" {
		return nil
	}
	probe := Report{
		d:    time.Hour + 23*time.Minute + 45600*time.Millisecond,
		opts: reportOptions{hms: hms, format: format},
	}
	_, err := probe.Render()
	return err
}
