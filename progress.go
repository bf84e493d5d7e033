package lapwatch

import (
	"fmt"

	"github.com/lapwatch/lapwatch-go/internal/common"
	"github.com/lapwatch/lapwatch-go/logger"
)

// writeLine prints one line to the stopwatch writer. Lines are
// assembled in a pooled buffer and flushed in a single write.
func (sw *Stopwatch) writeLine(line string) {
	bb := common.BorrowByteBuffer()
	defer common.ReturnByteBuffer(bb)
	_, _ = bb.WriteString(line)
	_ = bb.WriteByte('\n')
	if _, err := bb.WriteTo(sw.out); err != nil {
		logger.Errorf("write report line failed: %s\n", err)
	}
}

func (sw *Stopwatch) writef(format string, args ...interface{}) {
	sw.writeLine(fmt.Sprintf(format, args...))
}

// Report prints the total elapsed active time followed by a message,
// as "[<elapsed>] <message>". The message is built with fmt verbs.
func (sw *Stopwatch) Report(format string, args ...interface{}) {
	sw.writef("[%s] %s", sw.Check(), fmt.Sprintf(format, args...))
}

// ReportNew resets the stopwatch and prints the baseline report line,
// establishing a fresh zero point for subsequent Report calls.
func (sw *Stopwatch) ReportNew(format string, args ...interface{}) {
	sw.Reset(false)
	sw.writef("[%s] %s", sw.Check(AutoStart()), fmt.Sprintf(format, args...))
}

// ReportBegin prints the wall-clock start time and then the baseline
// report line, resetting the stopwatch.
func (sw *Stopwatch) ReportBegin(format string, args ...interface{}) {
	sw.writef("START TIME: %s", sw.Now())
	sw.ReportNew(format, args...)
}

// ReportEnd prints the closing report line and then the wall-clock end
// time, aligned with the line ReportBegin prints.
func (sw *Stopwatch) ReportEnd(format string, args ...interface{}) {
	sw.Report(format, args...)
	sw.writef("END TIME:   %s", sw.Now())
}

// ReportNow prints the current wall-clock time followed by a message,
// as "[<now>] <message>".
func (sw *Stopwatch) ReportNow(format string, args ...interface{}) {
	sw.writef("[%s] %s", sw.Now(), fmt.Sprintf(format, args...))
}
