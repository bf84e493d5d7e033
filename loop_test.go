package lapwatch_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lapwatch/lapwatch-go"
	"github.com/lapwatch/lapwatch-go/seq"
)

// drainLoop consumes the loop, advancing the source by step after each
// element to simulate per-element work.
func drainLoop(loop *lapwatch.Loop, fs *fakeSource, step time.Duration) []interface{} {
	var got []interface{}
	for {
		v, ok := loop.Next()
		if !ok {
			return got
		}
		got = append(got, v)
		fs.advance(step)
	}
}

func newBufferedWatch(t *testing.T) (*lapwatch.Stopwatch, *fakeSource, *bytes.Buffer) {
	t.Helper()
	fs := &fakeSource{}
	var out bytes.Buffer
	sw, err := lapwatch.New(lapwatch.WithSource(fs), lapwatch.WithWriter(&out))
	require.NoError(t, err, "create stopwatch failed")
	return sw, fs, &out
}

func TestLoopTimer_ChunksIntoLaps(t *testing.T) {
	sw, fs, _ := newBufferedWatch(t)
	loop, err := sw.LoopTimer(seq.Take(seq.Ints(), 10), lapwatch.ChunkSize(4))
	require.NoError(t, err, "create loop failed")

	got := drainLoop(loop, fs, time.Second)
	assert.Equal(t, []interface{}{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got, "elements should pass through in order")
	assert.Equal(t, 3, sw.LapCount(), "ten items in chunks of four should commit three laps")

	var laps []time.Duration
	for _, rep := range sw.Laps() {
		laps = append(laps, rep.Duration())
	}
	assert.Equal(t, []time.Duration{4 * time.Second, 4 * time.Second, 2 * time.Second}, laps, "wrong lap durations")
}

func TestLoopTimer_DefaultChunkSize(t *testing.T) {
	sw, fs, _ := newBufferedWatch(t)
	loop, err := sw.LoopTimer(seq.Of("a", "b", "c"))
	require.NoError(t, err, "create loop failed")
	got := drainLoop(loop, fs, time.Second)
	assert.Equal(t, []interface{}{"a", "b", "c"}, got, "wrong elements")
	assert.Equal(t, 3, sw.LapCount(), "default chunk size should lap every element")
}

func TestLoopTimer_InvalidChunkSize(t *testing.T) {
	sw, _, _ := newBufferedWatch(t)
	_, err := sw.LoopTimer(seq.Of(1), lapwatch.ChunkSize(0))
	require.Error(t, err, "zero chunk size should fail")
	assert.Equal(t, lapwatch.ErrInvalidChunkSize, errors.Cause(err), "wrong cause")
}

func TestLoopTimer_ResetsOnFirstPull(t *testing.T) {
	sw, fs, _ := newBufferedWatch(t)
	fs.advance(time.Hour)
	sw.Lap()
	loop, err := sw.LoopTimer(seq.Of(1, 2))
	require.NoError(t, err, "create loop failed")
	require.Equal(t, 1, sw.LapCount(), "construction should not touch the watch")

	_, ok := loop.Next()
	require.True(t, ok, "first pull failed")
	fs.advance(time.Second)
	_, _ = loop.Next()
	_, _ = loop.Next()
	assert.Equal(t, 2, sw.LapCount(), "old laps should be gone, loop laps committed")
	assert.Equal(t, time.Second, sw.Elapsed(), "elapsed should restart at the first pull")
}

func TestLoopTimer_Verbose(t *testing.T) {
	sw, fs, out := newBufferedWatch(t)
	loop, err := sw.LoopTimer(seq.Take(seq.Ints(), 5), lapwatch.ChunkSize(2), lapwatch.Verbose())
	require.NoError(t, err, "create loop failed")
	drainLoop(loop, fs, time.Second)

	want := "Begin loop timer (5 items in 3 chunks).\n" +
		"Items: 1 - 2 \tSplit time: 0:00:02.00 \tTotal time: 0:00:02.00\n" +
		"Items: 3 - 4 \tSplit time: 0:00:02.00 \tTotal time: 0:00:04.00\n" +
		"Items: 5 - 5 \tSplit time: 0:00:01.00 \tTotal time: 0:00:05.00\n" +
		"End loop timer.\n"
	assert.Equal(t, want, out.String(), "wrong verbose transcript")
}

func TestLoopTimer_VerboseCommaGrouping(t *testing.T) {
	sw, fs, out := newBufferedWatch(t)
	loop, err := sw.LoopTimer(seq.Take(seq.Ints(), 1002), lapwatch.ChunkSize(1000), lapwatch.Verbose())
	require.NoError(t, err, "create loop failed")
	drainLoop(loop, fs, 0)
	assert.Contains(t, out.String(), "Items: 1,001 - 1,002 \t", "item indexes should be comma grouped")
}

func TestLoopTimer_VerboseUnsizedSource(t *testing.T) {
	sw, fs, out := newBufferedWatch(t)
	n := 0
	src := seq.Func(func() (interface{}, bool) {
		if n >= 2 {
			return nil, false
		}
		n++
		return n, true
	})
	loop, err := sw.LoopTimer(src, lapwatch.Verbose())
	require.NoError(t, err, "create loop failed")
	drainLoop(loop, fs, 0)
	assert.Contains(t, out.String(), "Begin loop timer.\n", "unsized source should print the bare summary")
}

func TestLoopTimer_Break(t *testing.T) {
	sw, fs, _ := newBufferedWatch(t)
	loop, err := sw.LoopTimer(seq.Ints(), lapwatch.ChunkSize(10))
	require.NoError(t, err, "create loop failed")

	var got []interface{}
	for {
		v, ok := loop.Next()
		if !ok {
			break
		}
		got = append(got, v)
		fs.advance(time.Second)
		if len(got) == 3 {
			loop.Break()
		}
	}
	assert.Equal(t, []interface{}{0, 1, 2}, got, "break should stop mid-chunk")
	assert.Equal(t, 1, sw.LapCount(), "partial chunk should still commit its lap")
	assert.Equal(t, 3*time.Second, sw.LastLap().Duration(), "wrong partial lap duration")

	_, ok := loop.Next()
	assert.False(t, ok, "loop should stay finished")
}

func TestTimedLoop_Overtime(t *testing.T) {
	sw, fs, _ := newBufferedWatch(t)
	loop, err := sw.TimedLoop(nil, 5*time.Second, lapwatch.CutoffOvertime)
	require.NoError(t, err, "create loop failed")
	got := drainLoop(loop, fs, time.Second)
	assert.Equal(t, []interface{}{0, 1, 2, 3, 4}, got, "should stop at the first check at or past the budget")
	assert.Equal(t, 5*time.Second, sw.Elapsed(), "wrong final elapsed")
}

func TestTimedLoop_PredictiveStopsSooner(t *testing.T) {
	run := func(policy lapwatch.CutoffPolicy) int {
		sw, fs, _ := newBufferedWatch(t)
		loop, err := sw.TimedLoop(nil, 5*time.Second, policy)
		require.NoError(t, err, "create loop failed")
		return len(drainLoop(loop, fs, 2*time.Second))
	}
	overtime := run(lapwatch.CutoffOvertime)
	predictive := run(lapwatch.CutoffMeanLap)
	assert.Equal(t, 3, overtime, "wrong overtime element count")
	assert.Equal(t, 2, predictive, "wrong predictive element count")
	assert.Less(t, predictive, overtime, "prediction should stop before the overrun")
}

func TestTimedLoop_CutoffPolicies(t *testing.T) {
	// Lap pattern 1s, 3s, then 1s per element; budget 7s; chunk 1.
	steps := []time.Duration{time.Second, 3 * time.Second, time.Second, time.Second, time.Second, time.Second}
	run := func(policy lapwatch.CutoffPolicy) int {
		sw, fs, _ := newBufferedWatch(t)
		loop, err := sw.TimedLoop(nil, 7*time.Second, policy)
		require.NoError(t, err, "create loop failed")
		count := 0
		for {
			_, ok := loop.Next()
			if !ok {
				return count
			}
			fs.advance(steps[count])
			count++
		}
	}
	assert.Equal(t, 3, run(lapwatch.CutoffLastLap), "wrong lastlap cutoff")
	assert.Equal(t, 3, run(lapwatch.CutoffMaxLap), "wrong maxlap cutoff")
	assert.Equal(t, 4, run(lapwatch.CutoffMeanLap), "wrong meanlap cutoff")
	assert.Equal(t, 5, run(lapwatch.CutoffMedianLap), "wrong medianlap cutoff")
	assert.Equal(t, 5, run(lapwatch.CutoffOvertime), "wrong overtime cutoff")
}

func TestTimedLoop_EwmaCutoff(t *testing.T) {
	sw, fs, _ := newBufferedWatch(t)
	loop, err := sw.TimedLoop(nil, 5*time.Second, lapwatch.CutoffEwmaLap)
	require.NoError(t, err, "create loop failed")
	got := drainLoop(loop, fs, 2*time.Second)
	assert.Len(t, got, 2, "steady laps should predict the overrun after two elements")
}

func TestTimedLoop_ChunkedChecks(t *testing.T) {
	sw, fs, _ := newBufferedWatch(t)
	loop, err := sw.TimedLoop(nil, 3*time.Second, lapwatch.CutoffOvertime, lapwatch.ChunkSize(4))
	require.NoError(t, err, "create loop failed")
	got := drainLoop(loop, fs, time.Second)
	// Expiration is only checked once per chunk: after elements 0 and 4.
	assert.Len(t, got, 5, "cutoff should wait for the next chunk boundary check")
}

func TestTimedLoop_SourceExhaustsFirst(t *testing.T) {
	sw, fs, _ := newBufferedWatch(t)
	loop, err := sw.TimedLoop(seq.Take(seq.Ints(), 3), time.Hour, lapwatch.CutoffOvertime)
	require.NoError(t, err, "create loop failed")
	got := drainLoop(loop, fs, time.Second)
	assert.Equal(t, []interface{}{0, 1, 2}, got, "short source should end the loop before the budget")
}

func TestTimedLoop_ZeroBudget(t *testing.T) {
	sw, fs, _ := newBufferedWatch(t)
	loop, err := sw.TimedLoop(nil, 0, lapwatch.CutoffOvertime)
	require.NoError(t, err, "create loop failed")
	got := drainLoop(loop, fs, time.Second)
	assert.Len(t, got, 1, "zero budget should yield a single element")
}

func TestTimedLoop_InvalidCutoff(t *testing.T) {
	sw, _, _ := newBufferedWatch(t)
	_, err := sw.TimedLoop(nil, time.Second, lapwatch.CutoffPolicy(99))
	require.Error(t, err, "unknown policy should fail")
	assert.Equal(t, lapwatch.ErrInvalidCutoff, errors.Cause(err), "wrong cause")
}

func TestNewTimedLoop(t *testing.T) {
	loop, err := lapwatch.NewTimedLoop(seq.Take(seq.Ints(), 2), time.Hour, lapwatch.CutoffOvertime)
	require.NoError(t, err, "create loop failed")
	got := seq.Collect(loop)
	assert.Equal(t, []interface{}{0, 1}, got, "wrong elements")
}

func TestCutoffPolicy_String(t *testing.T) {
	assert.Equal(t, "overtime", lapwatch.CutoffOvertime.String(), "wrong name")
	assert.Equal(t, "lastlap", lapwatch.CutoffLastLap.String(), "wrong name")
	assert.Equal(t, "meanlap", lapwatch.CutoffMeanLap.String(), "wrong name")
	assert.Equal(t, "medianlap", lapwatch.CutoffMedianLap.String(), "wrong name")
	assert.Equal(t, "maxlap", lapwatch.CutoffMaxLap.String(), "wrong name")
	assert.Equal(t, "ewmalap", lapwatch.CutoffEwmaLap.String(), "wrong name")
	assert.Equal(t, "unknown", lapwatch.CutoffPolicy(42).String(), "wrong fallback name")
}
