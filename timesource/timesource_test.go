package timesource_test

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lapwatch/lapwatch-go/timesource"
)

func TestMonotonic_StartsAtZero(t *testing.T) {
	mock := clock.NewMock()
	src, err := timesource.New(timesource.PerfCounter, mock)
	require.NoError(t, err, "create source failed")
	assert.Equal(t, time.Duration(0), src.Reading(), "first reading should be zero")
	mock.Add(1500 * time.Millisecond)
	assert.Equal(t, 1500*time.Millisecond, src.Reading(), "wrong reading after advance")
	mock.Add(time.Second)
	assert.Equal(t, 2500*time.Millisecond, src.Reading(), "readings should accumulate")
}

func TestMonotonic_AliasKinds(t *testing.T) {
	mock := clock.NewMock()
	perf, err := timesource.New(timesource.PerfCounter, mock)
	require.NoError(t, err, "create perf source failed")
	mono, err := timesource.New(timesource.Monotonic, mock)
	require.NoError(t, err, "create monotonic source failed")
	mock.Add(time.Second)
	assert.Equal(t, perf.Reading(), mono.Reading(), "alias kinds should agree")
}

func TestWall_TracksClock(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Unix(100, 0))
	src, err := timesource.New(timesource.Wall, mock)
	require.NoError(t, err, "create source failed")
	assert.Equal(t, 100*time.Second, src.Reading(), "wrong wall reading")
	mock.Add(250 * time.Millisecond)
	assert.Equal(t, 100*time.Second+250*time.Millisecond, src.Reading(), "wall reading should follow clock")
}

func TestProcessCPU(t *testing.T) {
	src, err := timesource.New(timesource.ProcessCPU, nil)
	require.NoError(t, err, "create source failed")
	first := src.Reading()
	assert.True(t, first >= 0, "cpu time should not be negative")
	// burn a little cpu so the second poll has something to see
	x := 0
	for i := 0; i < 1<<16; i++ {
		x += i
	}
	_ = x
	second := src.Reading()
	assert.True(t, second >= first, "cpu time should not run backwards")
}

func TestNew_UnsupportedKind(t *testing.T) {
	_, err := timesource.New(timesource.Kind(99), nil)
	require.Error(t, err, "unknown kind should fail")
	assert.Equal(t, timesource.ErrUnsupportedKind, errors.Cause(err), "wrong cause")
}

func TestParseKind(t *testing.T) {
	for _, kind := range []timesource.Kind{
		timesource.PerfCounter,
		timesource.Monotonic,
		timesource.ProcessCPU,
		timesource.Wall,
	} {
		parsed, err := timesource.ParseKind(kind.String())
		assert.NoError(t, err, "parse %s failed", kind)
		assert.Equal(t, kind.String(), parsed.String(), "round trip mismatch")
	}
}

func TestParseKind_Unknown(t *testing.T) {
	_, err := timesource.ParseKind("sundial")
	require.Error(t, err, "unknown name should fail")
	assert.Equal(t, timesource.ErrUnsupportedKind, errors.Cause(err), "wrong cause")
}

func TestFunc(t *testing.T) {
	var now time.Duration
	src := timesource.Func(func() time.Duration { return now })
	assert.Equal(t, time.Duration(0), src.Reading(), "wrong scripted reading")
	now = 42 * time.Millisecond
	assert.Equal(t, 42*time.Millisecond, src.Reading(), "scripted reading should follow script")
}
