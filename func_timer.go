package lapwatch

// TimedFunc is the shape of functions FuncTimer can wrap.
type TimedFunc func(args ...interface{}) interface{}

// FuncTimer wraps fn so that every call is committed as a lap. The
// stopwatch is reset paused when the wrapper is created and pauses
// again after each call, so laps measure only time spent inside fn.
// With Echo each call prints an operation-time line. The wrapped
// result passes through unchanged.
func (sw *Stopwatch) FuncTimer(fn TimedFunc, opts ...CallOption) TimedFunc {
	c := newCallOptions(opts)
	echo := c.echo
	c.echo = false
	sw.Reset(false)
	return func(args ...interface{}) interface{} {
		sw.Start()
		result := fn(args...)
		c.autoPause = true
		lap, _ := sw.lapWithTotal(c)
		if echo {
			sw.writef("Operation time: %s", lap)
		}
		return result
	}
}
