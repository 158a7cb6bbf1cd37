package harness

// Operation is the unit of work measured by a case. Invoke is called
// repeatedly; a non-nil error aborts the measurement.
type Operation interface {
	Invoke() error
}

// OpFunc adapts an ordinary function to the Operation interface.
type OpFunc func() error

// Invoke calls f().
func (f OpFunc) Invoke() error { return f() }

// Loop invokes op until at least minSeconds have elapsed on clock and returns
// the number of completed invocations and the measured duration. The budget
// is checked only between calls, so a slow call is never cut short and the
// returned elapsed time usually exceeds minSeconds slightly. At least one call
// is always made, even when minSeconds <= 0.
//
// An error from op stops the loop at once; iterations then counts only the
// calls that completed before the failing one.
func Loop(clock Clock, op Operation, minSeconds float64) (iterations int64, elapsed float64, err error) {
	start := clock.Now()
	for {
		if err = op.Invoke(); err != nil {
			return iterations, Elapsed(start, clock.Now()), err
		}
		iterations++
		elapsed = Elapsed(start, clock.Now())
		// A NaN budget ends the loop after the first call.
		if !(elapsed < minSeconds) {
			return iterations, elapsed, nil
		}
	}
}
