package harness

import "time"

// Clock supplies instants for the iteration loop. Implementations must be
// monotonic: Now never returns an instant earlier than a previous one.
type Clock interface {
	Now() time.Time
}

// SystemClock reads time.Now. The monotonic reading carried by time.Time is
// what Sub uses, so wall-clock adjustments never affect elapsed values.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// Elapsed returns the seconds between start and end, never negative.
func Elapsed(start, end time.Time) float64 {
	d := end.Sub(start)
	if d < 0 {
		return 0
	}
	return d.Seconds()
}
