package calendar

import (
	"fmt"
	"time"
)

// Interval is a non-degenerate time span. Containment is half-open: [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval creates an interval and panics if end is not strictly after start.
// A degenerate interval can only come from a broken caller, never from data.
func NewInterval(start, end time.Time) Interval {
	if !end.After(start) {
		panic(fmt.Sprintf("calendar: degenerate interval [%s, %s)",
			start.Format(time.RFC3339Nano), end.Format(time.RFC3339Nano)))
	}
	return Interval{Start: start, End: end}
}

// Duration returns End - Start
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// Contains reports whether start <= t < end
func (iv Interval) Contains(t time.Time) bool {
	return !t.Before(iv.Start) && t.Before(iv.End)
}

// Midpoint returns the instant halfway between Start and End
func (iv Interval) Midpoint() time.Time {
	return iv.Start.Add(iv.Duration() / 2)
}

// Progress returns how far t lies through the interval as a fraction clamped to [0, 1]
func (iv Interval) Progress(t time.Time) float64 {
	p := float64(t.Sub(iv.Start)) / float64(iv.Duration())
	if p < 0 {
		return 0
	}
	if p > 1 {
		return 1
	}
	return p
}

// Prefix returns [Start, Start + progress*Duration). The result is kept
// non-degenerate by granting at least one nanosecond.
func (iv Interval) Prefix(progress float64) Interval {
	if progress >= 1 {
		return iv
	}
	length := time.Duration(progress * float64(iv.Duration()))
	if length <= 0 {
		length = time.Nanosecond
	}
	return NewInterval(iv.Start, iv.Start.Add(length))
}

func (iv Interval) String() string {
	return fmt.Sprintf("[%s, %s)", iv.Start.Format(time.RFC3339), iv.End.Format(time.RFC3339))
}
