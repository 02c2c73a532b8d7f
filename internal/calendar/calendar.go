// Package calendar provides calendar-aligned interval arithmetic for the
// fixed time series scopes (day, week, month, three months, six months, year).
//
// Buckets are computed in the calendar's location so that "day" means local
// midnight to local midnight, and stepping always moves to the next aligned
// bucket rather than adding a fixed duration, since months and years vary in
// length.
package calendar

import (
	"fmt"
	"time"
)

// Calendar holds the settings that affect bucket boundaries
type Calendar struct {
	// WeekStartsOnMonday selects Monday (true) or Sunday (false) as the first day of a week.
	// Only ScopeWeek is affected.
	WeekStartsOnMonday bool

	// Location is the time zone in which midnight and month starts are computed.
	// Nil means UTC.
	Location *time.Location

	// SplitMultiMonth buckets ScopeThreeMonths by quarter and ScopeSixMonths by
	// half year. When false both scopes share the ScopeYear boundaries.
	SplitMultiMonth bool
}

// New creates a calendar with the given week start in loc
func New(weekStartsOnMonday bool, loc *time.Location) Calendar {
	return Calendar{WeekStartsOnMonday: weekStartsOnMonday, Location: loc}
}

func (c Calendar) location() *time.Location {
	if c.Location == nil {
		return time.UTC
	}
	return c.Location
}

// IntervalContaining returns the calendar-aligned bucket of the given scope that contains t
func (c Calendar) IntervalContaining(t time.Time, scope Scope) Interval {
	t = t.In(c.location())

	var start, end time.Time
	switch scope {
	case ScopeDay:
		start = truncateToDay(t)
		end = start.AddDate(0, 0, 1)
	case ScopeWeek:
		day := truncateToDay(t)
		start = day.AddDate(0, 0, -c.weekdayOffset(day.Weekday()))
		end = start.AddDate(0, 0, 7)
	case ScopeMonth:
		start = truncateToMonth(t)
		end = start.AddDate(0, 1, 0)
	case ScopeThreeMonths:
		if c.SplitMultiMonth {
			start = truncateToMonthGroup(t, 3)
			end = start.AddDate(0, 3, 0)
		} else {
			start = truncateToYear(t)
			end = start.AddDate(1, 0, 0)
		}
	case ScopeSixMonths:
		if c.SplitMultiMonth {
			start = truncateToMonthGroup(t, 6)
			end = start.AddDate(0, 6, 0)
		} else {
			start = truncateToYear(t)
			end = start.AddDate(1, 0, 0)
		}
	case ScopeYear:
		start = truncateToYear(t)
		end = start.AddDate(1, 0, 0)
	default:
		panic(fmt.Sprintf("calendar: invalid scope %d", int(scope)))
	}

	return NewInterval(start, end)
}

// IntervalAfter returns the aligned bucket immediately following the bucket
// that contains iv.Start. It panics if the result does not advance past iv.Start,
// which guarantees termination of loops that step through a date range.
func (c Calendar) IntervalAfter(iv Interval, scope Scope) Interval {
	current := c.IntervalContaining(iv.Start, scope)
	next := c.IntervalContaining(current.End, scope)
	if !next.Start.After(iv.Start) {
		panic(fmt.Sprintf("calendar: interval after %s did not advance for scope %s", iv, scope))
	}
	return next
}

// IntervalBefore returns the aligned bucket immediately preceding the bucket that contains iv.Start
func (c Calendar) IntervalBefore(iv Interval, scope Scope) Interval {
	current := c.IntervalContaining(iv.Start, scope)
	prev := c.IntervalContaining(current.Start.Add(-time.Nanosecond), scope)
	if !prev.Start.Before(current.Start) {
		panic(fmt.Sprintf("calendar: interval before %s did not retreat for scope %s", iv, scope))
	}
	return prev
}

// Range returns every aligned bucket from the one containing from up to and
// including the one containing to. It returns nil when to is before from.
func (c Calendar) Range(from, to time.Time, scope Scope) []Interval {
	if to.Before(from) {
		return nil
	}

	var intervals []Interval
	for iv := c.IntervalContaining(from, scope); !iv.Start.After(to); iv = c.IntervalAfter(iv, scope) {
		intervals = append(intervals, iv)
	}
	return intervals
}

// weekdayOffset returns how many days wd lies after the configured first day of the week
func (c Calendar) weekdayOffset(wd time.Weekday) int {
	if c.WeekStartsOnMonday {
		return (int(wd) + 6) % 7
	}
	return int(wd)
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func truncateToMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func truncateToYear(t time.Time) time.Time {
	return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, t.Location())
}

// truncateToMonthGroup truncates to the first month of the n-month group
// counted from January (quarters for n=3, halves for n=6)
func truncateToMonthGroup(t time.Time, n int) time.Time {
	month := (int(t.Month())-1)/n*n + 1
	return time.Date(t.Year(), time.Month(month), 1, 0, 0, 0, 0, t.Location())
}
