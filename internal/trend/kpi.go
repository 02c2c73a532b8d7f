package trend

import (
	"time"

	"github.com/hardisty/hardisty/internal/calendar"
	"github.com/hardisty/hardisty/internal/timeseries"
)

// KPIEntry is the total of one interval and its trend against the previous interval
type KPIEntry struct {
	Interval calendar.Interval
	Value    int
	Trend    Trend
	HasTrend bool
}

// KPISeries is a sequence of per-interval totals for a trending KPI
type KPISeries struct {
	Scope   calendar.Scope
	Entries []KPIEntry

	// CurrentIndex is the entry whose interval contains now
	CurrentIndex int
}

// BuildKPISeries sums counts per interval over the span from the earliest date
// to the latest date, always extended to include now. Each entry after the
// first carries the trend against the previous entry's full total.
func BuildKPISeries(cal calendar.Calendar, scope calendar.Scope, counts map[time.Time]int, now time.Time) KPISeries {
	earliest, latest := now, now
	for t := range counts {
		if t.Before(earliest) {
			earliest = t
		}
		if t.After(latest) {
			latest = t
		}
	}

	src := timeseries.NewSummingSource(cal, scope, timeseries.SamplesFromCounts(counts))

	series := KPISeries{Scope: scope}
	var previous int
	for i, iv := range cal.Range(earliest, latest, scope) {
		total, _ := src.CombinedValue(iv)
		entry := KPIEntry{Interval: iv, Value: int(total)}
		if i > 0 {
			entry.Trend = Classify(float64(previous), total)
			entry.HasTrend = true
		}
		if iv.Contains(now) {
			series.CurrentIndex = i
		}

		series.Entries = append(series.Entries, entry)
		previous = entry.Value
	}

	return series
}

// Current returns the entry containing now
func (s KPISeries) Current() (KPIEntry, bool) {
	if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Entries) {
		return KPIEntry{}, false
	}
	return s.Entries[s.CurrentIndex], true
}
