// Package timeseries converts sparse timestamp->value samples into a dense,
// contiguous sequence of calendar-aligned segments.
//
// Two strategies share the Source contract. The summing strategy adds every
// sample that falls into a bucket; the averaging strategy takes the mean of a
// bucket's samples and linearly interpolates empty buckets between their
// nearest non-empty neighbours. Bucket boundaries come entirely from the
// calendar package, so both strategies always agree on them.
package timeseries

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hardisty/hardisty/internal/calendar"
)

// ErrUnknownStrategy is returned when a strategy name cannot be parsed
var ErrUnknownStrategy = errors.New("unknown aggregation strategy")

// Strategy selects how a bucket's representative value is derived
type Strategy int

const (
	// StrategySum uses the sum of all existing values in a bucket
	StrategySum Strategy = iota
	// StrategyInterpolateAndAverage uses the mean of existing values and interpolates empty buckets
	StrategyInterpolateAndAverage
)

func (s Strategy) String() string {
	switch s {
	case StrategySum:
		return "sum"
	case StrategyInterpolateAndAverage:
		return "interpolate_and_average"
	default:
		return "unknown"
	}
}

// ParseStrategy converts a strategy name to a Strategy
func ParseStrategy(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "sum", "sum_existing_values":
		return StrategySum, nil
	case "average", "avg", "interpolate_and_average":
		return StrategyInterpolateAndAverage, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
}

// Sample is one raw observation
type Sample struct {
	Time  time.Time
	Value float64
}

// Segment is one bucket of a time series. Index is its position in the series.
type Segment struct {
	Interval calendar.Interval
	Value    float64
	Index    int
}

// SamplesFromCounts converts a date->count snapshot into samples sorted by time
func SamplesFromCounts(counts map[time.Time]int) []Sample {
	samples := make([]Sample, 0, len(counts))
	for t, c := range counts {
		samples = append(samples, Sample{Time: t, Value: float64(c)})
	}
	sortSamples(samples)
	return samples
}

func sortSamples(samples []Sample) {
	sort.SliceStable(samples, func(i, j int) bool {
		return samples[i].Time.Before(samples[j].Time)
	})
}

// Data is an immutable series of segments for one scope, together with the
// raw samples it was built from
type Data struct {
	Scope    calendar.Scope
	Segments []Segment
	Samples  []Sample
}

// Len returns the number of segments
func (d *Data) Len() int {
	return len(d.Segments)
}

// Interval returns the span from the first segment start to the last segment end
func (d *Data) Interval() (calendar.Interval, bool) {
	if len(d.Segments) == 0 {
		return calendar.Interval{}, false
	}
	return calendar.Interval{
		Start: d.Segments[0].Interval.Start,
		End:   d.Segments[len(d.Segments)-1].Interval.End,
	}, true
}

// IntervalForSegment returns the interval of segment i
func (d *Data) IntervalForSegment(i int) (calendar.Interval, bool) {
	if i < 0 || i >= len(d.Segments) {
		return calendar.Interval{}, false
	}
	return d.Segments[i].Interval, true
}

// SegmentContaining returns the index of the segment whose interval contains t
func (d *Data) SegmentContaining(t time.Time) (int, bool) {
	i := sort.Search(len(d.Segments), func(i int) bool {
		return t.Before(d.Segments[i].Interval.End)
	})
	if i < len(d.Segments) && d.Segments[i].Interval.Contains(t) {
		return i, true
	}
	return 0, false
}

// Values returns the segment values in order
func (d *Data) Values() []float64 {
	values := make([]float64, len(d.Segments))
	for i, s := range d.Segments {
		values[i] = s.Value
	}
	return values
}

// samplesIn returns the sub-slice of sorted samples whose time lies in iv
func (d *Data) samplesIn(iv calendar.Interval) []Sample {
	lo := sort.Search(len(d.Samples), func(i int) bool {
		return !d.Samples[i].Time.Before(iv.Start)
	})
	hi := sort.Search(len(d.Samples), func(i int) bool {
		return !d.Samples[i].Time.Before(iv.End)
	})
	return d.Samples[lo:hi]
}
