package timeseries

import (
	"fmt"

	"github.com/hardisty/hardisty/internal/calendar"
)

// Source is a dense time series for one (samples, scope, calendar) triple
type Source interface {
	// Strategy returns the aggregation strategy of this source
	Strategy() Strategy

	// Data returns the underlying series
	Data() *Data

	// Segments returns the dense segment sequence in ascending order
	Segments() []Segment

	// CombinedValue summarizes the raw samples over an arbitrary interval
	// consistently with the strategy. It returns false when no value can be derived.
	CombinedValue(iv calendar.Interval) (float64, bool)
}

// New builds a source for the given strategy.
// The samples slice is copied and sorted; the caller keeps ownership of its slice.
func New(strategy Strategy, cal calendar.Calendar, scope calendar.Scope, samples []Sample) (Source, error) {
	switch strategy {
	case StrategySum:
		return NewSummingSource(cal, scope, samples), nil
	case StrategyInterpolateAndAverage:
		return NewAveragingSource(cal, scope, samples), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownStrategy, int(strategy))
	}
}

// bucket accumulates the samples of one segment
type bucket struct {
	interval calendar.Interval
	count    int
	sum      float64
}

func (b *bucket) add(v float64) {
	b.count++
	b.sum += v
}

func (b *bucket) mean() float64 {
	if b.count == 0 {
		return 0
	}
	return b.sum / float64(b.count)
}

// bucketize copies and sorts samples, then distributes them into the contiguous
// buckets spanning the first sample's bucket to the last sample's bucket
func bucketize(cal calendar.Calendar, scope calendar.Scope, samples []Sample) ([]Sample, []bucket) {
	sorted := make([]Sample, len(samples))
	copy(sorted, samples)
	sortSamples(sorted)

	if len(sorted) == 0 {
		return sorted, nil
	}

	intervals := cal.Range(sorted[0].Time, sorted[len(sorted)-1].Time, scope)
	buckets := make([]bucket, len(intervals))

	j := 0
	for i, iv := range intervals {
		buckets[i].interval = iv
		for j < len(sorted) && sorted[j].Time.Before(iv.End) {
			buckets[i].add(sorted[j].Value)
			j++
		}
	}

	return sorted, buckets
}
