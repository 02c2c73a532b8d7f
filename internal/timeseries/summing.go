package timeseries

import (
	"github.com/hardisty/hardisty/internal/calendar"
)

// SummingSource values each segment with the sum of its samples. Empty buckets are 0.
type SummingSource struct {
	data *Data
}

// NewSummingSource builds a summing series
func NewSummingSource(cal calendar.Calendar, scope calendar.Scope, samples []Sample) *SummingSource {
	sorted, buckets := bucketize(cal, scope, samples)

	segments := make([]Segment, len(buckets))
	for i := range buckets {
		segments[i] = Segment{
			Interval: buckets[i].interval,
			Value:    buckets[i].sum,
			Index:    i,
		}
	}

	return &SummingSource{
		data: &Data{Scope: scope, Segments: segments, Samples: sorted},
	}
}

// Strategy returns StrategySum
func (s *SummingSource) Strategy() Strategy {
	return StrategySum
}

// Data returns the underlying series
func (s *SummingSource) Data() *Data {
	return s.data
}

// Segments returns the dense segment sequence
func (s *SummingSource) Segments() []Segment {
	return s.data.Segments
}

// CombinedValue sums every sample in iv. An interval without samples sums to 0;
// only a source without any samples reports false.
func (s *SummingSource) CombinedValue(iv calendar.Interval) (float64, bool) {
	if len(s.data.Samples) == 0 {
		return 0, false
	}

	var sum float64
	for _, sample := range s.data.samplesIn(iv) {
		sum += sample.Value
	}
	return sum, true
}
