package timeseries

import (
	"github.com/hardisty/hardisty/internal/calendar"
)

// AveragingSource values each non-empty segment with the mean of its samples and
// fills empty segments by linear interpolation over the segment index
type AveragingSource struct {
	data *Data

	// observed marks segments that hold at least one raw sample
	observed []bool
}

// NewAveragingSource builds an averaging series
func NewAveragingSource(cal calendar.Calendar, scope calendar.Scope, samples []Sample) *AveragingSource {
	sorted, buckets := bucketize(cal, scope, samples)

	segments := make([]Segment, len(buckets))
	observed := make([]bool, len(buckets))
	for i := range buckets {
		segments[i] = Segment{
			Interval: buckets[i].interval,
			Value:    buckets[i].mean(),
			Index:    i,
		}
		observed[i] = buckets[i].count > 0
	}

	interpolate(segments, observed)

	return &AveragingSource{
		data:     &Data{Scope: scope, Segments: segments, Samples: sorted},
		observed: observed,
	}
}

// interpolate fills every unobserved segment from its nearest observed neighbours.
// Segments before the first or after the last observation take that observation's value.
// Each gap is scanned once, so the pass is linear in the number of segments.
func interpolate(segments []Segment, observed []bool) {
	n := len(segments)
	prev, next := -1, -1
	for i := 0; i < n; i++ {
		if observed[i] {
			prev = i
			continue
		}

		// next == n means no observation follows
		if next < i {
			next = i + 1
			for next < n && !observed[next] {
				next++
			}
		}

		switch {
		case prev < 0 && next == n:
			segments[i].Value = 0
		case prev < 0:
			segments[i].Value = segments[next].Value
		case next == n:
			segments[i].Value = segments[prev].Value
		default:
			lo, hi := segments[prev].Value, segments[next].Value
			frac := float64(i-prev) / float64(next-prev)
			segments[i].Value = lo + (hi-lo)*frac
		}
	}
}

// Strategy returns StrategyInterpolateAndAverage
func (a *AveragingSource) Strategy() Strategy {
	return StrategyInterpolateAndAverage
}

// Data returns the underlying series
func (a *AveragingSource) Data() *Data {
	return a.data
}

// Segments returns the dense segment sequence
func (a *AveragingSource) Segments() []Segment {
	return a.data.Segments
}

// Observed reports whether segment i was derived from raw samples rather than interpolated
func (a *AveragingSource) Observed(i int) bool {
	return i >= 0 && i < len(a.observed) && a.observed[i]
}

// CombinedValue returns the mean of the samples in iv. Without samples in iv it
// falls back to the interpolated value of the segment nearest the interval midpoint.
func (a *AveragingSource) CombinedValue(iv calendar.Interval) (float64, bool) {
	if len(a.data.Segments) == 0 {
		return 0, false
	}

	in := a.data.samplesIn(iv)
	if len(in) > 0 {
		var sum float64
		for _, s := range in {
			sum += s.Value
		}
		return sum / float64(len(in)), true
	}

	return a.data.Segments[a.nearestSegment(iv)].Value, true
}

func (a *AveragingSource) nearestSegment(iv calendar.Interval) int {
	mid := iv.Midpoint()
	if i, ok := a.data.SegmentContaining(mid); ok {
		return i
	}
	if mid.Before(a.data.Segments[0].Interval.Start) {
		return 0
	}
	return len(a.data.Segments) - 1
}
