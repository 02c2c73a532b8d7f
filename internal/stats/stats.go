// Package stats provides descriptive statistics over raw numeric distributions:
// mean, Bessel-corrected sample standard deviation, integer histograms and a
// gaussian curve estimate.
//
// Insufficient input is not an error here. Functions report it through an ok
// flag and leave the presentation fallback (for example a histogram instead of
// a curve) to the caller.
package stats

import (
	"math"
	"sort"

	"github.com/montanaflynn/stats"
)

// Summary describes a sample set
type Summary struct {
	Count int
	Mean  float64
	Min   float64
	Max   float64

	// StdDev is the sample standard deviation; valid only when HasStdDev is set (Count >= 2)
	StdDev    float64
	HasStdDev bool
}

// Bin is one histogram bucket: all samples that truncate to Key
type Bin struct {
	Key   int
	Count int
}

// Mean returns the arithmetic mean of samples, or false for empty input
func Mean(samples []float64) (float64, bool) {
	m, err := stats.Mean(samples)
	if err != nil {
		return 0, false
	}
	return m, true
}

// SampleStdDev returns sqrt(sum((x-mean)^2) / (n-1)). It is only defined for n >= 2.
func SampleStdDev(samples []float64) (float64, bool) {
	if len(samples) < 2 {
		return 0, false
	}
	sd, err := stats.StandardDeviationSample(samples)
	if err != nil || math.IsNaN(sd) {
		return 0, false
	}
	return sd, true
}

// Summarize computes count, mean, min, max and sample standard deviation.
// It returns false for empty input.
func Summarize(samples []float64) (Summary, bool) {
	mean, ok := Mean(samples)
	if !ok {
		return Summary{}, false
	}

	minimum, _ := stats.Min(samples)
	maximum, _ := stats.Max(samples)

	s := Summary{
		Count: len(samples),
		Mean:  mean,
		Min:   minimum,
		Max:   maximum,
	}
	s.StdDev, s.HasStdDev = SampleStdDev(samples)
	return s, true
}

// histogramLimit is 2^63; int conversion is only defined below it in magnitude
const histogramLimit = 1 << 63

// Histogram groups samples by truncation toward zero to an integer key and
// returns the bins sorted by key. Non-finite samples and samples whose
// magnitude does not fit an int64 key are skipped.
func Histogram(samples []float64) []Bin {
	counts := make(map[int]int)
	for _, v := range samples {
		if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= histogramLimit {
			continue
		}
		counts[int(v)]++
	}

	bins := make([]Bin, 0, len(counts))
	for k, c := range counts {
		bins = append(bins, Bin{Key: k, Count: c})
	}
	sort.Slice(bins, func(i, j int) bool {
		return bins[i].Key < bins[j].Key
	})
	return bins
}
