// Package downsampling thins a dense segment series for display while keeping
// its visual shape. It only picks existing segments and never synthesizes values,
// so every shown value is still a true bucket value.
package downsampling

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/hardisty/hardisty/internal/timeseries"
	"github.com/montanaflynn/stats"
)

// ErrUnknownMode is returned when a mode name cannot be parsed
var ErrUnknownMode = errors.New("unknown downsampling mode")

// Mode represents the downsampling mode
type Mode string

const (
	// ModeNone keeps every segment
	ModeNone Mode = "none"
	// ModeAuto picks an algorithm from the shape of the data
	ModeAuto Mode = "auto"
	// ModeLTTB uses Largest-Triangle-Three-Buckets
	ModeLTTB Mode = "lttb"
	// ModeMinMax keeps min and max per bucket (preserves peaks)
	ModeMinMax Mode = "minmax"
	// ModeM4 keeps first, min, max and last per bucket
	ModeM4 Mode = "m4"
)

// ParseMode converts a mode name to a Mode
func ParseMode(name string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(name)))
	switch m {
	case ModeNone, ModeAuto, ModeLTTB, ModeMinMax, ModeM4:
		return m, nil
	case "":
		return ModeNone, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, name)
	}
}

// Segments returns at most about threshold segments of segs chosen by mode.
// The first and last segments are always kept by LTTB; the result is in order.
func Segments(segs []timeseries.Segment, mode Mode, threshold int) ([]timeseries.Segment, error) {
	values := make([]float64, len(segs))
	for i, s := range segs {
		values[i] = s.Value
	}

	indices, err := Indices(values, mode, threshold)
	if err != nil {
		return nil, err
	}

	out := make([]timeseries.Segment, len(indices))
	for i, idx := range indices {
		out[i] = segs[idx]
	}
	return out, nil
}

// Indices returns the ascending indices of values to keep
func Indices(values []float64, mode Mode, threshold int) ([]int, error) {
	if threshold < 2 {
		threshold = 2
	}
	if mode == ModeNone || len(values) <= threshold {
		return allIndices(len(values)), nil
	}

	if mode == ModeAuto {
		mode = detectBestAlgorithm(values)
	}

	switch mode {
	case ModeLTTB:
		return lttb(values, threshold), nil
	case ModeMinMax:
		return minmax(values, threshold), nil
	case ModeM4:
		return m4(values, threshold), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, string(mode))
	}
}

func allIndices(n int) []int {
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	return indices
}

// detectBestAlgorithm selects MinMax for spiky data, M4 for moderately spiky
// data and LTTB for smooth data
func detectBestAlgorithm(values []float64) Mode {
	spikiness := calculateSpikiness(values)
	switch {
	case spikiness > 0.2:
		return ModeMinMax
	case spikiness > 0.1:
		return ModeM4
	default:
		return ModeLTTB
	}
}

// calculateSpikiness measures in [0, 1] how many values deviate from the mean
// by more than two standard deviations or jump by more than one between neighbours
func calculateSpikiness(values []float64) float64 {
	if len(values) < 10 {
		return 0
	}

	mean, _ := stats.Mean(values)
	stdDev, _ := stats.StandardDeviationPopulation(values)
	if stdDev == 0 {
		return 0
	}

	spikeCount := 0
	derivativeSpikeCount := 0
	for i, v := range values {
		if math.Abs(v-mean) > 2*stdDev {
			spikeCount++
		}
		if i > 0 && math.Abs(v-values[i-1]) > stdDev {
			derivativeSpikeCount++
		}
	}

	absolute := float64(spikeCount) / float64(len(values))
	derivative := float64(derivativeSpikeCount) / float64(len(values)-1)

	// Derivative spikes weigh more
	return math.Min(1, (absolute+1.5*derivative)/2.5)
}

// lttb implements Largest-Triangle-Three-Buckets with x = index
func lttb(data []float64, threshold int) []int {
	if threshold <= 2 {
		return []int{0, len(data) - 1}
	}

	sampled := make([]int, 0, threshold)
	sampled = append(sampled, 0)

	// Bucket size excluding first and last points
	bucketSize := float64(len(data)-2) / float64(threshold-2)
	a := 0

	for i := 0; i < threshold-2; i++ {
		// Average of the next bucket
		avgStart := int(math.Floor(float64(i+1)*bucketSize)) + 1
		avgEnd := int(math.Floor(float64(i+2)*bucketSize)) + 1
		if avgEnd > len(data) {
			avgEnd = len(data)
		}

		avgX, avgY := 0.0, 0.0
		for j := avgStart; j < avgEnd; j++ {
			avgX += float64(j)
			avgY += data[j]
		}
		if n := avgEnd - avgStart; n > 0 {
			avgX /= float64(n)
			avgY /= float64(n)
		}

		rangeStart := int(math.Floor(float64(i)*bucketSize)) + 1
		rangeEnd := int(math.Floor(float64(i+1)*bucketSize)) + 1

		ax, ay := float64(a), data[a]
		maxArea := -1.0
		maxAreaPoint := rangeStart

		for j := rangeStart; j < rangeEnd; j++ {
			area := math.Abs((ax-avgX)*(data[j]-ay)-(ax-float64(j))*(avgY-ay)) * 0.5
			if area > maxArea {
				maxArea = area
				maxAreaPoint = j
			}
		}

		sampled = append(sampled, maxAreaPoint)
		a = maxAreaPoint
	}

	return append(sampled, len(data)-1)
}

// bucketBounds splits n values into numBuckets contiguous ranges
func bucketBounds(n, numBuckets, i int) (int, int) {
	size := float64(n) / float64(numBuckets)
	start := int(float64(i) * size)
	end := int(float64(i+1) * size)
	if end > n {
		end = n
	}
	return start, end
}

// extrema returns the indices of the minimum and maximum in data[start:end]
func extrema(data []float64, start, end int) (int, int) {
	minIdx, maxIdx := start, start
	for j := start + 1; j < end; j++ {
		if data[j] < data[minIdx] {
			minIdx = j
		}
		if data[j] > data[maxIdx] {
			maxIdx = j
		}
	}
	return minIdx, maxIdx
}

// minmax keeps the min and max of each of threshold/2 buckets, in time order
func minmax(data []float64, threshold int) []int {
	numBuckets := max(threshold/2, 1)
	sampled := make([]int, 0, numBuckets*2)

	for i := 0; i < numBuckets; i++ {
		start, end := bucketBounds(len(data), numBuckets, i)
		if start >= end {
			continue
		}

		minIdx, maxIdx := extrema(data, start, end)
		lo, hi := min(minIdx, maxIdx), max(minIdx, maxIdx)
		sampled = append(sampled, lo)
		if hi != lo {
			sampled = append(sampled, hi)
		}
	}

	return sampled
}

// m4 keeps first, min, max and last of each of threshold/4 buckets, in time order
func m4(data []float64, threshold int) []int {
	numBuckets := max(threshold/4, 1)
	sampled := make([]int, 0, numBuckets*4)

	for i := 0; i < numBuckets; i++ {
		start, end := bucketBounds(len(data), numBuckets, i)
		if start >= end {
			continue
		}

		first, last := start, end-1
		minIdx, maxIdx := extrema(data, start, end)
		lo, hi := min(minIdx, maxIdx), max(minIdx, maxIdx)

		for _, idx := range []int{first, lo, hi, last} {
			if n := len(sampled); n > 0 && sampled[n-1] >= idx {
				continue
			}
			sampled = append(sampled, idx)
		}
	}

	return sampled
}
