package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultMaxCurvePoints bounds GaussianCurve when no explicit limit is given
const DefaultMaxCurvePoints = 201

// CurvePoint is one point of an estimated normal distribution centred on zero.
// Offset is the distance from the mean, Value the corresponding sample value.
type CurvePoint struct {
	Offset  float64
	Value   float64
	Density float64
}

// GaussianCurve samples the normal density with the given standard deviation
// from trunc(-3σ) to trunc(3σ). Offsets step by 1, or by the smallest integer
// step that keeps the curve within maxPoints points. Value carries offset+mean
// so the curve can be labelled in sample units. A non-positive maxPoints uses
// DefaultMaxCurvePoints. A non-positive or non-finite stdDev yields nil.
func GaussianCurve(mean, stdDev float64, maxPoints int) []CurvePoint {
	if stdDev <= 0 || math.IsInf(stdDev, 0) || math.IsNaN(stdDev) {
		return nil
	}
	if maxPoints <= 0 {
		maxPoints = DefaultMaxCurvePoints
	}
	maxPoints = max(maxPoints, 2)

	dist := distuv.Normal{Mu: 0, Sigma: stdDev}
	lo, hi := math.Trunc(-3*stdDev), math.Trunc(3*stdDev)
	step := math.Max(1, math.Ceil((hi-lo)/float64(maxPoints-1)))
	if math.IsInf(step, 0) {
		return nil
	}

	n := int((hi-lo)/step) + 1
	points := make([]CurvePoint, 0, n)
	for k := 0; k < n; k++ {
		offset := lo + float64(k)*step
		points = append(points, CurvePoint{
			Offset:  offset,
			Value:   offset + mean,
			Density: dist.Prob(offset),
		})
	}
	return points
}
