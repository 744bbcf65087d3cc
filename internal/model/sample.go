package model

import (
	"fmt"
	"math"
)

// Point is a single measurement.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Samples is the ordered set of measurements to fit.
type Samples []Point

// NewSamples zips the given x and y values into a sample set.
func NewSamples(x, y []float64) (Samples, error) {
	if len(x) != len(y) {
		return nil, fmt.Errorf("x and y lengths differ %d != %d: %w", len(x), len(y), MalformedSampleErr)
	}
	ss := make(Samples, len(x))
	for i := range x {
		ss[i] = Point{X: x[i], Y: y[i]}
	}
	return ss, nil
}

// XY splits the samples into their x and y series.
func (s Samples) XY() (x, y []float64) {
	x = make([]float64, len(s))
	y = make([]float64, len(s))
	for i, p := range s {
		x[i] = p.X
		y[i] = p.Y
	}
	return x, y
}

// Finite checks that all coordinates are real numbers.
func (s Samples) Finite() error {
	for i, p := range s {
		if math.IsNaN(p.X) || math.IsInf(p.X, 0) || math.IsNaN(p.Y) || math.IsInf(p.Y, 0) {
			return fmt.Errorf("sample %d (%v,%v) is not finite: %w", i, p.X, p.Y, NumericOverflowErr)
		}
	}
	return nil
}

// Distinct returns the number of distinct x values.
func (s Samples) Distinct() int {
	seen := make(map[float64]struct{}, len(s))
	for _, p := range s {
		seen[p.X] = struct{}{}
	}
	return len(seen)
}
