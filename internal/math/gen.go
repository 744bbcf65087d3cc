package math

import (
	"math/rand"

	"github.com/drakos74/free-fit/internal/model"
)

// Series generates limit equally spaced values starting at start.
func Series(start, step float64, limit int) []float64 {
	xx := make([]float64, 0, limit)
	for i := 0; i < limit; i++ {
		xx = append(xx, start+step*float64(i))
	}
	return xx
}

// Generate evaluates the polynomial at the given x values.
func Generate(p model.Polynomial, xx []float64) model.Samples {
	ss := make(model.Samples, len(xx))
	for i, x := range xx {
		ss[i] = model.Point{X: x, Y: p.Eval(x)}
	}
	return ss
}

// Noise adds uniform noise of the given amplitude to the sample y values.
// The seed makes the noise reproducible.
func Noise(ss model.Samples, amplitude float64, seed int64) model.Samples {
	r := rand.New(rand.NewSource(seed))
	noisy := make(model.Samples, len(ss))
	for i, p := range ss {
		noisy[i] = model.Point{X: p.X, Y: p.Y + amplitude*(2*r.Float64()-1)}
	}
	return noisy
}
