package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRound(t *testing.T) {

	type test struct {
		input  float64
		digits int
		output float64
	}

	tests := map[string]test{
		"0": {
			input:  0,
			digits: 2,
			output: 0,
		},
		"up": {
			input:  1.5555,
			digits: 2,
			output: 1.56,
		},
		"down": {
			input:  1.4444,
			digits: 2,
			output: 1.44,
		},
		"negative-zero": {
			input:  -0.0001,
			digits: 2,
			output: 0,
		},
		"no-digits": {
			input:  2.5001,
			digits: 0,
			output: 3,
		},
		"unrounded": {
			input:  1.23456789,
			digits: -1,
			output: 1.23456789,
		},
		"capped": {
			input:  1.25,
			digits: 50000000,
			output: 1.25,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.output, Round(tt.input, tt.digits))
		})
	}

	assert.True(t, math.IsInf(Round(math.Inf(1), 2), 1))
}

func TestResult_Round(t *testing.T) {
	r := Result{
		Coefficients: []float64{1.23456, -0.98765},
		Variance:     0.0123456,
	}
	rounded := r.Round(2)
	assert.Equal(t, []float64{1.23, -0.99}, rounded.Coefficients)
	// variance keeps twice the precision
	assert.Equal(t, 0.0123, rounded.Variance)
	// the source is untouched
	assert.Equal(t, 1.23456, r.Coefficients[0])

	same := r.Round(-1)
	assert.Equal(t, r, same)

	// variance precision is capped as well
	capped := r.Round(MaxDigits)
	assert.Equal(t, r, capped)
}

func TestFormat_Capped(t *testing.T) {
	assert.Equal(t, "0.50000000000000000", Format(0.5, 1<<30))
	assert.Equal(t, "0.5", Format(0.5, -1))
}

func TestCheckDigits(t *testing.T) {
	assert.NoError(t, CheckDigits(-1))
	assert.NoError(t, CheckDigits(0))
	assert.NoError(t, CheckDigits(MaxDigits))
	assert.Error(t, CheckDigits(MaxDigits+1))
	assert.Error(t, CheckDigits(50000000))
}

func TestPolynomial(t *testing.T) {
	ee, err := NewExponents(0, 1, 3)
	require.NoError(t, err)

	p := Result{Coefficients: []float64{1, -1.5, 2}}.Polynomial(ee)
	assert.Equal(t, "p(x) = 2x^3 - 1.5x + 1", p.String())
	assert.Equal(t, 3, p.Degree())
	assert.Equal(t, 1.0, p.Eval(0))
	assert.Equal(t, 1.5, p.Eval(1))
	assert.Equal(t, 14.0, p.Eval(2))

	neg := NewPolynomial(ee, []float64{0, 1, -1})
	assert.Equal(t, "p(x) = -x^3 + x", neg.String())

	zero := NewPolynomial(ee, []float64{0, 0, 0})
	assert.Equal(t, "p(x) = 0", zero.String())
	assert.Equal(t, 0, zero.Degree())
}

func TestPow(t *testing.T) {

	type test struct {
		x      float64
		e      int
		output float64
	}

	tests := map[string]test{
		"zero-to-zero": {x: 0, e: 0, output: 1},
		"zero":         {x: 0, e: 3, output: 0},
		"square":       {x: 3, e: 2, output: 9},
		"cube":         {x: -2, e: 3, output: -8},
		"ten":          {x: 2, e: 10, output: 1024},
		"fraction":     {x: 0.5, e: 2, output: 0.25},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.output, Pow(tt.x, tt.e))
		})
	}

	assert.True(t, math.IsInf(Pow(1e200, 3), 1))
}

func TestSamples(t *testing.T) {
	ss, err := NewSamples([]float64{0, 1, 1}, []float64{2, 3, 4})
	require.NoError(t, err)
	assert.Equal(t, 2, ss.Distinct())
	x, y := ss.XY()
	assert.Equal(t, []float64{0, 1, 1}, x)
	assert.Equal(t, []float64{2, 3, 4}, y)
	assert.NoError(t, ss.Finite())

	_, err = NewSamples([]float64{0}, nil)
	assert.ErrorIs(t, err, MalformedSampleErr)

	bad := Samples{{X: math.NaN(), Y: 1}}
	assert.ErrorIs(t, bad.Finite(), NumericOverflowErr)
}
