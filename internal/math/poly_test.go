package math

import (
	"fmt"
	"math"
	"sync"
	"testing"

	"github.com/drakos74/free-fit/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

const tolerance = 1e-6

func exponents(t *testing.T, ee ...int) model.Exponents {
	exps, err := model.NewExponents(ee...)
	require.NoError(t, err)
	return exps
}

func TestFit_Recovery(t *testing.T) {

	type test struct {
		exponents    []int
		coefficients []float64
		x            []float64
	}

	tests := map[string]test{
		"constant": {
			exponents:    []int{0},
			coefficients: []float64{3.5},
			x:            Series(0, 1, 3),
		},
		"line": {
			exponents:    []int{0, 1},
			coefficients: []float64{1, 2},
			x:            Series(0, 1, 2),
		},
		"quadratic": {
			exponents:    []int{0, 1, 2},
			coefficients: []float64{-1, 0.5, 3},
			x:            Series(-2, 0.5, 9),
		},
		"sparse": {
			exponents:    []int{0, 2, 3},
			coefficients: []float64{4, -2, 0.25},
			x:            Series(-2, 0.5, 9),
		},
		"reversed": {
			exponents:    []int{3, 1, 0},
			coefficients: []float64{1.5, -3, 7},
			x:            Series(-1, 0.25, 9),
		},
		"no-constant": {
			exponents:    []int{1, 4},
			coefficients: []float64{-0.5, 0.125},
			x:            Series(-2, 0.4, 11),
		},
		"single-power": {
			exponents:    []int{2},
			coefficients: []float64{9},
			x:            []float64{0, 1, -3},
		},
		"zero-x": {
			exponents:    []int{0, 1},
			coefficients: []float64{2, 0},
			x:            []float64{0, 0.5},
		},
	}

	for name, tt := range tests {
		for _, engine := range Engines {
			t.Run(fmt.Sprintf("%s-%s", name, engine), func(t *testing.T) {
				exps := exponents(t, tt.exponents...)
				samples := Generate(model.NewPolynomial(exps, tt.coefficients), tt.x)

				result, err := Fit(exps, samples, engine)
				require.NoError(t, err)
				require.Equal(t, exps.Len(), len(result.Coefficients))
				assert.True(t, floats.EqualApprox(tt.coefficients, result.Coefficients, tolerance),
					"expected %v but got %v", tt.coefficients, result.Coefficients)
				assert.InDelta(t, 0, result.Variance, tolerance)
			})
		}
	}
}

func TestFit_Line(t *testing.T) {
	samples := model.Samples{{X: 0, Y: 1}, {X: 1, Y: 3}, {X: 2, Y: 5}}
	for _, engine := range Engines {
		t.Run(string(engine), func(t *testing.T) {
			result, err := Fit(exponents(t, 0, 1), samples, engine)
			require.NoError(t, err)
			assert.InDelta(t, 1.0, result.Coefficients[0], tolerance)
			assert.InDelta(t, 2.0, result.Coefficients[1], tolerance)
			assert.InDelta(t, 0.0, result.Variance, tolerance)
		})
	}
}

func TestFit_Constant(t *testing.T) {
	samples := model.Samples{{X: 0, Y: 2}, {X: 1, Y: 4}, {X: 2, Y: 6}}
	for _, engine := range Engines {
		t.Run(string(engine), func(t *testing.T) {
			result, err := Fit(exponents(t, 0), samples, engine)
			require.NoError(t, err)
			require.Len(t, result.Coefficients, 1)
			// the mean of the y values
			assert.InDelta(t, 4.0, result.Coefficients[0], tolerance)
			// (4 + 0 + 4) / 3
			assert.InDelta(t, 8.0/3.0, result.Variance, tolerance)
		})
	}
}

func TestFit_Order(t *testing.T) {
	p := model.NewPolynomial(exponents(t, 0, 1, 3), []float64{1, -2, 0.5})
	samples := Generate(p, Series(-2, 0.5, 9))

	ascending, err := Fit(exponents(t, 0, 1, 3), samples, QR)
	require.NoError(t, err)
	shuffled, err := Fit(exponents(t, 3, 0, 1), samples, QR)
	require.NoError(t, err)

	assert.InDelta(t, ascending.Coefficients[0], shuffled.Coefficients[1], tolerance)
	assert.InDelta(t, ascending.Coefficients[1], shuffled.Coefficients[2], tolerance)
	assert.InDelta(t, ascending.Coefficients[2], shuffled.Coefficients[0], tolerance)
}

func TestFit_Noisy(t *testing.T) {
	exps := exponents(t, 0, 1, 2)
	truth := []float64{1, -1, 0.5}
	samples := Noise(Generate(model.NewPolynomial(exps, truth), Series(-5, 0.1, 101)), 0.05, 42)

	results := make(map[Engine]model.Result)
	for _, engine := range Engines {
		result, err := Fit(exps, samples, engine)
		require.NoError(t, err)
		assert.True(t, floats.EqualApprox(truth, result.Coefficients, 0.05),
			"expected %v but got %v", truth, result.Coefficients)
		assert.Greater(t, result.Variance, 0.0)
		// uniform noise of amplitude a has variance a^2/3
		assert.Less(t, result.Variance, 0.05*0.05)
		results[engine] = result
	}

	// all solvers agree on the least squares solution
	for _, engine := range Engines {
		assert.True(t, floats.EqualApprox(results[QR].Coefficients, results[engine].Coefficients, tolerance))
		assert.InDelta(t, results[QR].Variance, results[engine].Variance, tolerance)
	}
}

func TestFit_Rounding(t *testing.T) {
	exps := exponents(t, 0, 1, 2)
	samples := Noise(Generate(model.NewPolynomial(exps, []float64{0.123456, 2.345678, -0.5}), Series(0, 0.2, 30)), 0.01, 7)

	raw, err := Fit(exps, samples, QR)
	require.NoError(t, err)
	again, err := Fit(exps, samples, QR)
	require.NoError(t, err)
	assert.Equal(t, raw, again)

	for digits := 0; digits < 8; digits++ {
		rounded := raw.Round(digits)
		for i, c := range rounded.Coefficients {
			assert.InDelta(t, raw.Coefficients[i], c, 0.5*math.Pow(10, -float64(digits))+1e-15)
		}
	}

	// rounding the output never feeds back into the solve
	after, err := Fit(exps, samples, QR)
	require.NoError(t, err)
	assert.Equal(t, raw, after)
}

func TestFit_Errors(t *testing.T) {

	type test struct {
		exponents model.Exponents
		samples   model.Samples
		err       error
	}

	line := model.Samples{{X: 0, Y: 1}, {X: 1, Y: 3}, {X: 2, Y: 5}}

	tests := map[string]test{
		"no-exponents": {
			exponents: model.Exponents{},
			samples:   line,
			err:       model.EmptyExponentSetErr,
		},
		"no-samples": {
			exponents: exponents(t, 0, 1),
			samples:   model.Samples{},
			err:       model.InsufficientDataErr,
		},
		"nil-samples": {
			exponents: exponents(t, 0),
			err:       model.InsufficientDataErr,
		},
		"duplicate-exponents": {
			exponents: exponents(t, 1, 1),
			samples:   line,
			err:       model.SingularSystemErr,
		},
		"under-determined": {
			exponents: exponents(t, 0, 1),
			samples:   model.Samples{{X: 1, Y: 1}},
			err:       model.SingularSystemErr,
		},
		"same-x": {
			exponents: exponents(t, 0, 1),
			samples:   model.Samples{{X: 1, Y: 1}, {X: 1, Y: 2}, {X: 1, Y: 3}},
			err:       model.SingularSystemErr,
		},
		"zero-column": {
			exponents: exponents(t, 1),
			samples:   model.Samples{{X: 0, Y: 1}, {X: 0, Y: 2}},
			err:       model.SingularSystemErr,
		},
		"symmetric-x": {
			exponents: exponents(t, 0, 2),
			samples:   model.Samples{{X: -1, Y: 1}, {X: 1, Y: 2}},
			err:       model.SingularSystemErr,
		},
		"overflow": {
			exponents: exponents(t, 0, 400),
			samples:   model.Samples{{X: 10, Y: 1}, {X: 20, Y: 2}},
			err:       model.NumericOverflowErr,
		},
		"nan": {
			exponents: exponents(t, 0),
			samples:   model.Samples{{X: math.NaN(), Y: 1}},
			err:       model.NumericOverflowErr,
		},
		"inf": {
			exponents: exponents(t, 0),
			samples:   model.Samples{{X: 1, Y: math.Inf(-1)}},
			err:       model.NumericOverflowErr,
		},
	}

	for name, tt := range tests {
		for _, engine := range Engines {
			t.Run(fmt.Sprintf("%s-%s", name, engine), func(t *testing.T) {
				result, err := Fit(tt.exponents, tt.samples, engine)
				assert.ErrorIs(t, err, tt.err)
				assert.Nil(t, result.Coefficients)
				assert.Equal(t, 0.0, result.Variance)
			})
		}
	}
}

func TestFit_UnknownEngine(t *testing.T) {
	_, err := Fit(exponents(t, 0), model.Samples{{X: 0, Y: 1}}, Engine("svd"))
	assert.Error(t, err)
	assert.Equal(t, "", model.Kind(err))
}

func TestFit_Concurrent(t *testing.T) {
	exps := exponents(t, 0, 1, 2, 3)
	samples := Noise(Generate(model.NewPolynomial(exps, []float64{1, 2, 3, 4}), Series(-1, 0.05, 41)), 0.1, 3)

	expected, err := Fit(exps, samples, QR)
	require.NoError(t, err)

	n := 16
	results := make([]model.Result, n)
	errs := make([]error, n)
	wg := new(sync.WaitGroup)
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = Fit(exps, samples, QR)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, expected, results[i])
	}
}

func TestParseEngine(t *testing.T) {

	type test struct {
		input  string
		output Engine
		err    bool
	}

	tests := map[string]test{
		"default":  {input: "", output: QR},
		"qr":       {input: "qr", output: QR},
		"cholesky": {input: "Cholesky", output: Cholesky},
		"lu":       {input: " lu ", output: LU},
		"unknown":  {input: "gauss", err: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			e, err := ParseEngine(tt.input)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.output, e)
		})
	}
}
