package model

// Result is the outcome of a successful fit.
// Coefficients are in the same order as the requested exponents.
type Result struct {
	Coefficients []float64 `json:"coefficients"`
	Variance     float64   `json:"variance"`
}

// Round returns a copy of the result rounded for display.
// Coefficients keep the given number of decimals, while the variance keeps twice as many.
func (r Result) Round(digits int) Result {
	cc := make([]float64, len(r.Coefficients))
	for i, c := range r.Coefficients {
		cc[i] = Round(c, digits)
	}
	v := r.Variance
	if digits >= 0 {
		v = Round(v, 2*digits)
	}
	return Result{
		Coefficients: cc,
		Variance:     v,
	}
}

// Polynomial pairs the result coefficients with the exponents they were fitted for.
func (r Result) Polynomial(exponents Exponents) Polynomial {
	return NewPolynomial(exponents, r.Coefficients)
}
