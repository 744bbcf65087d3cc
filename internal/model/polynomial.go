package model

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Term is a single c*x^e part of a polynomial.
type Term struct {
	Exponent    int
	Coefficient float64
}

// Polynomial is a sparse polynomial in x.
type Polynomial struct {
	Terms []Term
}

// NewPolynomial pairs exponents with coefficients.
// Surplus values on either side are ignored.
func NewPolynomial(exponents Exponents, coefficients []float64) Polynomial {
	n := exponents.Len()
	if len(coefficients) < n {
		n = len(coefficients)
	}
	tt := make([]Term, n)
	for i := 0; i < n; i++ {
		tt[i] = Term{
			Exponent:    exponents.At(i),
			Coefficient: coefficients[i],
		}
	}
	return Polynomial{Terms: tt}
}

// Eval evaluates the polynomial at x.
func (p Polynomial) Eval(x float64) float64 {
	var y float64
	for _, t := range p.Terms {
		y += t.Coefficient * Pow(x, t.Exponent)
	}
	return y
}

// Degree returns the highest exponent with a non-zero coefficient.
func (p Polynomial) Degree() int {
	d := 0
	for _, t := range p.Terms {
		if t.Coefficient != 0 && t.Exponent > d {
			d = t.Exponent
		}
	}
	return d
}

// String renders the polynomial highest power first e.g. p(x) = 2x^3 - 1.5x + 1
func (p Polynomial) String() string {
	// merge same powers
	byExp := make(map[int]float64)
	for _, t := range p.Terms {
		byExp[t.Exponent] += t.Coefficient
	}
	ee := make([]int, 0, len(byExp))
	for e, c := range byExp {
		if c != 0 {
			ee = append(ee, e)
		}
	}
	sort.Sort(sort.Reverse(sort.IntSlice(ee)))

	if len(ee) == 0 {
		return "p(x) = 0"
	}

	var b strings.Builder
	b.WriteString("p(x) = ")
	for i, e := range ee {
		c := byExp[e]
		switch {
		case i == 0 && c < 0:
			b.WriteString("-")
		case i > 0 && c < 0:
			b.WriteString(" - ")
		case i > 0:
			b.WriteString(" + ")
		}
		a := math.Abs(c)
		switch e {
		case 0:
			b.WriteString(fmt.Sprintf("%g", a))
		case 1:
			if a != 1 {
				b.WriteString(fmt.Sprintf("%g", a))
			}
			b.WriteString("x")
		default:
			if a != 1 {
				b.WriteString(fmt.Sprintf("%g", a))
			}
			b.WriteString(fmt.Sprintf("x^%d", e))
		}
	}
	return b.String()
}

// Pow raises x to a non-negative integer power by repeated squaring.
// x^0 is 1 for every x, including 0.
func Pow(x float64, e int) float64 {
	p := 1.0
	for e > 0 {
		if e&1 == 1 {
			p *= x
		}
		x *= x
		e >>= 1
	}
	return p
}
