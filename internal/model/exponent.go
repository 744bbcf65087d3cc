package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Exponents is the ordered set of powers of x that make up the fitted polynomial.
// {0, 2, 3} stands for a0 + a2*x^2 + a3*x^3.
type Exponents struct {
	ee []int
}

// NewExponents creates an exponent set from the given powers.
func NewExponents(ee ...int) (Exponents, error) {
	if len(ee) == 0 {
		return Exponents{}, EmptyExponentSetErr
	}
	for i, e := range ee {
		if e < 0 {
			return Exponents{}, fmt.Errorf("exponent %d at index %d is negative: %w", e, i, MalformedExponentErr)
		}
	}
	cp := make([]int, len(ee))
	copy(cp, ee)
	return Exponents{ee: cp}, nil
}

// ParseExponents parses the raw count and the exponent tokens following it.
// Only the first count tokens are considered.
func ParseExponents(rawCount string, rawExponents []string) (Exponents, error) {
	count, err := strconv.Atoi(strings.TrimSpace(rawCount))
	if err != nil {
		return Exponents{}, fmt.Errorf("could not parse exponent count '%s': %w", rawCount, MalformedExponentErr)
	}
	if count == 0 {
		return Exponents{}, EmptyExponentSetErr
	}
	if count < 0 {
		return Exponents{}, fmt.Errorf("negative exponent count %d: %w", count, MalformedExponentErr)
	}
	if len(rawExponents) < count {
		return Exponents{}, fmt.Errorf("expected %d exponents but got %d: %w", count, len(rawExponents), MalformedExponentErr)
	}

	ee := make([]int, count)
	for i := 0; i < count; i++ {
		e, err := strconv.ParseUint(strings.TrimSpace(rawExponents[i]), 10, 31)
		if err != nil {
			return Exponents{}, fmt.Errorf("could not parse exponent '%s' at index %d: %w", rawExponents[i], i, MalformedExponentErr)
		}
		ee[i] = int(e)
	}
	return Exponents{ee: ee}, nil
}

// Len returns the number of requested terms.
func (e Exponents) Len() int {
	return len(e.ee)
}

// At returns the exponent at position i.
func (e Exponents) At(i int) int {
	return e.ee[i]
}

// Values returns a copy of the exponents in their original order.
func (e Exponents) Values() []int {
	cp := make([]int, len(e.ee))
	copy(cp, e.ee)
	return cp
}

// Duplicates reports whether any exponent is requested more than once.
func (e Exponents) Duplicates() bool {
	seen := make(map[int]struct{}, len(e.ee))
	for _, x := range e.ee {
		if _, ok := seen[x]; ok {
			return true
		}
		seen[x] = struct{}{}
	}
	return false
}

func (e Exponents) String() string {
	ss := make([]string, len(e.ee))
	for i, x := range e.ee {
		ss[i] = strconv.Itoa(x)
	}
	return fmt.Sprintf("{%s}", strings.Join(ss, ","))
}
