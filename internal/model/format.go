package model

import (
	"fmt"
	"math"
	"strconv"
)

// MaxDigits is the largest meaningful decimal precision of a float64.
const MaxDigits = 17

// CheckDigits rejects a precision beyond MaxDigits.
func CheckDigits(digits int) error {
	if digits > MaxDigits {
		return fmt.Errorf("digits %d exceeds the maximum of %d", digits, MaxDigits)
	}
	return nil
}

func clamp(digits int) int {
	if digits > MaxDigits {
		return MaxDigits
	}
	return digits
}

// Round rounds the value to the given number of decimal places.
// Negative precision leaves the value untouched, precision above MaxDigits is capped.
// The rounding goes through the shortest decimal rendering of the float,
// so that halves are resolved on the exact binary value.
func Round(f float64, digits int) float64 {
	if digits < 0 || math.IsNaN(f) || math.IsInf(f, 0) {
		return f
	}
	r, err := strconv.ParseFloat(strconv.FormatFloat(f, 'f', clamp(digits), 64), 64)
	if err != nil {
		return f
	}
	// avoid -0 in the output
	if r == 0 {
		return 0
	}
	return r
}

// Format formats the value with the given precision.
// Negative precision uses the smallest representation that round-trips.
func Format(f float64, digits int) string {
	return strconv.FormatFloat(f, 'f', clamp(digits), 64)
}
