package math

import (
	"math"
)

// eps is the float64 machine epsilon.
var eps = math.Nextafter(1, 2) - 1

func finite(ff ...float64) bool {
	for _, f := range ff {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return false
		}
	}
	return true
}
