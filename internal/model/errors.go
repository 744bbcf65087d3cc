package model

import "errors"

var (
	EmptyExponentSetErr  = errors.New("empty exponent set")
	MalformedExponentErr = errors.New("malformed exponent")
	MalformedSampleErr   = errors.New("malformed sample")
	InsufficientDataErr  = errors.New("insufficient data")
	SingularSystemErr    = errors.New("singular system")
	NumericOverflowErr   = errors.New("numeric overflow")
)

// Kind returns the name of the failure class the given error belongs to.
// It returns an empty string for errors outside of the fit taxonomy.
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, EmptyExponentSetErr):
		return "EmptyExponentSet"
	case errors.Is(err, MalformedExponentErr):
		return "MalformedExponent"
	case errors.Is(err, MalformedSampleErr):
		return "MalformedSample"
	case errors.Is(err, InsufficientDataErr):
		return "InsufficientData"
	case errors.Is(err, SingularSystemErr):
		return "SingularSystem"
	case errors.Is(err, NumericOverflowErr):
		return "NumericOverflow"
	}
	return ""
}
