package wire

import (
	"errors"

	"github.com/drakos74/free-fit/internal/model"
)

// Status is the process exit status reported for a fit request.
type Status int

const (
	OK Status = iota
	MissingArguments
	EmptyExponentSet
	InsufficientData
	MalformedExponent
	SingularSystem
	NumericOverflow
	MalformedSample
	// Unknown covers failures outside of the fit taxonomy e.g. io errors.
	Unknown Status = 64
)

// StatusOf maps the error to the exit status of the legacy executable.
// Any non-zero status means there is no fit to read.
func StatusOf(err error) Status {
	switch {
	case err == nil:
		return OK
	case errors.Is(err, MissingHeaderErr):
		return MissingArguments
	case errors.Is(err, model.EmptyExponentSetErr):
		return EmptyExponentSet
	case errors.Is(err, model.InsufficientDataErr), errors.Is(err, TruncatedErr):
		return InsufficientData
	case errors.Is(err, model.MalformedExponentErr):
		return MalformedExponent
	case errors.Is(err, model.SingularSystemErr):
		return SingularSystem
	case errors.Is(err, model.NumericOverflowErr):
		return NumericOverflow
	case errors.Is(err, model.MalformedSampleErr):
		return MalformedSample
	}
	return Unknown
}

func (s Status) String() string {
	switch s {
	case OK:
		return "ok"
	case MissingArguments:
		return "fitter needs more arguments"
	case EmptyExponentSet:
		return "exponent count is 0"
	case InsufficientData:
		return "fitter needs more fitting data"
	case MalformedExponent:
		return "malformed exponent"
	case SingularSystem:
		return "singular system"
	case NumericOverflow:
		return "numeric overflow"
	case MalformedSample:
		return "malformed sample"
	}
	return "unknown error"
}
