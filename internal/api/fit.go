package api

import (
	"fmt"

	"github.com/drakos74/free-fit/internal/math"
	"github.com/drakos74/free-fit/internal/model"
	"github.com/drakos74/free-fit/internal/wire"
)

// FitRequest is the structured form of a fit request.
type FitRequest struct {
	Exponents []int         `json:"exponents"`
	Points    []model.Point `json:"points"`
	// Digits is the output precision, nil falls back to the server default.
	Digits *int   `json:"digits,omitempty"`
	Engine string `json:"engine,omitempty"`
}

// NewFitRequest creates a request for the given exponents and points.
func NewFitRequest(exponents []int, points []model.Point) *FitRequest {
	return &FitRequest{
		Exponents: exponents,
		Points:    points,
	}
}

// WithDigits sets the output precision.
func (r *FitRequest) WithDigits(digits int) *FitRequest {
	r.Digits = &digits
	return r
}

// WithEngine sets the solver.
func (r *FitRequest) WithEngine(engine math.Engine) *FitRequest {
	r.Engine = string(engine)
	return r
}

// Parse validates the request.
func (r FitRequest) Parse() (model.Exponents, model.Samples, math.Engine, error) {
	exponents, err := model.NewExponents(r.Exponents...)
	if err != nil {
		return model.Exponents{}, nil, "", err
	}
	engine, err := math.ParseEngine(r.Engine)
	if err != nil {
		return model.Exponents{}, nil, "", err
	}
	return exponents, model.Samples(r.Points), engine, nil
}

// FitResponse is the structured form of a successful fit.
type FitResponse struct {
	ID           string    `json:"id"`
	Engine       string    `json:"engine"`
	Exponents    []int     `json:"exponents"`
	Coefficients []float64 `json:"coefficients"`
	Variance     float64   `json:"variance"`
	Polynomial   string    `json:"polynomial"`
}

// NewFitResponse creates the response for the given result, rounded to the requested digits.
func NewFitResponse(id string, engine math.Engine, exponents model.Exponents, result model.Result, digits int) FitResponse {
	rounded := result.Round(digits)
	return FitResponse{
		ID:           id,
		Engine:       string(engine),
		Exponents:    exponents.Values(),
		Coefficients: rounded.Coefficients,
		Variance:     rounded.Variance,
		Polynomial:   rounded.Polynomial(exponents).String(),
	}
}

// Result returns the model result carried by the response.
func (r FitResponse) Result() model.Result {
	return model.Result{
		Coefficients: r.Coefficients,
		Variance:     r.Variance,
	}
}

// ErrorResponse describes a failed fit.
type ErrorResponse struct {
	ID string `json:"id"`
	// Kind is the failure class e.g. SingularSystem.
	Kind string `json:"kind"`
	// Status is the matching legacy exit status.
	Status int    `json:"status"`
	Error  string `json:"error"`
}

// NewErrorResponse creates the response for the given failure.
func NewErrorResponse(id string, err error) ErrorResponse {
	return ErrorResponse{
		ID:     id,
		Kind:   model.Kind(err),
		Status: int(wire.StatusOf(err)),
		Error:  err.Error(),
	}
}

// Err converts the response back into an error wrapping the matching sentinel.
func (r ErrorResponse) Err() error {
	for _, sentinel := range []error{
		model.EmptyExponentSetErr,
		model.MalformedExponentErr,
		model.MalformedSampleErr,
		model.InsufficientDataErr,
		model.SingularSystemErr,
		model.NumericOverflowErr,
	} {
		if model.Kind(sentinel) == r.Kind {
			return fmt.Errorf("%s: %w", r.Error, sentinel)
		}
	}
	return fmt.Errorf("fit failed: %s", r.Error)
}

// BatchItem holds the outcome of one request of a batch.
// Exactly one of Response and Error is set.
type BatchItem struct {
	Response *FitResponse  `json:"response,omitempty"`
	Error    *ErrorResponse `json:"error,omitempty"`
}
