package approx

import (
	"context"

	"github.com/drakos74/free-fit/internal/math"
	"github.com/drakos74/free-fit/internal/model"
)

// DefaultDigits is the default output precision.
const DefaultDigits = 2

// Approximator fits a polynomial with the given exponents to the points.
type Approximator interface {
	Approx(ctx context.Context, exponents []int, points []model.Point, opts ...Option) (model.Result, error)
}

// Options holds the fit options.
type Options struct {
	Digits int
	Engine math.Engine
}

// Option adjusts the fit options.
type Option func(o *Options)

// WithDigits sets the output precision. Negative values disable rounding.
func WithDigits(digits int) Option {
	return func(o *Options) {
		o.Digits = digits
	}
}

// WithEngine sets the solver.
func WithEngine(engine math.Engine) Option {
	return func(o *Options) {
		o.Engine = engine
	}
}

// NewOptions resolves the options on top of the defaults.
func NewOptions(opts ...Option) Options {
	o := Options{
		Digits: DefaultDigits,
		Engine: math.DefaultEngine,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Local fits in process.
type Local struct {
}

// NewLocal creates a new in process approximator.
func NewLocal() *Local {
	return &Local{}
}

// Approx fits and rounds the result.
// The context is only checked before the fit starts, as the fit itself does not block.
func (l *Local) Approx(ctx context.Context, exponents []int, points []model.Point, opts ...Option) (model.Result, error) {
	if err := ctx.Err(); err != nil {
		return model.Result{}, err
	}
	o := NewOptions(opts...)
	exps, err := model.NewExponents(exponents...)
	if err != nil {
		return model.Result{}, err
	}
	result, err := math.Fit(exps, points, o.Engine)
	if err != nil {
		return model.Result{}, err
	}
	return result.Round(o.Digits), nil
}
