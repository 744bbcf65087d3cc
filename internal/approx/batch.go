package approx

import (
	"context"

	"github.com/drakos74/free-fit/internal/model"
	"golang.org/x/sync/errgroup"
)

// Request is one entry of a batch.
type Request struct {
	Exponents []int
	Points    []model.Point
	Options   []Option
}

// Outcome is the result of one entry of a batch.
type Outcome struct {
	Result model.Result
	Err    error
}

// Batch fits all requests in parallel with at most limit fits in flight.
// Outcomes keep the request order. A failing request does not affect the others.
func Batch(ctx context.Context, approximator Approximator, requests []Request, limit int) []Outcome {
	outcomes := make([]Outcome, len(requests))
	g := new(errgroup.Group)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i := range requests {
		i := i
		g.Go(func() error {
			r := requests[i]
			result, err := approximator.Approx(ctx, r.Exponents, r.Points, r.Options...)
			outcomes[i] = Outcome{Result: result, Err: err}
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}
