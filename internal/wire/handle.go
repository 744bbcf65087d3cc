package wire

import (
	"bytes"
	"io"

	"github.com/drakos74/free-fit/internal/math"
	"github.com/drakos74/free-fit/internal/model"
)

// Handle decodes a request from r, fits it and writes the response line to w.
// Nothing is written to w unless the fit succeeds.
func Handle(r io.Reader, w io.Writer, engine math.Engine, digits int) (Request, model.Result, error) {
	request, err := DecodeRequest(r)
	if err != nil {
		return request, model.Result{}, err
	}
	result, err := math.Fit(request.Exponents, request.Samples, engine)
	if err != nil {
		return request, model.Result{}, err
	}
	var b bytes.Buffer
	if err := EncodeResponse(&b, result, digits); err != nil {
		return request, model.Result{}, err
	}
	if _, err := w.Write(b.Bytes()); err != nil {
		return request, model.Result{}, err
	}
	return request, result, nil
}
