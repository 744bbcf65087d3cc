package approx

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/drakos74/free-fit/internal/api"
	"github.com/drakos74/free-fit/internal/model"
	"github.com/rs/zerolog/log"
)

const fitPath = "api/fit"

// Remote fits against a fit server.
type Remote struct {
	url    string
	client *http.Client
}

// NewRemote creates a new approximator for the server at the given base url.
func NewRemote(url string) *Remote {
	return &Remote{
		url:    strings.TrimSuffix(url, "/"),
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Approx sends the fit request to the server.
func (r *Remote) Approx(ctx context.Context, exponents []int, points []model.Point, opts ...Option) (model.Result, error) {
	o := NewOptions(opts...)
	request := api.NewFitRequest(exponents, points).
		WithDigits(o.Digits).
		WithEngine(o.Engine)

	b, err := json.Marshal(request)
	if err != nil {
		return model.Result{}, fmt.Errorf("could not encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, fmt.Sprintf("%s/%s", r.url, fitPath), bytes.NewReader(b))
	if err != nil {
		return model.Result{}, fmt.Errorf("could not create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return model.Result{}, fmt.Errorf("could not reach fit server: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.Result{}, fmt.Errorf("could not read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		var response api.FitResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return model.Result{}, fmt.Errorf("could not decode response: %w", err)
		}
		log.Debug().
			Str("id", response.ID).
			Str("polynomial", response.Polynomial).
			Msg("remote fit")
		return response.Result(), nil
	case http.StatusUnprocessableEntity, http.StatusBadRequest:
		var response api.ErrorResponse
		if err := json.Unmarshal(body, &response); err != nil {
			return model.Result{}, fmt.Errorf("could not decode error response %d '%s': %w", resp.StatusCode, string(body), err)
		}
		return model.Result{}, response.Err()
	}
	return model.Result{}, fmt.Errorf("unexpected response %d: %s", resp.StatusCode, string(body))
}
