package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/drakos74/free-fit/infra/config"
	"github.com/drakos74/free-fit/internal/api"
	"github.com/drakos74/free-fit/internal/approx"
	"github.com/drakos74/free-fit/internal/math"
	"github.com/drakos74/free-fit/internal/metrics"
	"github.com/drakos74/free-fit/internal/model"
	"github.com/drakos74/free-fit/internal/wire"
	"github.com/rs/zerolog/log"
)

const (
	// StatusHeader carries the legacy exit status of a legacy request.
	StatusHeader = "X-Fit-Status"

	transportJSON   = "json"
	transportLegacy = "legacy"
)

// FitService serves fit requests.
type FitService struct {
	cfg          config.Fit
	engine       math.Engine
	approximator approx.Approximator
}

// NewFitService creates a fit service for the given config.
func NewFitService(cfg config.Fit) (*FitService, error) {
	engine, err := math.ParseEngine(cfg.Engine)
	if err != nil {
		return nil, fmt.Errorf("invalid default engine: %w", err)
	}
	if err := model.CheckDigits(cfg.Digits); err != nil {
		return nil, fmt.Errorf("invalid default digits: %w", err)
	}
	return &FitService{
		cfg:          cfg,
		engine:       engine,
		approximator: observe(approx.NewLocal(), transportJSON),
	}, nil
}

// New creates the fit server with all the fit routes.
func New(cfg config.Fit) (*Server, error) {
	service, err := NewFitService(cfg)
	if err != nil {
		return nil, err
	}
	srv := NewServer("fit", cfg.Port).
		WithOrigins(cfg.Origins...).
		Add(Live()).
		Add(service.Routes()...).
		Mount("/metrics", metrics.Handler())
	if cfg.Debug {
		srv.Debug()
	}
	return srv, nil
}

// Routes returns the fit routes.
func (s *FitService) Routes() []Route {
	return []Route{
		{Action: Api, Path: "fit", Method: POST, Exec: s.fit},
		{Action: Api, Path: "fit/batch", Method: POST, Exec: s.batch},
		{Action: Api, Path: "legacy", Method: POST, ContentType: "text/plain", Exec: s.legacy},
	}
}

func (s *FitService) fit(_ http.Header, r *http.Request) ([]byte, int, error) {
	id := RequestID(r)
	var request api.FitRequest
	if err := JsonRead(r, s.cfg.Debug, &request); err != nil {
		return s.failure(id, fmt.Errorf("could not decode request: %w", err))
	}
	item := s.one(r.Context(), id, request)
	if item.Error != nil {
		return s.encode(item.Error, code(item.Error))
	}
	return s.encode(item.Response, http.StatusOK)
}

func (s *FitService) batch(_ http.Header, r *http.Request) ([]byte, int, error) {
	id := RequestID(r)
	var requests []api.FitRequest
	if err := JsonRead(r, s.cfg.Debug, &requests); err != nil {
		return s.failure(id, fmt.Errorf("could not decode batch request: %w", err))
	}

	items := make([]api.BatchItem, len(requests))
	parsed := make([]approx.Request, 0, len(requests))
	index := make([]int, 0, len(requests))
	exponents := make([]model.Exponents, 0, len(requests))
	engines := make([]math.Engine, 0, len(requests))
	digits := make([]int, 0, len(requests))
	for i, request := range requests {
		exps, samples, engine, err := s.parse(request)
		if err != nil {
			e := api.NewErrorResponse(itemID(id, i), err)
			items[i] = api.BatchItem{Error: &e}
			continue
		}
		d, err := s.digits(request)
		if err != nil {
			e := api.NewErrorResponse(itemID(id, i), err)
			items[i] = api.BatchItem{Error: &e}
			continue
		}
		parsed = append(parsed, approx.Request{
			Exponents: exps.Values(),
			Points:    samples,
			Options:   []approx.Option{approx.WithEngine(engine), approx.WithDigits(d)},
		})
		index = append(index, i)
		exponents = append(exponents, exps)
		engines = append(engines, engine)
		digits = append(digits, d)
	}

	outcomes := approx.Batch(r.Context(), s.approximator, parsed, s.cfg.BatchLimit)
	for j, outcome := range outcomes {
		i := index[j]
		if outcome.Err != nil {
			e := api.NewErrorResponse(itemID(id, i), outcome.Err)
			items[i] = api.BatchItem{Error: &e}
			continue
		}
		response := api.NewFitResponse(itemID(id, i), engines[j], exponents[j], outcome.Result, digits[j])
		items[i] = api.BatchItem{Response: &response}
	}

	log.Debug().Str("id", id).Int("requests", len(requests)).Msg("batch fit")
	return s.encode(items, http.StatusOK)
}

func (s *FitService) legacy(h http.Header, r *http.Request) ([]byte, int, error) {
	engine := s.engine
	if e := r.URL.Query().Get("engine"); e != "" {
		parsed, err := math.ParseEngine(e)
		if err != nil {
			return []byte(err.Error()), http.StatusBadRequest, nil
		}
		engine = parsed
	}
	digits := s.cfg.Digits
	if d := r.URL.Query().Get("digits"); d != "" {
		parsed, err := strconv.Atoi(d)
		if err != nil {
			return []byte(fmt.Sprintf("invalid digits '%s'", d)), http.StatusBadRequest, nil
		}
		if err := model.CheckDigits(parsed); err != nil {
			return []byte(err.Error()), http.StatusBadRequest, nil
		}
		digits = parsed
	}

	var b bytes.Buffer
	start := time.Now()
	request, _, err := wire.Handle(r.Body, &b, engine, digits)
	status := wire.StatusOf(err)
	metrics.Observer.Observe(string(engine), transportLegacy, kind(err), len(request.Samples), time.Since(start))
	h.Set(StatusHeader, strconv.Itoa(int(status)))
	if err != nil {
		log.Debug().Str("id", RequestID(r)).Err(err).Int("status", int(status)).Msg("legacy fit failed")
		if status == wire.Unknown {
			return nil, 0, err
		}
		return nil, http.StatusUnprocessableEntity, nil
	}
	return b.Bytes(), http.StatusOK, nil
}

// one fits a single request.
func (s *FitService) one(ctx context.Context, id string, request api.FitRequest) api.BatchItem {
	exps, samples, engine, err := s.parse(request)
	if err != nil {
		e := api.NewErrorResponse(id, err)
		return api.BatchItem{Error: &e}
	}
	digits, err := s.digits(request)
	if err != nil {
		e := api.NewErrorResponse(id, err)
		return api.BatchItem{Error: &e}
	}
	result, err := s.approximator.Approx(ctx, exps.Values(), samples, approx.WithEngine(engine), approx.WithDigits(digits))
	if err != nil {
		e := api.NewErrorResponse(id, err)
		return api.BatchItem{Error: &e}
	}
	response := api.NewFitResponse(id, engine, exps, result, digits)
	return api.BatchItem{Response: &response}
}

func (s *FitService) parse(request api.FitRequest) (model.Exponents, model.Samples, math.Engine, error) {
	if request.Engine == "" {
		request.Engine = string(s.engine)
	}
	return request.Parse()
}

func (s *FitService) digits(request api.FitRequest) (int, error) {
	digits := s.cfg.Digits
	if request.Digits != nil {
		digits = *request.Digits
	}
	if err := model.CheckDigits(digits); err != nil {
		return 0, err
	}
	return digits, nil
}

func (s *FitService) failure(id string, err error) ([]byte, int, error) {
	e := api.NewErrorResponse(id, err)
	return s.encode(e, http.StatusBadRequest)
}

func (s *FitService) encode(v interface{}, code int) ([]byte, int, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, 0, fmt.Errorf("could not encode response: %w", err)
	}
	return b, code, nil
}

// code maps fit failures to 422 and anything else e.g. an unknown engine to 400.
func code(e *api.ErrorResponse) int {
	if e.Kind == "" {
		return http.StatusBadRequest
	}
	return http.StatusUnprocessableEntity
}

func itemID(id string, i int) string {
	return fmt.Sprintf("%s-%d", id, i)
}

func kind(err error) string {
	if err == nil {
		return "ok"
	}
	if k := model.Kind(err); k != "" {
		return k
	}
	return "error"
}

// observed records metrics for every fit of the wrapped approximator.
type observed struct {
	approx.Approximator
	transport string
}

func observe(approximator approx.Approximator, transport string) approx.Approximator {
	return observed{
		Approximator: approximator,
		transport:    transport,
	}
}

func (o observed) Approx(ctx context.Context, exponents []int, points []model.Point, opts ...approx.Option) (model.Result, error) {
	start := time.Now()
	result, err := o.Approximator.Approx(ctx, exponents, points, opts...)
	metrics.Observer.Observe(string(approx.NewOptions(opts...).Engine), o.transport, kind(err), len(points), time.Since(start))
	return result, err
}
