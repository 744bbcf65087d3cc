package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Action string

type Method string

const (
	Data Action = "data"
	Api  Action = "api"

	GET  Method = "GET"
	POST Method = "POST"

	// RequestIDHeader carries the id assigned to every request.
	RequestIDHeader = "X-Request-ID"

	maxBody = 8 << 20
)

type requestIDKey struct{}

// Handler handles a request and returns the payload and status code to respond with.
// Response headers can be set on the given header before the payload is written.
type Handler func(h http.Header, r *http.Request) ([]byte, int, error)

type Route struct {
	Action      Action
	Path        string
	Method      Method
	ContentType string
	Exec        Handler
}

type Server struct {
	name    string
	port    int
	debug   bool
	origins []string
	routes  []Route
	mounts  map[string]http.Handler
}

func NewServer(name string, port int) *Server {
	return &Server{
		name:   name,
		port:   port,
		routes: make([]Route, 0),
		mounts: make(map[string]http.Handler),
	}
}

// Debug sets the server to debug mode
func (s *Server) Debug() *Server {
	s.debug = true
	return s
}

// WithOrigins sets the allowed CORS origins.
func (s *Server) WithOrigins(origins ...string) *Server {
	s.origins = origins
	return s
}

// Add adds the given routes to the server
func (s *Server) Add(route ...Route) *Server {
	s.routes = append(s.routes, route...)
	return s
}

// Mount serves the given handler under the path as is.
func (s *Server) Mount(path string, handler http.Handler) *Server {
	s.mounts[path] = handler
	return s
}

// Router builds the http handler for all the routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.trace)
	if len(s.origins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: s.origins,
			AllowedMethods: []string{string(GET), string(POST), "OPTIONS"},
			AllowedHeaders: []string{"Content-Type"},
			ExposedHeaders: []string{RequestIDHeader},
		}))
	}

	for _, route := range s.routes {
		path := fmt.Sprintf("/%s", route.Action)
		if route.Path != "" {
			path = fmt.Sprintf("/%s/%s", route.Action, route.Path)
		}
		r.MethodFunc(string(route.Method), path, s.handle(route))
	}
	for path, handler := range s.mounts {
		r.Handle(path, handler)
	}
	return r
}

// Run starts the server and blocks until the context is done.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		log.Info().Str("server", s.name).Int("port", s.port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errs <- fmt.Errorf("could not start server: %w", err)
		}
		close(errs)
	}()

	select {
	case err := <-errs:
		return err
	case <-ctx.Done():
	}

	log.Info().Str("server", s.name).Msg("shutting down server")
	shutdown, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdown); err != nil {
		return fmt.Errorf("could not shut down server: %w", err)
	}
	return nil
}

// trace assigns a request id and logs the request execution.
func (s *Server) trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.New().String()
		w.Header().Set(RequestIDHeader, id)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		event := log.Debug()
		if s.debug {
			event = log.Info()
		}
		event.
			Str("id", id).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("code", ww.Status()).
			Float64("duration", time.Since(start).Seconds()).
			Msg("completed execution")
	})
}

// RequestID returns the id assigned to the request.
func RequestID(r *http.Request) string {
	if id, ok := r.Context().Value(requestIDKey{}).(string); ok {
		return id
	}
	return ""
}

func (s *Server) handle(route Route) http.HandlerFunc {
	contentType := route.ContentType
	if contentType == "" {
		contentType = "application/json"
	}
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxBody)
		b, code, err := route.Exec(w.Header(), r)
		if err != nil {
			s.error(w, r, err)
			return
		}
		if code == 0 {
			code = http.StatusOK
		}
		if len(b) > 0 {
			w.Header().Set("Content-Type", contentType)
		}
		s.code(w, b, code)
	}
}

func (s *Server) code(w http.ResponseWriter, b []byte, code int) {
	w.WriteHeader(code)
	s.respond(w, b)
}

func (s *Server) respond(w http.ResponseWriter, b []byte) {
	_, err := w.Write(b)
	if err != nil {
		log.Error().Err(err).Msg("could not write response")
	}
}

func (s *Server) error(w http.ResponseWriter, r *http.Request, err error) {
	log.Error().Err(err).Str("id", RequestID(r)).Str("path", r.URL.Path).Msg("error for http request")
	s.code(w, []byte(err.Error()), http.StatusInternalServerError)
}

func Live() Route {
	return Route{
		Action: Data,
		Method: GET,
		Exec: func(_ http.Header, r *http.Request) (payload []byte, code int, err error) {
			return []byte{}, http.StatusOK, nil
		},
	}
}

// JsonRead reads the json request body into v.
func JsonRead(r *http.Request, debug bool, v interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	if debug {
		log.Info().
			Str("id", RequestID(r)).
			Str("url", fmt.Sprintf("%+v", r.URL)).
			Str("remote-address", r.RemoteAddr).
			Str("method", r.Method).
			Str("body", string(body)).
			Msg("received payload")
	}
	if len(body) == 0 {
		return errors.New("empty request body")
	}
	return json.Unmarshal(body, v)
}
