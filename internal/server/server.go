// Package server exposes the routing and design rule check engine as a JSON
// HTTP API. Both operations accept an immutable document snapshot in the
// request body and return the complete result; there is no session state.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/copperline/copperline/pkg/board"
	"github.com/copperline/copperline/pkg/cache"
	"github.com/copperline/copperline/pkg/drc"
	"github.com/copperline/copperline/pkg/errors"
	"github.com/copperline/copperline/pkg/observability"
	"github.com/copperline/copperline/pkg/route"
)

// Config configures the HTTP service.
type Config struct {
	Addr   string
	Logger *log.Logger
	Cache  cache.Cache

	// ShutdownTimeout bounds graceful shutdown. Defaults to 10s.
	ShutdownTimeout time.Duration
}

// Server is the HTTP front end of the engine.
type Server struct {
	cfg    Config
	keyer  cache.Keyer
	router chi.Router
}

// New creates a server. A nil cache disables result caching.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.NewNullCache()
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}

	s := &Server{cfg: cfg, keyer: cache.NewDefaultKeyer()}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/route", s.handleRoute)
		r.Post("/drc", s.handleDRC)
	})

	s.router = r
	return s
}

// Handler returns the HTTP handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// routeRequest is the POST /api/v1/route body.
type routeRequest struct {
	Document board.Document `json:"document"`
	Config   routeOptions   `json:"config"`
}

type routeOptions struct {
	Resolution     float64 `json:"resolution,omitempty"`
	PreferredLayer string  `json:"preferred_layer,omitempty"`
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req routeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return
	}

	cfg := route.Config{
		Resolution:     req.Config.Resolution,
		PreferredLayer: req.Config.PreferredLayer,
		Logger:         s.cfg.Logger,
	}

	key, ok := s.routeKey(&req)
	if ok {
		if data, hit, err := s.cfg.Cache.Get(ctx, key); err == nil && hit {
			var res route.Result
			if err := json.Unmarshal(data, &res); err == nil {
				observability.Cache().OnCacheHit(ctx, "route")
				writeJSON(w, http.StatusOK, res)
				return
			}
		}
		observability.Cache().OnCacheMiss(ctx, "route")
	}

	events, err := route.New(&req.Document, cfg).Run(ctx)
	if err != nil {
		s.writeError(w, err)
		return
	}

	for ev := range events {
		switch ev := ev.(type) {
		case route.Complete:
			if ok {
				if data, err := json.Marshal(ev.Result); err == nil {
					if err := s.cfg.Cache.Set(ctx, key, data, cache.TTLRoute); err == nil {
						observability.Cache().OnCacheSet(ctx, "route", len(data))
					}
				}
			}
			writeJSON(w, http.StatusOK, ev.Result)
			return
		case route.Failed:
			s.writeError(w, ev.Err)
			return
		}
	}
	s.writeError(w, errors.New(errors.ErrCodeInternal, "routing run ended without a result"))
}

// drcRequest is the POST /api/v1/drc body. Rules override the document's
// own rules when present.
type drcRequest struct {
	Document board.Document     `json:"document"`
	Rules    *board.DesignRules `json:"rules,omitempty"`
}

func (s *Server) handleDRC(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req drcRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode request"))
		return
	}

	rules := req.Document.Rules
	if req.Rules != nil {
		rules = *req.Rules
	}

	key, ok := s.reportKey(&req.Document, rules)
	if ok {
		if data, hit, err := s.cfg.Cache.Get(ctx, key); err == nil && hit {
			var rep drc.Report
			if err := json.Unmarshal(data, &rep); err == nil {
				observability.Cache().OnCacheHit(ctx, "report")
				writeJSON(w, http.StatusOK, rep)
				return
			}
		}
		observability.Cache().OnCacheMiss(ctx, "report")
	}

	violations, err := drc.Check(ctx, &req.Document, rules)
	if err != nil {
		s.writeError(w, err)
		return
	}
	rep := drc.NewReport(violations)

	if ok {
		if data, err := json.Marshal(rep); err == nil {
			if err := s.cfg.Cache.Set(ctx, key, data, cache.TTLReport); err == nil {
				observability.Cache().OnCacheSet(ctx, "report", len(data))
			}
		}
	}
	writeJSON(w, http.StatusOK, rep)
}

// =============================================================================
// Cache Keys
// =============================================================================

// routeKey derives the cache key for a route request. The second return
// value is false when the request cannot be serialized for hashing, in
// which case caching is skipped.
func (s *Server) routeKey(req *routeRequest) (string, bool) {
	data, err := json.Marshal(req.Document)
	if err != nil {
		return "", false
	}
	return s.keyer.RouteKey(cache.Hash(data), cache.RouteKeyOpts{
		Resolution:     req.Config.Resolution,
		PreferredLayer: req.Config.PreferredLayer,
	}), true
}

func (s *Server) reportKey(doc *board.Document, rules board.DesignRules) (string, bool) {
	data, err := json.Marshal(doc)
	if err != nil {
		return "", false
	}
	return s.keyer.ReportKey(cache.Hash(data), cache.ReportKeyOpts{Rules: rules}), true
}

// =============================================================================
// Responses
// =============================================================================

// errorEnvelope is the JSON error body: {"error": {"code": ..., "message": ...}}.
type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	status := http.StatusInternalServerError
	switch code {
	case errors.ErrCodeInvalidInput, errors.ErrCodeInvalidResolution, errors.ErrCodeInvalidDocument,
		errors.ErrCodeInvalidRules, errors.ErrCodeInvalidLayer, errors.ErrCodeInvalidFormat,
		errors.ErrCodeEmptyOutline, errors.ErrCodeGridTooLarge:
		status = http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		status = http.StatusNotFound
	case errors.ErrCodeCancelled:
		status = 499 // client closed request
	case errors.ErrCodeUnsupported:
		status = http.StatusUnprocessableEntity
	}

	s.cfg.Logger.Error("request failed", "code", code, "err", err)
	writeJSON(w, status, errorEnvelope{Error: errorBody{
		Code:    string(code),
		Message: errors.UserMessage(err),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// logRequests logs one line per request with method, path, status, and timing.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.cfg.Logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}
