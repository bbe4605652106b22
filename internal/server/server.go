// Package server exposes the latest analytics run over a JSON API for the
// web dashboard, plus Prometheus metrics.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"stocklens/internal/analytics"
	"stocklens/internal/config"
)

// Server serves the analytics dashboard API. Results are a snapshot set by
// the caller; SetResults may be called again to publish a fresh run.
type Server struct {
	cfg    *config.Config
	logger *slog.Logger

	mu  sync.RWMutex
	res *analytics.Results

	registry  *prometheus.Registry
	requests  *prometheus.CounterVec
	latencies *prometheus.HistogramVec

	http *http.Server
}

// New creates a Server. A nil logger falls back to slog.Default.
func New(cfg *config.Config, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stocklens_http_requests_total",
		Help: "HTTP requests served, by route and status code.",
	}, []string{"route", "code"})
	latencies := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "stocklens_http_request_duration_seconds",
		Help:    "HTTP request latency, by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	registry.MustRegister(requests, latencies)

	s := &Server{
		cfg:       cfg,
		logger:    logger.With("component", "server"),
		registry:  registry,
		requests:  requests,
		latencies: latencies,
	}
	s.http = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.Routes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
	return s
}

// SetResults publishes a run snapshot to the API.
func (s *Server) SetResults(res *analytics.Results) {
	s.mu.Lock()
	s.res = res
	s.mu.Unlock()
}

func (s *Server) results() *analytics.Results {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.res
}

// Routes builds the router. Exposed for tests.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Get("/health", s.handleHealth)
		r.Get("/analytics", s.handleAnalytics)
		r.Get("/analytics/{module}", s.handleModule)
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

// ListenAndServe blocks until the context is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("dashboard listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = r.URL.Path
		}
		s.requests.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
		s.latencies.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	res := s.results()
	payload := map[string]interface{}{
		"status": "ok",
	}
	if res != nil {
		payload["run_id"] = res.RunID
		payload["generated_at"] = res.GeneratedAt
	}
	render.JSON(w, r, payload)
}

// handleAnalytics returns every module payload keyed by module name, with
// failed modules under "errors".
func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	res := s.results()
	if res == nil {
		s.renderError(w, r, http.StatusServiceUnavailable, "no analytics run loaded")
		return
	}

	modules := make(map[string]interface{}, len(analytics.ConsoleOrder))
	errs := make(map[string]string)
	for _, module := range analytics.ConsoleOrder {
		if aerr, failed := res.Failed(module); failed {
			errs[module] = aerr.Error()
			continue
		}
		payload, _ := modulePayload(module, res)
		modules[module] = payload
	}

	render.JSON(w, r, map[string]interface{}{
		"run_id":       res.RunID,
		"generated_at": res.GeneratedAt,
		"modules":      modules,
		"errors":       errs,
	})
}

func (s *Server) handleModule(w http.ResponseWriter, r *http.Request) {
	res := s.results()
	if res == nil {
		s.renderError(w, r, http.StatusServiceUnavailable, "no analytics run loaded")
		return
	}

	module := chi.URLParam(r, "module")
	if aerr, failed := res.Failed(module); failed {
		s.renderError(w, r, http.StatusUnprocessableEntity, aerr.Error())
		return
	}
	payload, ok := modulePayload(module, res)
	if !ok {
		s.renderError(w, r, http.StatusNotFound, "unknown module: "+module)
		return
	}
	render.JSON(w, r, payload)
}

func (s *Server) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	s.logger.WarnContext(r.Context(), "request failed",
		"path", r.URL.Path, "status", status, "error", msg)
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}
