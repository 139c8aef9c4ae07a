// Package server exposes lookups and extraction over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ppiankov/propfacts/internal/extract"
	"github.com/ppiankov/propfacts/internal/logger"
	"github.com/ppiankov/propfacts/internal/model"
	"github.com/ppiankov/propfacts/internal/pipeline"
	"github.com/ppiankov/propfacts/internal/provider"
)

const maxExtractBody = 1 << 20

// Lookuper runs a query through search and extraction
type Lookuper interface {
	Lookup(ctx context.Context, query string) (*model.Report, error)
}

// Server serves the HTTP API
type Server struct {
	config    model.ServerConfig
	lookuper  Lookuper
	extractor extract.Extractor
	server    *http.Server
}

// New creates a server; call Run to start listening
func New(cfg model.ServerConfig, lookuper Lookuper, extractor extract.Extractor) *Server {
	return &Server{
		config:    cfg,
		lookuper:  lookuper,
		extractor: extractor,
	}
}

// Handler builds the chi router with all routes wired
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/lookup", s.handleLookup())
		r.Post("/extract", s.handleExtract())
	})

	return r
}

// Run listens on the configured address until ctx is cancelled, then
// shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	s.server = &http.Server{
		Addr:         s.config.Bind,
		Handler:      s.Handler(),
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.config.Bind)
	if err != nil {
		return fmt.Errorf("server: listen on %s: %w", s.config.Bind, err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", ln.Addr().String())
		if err := s.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.config.ShutdownTimeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	logger.Info("server shutting down")
	return s.server.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth() http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

func (s *Server) handleLookup() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")
		if query == "" {
			writeError(w, http.StatusBadRequest, "missing query parameter q")
			return
		}

		report, err := s.lookuper.Lookup(r.Context(), query)
		if err != nil {
			writeError(w, statusFor(err), err.Error())
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}

type extractRequest struct {
	Results []model.SearchResult `json:"results"`
}

func (s *Server) handleExtract() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req extractRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxExtractBody)).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
			return
		}

		writeJSON(w, http.StatusOK, s.extractor.Extract(req.Results))
	}
}

func statusFor(err error) int {
	var perr *provider.ProviderError
	switch {
	case errors.Is(err, pipeline.ErrEmptyQuery):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrNoResults):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.As(err, &perr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		logger.Info("request", "method", r.Method, "path", r.URL.Path, "status", rec.status, "duration", time.Since(start))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// writeJSON encodes v as JSON with the given status code
func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
