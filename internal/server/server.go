// Package server exposes the scene compiler over HTTP.
//
// Routes:
//
//	GET  /healthz           liveness check
//	POST /v1/compile        body is a scene document; responds with the save JSON
//	GET  /v1/saves          archived saves, newest first (?limit=N)
//	GET  /v1/saves/{id}     one archived save
//
// POST /v1/compile takes the document format from ?format=yaml|json|toml,
// falling back to the Content-Type header and then to YAML. ?strict and
// ?seed override the server defaults for one request. Responses carry
// X-Ttgen-Cache (hit or miss) and, when the save was archived,
// X-Ttgen-Save-ID.
package server

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/ttgen/pkg/compiler"
	"github.com/matzehuels/ttgen/pkg/observability"
	"github.com/matzehuels/ttgen/pkg/store"
)

// Response headers.
const (
	HeaderCache  = "X-Ttgen-Cache"
	HeaderSaveID = "X-Ttgen-Save-ID"
)

// DefaultMaxBodySize caps scene uploads.
const DefaultMaxBodySize = 1 << 20

// Server handles compile requests. Runner and Store are shared between
// requests; each request compiles into its own state.
type Server struct {
	Runner *compiler.Runner
	// Store archives every compiled save. Nil disables the archive.
	Store       store.Store
	Logger      *log.Logger
	MaxBodySize int64
	// Defaults are the compile options requests start from.
	Defaults compiler.Options
}

// New creates a server. A nil logger uses log.Default().
func New(runner *compiler.Runner, st store.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		Runner:      runner,
		Store:       st,
		Logger:      logger,
		MaxBodySize: DefaultMaxBodySize,
	}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/compile", s.handleCompile)
		r.Get("/saves", s.handleListSaves)
		r.Get("/saves/{id}", s.handleGetSave)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down,
// giving in-flight requests ten seconds to finish.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	s.Logger.Info("listening", "addr", addr)

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// instrument reports every request to the HTTP hooks and the debug log.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		observability.HTTP().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		observability.HTTP().OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.Logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
