// Package server exposes the layout engine over HTTP.
//
// The server is stateless: every request carries the whole scene in the
// JSON scene format and every response carries the edited scene, the
// position writes for the shape store and any cascade diagnostics. Results
// are cached by the runner, so a Redis cache lets several instances share
// work.
//
// Routes:
//
//	GET  /healthz
//	POST /v1/relayout   {"scene": ..., "indexChanged": 3}
//	POST /v1/apply      {"scene": ..., "relation": {"type": "Stack", "childrenIds": [...], "data": {...}}}
//	POST /v1/edit       {"scene": ..., "id": "s", "edit": {"spacing": 8}}
//	POST /v1/resize     {"scene": ..., "id": "a", "bbox": {"width": 40}}
//	POST /v1/move       {"scene": ..., "id": "g", "axis": "x", "value": 100}
//	POST /v1/detach     {"scene": ..., "relationId": "s", "childId": "b"}
//	POST /v1/delete     {"scene": ..., "id": "b"}
//	POST /v1/validate   {"scene": ...}
//	POST /v1/render     {"scene": ..., "view": "scene", "format": "svg"}
//
// Contradictions answer 409, bad input 400 and unknown nodes 404. Error
// bodies are {"error": {"code": ..., "message": ...}}.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/twofish/pkg/observability"
	"github.com/matzehuels/twofish/pkg/pipeline"
)

// maxBodyBytes caps request bodies.
const maxBodyBytes = 8 << 20

const shutdownTimeout = 10 * time.Second

// Server serves the engine API.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server that runs edits through runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Handler returns the HTTP handler with all routes registered.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/relayout", s.handleRelayout)
		r.Post("/apply", s.handleApply)
		r.Post("/edit", s.handleEdit)
		r.Post("/resize", s.handleResize)
		r.Post("/move", s.handleMove)
		r.Post("/detach", s.handleDetach)
		r.Post("/delete", s.handleDelete)
		r.Post("/validate", s.handleValidate)
		r.Post("/render", s.handleRender)
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}

// observe reports requests to the server hooks and the log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		hooks := observability.Server()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		elapsed := time.Since(start)
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, elapsed)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"duration", elapsed,
			"request_id", middleware.GetReqID(r.Context()))
	})
}
