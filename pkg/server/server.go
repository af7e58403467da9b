// Package server exposes dependency maps over HTTP.
//
// Every request rebuilds the map from the configured entry point, so the
// responses follow the source tree as it changes. Parsed import specifiers and
// rendered artifacts are cached in memory, keyed by file contents and map
// content, which keeps repeated requests on an unchanged tree cheap. Graph
// responses carry an ETag derived from the artifact bytes.
//
// Routes:
//
//	GET /healthz               liveness and build version
//	GET /api/dependencies      {"key": ["dep", ...], ...} in map order
//	GET /api/graph.{format}    rendered graph (dot, mmd, mermaid, svg, png, pdf)
//
// The dependency and graph routes accept ?sorted=true to sort keys and
// dependencies before clustering; any other value than a boolean is a 400.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/eclaireur/pkg/buildinfo"
	"github.com/matzehuels/eclaireur/pkg/cache"
	"github.com/matzehuels/eclaireur/pkg/errors"
	eio "github.com/matzehuels/eclaireur/pkg/io"
	"github.com/matzehuels/eclaireur/pkg/observability"
	"github.com/matzehuels/eclaireur/pkg/pipeline"
)

// ShutdownTimeout bounds graceful shutdown.
const ShutdownTimeout = 5 * time.Second

// contentTypes maps formats to response media types.
var contentTypes = map[string]string{
	pipeline.FormatDOT:     "text/vnd.graphviz; charset=utf-8",
	pipeline.FormatMermaid: "text/plain; charset=utf-8",
	"mmd":                  "text/plain; charset=utf-8",
	pipeline.FormatSVG:     "image/svg+xml",
	pipeline.FormatPNG:     "image/png",
	pipeline.FormatPDF:     "application/pdf",
}

// Server serves one project.
type Server struct {
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger
}

// New creates a server that runs opts through runner on every request.
func New(runner *pipeline.Runner, opts pipeline.Options, logger *log.Logger) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	return &Server{runner: runner, opts: opts, logger: logger}
}

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(hooks)
	r.Use(cors)

	r.Get("/healthz", s.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/dependencies", s.dependencies)
		r.Get("/graph.{format}", s.graph)
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
		s.logger.Info("serving", "addr", addr, "entry", s.opts.Entry)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
		"commit":  buildinfo.Commit,
	})
}

func (s *Server) dependencies(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	m, err := s.runner.Build(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if opts.Sorted {
		m = m.Sorted()
	}
	for _, key := range m.Unmatched() {
		s.logger.Warn("no extractor matched", "file", key)
	}

	w.Header().Set("Content-Type", "application/json")
	if err := eio.WriteDependencies(m, w); err != nil {
		s.logger.Error("write response", "err", err)
	}
}

func (s *Server) graph(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if !s.runner.Registry.Has(format) {
		s.writeError(w, r, errors.New(errors.ErrCodeInvalidFormat, "unknown format %q", format))
		return
	}

	opts, err := s.requestOptions(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opts.Formats = []string{format}
	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	ct, ok := contentTypes[format]
	if !ok {
		ct = "application/octet-stream"
	}
	w.Header().Set("Content-Type", ct)
	w.Header().Set("X-Eclaireur-Run", result.RunID)
	// Unsorted output follows discovery order, so the tag hashes the bytes
	// served rather than the map.
	artifact := result.Artifacts[format]
	w.Header().Set("ETag", strconv.Quote(cache.Hash(artifact)))
	_, _ = w.Write(artifact)
}

func (s *Server) requestOptions(r *http.Request) (pipeline.Options, error) {
	opts := s.opts
	if v := r.URL.Query().Get("sorted"); v != "" {
		sorted, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New(errors.ErrCodeInvalidInput, "sorted must be a boolean, got %q", v)
		}
		opts.Sorted = sorted
	}
	return opts, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "err", err)
	}
	writeJSON(w, status, map[string]string{
		"error": errors.UserMessage(err),
		"code":  string(errors.GetCode(err)),
	})
}

func statusOf(err error) int {
	switch errors.GetCode(err) {
	case errors.ErrCodeInvalidFormat, errors.ErrCodeInvalidInput, errors.ErrCodeInvalidPattern,
		errors.ErrCodeInvalidConfig, errors.ErrCodeInvalidPath:
		return http.StatusBadRequest
	case errors.ErrCodeNotFound, errors.ErrCodeFileNotFound:
		return http.StatusNotFound
	case errors.ErrCodeEntrypointExcluded, errors.ErrCodeExtraction:
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// hooks reports requests to the observability HTTP hooks.
func hooks(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := observability.HTTP()
		h.OnRequest(r.Context(), r.Method, r.URL.Path)
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}

// cors lets a browser front end on another origin read the API.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
