// Package server implements the HTTP render service.
//
// The server exposes the visualization pipeline over a small JSON API:
//
//	POST /api/render   render a circuit, returns artifacts keyed by format
//	GET  /healthz      liveness probe
//
// Requests are tagged with a UUID and reported through the
// observability server hooks.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"

	qcerrors "github.com/qcviz/qcviz/pkg/errors"
	"github.com/qcviz/qcviz/pkg/observability"
	"github.com/qcviz/qcviz/pkg/pipeline"
)

// Server handles HTTP render requests.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
}

// New creates a server around an existing pipeline runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, logger: logger}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/render", s.handleRender)

	return r
}

// ListenAndServe runs the server until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	s.logger.Infof("Listening on %s", addr)

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// instrument tags each request with a UUID and reports it to the
// registered server hooks.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		requestID := uuid.New().String()
		w.Header().Set("X-Request-ID", requestID)

		observability.Server().OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		elapsed := time.Since(start)
		observability.Server().OnResponse(r.Context(), r.Method, r.URL.Path, ww.Status(), elapsed)
		s.logger.Debugf("%s %s %d (%s) id=%s", r.Method, r.URL.Path, ww.Status(), elapsed.Round(time.Millisecond), requestID)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// RenderRequest is the POST /api/render body. The pipeline options are
// embedded directly, so clients send the same fields the CLI accepts.
type RenderRequest struct {
	pipeline.Options
}

// RenderResponse is the POST /api/render reply. Artifact bytes are
// base64-encoded by the JSON marshaller.
type RenderResponse struct {
	ID        string             `json:"id"`
	Artifacts map[string][]byte  `json:"artifacts"`
	Stats     RenderStats        `json:"stats"`
	Cache     pipeline.CacheInfo `json:"cache"`
}

// RenderStats is the subset of pipeline stats exposed over the API.
type RenderStats struct {
	GateCount  int `json:"gate_count"`
	WireCount  int `json:"wire_count"`
	LevelCount int `json:"level_count"`
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req RenderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, qcerrors.Wrap(qcerrors.ErrCodeInvalidFormat, err, "decode request body"))
		return
	}

	opts := req.Options
	opts.Logger = s.logger

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, r, statusForError(err), err)
		return
	}

	writeJSON(w, http.StatusOK, RenderResponse{
		ID:        uuid.New().String(),
		Artifacts: result.Artifacts,
		Stats: RenderStats{
			GateCount:  result.Stats.GateCount,
			WireCount:  result.Stats.WireCount,
			LevelCount: result.Stats.MaxLevel + 1,
		},
		Cache: result.CacheInfo,
	})
}

// statusForError maps pipeline error codes to HTTP status codes.
func statusForError(err error) int {
	switch qcerrors.GetCode(err) {
	case qcerrors.ErrCodeInvalidOperation,
		qcerrors.ErrCodeTypeMismatch,
		qcerrors.ErrCodeInvalidFormat,
		qcerrors.ErrCodeInvalidTheme,
		qcerrors.ErrCodeInvalidGeometry,
		qcerrors.ErrCodeUnsupportedConversion:
		return http.StatusBadRequest
	case qcerrors.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	observability.Server().OnError(r.Context(), r.Method, r.URL.Path, err)
	writeJSON(w, status, errorResponse{
		Code:    string(qcerrors.GetCode(err)),
		Message: qcerrors.UserMessage(err),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
