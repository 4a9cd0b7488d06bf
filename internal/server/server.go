package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sitewise-labs/ramsgen/internal/common"
	"github.com/sitewise-labs/ramsgen/internal/generate"
	"github.com/sitewise-labs/ramsgen/internal/hospitals"
	"github.com/sitewise-labs/ramsgen/internal/rams"
)

// Generator produces RAMS content and scope summaries from free text.
type Generator interface {
	GenerateFromScope(ctx context.Context, scopeText, organizationID string, details *generate.JobDetails) (rams.Content, error)
	ExtractScopeData(ctx context.Context, text string) generate.ScopeSummary
}

// HospitalFinder resolves the nearest A&E contact for a site postcode.
type HospitalFinder interface {
	FindNearestByPostcode(ctx context.Context, postcode string) hospitals.Contact
}

// HealthChecker reports readiness of a backing dependency.
type HealthChecker func(ctx context.Context) error

// Server wires the document pipeline behind an HTTP API.
type Server struct {
	generator Generator
	finder    HospitalFinder
	health    HealthChecker
	logger    *slog.Logger
	router    chi.Router
}

func New(generator Generator, finder HospitalFinder, health HealthChecker, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		generator: generator,
		finder:    finder,
		health:    health,
		logger:    logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/jobs/extract-fields", s.handleExtractFields)
		r.Post("/scope/summary", s.handleScopeSummary)
		r.Post("/rams/generate", s.handleGenerate)
		r.Post("/rams/export", s.handleExport)
		r.Get("/hospitals/nearest", s.handleNearestHospital)
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("http.request",
			"req_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		if err := s.health(r.Context()); err != nil {
			s.writeError(w, r, common.NewAppError("UNHEALTHY", "dependency check failed", err))
			return
		}
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorBody struct {
	Error struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("http.write_failed", "error", err)
	}
}

// writeError maps application errors onto HTTP statuses. The code carried in
// the payload is what clients branch on; the status is advisory.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	code := "INTERNAL_ERROR"
	message := "internal error"
	var appErr *common.AppError
	if errors.As(err, &appErr) {
		code = appErr.Code
		message = appErr.Message
	}

	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, common.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrGeneration):
		status = http.StatusBadGateway
	case errors.Is(err, common.ErrRender):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, common.ErrDatabase):
		status = http.StatusServiceUnavailable
	}

	s.logger.Warn("http.request_failed",
		"req_id", middleware.GetReqID(r.Context()),
		"path", r.URL.Path,
		"code", code,
		"status", status,
		"error", err,
	)

	var body errorBody
	body.Error.Code = code
	body.Error.Message = message
	s.writeJSON(w, status, body)
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err := dec.Decode(v); err != nil {
		return common.NewAppError("BAD_REQUEST", "request body is not valid JSON", common.ErrInvalidInput)
	}
	return nil
}
