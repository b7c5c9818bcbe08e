// Package server exposes the analysis over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/semaphore"

	"github.com/ukaji3/dataqc-go/internal/logger"
	"github.com/ukaji3/dataqc-go/pkg/dataqc"
	"github.com/ukaji3/dataqc-go/pkg/dataqc/reasoning"
	"github.com/ukaji3/dataqc-go/pkg/dataqc/session"
)

// Multipart field names.
const (
	FieldSpecification = "specification"
	FieldWorkbook      = "workbook"
)

var (
	specificationTypes = []string{"application/pdf"}
	workbookTypes      = []string{
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		"application/zip",
	}
)

// Config configures the HTTP handler.
type Config struct {
	MaxConcurrent  int64
	MaxUploadBytes int64
	RequestTimeout time.Duration
}

// AnalyzeResponse is the JSON body of a completed analysis.
type AnalyzeResponse struct {
	SessionID string   `json:"session_id"`
	Report    string   `json:"report"`
	Turns     int      `json:"turns"`
	ToolCalls []string `json:"tool_calls"`
	Partial   bool     `json:"partial,omitempty"`
}

// ErrorResponse is the JSON body of a failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Server serves analysis requests. Each request gets its own session;
// the semaphore bounds how many analyses run at once.
type Server struct {
	analyzer *dataqc.Analyzer
	cfg      Config
	log      logger.Logger
	sem      *semaphore.Weighted
}

// New creates a Server.
func New(analyzer *dataqc.Analyzer, cfg Config, log logger.Logger) *Server {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 32 << 20
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Server{
		analyzer: analyzer,
		cfg:      cfg,
		log:      log,
		sem:      semaphore.NewWeighted(cfg.MaxConcurrent),
	}
}

// Routes returns the HTTP handler.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
	})
	return r
}

func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		log := s.log.With("request_id", middleware.GetReqID(r.Context()))
		next.ServeHTTP(ww, r.WithContext(logger.ContextWithLogger(r.Context(), log)))
		log.Info("request", "method", r.Method, "path", r.URL.Path, "status", ww.Status(), "elapsed", time.Since(start))
	})
}

func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	if err := r.ParseMultipartForm(s.cfg.MaxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, dataqc.MissingInputMessage)
		return
	}

	spec, err := readPart(r.MultipartForm, FieldSpecification)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	workbook, err := readPart(r.MultipartForm, FieldWorkbook)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := dataqc.ValidateInputs(spec, workbook); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := checkType(spec, specificationTypes); err != nil {
		writeError(w, http.StatusUnsupportedMediaType, fmt.Sprintf("%s: %v", FieldSpecification, err))
		return
	}
	if err := checkType(workbook, workbookTypes); err != nil {
		writeError(w, http.StatusUnsupportedMediaType, fmt.Sprintf("%s: %v", FieldWorkbook, err))
		return
	}

	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}
	if err := s.sem.Acquire(ctx, 1); err != nil {
		writeError(w, http.StatusServiceUnavailable, "analysis capacity exhausted")
		return
	}
	defer s.sem.Release(1)

	report, err := s.analyzer.Run(ctx, session.New(), spec, workbook)
	if err != nil && (report == nil || !errors.Is(err, reasoning.ErrMaxTurnsExceeded)) {
		log.Error("analysis failed", "error", err)
		writeError(w, http.StatusBadGateway, fmt.Sprintf("Error processing files: %v", err))
		return
	}

	writeJSON(w, http.StatusOK, AnalyzeResponse{
		SessionID: report.SessionID,
		Report:    report.Text,
		Turns:     report.Turns,
		ToolCalls: report.ToolCalls,
		Partial:   report.Partial,
	})
}

// readPart returns the content of the first file under field, or nil when
// the field is absent.
func readPart(form *multipart.Form, field string) ([]byte, error) {
	if form == nil || len(form.File[field]) == 0 {
		return nil, nil
	}
	f, err := form.File[field][0].Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", field, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", field, err)
	}
	return data, nil
}

func checkType(data []byte, allowed []string) error {
	detected := mimetype.Detect(data)
	for _, t := range allowed {
		if detected.Is(t) {
			return nil
		}
	}
	return fmt.Errorf("unsupported content type %s", detected.String())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}
