// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/perfscope/internal/app"
	"github.com/okian/perfscope/internal/adapters/repository"
	"github.com/okian/perfscope/internal/domain/analytics"
	"github.com/okian/perfscope/internal/domain/model"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Process runs one upload through the pipeline and stores the session.
	Process(ctx context.Context, up service.Upload) (repository.Session, error)

	// Read operations expose stored sessions.
	Session(ctx context.Context, id string) (repository.Session, error)
	Sessions(ctx context.Context) []repository.Summary
	DeleteSession(ctx context.Context, id string) error
	SegmentUsers(ctx context.Context, id string, dim model.Dimension, value string) ([]model.UserSegmentation, error)
	Analytics(ctx context.Context, id string, filter analytics.Filter) (model.AnalyticsResults, error)
	Report(ctx context.Context, id string, filter analytics.Filter, format string) ([]byte, string, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	uploadsHandler   *UploadsHandler
	analyticsHandler *AnalyticsHandler
}

// NewServer creates a new API server with all handlers. maxUploadBytes
// bounds the multipart body of an upload.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxUploadBytes int64) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider, maxUploadBytes),
		uploadsHandler:   NewUploadsHandler(deps, maxUploadBytes),
		analyticsHandler: NewAnalyticsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))

	mux.HandleFunc("POST /uploads", MetricsMiddleware(s.uploadsHandler.HandleCreate, "uploads_create"))
	mux.HandleFunc("GET /uploads", MetricsMiddleware(s.uploadsHandler.HandleList, "uploads_list"))
	mux.HandleFunc("GET /uploads/{id}", MetricsMiddleware(s.uploadsHandler.HandleGet, "uploads_get"))
	mux.HandleFunc("DELETE /uploads/{id}", MetricsMiddleware(s.uploadsHandler.HandleDelete, "uploads_delete"))
	mux.HandleFunc("GET /uploads/{id}/segments", MetricsMiddleware(s.uploadsHandler.HandleSegments, "segments"))

	mux.HandleFunc("GET /uploads/{id}/analytics", MetricsMiddleware(s.analyticsHandler.HandleAnalytics, "analytics"))
	mux.HandleFunc("GET /uploads/{id}/report", MetricsMiddleware(s.analyticsHandler.HandleReport, "report"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeLookupError translates errors of session lookups.
func writeLookupError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, service.ErrNoData):
		writeError(w, http.StatusUnprocessableEntity, "no_data", err)
	case errors.Is(err, service.ErrUnknownDimension), errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
