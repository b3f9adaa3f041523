package api

import (
	"net/http"
	"strings"

	service "github.com/okian/perfscope/internal/app"
	"github.com/okian/perfscope/internal/domain/analytics"
)

// AnalyticsHandler handles analytics and report requests.
type AnalyticsHandler struct {
	deps Dependencies
}

// NewAnalyticsHandler creates a new analytics handler.
func NewAnalyticsHandler(deps Dependencies) *AnalyticsHandler {
	return &AnalyticsHandler{deps: deps}
}

// filterFrom reads the active filter from the query string.
func filterFrom(r *http.Request) analytics.Filter {
	q := r.URL.Query()
	return analytics.Filter{
		Area:     strings.TrimSpace(q.Get("area")),
		SubArea:  strings.TrimSpace(q.Get("subArea")),
		Location: strings.TrimSpace(q.Get("location")),
	}
}

// HandleAnalytics handles GET /uploads/{id}/analytics requests.
func (h *AnalyticsHandler) HandleAnalytics(w http.ResponseWriter, r *http.Request) {
	res, err := h.deps.Analytics(r.Context(), r.PathValue("id"), filterFrom(r))
	if err != nil {
		writeLookupError(w, Wrap("api.analytics", err))
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// HandleReport handles GET /uploads/{id}/report requests. The report is
// HTML unless ?format=md is given.
func (h *AnalyticsHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.report"
	format := r.URL.Query().Get("format")
	switch format {
	case "", service.FormatHTML:
		format = service.FormatHTML
	case service.FormatMarkdown:
	default:
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrUnknownFormat))
		return
	}

	body, contentType, err := h.deps.Report(r.Context(), r.PathValue("id"), filterFrom(r), format)
	if err != nil {
		writeLookupError(w, Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}
