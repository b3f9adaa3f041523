package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/perfscope/pkg/metrics"
)

// HealthHandler serves liveness as a Prometheus scrape of the perfscope
// registry. A successful scrape means the process is serving requests.
type HealthHandler struct {
	metrics http.Handler
}

// NewHealthHandler creates a health handler bound to the metrics registry.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{
		metrics: promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}),
	}
}

// HandleHealth handles GET /healthz with the ingest, session and HTTP
// metrics in the Prometheus text format.
func (h *HealthHandler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	h.metrics.ServeHTTP(w, r)
}
