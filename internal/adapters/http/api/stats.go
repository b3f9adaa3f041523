package api

import "net/http"

// StatsProvider reports the state of the upload service: whether it is
// started, how many sessions it holds and the limits it runs with.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler handles stats requests.
type StatsHandler struct {
	provider       StatsProvider
	maxUploadBytes int64
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(provider StatsProvider, maxUploadBytes int64) *StatsHandler {
	return &StatsHandler{provider: provider, maxUploadBytes: maxUploadBytes}
}

// statsResponse wraps the service state with the server's upload limit.
type statsResponse struct {
	Service        map[string]interface{} `json:"service"`
	MaxUploadBytes int64                  `json:"maxUploadBytes"`
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, statsResponse{
		Service:        h.provider.GetStats(),
		MaxUploadBytes: h.maxUploadBytes,
	})
}
