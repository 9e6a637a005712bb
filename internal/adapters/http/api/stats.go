package api

import (
	"net/http"
)

// StatsProvider reports the engine's runtime counters: store backend, rule
// count, history queue depth and evaluation totals.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// StatsHandler serves the engine's runtime counters.
type StatsHandler struct {
	statsProvider StatsProvider
}

// NewStatsHandler wraps a StatsProvider for GET /stats.
func NewStatsHandler(statsProvider StatsProvider) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider}
}

// HandleStats writes the current counters. Counters change per evaluation,
// so responses are never cached.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, h.statsProvider.GetStats())
}
