package api

import (
	"context"
	"net/http"

	"github.com/okian/gdax/internal/domain/model"
)

// StatsProvider defines the interface for getting service statistics.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// SurveyStatsDependencies exposes the admin counters.
type SurveyStatsDependencies interface {
	Stats(ctx context.Context) (model.Stats, error)
}

// StatsHandler handles runtime and survey statistics requests.
type StatsHandler struct {
	statsProvider StatsProvider
	deps          SurveyStatsDependencies
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(statsProvider StatsProvider, deps SurveyStatsDependencies) *StatsHandler {
	return &StatsHandler{statsProvider: statsProvider, deps: deps}
}

// HandleStats handles GET /stats requests.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, h.statsProvider.GetStats())
}

// HandleSurveyStats handles GET /api/stats requests.
func (h *StatsHandler) HandleSurveyStats(w http.ResponseWriter, r *http.Request) {
	const op = "api.survey_stats"
	stats, err := h.deps.Stats(r.Context())
	if err != nil {
		writeKindError(r.Context(), w, WrapKind(op, ErrInternal, err))
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
