// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/okian/gdax/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	SurveyDependencies
	ReportDependencies
	SurveyStatsDependencies
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler *HealthHandler
	statsHandler  *StatsHandler
	surveyHandler *SurveyHandler
	reportHandler *ReportHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler: NewHealthHandler(),
		statsHandler:  NewStatsHandler(statsProvider, deps),
		surveyHandler: NewSurveyHandler(deps),
		reportHandler: NewReportHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	handle := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, RequestIDMiddleware(MetricsMiddleware(h, endpoint)))
	}

	handle("/healthz", "healthz", s.healthHandler.HandleHealth)
	handle("/stats", "stats", s.statsHandler.HandleStats)
	mux.Handle("/metrics", s.healthHandler.MetricsHandler())

	handle("POST /api/survey", "survey_submit", s.surveyHandler.HandlePostSurvey)
	handle("GET /api/survey/{id}", "survey_get", s.surveyHandler.HandleGetSurvey)
	handle("GET /api/surveys", "survey_list", s.surveyHandler.HandleListSurveys)
	handle("GET /api/report/{id}", "report_get", s.reportHandler.HandleGetReport)
	handle("POST /api/report/{id}/resend", "report_resend", s.reportHandler.HandleResendReport)
	handle("GET /api/stats", "survey_stats", s.statsHandler.HandleSurveyStats)
	handle("GET /report/{id}", "report_page", s.reportHandler.HandleReportPage)
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

// writeKindError maps err's kind to a status code and logs server errors.
func writeKindError(ctx context.Context, w http.ResponseWriter, err error) {
	var (
		status int
		code   string
	)
	switch {
	case errors.Is(err, ErrBadRequest):
		status, code = http.StatusBadRequest, "bad_request"
	case errors.Is(err, ErrNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, ErrDuplicate):
		status, code = http.StatusConflict, "duplicate"
	case errors.Is(err, ErrUnprocessable):
		status, code = http.StatusUnprocessableEntity, "invalid_survey"
	case errors.Is(err, ErrBackpressure):
		status, code = http.StatusTooManyRequests, "backpressure"
	default:
		status, code = http.StatusInternalServerError, "internal_error"
		logger.Named("api").Error(ctx, "request failed", logger.Error(err))
	}
	writeError(w, status, code, err)
}

// pathID parses the {id} path value as a positive survey id.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("id must be a positive integer")
	}
	return id, nil
}

