package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	service "github.com/okian/gdax/internal/app"
	"github.com/okian/gdax/internal/domain/diagnosis"
)

// ReportDependencies defines the report operations the handlers need.
type ReportDependencies interface {
	Report(ctx context.Context, id int64) (diagnosis.Report, error)
	ResendReport(ctx context.Context, id int64) (string, error)
}

type resendResponse struct {
	Status   string `json:"status"`
	JobID    string `json:"job_id"`
	SurveyID int64  `json:"survey_id"`
}

// ReportHandler handles report requests.
type ReportHandler struct {
	deps ReportDependencies
}

// NewReportHandler creates a new report handler.
func NewReportHandler(deps ReportDependencies) *ReportHandler {
	return &ReportHandler{deps: deps}
}

// HandleGetReport handles GET /api/report/{id} requests.
func (h *ReportHandler) HandleGetReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_report"
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		writeKindError(ctx, w, WrapKind(op, ErrBadRequest, err))
		return
	}
	report, err := h.deps.Report(ctx, id)
	if err != nil {
		if errors.Is(err, diagnosis.ErrInvalidSurvey) {
			writeKindError(ctx, w, WrapKind(op, ErrUnprocessable, err))
			return
		}
		writeKindError(ctx, w, classifyLookup(op, err))
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// HandleResendReport handles POST /api/report/{id}/resend requests.
func (h *ReportHandler) HandleResendReport(w http.ResponseWriter, r *http.Request) {
	const op = "api.resend_report"
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		writeKindError(ctx, w, WrapKind(op, ErrBadRequest, err))
		return
	}
	jobID, err := h.deps.ResendReport(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrBackpressure) {
			writeKindError(ctx, w, WrapKind(op, ErrBackpressure, err))
			return
		}
		writeKindError(ctx, w, classifyLookup(op, err))
		return
	}
	writeJSON(w, http.StatusAccepted, resendResponse{Status: "accepted", JobID: jobID, SurveyID: id})
}

// HandleReportPage handles GET /report/{id}, the link sent to companies.
// Rendering happens client side, so the page points at the JSON report.
func (h *ReportHandler) HandleReportPage(w http.ResponseWriter, r *http.Request) {
	const op = "api.report_page"
	id, err := pathID(r)
	if err != nil {
		writeKindError(r.Context(), w, WrapKind(op, ErrBadRequest, err))
		return
	}
	http.Redirect(w, r, "/api/report/"+strconv.FormatInt(id, 10), http.StatusFound)
}
