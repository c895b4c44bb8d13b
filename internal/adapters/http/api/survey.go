package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"strconv"

	"github.com/okian/gdax/internal/adapters/repository"
	service "github.com/okian/gdax/internal/app"
	"github.com/okian/gdax/internal/domain/diagnosis"
	"github.com/okian/gdax/internal/domain/model"
)

const maxSurveyBodyBytes = 1 << 20

const submitSuccessMessage = "설문이 성공적으로 제출되었습니다."

// SurveyDependencies defines the survey operations the handlers need.
type SurveyDependencies interface {
	SubmitSurvey(ctx context.Context, s model.SurveyResponse, submissionKey string) (int64, error)
	Survey(ctx context.Context, id int64) (model.SurveyResponse, error)
	ListSurveys(ctx context.Context, limit int) ([]model.SurveySummary, error)
}

// likert decodes a 1..5 answer, accepting whole-number floats such as 5.0.
type likert int

func (l *likert) UnmarshalJSON(b []byte) error {
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	if f != math.Trunc(f) {
		return fmt.Errorf("likert answer %v is not a whole number", f)
	}
	*l = likert(f)
	return nil
}

// surveyRequest is the flat form body of POST /api/survey.
type surveyRequest struct {
	SubmissionKey string  `json:"submission_key"`
	CompanyName   string  `json:"company_name"`
	CEOName       string  `json:"ceo_name"`
	Location      string  `json:"location"`
	MainProduct   string  `json:"main_product"`
	EmployeeCount string  `json:"employee_count"`
	AnnualRevenue float64 `json:"annual_revenue"`

	ClimateRisk1      likert `json:"climate_risk_1"`
	ClimateRisk2      likert `json:"climate_risk_2"`
	ClimateRisk3      likert `json:"climate_risk_3"`
	DigitalUrgency1   likert `json:"digital_urgency_1"`
	DigitalUrgency2   likert `json:"digital_urgency_2"`
	DigitalUrgency3   likert `json:"digital_urgency_3"`
	EmploymentStatus1 likert `json:"employment_status_1"`
	EmploymentStatus2 likert `json:"employment_status_2"`
	EmploymentStatus3 likert `json:"employment_status_3"`
	EmploymentStatus4 likert `json:"employment_status_4"`
	ReadinessLevel    likert `json:"readiness_level"`

	SupportAreas          []string `json:"support_areas"`
	ConsultingApplication bool     `json:"consulting_application"`

	ContactName     string `json:"contact_name"`
	ContactPosition string `json:"contact_position"`
	ContactEmail    string `json:"contact_email"`
	ContactPhone    string `json:"contact_phone"`
}

func (req *surveyRequest) toModel() model.SurveyResponse {
	return model.SurveyResponse{
		CompanyName:   req.CompanyName,
		CEOName:       req.CEOName,
		Location:      req.Location,
		MainProduct:   req.MainProduct,
		EmployeeCount: req.EmployeeCount,
		AnnualRevenue: req.AnnualRevenue,
		Answers: model.Answers{
			ClimateRisk1:      int(req.ClimateRisk1),
			ClimateRisk2:      int(req.ClimateRisk2),
			ClimateRisk3:      int(req.ClimateRisk3),
			DigitalUrgency1:   int(req.DigitalUrgency1),
			DigitalUrgency2:   int(req.DigitalUrgency2),
			DigitalUrgency3:   int(req.DigitalUrgency3),
			EmploymentStatus1: int(req.EmploymentStatus1),
			EmploymentStatus2: int(req.EmploymentStatus2),
			EmploymentStatus3: int(req.EmploymentStatus3),
			EmploymentStatus4: int(req.EmploymentStatus4),
			ReadinessLevel:    int(req.ReadinessLevel),
		},
		SupportAreas:          req.SupportAreas,
		ConsultingApplication: req.ConsultingApplication,
		Contact: model.Contact{
			Name:     req.ContactName,
			Position: req.ContactPosition,
			Email:    req.ContactEmail,
			Phone:    req.ContactPhone,
		},
	}
}

type submitResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	SurveyID int64  `json:"survey_id"`
}

type listResponse struct {
	Success bool                  `json:"success"`
	Count   int                   `json:"count"`
	Data    []model.SurveySummary `json:"data"`
}

// SurveyHandler handles survey requests.
type SurveyHandler struct {
	deps SurveyDependencies
}

// NewSurveyHandler creates a new survey handler.
func NewSurveyHandler(deps SurveyDependencies) *SurveyHandler {
	return &SurveyHandler{deps: deps}
}

// HandlePostSurvey handles POST /api/survey requests.
func (h *SurveyHandler) HandlePostSurvey(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_survey"
	ctx := r.Context()

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxSurveyBodyBytes))
	if err != nil {
		writeKindError(ctx, w, WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := validateSurveyBody(body); err != nil {
		writeKindError(ctx, w, WrapKind(op, ErrBadRequest, err))
		return
	}
	var req surveyRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeKindError(ctx, w, WrapKind(op, ErrBadRequest, err))
		return
	}

	id, err := h.deps.SubmitSurvey(ctx, req.toModel(), req.SubmissionKey)
	switch {
	case err == nil:
	case errors.Is(err, diagnosis.ErrInvalidSurvey):
		writeKindError(ctx, w, WrapKind(op, ErrBadRequest, err))
		return
	case errors.Is(err, service.ErrDuplicateSubmission):
		writeKindError(ctx, w, WrapKind(op, ErrDuplicate, err))
		return
	default:
		writeKindError(ctx, w, WrapKind(op, ErrInternal, err))
		return
	}

	writeJSON(w, http.StatusOK, submitResponse{Success: true, Message: submitSuccessMessage, SurveyID: id})
}

// HandleGetSurvey handles GET /api/survey/{id} requests.
func (h *SurveyHandler) HandleGetSurvey(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_survey"
	ctx := r.Context()

	id, err := pathID(r)
	if err != nil {
		writeKindError(ctx, w, WrapKind(op, ErrBadRequest, err))
		return
	}
	survey, err := h.deps.Survey(ctx, id)
	if err != nil {
		writeKindError(ctx, w, classifyLookup(op, err))
		return
	}
	writeJSON(w, http.StatusOK, survey)
}

// HandleListSurveys handles GET /api/surveys requests.
func (h *SurveyHandler) HandleListSurveys(w http.ResponseWriter, r *http.Request) {
	const op = "api.list_surveys"
	ctx := r.Context()

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeKindError(ctx, w, WrapKind(op, ErrBadRequest, fmt.Errorf("invalid limit %q", raw)))
			return
		}
		limit = n
	}

	list, err := h.deps.ListSurveys(ctx, limit)
	if err != nil {
		writeKindError(ctx, w, WrapKind(op, ErrInternal, err))
		return
	}
	if list == nil {
		list = []model.SurveySummary{}
	}
	writeJSON(w, http.StatusOK, listResponse{Success: true, Count: len(list), Data: list})
}

// classifyLookup maps a store lookup failure to an API kind.
func classifyLookup(op string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return WrapKind(op, ErrNotFound, err)
	}
	return WrapKind(op, ErrInternal, err)
}
