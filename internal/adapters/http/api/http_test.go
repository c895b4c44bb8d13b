package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/okian/gdax/internal/adapters/http/api"
	"github.com/okian/gdax/internal/adapters/repository"
	service "github.com/okian/gdax/internal/app"
	"github.com/okian/gdax/internal/domain/diagnosis"
	"github.com/okian/gdax/internal/domain/model"
	"github.com/okian/gdax/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(logger.WithOutput(io.Discard)); err != nil {
		panic(err)
	}
}

type mockDeps struct {
	submitted []model.SurveyResponse
	keys      []string
	submitErr error

	surveys map[int64]model.SurveyResponse
	list    []model.SurveySummary
	limit   int
	listErr error

	reportErr error
	resendErr error
	stats     model.Stats
	statsErr  error
}

func newMockDeps() *mockDeps {
	return &mockDeps{surveys: map[int64]model.SurveyResponse{}}
}

func (m *mockDeps) SubmitSurvey(_ context.Context, s model.SurveyResponse, key string) (int64, error) {
	if m.submitErr != nil {
		return 0, m.submitErr
	}
	m.submitted = append(m.submitted, s)
	m.keys = append(m.keys, key)
	return int64(len(m.submitted)), nil
}

func (m *mockDeps) Survey(_ context.Context, id int64) (model.SurveyResponse, error) {
	s, ok := m.surveys[id]
	if !ok {
		return model.SurveyResponse{}, fmt.Errorf("survey %d: %w", id, repository.ErrNotFound)
	}
	return s, nil
}

func (m *mockDeps) ListSurveys(_ context.Context, limit int) ([]model.SurveySummary, error) {
	m.limit = limit
	return m.list, m.listErr
}

func (m *mockDeps) Report(_ context.Context, id int64) (diagnosis.Report, error) {
	if m.reportErr != nil {
		return diagnosis.Report{}, m.reportErr
	}
	s, err := m.Survey(context.Background(), id)
	if err != nil {
		return diagnosis.Report{}, err
	}
	return diagnosis.NewEngine().GenerateReport(s)
}

func (m *mockDeps) ResendReport(_ context.Context, id int64) (string, error) {
	if m.resendErr != nil {
		return "", m.resendErr
	}
	if _, err := m.Survey(context.Background(), id); err != nil {
		return "", err
	}
	return "job-1", nil
}

func (m *mockDeps) Stats(context.Context) (model.Stats, error) {
	return m.stats, m.statsErr
}

type mockStatsProvider struct {
	stats map[string]interface{}
}

func (m *mockStatsProvider) GetStats() map[string]interface{} {
	return m.stats
}

func storedSurvey(id int64) model.SurveyResponse {
	return model.SurveyResponse{
		ID:          id,
		CompanyName: "한빛정밀",
		Answers: model.Answers{
			ClimateRisk1: 3, ClimateRisk2: 3, ClimateRisk3: 3,
			DigitalUrgency1: 3, DigitalUrgency2: 3, DigitalUrgency3: 3,
			EmploymentStatus1: 1, EmploymentStatus2: 1, EmploymentStatus3: 1, EmploymentStatus4: 1,
			ReadinessLevel: 1,
		},
		Contact:   model.Contact{Email: "hr@example.com"},
		CreatedAt: time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
	}
}

const validBody = `{
	"submission_key": "form-abc",
	"company_name": "한빛정밀",
	"ceo_name": "김대표",
	"location": null,
	"annual_revenue": 12.5,
	"climate_risk_1": 5, "climate_risk_2": 5, "climate_risk_3": 5,
	"digital_urgency_1": 1, "digital_urgency_2": 1, "digital_urgency_3": 1,
	"employment_status_1": 1, "employment_status_2": 4, "employment_status_3": 1, "employment_status_4": 1,
	"readiness_level": 3,
	"support_areas": ["훈련"],
	"consulting_application": true,
	"contact_name": "이담당",
	"contact_email": "hr@example.com",
	"contact_phone": "010-1234-5678"
}`

func newMux(deps *mockDeps) *http.ServeMux {
	server := api.NewServer(deps, &mockStatsProvider{stats: map[string]interface{}{"started": true}})
	mux := http.NewServeMux()
	server.Register(context.Background(), mux)
	return mux
}

func do(mux *http.ServeMux, method, target, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	return w
}

func decode(w *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	So(json.Unmarshal(w.Body.Bytes(), &out), ShouldBeNil)
	return out
}

func TestServer_Infrastructure(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		mux := newMux(newMockDeps())

		Convey("Then /healthz should report ok", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["status"], ShouldEqual, "ok")
		})

		Convey("Then /stats should return runtime stats", func() {
			w := do(mux, http.MethodGet, "/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["started"], ShouldEqual, true)
		})

		Convey("Then /metrics should expose Prometheus text", func() {
			do(mux, http.MethodGet, "/healthz", "")
			w := do(mux, http.MethodGet, "/metrics", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, "gdax_diagnosis_http_requests_total")
		})

		Convey("Then every response should carry a request id", func() {
			w := do(mux, http.MethodGet, "/healthz", "")
			So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)

			req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
			req.Header.Set(api.RequestIDHeader, "caller-id")
			w = httptest.NewRecorder()
			mux.ServeHTTP(w, req)
			So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "caller-id")
		})
	})
}

func TestServer_PostSurvey(t *testing.T) {
	Convey("Given a registered API server", t, func() {
		deps := newMockDeps()
		mux := newMux(deps)

		Convey("When a valid survey is posted", func() {
			w := do(mux, http.MethodPost, "/api/survey", validBody)

			Convey("Then it should be accepted and mapped onto the model", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				out := decode(w)
				So(out["success"], ShouldEqual, true)
				So(out["survey_id"], ShouldEqual, float64(1))
				So(out["message"], ShouldNotBeEmpty)

				So(deps.keys, ShouldResemble, []string{"form-abc"})
				s := deps.submitted[0]
				So(s.CompanyName, ShouldEqual, "한빛정밀")
				So(s.Location, ShouldEqual, "")
				So(s.Answers.ClimateRisk3, ShouldEqual, 5)
				So(s.Answers.EmploymentStatus2, ShouldEqual, 4)
				So(s.SupportAreas, ShouldResemble, []string{"훈련"})
				So(s.Contact.Email, ShouldEqual, "hr@example.com")
				So(s.Contact.Phone, ShouldEqual, "010-1234-5678")
			})
		})

		Convey("When the body is not JSON", func() {
			w := do(mux, http.MethodPost, "/api/survey", "{not json")

			Convey("Then it should be a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When a Likert answer is out of range", func() {
			w := do(mux, http.MethodPost, "/api/survey", strings.Replace(validBody, `"climate_risk_1": 5`, `"climate_risk_1": 6`, 1))

			Convey("Then the schema should reject it", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["message"], ShouldContainSubstring, "climate_risk_1")
				So(deps.submitted, ShouldBeEmpty)
			})
		})

		Convey("When a Likert answer is written as a whole-number float", func() {
			w := do(mux, http.MethodPost, "/api/survey", strings.Replace(validBody, `"climate_risk_1": 5`, `"climate_risk_1": 5.0`, 1))

			Convey("Then it should be accepted as that integer", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.submitted, ShouldHaveLength, 1)
				So(deps.submitted[0].Answers.ClimateRisk1, ShouldEqual, 5)
			})
		})

		Convey("When a Likert answer has a fraction", func() {
			w := do(mux, http.MethodPost, "/api/survey", strings.Replace(validBody, `"climate_risk_1": 5`, `"climate_risk_1": 4.5`, 1))

			Convey("Then the schema should reject it", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["message"], ShouldContainSubstring, "climate_risk_1")
				So(deps.submitted, ShouldBeEmpty)
			})
		})

		Convey("When the revenue and support areas are null", func() {
			body := strings.Replace(validBody, `"annual_revenue": 12.5`, `"annual_revenue": null`, 1)
			body = strings.Replace(body, `"support_areas": ["훈련"]`, `"support_areas": null`, 1)
			w := do(mux, http.MethodPost, "/api/survey", body)

			Convey("Then they should be treated as absent", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.submitted, ShouldHaveLength, 1)
				So(deps.submitted[0].AnnualRevenue, ShouldEqual, 0)
				So(deps.submitted[0].SupportAreas, ShouldBeEmpty)
			})
		})

		Convey("When the contact e-mail is missing", func() {
			w := do(mux, http.MethodPost, "/api/survey", strings.Replace(validBody, `"contact_email": "hr@example.com",`, ``, 1))

			Convey("Then it should be a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decode(w)["message"], ShouldContainSubstring, "contact_email")
			})
		})

		Convey("When the service reports a duplicate", func() {
			deps.submitErr = fmt.Errorf("submission: %w", service.ErrDuplicateSubmission)
			w := do(mux, http.MethodPost, "/api/survey", validBody)

			Convey("Then it should be a conflict", func() {
				So(w.Code, ShouldEqual, http.StatusConflict)
				So(decode(w)["code"], ShouldEqual, "duplicate")
			})
		})

		Convey("When the service rejects the answers", func() {
			deps.submitErr = &diagnosis.ValidationError{Fields: []diagnosis.FieldError{{Field: "readiness_level"}}}
			w := do(mux, http.MethodPost, "/api/survey", validBody)

			Convey("Then it should be a bad request", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When the store fails", func() {
			deps.submitErr = errors.New("database is locked")
			w := do(mux, http.MethodPost, "/api/survey", validBody)

			Convey("Then it should be an internal error", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				So(decode(w)["code"], ShouldEqual, "internal_error")
			})
		})

		Convey("When the method is wrong", func() {
			w := do(mux, http.MethodGet, "/api/survey", "")

			Convey("Then it should not be served", func() {
				So(w.Code, ShouldBeIn, []int{http.StatusMethodNotAllowed, http.StatusNotFound})
			})
		})
	})
}

func TestServer_ReadSurveys(t *testing.T) {
	Convey("Given a server with one stored survey", t, func() {
		deps := newMockDeps()
		deps.surveys[1] = storedSurvey(1)
		deps.list = []model.SurveySummary{{ID: 1, CompanyName: "한빛정밀"}}
		mux := newMux(deps)

		Convey("Then GET /api/survey/{id} should return it", func() {
			w := do(mux, http.MethodGet, "/api/survey/1", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(decode(w)["company_name"], ShouldEqual, "한빛정밀")
		})

		Convey("Then unknown ids should be 404 and bad ids 400", func() {
			So(do(mux, http.MethodGet, "/api/survey/2", "").Code, ShouldEqual, http.StatusNotFound)
			So(do(mux, http.MethodGet, "/api/survey/abc", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/api/survey/0", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then GET /api/surveys should wrap the list", func() {
			w := do(mux, http.MethodGet, "/api/surveys?limit=20", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			out := decode(w)
			So(out["success"], ShouldEqual, true)
			So(out["count"], ShouldEqual, float64(1))
			So(out["data"], ShouldHaveLength, 1)
			So(deps.limit, ShouldEqual, 20)
		})

		Convey("Then an empty list should still be an array", func() {
			deps.list = nil
			w := do(mux, http.MethodGet, "/api/surveys", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"data":[]`)
			So(deps.limit, ShouldEqual, 0)
		})

		Convey("Then a bad limit should be rejected", func() {
			So(do(mux, http.MethodGet, "/api/surveys?limit=-1", "").Code, ShouldEqual, http.StatusBadRequest)
			So(do(mux, http.MethodGet, "/api/surveys?limit=ten", "").Code, ShouldEqual, http.StatusBadRequest)
		})

		Convey("Then GET /api/stats should return the counters", func() {
			deps.stats = model.Stats{TotalSurveys: 3, ConsultingApplications: 1, ReportsGenerated: 2, ReportsSent: 1}
			w := do(mux, http.MethodGet, "/api/stats", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			out := decode(w)
			So(out["total_surveys"], ShouldEqual, float64(3))
			So(out["reports_sent"], ShouldEqual, float64(1))
		})
	})
}

func TestServer_Reports(t *testing.T) {
	Convey("Given a server with one stored survey", t, func() {
		deps := newMockDeps()
		deps.surveys[1] = storedSurvey(1)
		mux := newMux(deps)

		Convey("When its report is requested", func() {
			w := do(mux, http.MethodGet, "/api/report/1", "")

			Convey("Then the report JSON should be returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				out := decode(w)
				So(out["climate_risk_percent"], ShouldEqual, "60.0")
				dt := out["diagnosis_type"].(map[string]interface{})
				So(dt["code"], ShouldEqual, string(diagnosis.StructuralTransformation))
			})
		})

		Convey("When the report is unknown", func() {
			So(do(mux, http.MethodGet, "/api/report/9", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the stored answers are malformed", func() {
			deps.reportErr = &diagnosis.ValidationError{SurveyID: 1, Fields: []diagnosis.FieldError{{Field: "climate_risk_1"}}}
			w := do(mux, http.MethodGet, "/api/report/1", "")

			Convey("Then it should be unprocessable", func() {
				So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
				So(decode(w)["code"], ShouldEqual, "invalid_survey")
			})
		})

		Convey("When a resend is requested", func() {
			w := do(mux, http.MethodPost, "/api/report/1/resend", "")

			Convey("Then it should be accepted", func() {
				So(w.Code, ShouldEqual, http.StatusAccepted)
				out := decode(w)
				So(out["job_id"], ShouldEqual, "job-1")
				So(out["survey_id"], ShouldEqual, float64(1))
			})
		})

		Convey("When the queue is full", func() {
			deps.resendErr = fmt.Errorf("survey 1: %w", service.ErrBackpressure)

			Convey("Then a resend should be throttled", func() {
				So(do(mux, http.MethodPost, "/api/report/1/resend", "").Code, ShouldEqual, http.StatusTooManyRequests)
			})
		})

		Convey("When resending an unknown survey", func() {
			So(do(mux, http.MethodPost, "/api/report/5/resend", "").Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("When the report page link is followed", func() {
			w := do(mux, http.MethodGet, "/report/1", "")

			Convey("Then it should redirect to the JSON report", func() {
				So(w.Code, ShouldEqual, http.StatusFound)
				So(w.Header().Get("Location"), ShouldEqual, "/api/report/1")
			})
		})
	})
}

func TestKindError(t *testing.T) {
	Convey("Given a wrapped kind error", t, func() {
		cause := errors.New("boom")
		err := api.WrapKind("api.op", api.ErrBadRequest, cause)

		Convey("Then errors.Is should match both kind and cause", func() {
			So(errors.Is(err, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(err, cause), ShouldBeTrue)
			So(errors.Is(err, api.ErrNotFound), ShouldBeFalse)
			So(err.Error(), ShouldEqual, "api.op: bad request: boom")
		})

		Convey("Then a bare kind should format without a cause", func() {
			bare := api.NewKind("api.op", api.ErrBackpressure)
			So(errors.Is(bare, api.ErrBackpressure), ShouldBeTrue)
			So(bare.Error(), ShouldEqual, "api.op: backpressure")
		})
	})
}
