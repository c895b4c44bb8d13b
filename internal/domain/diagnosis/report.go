package diagnosis

import (
	"slices"
	"time"

	"github.com/okian/gdax/internal/domain/model"
)

// Report is the assembled diagnosis of one survey. It is a value; callers
// may keep it after the survey changes.
type Report struct {
	SurveyID      int64   `json:"survey_id"`
	CompanyName   string  `json:"company_name"`
	CEOName       string  `json:"ceo_name"`
	Location      string  `json:"location"`
	MainProduct   string  `json:"main_product"`
	EmployeeCount string  `json:"employee_count"`
	AnnualRevenue float64 `json:"annual_revenue"`

	Contact model.Contact `json:"contact"`

	Scores                ScoreSet `json:"scores"`
	ClimateRiskPercent    string   `json:"climate_risk_percent"`
	DigitalUrgencyPercent string   `json:"digital_urgency_percent"`

	DiagnosisType      DiagnosisType     `json:"diagnosis_type"`
	EmploymentMessages []EmploymentIssue `json:"employment_messages"`
	Solutions          SolutionSet       `json:"solutions"`

	SupportAreas          []string `json:"support_areas"`
	ConsultingApplication bool     `json:"consulting_application"`

	DiagnosisDate string `json:"diagnosis_date"`
}

// Assemble composes the pieces into a Report stamped with date, formatted
// in date's own location.
func Assemble(
	s model.SurveyResponse,
	scores ScoreSet,
	dt DiagnosisType,
	issues []EmploymentIssue,
	solutions SolutionSet,
	date time.Time,
) Report {
	supportAreas := slices.Clone(s.SupportAreas)
	if supportAreas == nil {
		supportAreas = []string{}
	}
	if issues == nil {
		issues = []EmploymentIssue{}
	}

	return Report{
		SurveyID:              s.ID,
		CompanyName:           s.CompanyName,
		CEOName:               s.CEOName,
		Location:              s.Location,
		MainProduct:           s.MainProduct,
		EmployeeCount:         s.EmployeeCount,
		AnnualRevenue:         s.AnnualRevenue,
		Contact:               s.Contact,
		Scores:                scores,
		ClimateRiskPercent:    FormatPercent(scores.ClimateRiskPercent),
		DigitalUrgencyPercent: FormatPercent(scores.DigitalUrgencyPercent),
		DiagnosisType:         dt,
		EmploymentMessages:    slices.Clone(issues),
		Solutions:             solutions,
		SupportAreas:          supportAreas,
		ConsultingApplication: s.ConsultingApplication,
		DiagnosisDate:         date.Format(DateLayout),
	}
}
