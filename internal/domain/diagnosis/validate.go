package diagnosis

import "github.com/okian/gdax/internal/domain/model"

// Validate rejects surveys whose Likert answers are missing or outside
// [MinAnswer, MaxAnswer]. It never coerces values.
func Validate(s model.SurveyResponse) error {
	a := s.Answers
	answers := []FieldError{
		{"climate_risk_1", a.ClimateRisk1},
		{"climate_risk_2", a.ClimateRisk2},
		{"climate_risk_3", a.ClimateRisk3},
		{"digital_urgency_1", a.DigitalUrgency1},
		{"digital_urgency_2", a.DigitalUrgency2},
		{"digital_urgency_3", a.DigitalUrgency3},
		{"employment_status_1", a.EmploymentStatus1},
		{"employment_status_2", a.EmploymentStatus2},
		{"employment_status_3", a.EmploymentStatus3},
		{"employment_status_4", a.EmploymentStatus4},
		{"readiness_level", a.ReadinessLevel},
	}

	var bad []FieldError
	for _, f := range answers {
		if f.Value < MinAnswer || f.Value > MaxAnswer {
			bad = append(bad, f)
		}
	}
	if len(bad) > 0 {
		return &ValidationError{SurveyID: s.ID, Fields: bad}
	}
	return nil
}
