// Package model contains domain models passed between layers.
package model

import "time"

// SurveyResponse is one company's submitted self-assessment. It is treated
// as an immutable snapshot once loaded.
type SurveyResponse struct {
	ID int64 `json:"id"`

	CompanyName   string  `json:"company_name"`
	CEOName       string  `json:"ceo_name"`
	Location      string  `json:"location"`
	MainProduct   string  `json:"main_product"`
	EmployeeCount string  `json:"employee_count"`
	AnnualRevenue float64 `json:"annual_revenue"`

	Answers Answers `json:"answers"`

	SupportAreas          []string `json:"support_areas"`
	ConsultingApplication bool     `json:"consulting_application"`

	Contact Contact `json:"contact"`

	ReportGenerated bool      `json:"report_generated"`
	ReportSent      bool      `json:"report_sent"`
	CreatedAt       time.Time `json:"created_at"`
}

// Answers holds the Likert items, each expected in [1,5].
type Answers struct {
	ClimateRisk1 int `json:"climate_risk_1"`
	ClimateRisk2 int `json:"climate_risk_2"`
	ClimateRisk3 int `json:"climate_risk_3"`

	DigitalUrgency1 int `json:"digital_urgency_1"`
	DigitalUrgency2 int `json:"digital_urgency_2"`
	DigitalUrgency3 int `json:"digital_urgency_3"`

	EmploymentStatus1 int `json:"employment_status_1"`
	EmploymentStatus2 int `json:"employment_status_2"`
	EmploymentStatus3 int `json:"employment_status_3"`
	EmploymentStatus4 int `json:"employment_status_4"`

	ReadinessLevel int `json:"readiness_level"`
}

// Climate returns the three climate-risk answers in question order.
func (a Answers) Climate() [3]int {
	return [3]int{a.ClimateRisk1, a.ClimateRisk2, a.ClimateRisk3}
}

// Digital returns the three digital-urgency answers in question order.
func (a Answers) Digital() [3]int {
	return [3]int{a.DigitalUrgency1, a.DigitalUrgency2, a.DigitalUrgency3}
}

// Employment returns the four employment-status answers in question order.
func (a Answers) Employment() [4]int {
	return [4]int{a.EmploymentStatus1, a.EmploymentStatus2, a.EmploymentStatus3, a.EmploymentStatus4}
}

// Contact is the person who receives the report.
type Contact struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

// SurveySummary is the admin listing row.
type SurveySummary struct {
	ID                    int64     `json:"id"`
	CompanyName           string    `json:"company_name"`
	CEOName               string    `json:"ceo_name"`
	ContactEmail          string    `json:"contact_email"`
	ContactPhone          string    `json:"contact_phone"`
	ConsultingApplication bool      `json:"consulting_application"`
	ReportSent            bool      `json:"report_sent"`
	CreatedAt             time.Time `json:"created_at"`
}

// Stats aggregates survey counters for the admin dashboard.
type Stats struct {
	TotalSurveys           int `json:"total_surveys"`
	ConsultingApplications int `json:"consulting_applications"`
	ReportsGenerated       int `json:"reports_generated"`
	ReportsSent            int `json:"reports_sent"`
}
