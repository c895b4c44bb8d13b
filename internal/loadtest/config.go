package loadtest

import (
	"time"

	"github.com/okian/gdax/internal/domain/model"
)

// Config holds configuration for a load run.
type Config struct {
	BaseURL       string        // Base URL of the service
	NumSurveys    int           // Number of surveys to generate
	DuplicateRate float64       // Share of surveys re-posted with the same submission key
	Workers       int           // Number of concurrent workers
	Timeout       time.Duration // HTTP request timeout
	OutputFile    string        // Output file for generated surveys; empty disables saving
	Verbose       bool          // Log every mismatch
}

// Survey is one generated submission together with the id the service
// assigned to it.
type Survey struct {
	SubmissionKey string               `json:"submission_key"`
	Response      model.SurveyResponse `json:"response"`
	ID            int64                `json:"id,omitempty"`
}

// Stats holds run statistics.
type Stats struct {
	SurveysGenerated  int
	SurveysSubmitted  int
	SurveysSuccessful int
	SurveysDuplicate  int
	SurveysFailed     int
	ReportsRetrieved  int
	ReportsMismatched int
	StartTime         time.Time
	EndTime           time.Time
	Duration          time.Duration
}
