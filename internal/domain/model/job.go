package model

import "time"

// ReportMode tells the report pipeline which diagnosis date to stamp.
type ReportMode string

const (
	// ReportModeInitial stamps the generation date.
	ReportModeInitial ReportMode = "initial"
	// ReportModeResend stamps the survey's original submission date.
	ReportModeResend ReportMode = "resend"
)

// ReportJob asks the notification pipeline to (re)send a survey's report.
type ReportJob struct {
	ID         string
	SurveyID   int64
	Mode       ReportMode
	EnqueuedAt time.Time
}
