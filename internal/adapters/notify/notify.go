// Package notify hands finished reports to whoever tells the company about
// them.
package notify

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/okian/gdax/internal/domain/diagnosis"
	"github.com/okian/gdax/pkg/logger"
)

// ErrNoRecipient is returned for messages without a contact e-mail.
var ErrNoRecipient = errors.New("report has no recipient")

// Message is what a company receives when its report is ready.
type Message struct {
	SurveyID      int64  `json:"survey_id"`
	CompanyName   string `json:"company_name"`
	CEOName       string `json:"ceo_name"`
	ContactName   string `json:"contact_name"`
	ContactEmail  string `json:"contact_email"`
	ReportURL     string `json:"report_url"`
	DiagnosisType string `json:"diagnosis_type"`
	DiagnosisDate string `json:"diagnosis_date"`
	Resend        bool   `json:"resend"`
}

// NewMessage builds the message for report, linking to the report page
// under baseURL.
func NewMessage(report diagnosis.Report, baseURL string, resend bool) Message {
	return Message{
		SurveyID:      report.SurveyID,
		CompanyName:   report.CompanyName,
		CEOName:       report.CEOName,
		ContactName:   report.Contact.Name,
		ContactEmail:  report.Contact.Email,
		ReportURL:     ReportURL(baseURL, report.SurveyID),
		DiagnosisType: report.DiagnosisType.Label,
		DiagnosisDate: report.DiagnosisDate,
		Resend:        resend,
	}
}

// ReportURL returns <baseURL>/report/<id>.
func ReportURL(baseURL string, surveyID int64) string {
	return fmt.Sprintf("%s/report/%d", strings.TrimRight(baseURL, "/"), surveyID)
}

// Notifier delivers a Message.
type Notifier interface {
	Notify(ctx context.Context, m Message) error
}

// LogNotifier writes messages to the log instead of delivering them.
type LogNotifier struct {
	logger logger.Logger
}

// NewLogNotifier returns a LogNotifier using the global logger.
func NewLogNotifier() *LogNotifier {
	return &LogNotifier{logger: logger.Named("notify")}
}

func (n *LogNotifier) Notify(ctx context.Context, m Message) error {
	if strings.TrimSpace(m.ContactEmail) == "" {
		return fmt.Errorf("survey %d: %w", m.SurveyID, ErrNoRecipient)
	}
	n.logger.Info(ctx, "report ready",
		logger.Int64("survey_id", m.SurveyID),
		logger.String("company", m.CompanyName),
		logger.String("to", m.ContactEmail),
		logger.String("report_url", m.ReportURL),
		logger.String("diagnosis_type", m.DiagnosisType),
		logger.String("diagnosis_date", m.DiagnosisDate),
		logger.Bool("resend", m.Resend),
	)
	return nil
}
