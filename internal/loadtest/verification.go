package loadtest

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/okian/gdax/internal/domain/diagnosis"
	"github.com/okian/gdax/internal/domain/model"
	"github.com/okian/gdax/pkg/logger"
)

// verifyReports fetches the report of every stored survey and compares it
// with a locally computed one. Dates are not compared; the service stamps
// them in its own zone.
func verifyReports(ctx context.Context, config *Config, surveys []Survey, stats *Stats) error {
	log := logger.Named("loadtest")
	log.Info(ctx, "verifying reports")

	engine := diagnosis.NewEngine()
	var (
		mu         sync.Mutex
		stored     int
		retrieved  int
		mismatched int
		fetchErrs  int
	)
	for _, s := range surveys {
		if s.ID != 0 {
			stored++
		}
	}
	runPool(ctx, config.Workers, len(surveys), func(i int) {
		s := surveys[i]
		if s.ID == 0 {
			return
		}
		var got diagnosis.Report
		err := newHTTPClient(config.Timeout).getJSON(ctx, reportURL(config.BaseURL, s.ID), &got)

		mu.Lock()
		defer mu.Unlock()
		if err != nil {
			fetchErrs++
			if config.Verbose {
				log.Warn(ctx, "report fetch failed", logger.Int64("survey_id", s.ID), logger.Error(err))
			}
			return
		}
		retrieved++

		in := s.Response
		in.ID = s.ID
		want, err := engine.GenerateReport(in)
		if err != nil {
			mismatched++
			return
		}
		if diff := compareReports(want, got); diff != "" {
			mismatched++
			if config.Verbose {
				log.Warn(ctx, "report mismatch", logger.Int64("survey_id", s.ID), logger.String("diff", diff))
			}
		}
	})

	stats.ReportsRetrieved = retrieved
	stats.ReportsMismatched = mismatched

	log.Info(ctx, "report verification completed",
		logger.Int("retrieved", retrieved),
		logger.Int("mismatched", mismatched),
		logger.Int("fetchErrors", fetchErrs))

	switch {
	case fetchErrs > 0:
		return fmt.Errorf("%d of %d reports could not be fetched", fetchErrs, stored)
	case retrieved < stored:
		return fmt.Errorf("only %d of %d reports were checked", retrieved, stored)
	case mismatched > 0:
		return fmt.Errorf("%d of %d reports differ from the local diagnosis", mismatched, retrieved)
	}
	return nil
}

// compareReports returns a description of the first difference, or "".
func compareReports(want, got diagnosis.Report) string {
	switch {
	case want.SurveyID != got.SurveyID:
		return fmt.Sprintf("survey_id %d != %d", got.SurveyID, want.SurveyID)
	case want.DiagnosisType.Kind != got.DiagnosisType.Kind:
		return fmt.Sprintf("diagnosis_type %s != %s", got.DiagnosisType.Kind, want.DiagnosisType.Kind)
	case want.ClimateRiskPercent != got.ClimateRiskPercent:
		return fmt.Sprintf("climate_risk_percent %s != %s", got.ClimateRiskPercent, want.ClimateRiskPercent)
	case want.DigitalUrgencyPercent != got.DigitalUrgencyPercent:
		return fmt.Sprintf("digital_urgency_percent %s != %s", got.DigitalUrgencyPercent, want.DigitalUrgencyPercent)
	case !slices.Equal(issueKinds(want.EmploymentMessages), issueKinds(got.EmploymentMessages)):
		return fmt.Sprintf("employment issues %v != %v", issueKinds(got.EmploymentMessages), issueKinds(want.EmploymentMessages))
	case !slices.Equal(solutionTitles(want.Solutions.Business), solutionTitles(got.Solutions.Business)):
		return "business solutions differ"
	case !slices.Equal(solutionTitles(want.Solutions.HR), solutionTitles(got.Solutions.HR)):
		return "hr solutions differ"
	case len(want.Solutions.Government) != len(got.Solutions.Government):
		return fmt.Sprintf("government programs %d != %d", len(got.Solutions.Government), len(want.Solutions.Government))
	}
	return ""
}

func issueKinds(issues []diagnosis.EmploymentIssue) []diagnosis.IssueKind {
	out := make([]diagnosis.IssueKind, len(issues))
	for i, is := range issues {
		out[i] = is.Kind
	}
	return out
}

func solutionTitles(solutions []diagnosis.Solution) []string {
	out := make([]string, len(solutions))
	for i, s := range solutions {
		out[i] = s.Title
	}
	return out
}

// verifyStats checks the admin counters cover every stored survey.
func verifyStats(ctx context.Context, config *Config, stats *Stats) error {
	var got model.Stats
	if err := newHTTPClient(config.Timeout).getJSON(ctx, config.BaseURL+"/api/stats", &got); err != nil {
		return fmt.Errorf("fetch stats: %w", err)
	}
	if got.TotalSurveys < stats.SurveysSuccessful {
		return fmt.Errorf("service counts %d surveys, %d were accepted", got.TotalSurveys, stats.SurveysSuccessful)
	}
	logger.Named("loadtest").Info(ctx, "service counters",
		logger.Int("totalSurveys", got.TotalSurveys),
		logger.Int("consultingApplications", got.ConsultingApplications),
		logger.Int("reportsGenerated", got.ReportsGenerated),
		logger.Int("reportsSent", got.ReportsSent))
	return nil
}
