// Package loadtest drives a running diagnosis service with generated
// surveys and checks the reports it serves against the local engine.
package loadtest

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/gdax/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0600
)

// Run executes the complete load run and returns its statistics.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	log := logger.Named("loadtest")
	stats := &Stats{StartTime: time.Now()}

	log.Info(ctx, "starting survey load run",
		logger.String("baseURL", config.BaseURL),
		logger.Int("surveys", config.NumSurveys),
		logger.Float64("duplicateRate", config.DuplicateRate),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()))

	if err := checkServiceHealth(ctx, config); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	surveys, err := generateSurveys(ctx, config.NumSurveys, stats)
	if err != nil {
		return stats, fmt.Errorf("survey generation failed: %w", err)
	}

	submitSurveys(ctx, config, surveys, stats)
	if err := resubmitSurveys(ctx, config, surveys, duplicateCount(config.NumSurveys, config.DuplicateRate), stats); err != nil {
		return stats, fmt.Errorf("duplicate check failed: %w", err)
	}

	if err := verifyReports(ctx, config, surveys, stats); err != nil {
		return stats, fmt.Errorf("report verification failed: %w", err)
	}
	if err := verifyStats(ctx, config, stats); err != nil {
		return stats, fmt.Errorf("stats verification failed: %w", err)
	}

	if config.OutputFile != "" {
		if err := saveSurveysToFile(ctx, config.OutputFile, surveys); err != nil {
			log.Warn(ctx, "failed to save surveys to file", logger.Error(err))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(ctx, stats)
	return stats, nil
}

func duplicateCount(n int, rate float64) int {
	if rate <= 0 {
		return 0
	}
	return int(math.Ceil(float64(n) * math.Min(rate, 1)))
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	resp, err := newHTTPClient(config.Timeout).Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}
	logger.Named("loadtest").Info(ctx, "service is healthy")
	return nil
}

// saveSurveysToFile writes the generated surveys as a JSON array.
func saveSurveysToFile(ctx context.Context, filename string, surveys []Survey) error {
	if len(surveys) == 0 {
		return fmt.Errorf("no surveys to save")
	}
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(surveys, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal surveys: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	logger.Named("loadtest").Info(ctx, "surveys saved to file", logger.String("filename", filename))
	return nil
}

func displayFinalStats(ctx context.Context, stats *Stats) {
	var successRate, surveysPerSecond float64
	if stats.SurveysSubmitted > 0 {
		successRate = float64(stats.SurveysSuccessful) / float64(stats.SurveysSubmitted) * PercentageMultiplier
	}
	if stats.Duration > 0 {
		surveysPerSecond = float64(stats.SurveysSubmitted) / stats.Duration.Seconds()
	}

	logger.Named("loadtest").Info(ctx, "final statistics",
		logger.Int("surveysGenerated", stats.SurveysGenerated),
		logger.Int("surveysSubmitted", stats.SurveysSubmitted),
		logger.Int("surveysSuccessful", stats.SurveysSuccessful),
		logger.Int("surveysDuplicate", stats.SurveysDuplicate),
		logger.Int("surveysFailed", stats.SurveysFailed),
		logger.Int("reportsRetrieved", stats.ReportsRetrieved),
		logger.Int("reportsMismatched", stats.ReportsMismatched),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("surveysPerSecond", surveysPerSecond))
}
