// Package repository persists survey responses.
package repository

import (
	"context"

	"github.com/okian/gdax/internal/domain/model"
)

// Store provides read/write access to submitted surveys.
type Store interface {
	// Create stores s and returns its new id. CreatedAt is stamped by the store.
	Create(ctx context.Context, s model.SurveyResponse) (int64, error)

	// Get returns one survey. Returns ErrNotFound if id is unknown.
	Get(ctx context.Context, id int64) (model.SurveyResponse, error)

	// List returns up to limit surveys, newest first.
	List(ctx context.Context, limit int) ([]model.SurveySummary, error)

	// MarkReportGenerated and MarkReportSent flip the report flags.
	// Both return ErrNotFound if id is unknown.
	MarkReportGenerated(ctx context.Context, id int64) error
	MarkReportSent(ctx context.Context, id int64) error

	// Stats counts surveys, consulting applications and report flags.
	Stats(ctx context.Context) (model.Stats, error)

	Close() error
}
