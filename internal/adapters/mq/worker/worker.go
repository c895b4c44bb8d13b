// Package worker generates reports for queued jobs and hands them to the
// notifier.
package worker

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/okian/gdax/internal/adapters/mq/queue"
	"github.com/okian/gdax/internal/adapters/notify"
	"github.com/okian/gdax/internal/domain/diagnosis"
	"github.com/okian/gdax/internal/domain/model"
	"github.com/okian/gdax/pkg/logger"
	"github.com/okian/gdax/pkg/metrics"
)

const (
	defaultWorkerCount  = 4
	defaultBaseURL      = "http://localhost:9080"
	poolShutdownTimeout = 30 * time.Second
	workerStopTimeout   = 5 * time.Second
)

// Store is the part of the survey repository workers need.
type Store interface {
	Get(ctx context.Context, id int64) (model.SurveyResponse, error)
	MarkReportGenerated(ctx context.Context, id int64) error
	MarkReportSent(ctx context.Context, id int64) error
}

// Generator builds reports. *diagnosis.Engine satisfies it.
type Generator interface {
	GenerateReport(s model.SurveyResponse) (diagnosis.Report, error)
	RegenerateReport(s model.SurveyResponse) (diagnosis.Report, error)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes report jobs.
type Worker interface {
	// Run starts the worker loop until ctx is canceled or the queue is
	// closed and drained.
	Run(ctx context.Context)

	// Shutdown stops the worker without draining.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue     Queue
	store     Store
	generator Generator
	notifier  notify.Notifier
	name      string
	baseURL   string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker with configuration options.
func NewInMemoryWorker(q Queue, store Store, generator Generator, notifier notify.Notifier, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:     q,
		store:     store,
		generator: generator,
		notifier:  notifier,
		name:      "worker",
		baseURL:   defaultBaseURL,
		shutdown:  make(chan struct{}),
		done:      make(chan struct{}),
		logger:    logger.Get().Named("worker"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "worker" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.Process(ctx, job); err != nil {
				w.logger.Error(ctx, "report job failed",
					logger.String("job_id", job.ID),
					logger.Int64("survey_id", job.SurveyID),
					logger.Error(err),
				)
			}
		}
	}
}

// Shutdown stops the worker and waits for the current job.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Process generates the report for one job, marks it generated, notifies
// the contact and marks it sent. A failure at any step stops the job.
func (w *InMemoryWorker) Process(ctx context.Context, job queue.Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	survey, err := w.store.Get(ctx, job.SurveyID)
	if err != nil {
		metrics.RecordNotificationFailed("load")
		return fmt.Errorf("load survey %d: %w", job.SurveyID, err)
	}

	var report diagnosis.Report
	if job.Mode == model.ReportModeResend {
		report, err = w.generator.RegenerateReport(survey)
	} else {
		report, err = w.generator.GenerateReport(survey)
	}
	if err != nil {
		if errors.Is(err, diagnosis.ErrInvalidSurvey) {
			metrics.RecordValidationFailure()
		}
		metrics.RecordNotificationFailed("generate")
		return fmt.Errorf("generate report %d: %w", job.SurveyID, err)
	}
	metrics.RecordReport(string(report.DiagnosisType.Kind), string(job.Mode), issueLabels(report)...)

	if err := w.store.MarkReportGenerated(ctx, job.SurveyID); err != nil {
		metrics.RecordNotificationFailed("mark_generated")
		return fmt.Errorf("mark report %d generated: %w", job.SurveyID, err)
	}

	msg := notify.NewMessage(report, w.baseURL, job.Mode == model.ReportModeResend)
	if err := w.notifier.Notify(ctx, msg); err != nil {
		metrics.RecordNotificationFailed("notify")
		return fmt.Errorf("notify survey %d: %w", job.SurveyID, err)
	}

	if err := w.store.MarkReportSent(ctx, job.SurveyID); err != nil {
		metrics.RecordNotificationFailed("mark_sent")
		return fmt.Errorf("mark report %d sent: %w", job.SurveyID, err)
	}

	metrics.RecordNotificationSent(string(job.Mode))
	w.logger.Info(ctx, "report sent",
		logger.String("job_id", job.ID),
		logger.Int64("survey_id", job.SurveyID),
		logger.String("mode", string(job.Mode)),
		logger.String("diagnosis_type", string(report.DiagnosisType.Kind)),
	)
	return nil
}

func issueLabels(report diagnosis.Report) []metrics.IssueLabels {
	out := make([]metrics.IssueLabels, 0, len(report.EmploymentMessages))
	for _, issue := range report.EmploymentMessages {
		out = append(out, metrics.IssueLabels{Kind: string(issue.Kind), Severity: string(issue.Severity)})
	}
	return out
}

// Pool manages multiple workers.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue
	wg      sync.WaitGroup
	logger  logger.Logger
}

// NewPool creates workerCount workers sharing the same dependencies.
func NewPool(workerCount int, q Queue, store Store, generator Generator, notifier notify.Notifier, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = defaultWorkerCount
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  logger.Get().Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		workerOpts := append([]Option{WithName("worker-" + strconv.Itoa(i))}, opts...)
		pool.workers[i] = NewInMemoryWorker(q, store, generator, notifier, workerOpts...)
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int {
	return len(p.workers)
}

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		p.wg.Add(1)
		go func(w *InMemoryWorker) {
			defer p.wg.Done()
			w.Run(ctx)
		}(w)
	}
}

// Shutdown closes the queue and lets workers drain it. Workers still busy
// when ctx (or poolShutdownTimeout) expires are stopped.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	drained := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(drained)
	}()

	select {
	case <-drained:
		return nil
	case <-shutdownCtx.Done():
		p.logger.Warn(ctx, "worker pool drain timed out, stopping workers")
	}

	stopCtx, stopCancel := context.WithTimeout(context.WithoutCancel(ctx), workerStopTimeout)
	defer stopCancel()

	var errs []error
	for i, w := range p.workers {
		if err := w.Shutdown(stopCtx); err != nil {
			errs = append(errs, fmt.Errorf("worker %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}
