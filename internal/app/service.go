// Package service wires the survey store, the diagnosis engine and the
// notification pipeline into the operations the HTTP API exposes.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	reportqueue "github.com/okian/gdax/internal/adapters/mq/queue"
	workerpool "github.com/okian/gdax/internal/adapters/mq/worker"
	"github.com/okian/gdax/internal/adapters/notify"
	"github.com/okian/gdax/internal/adapters/repository"
	"github.com/okian/gdax/internal/domain/dedupe"
	"github.com/okian/gdax/internal/domain/diagnosis"
	"github.com/okian/gdax/internal/domain/model"
	"github.com/okian/gdax/pkg/logger"
	"github.com/okian/gdax/pkg/metrics"
)

const defaultListLimit = 100

// Service implements the API dependencies for the diagnosis system.
type Service struct {
	mu sync.RWMutex

	store    repository.Store
	engine   *diagnosis.Engine
	notifier notify.Notifier
	deduper  dedupe.Deduper
	queue    *reportqueue.InMemoryQueue
	pool     *workerpool.Pool

	workerCount  int
	queueSize    int
	dedupeSize   int
	maxListLimit int
	baseURL      string

	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of notification workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets how many report jobs may wait.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many submission keys are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxListLimit caps ListSurveys.
func WithMaxListLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.maxListLimit = limit
		}
	}
}

// WithBaseURL sets the public URL used in report links.
func WithBaseURL(baseURL string) Option {
	return func(s *Service) {
		if baseURL != "" {
			s.baseURL = baseURL
		}
	}
}

// WithEngine replaces the default diagnosis engine.
func WithEngine(engine *diagnosis.Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.engine = engine
		}
	}
}

// WithNotifier replaces the log notifier.
func WithNotifier(n notify.Notifier) Option {
	return func(s *Service) {
		if n != nil {
			s.notifier = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service around store.
func New(store repository.Store, opts ...Option) *Service {
	s := &Service{
		store:        store,
		workerCount:  4,
		queueSize:    1000,
		dedupeSize:   10000,
		maxListLimit: 500,
		baseURL:      "http://localhost:9080",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the pipeline and starts the workers. Workers outlive ctx's
// deadline; they stop on Stop.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		return errors.New("service: nil store")
	}
	if s.logger == nil {
		s.logger = logger.Named("service")
	}
	if s.engine == nil {
		s.engine = diagnosis.NewEngine()
	}
	if s.notifier == nil {
		s.notifier = notify.NewLogNotifier()
	}

	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = reportqueue.NewInMemoryQueue(reportqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.store, s.engine, s.notifier,
		workerpool.WithBaseURL(s.baseURL))

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "diagnosis service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
	)
	return nil
}

// Stop drains queued report jobs and stops the workers.
func (s *Service) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}
	s.logger.Info(ctx, "stopping diagnosis service...")

	err := s.pool.Shutdown(ctx)
	s.cancel()
	s.started = false

	s.logger.Info(ctx, "diagnosis service stopped")
	return err
}

// SubmitSurvey stores a survey and queues its first report. A non-empty
// submissionKey makes the call idempotent: the same key is accepted once.
func (s *Service) SubmitSurvey(ctx context.Context, in model.SurveyResponse, submissionKey string) (int64, error) {
	if err := s.ensureStarted(); err != nil {
		return 0, err
	}
	if err := diagnosis.Validate(in); err != nil {
		metrics.RecordValidationFailure()
		return 0, err
	}

	if submissionKey != "" && s.deduper.SeenAndRecord(ctx, submissionKey) {
		metrics.RecordSurveyDuplicate()
		return 0, fmt.Errorf("submission %q: %w", submissionKey, ErrDuplicateSubmission)
	}

	id, err := s.store.Create(ctx, in)
	if err != nil {
		if submissionKey != "" {
			s.deduper.Unrecord(ctx, submissionKey)
		}
		return 0, err
	}
	metrics.RecordSurveySubmitted()
	s.logger.Info(ctx, "survey submitted",
		logger.Int64("survey_id", id),
		logger.String("company", in.CompanyName),
		logger.Bool("consulting", in.ConsultingApplication),
	)

	// The survey is stored either way; a dropped job can be resent later.
	if err := s.enqueue(ctx, id, model.ReportModeInitial); err != nil {
		s.logger.Warn(ctx, "initial report not queued", logger.Int64("survey_id", id), logger.Error(err))
	}
	return id, nil
}

// Survey returns one stored survey.
func (s *Service) Survey(ctx context.Context, id int64) (model.SurveyResponse, error) {
	return s.store.Get(ctx, id)
}

// ListSurveys returns the newest surveys. limit <= 0 selects the default;
// larger values are capped at the configured maximum.
func (s *Service) ListSurveys(ctx context.Context, limit int) ([]model.SurveySummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > s.maxListLimit {
		limit = s.maxListLimit
	}
	return s.store.List(ctx, limit)
}

// Report generates the report of a stored survey and marks it generated.
func (s *Service) Report(ctx context.Context, id int64) (diagnosis.Report, error) {
	start := time.Now()
	defer func() {
		metrics.RecordReportLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	engine := s.currentEngine()
	survey, err := s.store.Get(ctx, id)
	if err != nil {
		return diagnosis.Report{}, err
	}

	report, err := engine.GenerateReport(survey)
	if err != nil {
		if errors.Is(err, diagnosis.ErrInvalidSurvey) {
			metrics.RecordValidationFailure()
		}
		return diagnosis.Report{}, err
	}
	issues := make([]metrics.IssueLabels, 0, len(report.EmploymentMessages))
	for _, issue := range report.EmploymentMessages {
		issues = append(issues, metrics.IssueLabels{Kind: string(issue.Kind), Severity: string(issue.Severity)})
	}
	metrics.RecordReport(string(report.DiagnosisType.Kind), "view", issues...)

	if err := s.store.MarkReportGenerated(ctx, id); err != nil {
		return diagnosis.Report{}, fmt.Errorf("mark report %d generated: %w", id, err)
	}
	return report, nil
}

// ResendReport queues a resend of a stored survey's report and returns the
// job id.
func (s *Service) ResendReport(ctx context.Context, id int64) (string, error) {
	if err := s.ensureStarted(); err != nil {
		return "", err
	}
	if _, err := s.store.Get(ctx, id); err != nil {
		return "", err
	}
	return s.enqueueWithID(ctx, id, model.ReportModeResend)
}

// Stats returns the admin counters.
func (s *Service) Stats(ctx context.Context) (model.Stats, error) {
	return s.store.Stats(ctx)
}

// GetStats returns runtime statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)
	goroutines := runtime.NumGoroutine()
	metrics.UpdateSystemMemoryUsage(mem.HeapAlloc)
	metrics.UpdateSystemGoroutineCount(goroutines)

	stats := map[string]interface{}{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"dedupeSize":  s.dedupeSize,
		"goroutines":  goroutines,
		"heapAlloc":   mem.HeapAlloc,
	}
	if s.started {
		stats["queueLength"] = s.queue.Len()
		stats["dedupeEntries"] = s.deduper.Size()
		metrics.UpdateQueueSize(s.queue.Len())
	}
	return stats
}

func (s *Service) enqueue(ctx context.Context, id int64, mode model.ReportMode) error {
	_, err := s.enqueueWithID(ctx, id, mode)
	return err
}

func (s *Service) enqueueWithID(ctx context.Context, id int64, mode model.ReportMode) (string, error) {
	job := model.ReportJob{
		ID:         uuid.NewString(),
		SurveyID:   id,
		Mode:       mode,
		EnqueuedAt: time.Now(),
	}
	if err := s.queue.Enqueue(ctx, job); err != nil {
		if errors.Is(err, reportqueue.ErrQueueFull) {
			return "", fmt.Errorf("survey %d: %w", id, ErrBackpressure)
		}
		return "", err
	}
	return job.ID, nil
}

func (s *Service) ensureStarted() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}

func (s *Service) currentEngine() *diagnosis.Engine {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.engine == nil {
		return diagnosis.NewEngine()
	}
	return s.engine
}
