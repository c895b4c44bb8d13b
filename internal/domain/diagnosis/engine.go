package diagnosis

import (
	"time"

	"github.com/okian/gdax/internal/domain/model"
)

// Engine runs the whole pipeline for one survey. It holds no mutable state
// and is safe for concurrent use.
type Engine struct {
	now func() time.Time
	loc *time.Location
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// WithLocation sets the zone diagnosis dates are rendered in.
func WithLocation(loc *time.Location) EngineOption {
	return func(e *Engine) {
		if loc != nil {
			e.loc = loc
		}
	}
}

// NewEngine returns an Engine rendering dates in KST unless told otherwise.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		now: time.Now,
		loc: time.FixedZone("KST", 9*60*60),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// GenerateReport diagnoses s and stamps today's date. A nil error means the
// report is complete and the survey may be marked as generated.
func (e *Engine) GenerateReport(s model.SurveyResponse) (Report, error) {
	return e.generate(s, e.now())
}

// RegenerateReport is GenerateReport for the resend path: the date is the
// survey's submission date, so a resent report may differ from the first one.
func (e *Engine) RegenerateReport(s model.SurveyResponse) (Report, error) {
	date := s.CreatedAt
	if date.IsZero() {
		date = e.now()
	}
	return e.generate(s, date)
}

func (e *Engine) generate(s model.SurveyResponse, date time.Time) (Report, error) {
	if err := Validate(s); err != nil {
		return Report{}, err
	}

	scores := Aggregate(s)
	dt := Classify(scores.ClimateRiskPercent, scores.DigitalUrgencyPercent)
	issues := DetectIssues(s)
	solutions := Match(scores.ClimateRiskPercent, scores.DigitalUrgencyPercent, issues)

	return Assemble(s, scores, dt, issues, solutions, date.In(e.loc)), nil
}
