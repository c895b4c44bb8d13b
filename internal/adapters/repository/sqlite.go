package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/okian/gdax/internal/domain/model"
	"github.com/okian/gdax/pkg/metrics"
)

const surveySchema = `
CREATE TABLE IF NOT EXISTS survey_responses (
	id                     INTEGER PRIMARY KEY AUTOINCREMENT,
	company_name           TEXT NOT NULL DEFAULT '',
	ceo_name               TEXT NOT NULL DEFAULT '',
	location               TEXT NOT NULL DEFAULT '',
	main_product           TEXT NOT NULL DEFAULT '',
	employee_count         TEXT NOT NULL DEFAULT '',
	annual_revenue         REAL NOT NULL DEFAULT 0,
	climate_risk_1         INTEGER NOT NULL DEFAULT 0,
	climate_risk_2         INTEGER NOT NULL DEFAULT 0,
	climate_risk_3         INTEGER NOT NULL DEFAULT 0,
	digital_urgency_1      INTEGER NOT NULL DEFAULT 0,
	digital_urgency_2      INTEGER NOT NULL DEFAULT 0,
	digital_urgency_3      INTEGER NOT NULL DEFAULT 0,
	employment_status_1    INTEGER NOT NULL DEFAULT 0,
	employment_status_2    INTEGER NOT NULL DEFAULT 0,
	employment_status_3    INTEGER NOT NULL DEFAULT 0,
	employment_status_4    INTEGER NOT NULL DEFAULT 0,
	readiness_level        INTEGER NOT NULL DEFAULT 0,
	support_areas          TEXT NOT NULL DEFAULT '[]',
	consulting_application INTEGER NOT NULL DEFAULT 0,
	contact_name           TEXT NOT NULL DEFAULT '',
	contact_position       TEXT NOT NULL DEFAULT '',
	contact_email          TEXT NOT NULL DEFAULT '',
	contact_phone          TEXT NOT NULL DEFAULT '',
	report_generated       INTEGER NOT NULL DEFAULT 0,
	report_sent            INTEGER NOT NULL DEFAULT 0,
	created_at             TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_survey_responses_created_at ON survey_responses (created_at);
`

// createdAtLayout is fixed-width so created_at sorts lexically.
const createdAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

const surveyColumns = `id, company_name, ceo_name, location, main_product, employee_count, annual_revenue,
	climate_risk_1, climate_risk_2, climate_risk_3,
	digital_urgency_1, digital_urgency_2, digital_urgency_3,
	employment_status_1, employment_status_2, employment_status_3, employment_status_4,
	readiness_level, support_areas, consulting_application,
	contact_name, contact_position, contact_email, contact_phone,
	report_generated, report_sent, created_at`

// surveyRow is the on-disk shape of a survey.
type surveyRow struct {
	ID                    int64   `db:"id"`
	CompanyName           string  `db:"company_name"`
	CEOName               string  `db:"ceo_name"`
	Location              string  `db:"location"`
	MainProduct           string  `db:"main_product"`
	EmployeeCount         string  `db:"employee_count"`
	AnnualRevenue         float64 `db:"annual_revenue"`
	ClimateRisk1          int     `db:"climate_risk_1"`
	ClimateRisk2          int     `db:"climate_risk_2"`
	ClimateRisk3          int     `db:"climate_risk_3"`
	DigitalUrgency1       int     `db:"digital_urgency_1"`
	DigitalUrgency2       int     `db:"digital_urgency_2"`
	DigitalUrgency3       int     `db:"digital_urgency_3"`
	EmploymentStatus1     int     `db:"employment_status_1"`
	EmploymentStatus2     int     `db:"employment_status_2"`
	EmploymentStatus3     int     `db:"employment_status_3"`
	EmploymentStatus4     int     `db:"employment_status_4"`
	ReadinessLevel        int     `db:"readiness_level"`
	SupportAreas          string  `db:"support_areas"`
	ConsultingApplication bool    `db:"consulting_application"`
	ContactName           string  `db:"contact_name"`
	ContactPosition       string  `db:"contact_position"`
	ContactEmail          string  `db:"contact_email"`
	ContactPhone          string  `db:"contact_phone"`
	ReportGenerated       bool    `db:"report_generated"`
	ReportSent            bool    `db:"report_sent"`
	CreatedAt             string  `db:"created_at"`
}

type summaryRow struct {
	ID                    int64  `db:"id"`
	CompanyName           string `db:"company_name"`
	CEOName               string `db:"ceo_name"`
	ContactEmail          string `db:"contact_email"`
	ContactPhone          string `db:"contact_phone"`
	ConsultingApplication bool   `db:"consulting_application"`
	ReportSent            bool   `db:"report_sent"`
	CreatedAt             string `db:"created_at"`
}

type statsRow struct {
	TotalSurveys           int `db:"total_surveys"`
	ConsultingApplications int `db:"consulting_applications"`
	ReportsGenerated       int `db:"reports_generated"`
	ReportsSent            int `db:"reports_sent"`
}

// SQLiteStore implements Store on a single SQLite file.
type SQLiteStore struct {
	db          *sqlx.DB
	now         func() time.Time
	busyTimeout time.Duration
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore opens (or creates) the database at dbPath and applies the schema.
func NewSQLiteStore(ctx context.Context, dbPath string, opts ...Option) (*SQLiteStore, error) {
	s := &SQLiteStore{
		now:         time.Now,
		busyTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(wal)&_pragma=busy_timeout(%d)", dbPath, s.busyTimeout.Milliseconds())
	db, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, surveySchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	s.db = db
	return s, nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Create(ctx context.Context, in model.SurveyResponse) (id int64, err error) {
	defer s.observe("create", time.Now(), &err)

	areas := in.SupportAreas
	if areas == nil {
		areas = []string{}
	}
	areasJSON, err := json.Marshal(areas)
	if err != nil {
		return 0, fmt.Errorf("encode support areas: %w", err)
	}

	row := surveyRow{
		CompanyName:           in.CompanyName,
		CEOName:               in.CEOName,
		Location:              in.Location,
		MainProduct:           in.MainProduct,
		EmployeeCount:         in.EmployeeCount,
		AnnualRevenue:         in.AnnualRevenue,
		ClimateRisk1:          in.Answers.ClimateRisk1,
		ClimateRisk2:          in.Answers.ClimateRisk2,
		ClimateRisk3:          in.Answers.ClimateRisk3,
		DigitalUrgency1:       in.Answers.DigitalUrgency1,
		DigitalUrgency2:       in.Answers.DigitalUrgency2,
		DigitalUrgency3:       in.Answers.DigitalUrgency3,
		EmploymentStatus1:     in.Answers.EmploymentStatus1,
		EmploymentStatus2:     in.Answers.EmploymentStatus2,
		EmploymentStatus3:     in.Answers.EmploymentStatus3,
		EmploymentStatus4:     in.Answers.EmploymentStatus4,
		ReadinessLevel:        in.Answers.ReadinessLevel,
		SupportAreas:          string(areasJSON),
		ConsultingApplication: in.ConsultingApplication,
		ContactName:           in.Contact.Name,
		ContactPosition:       in.Contact.Position,
		ContactEmail:          in.Contact.Email,
		ContactPhone:          in.Contact.Phone,
		CreatedAt:             s.now().UTC().Format(createdAtLayout),
	}

	res, err := s.db.NamedExecContext(ctx, `INSERT INTO survey_responses (
		company_name, ceo_name, location, main_product, employee_count, annual_revenue,
		climate_risk_1, climate_risk_2, climate_risk_3,
		digital_urgency_1, digital_urgency_2, digital_urgency_3,
		employment_status_1, employment_status_2, employment_status_3, employment_status_4,
		readiness_level, support_areas, consulting_application,
		contact_name, contact_position, contact_email, contact_phone, created_at
	) VALUES (
		:company_name, :ceo_name, :location, :main_product, :employee_count, :annual_revenue,
		:climate_risk_1, :climate_risk_2, :climate_risk_3,
		:digital_urgency_1, :digital_urgency_2, :digital_urgency_3,
		:employment_status_1, :employment_status_2, :employment_status_3, :employment_status_4,
		:readiness_level, :support_areas, :consulting_application,
		:contact_name, :contact_position, :contact_email, :contact_phone, :created_at
	)`, row)
	if err != nil {
		return 0, fmt.Errorf("insert survey: %w", err)
	}
	id, err = res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("insert survey: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id int64) (out model.SurveyResponse, err error) {
	defer s.observe("get", time.Now(), &err)

	var row surveyRow
	err = s.db.GetContext(ctx, &row, `SELECT `+surveyColumns+` FROM survey_responses WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return model.SurveyResponse{}, fmt.Errorf("survey %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.SurveyResponse{}, fmt.Errorf("select survey %d: %w", id, err)
	}
	return row.toModel()
}

func (s *SQLiteStore) List(ctx context.Context, limit int) (out []model.SurveySummary, err error) {
	defer s.observe("list", time.Now(), &err)

	if limit <= 0 {
		return nil, fmt.Errorf("limit %d: %w", limit, ErrInvalidLimit)
	}

	var rows []summaryRow
	err = s.db.SelectContext(ctx, &rows, `SELECT id, company_name, ceo_name, contact_email, contact_phone,
		consulting_application, report_sent, created_at
		FROM survey_responses ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list surveys: %w", err)
	}

	out = make([]model.SurveySummary, 0, len(rows))
	for _, r := range rows {
		createdAt, err := time.Parse(createdAtLayout, r.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("decode created_at of survey %d: %w", r.ID, err)
		}
		out = append(out, model.SurveySummary{
			ID:                    r.ID,
			CompanyName:           r.CompanyName,
			CEOName:               r.CEOName,
			ContactEmail:          r.ContactEmail,
			ContactPhone:          r.ContactPhone,
			ConsultingApplication: r.ConsultingApplication,
			ReportSent:            r.ReportSent,
			CreatedAt:             createdAt,
		})
	}
	return out, nil
}

func (s *SQLiteStore) MarkReportGenerated(ctx context.Context, id int64) (err error) {
	defer s.observe("mark_generated", time.Now(), &err)
	return s.setFlag(ctx, id, `UPDATE survey_responses SET report_generated = 1 WHERE id = ?`)
}

func (s *SQLiteStore) MarkReportSent(ctx context.Context, id int64) (err error) {
	defer s.observe("mark_sent", time.Now(), &err)
	return s.setFlag(ctx, id, `UPDATE survey_responses SET report_sent = 1 WHERE id = ?`)
}

func (s *SQLiteStore) setFlag(ctx context.Context, id int64, query string) error {
	res, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("update survey %d: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update survey %d: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("survey %d: %w", id, ErrNotFound)
	}
	return nil
}

func (s *SQLiteStore) Stats(ctx context.Context) (out model.Stats, err error) {
	defer s.observe("stats", time.Now(), &err)

	var row statsRow
	err = s.db.GetContext(ctx, &row, `SELECT
		COUNT(*) AS total_surveys,
		COALESCE(SUM(consulting_application), 0) AS consulting_applications,
		COALESCE(SUM(report_generated), 0) AS reports_generated,
		COALESCE(SUM(report_sent), 0) AS reports_sent
		FROM survey_responses`)
	if err != nil {
		return model.Stats{}, fmt.Errorf("survey stats: %w", err)
	}
	return model.Stats{
		TotalSurveys:           row.TotalSurveys,
		ConsultingApplications: row.ConsultingApplications,
		ReportsGenerated:       row.ReportsGenerated,
		ReportsSent:            row.ReportsSent,
	}, nil
}

// observe records latency for op and counts it as failed unless *err is nil
// or a not-found miss.
func (s *SQLiteStore) observe(op string, start time.Time, err *error) {
	metrics.RecordStoreQueryLatency(op, float64(time.Since(start).Microseconds())/1000)
	if *err != nil && !errors.Is(*err, ErrNotFound) {
		metrics.RecordStoreError(op)
	}
}

func (r surveyRow) toModel() (model.SurveyResponse, error) {
	var areas []string
	if err := json.Unmarshal([]byte(r.SupportAreas), &areas); err != nil {
		return model.SurveyResponse{}, fmt.Errorf("decode support areas of survey %d: %w", r.ID, err)
	}
	createdAt, err := time.Parse(createdAtLayout, r.CreatedAt)
	if err != nil {
		return model.SurveyResponse{}, fmt.Errorf("decode created_at of survey %d: %w", r.ID, err)
	}

	return model.SurveyResponse{
		ID:            r.ID,
		CompanyName:   r.CompanyName,
		CEOName:       r.CEOName,
		Location:      r.Location,
		MainProduct:   r.MainProduct,
		EmployeeCount: r.EmployeeCount,
		AnnualRevenue: r.AnnualRevenue,
		Answers: model.Answers{
			ClimateRisk1:      r.ClimateRisk1,
			ClimateRisk2:      r.ClimateRisk2,
			ClimateRisk3:      r.ClimateRisk3,
			DigitalUrgency1:   r.DigitalUrgency1,
			DigitalUrgency2:   r.DigitalUrgency2,
			DigitalUrgency3:   r.DigitalUrgency3,
			EmploymentStatus1: r.EmploymentStatus1,
			EmploymentStatus2: r.EmploymentStatus2,
			EmploymentStatus3: r.EmploymentStatus3,
			EmploymentStatus4: r.EmploymentStatus4,
			ReadinessLevel:    r.ReadinessLevel,
		},
		SupportAreas:          areas,
		ConsultingApplication: r.ConsultingApplication,
		Contact: model.Contact{
			Name:     r.ContactName,
			Position: r.ContactPosition,
			Email:    r.ContactEmail,
			Phone:    r.ContactPhone,
		},
		ReportGenerated: r.ReportGenerated,
		ReportSent:      r.ReportSent,
		CreatedAt:       createdAt,
	}, nil
}
