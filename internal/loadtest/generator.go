package loadtest

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/google/uuid"
	"github.com/okian/gdax/internal/domain/diagnosis"
	"github.com/okian/gdax/internal/domain/model"
	"github.com/okian/gdax/pkg/logger"
)

var employeeBands = []string{"10인 미만", "10~29인", "30~49인", "50~99인", "100~299인", "300인 이상"}

var supportAreas = []string{
	"사업재편 전략 수립",
	"직무 분석 및 인력 재배치 설계",
	"재직자 직무 전환 교육훈련",
	"고용안정 장려금 및 인건비 지원 신청",
	"스마트공장/설비 도입 자금 연계",
	"노사 상생 협약 및 조직문화 개선",
}

// randomInt returns a uniform integer in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

func likert() int {
	return diagnosis.MinAnswer + randomInt(diagnosis.MaxAnswer-diagnosis.MinAnswer+1)
}

// generateSurveys creates n surveys with random answers and unique keys.
func generateSurveys(ctx context.Context, n int, stats *Stats) ([]Survey, error) {
	logger.Named("loadtest").Info(ctx, "generating surveys", logger.Int("count", n))

	surveys := make([]Survey, n)
	for i := range surveys {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled during survey generation: %w", err)
		}
		surveys[i] = generateSurvey(i)
	}
	stats.SurveysGenerated = len(surveys)
	return surveys, nil
}

func generateSurvey(index int) Survey {
	areas := make([]string, 0, len(supportAreas))
	for _, a := range supportAreas {
		if randomInt(2) == 1 {
			areas = append(areas, a)
		}
	}

	return Survey{
		SubmissionKey: uuid.NewString(),
		Response: model.SurveyResponse{
			CompanyName:   fmt.Sprintf("부하시험 %05d", index),
			CEOName:       "대표자",
			Location:      "경기도",
			MainProduct:   "자동차 부품",
			EmployeeCount: employeeBands[randomInt(len(employeeBands))],
			AnnualRevenue: float64(randomInt(10_000)) / 10,
			Answers: model.Answers{
				ClimateRisk1:      likert(),
				ClimateRisk2:      likert(),
				ClimateRisk3:      likert(),
				DigitalUrgency1:   likert(),
				DigitalUrgency2:   likert(),
				DigitalUrgency3:   likert(),
				EmploymentStatus1: likert(),
				EmploymentStatus2: likert(),
				EmploymentStatus3: likert(),
				EmploymentStatus4: likert(),
				ReadinessLevel:    likert(),
			},
			SupportAreas:          areas,
			ConsultingApplication: randomInt(2) == 1,
			Contact: model.Contact{
				Name:  "담당자",
				Email: fmt.Sprintf("load-%05d@example.com", index),
				Phone: "010-0000-0000",
			},
		},
	}
}

// formBody flattens a survey into the POST /api/survey body.
func formBody(s Survey) map[string]any {
	r := s.Response
	a := r.Answers
	return map[string]any{
		"submission_key":         s.SubmissionKey,
		"company_name":           r.CompanyName,
		"ceo_name":               r.CEOName,
		"location":               r.Location,
		"main_product":           r.MainProduct,
		"employee_count":         r.EmployeeCount,
		"annual_revenue":         r.AnnualRevenue,
		"climate_risk_1":         a.ClimateRisk1,
		"climate_risk_2":         a.ClimateRisk2,
		"climate_risk_3":         a.ClimateRisk3,
		"digital_urgency_1":      a.DigitalUrgency1,
		"digital_urgency_2":      a.DigitalUrgency2,
		"digital_urgency_3":      a.DigitalUrgency3,
		"employment_status_1":    a.EmploymentStatus1,
		"employment_status_2":    a.EmploymentStatus2,
		"employment_status_3":    a.EmploymentStatus3,
		"employment_status_4":    a.EmploymentStatus4,
		"readiness_level":        a.ReadinessLevel,
		"support_areas":          r.SupportAreas,
		"consulting_application": r.ConsultingApplication,
		"contact_name":           r.Contact.Name,
		"contact_position":       r.Contact.Position,
		"contact_email":          r.Contact.Email,
		"contact_phone":          r.Contact.Phone,
	}
}
