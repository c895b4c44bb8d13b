package diagnosis_test

import (
	"time"

	"github.com/okian/gdax/internal/domain/model"
)

func survey(climate [3]int, digital [3]int, employment [4]int, readiness int) model.SurveyResponse {
	return model.SurveyResponse{
		ID:            42,
		CompanyName:   "한빛정밀",
		CEOName:       "김대표",
		Location:      "경남 창원",
		MainProduct:   "자동차 부품",
		EmployeeCount: "50-99",
		AnnualRevenue: 120,
		Answers: model.Answers{
			ClimateRisk1:      climate[0],
			ClimateRisk2:      climate[1],
			ClimateRisk3:      climate[2],
			DigitalUrgency1:   digital[0],
			DigitalUrgency2:   digital[1],
			DigitalUrgency3:   digital[2],
			EmploymentStatus1: employment[0],
			EmploymentStatus2: employment[1],
			EmploymentStatus3: employment[2],
			EmploymentStatus4: employment[3],
			ReadinessLevel:    readiness,
		},
		SupportAreas:          []string{"훈련", "컨설팅"},
		ConsultingApplication: true,
		Contact:               model.Contact{Name: "이담당", Position: "팀장", Email: "hr@example.com", Phone: "010-0000-0000"},
		CreatedAt:             time.Date(2025, 3, 4, 10, 0, 0, 0, time.UTC),
	}
}

// forEachAxisTriple calls fn with every valid three-answer combination.
func forEachAxisTriple(fn func([3]int)) {
	for a := 1; a <= 5; a++ {
		for b := 1; b <= 5; b++ {
			for c := 1; c <= 5; c++ {
				fn([3]int{a, b, c})
			}
		}
	}
}
