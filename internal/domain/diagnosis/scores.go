package diagnosis

import (
	"strconv"

	"github.com/okian/gdax/internal/domain/model"
)

// ScoreSet holds the dimension scores of one survey. Means are not rounded.
type ScoreSet struct {
	Climate    float64 `json:"climate"`
	Digital    float64 `json:"digital"`
	Employment float64 `json:"employment"`
	Readiness  float64 `json:"readiness"`

	ClimateTotal int `json:"climate_total"`
	DigitalTotal int `json:"digital_total"`

	ClimateRiskPercent    float64 `json:"climate_risk_percent"`
	DigitalUrgencyPercent float64 `json:"digital_urgency_percent"`
}

// Aggregate reduces the raw answers to dimension scores and the two
// classification axes.
func Aggregate(s model.SurveyResponse) ScoreSet {
	climate := s.Answers.Climate()
	digital := s.Answers.Digital()
	employment := s.Answers.Employment()

	climateTotal := sum(climate[:])
	digitalTotal := sum(digital[:])
	employmentTotal := sum(employment[:])

	return ScoreSet{
		Climate:               float64(climateTotal) / float64(len(climate)),
		Digital:               float64(digitalTotal) / float64(len(digital)),
		Employment:            float64(employmentTotal) / float64(len(employment)),
		Readiness:             float64(s.Answers.ReadinessLevel),
		ClimateTotal:          climateTotal,
		DigitalTotal:          digitalTotal,
		ClimateRiskPercent:    axisPercent(climateTotal),
		DigitalUrgencyPercent: axisPercent(digitalTotal),
	}
}

// axisPercent scales an axis total against AxisCeiling. Multiplying first
// keeps totals that land on a threshold (9 -> 60) exact.
func axisPercent(total int) float64 {
	return float64(total) * 100 / AxisCeiling
}

// FormatPercent renders a percentage with one decimal place.
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', 1, 64)
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}
