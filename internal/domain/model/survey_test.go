package model_test

import (
	"encoding/json"
	"testing"

	model "github.com/okian/gdax/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestAnswers(t *testing.T) {
	convey.Convey("Given a full set of answers", t, func() {
		a := model.Answers{
			ClimateRisk1: 1, ClimateRisk2: 2, ClimateRisk3: 3,
			DigitalUrgency1: 4, DigitalUrgency2: 5, DigitalUrgency3: 1,
			EmploymentStatus1: 2, EmploymentStatus2: 3, EmploymentStatus3: 4, EmploymentStatus4: 5,
			ReadinessLevel: 3,
		}

		convey.Convey("Then each group should come back in question order", func() {
			convey.So(a.Climate(), convey.ShouldEqual, [3]int{1, 2, 3})
			convey.So(a.Digital(), convey.ShouldEqual, [3]int{4, 5, 1})
			convey.So(a.Employment(), convey.ShouldEqual, [4]int{2, 3, 4, 5})
		})
	})
}

func TestSurveyResponseJSON(t *testing.T) {
	convey.Convey("Given a submitted survey body", t, func() {
		body := `{
			"company_name": "한빛정밀",
			"ceo_name": "김대표",
			"annual_revenue": 120.5,
			"answers": {"climate_risk_1": 5, "employment_status_4": 2, "readiness_level": 3},
			"support_areas": ["훈련"],
			"consulting_application": true,
			"contact": {"name": "이담당", "email": "hr@example.com"}
		}`

		convey.Convey("When decoding it", func() {
			var s model.SurveyResponse
			err := json.Unmarshal([]byte(body), &s)

			convey.Convey("Then snake_case fields should land on the struct", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(s.CompanyName, convey.ShouldEqual, "한빛정밀")
				convey.So(s.AnnualRevenue, convey.ShouldEqual, 120.5)
				convey.So(s.Answers.ClimateRisk1, convey.ShouldEqual, 5)
				convey.So(s.Answers.EmploymentStatus4, convey.ShouldEqual, 2)
				convey.So(s.Answers.ReadinessLevel, convey.ShouldEqual, 3)
				convey.So(s.Answers.DigitalUrgency1, convey.ShouldEqual, 0)
				convey.So(s.SupportAreas, convey.ShouldResemble, []string{"훈련"})
				convey.So(s.ConsultingApplication, convey.ShouldBeTrue)
				convey.So(s.Contact.Email, convey.ShouldEqual, "hr@example.com")
			})
		})
	})
}
