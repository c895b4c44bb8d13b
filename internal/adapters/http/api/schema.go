package api

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// surveySchemaJSON describes the body of POST /api/survey.
const surveySchemaJSON = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": [
    "company_name", "contact_email",
    "climate_risk_1", "climate_risk_2", "climate_risk_3",
    "digital_urgency_1", "digital_urgency_2", "digital_urgency_3",
    "employment_status_1", "employment_status_2", "employment_status_3", "employment_status_4",
    "readiness_level"
  ],
  "definitions": {
    "likert": {"type": "integer", "minimum": 1, "maximum": 5}
  },
  "properties": {
    "submission_key":         {"type": ["string", "null"], "maxLength": 128},
    "company_name":           {"type": "string", "minLength": 1, "maxLength": 200},
    "ceo_name":               {"type": ["string", "null"], "maxLength": 100},
    "location":               {"type": ["string", "null"], "maxLength": 200},
    "main_product":           {"type": ["string", "null"], "maxLength": 200},
    "employee_count":         {"type": ["string", "null"], "maxLength": 50},
    "annual_revenue":         {"type": ["number", "null"], "minimum": 0},
    "climate_risk_1":         {"$ref": "#/definitions/likert"},
    "climate_risk_2":         {"$ref": "#/definitions/likert"},
    "climate_risk_3":         {"$ref": "#/definitions/likert"},
    "digital_urgency_1":      {"$ref": "#/definitions/likert"},
    "digital_urgency_2":      {"$ref": "#/definitions/likert"},
    "digital_urgency_3":      {"$ref": "#/definitions/likert"},
    "employment_status_1":    {"$ref": "#/definitions/likert"},
    "employment_status_2":    {"$ref": "#/definitions/likert"},
    "employment_status_3":    {"$ref": "#/definitions/likert"},
    "employment_status_4":    {"$ref": "#/definitions/likert"},
    "readiness_level":        {"$ref": "#/definitions/likert"},
    "support_areas":          {"type": ["array", "null"], "items": {"type": "string"}},
    "consulting_application": {"type": "boolean"},
    "contact_name":           {"type": ["string", "null"], "maxLength": 100},
    "contact_position":       {"type": ["string", "null"], "maxLength": 100},
    "contact_email":          {"type": "string", "minLength": 3, "maxLength": 254, "pattern": "^[^@\\s]+@[^@\\s]+$"},
    "contact_phone":          {"type": ["string", "null"], "maxLength": 50}
  }
}`

var surveySchema = mustSchema(surveySchemaJSON)

func mustSchema(src string) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(src))
	if err != nil {
		panic(fmt.Sprintf("compile survey schema: %v", err))
	}
	return s
}

// validateSurveyBody checks body against the survey schema and returns
// every violation in one error.
func validateSurveyBody(body []byte) error {
	result, err := surveySchema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("schema validation failed: %s", strings.Join(msgs, "; "))
}
