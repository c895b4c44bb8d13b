package diagnosis

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidSurvey is the kind of every validation failure.
var ErrInvalidSurvey = errors.New("invalid survey")

// FieldError describes one Likert answer outside [MinAnswer, MaxAnswer].
// A zero value usually means the answer was never supplied.
type FieldError struct {
	Field string `json:"field"`
	Value int    `json:"value"`
}

func (f FieldError) String() string {
	if f.Value == 0 {
		return f.Field + " is missing"
	}
	return fmt.Sprintf("%s=%d out of range [%d,%d]", f.Field, f.Value, MinAnswer, MaxAnswer)
}

// ValidationError lists every malformed answer of a survey.
type ValidationError struct {
	SurveyID int64
	Fields   []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, len(e.Fields))
	for i, f := range e.Fields {
		parts[i] = f.String()
	}
	return fmt.Sprintf("%s %d: %s", ErrInvalidSurvey, e.SurveyID, strings.Join(parts, "; "))
}

// Unwrap lets errors.Is match ErrInvalidSurvey.
func (e *ValidationError) Unwrap() error { return ErrInvalidSurvey }
