package diagnosis

import "github.com/okian/gdax/internal/domain/model"

// IssueKind identifies an employment issue.
type IssueKind string

const (
	IssueRecruitment     IssueKind = "recruitment"
	IssueJobTransition   IssueKind = "job_transition"
	IssueAnxiety         IssueKind = "anxiety"
	IssueDigitalSkillGap IssueKind = "digital_skill_gap"
)

// Severity ranks an employment issue.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityHigh     Severity = "high"
	SeverityMedium   Severity = "medium"
)

// EmploymentIssue is a flagged employment risk.
type EmploymentIssue struct {
	Kind     IssueKind `json:"kind"`
	Title    string    `json:"title"`
	Message  string    `json:"message"`
	Severity Severity  `json:"severity"`
}

// issueRule ties one employment answer to the issue it raises.
type issueRule struct {
	answer func(model.Answers) int
	issue  EmploymentIssue
}

// DetectIssues flags every employment answer >= IssueThreshold. Issues come
// back in question order, never sorted by severity. The result is never nil.
func DetectIssues(s model.SurveyResponse) []EmploymentIssue {
	issues := make([]EmploymentIssue, 0, len(issueRules))
	for _, rule := range issueRules {
		if rule.answer(s.Answers) >= IssueThreshold {
			issues = append(issues, rule.issue)
		}
	}
	return issues
}

// HasIssue reports whether kind is among issues.
func HasIssue(issues []EmploymentIssue, kind IssueKind) bool {
	for _, i := range issues {
		if i.Kind == kind {
			return true
		}
	}
	return false
}
