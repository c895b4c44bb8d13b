package diagnosis

// Likert answer bounds.
const (
	MinAnswer = 1
	MaxAnswer = 5
)

// Axis and issue thresholds.
const (
	// AxisItems is the number of questions behind each classification axis.
	AxisItems = 3
	// AxisCeiling is the highest possible axis total (AxisItems * MaxAnswer).
	// Employment has four items and is never scaled against it.
	AxisCeiling = AxisItems * MaxAnswer
	// AxisThreshold is the percentage at or above which an axis counts as urgent.
	AxisThreshold = 60.0
	// IssueThreshold is the employment answer at or above which an issue is flagged.
	IssueThreshold = 4
)

// DateLayout formats diagnosis dates.
const DateLayout = "2006-01-02"
