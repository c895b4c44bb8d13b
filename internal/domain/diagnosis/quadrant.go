package diagnosis

// DiagnosisKind identifies one of the four quadrants.
type DiagnosisKind string

// Quadrants, keyed by which axes are at or above AxisThreshold.
const (
	StructuralTransformation DiagnosisKind = "structural_transformation" // climate high, digital high
	DigitalLeader            DiagnosisKind = "digital_leader"            // climate low,  digital high
	GreenTransition          DiagnosisKind = "green_transition"          // climate high, digital low
	StableOperation          DiagnosisKind = "stable_operation"          // climate low,  digital low
)

// DiagnosisType is a quadrant together with its presentation data.
type DiagnosisType struct {
	Kind        DiagnosisKind `json:"code"`
	Label       string        `json:"label"`
	Color       string        `json:"color"`
	Description string        `json:"description"`
}

// Classify places a company in a quadrant. Each axis is urgent when its
// percentage is >= AxisThreshold, so 60.0 falls on the urgent side.
func Classify(climateRiskPercent, digitalUrgencyPercent float64) DiagnosisType {
	climateHigh := climateRiskPercent >= AxisThreshold
	digitalHigh := digitalUrgencyPercent >= AxisThreshold

	var kind DiagnosisKind
	switch {
	case climateHigh && digitalHigh:
		kind = StructuralTransformation
	case digitalHigh:
		kind = DigitalLeader
	case climateHigh:
		kind = GreenTransition
	default:
		kind = StableOperation
	}
	return diagnosisTypes[kind]
}

// LookupDiagnosisType returns the catalog entry for kind.
func LookupDiagnosisType(kind DiagnosisKind) (DiagnosisType, bool) {
	t, ok := diagnosisTypes[kind]
	return t, ok
}
