package diagnosis

import "slices"

// Solution is a business or HR intervention.
type Solution struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords,omitempty"`
}

// Program is a government support program.
type Program struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Department  string `json:"department"`
}

// SolutionSet groups the matched interventions. Business and HR may be
// empty; Government always carries the baseline programs.
type SolutionSet struct {
	Business   []Solution `json:"business"`
	HR         []Solution `json:"hr"`
	Government []Program  `json:"government"`
}

// Match selects interventions for the given axes and flagged issues.
//
// The recruitment issue has no HR counterpart; see DESIGN.md before adding one.
func Match(climateRiskPercent, digitalUrgencyPercent float64, issues []EmploymentIssue) SolutionSet {
	climateHigh := climateRiskPercent >= AxisThreshold
	digitalHigh := digitalUrgencyPercent >= AxisThreshold

	set := SolutionSet{
		Business:   make([]Solution, 0, 2),
		HR:         make([]Solution, 0, len(hrSolutions)),
		Government: make([]Program, 0, len(baselinePrograms)+1),
	}

	if climateHigh {
		set.Business = append(set.Business, cloneSolution(businessReorganization))
	}
	if digitalHigh {
		set.Business = append(set.Business, cloneSolution(smartFactoryUpgrade))
	}

	for _, hr := range hrSolutions {
		if HasIssue(issues, hr.trigger) {
			set.HR = append(set.HR, cloneSolution(hr.solution))
		}
	}

	set.Government = append(set.Government, baselinePrograms...)
	if climateHigh {
		set.Government = append(set.Government, carbonNeutralRnD)
	}
	return set
}

func cloneSolution(s Solution) Solution {
	s.Keywords = slices.Clone(s.Keywords)
	return s
}
