package diagnosis

import "github.com/okian/gdax/internal/domain/model"

// Ministries credited on government programs.
const (
	DepartmentLabor    = "고용노동부"
	DepartmentIndustry = "산업통상자원부"
)

var diagnosisTypes = map[DiagnosisKind]DiagnosisType{
	StructuralTransformation: {
		Kind:        StructuralTransformation,
		Label:       "구조적 전환 필요형",
		Color:       "#dc2626",
		Description: "탄소중립 규제와 디지털 전환 압력이 동시에 높은 복합 위기 상태입니다. 사업 구조 재편과 인력 전환을 함께 추진하는 종합 전략이 필요합니다.",
	},
	DigitalLeader: {
		Kind:        DigitalLeader,
		Label:       "디지털 선도 전환형",
		Color:       "#2563eb",
		Description: "기후 리스크는 관리 가능한 수준이나 디지털·AI 전환이 시급합니다. 스마트공장 도입과 재직자 디지털 역량 강화를 우선 추진해야 합니다.",
	},
	GreenTransition: {
		Kind:        GreenTransition,
		Label:       "그린 전환 시급형",
		Color:       "#16a34a",
		Description: "디지털 전환 압력은 낮으나 탄소중립 대응이 시급합니다. 저탄소 공정 전환과 친환경 신사업 발굴이 필요합니다.",
	},
	StableOperation: {
		Kind:        StableOperation,
		Label:       "안정 운영형",
		Color:       "#6b7280",
		Description: "기후·디지털 리스크가 모두 낮아 현재 사업 구조가 안정적입니다. 중장기 전환에 대비한 선제적 인력 역량 관리를 권장합니다.",
	},
}

// issueRules is evaluated in order; the order is part of the report.
var issueRules = []issueRule{
	{
		answer: func(a model.Answers) int { return a.EmploymentStatus1 },
		issue: EmploymentIssue{
			Kind:     IssueRecruitment,
			Title:    "인력 수급 및 기술 전수 위기",
			Message:  "숙련 인력의 고령화와 신규 채용 어려움으로 핵심 기술 전수가 단절될 위험이 큽니다.",
			Severity: SeverityCritical,
		},
	},
	{
		answer: func(a model.Answers) int { return a.EmploymentStatus2 },
		issue: EmploymentIssue{
			Kind:     IssueJobTransition,
			Title:    "직무 전환 압력",
			Message:  "산업 전환으로 기존 직무가 축소되거나 변화하고 있어 재직자의 직무 전환 지원이 필요합니다.",
			Severity: SeverityHigh,
		},
	},
	{
		answer: func(a model.Answers) int { return a.EmploymentStatus3 },
		issue: EmploymentIssue{
			Kind:     IssueAnxiety,
			Title:    "조직 불안 및 소통 부재",
			Message:  "전환 과정에 대한 구성원의 고용 불안이 높아 노사 간 소통 강화가 필요합니다.",
			Severity: SeverityHigh,
		},
	},
	{
		answer: func(a model.Answers) int { return a.EmploymentStatus4 },
		issue: EmploymentIssue{
			Kind:     IssueDigitalSkillGap,
			Title:    "디지털 역량 격차",
			Message:  "재직자의 디지털·자동화 설비 활용 역량이 부족하여 체계적인 교육훈련이 필요합니다.",
			Severity: SeverityMedium,
		},
	},
}

var businessReorganization = Solution{
	Title:       "사업재편 및 신사업 발굴",
	Description: "탄소중립 대응을 위한 사업재편 계획 수립과 친환경 신사업 발굴을 지원합니다.",
	Keywords:    []string{"사업재편 승인", "탄소중립", "신사업 발굴"},
}

var smartFactoryUpgrade = Solution{
	Title:       "스마트공장 고도화",
	Description: "생산 공정 자동화와 데이터 기반 운영을 위한 스마트공장 구축 및 설비 고도화를 추진합니다.",
	Keywords:    []string{"스마트공장", "공정 자동화", "AI·데이터"},
}

// hrSolutions is evaluated in order. IssueRecruitment has no entry.
var hrSolutions = []struct {
	trigger  IssueKind
	solution Solution
}{
	{
		trigger: IssueJobTransition,
		solution: Solution{
			Title:       "직무 재설계 및 전환 배치",
			Description: "직무 분석을 통해 축소 직무 인력을 성장 직무로 재배치하는 전환 경로를 설계합니다.",
			Keywords:    []string{"직무 분석", "인력 재배치"},
		},
	},
	{
		trigger: IssueDigitalSkillGap,
		solution: Solution{
			Title:       "재직자 리스킬링·업스킬링",
			Description: "AI·자동화 설비 운용 등 디지털 직무 역량 강화를 위한 맞춤형 교육훈련을 실시합니다.",
			Keywords:    []string{"디지털 역량", "재직자 훈련"},
		},
	},
	{
		trigger: IssueAnxiety,
		solution: Solution{
			Title:       "노사 소통 및 상생 협약",
			Description: "전환 과정의 고용 불안을 해소하기 위해 노사 협의체 운영과 상생 협약 체결을 지원합니다.",
			Keywords:    []string{"노사 협력", "조직문화"},
		},
	},
}

var baselinePrograms = []Program{
	{
		Name:        "고용전환 훈련 인건비 지원",
		Description: "직무 전환 훈련 기간 동안 재직자 인건비와 훈련비를 지원합니다.",
		Department:  DepartmentLabor,
	},
	{
		Name:        "산업전환 특화 재훈련 프로그램",
		Description: "산업전환 공동훈련센터를 통해 전환 직무 특화 재훈련을 제공합니다.",
		Department:  DepartmentLabor,
	},
}

var carbonNeutralRnD = Program{
	Name:        "탄소중립 R&D 지원사업",
	Description: "저탄소 공정 및 제품 전환을 위한 기술개발 자금을 지원합니다.",
	Department:  DepartmentIndustry,
}
