package models

import "time"

// AssessmentType names one of the screening instruments or the problem checklist.
type AssessmentType string

const (
	AssessmentAnxiety    AssessmentType = "anxiety"
	AssessmentStress     AssessmentType = "stress"
	AssessmentDepression AssessmentType = "depression"
	AssessmentSuicide    AssessmentType = "suicide"
	AssessmentChecklist  AssessmentType = "checklist"
	// AssessmentOverall is used for insights that span every instrument.
	AssessmentOverall AssessmentType = "overall"
)

// InsightOrder is the fixed per-type emission order of the insight generator.
var InsightOrder = []AssessmentType{
	AssessmentAnxiety,
	AssessmentStress,
	AssessmentDepression,
	AssessmentSuicide,
	AssessmentChecklist,
}

// ParseAssessmentType returns the type named by s, or false for unknown names.
func ParseAssessmentType(s string) (AssessmentType, bool) {
	for _, t := range InsightOrder {
		if string(t) == s {
			return t, true
		}
	}
	return "", false
}

// Severity and risk band labels.
const (
	LevelMinimal          = "minimal"
	LevelMild             = "mild"
	LevelModerate         = "moderate"
	LevelModeratelySevere = "moderately_severe"
	LevelSevere           = "severe"
	LevelLow              = "low"
	LevelHigh             = "high"
	LevelCritical         = "critical"
)

// Urgency labels derived 1:1 from checklist risk.
const (
	UrgencyNone      = "none"
	UrgencyMonitor   = "monitor"
	UrgencySchedule  = "schedule"
	UrgencyImmediate = "immediate"
)

// EncodedResponse maps an instrument field name to its categorical code.
type EncodedResponse map[string]string

// AnalysisSummary is derived, non-authoritative text about a result.
// It can always be recomputed from the encoded responses.
type AnalysisSummary struct {
	Severity              string   `json:"severity"`
	Description           string   `json:"description"`
	Recommendation        string   `json:"recommendation"`
	NeedsProfessionalHelp bool     `json:"needs_professional_help,omitempty"`
	Flags                 []string `json:"flags,omitempty"`
}

// AssessmentRecord is one completed instrument submission.
type AssessmentRecord struct {
	ID                   string          `json:"id"`
	UserID               string          `json:"user_id"`
	Type                 AssessmentType  `json:"type"`
	TotalScore           *int            `json:"total_score,omitempty"`
	Level                string          `json:"level"`
	RequiresIntervention bool            `json:"requires_immediate_intervention,omitempty"`
	AssessmentDate       time.Time       `json:"assessment_date"`
	Responses            EncodedResponse `json:"responses"`
	Analysis             AnalysisSummary `json:"analysis"`
}

// ChecklistMark is the tri-state value of one checklist item.
type ChecklistMark string

const (
	MarkNotChecked ChecklistMark = "not_checked"
	MarkChecked    ChecklistMark = "checked"
	MarkCircled    ChecklistMark = "circled_most_important"
)

// ChecklistCategory is the stable key of a checklist life domain.
type ChecklistCategory string

const (
	CategorySocial     ChecklistCategory = "social_friends"
	CategoryAppearance ChecklistCategory = "appearance"
	CategoryAttitude   ChecklistCategory = "attitude_opinion"
	CategoryParents    ChecklistCategory = "parents"
	CategoryFamily     ChecklistCategory = "family_home"
	CategorySchool     ChecklistCategory = "school"
	CategoryMoney      ChecklistCategory = "money"
	CategoryReligion   ChecklistCategory = "religion"
	CategoryEmotional  ChecklistCategory = "emotional"
	CategoryDating     ChecklistCategory = "dating_sex"
)

// ChecklistResponses holds one map of item field to mark per category.
type ChecklistResponses map[ChecklistCategory]map[string]ChecklistMark

// ChecklistAnalysis is the derived summary of a checklist submission.
type ChecklistAnalysis struct {
	CategoryScores        map[ChecklistCategory]int `json:"category_scores"`
	TotalProblemsChecked  int                       `json:"total_problems_checked"`
	TotalCircledImportant int                       `json:"total_circled_important"`
	RiskLevel             string                    `json:"risk_level"`
	UrgencyLevel          string                    `json:"urgency_level"`
	RiskFactors           []string                  `json:"risk_factors"`
	Recommendations       []string                  `json:"recommendations"`
	NeedsAttention        bool                      `json:"needs_attention"`
}

// ChecklistRecord is one completed personal-problems checklist.
type ChecklistRecord struct {
	ID             string             `json:"id"`
	UserID         string             `json:"user_id"`
	AssessmentDate time.Time          `json:"assessment_date"`
	Categories     ChecklistResponses `json:"categories"`
	Analysis       ChecklistAnalysis  `json:"analysis"`
}

// TrendPoint reduces one historical record to what trend math needs.
type TrendPoint struct {
	Score                *int      `json:"score"`
	Level                string    `json:"level"`
	Date                 time.Time `json:"date"`
	RequiresIntervention bool      `json:"requires_intervention,omitempty"`
	Count                *int      `json:"count,omitempty"`
}

// InsightType classifies an insight.
type InsightType string

const (
	InsightImprovement InsightType = "improvement"
	InsightDecline     InsightType = "decline"
	InsightStable      InsightType = "stable"
	InsightWarning     InsightType = "warning"
)

// Severity ranks insights for display.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Weight returns the sort weight of a severity (high=3, medium=2, low=1).
func (s Severity) Weight() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// Insight is a generated, human readable statement shown to students and counselors.
type Insight struct {
	Type           InsightType    `json:"type"`
	AssessmentType AssessmentType `json:"assessment_type"`
	Message        string         `json:"message"`
	Severity       Severity       `json:"severity"`
	Recommendation string         `json:"recommendation,omitempty"`
	// Urgent marks critical-flag insights that precede everything else.
	Urgent bool `json:"urgent,omitempty"`
}
