package services

import (
	"sort"

	"github.com/soaringjerry/Guidance/internal/models"
)

// ChecklistRules holds the escalation thresholds of the checklist analyzer.
type ChecklistRules struct {
	// HighSeverityCategories escalate to high on a single circled item.
	HighSeverityCategories   []models.ChecklistCategory
	CircledHighThreshold     int
	CircledCriticalThreshold int
	LowVolumeRatio           float64
	ModerateVolumeRatio      float64
	MaxRiskFactors           int
}

func DefaultChecklistRules() ChecklistRules {
	return ChecklistRules{
		HighSeverityCategories:   []models.ChecklistCategory{models.CategoryEmotional, models.CategoryDating, models.CategoryFamily},
		CircledHighThreshold:     3,
		CircledCriticalThreshold: 6,
		LowVolumeRatio:           0.15,
		ModerateVolumeRatio:      0.35,
		MaxRiskFactors:           3,
	}
}

// withDefaults fills unset thresholds. A nil category list means the
// default set; an empty non-nil list disables single-circle escalation.
func (r ChecklistRules) withDefaults() ChecklistRules {
	d := DefaultChecklistRules()
	if r.HighSeverityCategories == nil {
		r.HighSeverityCategories = d.HighSeverityCategories
	}
	if r.CircledHighThreshold <= 0 {
		r.CircledHighThreshold = d.CircledHighThreshold
	}
	if r.CircledCriticalThreshold <= 0 {
		r.CircledCriticalThreshold = d.CircledCriticalThreshold
	}
	if r.LowVolumeRatio <= 0 {
		r.LowVolumeRatio = d.LowVolumeRatio
	}
	if r.ModerateVolumeRatio <= 0 {
		r.ModerateVolumeRatio = d.ModerateVolumeRatio
	}
	if r.MaxRiskFactors <= 0 {
		r.MaxRiskFactors = d.MaxRiskFactors
	}
	return r
}

const (
	checklistWeightChecked = 1
	checklistWeightCircled = 2
)

var urgencyByRisk = map[string]string{
	models.LevelLow:      models.UrgencyNone,
	models.LevelModerate: models.UrgencyMonitor,
	models.LevelHigh:     models.UrgencySchedule,
	models.LevelCritical: models.UrgencyImmediate,
}

var riskRecommendation = map[string]string{
	models.LevelLow:      "Keep checking in with yourself and revisit the checklist next term.",
	models.LevelModerate: "Consider talking with a counselor about the areas you marked.",
	models.LevelHigh:     "Schedule a counseling session within the week.",
	models.LevelCritical: "Contact a counselor today; immediate follow-up is required.",
}

// AnalyzeChecklist scores every category and classifies overall risk.
// Items outside the catalog and unknown marks count as not checked.
func AnalyzeChecklist(resp models.ChecklistResponses, rules ChecklistRules) models.ChecklistAnalysis {
	rules = rules.withDefaults()
	highSeverity := make(map[models.ChecklistCategory]bool, len(rules.HighSeverityCategories))
	for _, c := range rules.HighSeverityCategories {
		highSeverity[c] = true
	}

	a := models.ChecklistAnalysis{
		CategoryScores: make(map[models.ChecklistCategory]int, len(checklistCatalog)),
	}
	circledInHighSeverity := false
	criticalMarked := false
	for _, cat := range checklistCatalog {
		marks := resp[cat.Key]
		score := 0
		for _, field := range cat.Items {
			switch marks[field] {
			case models.MarkChecked:
				score += checklistWeightChecked
				a.TotalProblemsChecked++
			case models.MarkCircled:
				score += checklistWeightCircled
				a.TotalProblemsChecked++
				a.TotalCircledImportant++
				if highSeverity[cat.Key] {
					circledInHighSeverity = true
				}
			}
		}
		for _, field := range cat.Critical {
			if m := marks[field]; m == models.MarkChecked || m == models.MarkCircled {
				criticalMarked = true
			}
		}
		a.CategoryScores[cat.Key] = score
	}

	risk := volumeRisk(a.TotalProblemsChecked, ChecklistItemCount(), rules)
	if circledInHighSeverity || a.TotalCircledImportant >= rules.CircledHighThreshold {
		risk = maxChecklistRisk(risk, models.LevelHigh)
	}
	if criticalMarked || a.TotalCircledImportant >= rules.CircledCriticalThreshold {
		risk = models.LevelCritical
	}
	a.RiskLevel = risk
	a.UrgencyLevel = urgencyByRisk[risk]
	a.NeedsAttention = risk == models.LevelHigh || risk == models.LevelCritical

	a.RiskFactors = []string{}
	a.Recommendations = []string{riskRecommendation[risk]}
	for _, cat := range topCategories(a.CategoryScores, rules.MaxRiskFactors) {
		a.RiskFactors = append(a.RiskFactors, cat.RiskFactor)
		a.Recommendations = append(a.Recommendations, cat.Recommendation)
	}
	return a
}

func volumeRisk(checked, total int, rules ChecklistRules) string {
	if total == 0 {
		return models.LevelLow
	}
	ratio := float64(checked) / float64(total)
	switch {
	case ratio < rules.LowVolumeRatio:
		return models.LevelLow
	case ratio < rules.ModerateVolumeRatio:
		return models.LevelModerate
	default:
		return models.LevelHigh
	}
}

func maxChecklistRisk(a, b string) string {
	if LevelRank(models.AssessmentChecklist, b) > LevelRank(models.AssessmentChecklist, a) {
		return b
	}
	return a
}

// topCategories returns up to n categories with a positive score, highest
// first; ties keep catalog order.
func topCategories(scores map[models.ChecklistCategory]int, n int) []ChecklistCategoryDef {
	ranked := make([]ChecklistCategoryDef, 0, len(checklistCatalog))
	for _, cat := range checklistCatalog {
		if scores[cat.Key] > 0 {
			ranked = append(ranked, cat)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return scores[ranked[i].Key] > scores[ranked[j].Key]
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
