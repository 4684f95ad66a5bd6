package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/soaringjerry/Guidance/internal/models"
)

// Display priority above severity. Urgent flags outrank any severity so a
// low numeric band can never hide them.
const (
	priorityNormal = iota
	priorityUrgent
	priorityIntervention
)

var displayName = map[models.AssessmentType]string{
	models.AssessmentAnxiety:    "anxiety",
	models.AssessmentStress:     "stress",
	models.AssessmentDepression: "depression",
	models.AssessmentSuicide:    "suicide risk",
	models.AssessmentChecklist:  "personal problems checklist",
}

type rankedInsight struct {
	models.Insight
	priority int
}

// GenerateInsights builds the prioritized insight list from per-type
// history. Points are sorted by date before use; the input is not modified.
// Types are visited in models.InsightOrder, which is also the tie-break of
// the final stable sort.
func GenerateInsights(history map[models.AssessmentType][]models.TrendPoint) []models.Insight {
	var ranked []rankedInsight
	total := 0
	for _, t := range models.InsightOrder {
		points := SortTrendPoints(history[t])
		if len(points) == 0 {
			continue
		}
		total += len(points)
		latest := points[len(points)-1]

		if tr, ok := CompareTrend(t, points); ok {
			ranked = append(ranked, rankedInsight{Insight: trendInsight(t, tr)})
		} else {
			ranked = append(ranked, rankedInsight{Insight: latestInsight(t, latest)})
		}
		if w, ok := levelWarning(t, latest); ok {
			ranked = append(ranked, rankedInsight{Insight: w})
		}
		if latest.RequiresIntervention {
			switch t {
			case models.AssessmentSuicide:
				ranked = append(ranked, rankedInsight{Insight: interventionWarning(), priority: priorityIntervention})
			case models.AssessmentDepression:
				ranked = append(ranked, rankedInsight{Insight: selfHarmWarning(), priority: priorityUrgent})
			}
		}
	}
	if e, ok := engagementInsight(total); ok {
		ranked = append(ranked, rankedInsight{Insight: e})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].priority != ranked[j].priority {
			return ranked[i].priority > ranked[j].priority
		}
		return ranked[i].Severity.Weight() > ranked[j].Severity.Weight()
	})
	out := make([]models.Insight, 0, len(ranked))
	for _, r := range ranked {
		out = append(out, r.Insight)
	}
	return out
}

func trendInsight(t models.AssessmentType, tr TrendResult) models.Insight {
	name := displayName[t]
	in := models.Insight{Type: tr.Direction, AssessmentType: t}
	switch tr.Direction {
	case models.InsightImprovement:
		in.Severity = models.SeverityLow
		if tr.Delta != nil {
			in.Message = fmt.Sprintf("Your %s score improved by %d points since %s.", name, -*tr.Delta, tr.First.Date.Format("Jan 2, 2006"))
		} else {
			in.Message = fmt.Sprintf("Your %s level improved from %s to %s.", name, humanize(tr.First.Level), humanize(tr.Last.Level))
		}
		in.Recommendation = "Keep doing what is working for you."
	case models.InsightDecline:
		in.Severity = models.SeverityMedium
		if t == models.AssessmentSuicide {
			in.Severity = models.SeverityHigh
		}
		if tr.Delta != nil {
			in.Message = fmt.Sprintf("Your %s score increased by %d points since %s.", name, *tr.Delta, tr.First.Date.Format("Jan 2, 2006"))
		} else {
			in.Message = fmt.Sprintf("Your %s level rose from %s to %s.", name, humanize(tr.First.Level), humanize(tr.Last.Level))
		}
		in.Recommendation = "Consider reaching out to a guidance counselor to talk about recent changes."
	default:
		in.Severity = models.SeverityLow
		in.Message = fmt.Sprintf("Your %s results have remained stable.", name)
	}
	return in
}

// latestInsight is the single-record path: severity of the latest record only.
func latestInsight(t models.AssessmentType, p models.TrendPoint) models.Insight {
	return models.Insight{
		Type:           models.InsightStable,
		AssessmentType: t,
		Message:        fmt.Sprintf("Your latest %s assessment indicates a %s level.", displayName[t], humanize(p.Level)),
		Severity:       LevelSeverity(p.Level),
		Recommendation: "Take the assessment again later to start tracking your progress.",
	}
}

func levelWarning(t models.AssessmentType, p models.TrendPoint) (models.Insight, bool) {
	sev := LevelSeverity(p.Level)
	if sev.Weight() < models.SeverityMedium.Weight() {
		return models.Insight{}, false
	}
	rec := "Consider scheduling a session with a guidance counselor."
	if sev == models.SeverityHigh {
		rec = "Please reach out to a counselor or mental health professional soon."
	}
	return models.Insight{
		Type:           models.InsightWarning,
		AssessmentType: t,
		Message:        fmt.Sprintf("Your most recent %s result is %s.", displayName[t], humanize(p.Level)),
		Severity:       sev,
		Recommendation: rec,
	}, true
}

func interventionWarning() models.Insight {
	return models.Insight{
		Type:           models.InsightWarning,
		AssessmentType: models.AssessmentSuicide,
		Message:        "Your latest screening indicates you may need immediate support.",
		Severity:       models.SeverityHigh,
		Recommendation: "Contact a counselor or a crisis hotline right away. You do not have to go through this alone.",
		Urgent:         true,
	}
}

func selfHarmWarning() models.Insight {
	return models.Insight{
		Type:           models.InsightWarning,
		AssessmentType: models.AssessmentDepression,
		Message:        "You reported thoughts of hurting yourself in your latest depression screening.",
		Severity:       models.SeverityHigh,
		Recommendation: "Please talk to a counselor or a trusted adult today.",
		Urgent:         true,
	}
}

// engagementInsight covers 0 and 1-2 total assessments; larger histories
// are described by the per-type insights alone.
func engagementInsight(total int) (models.Insight, bool) {
	switch {
	case total == 0:
		return models.Insight{
			Type:           models.InsightStable,
			AssessmentType: models.AssessmentOverall,
			Message:        "You have not taken any assessments yet.",
			Severity:       models.SeverityLow,
			Recommendation: "Start with a short assessment to get personalized insights.",
		}, true
	case total <= 2:
		return models.Insight{
			Type:           models.InsightStable,
			AssessmentType: models.AssessmentOverall,
			Message:        "Great start! Taking assessments regularly helps track how you are doing.",
			Severity:       models.SeverityLow,
			Recommendation: "Complete more assessments over time to see trends.",
		}, true
	}
	return models.Insight{}, false
}

func humanize(level string) string {
	if level == "" {
		return "unknown"
	}
	return strings.ReplaceAll(level, "_", " ")
}
