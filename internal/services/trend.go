package services

import (
	"sort"

	"github.com/soaringjerry/Guidance/internal/models"
)

// TrendDeltaThreshold is the score change that must be exceeded before a
// first-vs-last comparison counts as improvement or decline.
const TrendDeltaThreshold = 5

// TrendResult describes the change between the first and last point of a window.
type TrendResult struct {
	Direction models.InsightType
	// Delta is last minus first for scored comparisons, nil for rank comparisons.
	Delta *int
	First models.TrendPoint
	Last  models.TrendPoint
}

// IsScored reports whether t produces a linear total score.
func IsScored(t models.AssessmentType) bool {
	switch t {
	case models.AssessmentAnxiety, models.AssessmentDepression, models.AssessmentStress:
		return true
	}
	return false
}

// SortTrendPoints returns a copy of points ordered by date ascending.
func SortTrendPoints(points []models.TrendPoint) []models.TrendPoint {
	out := append([]models.TrendPoint(nil), points...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out
}

// CompareTrend compares only the first and last point of an ascending
// window; intermediate points are ignored. Lower is better for every type.
// It reports false when fewer than two points exist.
func CompareTrend(t models.AssessmentType, points []models.TrendPoint) (TrendResult, bool) {
	if len(points) < 2 {
		return TrendResult{}, false
	}
	first, last := points[0], points[len(points)-1]
	res := TrendResult{Direction: models.InsightStable, First: first, Last: last}

	if IsScored(t) && first.Score != nil && last.Score != nil {
		delta := *last.Score - *first.Score
		res.Delta = &delta
		switch {
		case delta < -TrendDeltaThreshold:
			res.Direction = models.InsightImprovement
		case delta > TrendDeltaThreshold:
			res.Direction = models.InsightDecline
		}
		return res, true
	}

	// Categorical comparison; also used when a scored point lacks its score.
	fr, lr := LevelRank(t, first.Level), LevelRank(t, last.Level)
	if fr < 0 || lr < 0 {
		return res, true
	}
	switch {
	case lr > fr:
		res.Direction = models.InsightDecline
	case lr < fr:
		res.Direction = models.InsightImprovement
	}
	return res, true
}
