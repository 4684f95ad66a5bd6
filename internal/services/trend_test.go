package services

import (
	"testing"
	"time"

	"github.com/soaringjerry/Guidance/internal/models"
)

var trendBase = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func scoredPoints(scores ...int) []models.TrendPoint {
	out := make([]models.TrendPoint, 0, len(scores))
	for i, s := range scores {
		s := s
		out = append(out, models.TrendPoint{Score: &s, Date: trendBase.AddDate(0, 0, 7*i)})
	}
	return out
}

func levelPoints(levels ...string) []models.TrendPoint {
	out := make([]models.TrendPoint, 0, len(levels))
	for i, l := range levels {
		out = append(out, models.TrendPoint{Level: l, Date: trendBase.AddDate(0, 0, 7*i)})
	}
	return out
}

func TestCompareTrendScored(t *testing.T) {
	cases := []struct {
		scores []int
		want   models.InsightType
	}{
		{[]int{20, 20}, models.InsightStable},
		{[]int{20, 10}, models.InsightImprovement},
		{[]int{10, 20}, models.InsightDecline},
		{[]int{20, 15}, models.InsightStable},
		{[]int{20, 14}, models.InsightImprovement},
		{[]int{10, 15}, models.InsightStable},
		{[]int{10, 25, 3, 12}, models.InsightStable},
	}
	for _, c := range cases {
		tr, ok := CompareTrend(models.AssessmentAnxiety, scoredPoints(c.scores...))
		if !ok {
			t.Fatalf("%v: expected a comparison", c.scores)
		}
		if tr.Direction != c.want {
			t.Fatalf("%v: direction %s, want %s", c.scores, tr.Direction, c.want)
		}
	}
}

func TestCompareTrendNeedsTwoPoints(t *testing.T) {
	if _, ok := CompareTrend(models.AssessmentStress, scoredPoints(12)); ok {
		t.Fatalf("single point must not produce a trend")
	}
	if _, ok := CompareTrend(models.AssessmentStress, nil); ok {
		t.Fatalf("empty window must not produce a trend")
	}
}

func TestCompareTrendCategorical(t *testing.T) {
	cases := []struct {
		t      models.AssessmentType
		levels []string
		want   models.InsightType
	}{
		{models.AssessmentSuicide, []string{"low", "high"}, models.InsightDecline},
		{models.AssessmentSuicide, []string{"moderate", "low"}, models.InsightImprovement},
		{models.AssessmentSuicide, []string{"low", "low"}, models.InsightStable},
		{models.AssessmentChecklist, []string{"moderate", "critical"}, models.InsightDecline},
		{models.AssessmentChecklist, []string{"high", "bogus"}, models.InsightStable},
	}
	for _, c := range cases {
		tr, ok := CompareTrend(c.t, levelPoints(c.levels...))
		if !ok || tr.Direction != c.want {
			t.Fatalf("%s %v: got %s, want %s", c.t, c.levels, tr.Direction, c.want)
		}
		if tr.Delta != nil {
			t.Fatalf("categorical comparison has no delta")
		}
	}
}

func TestCompareTrendMissingScoreFallsBackToLevel(t *testing.T) {
	pts := levelPoints("minimal", "severe")
	tr, _ := CompareTrend(models.AssessmentDepression, pts)
	if tr.Direction != models.InsightDecline {
		t.Fatalf("expected level fallback decline, got %s", tr.Direction)
	}
}

func TestSortTrendPointsDoesNotMutate(t *testing.T) {
	pts := scoredPoints(1, 2, 3)
	pts[0], pts[2] = pts[2], pts[0]
	sorted := SortTrendPoints(pts)
	if *sorted[0].Score != 1 || *sorted[2].Score != 3 {
		t.Fatalf("not sorted ascending")
	}
	if *pts[0].Score != 3 {
		t.Fatalf("input was reordered")
	}
}
