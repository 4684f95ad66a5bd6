package services

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/soaringjerry/Guidance/internal/models"
)

// HistoryStore reads previously stored records for one student.
type HistoryStore interface {
	ListAssessments(ctx context.Context, userID string, t models.AssessmentType, from, to time.Time) ([]*models.AssessmentRecord, error)
	ListChecklists(ctx context.Context, userID string, from, to time.Time) ([]*models.ChecklistRecord, error)
}

// HistoryService turns stored history into trend windows and insights.
type HistoryService struct {
	store  HistoryStore
	cache  InsightCache
	window time.Duration
	log    *zap.Logger
	now    func() time.Time
}

// NewHistoryService constructs a service reading window-long history. cache may be nil.
func NewHistoryService(store HistoryStore, cache InsightCache, window time.Duration, log *zap.Logger) *HistoryService {
	if log == nil {
		log = zap.NewNop()
	}
	if window <= 0 {
		window = 180 * 24 * time.Hour
	}
	return &HistoryService{
		store:  store,
		cache:  cache,
		window: window,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// AssessmentTrendPoint reduces a record to a trend point.
func AssessmentTrendPoint(rec *models.AssessmentRecord) models.TrendPoint {
	return models.TrendPoint{
		Score:                rec.TotalScore,
		Level:                rec.Level,
		Date:                 rec.AssessmentDate,
		RequiresIntervention: rec.RequiresIntervention,
	}
}

// ChecklistTrendPoint reduces a checklist to a trend point; Count is the
// number of problems marked.
func ChecklistTrendPoint(rec *models.ChecklistRecord) models.TrendPoint {
	count := rec.Analysis.TotalProblemsChecked
	return models.TrendPoint{
		Level:                rec.Analysis.RiskLevel,
		Date:                 rec.AssessmentDate,
		RequiresIntervention: rec.Analysis.UrgencyLevel == models.UrgencyImmediate,
		Count:                &count,
	}
}

// Trend returns the ascending trend window of one type. Store failures are
// logged and yield an empty window.
func (s *HistoryService) Trend(ctx context.Context, userID string, t models.AssessmentType, from, to time.Time) ([]models.TrendPoint, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, Invalidf("user_id required")
	}
	if _, ok := models.ParseAssessmentType(string(t)); !ok {
		return nil, Invalidf("unknown assessment type")
	}
	if to.IsZero() {
		to = s.now()
	}
	if from.IsZero() {
		from = to.Add(-s.window)
	}
	if from.After(to) {
		return nil, Invalidf("from must not be after to")
	}
	pts, _ := s.points(ctx, userID, t, from, to)
	return pts, nil
}

// points reports false when the store failed and the empty window is a fallback.
func (s *HistoryService) points(ctx context.Context, userID string, t models.AssessmentType, from, to time.Time) ([]models.TrendPoint, bool) {
	if s.store == nil {
		return []models.TrendPoint{}, false
	}
	var out []models.TrendPoint
	if t == models.AssessmentChecklist {
		recs, err := s.store.ListChecklists(ctx, userID, from, to)
		if err != nil {
			s.log.Warn("history retrieval failed", zap.String("type", string(t)), zap.Error(err))
			return []models.TrendPoint{}, false
		}
		out = make([]models.TrendPoint, 0, len(recs))
		for _, rec := range recs {
			out = append(out, ChecklistTrendPoint(rec))
		}
	} else {
		recs, err := s.store.ListAssessments(ctx, userID, t, from, to)
		if err != nil {
			s.log.Warn("history retrieval failed", zap.String("type", string(t)), zap.Error(err))
			return []models.TrendPoint{}, false
		}
		out = make([]models.TrendPoint, 0, len(recs))
		for _, rec := range recs {
			out = append(out, AssessmentTrendPoint(rec))
		}
	}
	return SortTrendPoints(out), true
}

// Insights returns the sorted insight list over the configured window,
// read through the cache when one is configured.
func (s *HistoryService) Insights(ctx context.Context, userID string) ([]models.Insight, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, Invalidf("user_id required")
	}
	key := "w" + strconv.Itoa(int(s.window/time.Hour))
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, userID, key); ok {
			return cached, nil
		}
	}
	to := s.now()
	from := to.Add(-s.window)
	history := make(map[models.AssessmentType][]models.TrendPoint, len(models.InsightOrder))
	complete := true
	for _, t := range models.InsightOrder {
		pts, ok := s.points(ctx, userID, t, from, to)
		history[t] = pts
		complete = complete && ok
	}
	insights := GenerateInsights(history)
	if s.cache != nil && complete {
		s.cache.Set(ctx, userID, key, insights)
	}
	return insights, nil
}
