package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/soaringjerry/Guidance/internal/models"
)

// SubmissionStore abstracts persistence of newly scored records.
type SubmissionStore interface {
	AddAssessment(ctx context.Context, rec *models.AssessmentRecord) error
	AddChecklist(ctx context.Context, rec *models.ChecklistRecord) error
}

// InsightCache stores generated insights per user. Implementations must
// tolerate backend failures silently; a miss simply recomputes.
type InsightCache interface {
	Get(ctx context.Context, userID, key string) ([]models.Insight, bool)
	Set(ctx context.Context, userID, key string, insights []models.Insight)
	Invalidate(ctx context.Context, userID string)
}

// SubmitRequest carries one raw instrument submission.
type SubmitRequest struct {
	UserID  string
	Type    models.AssessmentType
	Answers map[int]int
}

// SubmissionService encodes, scores and persists submissions.
type SubmissionService struct {
	store       SubmissionStore
	cache       InsightCache
	rules       ChecklistRules
	log         *zap.Logger
	now         func() time.Time
	idGenerator func() string
}

// NewSubmissionService constructs a service bound to store. cache may be nil.
func NewSubmissionService(store SubmissionStore, cache InsightCache, rules ChecklistRules, log *zap.Logger) *SubmissionService {
	if log == nil {
		log = zap.NewNop()
	}
	return &SubmissionService{
		store:       store,
		cache:       cache,
		rules:       rules,
		log:         log,
		now:         func() time.Time { return time.Now().UTC() },
		idGenerator: uuid.NewString,
	}
}

// Preview scores raw answers without persisting them.
func (s *SubmissionService) Preview(t models.AssessmentType, answers map[int]int) (models.EncodedResponse, Result, error) {
	resp, res, ok := Evaluate(t, answers)
	if !ok {
		return nil, Result{}, Invalidf("unknown assessment type")
	}
	return resp, res, nil
}

// PreviewChecklist analyzes raw checklist answers without persisting them.
func (s *SubmissionService) PreviewChecklist(answers map[models.ChecklistCategory]map[int]int) (models.ChecklistResponses, models.ChecklistAnalysis) {
	resp := EncodeChecklist(answers)
	return resp, AnalyzeChecklist(resp, s.rules)
}

// SubmitAssessment scores one instrument submission and stores the record.
func (s *SubmissionService) SubmitAssessment(ctx context.Context, req SubmitRequest) (*models.AssessmentRecord, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	if strings.TrimSpace(req.UserID) == "" {
		return nil, Invalidf("user_id required")
	}
	resp, res, err := s.Preview(req.Type, req.Answers)
	if err != nil {
		return nil, err
	}
	rec := &models.AssessmentRecord{
		ID:                   s.idGenerator(),
		UserID:               req.UserID,
		Type:                 req.Type,
		TotalScore:           res.TotalScore,
		Level:                res.Level,
		RequiresIntervention: res.RequiresIntervention,
		AssessmentDate:       s.now(),
		Responses:            resp,
		Analysis:             res.Analysis,
	}
	if err := s.store.AddAssessment(ctx, rec); err != nil {
		return nil, err
	}
	s.invalidate(ctx, req.UserID)
	fields := []zap.Field{
		zap.String("id", rec.ID),
		zap.String("type", string(rec.Type)),
		zap.String("level", rec.Level),
	}
	if rec.RequiresIntervention {
		s.log.Warn("assessment requires intervention", fields...)
	} else {
		s.log.Info("assessment submitted", fields...)
	}
	return rec, nil
}

// SubmitChecklist analyzes one checklist submission and stores the record.
func (s *SubmissionService) SubmitChecklist(ctx context.Context, userID string, answers map[models.ChecklistCategory]map[int]int) (*models.ChecklistRecord, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	if strings.TrimSpace(userID) == "" {
		return nil, Invalidf("user_id required")
	}
	resp, analysis := s.PreviewChecklist(answers)
	rec := &models.ChecklistRecord{
		ID:             s.idGenerator(),
		UserID:         userID,
		AssessmentDate: s.now(),
		Categories:     resp,
		Analysis:       analysis,
	}
	if err := s.store.AddChecklist(ctx, rec); err != nil {
		return nil, err
	}
	s.invalidate(ctx, userID)
	s.log.Info("checklist submitted",
		zap.String("id", rec.ID),
		zap.String("risk_level", analysis.RiskLevel),
		zap.Int("total_checked", analysis.TotalProblemsChecked),
	)
	return rec, nil
}

func (s *SubmissionService) invalidate(ctx context.Context, userID string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
}
