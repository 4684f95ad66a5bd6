package services

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/soaringjerry/Guidance/internal/models"
)

// AttentionStore lists records across all students since a point in time.
type AttentionStore interface {
	ListAssessmentsSince(ctx context.Context, since time.Time) ([]*models.AssessmentRecord, error)
	ListChecklistsSince(ctx context.Context, since time.Time) ([]*models.ChecklistRecord, error)
}

// AttentionEntry is one student on the counselor follow-up roster.
type AttentionEntry struct {
	UserID   string          `json:"user_id"`
	Urgent   bool            `json:"urgent"`
	Severity models.Severity `json:"severity"`
	Reasons  []string        `json:"reasons"`
	LatestAt time.Time       `json:"latest_at"`
}

// AttentionService builds the roster of students whose latest results need follow-up.
type AttentionService struct {
	store  AttentionStore
	window time.Duration
	log    *zap.Logger
	now    func() time.Time

	mu          sync.RWMutex
	snapshot    []AttentionEntry
	refreshedAt time.Time
}

func NewAttentionService(store AttentionStore, window time.Duration, log *zap.Logger) *AttentionService {
	if log == nil {
		log = zap.NewNop()
	}
	if window <= 0 {
		window = 30 * 24 * time.Hour
	}
	return &AttentionService{
		store:  store,
		window: window,
		log:    log,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

type latestKey struct {
	userID string
	t      models.AssessmentType
}

// Sweep computes the roster from each student's latest record per type
// inside the window. Ordered urgent first, then severity, then recency.
func (s *AttentionService) Sweep(ctx context.Context) ([]AttentionEntry, error) {
	since := s.now().Add(-s.window)
	assessments, err := s.store.ListAssessmentsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list assessments: %w", err)
	}
	checklists, err := s.store.ListChecklistsSince(ctx, since)
	if err != nil {
		return nil, fmt.Errorf("list checklists: %w", err)
	}

	latest := map[latestKey]models.TrendPoint{}
	keep := func(k latestKey, p models.TrendPoint) {
		if cur, ok := latest[k]; !ok || p.Date.After(cur.Date) {
			latest[k] = p
		}
	}
	for _, rec := range assessments {
		keep(latestKey{rec.UserID, rec.Type}, AssessmentTrendPoint(rec))
	}
	checklistNeeds := map[string]bool{}
	for _, rec := range checklists {
		k := latestKey{rec.UserID, models.AssessmentChecklist}
		if cur, ok := latest[k]; !ok || rec.AssessmentDate.After(cur.Date) {
			latest[k] = ChecklistTrendPoint(rec)
			checklistNeeds[rec.UserID] = rec.Analysis.NeedsAttention
		}
	}

	byUser := map[string]*AttentionEntry{}
	for _, t := range models.InsightOrder {
		for k, p := range latest {
			if k.t != t {
				continue
			}
			reasons, sev, urgent := attentionReasons(t, p, checklistNeeds[k.userID])
			if len(reasons) == 0 {
				continue
			}
			e := byUser[k.userID]
			if e == nil {
				e = &AttentionEntry{UserID: k.userID, Severity: models.SeverityLow}
				byUser[k.userID] = e
			}
			e.Reasons = append(e.Reasons, reasons...)
			e.Urgent = e.Urgent || urgent
			if sev.Weight() > e.Severity.Weight() {
				e.Severity = sev
			}
			if p.Date.After(e.LatestAt) {
				e.LatestAt = p.Date
			}
		}
	}

	out := make([]AttentionEntry, 0, len(byUser))
	for _, e := range byUser {
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Urgent != b.Urgent {
			return a.Urgent
		}
		if a.Severity.Weight() != b.Severity.Weight() {
			return a.Severity.Weight() > b.Severity.Weight()
		}
		if !a.LatestAt.Equal(b.LatestAt) {
			return a.LatestAt.After(b.LatestAt)
		}
		return a.UserID < b.UserID
	})
	return out, nil
}

func attentionReasons(t models.AssessmentType, p models.TrendPoint, checklistNeeds bool) ([]string, models.Severity, bool) {
	var reasons []string
	sev := LevelSeverity(p.Level)
	urgent := false
	if p.RequiresIntervention && (t == models.AssessmentSuicide || t == models.AssessmentDepression) {
		urgent = true
		sev = models.SeverityHigh
		reasons = append(reasons, fmt.Sprintf("%s: urgent flag", t))
	}
	switch {
	case t == models.AssessmentChecklist && checklistNeeds:
		reasons = append(reasons, fmt.Sprintf("%s: %s risk", t, p.Level))
	case t != models.AssessmentChecklist && LevelSeverity(p.Level).Weight() >= models.SeverityMedium.Weight():
		reasons = append(reasons, fmt.Sprintf("%s: %s", t, p.Level))
	}
	if len(reasons) == 0 {
		return nil, models.SeverityLow, false
	}
	return reasons, sev, urgent
}

// Refresh recomputes and stores the roster snapshot.
func (s *AttentionService) Refresh(ctx context.Context) error {
	entries, err := s.Sweep(ctx)
	if err != nil {
		s.log.Error("attention sweep failed", zap.Error(err))
		return err
	}
	urgent := 0
	for _, e := range entries {
		if e.Urgent {
			urgent++
		}
	}
	s.mu.Lock()
	s.snapshot = entries
	s.refreshedAt = s.now()
	s.mu.Unlock()
	s.log.Info("attention roster refreshed", zap.Int("students", len(entries)), zap.Int("urgent", urgent))
	return nil
}

// Snapshot returns the last refreshed roster and when it was computed.
func (s *AttentionService) Snapshot() ([]AttentionEntry, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]AttentionEntry(nil), s.snapshot...), s.refreshedAt
}
