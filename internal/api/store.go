package api

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/soaringjerry/Guidance/internal/models"
)

// MemoryStore keeps history in process. Used when no SQLite path is configured
// and by tests.
type MemoryStore struct {
	mu          sync.RWMutex
	assessments []*models.AssessmentRecord
	checklists  []*models.ChecklistRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		assessments: []*models.AssessmentRecord{},
		checklists:  []*models.ChecklistRecord{},
	}
}

func (s *MemoryStore) AddAssessment(_ context.Context, rec *models.AssessmentRecord) error {
	cp := *rec
	s.mu.Lock()
	defer s.mu.Unlock()
	s.assessments = append(s.assessments, &cp)
	return nil
}

func (s *MemoryStore) AddChecklist(_ context.Context, rec *models.ChecklistRecord) error {
	cp := *rec
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checklists = append(s.checklists, &cp)
	return nil
}

func inWindow(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}

func (s *MemoryStore) ListAssessments(_ context.Context, userID string, t models.AssessmentType, from, to time.Time) ([]*models.AssessmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.AssessmentRecord{}
	for _, r := range s.assessments {
		if r.UserID == userID && r.Type == t && inWindow(r.AssessmentDate, from, to) {
			out = append(out, r)
		}
	}
	sortAssessments(out)
	return out, nil
}

func (s *MemoryStore) ListChecklists(_ context.Context, userID string, from, to time.Time) ([]*models.ChecklistRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.ChecklistRecord{}
	for _, r := range s.checklists {
		if r.UserID == userID && inWindow(r.AssessmentDate, from, to) {
			out = append(out, r)
		}
	}
	sortChecklists(out)
	return out, nil
}

func (s *MemoryStore) ListAssessmentsSince(_ context.Context, since time.Time) ([]*models.AssessmentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.AssessmentRecord{}
	for _, r := range s.assessments {
		if !r.AssessmentDate.Before(since) {
			out = append(out, r)
		}
	}
	sortAssessments(out)
	return out, nil
}

func (s *MemoryStore) ListChecklistsSince(_ context.Context, since time.Time) ([]*models.ChecklistRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.ChecklistRecord{}
	for _, r := range s.checklists {
		if !r.AssessmentDate.Before(since) {
			out = append(out, r)
		}
	}
	sortChecklists(out)
	return out, nil
}

func (s *MemoryStore) Close() error { return nil }

func sortAssessments(rs []*models.AssessmentRecord) {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].AssessmentDate.Before(rs[j].AssessmentDate) })
}

func sortChecklists(rs []*models.ChecklistRecord) {
	sort.SliceStable(rs, func(i, j int) bool { return rs[i].AssessmentDate.Before(rs[j].AssessmentDate) })
}
