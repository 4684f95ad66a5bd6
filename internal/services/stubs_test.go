package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/soaringjerry/Guidance/internal/models"
)

type stubStore struct {
	mu          sync.Mutex
	assessments []*models.AssessmentRecord
	checklists  []*models.ChecklistRecord
	err         error
	listCalls   int
}

var errStub = errors.New("stub store failure")

func (s *stubStore) AddAssessment(_ context.Context, rec *models.AssessmentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.assessments = append(s.assessments, rec)
	return nil
}

func (s *stubStore) AddChecklist(_ context.Context, rec *models.ChecklistRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.checklists = append(s.checklists, rec)
	return nil
}

func within(d, from, to time.Time) bool {
	return !d.Before(from) && !d.After(to)
}

func (s *stubStore) ListAssessments(_ context.Context, userID string, t models.AssessmentType, from, to time.Time) ([]*models.AssessmentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.err != nil {
		return nil, s.err
	}
	var out []*models.AssessmentRecord
	for _, r := range s.assessments {
		if r.UserID == userID && r.Type == t && within(r.AssessmentDate, from, to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubStore) ListChecklists(_ context.Context, userID string, from, to time.Time) ([]*models.ChecklistRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listCalls++
	if s.err != nil {
		return nil, s.err
	}
	var out []*models.ChecklistRecord
	for _, r := range s.checklists {
		if r.UserID == userID && within(r.AssessmentDate, from, to) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubStore) ListAssessmentsSince(_ context.Context, since time.Time) ([]*models.AssessmentRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []*models.AssessmentRecord
	for _, r := range s.assessments {
		if !r.AssessmentDate.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubStore) ListChecklistsSince(_ context.Context, since time.Time) ([]*models.ChecklistRecord, error) {
	if s.err != nil {
		return nil, s.err
	}
	var out []*models.ChecklistRecord
	for _, r := range s.checklists {
		if !r.AssessmentDate.Before(since) {
			out = append(out, r)
		}
	}
	return out, nil
}

type stubCache struct {
	entries     map[string][]models.Insight
	invalidated []string
}

func newStubCache() *stubCache {
	return &stubCache{entries: map[string][]models.Insight{}}
}

func (c *stubCache) Get(_ context.Context, userID, key string) ([]models.Insight, bool) {
	v, ok := c.entries[userID+"/"+key]
	return v, ok
}

func (c *stubCache) Set(_ context.Context, userID, key string, insights []models.Insight) {
	c.entries[userID+"/"+key] = insights
}

func (c *stubCache) Invalidate(_ context.Context, userID string) {
	c.invalidated = append(c.invalidated, userID)
	for k := range c.entries {
		if len(k) > len(userID) && k[:len(userID)+1] == userID+"/" {
			delete(c.entries, k)
		}
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}
