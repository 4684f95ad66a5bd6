package api

import (
	"context"
	"time"

	"github.com/soaringjerry/Guidance/internal/models"
	"github.com/soaringjerry/Guidance/internal/services"
)

// Store is the persistence boundary shared by the memory and SQLite stores.
// List methods return records ascending by assessment date.
type Store interface {
	AddAssessment(ctx context.Context, rec *models.AssessmentRecord) error
	AddChecklist(ctx context.Context, rec *models.ChecklistRecord) error

	ListAssessments(ctx context.Context, userID string, t models.AssessmentType, from, to time.Time) ([]*models.AssessmentRecord, error)
	ListChecklists(ctx context.Context, userID string, from, to time.Time) ([]*models.ChecklistRecord, error)

	ListAssessmentsSince(ctx context.Context, since time.Time) ([]*models.AssessmentRecord, error)
	ListChecklistsSince(ctx context.Context, since time.Time) ([]*models.ChecklistRecord, error)

	Close() error
}

var (
	_ Store                    = (*MemoryStore)(nil)
	_ services.SubmissionStore = (Store)(nil)
	_ services.HistoryStore    = (Store)(nil)
	_ services.AttentionStore  = (Store)(nil)
)
