package services

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/soaringjerry/Guidance/internal/models"
)

func TestAttentionSweepOrdering(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	store := &stubStore{
		assessments: []*models.AssessmentRecord{
			{UserID: "calm", Type: models.AssessmentAnxiety, Level: models.LevelMinimal, AssessmentDate: now.AddDate(0, 0, -1)},
			{UserID: "anxious", Type: models.AssessmentAnxiety, Level: models.LevelModerate, AssessmentDate: now.AddDate(0, 0, -2)},
			{UserID: "urgent", Type: models.AssessmentSuicide, Level: models.LevelLow, RequiresIntervention: true, AssessmentDate: now.AddDate(0, 0, -5)},
			{UserID: "recovered", Type: models.AssessmentDepression, Level: models.LevelSevere, AssessmentDate: now.AddDate(0, 0, -20)},
			{UserID: "recovered", Type: models.AssessmentDepression, Level: models.LevelMild, AssessmentDate: now.AddDate(0, 0, -3)},
			{UserID: "old", Type: models.AssessmentStress, Level: models.LevelHigh, AssessmentDate: now.AddDate(0, 0, -90)},
		},
		checklists: []*models.ChecklistRecord{
			{UserID: "listed", AssessmentDate: now.AddDate(0, 0, -1), Analysis: models.ChecklistAnalysis{RiskLevel: models.LevelHigh, NeedsAttention: true}},
		},
	}
	svc := NewAttentionService(store, 30*24*time.Hour, zap.NewNop())
	svc.now = fixedClock(now)

	entries, err := svc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	want := []string{"urgent", "listed", "anxious"}
	if len(entries) != len(want) {
		t.Fatalf("entries = %+v", entries)
	}
	for i, id := range want {
		if entries[i].UserID != id {
			t.Fatalf("position %d: %s, want %s", i, entries[i].UserID, id)
		}
	}
	if !entries[0].Urgent || entries[0].Severity != models.SeverityHigh {
		t.Fatalf("urgent entry: %+v", entries[0])
	}
}

func TestAttentionRefreshSnapshot(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	store := &stubStore{assessments: []*models.AssessmentRecord{
		{UserID: "u1", Type: models.AssessmentStress, Level: models.LevelHigh, AssessmentDate: now},
	}}
	svc := NewAttentionService(store, 0, nil)
	svc.now = fixedClock(now)
	if entries, at := svc.Snapshot(); len(entries) != 0 || !at.IsZero() {
		t.Fatalf("snapshot before refresh should be empty")
	}
	if err := svc.Refresh(context.Background()); err != nil {
		t.Fatalf("refresh: %v", err)
	}
	entries, at := svc.Snapshot()
	if len(entries) != 1 || !at.Equal(now) {
		t.Fatalf("snapshot = %+v at %v", entries, at)
	}

	store.err = errStub
	if err := svc.Refresh(context.Background()); err == nil {
		t.Fatalf("expected refresh error")
	}
	if entries, _ := svc.Snapshot(); len(entries) != 1 {
		t.Fatalf("failed refresh must keep the previous snapshot")
	}
}
