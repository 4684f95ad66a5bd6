package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/soaringjerry/Guidance/internal/api"
	"github.com/soaringjerry/Guidance/internal/models"
)

// dateLayout is fixed width so stored dates order correctly as text.
const dateLayout = "2006-01-02T15:04:05.000000000Z"

type SQLiteStore struct {
	db  *sql.DB
	log *zap.Logger
}

var _ api.Store = (*SQLiteStore)(nil)

// Open opens (creating if needed) the database at path and applies migrations.
// ":memory:" opens a private in-memory database.
func Open(path, migrationsDir string, log *zap.Logger) (*SQLiteStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("sqlite path is required")
	}
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite dir: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?cache=shared&_busy_timeout=5000", filepath.ToSlash(path))
	}
	sqlDB, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if path == ":memory:" {
		// each connection would otherwise see its own empty database
		sqlDB.SetMaxOpenConns(1)
	}
	if err := RunMigrations(sqlDB, migrationsDir); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	store, err := NewSQLiteStore(sqlDB, log)
	if err != nil {
		_ = sqlDB.Close()
		return nil, err
	}
	return store, nil
}

func NewSQLiteStore(db *sql.DB, log *zap.Logger) (*SQLiteStore, error) {
	if db == nil {
		return nil, errors.New("nil db")
	}
	if log == nil {
		log = zap.NewNop()
	}
	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	}
	for _, stmt := range pragmas {
		if _, err := db.Exec(stmt); err != nil {
			return nil, fmt.Errorf("apply sqlite pragma %q: %w", stmt, err)
		}
	}
	return &SQLiteStore{db: db, log: log}, nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }

func (s *SQLiteStore) logErr(prefix string, err error) {
	if err != nil {
		s.log.Warn("sqlite store", zap.String("op", prefix), zap.Error(err))
	}
}

func formatDate(t time.Time) string { return t.UTC().Format(dateLayout) }

func parseDate(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

func boolToInt64(v bool) int64 {
	if v {
		return 1
	}
	return 0
}

func toNullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func fromNullInt(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

func encodeJSON(v any) (string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (s *SQLiteStore) AddAssessment(ctx context.Context, rec *models.AssessmentRecord) error {
	responses, err := encodeJSON(rec.Responses)
	if err != nil {
		return fmt.Errorf("encode responses: %w", err)
	}
	analysis, err := encodeJSON(rec.Analysis)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO assessments
		(id, user_id, assessment_type, total_score, level, requires_intervention, assessment_date, responses_json, analysis_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, string(rec.Type), toNullInt(rec.TotalScore), rec.Level,
		boolToInt64(rec.RequiresIntervention), formatDate(rec.AssessmentDate), responses, analysis)
	if err != nil {
		s.logErr("AddAssessment", err)
		return fmt.Errorf("insert assessment: %w", err)
	}
	return nil
}

func (s *SQLiteStore) AddChecklist(ctx context.Context, rec *models.ChecklistRecord) error {
	categories, err := encodeJSON(rec.Categories)
	if err != nil {
		return fmt.Errorf("encode categories: %w", err)
	}
	analysis, err := encodeJSON(rec.Analysis)
	if err != nil {
		return fmt.Errorf("encode analysis: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `INSERT INTO checklists
		(id, user_id, assessment_date, risk_level, urgency_level, total_checked, categories_json, analysis_json)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID, rec.UserID, formatDate(rec.AssessmentDate), rec.Analysis.RiskLevel,
		rec.Analysis.UrgencyLevel, rec.Analysis.TotalProblemsChecked, categories, analysis)
	if err != nil {
		s.logErr("AddChecklist", err)
		return fmt.Errorf("insert checklist: %w", err)
	}
	return nil
}

const assessmentColumns = `id, user_id, assessment_type, total_score, level, requires_intervention, assessment_date, responses_json, analysis_json`

func (s *SQLiteStore) ListAssessments(ctx context.Context, userID string, t models.AssessmentType, from, to time.Time) ([]*models.AssessmentRecord, error) {
	return s.queryAssessments(ctx, `SELECT `+assessmentColumns+` FROM assessments
		WHERE user_id = ? AND assessment_type = ? AND assessment_date >= ? AND assessment_date <= ?
		ORDER BY assessment_date ASC, id ASC`,
		userID, string(t), formatDate(from), formatDate(to))
}

func (s *SQLiteStore) ListAssessmentsSince(ctx context.Context, since time.Time) ([]*models.AssessmentRecord, error) {
	return s.queryAssessments(ctx, `SELECT `+assessmentColumns+` FROM assessments
		WHERE assessment_date >= ? ORDER BY assessment_date ASC, id ASC`, formatDate(since))
}

func (s *SQLiteStore) queryAssessments(ctx context.Context, query string, args ...any) ([]*models.AssessmentRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query assessments: %w", err)
	}
	defer rows.Close()
	out := []*models.AssessmentRecord{}
	for rows.Next() {
		var (
			rec          models.AssessmentRecord
			typ, date    string
			score        sql.NullInt64
			intervention int64
			responses    string
			analysis     string
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &typ, &score, &rec.Level, &intervention, &date, &responses, &analysis); err != nil {
			return nil, fmt.Errorf("scan assessment: %w", err)
		}
		rec.Type = models.AssessmentType(typ)
		rec.TotalScore = fromNullInt(score)
		rec.RequiresIntervention = intervention != 0
		if rec.AssessmentDate, err = parseDate(date); err != nil {
			s.logErr("parse assessment date "+rec.ID, err)
			continue
		}
		if err := json.Unmarshal([]byte(responses), &rec.Responses); err != nil {
			s.logErr("decode responses "+rec.ID, err)
		}
		if err := json.Unmarshal([]byte(analysis), &rec.Analysis); err != nil {
			s.logErr("decode analysis "+rec.ID, err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}

const checklistColumns = `id, user_id, assessment_date, categories_json, analysis_json`

func (s *SQLiteStore) ListChecklists(ctx context.Context, userID string, from, to time.Time) ([]*models.ChecklistRecord, error) {
	return s.queryChecklists(ctx, `SELECT `+checklistColumns+` FROM checklists
		WHERE user_id = ? AND assessment_date >= ? AND assessment_date <= ?
		ORDER BY assessment_date ASC, id ASC`,
		userID, formatDate(from), formatDate(to))
}

func (s *SQLiteStore) ListChecklistsSince(ctx context.Context, since time.Time) ([]*models.ChecklistRecord, error) {
	return s.queryChecklists(ctx, `SELECT `+checklistColumns+` FROM checklists
		WHERE assessment_date >= ? ORDER BY assessment_date ASC, id ASC`, formatDate(since))
}

func (s *SQLiteStore) queryChecklists(ctx context.Context, query string, args ...any) ([]*models.ChecklistRecord, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query checklists: %w", err)
	}
	defer rows.Close()
	out := []*models.ChecklistRecord{}
	for rows.Next() {
		var (
			rec                  models.ChecklistRecord
			date                 string
			categories, analysis string
		)
		if err := rows.Scan(&rec.ID, &rec.UserID, &date, &categories, &analysis); err != nil {
			return nil, fmt.Errorf("scan checklist: %w", err)
		}
		if rec.AssessmentDate, err = parseDate(date); err != nil {
			s.logErr("parse checklist date "+rec.ID, err)
			continue
		}
		if err := json.Unmarshal([]byte(categories), &rec.Categories); err != nil {
			s.logErr("decode categories "+rec.ID, err)
		}
		if err := json.Unmarshal([]byte(analysis), &rec.Analysis); err != nil {
			s.logErr("decode analysis "+rec.ID, err)
		}
		out = append(out, &rec)
	}
	return out, rows.Err()
}
