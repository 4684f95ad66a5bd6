package api

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/soaringjerry/Guidance/internal/middleware"
	"github.com/soaringjerry/Guidance/internal/models"
	"github.com/soaringjerry/Guidance/internal/services"
)

const testSecret = "router-test-secret"

type testServer struct {
	handler http.Handler
	auth    *middleware.Auth
	store   *MemoryStore
}

func newTestServer() *testServer {
	store := NewMemoryStore()
	rt := NewRouter(store, Options{Rules: services.DefaultChecklistRules()})
	mux := http.NewServeMux()
	rt.Register(mux)
	auth := middleware.NewAuth(testSecret)
	return &testServer{handler: auth.WithAuth(mux), auth: auth, store: store}
}

func (s *testServer) do(t *testing.T, method, path, uid, role string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if uid != "" {
		tok, err := s.auth.SignToken(uid, role, time.Hour)
		if err != nil {
			t.Fatalf("sign: %v", err)
		}
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)
	return rr
}

func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode %q: %v", rr.Body.String(), err)
	}
	return out
}

func TestSubmitAssessmentFlow(t *testing.T) {
	s := newTestServer()
	rr := s.do(t, http.MethodPost, "/api/assessments/stress", "stu1", middleware.RoleStudent, map[string]any{
		"answers": map[string]int{"0": 3, "1": 2, "2": 4, "3": 1, "4": 0, "5": 3, "6": 2, "7": 1, "8": 4, "9": 2},
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("status %d: %s", rr.Code, rr.Body.String())
	}
	rec := decode[models.AssessmentRecord](t, rr)
	if rec.TotalScore == nil || *rec.TotalScore != 30 || rec.Level != models.LevelHigh || rec.UserID != "stu1" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	rr = s.do(t, http.MethodGet, "/api/trends?type=stress", "stu1", middleware.RoleStudent, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("trends status %d", rr.Code)
	}
	trend := decode[struct {
		Points []models.TrendPoint `json:"points"`
	}](t, rr)
	if len(trend.Points) != 1 || *trend.Points[0].Score != 30 {
		t.Fatalf("trend = %+v", trend)
	}

	rr = s.do(t, http.MethodGet, "/api/insights", "stu1", middleware.RoleStudent, nil)
	insights := decode[struct {
		Insights []models.Insight `json:"insights"`
	}](t, rr)
	if len(insights.Insights) == 0 || insights.Insights[0].Severity != models.SeverityHigh {
		t.Fatalf("insights = %+v", insights)
	}
}

func TestSubmitRequiresAuth(t *testing.T) {
	s := newTestServer()
	rr := s.do(t, http.MethodPost, "/api/assessments/anxiety", "", "", map[string]any{"answers": map[string]int{}})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestUnknownTypeAndMethod(t *testing.T) {
	s := newTestServer()
	if rr := s.do(t, http.MethodPost, "/api/assessments/sleep", "stu1", "", map[string]any{}); rr.Code != http.StatusNotFound {
		t.Fatalf("unknown type status = %d", rr.Code)
	}
	if rr := s.do(t, http.MethodGet, "/api/assessments/anxiety", "stu1", "", nil); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("wrong method status = %d", rr.Code)
	}
	if rr := s.do(t, http.MethodGet, "/api/trends?type=bogus", "stu1", "", nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad trend type status = %d", rr.Code)
	}
	if rr := s.do(t, http.MethodGet, "/api/trends?type=anxiety&from=yesterday", "stu1", "", nil); rr.Code != http.StatusBadRequest {
		t.Fatalf("bad date status = %d", rr.Code)
	}
}

func TestChecklistSubmissionAndPreview(t *testing.T) {
	s := newTestServer()
	body := map[string]any{"categories": map[string]map[string]int{"emotional": {"20": 1}}}
	rr := s.do(t, http.MethodPost, "/api/preview/checklist", "stu1", "", body)
	if rr.Code != http.StatusOK {
		t.Fatalf("preview status %d", rr.Code)
	}
	preview := decode[struct {
		Analysis models.ChecklistAnalysis `json:"analysis"`
	}](t, rr)
	if preview.Analysis.RiskLevel != models.LevelCritical {
		t.Fatalf("critical item should be critical: %+v", preview.Analysis)
	}
	if len(s.store.checklists) != 0 {
		t.Fatalf("preview persisted a record")
	}

	rr = s.do(t, http.MethodPost, "/api/checklists", "stu1", "", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("submit status %d", rr.Code)
	}
	rec := decode[models.ChecklistRecord](t, rr)
	if rec.Analysis.UrgencyLevel != models.UrgencyImmediate || !rec.Analysis.NeedsAttention {
		t.Fatalf("unexpected analysis: %+v", rec.Analysis)
	}
}

func TestUserIDOnlyForCounselors(t *testing.T) {
	s := newTestServer()
	s.do(t, http.MethodPost, "/api/assessments/anxiety", "stu1", "", map[string]any{"answers": map[string]int{"0": 3}})

	if rr := s.do(t, http.MethodGet, "/api/trends?type=anxiety&user_id=stu1", "stu2", middleware.RoleStudent, nil); rr.Code != http.StatusForbidden {
		t.Fatalf("student reading another student: %d", rr.Code)
	}
	rr := s.do(t, http.MethodGet, "/api/trends?type=anxiety&user_id=stu1", "couns", middleware.RoleCounselor, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("counselor status %d", rr.Code)
	}
	trend := decode[struct {
		Points []models.TrendPoint `json:"points"`
	}](t, rr)
	if len(trend.Points) != 1 {
		t.Fatalf("counselor should see stu1's record: %+v", trend)
	}
}

func TestCounselorAttention(t *testing.T) {
	s := newTestServer()
	s.do(t, http.MethodPost, "/api/assessments/suicide", "stu1", "", map[string]any{
		"answers": map[string]int{"0": 1, "1": 1, "3": 1},
	})
	if rr := s.do(t, http.MethodGet, "/api/counselor/attention", "stu1", middleware.RoleStudent, nil); rr.Code != http.StatusForbidden {
		t.Fatalf("student status = %d", rr.Code)
	}
	rr := s.do(t, http.MethodGet, "/api/counselor/attention", "couns", middleware.RoleCounselor, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("counselor status = %d", rr.Code)
	}
	roster := decode[struct {
		Students []services.AttentionEntry `json:"students"`
	}](t, rr)
	if len(roster.Students) != 1 || !roster.Students[0].Urgent || roster.Students[0].UserID != "stu1" {
		t.Fatalf("roster = %+v", roster)
	}
}

func TestExportCSV(t *testing.T) {
	s := newTestServer()
	s.do(t, http.MethodPost, "/api/assessments/depression", "stu1", "", map[string]any{"answers": map[string]int{"0": 2}})
	rr := s.do(t, http.MethodGet, "/api/export?type=depression", "stu1", "", nil)
	if rr.Code != http.StatusOK || !strings.HasPrefix(rr.Header().Get("Content-Type"), "text/csv") {
		t.Fatalf("export status %d type %q", rr.Code, rr.Header().Get("Content-Type"))
	}
	recs, err := csv.NewReader(strings.NewReader(rr.Body.String())).ReadAll()
	if err != nil || len(recs) != 2 {
		t.Fatalf("csv rows = %v, %v", recs, err)
	}
	if recs[1][0] != "depression" || recs[1][3] != "2" {
		t.Fatalf("row = %v", recs[1])
	}
}

func TestCatalogIsPublic(t *testing.T) {
	s := newTestServer()
	rr := s.do(t, http.MethodGet, "/api/catalog", "", "", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("catalog status %d", rr.Code)
	}
	cat := decode[struct {
		Instruments []services.Instrument           `json:"instruments"`
		Checklist   []services.ChecklistCategoryDef `json:"checklist"`
	}](t, rr)
	if len(cat.Instruments) != 4 || len(cat.Checklist) != 10 {
		t.Fatalf("catalog sizes %d/%d", len(cat.Instruments), len(cat.Checklist))
	}
}

func TestCounselorAttentionRefresh(t *testing.T) {
	s := newTestServer()
	if rr := s.do(t, http.MethodGet, "/api/counselor/attention", "couns", middleware.RoleCounselor, nil); rr.Code != http.StatusOK {
		t.Fatalf("initial status = %d", rr.Code)
	}
	s.do(t, http.MethodPost, "/api/assessments/suicide", "stu2", "", map[string]any{
		"answers": map[string]int{"0": 1, "1": 1, "4": 1},
	})
	stale := decode[struct {
		Students []services.AttentionEntry `json:"students"`
	}](t, s.do(t, http.MethodGet, "/api/counselor/attention", "couns", middleware.RoleCounselor, nil))
	if len(stale.Students) != 0 {
		t.Fatalf("snapshot should be unchanged until refresh: %+v", stale)
	}
	fresh := decode[struct {
		Students []services.AttentionEntry `json:"students"`
	}](t, s.do(t, http.MethodGet, "/api/counselor/attention?refresh=1", "couns", middleware.RoleCounselor, nil))
	if len(fresh.Students) != 1 || fresh.Students[0].UserID != "stu2" {
		t.Fatalf("refreshed roster = %+v", fresh)
	}
}
