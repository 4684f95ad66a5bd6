package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/soaringjerry/Guidance/internal/middleware"
	"github.com/soaringjerry/Guidance/internal/models"
	"github.com/soaringjerry/Guidance/internal/services"
)

// Options configures the services behind the router. Zero values fall back
// to service defaults.
type Options struct {
	Cache           services.InsightCache
	Rules           services.ChecklistRules
	HistoryWindow   time.Duration
	AttentionWindow time.Duration
	Log             *zap.Logger
}

type Router struct {
	submissions *services.SubmissionService
	history     *services.HistoryService
	attention   *services.AttentionService
	log         *zap.Logger
}

func NewRouter(store Store, opts Options) *Router {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	return &Router{
		submissions: services.NewSubmissionService(store, opts.Cache, opts.Rules, log.Named("submissions")),
		history:     services.NewHistoryService(store, opts.Cache, opts.HistoryWindow, log.Named("history")),
		attention:   services.NewAttentionService(store, opts.AttentionWindow, log.Named("attention")),
		log:         log,
	}
}

// Attention exposes the roster service to the scheduler.
func (rt *Router) Attention() *services.AttentionService { return rt.attention }

func (rt *Router) Register(mux *http.ServeMux) {
	auth := func(h http.HandlerFunc) http.Handler { return middleware.RequireAuth(h) }
	mux.Handle("/api/assessments/", auth(rt.handleSubmitAssessment))
	mux.Handle("/api/checklists", auth(rt.handleSubmitChecklist))
	mux.Handle("/api/preview/", auth(rt.handlePreview))
	mux.Handle("/api/trends", auth(rt.handleTrends))
	mux.Handle("/api/insights", auth(rt.handleInsights))
	mux.Handle("/api/export", auth(rt.handleExport))
	mux.Handle("/api/counselor/attention", middleware.RequireCounselor(http.HandlerFunc(rt.handleAttention)))
	mux.HandleFunc("/api/catalog", rt.handleCatalog)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (rt *Router) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if se, ok := services.AsServiceError(err); ok {
		status := http.StatusBadRequest
		switch se.Code {
		case services.ErrorForbidden:
			status = http.StatusForbidden
		case services.ErrorNotFound:
			status = http.StatusNotFound
		case services.ErrorUnauthorized:
			status = http.StatusUnauthorized
		case services.ErrorUnavailable:
			status = http.StatusServiceUnavailable
		}
		http.Error(w, se.Message, status)
		return
	}
	rt.log.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
	http.Error(w, "internal error", http.StatusInternalServerError)
}

func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method != method {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return false
	}
	return true
}

// targetUser resolves whose data a request reads. Only counselors may name
// another student via user_id.
func targetUser(r *http.Request) (string, error) {
	c, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		return "", services.Unauthorizedf("unauthorized")
	}
	uid := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if uid == "" || uid == c.UID {
		return c.UID, nil
	}
	if !c.Counselor() {
		return "", services.Forbiddenf("user_id is only available to counselors")
	}
	return uid, nil
}

func pathType(r *http.Request, prefix string) (models.AssessmentType, error) {
	name := strings.Trim(strings.TrimPrefix(r.URL.Path, prefix), "/")
	t, ok := models.ParseAssessmentType(name)
	if !ok {
		return "", services.NotFoundf("unknown assessment type %q", name)
	}
	return t, nil
}

type answersRequest struct {
	Answers map[int]int `json:"answers"`
}

type checklistRequest struct {
	Categories map[models.ChecklistCategory]map[int]int `json:"categories"`
}

// POST /api/assessments/{type}  {answers: {"0": 2, ...}}
func (rt *Router) handleSubmitAssessment(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	t, err := pathType(r, "/api/assessments/")
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	if t == models.AssessmentChecklist {
		rt.handleSubmitChecklist(w, r)
		return
	}
	var req answersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c, _ := middleware.ClaimsFromContext(r.Context())
	rec, err := rt.submissions.SubmitAssessment(r.Context(), services.SubmitRequest{UserID: c.UID, Type: t, Answers: req.Answers})
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// POST /api/checklists  {categories: {"emotional": {"0": 2}}}
func (rt *Router) handleSubmitChecklist(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	var req checklistRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	c, _ := middleware.ClaimsFromContext(r.Context())
	rec, err := rt.submissions.SubmitChecklist(r.Context(), c.UID, req.Categories)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, rec)
}

// POST /api/preview/{type}
func (rt *Router) handlePreview(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodPost) {
		return
	}
	t, err := pathType(r, "/api/preview/")
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	if t == models.AssessmentChecklist {
		var req checklistRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp, analysis := rt.submissions.PreviewChecklist(req.Categories)
		writeJSON(w, http.StatusOK, map[string]any{"categories": resp, "analysis": analysis})
		return
	}
	var req answersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	resp, res, err := rt.submissions.Preview(t, req.Answers)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"responses": resp, "result": res})
}

func parseTime(v string) (time.Time, error) {
	if v == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", v)
	if err != nil {
		return time.Time{}, services.Invalidf("invalid date %q", v)
	}
	return t, nil
}

func (rt *Router) trendFor(r *http.Request) (models.AssessmentType, []models.TrendPoint, error) {
	uid, err := targetUser(r)
	if err != nil {
		return "", nil, err
	}
	q := r.URL.Query()
	t, ok := models.ParseAssessmentType(q.Get("type"))
	if !ok {
		return "", nil, services.Invalidf("type required")
	}
	from, err := parseTime(q.Get("from"))
	if err != nil {
		return "", nil, err
	}
	to, err := parseTime(q.Get("to"))
	if err != nil {
		return "", nil, err
	}
	pts, err := rt.history.Trend(r.Context(), uid, t, from, to)
	return t, pts, err
}

// GET /api/trends?type=&from=&to=&user_id=
func (rt *Router) handleTrends(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	t, pts, err := rt.trendFor(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	body := map[string]any{"type": t, "points": pts}
	if tr, ok := services.CompareTrend(t, pts); ok {
		body["direction"] = tr.Direction
	}
	writeJSON(w, http.StatusOK, body)
}

// GET /api/insights?user_id=
func (rt *Router) handleInsights(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	uid, err := targetUser(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	insights, err := rt.history.Insights(r.Context(), uid)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"insights": insights})
}

// GET /api/export?type=&user_id=
func (rt *Router) handleExport(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	t, pts, err := rt.trendFor(r)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	b, err := services.ExportTrendCSV(t, pts)
	if err != nil {
		rt.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-trend.csv", t))
	_, _ = w.Write(b)
}

// GET /api/counselor/attention[?refresh=1]
func (rt *Router) handleAttention(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	entries, at := rt.attention.Snapshot()
	if at.IsZero() || r.URL.Query().Get("refresh") == "1" {
		if err := rt.attention.Refresh(r.Context()); err != nil {
			rt.writeError(w, r, err)
			return
		}
		entries, at = rt.attention.Snapshot()
	}
	writeJSON(w, http.StatusOK, map[string]any{"refreshed_at": at, "students": entries})
}

// GET /api/catalog
func (rt *Router) handleCatalog(w http.ResponseWriter, r *http.Request) {
	if !allowMethod(w, r, http.MethodGet) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"instruments": services.Instruments(),
		"checklist":   services.ChecklistCatalog(),
	})
}
