package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
}

func TestWithAuthAttachesClaims(t *testing.T) {
	auth := NewAuth("test-secret")
	tok, err := auth.SignToken("u1", RoleCounselor, time.Hour)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	var got *Claims
	h := auth.WithAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = ClaimsFromContext(r.Context())
	}))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	h.ServeHTTP(httptest.NewRecorder(), req)
	if got == nil || got.UID != "u1" || !got.Counselor() {
		t.Fatalf("claims = %+v", got)
	}
}

func TestWithAuthRejectsForeignSecret(t *testing.T) {
	tok, _ := NewAuth("other").SignToken("u1", RoleStudent, time.Hour)
	h := NewAuth("test-secret").WithAuth(RequireAuth(okHandler()))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	auth := NewAuth("test-secret")
	tok, _ := auth.SignToken("u1", RoleStudent, -time.Minute)
	if _, err := auth.parseToken(tok); err == nil {
		t.Fatalf("expired token accepted")
	}
}

func TestRequireCounselor(t *testing.T) {
	auth := NewAuth("test-secret")
	h := auth.WithAuth(RequireCounselor(okHandler()))
	cases := []struct {
		role string
		want int
	}{
		{"", http.StatusUnauthorized},
		{RoleStudent, http.StatusForbidden},
		{RoleCounselor, http.StatusOK},
	}
	for _, c := range cases {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if c.role != "" {
			tok, _ := auth.SignToken("u1", c.role, time.Hour)
			req.Header.Set("Authorization", "Bearer "+tok)
		}
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		if rr.Code != c.want {
			t.Fatalf("role %q: status %d, want %d", c.role, rr.Code, c.want)
		}
	}
}

func TestRateLimiter(t *testing.T) {
	l := NewRateLimiter(1, 2)
	h := l.Middleware(okHandler())
	codes := []int{}
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, req)
		codes = append(codes, rr.Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Fatalf("codes = %v", codes)
	}
	other := httptest.NewRequest(http.MethodGet, "/", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, other)
	if rr.Code != http.StatusOK {
		t.Fatalf("limits must be per IP")
	}

	base := time.Now()
	l.now = func() time.Time { return base.Add(3 * time.Hour) }
	if removed := l.Cleanup(); removed != 2 {
		t.Fatalf("cleanup removed %d", removed)
	}
}

func TestRateLimiterDisabled(t *testing.T) {
	h := NewRateLimiter(0, 0).Middleware(okHandler())
	for i := 0; i < 50; i++ {
		rr := httptest.NewRecorder()
		h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
		if rr.Code != http.StatusOK {
			t.Fatalf("disabled limiter rejected request %d", i)
		}
	}
}

func TestChainHeadersAndRequestID(t *testing.T) {
	h := Chain(okHandler(), RequestLogger(zap.NewNop()), CORS, SecureHeaders, NoStore)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	for _, k := range []string{"X-Request-ID", "Access-Control-Allow-Origin", "X-Content-Type-Options", "Cache-Control"} {
		if rr.Header().Get(k) == "" {
			t.Fatalf("missing header %s", k)
		}
	}

	pre := httptest.NewRecorder()
	h.ServeHTTP(pre, httptest.NewRequest(http.MethodOptions, "/", nil))
	if pre.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d", pre.Code)
	}
}
