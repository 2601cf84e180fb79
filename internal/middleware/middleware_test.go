package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/aawaaz/hostel-server/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestRequireRole(t *testing.T) {
	issuer := session.NewIssuer("test-secret", time.Hour)
	wardenToken, _, err := issuer.Issue(session.RoleWarden, "")
	require.NoError(t, err)
	studentToken, _, err := issuer.Issue(session.RoleStudent, "S-101")
	require.NoError(t, err)
	foreign, _, err := session.NewIssuer("other-secret", time.Hour).Issue(session.RoleWarden, "")
	require.NoError(t, err)

	var seen *session.Claims
	h := RequireRole(issuer, session.RoleWarden)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = session.FromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"garbage token", "Bearer not-a-token", http.StatusUnauthorized},
		{"wrong secret", "Bearer " + foreign, http.StatusUnauthorized},
		{"wrong role", "Bearer " + studentToken, http.StatusForbidden},
		{"warden", "Bearer " + wardenToken, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	require.NotNil(t, seen)
	assert.Equal(t, session.RoleWarden, seen.Role)
}

func TestRequireRole_AnyRole(t *testing.T) {
	issuer := session.NewIssuer("test-secret", time.Hour)
	token, _, err := issuer.Issue(session.RoleMaintenance, "staff2")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	RequireRole(issuer)(okHandler).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders()(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}

func TestStripIPHeaders(t *testing.T) {
	var forwarded []string
	h := StripIPHeaders()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, name := range []string{"X-Forwarded-For", "X-Real-IP", "True-Client-IP", "Forwarded"} {
			if v := r.Header.Get(name); v != "" {
				forwarded = append(forwarded, v)
			}
		}
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Forwarded-For", "203.0.113.1")
	req.Header.Set("X-Real-IP", "203.0.113.2")
	req.Header.Set("True-Client-IP", "203.0.113.3")
	req.Header.Set("Forwarded", "for=203.0.113.4")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Empty(t, forwarded)
}

func TestWriteError_EscapesMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusBadRequest, `bad "quote" \ here`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, `bad "quote" \ here`, body["error"])
}

func TestStructuredLogger_PassesThroughStatus(t *testing.T) {
	h := StructuredLogger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestMemoryLimiter_Window(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(2)
	l.clock = func() time.Time { return now }
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		ok, err := l.Allow(ctx, "a")
		require.NoError(t, err)
		assert.Equal(t, want, ok, "request %d", i+1)
	}

	ok, _ := l.Allow(ctx, "b")
	assert.True(t, ok, "keys are independent")

	now = now.Add(61 * time.Second)
	ok, _ = l.Allow(ctx, "a")
	assert.True(t, ok, "window resets after a minute")
}

func TestMemoryLimiter_Sweep(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	l := NewMemoryLimiter(5)
	l.clock = func() time.Time { return now }

	_, _ = l.Allow(context.Background(), "stale")
	now = now.Add(3 * time.Minute)
	_, _ = l.Allow(context.Background(), "fresh")
	l.sweep()

	assert.NotContains(t, l.clients, "stale")
	assert.Contains(t, l.clients, "fresh")
}

type stubLimiter struct {
	allowed bool
	err     error
	keys    []string
}

func (s *stubLimiter) Allow(_ context.Context, key string) (bool, error) {
	s.keys = append(s.keys, key)
	return s.allowed, s.err
}

func TestRateLimit(t *testing.T) {
	logger := zap.NewNop().Sugar()

	t.Run("rejects over budget", func(t *testing.T) {
		stub := &stubLimiter{allowed: false}
		req := httptest.NewRequest(http.MethodGet, "/api/v1/staff", nil)
		req.RemoteAddr = "10.0.0.7:5555"
		rec := httptest.NewRecorder()
		RateLimit(stub, logger)(okHandler).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.JSONEq(t, `{"error": "Rate limit exceeded"}`, rec.Body.String())
		assert.Equal(t, []string{"10.0.0.7 /api/v1/staff"}, stub.keys)
	})

	t.Run("fails open on limiter error", func(t *testing.T) {
		stub := &stubLimiter{allowed: false, err: errors.New("redis down")}
		rec := httptest.NewRecorder()
		RateLimit(stub, logger)(okHandler).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
