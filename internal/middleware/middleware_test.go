package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/futurenote/futurenote/internal/ctxkeys"
	"github.com/futurenote/futurenote/internal/model"
	"github.com/futurenote/futurenote/internal/ratelimit"
	"github.com/futurenote/futurenote/internal/service"
)

func okHandler(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		hops       int
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", 0, "203.0.113.7:51234", nil, "203.0.113.7"},
		{"ipv6 remote addr", 0, "[2001:db8::1]:443", nil, "2001:db8::1"},
		{"forwarded for ignored without proxies", 0, "203.0.113.7:80", map[string]string{"X-Forwarded-For": "198.51.100.2"}, "203.0.113.7"},
		{"real ip ignored without proxies", 0, "203.0.113.7:80", map[string]string{"X-Real-IP": "198.51.100.9"}, "203.0.113.7"},
		{"one proxy takes last hop", 1, "10.0.0.1:80", map[string]string{"X-Forwarded-For": "6.6.6.6, 198.51.100.2"}, "198.51.100.2"},
		{"two proxies", 2, "10.0.0.1:80", map[string]string{"X-Forwarded-For": "6.6.6.6, 198.51.100.2, 10.0.0.2"}, "198.51.100.2"},
		{"short chain", 3, "10.0.0.1:80", map[string]string{"X-Forwarded-For": "198.51.100.2"}, "198.51.100.2"},
		{"real ip behind proxy", 1, "10.0.0.1:80", map[string]string{"X-Real-IP": " 198.51.100.9 "}, "198.51.100.9"},
		{"proxy without headers", 1, "10.0.0.1:80", nil, "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				r.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(r, tt.hops))
		})
	}
}

func TestRateLimit_SpoofedForwardedForDoesNotReset(t *testing.T) {
	limiter := ratelimit.NewInMemory()
	rule := ratelimit.Rule{MaxRequests: 3, Window: time.Hour}

	for _, hops := range []int{0, 1} {
		h := Chain(RateLimit(limiter, "goal-submit-"+strconv.Itoa(hops), rule)(okHandler), ClientIP(hops))

		codes := make([]int, 0, 4)
		for i := 0; i < 4; i++ {
			r := httptest.NewRequest(http.MethodPost, "/api/goals/submit", nil)
			r.RemoteAddr = "10.0.0.1:1234"
			// each request claims a different origin left of the proxy's entry
			r.Header.Set("X-Forwarded-For", "192.0.2."+strconv.Itoa(i+1)+", 203.0.113.7")
			w := httptest.NewRecorder()
			h.ServeHTTP(w, r)
			codes = append(codes, w.Code)
		}

		assert.Equal(t, []int{200, 200, 200, 429}, codes, "hops=%d", hops)
	}
}

func TestRateLimit_RejectsAfterMax(t *testing.T) {
	limiter := ratelimit.NewInMemory()
	rule := ratelimit.Rule{MaxRequests: 3, Window: time.Hour}
	h := Chain(RateLimit(limiter, "goal-submit", rule)(okHandler), ClientIP(0))

	for i := 0; i < 3; i++ {
		r := httptest.NewRequest(http.MethodPost, "/api/goals/submit", nil)
		r.RemoteAddr = "203.0.113.7:1234"
		w := httptest.NewRecorder()
		h.ServeHTTP(w, r)
		require.Equal(t, http.StatusOK, w.Code, "request %d", i+1)
		assert.Equal(t, []string{"2", "1", "0"}[i], w.Header().Get("X-RateLimit-Remaining"))
	}

	r := httptest.NewRequest(http.MethodPost, "/api/goals/submit", nil)
	r.RemoteAddr = "203.0.113.7:1234"
	w := httptest.NewRecorder()
	h.ServeHTTP(w, r)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.NotEmpty(t, w.Header().Get("X-RateLimit-Reset"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))

	// other clients keep their own window
	r = httptest.NewRequest(http.MethodPost, "/api/goals/submit", nil)
	r.RemoteAddr = "198.51.100.1:1234"
	w = httptest.NewRecorder()
	h.ServeHTTP(w, r)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_PrefixesAreIndependent(t *testing.T) {
	limiter := ratelimit.NewInMemory()
	rule := ratelimit.Rule{MaxRequests: 1, Window: time.Hour}
	submit := RateLimit(limiter, "goal-submit", rule)(okHandler)
	report := RateLimit(limiter, "goal-report", rule)(okHandler)

	for _, h := range []http.HandlerFunc{submit, report} {
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		w := httptest.NewRecorder()
		h(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}

func TestRequireAdmin(t *testing.T) {
	auth := service.NewAdminAuthService(nil, "test-secret", time.Hour, false)
	var got *ctxkeys.Admin
	h := RequireAdmin(auth)(func(w http.ResponseWriter, r *http.Request) {
		got = ctxkeys.AdminFrom(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	t.Run("no cookie", func(t *testing.T) {
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil))
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("bad token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		r.AddCookie(&http.Cookie{Name: service.AdminCookieName, Value: "not-a-jwt"})
		w := httptest.NewRecorder()
		h(w, r)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Contains(t, w.Header().Get("Set-Cookie"), service.AdminCookieName+"=")
	})

	t.Run("valid token", func(t *testing.T) {
		token, _, err := auth.GenerateJWT(&model.Admin{ID: "admin-1", Email: "mod@example.com", Role: model.AdminRoleModerator})
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil)
		r.AddCookie(&http.Cookie{Name: service.AdminCookieName, Value: token})
		w := httptest.NewRecorder()
		h(w, r)

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, got)
		assert.Equal(t, "admin-1", got.ID)
		assert.Equal(t, model.AdminRoleModerator, got.Role)
	})
}

func TestCSRFProtection(t *testing.T) {
	h := CSRFProtection(http.HandlerFunc(okHandler))

	t.Run("public endpoints untouched", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/goals/submit", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("login exempt", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/admin/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("admin mutation without token", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodPatch, "/api/admin/goals", nil))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("token round trip", func(t *testing.T) {
		w := httptest.NewRecorder()
		h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/admin/stats", nil))
		require.Equal(t, http.StatusOK, w.Code)

		token := w.Header().Get(csrfHeader)
		require.NotEmpty(t, token)
		cookies := w.Result().Cookies()
		require.Len(t, cookies, 1)
		assert.Equal(t, token, cookies[0].Value)

		r := httptest.NewRequest(http.MethodDelete, "/api/admin/goals?id=x", nil)
		r.AddCookie(cookies[0])
		r.Header.Set(csrfHeader, token)
		w = httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusOK, w.Code)

		r = httptest.NewRequest(http.MethodDelete, "/api/admin/goals?id=x", nil)
		r.AddCookie(cookies[0])
		r.Header.Set(csrfHeader, strings.Repeat("A", len(token)))
		w = httptest.NewRecorder()
		h.ServeHTTP(w, r)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestRecover(t *testing.T) {
	h := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "boom")
}

func TestSecurityHeaders(t *testing.T) {
	var nonce string
	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nonce = templ.GetNonce(r.Context())
	}), NonceMiddleware, SecurityHeaders)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/goals/respond", nil))

	require.NotEmpty(t, nonce)
	assert.Contains(t, w.Header().Get("Content-Security-Policy"), "'nonce-"+nonce+"'")
	assert.Equal(t, "no-referrer", w.Header().Get("Referrer-Policy"))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))
}

func TestRequestLogging_CapturesStatus(t *testing.T) {
	h := RequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/goals", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
