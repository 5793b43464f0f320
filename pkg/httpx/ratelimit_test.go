package httpx

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/telecrm/telecrm/internal/crm/domain"
)

func TestIPKeyExtractor(t *testing.T) {
	t.Parallel()

	newRequest := func(remoteAddr string, headers map[string]string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.RemoteAddr = remoteAddr
		for k, v := range headers {
			r.Header.Set(k, v)
		}
		return r
	}

	t.Run("remote addr without proxy headers", func(t *testing.T) {
		require.Equal(t, "203.0.113.9", IPKeyExtractor(newRequest("203.0.113.9:51724", nil)))
	})

	t.Run("x-forwarded-for takes the first hop", func(t *testing.T) {
		r := newRequest("10.0.0.1:80", map[string]string{
			"X-Forwarded-For": "198.51.100.7, 10.0.0.2, 10.0.0.1",
		})
		require.Equal(t, "198.51.100.7", IPKeyExtractor(r))
	})

	t.Run("x-real-ip fallback", func(t *testing.T) {
		r := newRequest("10.0.0.1:80", map[string]string{"X-Real-IP": "198.51.100.8"})
		require.Equal(t, "198.51.100.8", IPKeyExtractor(r))
	})
}

func TestUserKeyExtractor(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	require.Empty(t, UserKeyExtractor(r))

	r = r.WithContext(WithIdentity(r.Context(), Identity{UserID: 42, Role: domain.RoleAgent}))
	require.Equal(t, "42", UserKeyExtractor(r))
}

func TestCompositeKeyExtractor(t *testing.T) {
	t.Parallel()

	ex := CompositeKeyExtractor(":",
		func(*http.Request) string { return "a" },
		func(*http.Request) string { return "" },
		func(*http.Request) string { return "b" },
	)
	require.Equal(t, "a:b", ex(httptest.NewRequest(http.MethodGet, "/", nil)))
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	cfg := RateLimitConfig{RequestsPerWindow: 2, Window: time.Minute, Burst: 2}
	h := Chain(okHandler, RateLimitByIP(cfg))

	serve := func(ip string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, "/api/login", nil)
		r.RemoteAddr = ip + ":12345"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	t.Run("burst passes, overflow is rejected with retry hint", func(t *testing.T) {
		require.Equal(t, http.StatusOK, serve("203.0.113.1").Code)
		require.Equal(t, http.StatusOK, serve("203.0.113.1").Code)

		rec := serve("203.0.113.1")
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
		require.Contains(t, rec.Body.String(), "rate_limit_exceeded")
	})

	t.Run("buckets are keyed per client", func(t *testing.T) {
		require.Equal(t, http.StatusTooManyRequests, serve("203.0.113.1").Code)
		require.Equal(t, http.StatusOK, serve("203.0.113.2").Code)
	})
}

func TestRateLimitByIPAndFormField(t *testing.T) {
	t.Parallel()

	cfg := RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	h := Chain(okHandler, RateLimitByIPAndFormField(cfg, "email"))

	serve := func(ip, email string) *httptest.ResponseRecorder {
		form := url.Values{"email": {email}}
		r := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(form.Encode()))
		r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		r.RemoteAddr = ip + ":12345"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, r)
		return rec
	}

	// One bucket per IP+email pair: hammering one account from one address
	// does not lock out other accounts or other addresses.
	require.Equal(t, http.StatusOK, serve("203.0.113.5", "a@example.com").Code)
	require.Equal(t, http.StatusTooManyRequests, serve("203.0.113.5", "a@example.com").Code)
	require.Equal(t, http.StatusOK, serve("203.0.113.5", "b@example.com").Code)
	require.Equal(t, http.StatusOK, serve("203.0.113.6", "a@example.com").Code)
}

func TestRateLimitMiddlewareAllowsUnkeyedRequests(t *testing.T) {
	t.Parallel()

	cfg := RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}
	h := Chain(okHandler, RateLimitMiddleware(cfg, func(*http.Request) string { return "" }))

	for range 3 {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}
