package httpx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clima/pkg/httpx"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func requestFrom(addr, path string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = addr
	return req
}

func TestIPKeyExtractor(t *testing.T) {
	t.Run("extracts from RemoteAddr", func(t *testing.T) {
		require.Equal(t, "192.168.1.1", httpx.IPKeyExtractor(requestFrom("192.168.1.1:12345", "/")))
	})

	t.Run("prefers X-Forwarded-For", func(t *testing.T) {
		req := requestFrom("192.168.1.1:12345", "/")
		req.Header.Set("X-Forwarded-For", "203.0.113.1, 192.168.1.1")
		require.Equal(t, "203.0.113.1", httpx.IPKeyExtractor(req))
	})

	t.Run("uses X-Real-IP if X-Forwarded-For absent", func(t *testing.T) {
		req := requestFrom("192.168.1.1:12345", "/")
		req.Header.Set("X-Real-IP", "203.0.113.2")
		require.Equal(t, "203.0.113.2", httpx.IPKeyExtractor(req))
	})

	t.Run("RemoteAddr without port", func(t *testing.T) {
		require.Equal(t, "pipe", httpx.ClientIP(requestFrom("pipe", "/")))
	})
}

func TestCompositeKeyExtractor(t *testing.T) {
	extractor := httpx.CompositeKeyExtractor(":", httpx.SubjectKeyExtractor, httpx.IPKeyExtractor, httpx.PathKeyExtractor)

	t.Run("skips empty values", func(t *testing.T) {
		require.Equal(t, "192.168.1.1:/v1/login", extractor(requestFrom("192.168.1.1:1", "/v1/login")))
	})

	t.Run("includes subject when authenticated", func(t *testing.T) {
		req := requestFrom("192.168.1.1:1", "/v1/me")
		req = req.WithContext(httpx.WithPrincipal(req.Context(), principal{subject: "abc", scopes: nil}))
		require.Equal(t, "abc:192.168.1.1:/v1/me", extractor(req))
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Run("allows requests under limit", func(t *testing.T) {
		h := httpx.RateLimitMiddleware(httpx.RateLimitConfig{RequestsPerWindow: 5, Window: time.Second, Burst: 5}, httpx.IPKeyExtractor)(okHandler)

		for i := range 5 {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, requestFrom("192.168.1.1:12345", "/"))
			require.Equal(t, http.StatusOK, rec.Code, "request %d should succeed", i+1)
		}
	})

	t.Run("blocks requests over limit", func(t *testing.T) {
		h := httpx.RateLimitMiddleware(httpx.RateLimitConfig{RequestsPerWindow: 3, Window: time.Minute, Burst: 3}, httpx.IPKeyExtractor)(okHandler)

		for range 3 {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, requestFrom("192.168.1.1:12345", "/"))
			require.Equal(t, http.StatusOK, rec.Code)
		}

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestFrom("192.168.1.1:12345", "/"))
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		require.NotEmpty(t, rec.Header().Get("Retry-After"))
		require.Equal(t, "3", rec.Header().Get("X-RateLimit-Limit"))
		require.Equal(t, "1m0s", rec.Header().Get("X-RateLimit-Window"))
		require.Contains(t, rec.Body.String(), "rate_limit_exceeded")
		require.Contains(t, rec.Body.String(), "error_description")
	})

	t.Run("different keys are tracked separately", func(t *testing.T) {
		h := httpx.RateLimitMiddleware(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1}, httpx.IPKeyExtractor)(okHandler)

		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, requestFrom("192.168.1.1:1", "/"))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, requestFrom("192.168.1.1:1", "/"))
		require.Equal(t, http.StatusTooManyRequests, rec.Code)

		rec = httptest.NewRecorder()
		h.ServeHTTP(rec, requestFrom("192.168.1.2:1", "/"))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("allows request when key extractor returns empty", func(t *testing.T) {
		h := httpx.RateLimitMiddleware(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1},
			func(*http.Request) string { return "" })(okHandler)

		for range 3 {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			require.Equal(t, http.StatusOK, rec.Code)
		}
	})
}

func TestRateLimitByIP_PerPath(t *testing.T) {
	h := httpx.RateLimitByIP(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1})(okHandler)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom("10.0.0.1:1", "/v1/login"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom("10.0.0.1:1", "/v1/login"))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, requestFrom("10.0.0.1:1", "/v1/register"))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitBySubject(t *testing.T) {
	h := httpx.RateLimitBySubject(httpx.RateLimitConfig{RequestsPerWindow: 1, Window: time.Minute, Burst: 1})(okHandler)

	as := func(subject string) *http.Request {
		req := requestFrom("10.0.0.1:1", "/v1/weather")
		return req.WithContext(httpx.WithPrincipal(context.Background(), principal{subject: subject}))
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, as("alice"))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, as("alice"))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	// Same address, different subject.
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, as("bob"))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimitProfiles(t *testing.T) {
	for name, config := range map[string]httpx.RateLimitConfig{
		"auth":    httpx.AuthLimit,
		"weather": httpx.WeatherLimit,
		"api":     httpx.APILimit,
	} {
		t.Run(name, func(t *testing.T) {
			require.True(t, config.Valid())
		})
	}

	require.False(t, httpx.RateLimitConfig{}.Valid())
}

// Benchmark rate limiting overhead
func BenchmarkRateLimitMiddleware(b *testing.B) {
	h := httpx.RateLimitMiddleware(httpx.RateLimitConfig{
		RequestsPerWindow: 1000000,
		Window:            time.Minute,
		Burst:             1000,
	}, httpx.IPKeyExtractor)(okHandler)

	req := requestFrom("192.168.1.1:12345", "/")
	b.ResetTimer()
	for range b.N {
		h.ServeHTTP(httptest.NewRecorder(), req)
	}
}
