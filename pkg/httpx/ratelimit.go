package httpx

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/aussiebroadwan/clima/pkg/slogx"
)

// RateLimitConfig defines the rate limiting parameters.
type RateLimitConfig struct {
	// RequestsPerWindow is the number of requests allowed in the time window.
	RequestsPerWindow int `yaml:"requests"`
	// Window is the time window for rate limiting.
	Window time.Duration `yaml:"window"`
	// Burst allows for temporary bursts above the steady rate.
	Burst int `yaml:"burst"`
}

// Default profiles. The app config may override each one.
var (
	// AuthLimit guards register and login: 100 requests per 15 minutes.
	AuthLimit = RateLimitConfig{RequestsPerWindow: 100, Window: 15 * time.Minute, Burst: 20}

	// WeatherLimit guards the upstream weather proxy: 30 per minute.
	WeatherLimit = RateLimitConfig{RequestsPerWindow: 30, Window: time.Minute, Burst: 30}

	// APILimit is the ceiling for the remaining authenticated routes.
	APILimit = RateLimitConfig{RequestsPerWindow: 300, Window: time.Minute, Burst: 60}
)

// Valid reports whether c can build a limiter.
func (c RateLimitConfig) Valid() bool {
	return c.RequestsPerWindow > 0 && c.Window > 0 && c.Burst > 0
}

// KeyExtractor is a function that extracts a unique key from the request
// for rate limiting purposes (IP address, subject, path and so on).
type KeyExtractor func(*http.Request) string

// IPKeyExtractor extracts the client IP address from the request.
// It handles X-Forwarded-For and X-Real-IP headers for proxied requests.
func IPKeyExtractor(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// ClientIP is the caller's address as seen through proxies.
func ClientIP(r *http.Request) string { return IPKeyExtractor(r) }

// SubjectKeyExtractor extracts the authenticated principal's subject.
// Returns empty string for anonymous requests.
func SubjectKeyExtractor(r *http.Request) string {
	if p, ok := PrincipalFrom(r.Context()); ok {
		return p.Subject()
	}
	return ""
}

// PathKeyExtractor keys on the request path, so each route gets its own
// bucket when composed with another extractor.
func PathKeyExtractor(r *http.Request) string { return r.URL.Path }

// CompositeKeyExtractor joins the non-empty keys of extractors with sep.
func CompositeKeyExtractor(sep string, extractors ...KeyExtractor) KeyExtractor {
	return func(r *http.Request) string {
		var parts []string
		for _, extractor := range extractors {
			if key := extractor(r); key != "" {
				parts = append(parts, key)
			}
		}
		return strings.Join(parts, sep)
	}
}

// limiterSet hands out one token bucket per key.
type limiterSet struct {
	limiters sync.Map // map[string]*rate.Limiter
	rate     rate.Limit
	burst    int

	mu          sync.Mutex
	lastCleanup time.Time
}

func (ls *limiterSet) get(key string) *rate.Limiter {
	if limiter, ok := ls.limiters.Load(key); ok {
		return limiter.(*rate.Limiter)
	}

	actual, _ := ls.limiters.LoadOrStore(key, rate.NewLimiter(ls.rate, ls.burst))
	ls.sweep()
	return actual.(*rate.Limiter)
}

// sweep drops buckets that have refilled completely, at most every five
// minutes. A full bucket means the key has been idle.
func (ls *limiterSet) sweep() {
	ls.mu.Lock()
	defer ls.mu.Unlock()

	if time.Since(ls.lastCleanup) < 5*time.Minute {
		return
	}
	ls.lastCleanup = time.Now()

	ls.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).Tokens() >= float64(ls.burst) {
			ls.limiters.Delete(key)
		}
		return true
	})
}

// RateLimitMiddleware limits requests per key. Requests whose key is empty
// are let through.
func RateLimitMiddleware(config RateLimitConfig, keyExtractor KeyExtractor) Middleware {
	ls := &limiterSet{
		rate:        rate.Limit(float64(config.RequestsPerWindow) / config.Window.Seconds()),
		burst:       config.Burst,
		lastCleanup: time.Now(),
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := slogx.FromContext(r.Context())

			key := keyExtractor(r)
			if key == "" {
				log.Warn("rate limit: unable to extract key, allowing request")
				next.ServeHTTP(w, r)
				return
			}

			limiter := ls.get(key)
			if limiter.Allow() {
				next.ServeHTTP(w, r)
				return
			}

			// Peek at when the next token arrives without consuming it.
			reservation := limiter.Reserve()
			retryAfter := max(int(reservation.Delay().Seconds()), 1)
			reservation.Cancel()

			w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(config.RequestsPerWindow))
			w.Header().Set("X-RateLimit-Window", config.Window.String())

			log.Warn("rate limit exceeded",
				"endpoint", r.URL.Path,
				"retry_after", retryAfter,
			)
			WriteError(w, http.StatusTooManyRequests, "rate_limit_exceeded", "Too many requests. Please try again later.")
		})
	}
}

// RateLimitByIP limits by client IP and path.
func RateLimitByIP(config RateLimitConfig) Middleware {
	return RateLimitMiddleware(config, CompositeKeyExtractor(":", IPKeyExtractor, PathKeyExtractor))
}

// RateLimitBySubject limits authenticated callers by subject, falling back to
// IP for anonymous requests.
func RateLimitBySubject(config RateLimitConfig) Middleware {
	return RateLimitMiddleware(config, func(r *http.Request) string {
		if s := SubjectKeyExtractor(r); s != "" {
			return "sub:" + s
		}
		return "ip:" + IPKeyExtractor(r)
	})
}
