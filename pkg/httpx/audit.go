package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/aussiebroadwan/clima/pkg/cryptox"
	"github.com/aussiebroadwan/clima/pkg/slogx"
)

// auditRecord is filled in by inner middleware so the audit line written on
// the way out knows who the caller turned out to be.
type auditRecord struct {
	subject string
}

// AuditLog writes one line per request with the caller's subject (or
// "anonymous"), method, route and status.
func AuditLog() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &auditRecord{}
			ctx := context.WithValue(r.Context(), ctxKeyAudit, rec)
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()

			next.ServeHTTP(sw, r.WithContext(ctx))

			subject := rec.subject
			if subject == "" {
				subject = "anonymous"
			}
			slogx.FromContext(ctx).Info("audit",
				"subject", subject,
				"method", r.Method,
				"route", routeOf(r),
				"status", sw.status,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}

// routeOf is the matched pattern when routing already happened, else the
// path.
func routeOf(r *http.Request) string {
	if r.Pattern != "" {
		return r.Pattern
	}
	return r.URL.Path
}

func shortTokenFP(token string) string {
	return cryptox.ShortFingerprint(token)
}

type statusWriter struct {
	http.ResponseWriter
	status int
	wrote  bool
}

func (w *statusWriter) WriteHeader(code int) {
	if !w.wrote {
		w.status = code
		w.wrote = true
	}
	w.ResponseWriter.WriteHeader(code)
}

func (w *statusWriter) Write(b []byte) (int, error) {
	if !w.wrote {
		w.wrote = true
	}
	return w.ResponseWriter.Write(b)
}

func (w *statusWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
