package httpx

import (
	"net/http"
	"strings"

	"github.com/aussiebroadwan/clima/pkg/slogx"
)

// HasAllScopes reports whether have contains every scope in required. An
// empty required set always passes.
func HasAllScopes(have, required []string) bool {
	set := make(map[string]struct{}, len(have))
	for _, s := range have {
		set[s] = struct{}{}
	}
	for _, req := range required {
		if _, ok := set[req]; !ok {
			return false
		}
	}
	return true
}

// RequireAnyScope the caller must have at least one of the provided scopes.
func RequireAnyScope(required ...string) Middleware {
	want := make(map[string]struct{}, len(required))
	for _, s := range required {
		want[s] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			for _, s := range scopesFromCtx(r.Context()) {
				if _, ok := want[s]; ok {
					next.ServeHTTP(w, r)
					return
				}
			}
			denyScope(w, r, required...)
		})
	}
}

// RequireAllScopes the caller must have every scope listed.
func RequireAllScopes(required ...string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !HasAllScopes(scopesFromCtx(r.Context()), required) {
				denyScope(w, r, required...)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func denyScope(w http.ResponseWriter, r *http.Request, required ...string) {
	slogx.FromContext(r.Context()).Warn("access denied",
		"subject", subjectFromCtx(r.Context()),
		"route", routeOf(r),
		"required", required,
		"outcome", "forbidden",
	)

	// RFC 6750 insufficient_scope
	w.Header().Set("WWW-Authenticate", `Bearer error="insufficient_scope", scope="`+strings.Join(required, " ")+`"`)
	WriteError(w, http.StatusForbidden, "insufficient_scope", "missing required scope")
}
