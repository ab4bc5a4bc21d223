package httpx

import (
	"context"
	"net/http"
	"strings"

	"github.com/aussiebroadwan/clima/pkg/slogx"
)

// AuthenticateFunc turns a bearer token into a principal.
type AuthenticateFunc func(ctx context.Context, token string) (Principal, error)

// AuthnMiddleware requires a valid bearer token. Missing tokens, and the
// literal strings "null" and "undefined" that browsers send for unset
// variables, are rejected without calling authenticate.
func AuthnMiddleware(authenticate AuthenticateFunc) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			log := slogx.FromContext(ctx)

			raw, ok := BearerToken(r)
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}

			p, err := authenticate(ctx, raw)
			if err != nil {
				log.Warn("bearer authentication failed",
					"route", routeOf(r),
					"token_fp", shortTokenFP(raw),
					slogx.Err(err),
				)
				writeBearerError(w, "token invalid or expired")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(ctx, p)))
		})
	}
}

// BearerToken extracts the token from the Authorization header.
func BearerToken(r *http.Request) (string, bool) {
	authz := r.Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return "", false
	}
	raw := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
	switch raw {
	case "", "null", "undefined":
		return "", false
	}
	return raw, true
}

// RFC 6750 error response for bearer auth.
func writeBearerError(w http.ResponseWriter, desc string) {
	w.Header().Set("WWW-Authenticate", `Bearer error="invalid_token", error_description="`+desc+`"`)
	WriteError(w, http.StatusUnauthorized, "unauthorized", desc)
}
