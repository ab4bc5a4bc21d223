package httpx

import "context"

type ctxKey string

const (
	ctxKeyPrincipal ctxKey = "principal"
	ctxKeyAudit     ctxKey = "audit"
)

// Principal is the authenticated caller attached to a request.
type Principal interface {
	// Subject is a stable identifier safe to log. It must not be PII.
	Subject() string
	ScopeList() []string
}

// WithPrincipal attaches p to ctx.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	if rec, ok := ctx.Value(ctxKeyAudit).(*auditRecord); ok {
		rec.subject = p.Subject()
	}
	return context.WithValue(ctx, ctxKeyPrincipal, p)
}

// PrincipalFrom returns the principal set by AuthnMiddleware.
func PrincipalFrom(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(ctxKeyPrincipal).(Principal)
	return p, ok
}

func scopesFromCtx(ctx context.Context) []string {
	if p, ok := PrincipalFrom(ctx); ok {
		return p.ScopeList()
	}
	return nil
}

func subjectFromCtx(ctx context.Context) string {
	if p, ok := PrincipalFrom(ctx); ok {
		if s := p.Subject(); s != "" {
			return s
		}
	}
	return "anonymous"
}
