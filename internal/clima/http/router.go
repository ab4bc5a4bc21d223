package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/aussiebroadwan/clima/internal/clima/domain"
	"github.com/aussiebroadwan/clima/internal/clima/service"
	"github.com/aussiebroadwan/clima/internal/clima/store"
	"github.com/aussiebroadwan/clima/internal/clima/weather"
	"github.com/aussiebroadwan/clima/pkg/httpx"
	"github.com/aussiebroadwan/clima/pkg/slogx"

	_ "github.com/aussiebroadwan/clima/api/clima" // Swagger docs
	httpSwagger "github.com/swaggo/http-swagger"
)

// Limits are the rate limit profiles applied per route group.
type Limits struct {
	Auth    httpx.RateLimitConfig
	Weather httpx.RateLimitConfig
	API     httpx.RateLimitConfig
}

// DefaultLimits are the profiles used when the configuration sets none.
var DefaultLimits = Limits{
	Auth:    httpx.AuthLimit,
	Weather: httpx.WeatherLimit,
	API:     httpx.APILimit,
}

// Router holds shared dependencies for HTTP handlers.
type Router struct {
	Mux         *http.ServeMux
	middlewares []httpx.Middleware

	name         string
	buildVersion string
	startTime    time.Time
	logger       *slog.Logger
	limits       Limits
	metrics      *httpx.Metrics

	store          store.Store
	AccountService *service.AccountService
	PrivacyService *service.PrivacyService
	SessionService *service.SessionService
	Weather        *weather.Client
}

func NewRouter(
	name, buildVersion string,
	st store.Store,
	limits Limits,
	metrics *httpx.Metrics,
	logger *slog.Logger,
) *Router {
	r := &Router{
		Mux:          http.NewServeMux(),
		name:         name,
		buildVersion: buildVersion,
		startTime:    time.Now(),
		logger:       logger,
		limits:       limits,
		metrics:      metrics,
		store:        st,
	}

	// Set default middleware chain
	r.middlewares = []httpx.Middleware{
		slogx.HTTPMiddleware(r.logger),
		httpx.Recoverer(),
		httpx.SecurityHeaders(),
		httpx.AuditLog(),
	}

	return r
}

func (r *Router) ApplyRoutes() {
	r.registerAccounts()
	r.registerPrivacy()
	r.registerClima()
	r.registerSystem()

	r.Mux.Handle("GET /swagger/", httpSwagger.Handler())
}

// ServeHTTP implements http.Handler for Router and applies the global middleware chain.
//
//	@title			Clima API
//	@version		1.0.0
//	@description	Weather demo API with an encrypted-at-rest user store.
//	@description
//	@description				Emails and profile fields are stored encrypted. Sessions are HS256 JWTs whose claims carry only ciphertext.
//
//	@contact.name				AussieBroadWAN Team
//	@contact.url				https://github.com/aussiebroadwan/clima
//
//	@license.name				MIT
//	@license.url				https://opensource.org/licenses/MIT
//
//	@host						localhost:8080
//	@BasePath					/
//
//	@schemes					http https
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Session token from /v1/login. Format: "Bearer {token}".
func (r *Router) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	httpx.Chain(r.Mux, r.middlewares...).ServeHTTP(w, req)
}

// handle registers h under pattern with per-route metrics.
func (r *Router) handle(pattern string, h http.Handler, mws ...httpx.Middleware) {
	h = httpx.Chain(h, mws...)
	if r.metrics != nil {
		h = r.metrics.Instrument(pattern, h)
	}
	r.Mux.Handle(pattern, h)
}

// authenticate adapts the session service to the bearer middleware.
func (r *Router) authenticate(ctx context.Context, token string) (httpx.Principal, error) {
	id, err := r.SessionService.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	return id, nil
}

// secured is the stack shared by every authenticated route.
func (r *Router) secured(extra ...httpx.Middleware) []httpx.Middleware {
	return append([]httpx.Middleware{
		httpx.AuthnMiddleware(r.authenticate),
		httpx.RequireAllScopes(string(domain.ScopeUser)),
		httpx.RateLimitBySubject(r.limits.API),
	}, extra...)
}

func (r *Router) registerAccounts() {
	h := &AccountHandler{Accounts: r.AccountService}

	// Credential endpoints are limited per address and path to slow down
	// guessing.
	r.handle("POST /v1/register", http.HandlerFunc(h.HandleRegister), httpx.RateLimitByIP(r.limits.Auth))
	r.handle("POST /v1/login", http.HandlerFunc(h.HandleLogin), httpx.RateLimitByIP(r.limits.Auth))

	r.handle("GET /v1/me", http.HandlerFunc(h.HandleMe), r.secured()...)
	r.handle("GET /v1/profile", http.HandlerFunc(h.HandleGetProfile), r.secured()...)
	r.handle("PATCH /v1/profile", http.HandlerFunc(h.HandleUpdateProfile), r.secured()...)
	r.handle("POST /v1/user/data", http.HandlerFunc(h.HandleSaveLocation), r.secured()...)
	r.handle("DELETE /v1/account", http.HandlerFunc(h.HandleDeleteAccount), r.secured()...)
}

func (r *Router) registerPrivacy() {
	h := &PrivacyHandler{Privacy: r.PrivacyService}

	r.handle("GET /v1/privacy/policy", http.HandlerFunc(h.HandlePolicy), httpx.RateLimitByIP(r.limits.API))

	r.handle("POST /v1/privacy/consent", http.HandlerFunc(h.HandleConsent), r.secured()...)
	r.handle("PATCH /v1/privacy/preferences", http.HandlerFunc(h.HandlePreferences), r.secured()...)
	r.handle("GET /v1/privacy/export", http.HandlerFunc(h.HandleExport), r.secured()...)
	r.handle("DELETE /v1/privacy/delete", http.HandlerFunc(h.HandleErase), r.secured()...)
}

func (r *Router) registerClima() {
	h := &ClimaHandler{Weather: r.Weather}

	r.handle("GET /v1/clima/public", http.HandlerFunc(h.HandlePublic), httpx.RateLimitByIP(r.limits.API))
	r.handle("GET /v1/clima/secure", http.HandlerFunc(h.HandleSecure), r.secured()...)

	// Admin demo: every listed scope is required.
	r.handle("POST /v1/config", http.HandlerFunc(h.HandleConfig),
		r.secured(httpx.RequireAllScopes(string(domain.ScopeAdmin), string(domain.ScopeWriteConfig)))...,
	)

	// Weather lookups count as analytics processing.
	r.handle("GET /v1/weather", http.HandlerFunc(h.HandleWeather),
		r.secured(
			ConsentRequired(r.PrivacyService, domain.ConsentAnalytics),
			httpx.RateLimitBySubject(r.limits.Weather),
		)...,
	)
}

func (r *Router) registerSystem() {
	r.handle("GET /{$}", RootHandler(r.name, r.buildVersion))

	// Health check endpoints are not rate limited; probes poll them.
	r.handle("GET /livez", LivezHandler(r.startTime, r.buildVersion))
	r.handle("GET /readyz", ReadyzHandler(r.startTime, r.buildVersion, r.store))

	if r.metrics != nil {
		r.Mux.Handle("GET /metrics", r.metrics.Handler())
	}
}
