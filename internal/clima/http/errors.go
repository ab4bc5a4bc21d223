package http

import (
	"errors"
	"net/http"

	"github.com/aussiebroadwan/clima/internal/clima/domain"
	"github.com/aussiebroadwan/clima/internal/clima/service"
	"github.com/aussiebroadwan/clima/pkg/climasdk"
	"github.com/aussiebroadwan/clima/pkg/httpx"
	"github.com/aussiebroadwan/clima/pkg/slogx"
)

// writeServiceError maps service errors onto the API error envelope.
// Expected business outcomes are logged at info; anything else is a server
// error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	log := slogx.FromContext(r.Context())

	switch {
	case errors.Is(err, service.ErrValidation):
		httpx.WriteError(w, http.StatusBadRequest, climasdk.ErrorCodeValidation, err.Error())
	case errors.Is(err, service.ErrDuplicateUser):
		log.Info("duplicate registration")
		httpx.WriteError(w, http.StatusConflict, climasdk.ErrorCodeUserExists, "user already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		httpx.WriteError(w, http.StatusUnauthorized, climasdk.ErrorCodeInvalidCredentials, "invalid credentials")
	case errors.Is(err, service.ErrUnauthorized):
		httpx.WriteError(w, http.StatusUnauthorized, climasdk.ErrorCodeUnauthorized, "not authenticated")
	case errors.Is(err, service.ErrUserNotFound):
		log.Info("user not found")
		httpx.WriteError(w, http.StatusNotFound, climasdk.ErrorCodeNotFound, "user not found")
	default:
		log.Error("request failed", slogx.Err(err))
		httpx.WriteError(w, http.StatusInternalServerError, climasdk.ErrorCodeServerError, "internal error")
	}
}

func writeBadJSON(w http.ResponseWriter, err error) {
	httpx.WriteError(w, http.StatusBadRequest, climasdk.ErrorCodeBadRequest, err.Error())
}

// identityFrom returns the caller resolved by the authentication middleware.
func identityFrom(r *http.Request) (domain.Identity, bool) {
	p, ok := httpx.PrincipalFrom(r.Context())
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := p.(domain.Identity)
	if !ok || id.Email == "" {
		return domain.Identity{}, false
	}
	return id, true
}

// requireIdentity writes a 401 and returns false when no identity is present.
func requireIdentity(w http.ResponseWriter, r *http.Request) (domain.Identity, bool) {
	id, ok := identityFrom(r)
	if !ok {
		httpx.WriteError(w, http.StatusUnauthorized, climasdk.ErrorCodeUnauthorized, "not authenticated")
	}
	return id, ok
}

func toUser(email string, additional map[string]string) climasdk.User {
	if additional == nil {
		additional = map[string]string{}
	}
	return climasdk.User{Email: email, AdditionalData: additional}
}

func toPrivacy(p domain.Privacy) climasdk.Privacy {
	return climasdk.Privacy{
		Consent: climasdk.Consent{
			Given:     p.Consent.Given,
			Version:   p.Consent.Version,
			Timestamp: p.Consent.Timestamp,
			IP:        p.Consent.IP,
		},
		Analytics: p.Analytics,
		Marketing: p.Marketing,
	}
}
