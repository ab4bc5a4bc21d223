package http

import (
	"errors"
	"mime"
	"net/http"

	"github.com/aussiebroadwan/clima/internal/clima/domain"
	"github.com/aussiebroadwan/clima/internal/clima/service"
	"github.com/aussiebroadwan/clima/pkg/climasdk"
	"github.com/aussiebroadwan/clima/pkg/httpx"
	"github.com/aussiebroadwan/clima/pkg/slogx"
)

type PrivacyHandler struct {
	Privacy *service.PrivacyService
}

// HandlePolicy returns the public privacy policy summary.
//
//	@Summary		Privacy policy
//	@Tags			Privacy
//	@Produce		json
//	@Success		200	{object}	climasdk.PolicyResponse
//	@Router			/v1/privacy/policy [get].
func (h *PrivacyHandler) HandlePolicy(w http.ResponseWriter, r *http.Request) {
	p := h.Privacy.Policy()
	httpx.WriteJSON(w, http.StatusOK, climasdk.PolicyResponse{
		Version:   p.Version,
		UpdatedAt: p.UpdatedAt,
		URL:       p.URL,
		Summary:   p.Summary,
	})
}

// HandleConsent records an explicit consent decision.
//
//	@Summary		Record consent
//	@Description	Stores the decision with the current policy version, time and client address, and sets both opt-in flags.
//	@Tags			Privacy
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		climasdk.ConsentRequest	true	"consent, analytics, marketing"
//	@Success		200		{object}	climasdk.PrivacyResponse
//	@Failure		401		{object}	climasdk.ErrorResponse
//	@Failure		404		{object}	climasdk.ErrorResponse
//	@Router			/v1/privacy/consent [post].
func (h *PrivacyHandler) HandleConsent(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req climasdk.ConsentRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w, err)
		return
	}

	p, err := h.Privacy.RecordConsent(r.Context(), id.Email, service.ConsentInput{
		Given:     req.Consent,
		Analytics: req.Analytics,
		Marketing: req.Marketing,
	}, httpx.ClientIP(r))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, climasdk.PrivacyResponse{OK: true, Privacy: toPrivacy(p)})
}

// HandlePreferences toggles the opt-in flags present in the body.
//
//	@Summary		Update preferences
//	@Description	Only the flags present in the body change.
//	@Tags			Privacy
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		climasdk.PreferencesRequest	true	"analytics and/or marketing"
//	@Success		200		{object}	climasdk.PrivacyResponse
//	@Failure		401		{object}	climasdk.ErrorResponse
//	@Failure		404		{object}	climasdk.ErrorResponse
//	@Router			/v1/privacy/preferences [patch].
func (h *PrivacyHandler) HandlePreferences(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req climasdk.PreferencesRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w, err)
		return
	}

	p, err := h.Privacy.UpdatePreferences(r.Context(), id.Email, service.PreferencesInput{
		Analytics: req.Analytics,
		Marketing: req.Marketing,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, climasdk.PrivacyResponse{OK: true, Privacy: toPrivacy(p)})
}

// HandleExport returns everything stored about the caller as a download.
//
//	@Summary		Export personal data
//	@Description	Returns the caller's record with additional data decrypted, as an attachment named after the email.
//	@Tags			Privacy
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	climasdk.ExportResponse
//	@Header			200	{string}	Content-Disposition	"attachment; filename=\"export-{email}.json\""
//	@Failure		401	{object}	climasdk.ErrorResponse
//	@Failure		404	{object}	climasdk.ErrorResponse
//	@Router			/v1/privacy/export [get].
func (h *PrivacyHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	doc, err := h.Privacy.Export(r.Context(), id.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": "export-" + doc.Email + ".json"}))
	httpx.WriteJSON(w, http.StatusOK, climasdk.ExportResponse{
		Email:          doc.Email,
		Roles:          doc.Roles,
		Privacy:        toPrivacy(doc.Privacy),
		AdditionalData: doc.AdditionalData,
		CreatedAt:      doc.CreatedAt,
		ExportedAt:     doc.ExportedAt,
	})
}

// HandleErase deletes the caller's record entirely.
//
//	@Summary		Erase personal data
//	@Tags			Privacy
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	climasdk.OKResponse
//	@Failure		401	{object}	climasdk.ErrorResponse
//	@Failure		404	{object}	climasdk.ErrorResponse
//	@Router			/v1/privacy/delete [delete].
func (h *PrivacyHandler) HandleErase(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := h.Privacy.Erase(r.Context(), id.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, climasdk.OKResponse{OK: true, Message: "account and data erased"})
}

// ConsentRequired lets a request through only when the caller's stored
// privacy state allows kind. A caller whose record is gone is treated as
// unauthenticated.
func ConsentRequired(privacy *service.PrivacyService, kind domain.ConsentKind) httpx.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := requireIdentity(w, r)
			if !ok {
				return
			}

			allowed, err := privacy.Allows(r.Context(), id.Email, kind)
			switch {
			case errors.Is(err, service.ErrUserNotFound):
				httpx.WriteError(w, http.StatusUnauthorized, climasdk.ErrorCodeUnauthorized, "account not found")
				return
			case err != nil:
				writeServiceError(w, r, err)
				return
			case !allowed:
				slogx.FromContext(r.Context()).Info("consent missing",
					"subject", id.Subject(),
					"consent", string(kind),
				)
				httpx.WriteError(w, http.StatusForbidden, climasdk.ErrorCodeConsentRequired, "consent for "+string(kind)+" is required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
