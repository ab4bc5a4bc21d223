package http

import (
	"net/http"

	"github.com/aussiebroadwan/clima/internal/clima/service"
	"github.com/aussiebroadwan/clima/pkg/climasdk"
	"github.com/aussiebroadwan/clima/pkg/httpx"
)

type AccountHandler struct {
	Accounts *service.AccountService
}

// HandleRegister creates an account.
//
//	@Summary		Register
//	@Description	Creates an account. The email and every additionalData value are stored encrypted.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		climasdk.RegisterRequest	true	"email, password (min 6) and optional additionalData"
//	@Success		201		{object}	climasdk.RegisterResponse
//	@Failure		400		{object}	climasdk.ErrorResponse	"Invalid email or password"
//	@Failure		409		{object}	climasdk.ErrorResponse	"User already exists"
//	@Failure		429		{object}	climasdk.ErrorResponse	"Rate limit exceeded"
//	@Router			/v1/register [post].
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req climasdk.RegisterRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w, err)
		return
	}

	p, err := h.Accounts.Register(r.Context(), service.RegisterInput{
		Email:          req.Email,
		Password:       req.Password,
		AdditionalData: req.AdditionalData,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusCreated, climasdk.RegisterResponse{
		Message: "user created",
		User:    toUser(p.Email, p.AdditionalData),
	})
}

// HandleLogin exchanges credentials for a session token.
//
//	@Summary		Login
//	@Description	Verifies the credentials and returns a session token. Unknown emails and wrong passwords fail the same way.
//	@Tags			Accounts
//	@Accept			json
//	@Produce		json
//	@Param			request	body		climasdk.LoginRequest	true	"email and password"
//	@Success		200		{object}	climasdk.LoginResponse
//	@Failure		401		{object}	climasdk.ErrorResponse	"Invalid credentials"
//	@Failure		429		{object}	climasdk.ErrorResponse	"Rate limit exceeded"
//	@Router			/v1/login [post].
func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req climasdk.LoginRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w, err)
		return
	}

	res, err := h.Accounts.Login(r.Context(), service.LoginInput{Email: req.Email, Password: req.Password})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, climasdk.LoginResponse{
		Token:     res.Session.Token,
		ExpiresAt: res.Session.ExpiresAt,
		Scopes:    res.Session.Scopes,
		User:      toUser(res.User.Email, res.User.AdditionalData),
	})
}

// HandleMe returns the identity carried by the session token.
//
//	@Summary		Current identity
//	@Description	Returns the decrypted email and additional data from the session token.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	climasdk.User
//	@Failure		401	{object}	climasdk.ErrorResponse	"Missing, invalid or expired token"
//	@Router			/v1/me [get].
func (h *AccountHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(id.Email, id.AdditionalData))
}

// HandleGetProfile returns the stored profile, which may be newer than the
// token.
//
//	@Summary		Stored profile
//	@Description	Returns the caller's record as currently stored, decrypted.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	climasdk.User
//	@Failure		401	{object}	climasdk.ErrorResponse
//	@Failure		404	{object}	climasdk.ErrorResponse	"Account no longer exists"
//	@Router			/v1/profile [get].
func (h *AccountHandler) HandleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	p, err := h.Accounts.Me(r.Context(), id.Email)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, toUser(p.Email, p.AdditionalData))
}

// HandleUpdateProfile sets the display name.
//
//	@Summary		Update profile
//	@Description	Sets the display name, stored encrypted. It must be at least two characters after trimming.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		climasdk.ProfileRequest	true	"displayName"
//	@Success		200		{object}	climasdk.ProfileResponse
//	@Failure		400		{object}	climasdk.ErrorResponse	"Invalid display name"
//	@Failure		401		{object}	climasdk.ErrorResponse
//	@Failure		404		{object}	climasdk.ErrorResponse
//	@Router			/v1/profile [patch].
func (h *AccountHandler) HandleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req service.ProfileInput
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w, err)
		return
	}

	p, err := h.Accounts.UpdateProfile(r.Context(), id.Email, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, climasdk.ProfileResponse{OK: true, User: toUser(p.Email, p.AdditionalData)})
}

// HandleSaveLocation stores the caller's exact location encrypted.
//
//	@Summary		Save location
//	@Description	Encrypts and stores the location, returning the first characters of the ciphertext.
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Accept			json
//	@Produce		json
//	@Param			request	body		climasdk.LocationRequest	true	"location"
//	@Success		200		{object}	climasdk.LocationResponse
//	@Failure		400		{object}	climasdk.ErrorResponse
//	@Failure		401		{object}	climasdk.ErrorResponse
//	@Failure		404		{object}	climasdk.ErrorResponse
//	@Router			/v1/user/data [post].
func (h *AccountHandler) HandleSaveLocation(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req climasdk.LocationRequest
	if err := httpx.DecodeJSON(w, r, &req); err != nil {
		writeBadJSON(w, err)
		return
	}

	preview, err := h.Accounts.SaveLocation(r.Context(), id.Email, service.LocationInput{Location: req.Location})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, climasdk.LocationResponse{
		Message: "location encrypted and stored",
		Preview: preview,
	})
}

// HandleDeleteAccount removes the caller's account.
//
//	@Summary		Delete account
//	@Tags			Accounts
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	climasdk.OKResponse
//	@Failure		401	{object}	climasdk.ErrorResponse
//	@Failure		404	{object}	climasdk.ErrorResponse
//	@Router			/v1/account [delete].
func (h *AccountHandler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	if err := h.Accounts.DeleteAccount(r.Context(), id.Email); err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, climasdk.OKResponse{OK: true})
}
