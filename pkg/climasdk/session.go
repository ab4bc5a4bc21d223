package climasdk

import (
	"context"
	"fmt"
	"mime"
	"net/http"
	"net/url"
	"time"
)

// Session is a logged-in caller. It is safe for concurrent use; nothing in it
// changes after login.
type Session struct {
	client    *Client
	token     string
	expiresAt time.Time
	scopes    map[string]bool
	user      User
}

func newSession(c *Client, resp *LoginResponse) *Session {
	scopes := make(map[string]bool, len(resp.Scopes))
	for _, s := range resp.Scopes {
		scopes[s] = true
	}
	return &Session{
		client:    c,
		token:     resp.Token,
		expiresAt: resp.ExpiresAt,
		scopes:    scopes,
		user:      resp.User,
	}
}

// NewSessionFromToken wraps a token obtained elsewhere. Scopes are used only
// for client-side checks; the server decides from the token itself.
func (c *Client) NewSessionFromToken(token string, expiresAt time.Time, scopes ...string) *Session {
	return newSession(c, &LoginResponse{Token: token, ExpiresAt: expiresAt, Scopes: scopes})
}

// Token returns the bearer token.
func (s *Session) Token() string { return s.token }

// ExpiresAt is when the token stops being accepted.
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// User is the profile returned at login.
func (s *Session) User() User { return s.user }

// HasScope reports whether the session was granted scope.
func (s *Session) HasScope(scope string) bool { return s.scopes[scope] }

func (s *Session) checkScopes(required ...string) error {
	if !s.client.CheckScopes {
		return nil
	}
	for _, scope := range required {
		if !s.scopes[scope] {
			return fmt.Errorf("%w: %s", ErrMissingScope, scope)
		}
	}
	return nil
}

// do sends an authenticated request.
func (s *Session) do(ctx context.Context, method, path string, body any, requiredScopes ...string) (*http.Response, error) {
	if err := s.checkScopes(requiredScopes...); err != nil {
		return nil, err
	}
	if !s.expiresAt.IsZero() && !time.Now().Before(s.expiresAt) {
		return nil, ErrSessionExpired
	}
	return s.client.doRequest(ctx, method, path, s.token, body)
}

// ============================================================================
// Account
// ============================================================================

// Me returns the identity carried by the session token.
func (s *Session) Me(ctx context.Context) (*User, error) {
	resp, err := s.do(ctx, http.MethodGet, "/v1/me", nil, "user")
	if err != nil {
		return nil, err
	}

	var out User
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateDisplayName sets the encrypted display name.
func (s *Session) UpdateDisplayName(ctx context.Context, name string) (*ProfileResponse, error) {
	resp, err := s.do(ctx, http.MethodPatch, "/v1/profile", ProfileRequest{DisplayName: name}, "user")
	if err != nil {
		return nil, err
	}

	var out ProfileResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// SaveLocation stores an encrypted location on the account.
func (s *Session) SaveLocation(ctx context.Context, location string) (*LocationResponse, error) {
	resp, err := s.do(ctx, http.MethodPost, "/v1/user/data", LocationRequest{Location: location}, "user")
	if err != nil {
		return nil, err
	}

	var out LocationResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteAccount removes the caller's account.
func (s *Session) DeleteAccount(ctx context.Context) error {
	return s.expectOK(ctx, http.MethodDelete, "/v1/account")
}

// ============================================================================
// Privacy
// ============================================================================

// RecordConsent stores an explicit consent decision.
func (s *Session) RecordConsent(ctx context.Context, req ConsentRequest) (*Privacy, error) {
	return s.privacy(ctx, http.MethodPost, "/v1/privacy/consent", req)
}

// UpdatePreferences toggles the opt-in flags that are set in req.
func (s *Session) UpdatePreferences(ctx context.Context, req PreferencesRequest) (*Privacy, error) {
	return s.privacy(ctx, http.MethodPatch, "/v1/privacy/preferences", req)
}

func (s *Session) privacy(ctx context.Context, method, path string, body any) (*Privacy, error) {
	resp, err := s.do(ctx, method, path, body, "user")
	if err != nil {
		return nil, err
	}

	var out PrivacyResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out.Privacy, nil
}

// Export downloads the caller's data. The second return value is the file
// name the server suggested.
func (s *Session) Export(ctx context.Context) (*ExportResponse, string, error) {
	resp, err := s.do(ctx, http.MethodGet, "/v1/privacy/export", nil, "user")
	if err != nil {
		return nil, "", err
	}

	var filename string
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil {
		filename = params["filename"]
	}

	var out ExportResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, "", err
	}
	return &out, filename, nil
}

// Erase deletes the caller's account and every field stored with it.
func (s *Session) Erase(ctx context.Context) error {
	return s.expectOK(ctx, http.MethodDelete, "/v1/privacy/delete")
}

func (s *Session) expectOK(ctx context.Context, method, path string) error {
	resp, err := s.do(ctx, method, path, nil, "user")
	if err != nil {
		return err
	}

	var out OKResponse
	return decodeJSON(resp, &out, http.StatusOK)
}

// ============================================================================
// Demo and weather
// ============================================================================

// SecureClima calls the authenticated demo route.
func (s *Session) SecureClima(ctx context.Context) (*MessageResponse, error) {
	return s.message(ctx, http.MethodGet, "/v1/clima/secure", "user")
}

// UpdateConfig calls the admin demo route.
// Requires: admin and write:config scopes
func (s *Session) UpdateConfig(ctx context.Context) (*MessageResponse, error) {
	return s.message(ctx, http.MethodPost, "/v1/config", "admin", "write:config")
}

func (s *Session) message(ctx context.Context, method, path string, scopes ...string) (*MessageResponse, error) {
	resp, err := s.do(ctx, method, path, nil, scopes...)
	if err != nil {
		return nil, err
	}

	var out MessageResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Weather returns the current weather for city; empty means the server
// default. The account must have consented to analytics.
func (s *Session) Weather(ctx context.Context, city string) (*WeatherResponse, error) {
	path := "/v1/weather"
	if city != "" {
		path += "?" + url.Values{"q": {city}}.Encode()
	}

	resp, err := s.do(ctx, http.MethodGet, path, nil, "user")
	if err != nil {
		return nil, err
	}

	var out WeatherResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}
