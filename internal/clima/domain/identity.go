package domain

import "github.com/aussiebroadwan/clima/pkg/cryptox"

// Identity is the plaintext view of a verified session, available to
// handlers behind the authentication middleware.
type Identity struct {
	Email          string            `json:"email"`
	AdditionalData map[string]string `json:"additionalData"`
	Scopes         []string          `json:"-"`
	TokenID        string            `json:"-"`
}

// Subject is a stable pseudonym for the identity, safe for audit logs.
func (i Identity) Subject() string {
	if i.Email == "" {
		return ""
	}
	return cryptox.ShortFingerprint(i.Email)
}

// ScopeList returns the scopes granted by the session token.
func (i Identity) ScopeList() []string { return i.Scopes }
