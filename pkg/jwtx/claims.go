package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the session lifetime when none is configured.
const DefaultSessionTTL = time.Hour

// Claims are the session token claims. Email and every AdditionalData value
// are field-cipher tokens, never plaintext; the signer embeds them as given.
type Claims struct {
	jwt.RegisteredClaims

	// Email is the encrypted email of the session owner.
	Email string `json:"email"`

	// AdditionalData maps profile field names to encrypted values.
	AdditionalData map[string]string `json:"additionalData,omitempty"`

	// Permission scopes, e.g. ["user", "admin", "write:config"].
	Scopes []string `json:"scopes,omitempty"`
}

// NewSessionClaims builds claims for a session starting at now.
func NewSessionClaims(
	emailCiphertext string,
	additionalData map[string]string,
	scopes []string,
	ttl time.Duration,
	issuer string,
	now time.Time,
) Claims {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		Email:          emailCiphertext,
		AdditionalData: additionalData,
		Scopes:         scopes,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks the issuer when one is expected.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateShape rejects claims that verified but cannot identify anyone.
func (c *Claims) ValidateShape() error {
	if c.Email == "" || c.ExpiresAt == nil {
		return ErrInvalidClaim
	}
	return nil
}

// ValidateExpiryAt ensures the token has not expired (exp) and is already
// valid (nbf) at now.
func (c *Claims) ValidateExpiryAt(now time.Time) error {
	if c.ExpiresAt != nil && !now.Before(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
