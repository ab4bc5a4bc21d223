package jwtx

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// MinSecretLength is the shortest HMAC signing secret accepted, in bytes.
const MinSecretLength = 32

// Signer is our interface for anything that can sign session JWTs.
type Signer interface {
	Alg() string
	Sign(Claims) (string, error)
}

// HS256Signer signs claims with HMAC-SHA256 under a shared secret.
type HS256Signer struct {
	secret []byte
}

// NewSignerHS256 returns a signer for secret, which must be at least
// MinSecretLength bytes.
func NewSignerHS256(secret []byte) (*HS256Signer, error) {
	if len(secret) < MinSecretLength {
		return nil, ErrWeakSecret
	}
	return &HS256Signer{secret: secret}, nil
}

func (s *HS256Signer) Alg() string { return jwt.SigningMethodHS256.Alg() }

// Sign serializes and signs claims. It does not touch Email or
// AdditionalData; callers encrypt those first.
func (s *HS256Signer) Sign(claims Claims) (string, error) {
	if err := claims.ValidateShape(); err != nil {
		return "", err
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	token.Header["typ"] = "JWT"

	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("jwtx: sign: %w", err)
	}
	return signed, nil
}
