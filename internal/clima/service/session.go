package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/clima/internal/clima/domain"
	"github.com/aussiebroadwan/clima/pkg/cryptox"
	"github.com/aussiebroadwan/clima/pkg/jwtx"
	"github.com/aussiebroadwan/clima/pkg/slogx"
)

// SessionService issues session tokens and resolves them back into a
// plaintext identity. Tokens only ever carry ciphertext: the email is
// encrypted freshly for every token and additional data is copied as stored.
type SessionService struct {
	Cipher   *cryptox.FieldCipher
	Signer   jwtx.Signer
	Verifier jwtx.Verifier
	Issuer   string
	TTL      time.Duration
	Now      func() time.Time
}

// Session is a freshly issued token.
type Session struct {
	Token     string
	ExpiresAt time.Time
	Scopes    []string
}

func (s *SessionService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Issue signs a token for u. email is the plaintext address the caller
// authenticated with.
func (s *SessionService) Issue(email string, u domain.User) (Session, error) {
	emailCt, err := s.Cipher.Encrypt(cryptox.NormalizeEmail(email))
	if err != nil {
		return Session{}, fmt.Errorf("encrypt session email: %w", err)
	}

	additional := make(map[string]string, len(u.AdditionalData))
	for k, v := range u.AdditionalData {
		additional[k] = v
	}

	claims := jwtx.NewSessionClaims(
		emailCt,
		additional,
		domain.ScopesForRoles(u.EffectiveRoles()),
		s.TTL,
		s.Issuer,
		s.now(),
	)

	token, err := s.Signer.Sign(claims)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, ExpiresAt: claims.ExpiresAt.Time, Scopes: claims.Scopes}, nil
}

// Resolve verifies token and decrypts its identity. Every failure is reported
// as ErrUnauthorized wrapping the cause. Additional data entries that no
// longer decrypt are left out rather than failing the request.
func (s *SessionService) Resolve(ctx context.Context, token string) (domain.Identity, error) {
	claims, err := s.Verifier.Verify(token)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}

	email, err := s.Cipher.Decrypt(claims.Email)
	if err != nil {
		return domain.Identity{}, fmt.Errorf("%w: session email: %w", ErrUnauthorized, err)
	}

	plain, failed := s.Cipher.DecryptMap(claims.AdditionalData)
	if len(failed) > 0 {
		slogx.FromContext(ctx).Debug("session carries undecryptable fields",
			slog.Any("fields", failed),
			slog.String("jti", claims.ID),
		)
	}

	return domain.Identity{
		Email:          email,
		AdditionalData: plain,
		Scopes:         claims.Scopes,
		TokenID:        claims.ID,
	}, nil
}
