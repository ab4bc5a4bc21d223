package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/clima/internal/clima/domain"
	"github.com/aussiebroadwan/clima/internal/clima/store"
	"github.com/aussiebroadwan/clima/pkg/cryptox"
	"github.com/aussiebroadwan/clima/pkg/slogx"
)

// PrivacyService manages consent, opt-in preferences, export and erasure for
// the session owner.
type PrivacyService struct {
	Store     store.Store
	Cipher    *cryptox.FieldCipher
	PolicyDoc domain.Policy
	Now       func() time.Time
}

func (s *PrivacyService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Policy returns the public privacy policy summary.
func (s *PrivacyService) Policy() domain.Policy { return s.PolicyDoc }

type ConsentInput struct {
	Given     bool `json:"consent"`
	Analytics bool `json:"analytics"`
	Marketing bool `json:"marketing"`
}

// RecordConsent stamps the consent decision with the current policy version,
// time and the caller's address, and sets both opt-in flags.
func (s *PrivacyService) RecordConsent(ctx context.Context, email string, in ConsentInput, ip string) (domain.Privacy, error) {
	u, err := s.update(ctx, email, func(p *domain.Privacy) {
		now := s.now()
		var addr *string
		if ip != "" {
			addr = &ip
		}
		p.Consent = domain.Consent{
			Given:     in.Given,
			Version:   s.PolicyDoc.Version,
			Timestamp: &now,
			IP:        addr,
		}
		p.Analytics = in.Analytics
		p.Marketing = in.Marketing
	})
	if err != nil {
		return domain.Privacy{}, err
	}

	slogx.FromContext(ctx).Info("consent recorded",
		slog.String("user_id", u.ID),
		slog.Bool("given", in.Given),
		slog.String("version", s.PolicyDoc.Version),
	)
	return u.Privacy, nil
}

// PreferencesInput is a partial update; nil fields are left unchanged.
type PreferencesInput struct {
	Analytics *bool `json:"analytics"`
	Marketing *bool `json:"marketing"`
}

func (s *PrivacyService) UpdatePreferences(ctx context.Context, email string, in PreferencesInput) (domain.Privacy, error) {
	u, err := s.update(ctx, email, func(p *domain.Privacy) {
		if in.Analytics != nil {
			p.Analytics = *in.Analytics
		}
		if in.Marketing != nil {
			p.Marketing = *in.Marketing
		}
	})
	if err != nil {
		return domain.Privacy{}, err
	}
	return u.Privacy, nil
}

// Allows reports whether the owner of email has given consent and enabled
// kind.
func (s *PrivacyService) Allows(ctx context.Context, email string, kind domain.ConsentKind) (bool, error) {
	u, err := s.Store.Users().FindByEmail(ctx, cryptox.NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return false, ErrUserNotFound
	}
	if err != nil {
		return false, err
	}
	return u.Privacy.Allows(kind), nil
}

// Export returns everything stored about the owner of email, decrypted.
// Fields that cannot be decrypted are exported as null.
func (s *PrivacyService) Export(ctx context.Context, email string) (domain.Export, error) {
	email = cryptox.NormalizeEmail(email)
	u, err := s.Store.Users().FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		return domain.Export{}, ErrUserNotFound
	}
	if err != nil {
		return domain.Export{}, err
	}

	additional := make(map[string]*string, len(u.AdditionalData))
	for k, ct := range u.AdditionalData {
		pt, err := s.Cipher.Decrypt(ct)
		if err != nil {
			additional[k] = nil
			continue
		}
		additional[k] = &pt
	}

	slogx.FromContext(ctx).Info("data exported", slog.String("user_id", u.ID))

	return domain.Export{
		Email:          email,
		Roles:          u.EffectiveRoles(),
		Privacy:        u.Privacy,
		AdditionalData: additional,
		CreatedAt:      u.CreatedAt,
		ExportedAt:     s.now(),
	}, nil
}

// Erase deletes the record of the owner of email.
func (s *PrivacyService) Erase(ctx context.Context, email string) error {
	err := s.Store.Users().Remove(ctx, cryptox.NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return err
	}
	slogx.FromContext(ctx).Info("user erased")
	return nil
}

func (s *PrivacyService) update(ctx context.Context, email string, fn func(*domain.Privacy)) (domain.User, error) {
	u, err := s.Store.Users().Update(ctx, cryptox.NormalizeEmail(email), func(rec *domain.User) error {
		fn(&rec.Privacy)
		now := s.now()
		rec.UpdatedAt = &now
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}
