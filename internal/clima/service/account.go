package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aussiebroadwan/clima/internal/clima/domain"
	"github.com/aussiebroadwan/clima/internal/clima/store"
	"github.com/aussiebroadwan/clima/pkg/cryptox"
	"github.com/aussiebroadwan/clima/pkg/slogx"
)

// MinDisplayNameLength is the shortest display name accepted, after trimming.
const MinDisplayNameLength = 2

type RegisterInput struct {
	Email          string            `json:"email" validate:"required,email"`
	Password       string            `json:"password" validate:"required,min=6,max=256"`
	AdditionalData map[string]string `json:"additionalData" validate:"max=32"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Profile is the plaintext view of a user returned to its owner.
type Profile struct {
	Email          string            `json:"email"`
	AdditionalData map[string]string `json:"additionalData"`
}

type LoginResult struct {
	Session Session
	User    Profile
}

// AccountService covers registration, login and the owner's own profile.
type AccountService struct {
	Store         store.Store
	Cipher        *cryptox.FieldCipher
	Hasher        *cryptox.PasswordHasher
	Sessions      *SessionService
	PolicyVersion string
	Now           func() time.Time
}

func (s *AccountService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

// Register creates a user. The email and every additional field are stored
// encrypted; the password is hashed.
func (s *AccountService) Register(ctx context.Context, in RegisterInput) (Profile, error) {
	in.Email = cryptox.NormalizeEmail(in.Email)
	if err := validateInput(in); err != nil {
		return Profile{}, err
	}

	hash, err := s.Hasher.Hash(in.Password)
	if err != nil {
		return Profile{}, err
	}
	emailCt, err := s.Cipher.Encrypt(in.Email)
	if err != nil {
		return Profile{}, fmt.Errorf("encrypt email: %w", err)
	}
	additional, err := s.Cipher.EncryptMap(in.AdditionalData)
	if err != nil {
		return Profile{}, err
	}

	now := s.now()
	u := domain.User{
		EmailCiphertext: emailCt,
		EmailIndex:      s.Cipher.BlindIndex(in.Email),
		PasswordHash:    hash,
		AdditionalData:  additional,
		Privacy:         domain.DefaultPrivacy(s.PolicyVersion),
		Roles:           []string{domain.RoleUser},
		CreatedAt:       &now,
		UpdatedAt:       &now,
	}

	if err := s.Store.Users().Insert(ctx, in.Email, u); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return Profile{}, ErrDuplicateUser
		}
		return Profile{}, err
	}

	slogx.FromContext(ctx).Info("user registered",
		slog.String("email_ct", cryptox.Preview(emailCt)),
	)

	plain := in.AdditionalData
	if plain == nil {
		plain = map[string]string{}
	}
	return Profile{Email: in.Email, AdditionalData: plain}, nil
}

// Login checks credentials and issues a session. Unknown emails and wrong
// passwords are indistinguishable to the caller, and both cost one password
// hash.
func (s *AccountService) Login(ctx context.Context, in LoginInput) (LoginResult, error) {
	log := slogx.FromContext(ctx)
	email := cryptox.NormalizeEmail(in.Email)

	if email == "" || in.Password == "" {
		s.Hasher.VerifyDummy(in.Password)
		return LoginResult{}, ErrInvalidCredentials
	}

	u, err := s.Store.Users().FindByEmail(ctx, email)
	if errors.Is(err, store.ErrNotFound) {
		s.Hasher.VerifyDummy(in.Password)
		log.Info("login failed", slog.String("reason", "unknown_user"))
		return LoginResult{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResult{}, err
	}

	if !s.Hasher.Verify(in.Password, u.PasswordHash) {
		log.Info("login failed", slog.String("reason", "bad_password"), slog.String("user_id", u.ID))
		return LoginResult{}, ErrInvalidCredentials
	}

	u = s.upgrade(ctx, email, in.Password, u)

	sess, err := s.Sessions.Issue(email, u)
	if err != nil {
		return LoginResult{}, err
	}

	return LoginResult{Session: sess, User: s.profile(ctx, email, u)}, nil
}

// upgrade rehashes legacy passwords and backfills the email index of
// imported records. Failures are logged and the login still succeeds.
func (s *AccountService) upgrade(ctx context.Context, email, password string, u domain.User) domain.User {
	needsRehash := s.Hasher.NeedsRehash(u.PasswordHash)
	needsIndex := u.EmailIndex == ""
	if !needsRehash && !needsIndex {
		return u
	}

	log := slogx.FromContext(ctx)

	var newHash string
	if needsRehash {
		h, err := s.Hasher.Hash(password)
		if err != nil {
			log.Warn("password rehash failed", slog.String("user_id", u.ID), slogx.Err(err))
			return u
		}
		newHash = h
	}

	updated, err := s.Store.Users().Update(ctx, email, func(rec *domain.User) error {
		if newHash != "" {
			rec.PasswordHash = newHash
		}
		if rec.EmailIndex == "" {
			rec.EmailIndex = s.Cipher.BlindIndex(email)
		}
		now := s.now()
		rec.UpdatedAt = &now
		return nil
	})
	if err != nil {
		log.Warn("account upgrade failed", slog.String("user_id", u.ID), slogx.Err(err))
		return u
	}

	log.Info("account upgraded",
		slog.String("user_id", u.ID),
		slog.Bool("rehashed", needsRehash),
		slog.Bool("indexed", needsIndex),
	)
	return updated
}

// Me returns the current stored profile of the session owner.
func (s *AccountService) Me(ctx context.Context, email string) (Profile, error) {
	u, err := s.find(ctx, email)
	if err != nil {
		return Profile{}, err
	}
	return s.profile(ctx, email, u), nil
}

type ProfileInput struct {
	DisplayName *string `json:"displayName"`
}

// UpdateProfile sets the encrypted display name.
func (s *AccountService) UpdateProfile(ctx context.Context, email string, in ProfileInput) (Profile, error) {
	if in.DisplayName == nil {
		return Profile{}, invalid("displayName", "is required")
	}
	name := strings.TrimSpace(*in.DisplayName)
	if utf8.RuneCountInString(name) < MinDisplayNameLength {
		return Profile{}, invalid("displayName", fmt.Sprintf("must be at least %d characters", MinDisplayNameLength))
	}

	ct, err := s.Cipher.Encrypt(name)
	if err != nil {
		return Profile{}, err
	}

	u, err := s.setField(ctx, email, domain.FieldDisplayName, ct)
	if err != nil {
		return Profile{}, err
	}
	return s.profile(ctx, email, u), nil
}

type LocationInput struct {
	Location string `json:"location" validate:"required,max=512"`
}

// SaveLocation stores the exact location encrypted and returns a preview of
// the stored ciphertext.
func (s *AccountService) SaveLocation(ctx context.Context, email string, in LocationInput) (string, error) {
	in.Location = strings.TrimSpace(in.Location)
	if err := validateInput(in); err != nil {
		return "", err
	}

	ct, err := s.Cipher.Encrypt(in.Location)
	if err != nil {
		return "", err
	}
	if _, err := s.setField(ctx, email, domain.FieldLocation, ct); err != nil {
		return "", err
	}

	slogx.FromContext(ctx).Info("location stored", slog.String("location_ct", cryptox.Preview(ct)))
	return cryptox.Preview(ct), nil
}

// DeleteAccount removes the caller's record.
func (s *AccountService) DeleteAccount(ctx context.Context, email string) error {
	err := s.Store.Users().Remove(ctx, cryptox.NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return ErrUserNotFound
	}
	return err
}

func (s *AccountService) setField(ctx context.Context, email, field, ct string) (domain.User, error) {
	u, err := s.Store.Users().Update(ctx, cryptox.NormalizeEmail(email), func(rec *domain.User) error {
		if rec.AdditionalData == nil {
			rec.AdditionalData = map[string]string{}
		}
		rec.AdditionalData[field] = ct
		now := s.now()
		rec.UpdatedAt = &now
		return nil
	})
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

func (s *AccountService) find(ctx context.Context, email string) (domain.User, error) {
	u, err := s.Store.Users().FindByEmail(ctx, cryptox.NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return domain.User{}, ErrUserNotFound
	}
	return u, err
}

func (s *AccountService) profile(ctx context.Context, email string, u domain.User) Profile {
	plain, failed := s.Cipher.DecryptMap(u.AdditionalData)
	if len(failed) > 0 {
		slogx.FromContext(ctx).Warn("stored fields failed to decrypt",
			slog.String("user_id", u.ID),
			slog.Any("fields", failed),
		)
	}
	return Profile{Email: cryptox.NormalizeEmail(email), AdditionalData: plain}
}
