package service_test

import (
	"crypto/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clima/internal/clima/domain"
	"github.com/aussiebroadwan/clima/internal/clima/service"
	"github.com/aussiebroadwan/clima/internal/clima/store/drivers/memory"
	"github.com/aussiebroadwan/clima/pkg/cryptox"
	"github.com/aussiebroadwan/clima/pkg/jwtx"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

type fixture struct {
	store    *memory.Store
	cipher   *cryptox.FieldCipher
	hasher   *cryptox.PasswordHasher
	sessions *service.SessionService
	accounts *service.AccountService
	privacy  *service.PrivacyService
}

// clock is a settable time source shared by the services under test.
type clock struct{ t time.Time }

func (c *clock) Now() time.Time { return c.t }

func newCipher(t *testing.T) *cryptox.FieldCipher {
	t.Helper()
	key := make([]byte, cryptox.KeySize)
	_, err := rand.Read(key)
	require.NoError(t, err)
	c, err := cryptox.NewFieldCipher(key)
	require.NoError(t, err)
	return c
}

func newFixture(t *testing.T, clk *clock) *fixture {
	t.Helper()
	if clk == nil {
		clk = &clock{t: time.Now()}
	}

	c := newCipher(t)
	st := memory.New(c, nil)
	hasher := cryptox.NewPasswordHasher([]byte("pepper"))

	signer, err := jwtx.NewSignerHS256(testSecret)
	require.NoError(t, err)
	verifier, err := jwtx.NewVerifierHS256(testSecret, jwtx.VerifyOptions{Issuer: "clima", Now: clk.Now})
	require.NoError(t, err)

	sessions := &service.SessionService{
		Cipher:   c,
		Signer:   signer,
		Verifier: verifier,
		Issuer:   "clima",
		TTL:      time.Hour,
		Now:      clk.Now,
	}

	return &fixture{
		store:    st,
		cipher:   c,
		hasher:   hasher,
		sessions: sessions,
		accounts: &service.AccountService{
			Store:         st,
			Cipher:        c,
			Hasher:        hasher,
			Sessions:      sessions,
			PolicyVersion: "1.0",
			Now:           clk.Now,
		},
		privacy: &service.PrivacyService{
			Store:  st,
			Cipher: c,
			PolicyDoc: domain.Policy{
				Version:   "1.0",
				UpdatedAt: "2025-01-01",
				URL:       "https://example.com/privacy",
				Summary:   "We collect the minimum data needed.",
			},
			Now: clk.Now,
		},
	}
}

func (f *fixture) register(t *testing.T, email, password string) {
	t.Helper()
	_, err := f.accounts.Register(t.Context(), service.RegisterInput{Email: email, Password: password})
	require.NoError(t, err)
}
