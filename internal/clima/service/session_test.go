package service_test

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clima/internal/clima/domain"
	"github.com/aussiebroadwan/clima/internal/clima/service"
	"github.com/aussiebroadwan/clima/pkg/jwtx"
)

func TestSession_IssueResolve(t *testing.T) {
	f := newFixture(t, nil)

	nameCt, err := f.cipher.Encrypt("Alice")
	require.NoError(t, err)
	u := domain.User{
		AdditionalData: map[string]string{"displayName": nameCt},
		Roles:          []string{domain.RoleAdmin},
	}

	sess, err := f.sessions.Issue("Alice@Example.com", u)
	require.NoError(t, err)
	require.NotContains(t, strings.ToLower(sess.Token), "alice@")

	id, err := f.sessions.Resolve(t.Context(), sess.Token)
	require.NoError(t, err)
	require.Equal(t, "alice@example.com", id.Email)
	require.Equal(t, map[string]string{"displayName": "Alice"}, id.AdditionalData)
	require.Equal(t, []string{"user", "admin", "write:config"}, id.Scopes)
	require.NotEmpty(t, id.TokenID)
}

func TestSession_FreshEmailCiphertextPerToken(t *testing.T) {
	f := newFixture(t, nil)
	u := domain.User{}

	a, err := f.sessions.Issue("a@example.com", u)
	require.NoError(t, err)
	b, err := f.sessions.Issue("a@example.com", u)
	require.NoError(t, err)
	require.NotEqual(t, a.Token, b.Token)
}

func TestSession_Expiry(t *testing.T) {
	clk := &clock{t: time.Now()}
	f := newFixture(t, clk)

	sess, err := f.sessions.Issue("a@example.com", domain.User{})
	require.NoError(t, err)
	require.True(t, sess.ExpiresAt.Equal(clk.t.Add(time.Hour).Truncate(time.Second)))

	_, err = f.sessions.Resolve(t.Context(), sess.Token)
	require.NoError(t, err)

	clk.t = clk.t.Add(time.Hour + time.Second)
	_, err = f.sessions.Resolve(t.Context(), sess.Token)
	require.ErrorIs(t, err, service.ErrUnauthorized)
	require.ErrorIs(t, err, jwtx.ErrExpired)
}

func TestSession_RejectsForeignCipher(t *testing.T) {
	f := newFixture(t, nil)
	other := newFixture(t, nil)

	// Same signing secret, different field key: the signature verifies but
	// the embedded email does not decrypt.
	sess, err := other.sessions.Issue("a@example.com", domain.User{})
	require.NoError(t, err)

	_, err = f.sessions.Resolve(t.Context(), sess.Token)
	require.ErrorIs(t, err, service.ErrUnauthorized)
}

func TestSession_SkipsUndecryptableFields(t *testing.T) {
	f := newFixture(t, nil)

	good, err := f.cipher.Encrypt("Puebla")
	require.NoError(t, err)
	foreign, err := newCipher(t).Encrypt("secret")
	require.NoError(t, err)

	sess, err := f.sessions.Issue("a@example.com", domain.User{
		AdditionalData: map[string]string{"location": good, "broken": foreign},
	})
	require.NoError(t, err)

	id, err := f.sessions.Resolve(t.Context(), sess.Token)
	require.NoError(t, err)
	require.Equal(t, map[string]string{"location": "Puebla"}, id.AdditionalData)
}

func TestSession_RejectsGarbage(t *testing.T) {
	f := newFixture(t, nil)

	for _, tok := range []string{"", "null", "undefined", "a.b.c"} {
		_, err := f.sessions.Resolve(t.Context(), tok)
		require.ErrorIs(t, err, service.ErrUnauthorized, tok)
	}
}
