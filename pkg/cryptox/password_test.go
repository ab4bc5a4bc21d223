package cryptox

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func testHasher() *PasswordHasher {
	return NewPasswordHasher([]byte("test-pepper"))
}

func TestPasswordHasher_Hash(t *testing.T) {
	h := testHasher()

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "secret1"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"unicode password", "contraseña🔒"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hash, err := h.Hash(tt.password)
			require.NoError(t, err)
			require.True(t, strings.HasPrefix(hash, "$argon2id$v=19$m=19456,t=2,p=1$"))
			require.Len(t, strings.Split(hash, "$"), 6)

			require.True(t, h.Verify(tt.password, hash))
			require.False(t, h.NeedsRehash(hash))
		})
	}
}

func TestPasswordHasher_UniqueSalts(t *testing.T) {
	h := testHasher()

	a, err := h.Hash("samepassword")
	require.NoError(t, err)
	b, err := h.Hash("samepassword")
	require.NoError(t, err)

	require.NotEqual(t, a, b, "hashes should differ due to unique salts")
	require.True(t, h.Verify("samepassword", a))
	require.True(t, h.Verify("samepassword", b))
}

func TestPasswordHasher_WrongPassword(t *testing.T) {
	h := testHasher()
	hash, err := h.Hash("correct-password")
	require.NoError(t, err)

	for _, wrong := range []string{"wrong-password", "Correct-Password", "correct-password ", "", "correct-passwor"} {
		require.False(t, h.Verify(wrong, hash), "%q should not verify", wrong)
	}
}

func TestPasswordHasher_PepperMatters(t *testing.T) {
	hash, err := NewPasswordHasher([]byte("pepper-a")).Hash("secret1")
	require.NoError(t, err)

	require.False(t, NewPasswordHasher([]byte("pepper-b")).Verify("secret1", hash))
}

func TestPasswordHasher_MalformedHashes(t *testing.T) {
	h := testHasher()

	hashes := []string{
		"",
		"plaintext",
		"$bcrypt$v=19$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=19456",
		"$argon2id$v=19$invalid$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=19456,t=2,p=1$!!!invalid!!!$aGFzaA",
		"$argon2id$v=19$m=19456,t=2,p=1$c2FsdA$!!!invalid!!!",
		"$argon2id$v=18$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$m=19456,t=2,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=0,t=0,p=0$c2FsdA$aGFzaA",
		"$2b$10$tooshort",
	}

	for _, hash := range hashes {
		require.NotPanics(t, func() {
			require.False(t, h.Verify("secret1", hash), "hash %q", hash)
		})
		require.True(t, h.NeedsRehash(hash))
	}
}

func TestPasswordHasher_LegacyBcrypt(t *testing.T) {
	h := testHasher()

	legacy, err := bcrypt.GenerateFromPassword([]byte("secret1"), 10)
	require.NoError(t, err)

	require.True(t, h.Verify("secret1", string(legacy)))
	require.False(t, h.Verify("secret2", string(legacy)))
	require.True(t, h.NeedsRehash(string(legacy)))
}

func TestPasswordHasher_NeedsRehashOnOldParams(t *testing.T) {
	h := testHasher()
	require.True(t, h.NeedsRehash("$argon2id$v=19$m=65536,t=3,p=4$c2FsdHNhbHQ$aGFzaGhhc2hoYXNo"))
}

func TestPasswordHasher_VerifyDummy(t *testing.T) {
	h := testHasher()
	require.NotPanics(t, func() { h.VerifyDummy("anything") })
	require.NotEmpty(t, h.dummy)
}
