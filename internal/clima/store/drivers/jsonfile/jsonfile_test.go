package jsonfile_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clima/internal/clima/store"
	"github.com/aussiebroadwan/clima/internal/clima/store/drivers/jsonfile"
	"github.com/aussiebroadwan/clima/internal/clima/store/storetest"
	"github.com/aussiebroadwan/clima/pkg/cryptox"
)

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T, dir string, c *cryptox.FieldCipher) store.Store {
		s, err := jsonfile.Open(context.Background(), filepath.Join(dir, "users.json"), c)
		require.NoError(t, err)
		return s
	}, storetest.Options{Durable: true})
}

func TestMissingFileIsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "users.json")
	c := storetest.Cipher(t)

	s, err := jsonfile.Open(context.Background(), path, c)
	require.NoError(t, err)

	n, err := s.Users().Count(context.Background())
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist, "nothing is written until the first mutation")
}

func TestCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	require.NoError(t, os.WriteFile(path, []byte("[{not json"), 0600))

	_, err := jsonfile.Open(context.Background(), path, storetest.Cipher(t))
	require.Error(t, err)
}

func TestFileLayout(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "users.json")
	c := storetest.Cipher(t)
	ctx := context.Background()

	s, err := jsonfile.Open(ctx, path, c)
	require.NoError(t, err)
	require.NoError(t, s.Users().Insert(ctx, "alice@example.com", storetest.NewUser(t, c, "alice@example.com")))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "[\n  {"), "two space indented array")
	require.NotContains(t, string(data), "alice@example.com")

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(data, &raw))
	require.Len(t, raw, 1)
	for _, k := range []string{"email", "passwordHash", "additionalData", "privacy"} {
		require.Contains(t, raw[0], k)
	}

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")

	require.NoError(t, s.Users().Remove(ctx, "alice@example.com"))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "[]", string(data))
}

func TestImportsEarlierFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), "users.json")
	c := storetest.Cipher(t)

	ct, err := c.Encrypt("legacy@example.com")
	require.NoError(t, err)

	legacy := `[
  {
    "email": "` + ct + `",
    "passwordHash": "$2b$10$abcdefghijklmnopqrstuuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ01",
    "additionalData": {},
    "privacy": {"consent": {"given": false, "version": "1.0", "ts": null, "ip": null}, "analytics": false, "marketing": false}
  }
]`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0600))

	s, err := jsonfile.Open(context.Background(), path, c)
	require.NoError(t, err)

	got, err := s.Users().FindByEmail(context.Background(), "Legacy@Example.com")
	require.NoError(t, err)
	require.NotEmpty(t, got.ID)
	require.Empty(t, got.EmailIndex)
	require.True(t, strings.HasPrefix(got.PasswordHash, "$2b$"))
}
