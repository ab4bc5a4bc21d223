package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clima/internal/clima/store"
	"github.com/aussiebroadwan/clima/internal/clima/store/drivers/sqlite"
	"github.com/aussiebroadwan/clima/internal/clima/store/storetest"
	"github.com/aussiebroadwan/clima/pkg/cryptox"
)

func openStore(t *testing.T, dsn string, c *cryptox.FieldCipher) *sqlite.Store {
	t.Helper()
	s, err := sqlite.NewStore(dsn, c)
	require.NoError(t, err)
	require.NoError(t, s.ApplyMigrations())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore(t *testing.T) {
	storetest.Run(t, func(t *testing.T, dir string, c *cryptox.FieldCipher) store.Store {
		return openStore(t, filepath.Join(dir, "clima.db"), c)
	}, storetest.Options{Durable: true})
}

func TestMigrationsAreIdempotent(t *testing.T) {
	dsn := filepath.Join(t.TempDir(), "clima.db")
	c := storetest.Cipher(t)

	s := openStore(t, dsn, c)
	require.NoError(t, s.ApplyMigrations())
	require.NoError(t, s.Load(context.Background()))
	require.NoError(t, s.Persist(context.Background()))
}

func TestRoundTripsNullables(t *testing.T) {
	c := storetest.Cipher(t)
	s := openStore(t, ":memory:", c)
	ctx := context.Background()

	u := storetest.NewUser(t, c, "nulls@example.com")
	u.Roles = nil
	u.CreatedAt = nil
	u.UpdatedAt = nil
	require.NoError(t, s.Users().Insert(ctx, "nulls@example.com", u))

	got, err := s.Users().FindByEmail(ctx, "nulls@example.com")
	require.NoError(t, err)
	require.Nil(t, got.Roles)
	require.Nil(t, got.CreatedAt)
	require.Nil(t, got.Privacy.Consent.Timestamp)
	require.NotNil(t, got.AdditionalData)
}
