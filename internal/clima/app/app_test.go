package app_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clima/internal/clima/app"
	"github.com/aussiebroadwan/clima/pkg/climasdk"
	"github.com/aussiebroadwan/clima/pkg/slogx"
)

func startApp(t *testing.T, cfg app.Config) *climasdk.Client {
	t.Helper()
	a, err := app.NewWithLogger(cfg, slogx.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Shutdown() })

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)
	return climasdk.NewClient(srv.URL)
}

func TestNew_Drivers(t *testing.T) {
	for _, driver := range []string{app.DriverMemory, app.DriverFile, app.DriverBadger, app.DriverSQLite} {
		t.Run(driver, func(t *testing.T) {
			cfg := validConfig(t)
			dir := t.TempDir()
			cfg.Store = app.StoreConfig{
				Driver:       driver,
				UsersFile:    filepath.Join(dir, "users.json"),
				BadgerDir:    filepath.Join(dir, "badger"),
				DatabaseFile: filepath.Join(dir, "clima.db"),
			}

			c := startApp(t, cfg)
			ctx := context.Background()

			ready, err := c.GetReadiness(ctx)
			require.NoError(t, err)
			require.Equal(t, "ok", ready.Status)

			root, err := c.Root(ctx)
			require.NoError(t, err)
			require.Equal(t, app.ServiceName, root.Name)

			_, err = c.Register(ctx, climasdk.RegisterRequest{Email: "kim@example.com", Password: "secret1"})
			require.NoError(t, err)
			s, err := c.Login(ctx, "kim@example.com", "secret1")
			require.NoError(t, err)

			me, err := s.Me(ctx)
			require.NoError(t, err)
			require.Equal(t, "kim@example.com", me.Email)
		})
	}
}

func TestNew_FileStoreHoldsNoPlaintext(t *testing.T) {
	cfg := validConfig(t)
	path := filepath.Join(t.TempDir(), "users.json")
	cfg.Store = app.StoreConfig{Driver: app.DriverFile, UsersFile: path}

	c := startApp(t, cfg)
	_, err := c.Register(context.Background(), climasdk.RegisterRequest{
		Email:          "lee@example.com",
		Password:       "secret1",
		AdditionalData: map[string]string{"displayName": "Lee Park"},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NotContains(t, string(raw), "lee@example.com")
	require.NotContains(t, string(raw), "Lee Park")
	require.NotContains(t, string(raw), "secret1")
}

func TestNew_PassphraseKeyIsStable(t *testing.T) {
	cfg := validConfig(t)
	cfg.Crypto.EncryptionKey = ""
	cfg.Crypto.Passphrase = "correct horse battery staple"
	cfg.Store = app.StoreConfig{Driver: app.DriverFile, UsersFile: filepath.Join(t.TempDir(), "users.json")}

	c := startApp(t, cfg)
	_, err := c.Register(context.Background(), climasdk.RegisterRequest{Email: "max@example.com", Password: "secret1"})
	require.NoError(t, err)

	// A second instance over the same salt, pepper and file derives the
	// same key and can still log the user in.
	c = startApp(t, cfg)
	_, err = c.Login(context.Background(), "max@example.com", "secret1")
	require.NoError(t, err)

	_, err = os.Stat(cfg.Crypto.SaltFile)
	require.NoError(t, err)
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := validConfig(t)
	cfg.JWT.Secret = ""

	_, err := app.NewWithLogger(cfg, slogx.Discard())
	require.Error(t, err)
	require.Contains(t, err.Error(), "CLIMA_JWT_SECRET")
}
