package clima_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clima/pkg/climasdk"
)

// TestAccountLifecycle runs register, login, profile edits and deletion
// against every persistent store driver.
func TestAccountLifecycle(t *testing.T) {
	for _, driver := range []string{"file", "badger", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			client := climasdk.NewClient(setupClimaContainer(t, relaxedEnv(driver)))
			ctx := t.Context()

			session := registerAndLogin(t, client, "e2e@example.com", map[string]string{"displayName": "E2E"})
			require.True(t, session.HasScope("user"))
			require.False(t, session.HasScope("admin"))
			require.Equal(t, "E2E", session.User().AdditionalData["displayName"])

			me, err := session.Me(ctx)
			require.NoError(t, err)
			require.Equal(t, "e2e@example.com", me.Email)

			_, err = session.UpdateDisplayName(ctx, "Renamed")
			require.NoError(t, err)

			loc, err := session.SaveLocation(ctx, "Tehuacan, Puebla")
			require.NoError(t, err)
			require.NotContains(t, loc.Preview, "Tehuacan")

			// A fresh login sees the stored profile.
			again, err := client.Login(ctx, "e2e@example.com", userPassword)
			require.NoError(t, err)
			require.Equal(t, "Renamed", again.User().AdditionalData["displayName"])
			require.Equal(t, "Tehuacan, Puebla", again.User().AdditionalData["location"])

			_, err = client.Register(ctx, climasdk.RegisterRequest{Email: "E2E@example.com", Password: userPassword})
			require.True(t, climasdk.IsStatus(err, http.StatusConflict), "duplicate email should conflict, got %v", err)

			require.NoError(t, again.DeleteAccount(ctx))

			_, err = client.Login(ctx, "e2e@example.com", userPassword)
			require.True(t, climasdk.IsStatus(err, http.StatusUnauthorized))
		})
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	client := climasdk.NewClient(setupClimaContainer(t, relaxedEnv("sqlite")))
	registerAndLogin(t, client, "pw@example.com", nil)

	_, err := client.Login(t.Context(), "pw@example.com", "not-the-password")
	require.True(t, climasdk.IsCode(err, climasdk.ErrorCodeInvalidCredentials), "got %v", err)

	_, err = client.Login(t.Context(), "nobody@example.com", userPassword)
	require.True(t, climasdk.IsCode(err, climasdk.ErrorCodeInvalidCredentials), "got %v", err)
}

func TestAdminRoute_ForbiddenForUsers(t *testing.T) {
	client := climasdk.NewClient(setupClimaContainer(t, relaxedEnv("file")))
	session := registerAndLogin(t, client, "plain@example.com", nil)

	secure, err := session.SecureClima(t.Context())
	require.NoError(t, err)
	require.NotEmpty(t, secure.Message)

	// Skip the client-side check so the server has to refuse.
	client.CheckScopes = false
	_, err = session.UpdateConfig(t.Context())
	require.True(t, climasdk.IsStatus(err, http.StatusForbidden), "got %v", err)
}
