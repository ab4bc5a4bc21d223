package clima_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clima/pkg/climasdk"
)

func TestPrivacyLifecycle(t *testing.T) {
	client := climasdk.NewClient(setupClimaContainer(t, relaxedEnv("sqlite")))
	ctx := t.Context()

	policy, err := client.PrivacyPolicy(ctx)
	require.NoError(t, err)
	require.Equal(t, "1.0", policy.Version)

	session := registerAndLogin(t, client, "privacy@example.com", map[string]string{"displayName": "Priv"})

	privacy, err := session.RecordConsent(ctx, climasdk.ConsentRequest{Consent: true, Analytics: true})
	require.NoError(t, err)
	require.True(t, privacy.Consent.Given)
	require.True(t, privacy.Analytics)
	require.False(t, privacy.Marketing)
	require.NotNil(t, privacy.Consent.IP, "consent records the caller address")

	marketing := true
	privacy, err = session.UpdatePreferences(ctx, climasdk.PreferencesRequest{Marketing: &marketing})
	require.NoError(t, err)
	require.True(t, privacy.Analytics)
	require.True(t, privacy.Marketing)

	export, filename, err := session.Export(ctx)
	require.NoError(t, err)
	require.Equal(t, "export-privacy@example.com.json", filename)
	require.Equal(t, "privacy@example.com", export.Email)
	require.NotNil(t, export.AdditionalData["displayName"])
	require.Equal(t, "Priv", *export.AdditionalData["displayName"])

	require.NoError(t, session.Erase(ctx))

	_, _, err = session.Export(ctx)
	require.True(t, climasdk.IsStatus(err, http.StatusNotFound), "erased user should be gone, got %v", err)
}

func TestWeather_WithoutAPIKey(t *testing.T) {
	client := climasdk.NewClient(setupClimaContainer(t, relaxedEnv("file")))
	ctx := t.Context()
	session := registerAndLogin(t, client, "weather@example.com", nil)

	_, err := session.Weather(ctx, "")
	require.True(t, climasdk.IsCode(err, climasdk.ErrorCodeConsentRequired), "got %v", err)

	_, err = session.RecordConsent(ctx, climasdk.ConsentRequest{Consent: true, Analytics: true})
	require.NoError(t, err)

	_, err = session.Weather(ctx, "")
	require.True(t, climasdk.IsStatus(err, http.StatusServiceUnavailable), "got %v", err)
	require.True(t, climasdk.IsCode(err, climasdk.ErrorCodeUpstream))
}
