package clima_test

import (
	"encoding/base64"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clima/pkg/climasdk"
)

func TestToken_CarriesNoPlaintext(t *testing.T) {
	client := climasdk.NewClient(setupClimaContainer(t, relaxedEnv("file")))
	session := registerAndLogin(t, client, "secret-person@example.com", map[string]string{"displayName": "Hidden Name"})

	parts := strings.Split(session.Token(), ".")
	require.Len(t, parts, 3)

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	require.NoError(t, err)
	require.NotContains(t, string(payload), "secret-person")
	require.NotContains(t, string(payload), "Hidden Name")
}

func TestToken_Rejected(t *testing.T) {
	client := climasdk.NewClient(setupClimaContainer(t, relaxedEnv("file")))
	session := registerAndLogin(t, client, "tamper@example.com", nil)

	tampered := session.Token()[:len(session.Token())-2] + "xx"
	forged := client.NewSessionFromToken(tampered, time.Now().Add(time.Hour), "user")

	_, err := forged.Me(t.Context())
	require.True(t, climasdk.IsStatus(err, http.StatusUnauthorized), "got %v", err)
}

func TestRateLimit_Login(t *testing.T) {
	client := climasdk.NewClient(setupClimaContainer(t, baseEnv("file")))
	ctx := t.Context()

	var limited bool
	for range 40 {
		_, err := client.Login(ctx, "nobody@example.com", "whatever1")
		if climasdk.IsStatus(err, http.StatusTooManyRequests) {
			require.True(t, climasdk.IsCode(err, climasdk.ErrorCodeRateLimited))
			limited = true
			break
		}
		require.True(t, climasdk.IsStatus(err, http.StatusUnauthorized), "got %v", err)
	}
	require.True(t, limited, "login should be rate limited within the burst")
}
