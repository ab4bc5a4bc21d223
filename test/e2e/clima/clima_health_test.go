package clima_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clima/pkg/climasdk"
)

func TestLivezEndpoint(t *testing.T) {
	client := climasdk.NewClient(setupClimaContainer(t, relaxedEnv("file")))

	health, err := client.GetLiveness(t.Context())
	assertHealthy(t, health, err)
}

func TestReadyzEndpoint(t *testing.T) {
	client := climasdk.NewClient(setupClimaContainer(t, relaxedEnv("file")))

	health, err := client.GetReadiness(t.Context())
	assertHealthy(t, health, err)
	require.NotNil(t, health.Checks)
	require.Equal(t, "ok", health.Checks.Store)
}

func TestRootEndpoint(t *testing.T) {
	client := climasdk.NewClient(setupClimaContainer(t, relaxedEnv("file")))

	root, err := client.Root(t.Context())
	require.NoError(t, err)
	require.True(t, root.OK)
	require.Equal(t, "api-clima", root.Name)
}
