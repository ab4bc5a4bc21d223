package weather_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/aussiebroadwan/clima/internal/clima/weather"
)

func TestCurrent(t *testing.T) {
	var got http.Header
	var query map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header
		query = map[string]string{}
		for k := range r.URL.Query() {
			query[k] = r.URL.Query().Get(k)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"Tehuacán","main":{"temp":24.5},"weather":[{"description":"cielo claro"}]}`))
	}))
	t.Cleanup(srv.Close)

	c := weather.NewClient(srv.URL, "k3y")
	report, err := c.Current(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, weather.Report{Name: "Tehuacán", Temp: 24.5, Desc: "cielo claro"}, report)

	require.Equal(t, weather.DefaultCity, query["q"])
	require.Equal(t, "metric", query["units"])
	require.Equal(t, "es", query["lang"])
	require.Equal(t, "k3y", query["appid"])
	require.Equal(t, "application/json", got.Get("Accept"))
}

func TestCurrent_UpstreamStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"cod":"404","message":"city not found"}`))
	}))
	t.Cleanup(srv.Close)

	_, err := weather.NewClient(srv.URL, "k3y").Current(context.Background(), "Atlantis")
	require.ErrorIs(t, err, weather.ErrUpstream)
	require.Contains(t, err.Error(), "city not found")
	require.Equal(t, http.StatusNotFound, weather.StatusCode(err))
}

func TestCurrent_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	c := weather.NewClient(srv.URL, "k3y")
	c.HTTPClient.Timeout = 50 * time.Millisecond

	_, err := c.Current(context.Background(), "Puebla")
	require.ErrorIs(t, err, weather.ErrUpstream)
	require.NotContains(t, err.Error(), "k3y")
	require.Equal(t, http.StatusBadGateway, weather.StatusCode(err))
}

func TestCurrent_NotConfigured(t *testing.T) {
	_, err := weather.NewClient("", "").Current(context.Background(), "Puebla")
	require.ErrorIs(t, err, weather.ErrNotConfigured)
	require.Equal(t, http.StatusServiceUnavailable, weather.StatusCode(err))
}
