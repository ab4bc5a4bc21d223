package http

import (
	"net/http"

	"github.com/aussiebroadwan/clima/internal/clima/weather"
	"github.com/aussiebroadwan/clima/pkg/climasdk"
	"github.com/aussiebroadwan/clima/pkg/httpx"
	"github.com/aussiebroadwan/clima/pkg/slogx"
)

type ClimaHandler struct {
	Weather *weather.Client
}

// HandlePublic is the open demo route.
//
//	@Summary		Public weather data
//	@Tags			Clima
//	@Produce		json
//	@Success		200	{object}	climasdk.MessageResponse
//	@Router			/v1/clima/public [get].
func (h *ClimaHandler) HandlePublic(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, climasdk.MessageResponse{Message: "public weather data (open access)"})
}

// HandleSecure is the authenticated demo route.
//
//	@Summary		Detailed weather data
//	@Tags			Clima
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	climasdk.MessageResponse
//	@Failure		401	{object}	climasdk.ErrorResponse
//	@Router			/v1/clima/secure [get].
func (h *ClimaHandler) HandleSecure(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	httpx.WriteJSON(w, http.StatusOK, climasdk.MessageResponse{
		Message: "detailed weather data for " + id.Email,
		Level:   "secure access",
	})
}

// HandleConfig is the admin demo route.
//
//	@Summary		Update configuration
//	@Description	Requires both the admin and write:config scopes.
//	@Tags			Clima
//	@Security		BearerAuth
//	@Produce		json
//	@Success		200	{object}	climasdk.MessageResponse
//	@Failure		401	{object}	climasdk.ErrorResponse
//	@Failure		403	{object}	climasdk.ErrorResponse	"Insufficient scope"
//	@Router			/v1/config [post].
func (h *ClimaHandler) HandleConfig(w http.ResponseWriter, r *http.Request) {
	httpx.WriteJSON(w, http.StatusOK, climasdk.MessageResponse{
		Message: "configuration updated",
		Level:   "admin",
	})
}

// HandleWeather returns the current weather for ?q=, defaulting to the
// configured city.
//
//	@Summary		Current weather
//	@Description	Proxies OpenWeather. Requires analytics consent. Upstream failures keep the upstream status.
//	@Tags			Clima
//	@Security		BearerAuth
//	@Produce		json
//	@Param			q	query		string	false	"City name"
//	@Success		200	{object}	climasdk.WeatherResponse
//	@Failure		401	{object}	climasdk.ErrorResponse
//	@Failure		403	{object}	climasdk.ErrorResponse	"Analytics consent missing"
//	@Failure		502	{object}	climasdk.ErrorResponse	"Weather lookup failed"
//	@Router			/v1/weather [get].
func (h *ClimaHandler) HandleWeather(w http.ResponseWriter, r *http.Request) {
	report, err := h.Weather.Current(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		slogx.FromContext(r.Context()).Warn("weather lookup failed", slogx.Err(err))
		httpx.WriteError(w, weather.StatusCode(err), climasdk.ErrorCodeUpstream, "weather lookup failed")
		return
	}
	httpx.WriteJSON(w, http.StatusOK, climasdk.WeatherResponse{
		Name: report.Name,
		Temp: report.Temp,
		Desc: report.Desc,
	})
}
