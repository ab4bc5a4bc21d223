// Package weather looks up current conditions from OpenWeather.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"
	DefaultCity    = "Tehuacan"
	DefaultTimeout = 8 * time.Second
)

var (
	// ErrNotConfigured is returned when no API key is set.
	ErrNotConfigured = errors.New("weather: api key not configured")

	// ErrUpstream wraps failures talking to the weather provider.
	ErrUpstream = errors.New("weather lookup failed")
)

// UpstreamError carries the status code the provider answered with.
type UpstreamError struct {
	StatusCode int
	Message    string
}

func (e *UpstreamError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("weather: upstream status %d", e.StatusCode)
	}
	return fmt.Sprintf("weather: upstream status %d: %s", e.StatusCode, e.Message)
}

func (e *UpstreamError) Is(target error) bool { return target == ErrUpstream }

// Report is the trimmed-down answer returned to callers.
type Report struct {
	Name string  `json:"name"`
	Temp float64 `json:"temp"`
	Desc string  `json:"desc"`
}

// Client queries the OpenWeather current weather endpoint in metric units
// with Spanish descriptions.
type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

// NewClient returns a client with the default endpoint and timeout. An empty
// baseURL selects DefaultBaseURL.
func NewClient(baseURL, apiKey string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    strings.TrimSuffix(baseURL, "/"),
		APIKey:     apiKey,
		HTTPClient: &http.Client{Timeout: DefaultTimeout},
	}
}

// Configured reports whether an API key is set.
func (c *Client) Configured() bool { return c != nil && c.APIKey != "" }

type currentResponse struct {
	Name string `json:"name"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Message string `json:"message"`
}

// Current fetches the conditions for city, or DefaultCity when empty.
func (c *Client) Current(ctx context.Context, city string) (Report, error) {
	if !c.Configured() {
		return Report{}, ErrNotConfigured
	}
	city = strings.TrimSpace(city)
	if city == "" {
		city = DefaultCity
	}

	q := url.Values{
		"q":     {city},
		"appid": {c.APIKey},
		"units": {"metric"},
		"lang":  {"es"},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Report{}, fmt.Errorf("weather: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		// Drop the URL from the error, it carries the API key.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return Report{}, fmt.Errorf("%w: %w", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Report{}, fmt.Errorf("%w: read body: %w", ErrUpstream, err)
	}

	var parsed currentResponse
	decodeErr := json.Unmarshal(body, &parsed)

	if resp.StatusCode != http.StatusOK {
		return Report{}, &UpstreamError{StatusCode: resp.StatusCode, Message: parsed.Message}
	}
	if decodeErr != nil {
		return Report{}, fmt.Errorf("%w: decode: %w", ErrUpstream, decodeErr)
	}

	r := Report{Name: parsed.Name, Temp: parsed.Main.Temp}
	if len(parsed.Weather) > 0 {
		r.Desc = parsed.Weather[0].Description
	}
	return r, nil
}

// StatusCode maps err to the HTTP status a proxy should answer with: the
// upstream status when there was one, 502 otherwise.
func StatusCode(err error) int {
	var ue *UpstreamError
	if errors.As(err, &ue) && ue.StatusCode >= 400 {
		return ue.StatusCode
	}
	if errors.Is(err, ErrNotConfigured) {
		return http.StatusServiceUnavailable
	}
	return http.StatusBadGateway
}
