package climasdk

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Client calls the clima API. It covers the unauthenticated routes and
// creates Sessions.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// CheckScopes makes a Session refuse calls it lacks the scopes for
	// without contacting the server. Turn it off to exercise server-side
	// scope checks. Default: true
	CheckScopes bool
}

// NewClient returns a client for baseURL with scope checking enabled.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		CheckScopes: true,
	}
}

// Register creates an account.
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/register", "", req)
	if err != nil {
		return nil, err
	}

	var out RegisterResponse
	if err := decodeJSON(resp, &out, http.StatusCreated); err != nil {
		return nil, err
	}
	return &out, nil
}

// Login exchanges credentials for a Session.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	resp, err := c.doRequest(ctx, http.MethodPost, "/v1/login", "", LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, err
	}

	var out LoginResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return newSession(c, &out), nil
}

// PrivacyPolicy fetches the public privacy policy summary.
func (c *Client) PrivacyPolicy(ctx context.Context) (*PolicyResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/privacy/policy", "", nil)
	if err != nil {
		return nil, err
	}

	var out PolicyResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// PublicClima calls the open demo route.
func (c *Client) PublicClima(ctx context.Context) (*MessageResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/v1/clima/public", "", nil)
	if err != nil {
		return nil, err
	}

	var out MessageResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// Root identifies the service.
func (c *Client) Root(ctx context.Context) (*RootResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, "/", "", nil)
	if err != nil {
		return nil, err
	}

	var out RootResponse
	if err := decodeJSON(resp, &out, http.StatusOK); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetLiveness checks if the service is alive.
func (c *Client) GetLiveness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/livez")
}

// GetReadiness checks if the service is ready.
func (c *Client) GetReadiness(ctx context.Context) (*HealthResponse, error) {
	return c.health(ctx, "/readyz")
}

func (c *Client) health(ctx context.Context, path string) (*HealthResponse, error) {
	resp, err := c.doRequest(ctx, http.MethodGet, path, "", nil)
	if err != nil {
		return nil, err
	}

	var health HealthResponse
	if err := decodeJSON(resp, &health, http.StatusOK); err != nil {
		return nil, err
	}
	return &health, nil
}
