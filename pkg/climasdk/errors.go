package climasdk

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error codes returned by the server.
const (
	ErrorCodeValidation         = "validation_failed"
	ErrorCodeBadRequest         = "invalid_request"
	ErrorCodeUserExists         = "user_exists"
	ErrorCodeInvalidCredentials = "invalid_credentials"
	ErrorCodeUnauthorized       = "unauthorized"
	ErrorCodeInsufficientScope  = "insufficient_scope"
	ErrorCodeConsentRequired    = "consent_required"
	ErrorCodeNotFound           = "not_found"
	ErrorCodeRateLimited        = "rate_limit_exceeded"
	ErrorCodeUpstream           = "upstream_error"
	ErrorCodeServerError        = "server_error"
)

var (
	// ErrSessionExpired is returned by Session methods once the token has
	// expired. Log in again to continue.
	ErrSessionExpired = errors.New("climasdk: session expired")

	// ErrMissingScope is returned before a request is sent when the session
	// lacks a scope the endpoint requires and CheckScopes is on.
	ErrMissingScope = errors.New("climasdk: missing required scope")
)

// Error is a non-2xx response from the server.
type Error struct {
	StatusCode  int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func (e *Error) Error() string {
	if e.Description == "" {
		return fmt.Sprintf("climasdk: %d %s", e.StatusCode, e.Code)
	}
	return fmt.Sprintf("climasdk: %d %s: %s", e.StatusCode, e.Code, e.Description)
}

// IsStatus reports whether err is an *Error with the given status code.
func IsStatus(err error, status int) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.StatusCode == status
}

// IsCode reports whether err is an *Error with the given error code.
func IsCode(err error, code string) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Code == code
}

// parseErrorResponse builds an *Error from a failed response. Bodies that are
// not JSON still produce an error carrying the status.
func parseErrorResponse(resp *http.Response, body []byte) error {
	apiErr := &Error{StatusCode: resp.StatusCode}
	if err := json.Unmarshal(body, apiErr); err != nil || apiErr.Code == "" {
		apiErr.Code = strings.ToLower(strings.ReplaceAll(http.StatusText(resp.StatusCode), " ", "_"))
		apiErr.Description = strings.TrimSpace(string(body))
	}
	return apiErr
}
