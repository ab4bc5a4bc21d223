package climasdk

import "time"

// ============================================================================
// Accounts
// ============================================================================

// RegisterRequest is the body of POST /v1/register.
type RegisterRequest struct {
	Email          string            `json:"email"`
	Password       string            `json:"password"`
	AdditionalData map[string]string `json:"additionalData,omitempty"`
}

// RegisterResponse confirms a new account.
type RegisterResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// LoginRequest is the body of POST /v1/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse carries the session token and the caller's profile.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Scopes    []string  `json:"scopes"`
	User      User      `json:"user"`
}

// User is the plaintext view of the caller's record.
type User struct {
	Email          string            `json:"email"`
	AdditionalData map[string]string `json:"additionalData"`
}

// ProfileRequest is the body of PATCH /v1/profile.
type ProfileRequest struct {
	DisplayName string `json:"displayName"`
}

// ProfileResponse echoes the updated profile.
type ProfileResponse struct {
	OK   bool `json:"ok"`
	User User `json:"user"`
}

// LocationRequest is the body of POST /v1/user/data.
type LocationRequest struct {
	Location string `json:"location"`
}

// LocationResponse shows the start of the stored ciphertext.
type LocationResponse struct {
	Message string `json:"message"`
	Preview string `json:"preview"`
}

// OKResponse is returned by operations with nothing else to report.
type OKResponse struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

// ============================================================================
// Privacy
// ============================================================================

// PolicyResponse is the public privacy policy summary.
type PolicyResponse struct {
	Version   string `json:"version"`
	UpdatedAt string `json:"updatedAt"`
	URL       string `json:"url"`
	Summary   string `json:"summary"`
}

// Consent is the last recorded consent decision.
type Consent struct {
	Given     bool       `json:"given"`
	Version   string     `json:"version"`
	Timestamp *time.Time `json:"ts"`
	IP        *string    `json:"ip"`
}

// Privacy is the consent state of an account.
type Privacy struct {
	Consent   Consent `json:"consent"`
	Analytics bool    `json:"analytics"`
	Marketing bool    `json:"marketing"`
}

// ConsentRequest is the body of POST /v1/privacy/consent.
type ConsentRequest struct {
	Consent   bool `json:"consent"`
	Analytics bool `json:"analytics"`
	Marketing bool `json:"marketing"`
}

// PreferencesRequest is the body of PATCH /v1/privacy/preferences. Nil fields
// are left unchanged.
type PreferencesRequest struct {
	Analytics *bool `json:"analytics,omitempty"`
	Marketing *bool `json:"marketing,omitempty"`
}

// PrivacyResponse returns the privacy state after a change.
type PrivacyResponse struct {
	OK      bool    `json:"ok"`
	Privacy Privacy `json:"privacy"`
}

// ExportResponse is the portable copy of an account. Fields that could not
// be decrypted are nil.
type ExportResponse struct {
	Email          string             `json:"email"`
	Roles          []string           `json:"roles"`
	Privacy        Privacy            `json:"privacy"`
	AdditionalData map[string]*string `json:"additionalData"`
	CreatedAt      *time.Time         `json:"createdAt"`
	ExportedAt     time.Time          `json:"exportedAt"`
}

// ============================================================================
// Demo and weather
// ============================================================================

// MessageResponse is returned by the demo routes.
type MessageResponse struct {
	Message string `json:"message"`
	Level   string `json:"level,omitempty"`
}

// WeatherResponse is the current weather for a city.
type WeatherResponse struct {
	Name string  `json:"name"`
	Temp float64 `json:"temp"`
	Desc string  `json:"desc"`
}

// ============================================================================
// System
// ============================================================================

// RootResponse identifies the service.
type RootResponse struct {
	OK      bool   `json:"ok"`
	Name    string `json:"name"`
	Version string `json:"version"`
}

// HealthResponse is returned by /livez and /readyz.
type HealthResponse struct {
	Status  string        `json:"status"`
	Uptime  string        `json:"uptime"`
	Version string        `json:"version"`
	Checks  *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks reports the readiness of each dependency.
type HealthChecks struct {
	Store string `json:"store"`
}

// ErrorResponse is the error body of every endpoint.
type ErrorResponse struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
}
