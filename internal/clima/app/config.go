package app

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"

	httpapi "github.com/aussiebroadwan/clima/internal/clima/http"
	"github.com/aussiebroadwan/clima/internal/clima/weather"
	"github.com/aussiebroadwan/clima/pkg/cryptox"
	"github.com/aussiebroadwan/clima/pkg/httpx"
	"github.com/aussiebroadwan/clima/pkg/jwtx"
)

// ConfigPathEnv names an optional YAML file read before the environment.
const ConfigPathEnv = "CLIMA_CONFIG_PATH"

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverBadger = "badger"
	DriverSQLite = "sqlite"
)

type Config struct {
	Env                 string        `yaml:"env" env:"ENV" env-default:"dev"`
	LogLevel            string        `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`
	LogFormat           string        `yaml:"log_format" env:"LOG_FORMAT" env-default:"json"`
	Port                int           `yaml:"port" env:"PORT" env-default:"8080"`
	ShutdownGracePeriod time.Duration `yaml:"shutdown_grace_period" env:"SHUTDOWN_GRACE_PERIOD" env-default:"10s"`

	Crypto    CryptoConfig    `yaml:"crypto"`
	JWT       JWTConfig       `yaml:"jwt"`
	Store     StoreConfig     `yaml:"store"`
	Privacy   PrivacyConfig   `yaml:"privacy"`
	Weather   WeatherConfig   `yaml:"weather"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// CryptoConfig selects the field cipher key and the password pepper. Exactly
// one of EncryptionKey and Passphrase is needed; the key wins when both are
// set.
type CryptoConfig struct {
	EncryptionKey string `yaml:"encryption_key" env:"CLIMA_ENCRYPTION_KEY"`               // 64 hex chars
	Passphrase    string `yaml:"encryption_passphrase" env:"CLIMA_ENCRYPTION_PASSPHRASE"` // stretched with scrypt
	SaltFile      string `yaml:"kdf_salt_file" env:"CLIMA_KDF_SALT_FILE" env-default:"data/kdf.salt"`
	LegacyCBC     bool   `yaml:"legacy_cbc" env:"CLIMA_LEGACY_CBC" env-default:"false"`
	PepperFile    string `yaml:"pepper_file" env:"CLIMA_PEPPER_FILE" env-default:"data/pepper"`
}

type JWTConfig struct {
	Secret string        `yaml:"secret" env:"CLIMA_JWT_SECRET"`
	TTL    time.Duration `yaml:"ttl" env:"CLIMA_JWT_TTL" env-default:"1h"`
	Issuer string        `yaml:"issuer" env:"CLIMA_JWT_ISSUER" env-default:"clima"`
}

type StoreConfig struct {
	Driver       string `yaml:"driver" env:"CLIMA_STORE_DRIVER" env-default:"file"`
	UsersFile    string `yaml:"users_file" env:"CLIMA_USERS_FILE" env-default:"data/users.json"`
	BadgerDir    string `yaml:"badger_dir" env:"CLIMA_BADGER_DIR" env-default:"data/badger"`
	DatabaseFile string `yaml:"database_file" env:"CLIMA_DATABASE_FILE" env-default:"data/clima.db"`
}

type PrivacyConfig struct {
	Version   string `yaml:"version" env:"PRIVACY_VERSION" env-default:"1.0"`
	UpdatedAt string `yaml:"updated_at" env:"PRIVACY_UPDATED_AT" env-default:"2025-01-01"`
	PolicyURL string `yaml:"policy_url" env:"PRIVACY_POLICY_URL" env-default:"https://example.com/privacy"`
	Summary   string `yaml:"summary" env:"PRIVACY_SUMMARY" env-default:"We collect the minimum data needed to provide the service and keep it secure."`
}

type WeatherConfig struct {
	APIKey  string `yaml:"api_key" env:"OPENWEATHER_API_KEY"`
	BaseURL string `yaml:"base_url" env:"OPENWEATHER_BASE_URL"`
}

// RateLimitConfig overrides the per-group request limits.
type RateLimitConfig struct {
	AuthRequests    int           `yaml:"auth_requests" env:"RATELIMIT_AUTH_REQUESTS" env-default:"100"`
	AuthWindow      time.Duration `yaml:"auth_window" env:"RATELIMIT_AUTH_WINDOW" env-default:"15m"`
	AuthBurst       int           `yaml:"auth_burst" env:"RATELIMIT_AUTH_BURST" env-default:"20"`
	WeatherRequests int           `yaml:"weather_requests" env:"RATELIMIT_WEATHER_REQUESTS" env-default:"30"`
	WeatherWindow   time.Duration `yaml:"weather_window" env:"RATELIMIT_WEATHER_WINDOW" env-default:"1m"`
	WeatherBurst    int           `yaml:"weather_burst" env:"RATELIMIT_WEATHER_BURST" env-default:"30"`
	APIRequests     int           `yaml:"api_requests" env:"RATELIMIT_API_REQUESTS" env-default:"300"`
	APIWindow       time.Duration `yaml:"api_window" env:"RATELIMIT_API_WINDOW" env-default:"1m"`
	APIBurst        int           `yaml:"api_burst" env:"RATELIMIT_API_BURST" env-default:"60"`
}

// Limits converts the settings for the router.
func (c RateLimitConfig) Limits() httpapi.Limits {
	return httpapi.Limits{
		Auth:    httpx.RateLimitConfig{RequestsPerWindow: c.AuthRequests, Window: c.AuthWindow, Burst: c.AuthBurst},
		Weather: httpx.RateLimitConfig{RequestsPerWindow: c.WeatherRequests, Window: c.WeatherWindow, Burst: c.WeatherBurst},
		API:     httpx.RateLimitConfig{RequestsPerWindow: c.APIRequests, Window: c.APIWindow, Burst: c.APIBurst},
	}
}

// LoadConfig reads the YAML file named by CLIMA_CONFIG_PATH, if any, then the
// environment, and validates the result.
func LoadConfig() (Config, error) {
	var cfg Config

	var err error
	if path := os.Getenv(ConfigPathEnv); path != "" {
		err = cleanenv.ReadConfig(path, &cfg)
	} else {
		err = cleanenv.ReadEnv(&cfg)
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if cfg.Weather.BaseURL == "" {
		cfg.Weather.BaseURL = weather.DefaultBaseURL
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate fails fast on missing or malformed secrets and impossible
// settings.
func (c Config) Validate() error {
	var errs []error

	switch {
	case c.Crypto.EncryptionKey != "":
		if _, err := cryptox.ParseHexKey(c.Crypto.EncryptionKey); err != nil {
			errs = append(errs, fmt.Errorf("CLIMA_ENCRYPTION_KEY: %w", err))
		}
	case c.Crypto.Passphrase != "":
		if c.Crypto.SaltFile == "" {
			errs = append(errs, errors.New("CLIMA_KDF_SALT_FILE is required with CLIMA_ENCRYPTION_PASSPHRASE"))
		}
	default:
		errs = append(errs, errors.New("CLIMA_ENCRYPTION_KEY or CLIMA_ENCRYPTION_PASSPHRASE is required"))
	}

	if c.Crypto.PepperFile == "" {
		errs = append(errs, errors.New("CLIMA_PEPPER_FILE is required"))
	}

	if len(c.JWT.Secret) < jwtx.MinSecretLength {
		errs = append(errs, fmt.Errorf("CLIMA_JWT_SECRET must be at least %d bytes", jwtx.MinSecretLength))
	}
	if c.JWT.TTL <= 0 {
		errs = append(errs, errors.New("CLIMA_JWT_TTL must be positive"))
	}

	switch c.Store.Driver {
	case DriverMemory:
	case DriverFile:
		if c.Store.UsersFile == "" {
			errs = append(errs, errors.New("CLIMA_USERS_FILE is required for the file driver"))
		}
	case DriverBadger:
		if c.Store.BadgerDir == "" {
			errs = append(errs, errors.New("CLIMA_BADGER_DIR is required for the badger driver"))
		}
	case DriverSQLite:
		if c.Store.DatabaseFile == "" {
			errs = append(errs, errors.New("CLIMA_DATABASE_FILE is required for the sqlite driver"))
		}
	default:
		errs = append(errs, fmt.Errorf("CLIMA_STORE_DRIVER %q is not one of memory, file, badger, sqlite", c.Store.Driver))
	}

	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("PORT %d out of range", c.Port))
	}

	limits := c.RateLimit.Limits()
	for name, l := range map[string]httpx.RateLimitConfig{"auth": limits.Auth, "weather": limits.Weather, "api": limits.API} {
		if !l.Valid() {
			errs = append(errs, fmt.Errorf("rate limit %s: requests, window and burst must be positive", name))
		}
	}

	return errors.Join(errs...)
}
