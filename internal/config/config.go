// Package config defines the global configuration structure for the AquaReport
// dispatch service. Configuration is loaded once at process initialization and
// is immutable thereafter. It follows 12-Factor App principles by strictly
// separating code from configuration.
//
// Values are resolved via a priority chain:
//
//	OS Environment (Highest) -> Dotenv File (Lowest)
//
// Any missing required value or invalid format causes the application to fail
// immediately on startup (fail fast).
package config

import (
	"time"

	"aquareport/internal/types"
)

// SecretString is an alias for types.SecretString, the redacted secret type used
// throughout configuration to prevent accidental logging of sensitive values.
type SecretString = types.SecretString

// Config is the top-level configuration struct for the dispatch service.
// It is populated once during process initialization and never modified.
// Sub-components receive only the specific config subsets they require.
type Config struct {
	// System Metadata
	Environment string `envconfig:"APP_ENV" validate:"required,oneof=local dev staging prod"`
	Service     string `envconfig:"SERVICE_NAME" default:"aquareport-dispatch"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	// Domain Configurations
	Server   ServerConfig
	Auth     AuthConfig
	Mail     MailConfig
	Security SecurityConfig
	Feature  FeatureConfig

	// Build Metadata (Injected via ldflags, not Env)
	Build BuildInfo
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8080"`
}

// AuthConfig holds the ID-token verification settings. The signing key is the
// shared secret the hosting platform uses to mint caller ID tokens; the service
// only ever verifies, it never issues tokens.
type AuthConfig struct {
	TokenSigningKey SecretString `envconfig:"TOKEN_SIGNING_KEY" validate:"required,min=32"`
	TokenIssuer     string       `envconfig:"TOKEN_ISSUER" default:"aquareport"`
}

// MailConfig holds mail provider endpoint and outbound HTTP settings.
// APIBaseURL is overridable so tests can point the relay at a local server.
type MailConfig struct {
	APIBaseURL string        `envconfig:"GMAIL_API_BASE_URL" default:"https://gmail.googleapis.com"`
	UserAgent  string        `envconfig:"MAIL_USER_AGENT" default:"AquaReport/1.0"`
	Timeout    time.Duration `envconfig:"MAIL_TIMEOUT" default:"10s"`
}

// SecurityConfig holds CORS settings for the mobile/web clients.
type SecurityConfig struct {
	CorsAllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
}

// FeatureConfig holds emergency kill switches for system capabilities.
type FeatureConfig struct {
	EnableDispatch bool `envconfig:"FEATURE_ENABLE_DISPATCH" default:"true"`
}

// BuildInfo holds build-time metadata injected via ldflags.
// These values are NOT populated from environment variables.
type BuildInfo struct {
	Version   string
	Commit    string
	BuildTime string
}

// ConfigErrorType categorizes configuration loading failures to aid debugging.
type ConfigErrorType string

const (
	// ErrValidation indicates the configuration failed struct validation rules.
	ErrValidation ConfigErrorType = "VALIDATION_FAILED"
	// ErrParsing indicates a failure when parsing environment variable values
	// into their target types.
	ErrParsing ConfigErrorType = "PARSING_FAILED"
)
