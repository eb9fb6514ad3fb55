package config

import "time"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server ServerConfig `mapstructure:"server" validate:"required"`
	Auth   AuthConfig   `mapstructure:"auth"`
	LLM    LLMConfig    `mapstructure:"llm" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// FrontendOrigin is the primary browser origin allowed to call the proxy.
	FrontendOrigin string `mapstructure:"frontend_origin" validate:"omitempty,url"`
	// AllowedOrigins replaces the derived origin list when non-empty.
	AllowedOrigins []string `mapstructure:"allowed_origins" validate:"dive,url"`

	MetricsEnabled bool  `mapstructure:"metrics_enabled"`
	MaxBodyBytes   int64 `mapstructure:"max_body_bytes" validate:"gt=0"`
}

// AuthConfig contains the shared secret this proxy requires from its own clients.
// When both fields are empty, authentication is disabled.
type AuthConfig struct {
	InternalAPIKey string `mapstructure:"internal_api_key"`
	// InternalAPIKeyHash is a bcrypt hash of the shared secret, used instead of
	// the plain key when set.
	InternalAPIKeyHash string `mapstructure:"internal_api_key_hash"`
}

// LLMConfig contains all LLM integration related settings.
type LLMConfig struct {
	// GeminiAPIKey is optional at startup; generation fails per request without it.
	GeminiAPIKey   string        `mapstructure:"gemini_api_key"`
	DefaultModel   string        `mapstructure:"default_model" validate:"required"`
	RequestTimeout time.Duration `mapstructure:"request_timeout" validate:"gt=0"`
	// BaseURL overrides the Gemini API endpoint. Empty uses the SDK default.
	BaseURL string `mapstructure:"base_url" validate:"omitempty,url"`
}

// AuthEnabled reports whether requests must carry the internal shared secret.
func (c AuthConfig) AuthEnabled() bool {
	return c.InternalAPIKey != "" || c.InternalAPIKeyHash != ""
}

// APIKeyConfigured reports whether the upstream provider key is present.
func (c LLMConfig) APIKeyConfigured() bool {
	return c.GeminiAPIKey != ""
}

// Origins returns the cross-origin allow-list. An explicit AllowedOrigins
// setting wins; otherwise the frontend origin is combined with the usual local
// development servers.
func (c ServerConfig) Origins() []string {
	if len(c.AllowedOrigins) > 0 {
		return c.AllowedOrigins
	}
	origins := make([]string, 0, len(localDevOrigins)+1)
	if c.FrontendOrigin != "" {
		origins = append(origins, c.FrontendOrigin)
	}
	for _, o := range localDevOrigins {
		if o != c.FrontendOrigin {
			origins = append(origins, o)
		}
	}
	return origins
}

var localDevOrigins = []string{
	"http://127.0.0.1:3000",
	"http://localhost:5173",
	"http://127.0.0.1:5173",
}
