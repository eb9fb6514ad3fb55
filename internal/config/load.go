package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the structured environment variable names,
// e.g. GEMINI_PROXY_SERVER_PORT for server.port.
const EnvPrefix = "GEMINI_PROXY"

// DefaultModel is the Gemini model used when a request does not name one.
const DefaultModel = "gemini-1.5-flash-latest"

// legacyEnv lists the unprefixed variable names accepted for each key, in
// priority order. They follow the names used by existing deployments.
var legacyEnv = map[string][]string{
	"server.port":                {"PORT"},
	"server.log_level":           {"LOG_LEVEL"},
	"server.frontend_origin":     {"FRONTEND_ORIGIN"},
	"server.allowed_origins":     nil,
	"server.metrics_enabled":     nil,
	"server.max_body_bytes":      nil,
	"auth.internal_api_key":      {"INTERNAL_API_KEY", "API_AUTH_TOKEN"},
	"auth.internal_api_key_hash": {"INTERNAL_API_KEY_HASH"},
	"llm.gemini_api_key":         {"GOOGLE_API_KEY", "GOOGLE_API_TOKEN"},
	"llm.default_model":          nil,
	"llm.request_timeout":        nil,
	"llm.base_url":               nil,
}

// flagKeys maps command-line flag names to configuration keys.
var flagKeys = map[string]string{
	"port":      "server.port",
	"log-level": "server.log_level",
}

// Option customizes how Load discovers configuration sources.
type Option func(*loadOptions)

type loadOptions struct {
	configFile string
	envFile    string
	flags      *pflag.FlagSet
}

// WithConfigFile reads the given file instead of searching for config.yaml.
func WithConfigFile(path string) Option {
	return func(o *loadOptions) {
		o.configFile = path
	}
}

// WithEnvFile reads dotenv-style variables from path. Variables already set in
// the process environment take precedence over the file.
func WithEnvFile(path string) Option {
	return func(o *loadOptions) {
		o.envFile = path
	}
}

// WithFlags binds command-line flags; a flag that was explicitly set overrides
// every other source.
func WithFlags(fs *pflag.FlagSet) Option {
	return func(o *loadOptions) {
		o.flags = fs
	}
}

// Load configuration from environment variables and optionally config files.
// Environment variables take precedence over values from config files.
// Returns a populated Config struct or an error if loading/validation fails.
func Load(opts ...Option) (*Config, error) {
	options := loadOptions{envFile: ".env"}
	for _, opt := range opts {
		opt(&options)
	}

	v := viper.New()
	setDefaults(v)

	if err := readConfigFile(v, options.configFile); err != nil {
		return nil, err
	}

	for key, names := range legacyEnv {
		envNames := append([]string{envName(key)}, names...)
		if err := v.BindEnv(append([]string{key}, envNames...)...); err != nil {
			return nil, fmt.Errorf("failed to bind environment for %s: %w", key, err)
		}
	}

	if err := applyEnvFile(v, options.envFile, options.flags); err != nil {
		return nil, err
	}

	if options.flags != nil {
		for flag, key := range flagKeys {
			if f := options.flags.Lookup(flag); f != nil {
				if err := v.BindPFlag(key, f); err != nil {
					return nil, fmt.Errorf("failed to bind flag %s: %w", flag, err)
				}
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 5000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.frontend_origin", "http://localhost:3000")
	v.SetDefault("server.metrics_enabled", true)
	v.SetDefault("server.max_body_bytes", 1<<20)
	v.SetDefault("llm.default_model", DefaultModel)
	v.SetDefault("llm.request_timeout", "60s")
}

// readConfigFile loads an explicit config file, or searches the usual
// locations for config.yaml. Only an explicit file is required to exist.
func readConfigFile(v *viper.Viper, path string) error {
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		return nil
	}

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/gemini-proxy")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}
	return nil
}

// applyEnvFile reads a dotenv file and feeds its values in below the process
// environment and explicitly set flags. A missing file is not an error.
func applyEnvFile(v *viper.Viper, path string, flags *pflag.FlagSet) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	dot := viper.New()
	dot.SetConfigFile(path)
	dot.SetConfigType("env")
	if err := dot.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read env file %s: %w", path, err)
	}

	for key, names := range legacyEnv {
		if envSet(key) || flagChanged(flags, key) {
			continue
		}
		for _, name := range append([]string{envName(key)}, names...) {
			if value := dot.GetString(name); value != "" {
				v.Set(key, value)
				break
			}
		}
	}
	return nil
}

func envSet(key string) bool {
	for _, name := range append([]string{envName(key)}, legacyEnv[key]...) {
		if os.Getenv(name) != "" {
			return true
		}
	}
	return false
}

func flagChanged(flags *pflag.FlagSet, key string) bool {
	if flags == nil {
		return false
	}
	for flag, k := range flagKeys {
		if k == key && flags.Changed(flag) {
			return true
		}
	}
	return false
}

func envName(key string) string {
	return EnvPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}
