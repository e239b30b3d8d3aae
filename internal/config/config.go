package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	// DefaultTimeoutSeconds is the default per-request timeout for API calls.
	DefaultTimeoutSeconds = 30
)

// Config holds all configuration for imctl.
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	HTTP    HTTPConfig    `mapstructure:"http"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds IntelMesh API connection settings.
type APIConfig struct {
	URL string `mapstructure:"url"`
	Key string `mapstructure:"key"`
}

// String returns a safe representation of APIConfig with the API key masked.
func (c APIConfig) String() string {
	return fmt.Sprintf("APIConfig{URL:%s, Key:%s}", c.URL, maskAPIKey(c.Key))
}

// maskAPIKey shows first 4 + last 4 chars, replacing the middle with asterisks.
func maskAPIKey(key string) string {
	const visible = 4
	if key == "" {
		return ""
	}
	if len(key) <= visible*2 {
		return "***"
	}
	return key[:visible] + "****" + key[len(key)-visible:]
}

// HTTPConfig holds transport settings for API calls.
type HTTPConfig struct {
	TimeoutSeconds int `mapstructure:"timeout_seconds"`
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from file and environment variables.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("api.url", "")
	v.SetDefault("api.key", "")

	v.SetDefault("http.timeout_seconds", DefaultTimeoutSeconds)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(filepath.Join(homeDir(), ".intelmesh"))
	v.AddConfigPath(".")

	// Environment variables
	v.SetEnvPrefix("INTELMESH")
	v.AutomaticEnv()

	// Map specific env vars
	_ = v.BindEnv("api.url", "INTELMESH_API_URL")
	_ = v.BindEnv("api.key", "INTELMESH_API_KEY")
	_ = v.BindEnv("http.timeout_seconds", "INTELMESH_HTTP_TIMEOUT_SECONDS")
	_ = v.BindEnv("logging.level", "INTELMESH_LOGGING_LEVEL")
	_ = v.BindEnv("logging.format", "INTELMESH_LOGGING_FORMAT")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK — use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that configuration fields are consistent. api.url is not
// required here: commands that never call the API (vocab) run without it, and
// the client constructor reports a missing URL when one is actually needed.
func (c *Config) Validate() error {
	if c.HTTP.TimeoutSeconds <= 0 {
		return fmt.Errorf("http.timeout_seconds must be greater than 0")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error, got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
