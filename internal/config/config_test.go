package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("INTELMESH_API_URL", "")
	t.Setenv("INTELMESH_API_KEY", "")
	t.Setenv("INTELMESH_HTTP_TIMEOUT_SECONDS", "")
	t.Setenv("INTELMESH_LOGGING_LEVEL", "")
	t.Setenv("INTELMESH_LOGGING_FORMAT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "", cfg.API.URL)
	assert.Equal(t, "", cfg.API.Key)
	assert.Equal(t, DefaultTimeoutSeconds, cfg.HTTP.TimeoutSeconds)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("INTELMESH_API_URL", "https://intelmesh.example.com/api")
	t.Setenv("INTELMESH_API_KEY", "test-key-12345")
	t.Setenv("INTELMESH_LOGGING_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://intelmesh.example.com/api", cfg.API.URL)
	assert.Equal(t, "test-key-12345", cfg.API.Key)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	t.Setenv("INTELMESH_LOGGING_LEVEL", "loud")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.level")
}

func TestAPIConfigStringMasksKey(t *testing.T) {
	cfg := APIConfig{
		URL: "https://intelmesh.example.com/api",
		Key: "im-1234567890abcdef",
	}
	s := cfg.String()
	assert.Contains(t, s, "im-1")
	assert.Contains(t, s, "cdef")
	assert.NotContains(t, s, "1234567890")
}

func TestAPIConfigStringShortKey(t *testing.T) {
	// Short keys (<=8 chars) should be masked as "***"
	cfg := APIConfig{Key: "short"}
	assert.Contains(t, cfg.String(), "***")
}

func TestAPIConfigStringEmptyKey(t *testing.T) {
	cfg := APIConfig{URL: "https://intelmesh.example.com/api"}
	assert.Equal(t, "APIConfig{URL:https://intelmesh.example.com/api, Key:}", cfg.String())
}
