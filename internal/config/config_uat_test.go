package config

import (
	"strings"
	"testing"
)

// validCfg returns a fully-valid Config for mutation testing.
func validCfg() *Config {
	return &Config{
		API: APIConfig{
			URL: "https://intelmesh.example.com/api",
			Key: "test-key-0123456789",
		},
		HTTP: HTTPConfig{
			TimeoutSeconds: 30,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

func TestUAT_Validate_TimeoutZero(t *testing.T) {
	cfg := validCfg()
	cfg.HTTP.TimeoutSeconds = 0
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for TimeoutSeconds = 0")
	}
	if !strings.Contains(err.Error(), "timeout_seconds") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUAT_Validate_TimeoutNegative(t *testing.T) {
	cfg := validCfg()
	cfg.HTTP.TimeoutSeconds = -5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for TimeoutSeconds = -5")
	}
}

func TestUAT_Validate_UnknownLogLevel(t *testing.T) {
	cfg := validCfg()
	cfg.Logging.Level = "verbose"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for logging.level = verbose")
	}
	if !strings.Contains(err.Error(), "logging.level") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUAT_Validate_UnknownLogFormat(t *testing.T) {
	cfg := validCfg()
	cfg.Logging.Format = "xml"
	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected error for logging.format = xml")
	}
	if !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUAT_Validate_EmptyAPIURLAllowed(t *testing.T) {
	cfg := validCfg()
	cfg.API.URL = ""
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty api.url should pass validation, got: %v", err)
	}
}

func TestUAT_Validate_ValidConfigPasses(t *testing.T) {
	cfg := validCfg()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("valid config should pass, got: %v", err)
	}
}
