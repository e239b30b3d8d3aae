package intelmesh

import (
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// defaultHTTPTimeout bounds a single API call when no HTTPClient is supplied.
const defaultHTTPTimeout = 30 * time.Second

// Config holds everything a Client needs to reach an IntelMesh deployment.
type Config struct {
	// APIURL is the base URL of the API, for example
	// "https://intelmesh.example.com/api". Required.
	APIURL string

	// APIKey is sent as a bearer token when non-empty.
	APIKey string

	// HTTPClient issues the actual requests. Transport concerns such as TLS,
	// proxies, timeouts and connection pooling belong to it. When nil, a
	// client with a 30 second timeout is used.
	HTTPClient *http.Client

	// Logger receives one debug record per API call. When nil,
	// slog.Default() is used.
	Logger *slog.Logger
}

// Validate checks that required configuration fields are set and consistent.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("api url must not be empty")
	}
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("parsing api url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("api url must use http or https, got %q", c.APIURL)
	}
	if u.Host == "" {
		return fmt.Errorf("api url must include a host, got %q", c.APIURL)
	}
	return nil
}

// String returns a safe representation of Config with the API key masked.
func (c Config) String() string {
	return fmt.Sprintf("Config{APIURL:%s, APIKey:%s}", c.APIURL, maskAPIKey(c.APIKey))
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
