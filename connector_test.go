package intelmesh

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConnector(t *testing.T, srv *httptest.Server) *Connector {
	t.Helper()
	connector, err := NewConnector(Config{
		APIURL:     srv.URL,
		APIKey:     "test-key-0123456789",
		HTTPClient: srv.Client(),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)
	return connector
}

func TestConnectorRequestHeaders(t *testing.T) {
	var gotAccept, gotContentType, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		gotContentType = r.Header.Get("Content-Type")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	connector := testConnector(t, srv)

	_, err := connector.DoGet(context.Background(), "/observable/entities", nil)
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotAccept)
	assert.Empty(t, gotContentType)
	assert.Equal(t, "Bearer test-key-0123456789", gotAuth)

	_, err = connector.DoPost(context.Background(), "/observable/entities", map[string]any{"type": "DomainName"})
	require.NoError(t, err)
	assert.Equal(t, "application/json", gotContentType)
}

func TestConnectorNoAuthorizationWithoutKey(t *testing.T) {
	var gotAuth string
	var sawHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, sawHeader = r.Header["Authorization"]
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	connector, err := NewConnector(Config{
		APIURL:     srv.URL,
		HTTPClient: srv.Client(),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	_, err = connector.DoGet(context.Background(), "/observable/entities", nil)
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	assert.False(t, sawHeader)
}

func TestConnectorErrorTranslation(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		check  func(t *testing.T, err error)
	}{
		{
			name:   "404 becomes NotFoundError",
			status: http.StatusNotFound,
			body:   `{"code": "NotFound", "message": "no such observation"}`,
			check: func(t *testing.T, err error) {
				var notFound *NotFoundError
				require.ErrorAs(t, err, &notFound)
				assert.Equal(t, "/enrichment/observations/generics/missing", notFound.Path)
			},
		},
		{
			name:   "422 becomes SemanticError",
			status: http.StatusUnprocessableEntity,
			body:   `{"code": "InvalidTime", "message": "seenAt is in the future"}`,
			check: func(t *testing.T, err error) {
				var semErr *SemanticError
				require.ErrorAs(t, err, &semErr)
				assert.Equal(t, SemanticErrorInvalidTime, semErr.Code)
				assert.Equal(t, "seenAt is in the future", semErr.Message)
			},
		},
		{
			name:   "500 becomes APIError",
			status: http.StatusInternalServerError,
			body:   `{"code": "Internal", "message": "storage unavailable"}`,
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
				assert.Equal(t, "Internal", apiErr.Code)
				assert.Equal(t, "storage unavailable", apiErr.Message)
			},
		},
		{
			name:   "non-JSON error body kept as message",
			status: http.StatusBadGateway,
			body:   "upstream timed out",
			check: func(t *testing.T, err error) {
				var apiErr *APIError
				require.ErrorAs(t, err, &apiErr)
				assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
				assert.Equal(t, "upstream timed out", apiErr.Message)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			connector := testConnector(t, srv)
			_, err := connector.DoGet(context.Background(), "/enrichment/observations/generics/missing", nil)
			require.Error(t, err)
			tt.check(t, err)
		})
	}
}

func TestConnectorTransportErrorIsWrapped(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	connector := testConnector(t, srv)
	srv.Close()

	_, err := connector.DoGet(context.Background(), "/observable/entities", nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "calling API")

	var urlErr *url.Error
	assert.ErrorAs(t, err, &urlErr)
}

func TestConnectorEmptyBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	connector := testConnector(t, srv)
	body, err := connector.DoGet(context.Background(), "/observable/entities", nil)
	require.NoError(t, err)
	assert.Nil(t, body)
}

func TestConnectorInvalidResponseJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	connector := testConnector(t, srv)
	_, err := connector.DoGet(context.Background(), "/observable/entities", nil)
	require.Error(t, err)
	assert.ErrorContains(t, err, "decoding response")
}

func TestConnectorTrimsTrailingSlash(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	connector, err := NewConnector(Config{
		APIURL:     srv.URL + "/",
		HTTPClient: srv.Client(),
		Logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	require.NoError(t, err)

	_, err = connector.DoGet(context.Background(), "/observable/entities", nil)
	require.NoError(t, err)
	assert.Equal(t, "/observable/entities", gotPath)
}

func TestConnectorQueryParameters(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	connector := testConnector(t, srv)

	params := url.Values{}
	params.Set("forecastAt", "2021-12-24T17:50:08+03:00")
	params.Set("valuableFacts", "true")
	_, err := connector.DoGet(context.Background(), "/observable/relationships", params)
	require.NoError(t, err)

	assert.Equal(t, "2021-12-24T17:50:08+03:00", gotQuery.Get("forecastAt"))
	assert.Equal(t, "true", gotQuery.Get("valuableFacts"))
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name:    "empty url",
			cfg:     Config{},
			wantErr: "api url must not be empty",
		},
		{
			name:    "unsupported scheme",
			cfg:     Config{APIURL: "ftp://intelmesh.example.com"},
			wantErr: "must use http or https",
		},
		{
			name:    "missing host",
			cfg:     Config{APIURL: "https://"},
			wantErr: "must include a host",
		},
		{
			name: "valid https",
			cfg:  Config{APIURL: "https://intelmesh.example.com/api"},
		},
		{
			name: "valid http",
			cfg:  Config{APIURL: "http://localhost:8080"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestConfigStringMasksAPIKey(t *testing.T) {
	cfg := Config{APIURL: "https://intelmesh.example.com", APIKey: "test-key-0123456789"}
	s := cfg.String()
	assert.Contains(t, s, "https://intelmesh.example.com")
	assert.Contains(t, s, "test****6789")
	assert.NotContains(t, s, "test-key-0123456789")
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{key: "", want: ""},
		{key: "short", want: "***"},
		{key: "12345678", want: "***"},
		{key: "test-key-0123456789", want: "test****6789"},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			assert.Equal(t, tt.want, maskAPIKey(tt.key))
		})
	}
}
