package intelmesh

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Connector issues IntelMesh API calls on behalf of the endpoint families:
// it assembles URLs, attaches headers, decodes JSON bodies and translates
// error statuses into the package's error types. One Connector is shared by
// every endpoint of a Client. It holds no per-call state and is safe for
// concurrent use.
type Connector struct {
	baseURL string
	apiKey  string
	client  *http.Client
	logger  *slog.Logger
}

// NewConnector validates cfg and builds a Connector around the configured
// HTTP client.
func NewConnector(cfg Config) (*Connector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("connector: %w", err)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Connector{
		baseURL: strings.TrimRight(cfg.APIURL, "/"),
		apiKey:  cfg.APIKey,
		client:  client,
		logger:  logger,
	}, nil
}

// DoGet issues a GET request for path with optional query parameters and
// returns the decoded JSON body.
func (c *Connector) DoGet(ctx context.Context, path string, params url.Values) (any, error) {
	return c.do(ctx, http.MethodGet, path, params, nil)
}

// DoPost issues a POST request carrying body as JSON and returns the decoded
// JSON response body.
func (c *Connector) DoPost(ctx context.Context, path string, body map[string]any) (any, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// do issues exactly one HTTP call. Transport failures are wrapped and
// returned as is; there are no retries at this layer.
func (c *Connector) do(ctx context.Context, method, path string, params url.Values, body map[string]any) (any, error) {
	requestsTotal.Add(1)

	fullURL := c.baseURL + path
	if len(params) > 0 {
		fullURL += "?" + params.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("connector: marshaling request body: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("connector: creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		requestErrorsTotal.Add(1)
		return nil, fmt.Errorf("connector: calling API: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	rawBody, err := io.ReadAll(resp.Body)
	if err != nil {
		requestErrorsTotal.Add(1)
		return nil, fmt.Errorf("connector: reading response body: %w", err)
	}

	c.logger.Debug("api call",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		requestErrorsTotal.Add(1)
		return nil, errorFromResponse(resp.StatusCode, path, rawBody)
	}

	if len(rawBody) == 0 {
		return nil, nil
	}
	var decoded any
	if err := json.Unmarshal(rawBody, &decoded); err != nil {
		return nil, fmt.Errorf("connector: decoding response: %w", err)
	}
	return decoded, nil
}

// apiErrorBody is the JSON error body the API attaches to non-2xx responses.
type apiErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorFromResponse translates an error status plus body into the package's
// error taxonomy.
func errorFromResponse(status int, path string, body []byte) error {
	var errBody apiErrorBody
	_ = json.Unmarshal(body, &errBody)

	switch status {
	case http.StatusNotFound:
		return &NotFoundError{Path: path}
	case http.StatusUnprocessableEntity:
		return &SemanticError{
			Code:    SemanticErrorCode(errBody.Code),
			Message: errBody.Message,
		}
	default:
		msg := errBody.Message
		if msg == "" {
			msg = strings.TrimSpace(string(body))
		}
		return &APIError{StatusCode: status, Code: errBody.Code, Message: msg}
	}
}

// asObject asserts that a decoded response body is a JSON object.
func asObject(body any) (map[string]any, error) {
	m, ok := body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("unexpected response body %T, want object", body)
	}
	return m, nil
}

// asObjectList asserts that a decoded response body is a JSON array of
// objects.
func asObjectList(body any) ([]map[string]any, error) {
	items, ok := body.([]any)
	if !ok {
		return nil, fmt.Errorf("unexpected response body %T, want array", body)
	}
	docs := make([]map[string]any, len(items))
	for i, item := range items {
		m, ok := item.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("unexpected response item %T at index %d, want object", item, i)
		}
		docs[i] = m
	}
	return docs, nil
}
