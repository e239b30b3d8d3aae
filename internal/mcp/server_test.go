package mcp

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	intelmesh "github.com/intelmesh/intelmesh-go"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newTestServer returns a Server whose client talks to the given backend.
func newTestServer(t *testing.T, backend *httptest.Server) *Server {
	t.Helper()
	client, err := intelmesh.New(intelmesh.Config{
		APIURL:     backend.URL,
		HTTPClient: backend.Client(),
		Logger:     testLogger(),
	})
	require.NoError(t, err)
	return NewServer(client, testLogger())
}

// offlineServer returns a Server whose backend fails the test when called.
func offlineServer(t *testing.T) *Server {
	t.Helper()
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected API call: %s %s", r.Method, r.URL.Path)
	}))
	t.Cleanup(backend.Close)
	return newTestServer(t, backend)
}

// makeReq builds a CallToolRequest with the given arguments.
func makeReq(toolName string, args map[string]any) mcpgo.CallToolRequest {
	req := mcpgo.CallToolRequest{}
	req.Params.Name = toolName
	req.Params.Arguments = args
	return req
}

// textContent extracts the first TextContent string from a CallToolResult.
func textContent(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content, "expected at least one content item")
	tc, ok := result.Content[0].(mcpgo.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return tc.Text
}

// --- register_entity tests ---

func TestMCPRegisterEntity_ReturnsRef(t *testing.T) {
	var gotBody map[string]any
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/observable/entities", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"uuid": "66fd82a1-c35c-424e-986c-133054bd7797"}`))
	}))
	defer backend.Close()

	srv := newTestServer(t, backend)
	result, err := srv.HandleRegisterEntity(context.Background(), makeReq("register_entity", map[string]any{
		"type": "DomainName",
		"keys": "String=test.com",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, "register_entity returned error: %s", textContent(t, result))

	assert.Equal(t, "DomainName", gotBody["type"])
	keys := gotBody["keys"].([]any)
	require.Len(t, keys, 1)
	assert.Equal(t, map[string]any{"type": "String", "value": "test.com"}, keys[0])

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &out))
	assert.Equal(t, "66fd82a1-c35c-424e-986c-133054bd7797", out["uuid"])
}

func TestMCPRegisterEntity_MultipleKeys(t *testing.T) {
	var gotBody map[string]any
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"uuid": "5e662f2b-4675-41e2-a709-ef2d1b6dbb71"}`))
	}))
	defer backend.Close()

	srv := newTestServer(t, backend)
	result, err := srv.HandleRegisterEntity(context.Background(), makeReq("register_entity", map[string]any{
		"type": "File",
		"keys": "MD5Hash=9b2c1e2b8c9d2a4f6e8a0b1c2d3e4f56, SHA1Hash=da39a3ee5e6b4b0d3255bfef95601890afd80709",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	keys := gotBody["keys"].([]any)
	require.Len(t, keys, 2)
	assert.Equal(t, "MD5Hash", keys[0].(map[string]any)["type"])
	assert.Equal(t, "SHA1Hash", keys[1].(map[string]any)["type"])
}

func TestMCPRegisterEntity_InvalidType(t *testing.T) {
	srv := offlineServer(t)

	result, err := srv.HandleRegisterEntity(context.Background(), makeReq("register_entity", map[string]any{
		"type": "Satellite",
		"keys": "String=test.com",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textContent(t, result), "invalid type")
}

func TestMCPRegisterEntity_MalformedKeys(t *testing.T) {
	srv := offlineServer(t)

	tests := []string{"", "String", "CRC32=abcd", "String="}
	for _, keys := range tests {
		t.Run(keys, func(t *testing.T) {
			result, err := srv.HandleRegisterEntity(context.Background(), makeReq("register_entity", map[string]any{
				"type": "DomainName",
				"keys": keys,
			}))
			require.NoError(t, err)
			assert.True(t, result.IsError)
		})
	}
}

// --- view_observation tests ---

func TestMCPViewObservation_ReturnsDocument(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/enrichment/observations/generics/2f8bd3b9-5e4a-41b8-9f8d-8e3fd874cf19", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"shareLevel": "Green", "seenAt": "2021-12-24T17:50:08+03:00", "content": {}}`))
	}))
	defer backend.Close()

	srv := newTestServer(t, backend)
	result, err := srv.HandleViewObservation(context.Background(), makeReq("view_observation", map[string]any{
		"uuid": "2f8bd3b9-5e4a-41b8-9f8d-8e3fd874cf19",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, "view_observation returned error: %s", textContent(t, result))

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &out))
	assert.Equal(t, "Green", out["shareLevel"])
}

func TestMCPViewObservation_BadUUID(t *testing.T) {
	srv := offlineServer(t)

	result, err := srv.HandleViewObservation(context.Background(), makeReq("view_observation", map[string]any{
		"uuid": "not-a-uuid",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textContent(t, result), "invalid uuid")
}

func TestMCPViewObservation_NotFound(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code": "NotFound", "message": "observation not found"}`))
	}))
	defer backend.Close()

	srv := newTestServer(t, backend)
	result, err := srv.HandleViewObservation(context.Background(), makeReq("view_observation", map[string]any{
		"uuid": "2f8bd3b9-5e4a-41b8-9f8d-8e3fd874cf19",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textContent(t, result), "view failed")
}

// --- forecast_relationship tests ---

func TestMCPForecastRelationship_ReturnsForecast(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/observable/relationships/66fd82a1-c35c-424e-986c-133054bd7797/resolves-to/40a13d3f-96d2-4c85-acc5-5657f2ecb69d", r.URL.Path)
		assert.Equal(t, "2021-12-24T17:50:08+03:00", r.URL.Query().Get("forecastAt"))
		assert.Equal(t, "true", r.URL.Query().Get("valuableFacts"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"relationship": {"relationKind": "ResolvesTo"}, "confidence": 0.4999951, "valuableFacts": []}`))
	}))
	defer backend.Close()

	srv := newTestServer(t, backend)
	result, err := srv.HandleForecastRelationship(context.Background(), makeReq("forecast_relationship", map[string]any{
		"source_uuid":    "66fd82a1-c35c-424e-986c-133054bd7797",
		"kind":           "ResolvesTo",
		"target_uuid":    "40a13d3f-96d2-4c85-acc5-5657f2ecb69d",
		"forecast_at":    "2021-12-24T17:50:08+03:00",
		"valuable_facts": true,
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, "forecast_relationship returned error: %s", textContent(t, result))

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &out))
	assert.InDelta(t, 0.4999951, out["confidence"].(float64), 1e-9)
}

func TestMCPForecastRelationship_InvalidKind(t *testing.T) {
	srv := offlineServer(t)

	result, err := srv.HandleForecastRelationship(context.Background(), makeReq("forecast_relationship", map[string]any{
		"source_uuid": "66fd82a1-c35c-424e-986c-133054bd7797",
		"kind":        "Ignores",
		"target_uuid": "40a13d3f-96d2-4c85-acc5-5657f2ecb69d",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textContent(t, result), "invalid kind")
}

func TestMCPForecastRelationship_BadForecastAt(t *testing.T) {
	srv := offlineServer(t)

	result, err := srv.HandleForecastRelationship(context.Background(), makeReq("forecast_relationship", map[string]any{
		"source_uuid": "66fd82a1-c35c-424e-986c-133054bd7797",
		"kind":        "ResolvesTo",
		"target_uuid": "40a13d3f-96d2-4c85-acc5-5657f2ecb69d",
		"forecast_at": "yesterday",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textContent(t, result), "invalid forecast_at")
}

// --- forecast_attribute tests ---

func TestMCPForecastAttribute_ReturnsForecast(t *testing.T) {
	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/observable/entities/40a13d3f-96d2-4c85-acc5-5657f2ecb69d/attributes/IsMalicious", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"values": [{"value": true, "confidence": 0.8998864}], "hasConflicts": false}`))
	}))
	defer backend.Close()

	srv := newTestServer(t, backend)
	result, err := srv.HandleForecastAttribute(context.Background(), makeReq("forecast_attribute", map[string]any{
		"entity_uuid": "40a13d3f-96d2-4c85-acc5-5657f2ecb69d",
		"attribute":   "IsMalicious",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError, "forecast_attribute returned error: %s", textContent(t, result))

	var out map[string]any
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &out))
	assert.Equal(t, false, out["hasConflicts"])
}

func TestMCPForecastAttribute_InvalidAttribute(t *testing.T) {
	srv := offlineServer(t)

	result, err := srv.HandleForecastAttribute(context.Background(), makeReq("forecast_attribute", map[string]any{
		"entity_uuid": "40a13d3f-96d2-4c85-acc5-5657f2ecb69d",
		"attribute":   "Mood",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textContent(t, result), "invalid attribute")
}

// --- list_vocabulary tests ---

func TestMCPListVocabulary_AllSets(t *testing.T) {
	srv := NewServer(nil, testLogger())

	result, err := srv.HandleListVocabulary(context.Background(), makeReq("list_vocabulary", map[string]any{}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var out map[string][]string
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &out))
	assert.Len(t, out, 7)
	assert.Contains(t, out["relationship-kinds"], "ResolvesTo")
	assert.Contains(t, out["share-levels"], "Amber")
	assert.Contains(t, out["observation-types"], "DNSLookup")
}

func TestMCPListVocabulary_SingleSet(t *testing.T) {
	srv := NewServer(nil, testLogger())

	result, err := srv.HandleListVocabulary(context.Background(), makeReq("list_vocabulary", map[string]any{
		"set": "share-levels",
	}))
	require.NoError(t, err)
	require.False(t, result.IsError)

	var out map[string][]string
	require.NoError(t, json.Unmarshal([]byte(textContent(t, result)), &out))
	assert.Equal(t, map[string][]string{
		"share-levels": {"White", "Green", "Amber", "Red"},
	}, out)
}

func TestMCPListVocabulary_UnknownSet(t *testing.T) {
	srv := NewServer(nil, testLogger())

	result, err := srv.HandleListVocabulary(context.Background(), makeReq("list_vocabulary", map[string]any{
		"set": "colors",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textContent(t, result), "unknown set")
}

// --- wiring tests ---

func TestMCPNilClientReturnsError(t *testing.T) {
	srv := NewServer(nil, testLogger())

	result, err := srv.HandleRegisterEntity(context.Background(), makeReq("register_entity", map[string]any{
		"type": "DomainName",
		"keys": "String=test.com",
	}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Contains(t, textContent(t, result), "client is unavailable")
}

func TestMCPServerAccessor(t *testing.T) {
	srv := NewServer(nil, testLogger())
	assert.NotNil(t, srv.MCPServer())
}
