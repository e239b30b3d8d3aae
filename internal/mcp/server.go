// Package mcp implements the Model Context Protocol server for IntelMesh.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	mcpgo "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	intelmesh "github.com/intelmesh/intelmesh-go"
)

// Server wraps an MCPServer around an IntelMesh API client.
type Server struct {
	mcp    *mcpserver.MCPServer
	client *intelmesh.Client
	logger *slog.Logger
}

// NewServer creates a new MCP server. If client is nil, tool calls return an
// error response instead of panicking.
func NewServer(client *intelmesh.Client, logger *slog.Logger) *Server {
	s := &Server{
		client: client,
		logger: logger,
	}

	mcpSrv := mcpserver.NewMCPServer(
		"intelmesh",
		"1.0.0",
		mcpserver.WithToolCapabilities(true),
	)

	mcpSrv.AddTool(buildRegisterEntityTool(), s.handleRegisterEntity)
	mcpSrv.AddTool(buildViewObservationTool(), s.handleViewObservation)
	mcpSrv.AddTool(buildForecastRelationshipTool(), s.handleForecastRelationship)
	mcpSrv.AddTool(buildForecastAttributeTool(), s.handleForecastAttribute)
	mcpSrv.AddTool(buildListVocabularyTool(), s.handleListVocabulary)

	s.mcp = mcpSrv
	return s
}

// MCPServer returns the underlying mcp-go MCPServer for use with ServeStdio.
func (s *Server) MCPServer() *mcpserver.MCPServer {
	return s.mcp
}

// HandleRegisterEntity is the exported handler for the "register_entity" tool.
// It is exposed for direct testing without the mcp-go transport layer.
func (s *Server) HandleRegisterEntity(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleRegisterEntity(ctx, req)
}

// HandleViewObservation is the exported handler for the "view_observation" tool.
func (s *Server) HandleViewObservation(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleViewObservation(ctx, req)
}

// HandleForecastRelationship is the exported handler for the "forecast_relationship" tool.
func (s *Server) HandleForecastRelationship(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleForecastRelationship(ctx, req)
}

// HandleForecastAttribute is the exported handler for the "forecast_attribute" tool.
func (s *Server) HandleForecastAttribute(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleForecastAttribute(ctx, req)
}

// HandleListVocabulary is the exported handler for the "list_vocabulary" tool.
func (s *Server) HandleListVocabulary(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	return s.handleListVocabulary(ctx, req)
}

// --- helpers ---

// toolResultJSON marshals v to JSON and returns it as a tool text result.
func toolResultJSON(v any) (*mcpgo.CallToolResult, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("mcp: marshaling result: %w", err)
	}
	return mcpgo.NewToolResultText(string(b)), nil
}

// parseEntityKeys parses a comma-separated list of TYPE=VALUE key pairs, for
// example "String=test.com" or "MD5Hash=ab12,SHA1Hash=cd34".
func parseEntityKeys(raw string) ([]intelmesh.EntityKeyType, []string, error) {
	var types []intelmesh.EntityKeyType
	var values []string
	for _, pair := range strings.Split(raw, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		kt, value, found := strings.Cut(pair, "=")
		if !found || value == "" {
			return nil, nil, fmt.Errorf("key %q: want TYPE=VALUE", pair)
		}
		keyType, err := intelmesh.ParseEntityKeyType(kt)
		if err != nil {
			return nil, nil, fmt.Errorf("key %q: %w", pair, err)
		}
		types = append(types, keyType)
		values = append(values, value)
	}
	if len(types) == 0 {
		return nil, nil, fmt.Errorf("at least one TYPE=VALUE key is required")
	}
	return types, values, nil
}

// enumStrings converts a closed vocabulary slice to plain strings.
func enumStrings[T ~string](values []T) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = string(v)
	}
	return out
}

// vocabularies returns every closed vocabulary by set name.
func vocabularies() map[string][]string {
	return map[string][]string{
		"entity-types":       enumStrings(intelmesh.ValidEntityTypes),
		"entity-key-types":   enumStrings(intelmesh.ValidEntityKeyTypes),
		"attribute-names":    enumStrings(intelmesh.ValidAttributeNames),
		"relationship-kinds": enumStrings(intelmesh.ValidRelationshipKinds),
		"share-levels":       enumStrings(intelmesh.ValidShareLevels),
		"observation-types":  enumStrings(intelmesh.ValidObservationTypes),
		"link-directions":    enumStrings(intelmesh.ValidLinkDirections),
	}
}

// --- tool definitions ---

func buildRegisterEntityTool() mcpgo.Tool {
	return mcpgo.NewTool("register_entity",
		mcpgo.WithDescription("Register an observable entity by its natural keys. Returns the entity reference, reusing the existing entity when the keys are already known."),
		mcpgo.WithString("type",
			mcpgo.Required(),
			mcpgo.Description("Entity type, e.g. DomainName, IPAddress, File"),
		),
		mcpgo.WithString("keys",
			mcpgo.Required(),
			mcpgo.Description("Comma-separated TYPE=VALUE key pairs, e.g. String=test.com"),
		),
	)
}

func buildViewObservationTool() mcpgo.Tool {
	return mcpgo.NewTool("view_observation",
		mcpgo.WithDescription("Fetch a generic observation by UUID and return its full document."),
		mcpgo.WithString("uuid",
			mcpgo.Required(),
			mcpgo.Description("UUID of the observation"),
		),
	)
}

func buildForecastRelationshipTool() mcpgo.Tool {
	return mcpgo.NewTool("forecast_relationship",
		mcpgo.WithDescription("Forecast the confidence that a relationship between two entities holds."),
		mcpgo.WithString("source_uuid",
			mcpgo.Required(),
			mcpgo.Description("UUID of the source entity"),
		),
		mcpgo.WithString("kind",
			mcpgo.Required(),
			mcpgo.Description("Relationship kind, e.g. ResolvesTo"),
		),
		mcpgo.WithString("target_uuid",
			mcpgo.Required(),
			mcpgo.Description("UUID of the target entity"),
		),
		mcpgo.WithString("forecast_at",
			mcpgo.Description("RFC3339 timestamp to forecast at (default: now)"),
		),
		mcpgo.WithBoolean("valuable_facts",
			mcpgo.Description("Include the facts the forecast is built on"),
		),
	)
}

func buildForecastAttributeTool() mcpgo.Tool {
	return mcpgo.NewTool("forecast_attribute",
		mcpgo.WithDescription("Forecast the values of an entity's attribute with confidences."),
		mcpgo.WithString("entity_uuid",
			mcpgo.Required(),
			mcpgo.Description("UUID of the entity"),
		),
		mcpgo.WithString("attribute",
			mcpgo.Required(),
			mcpgo.Description("Attribute name, e.g. IsMalicious"),
		),
		mcpgo.WithString("forecast_at",
			mcpgo.Description("RFC3339 timestamp to forecast at (default: now)"),
		),
	)
}

func buildListVocabularyTool() mcpgo.Tool {
	return mcpgo.NewTool("list_vocabulary",
		mcpgo.WithDescription("List the closed vocabularies the API accepts: entity types, key types, attribute names, relationship kinds, share levels, observation types and link directions."),
		mcpgo.WithString("set",
			mcpgo.Description("Vocabulary set name, e.g. relationship-kinds (default: all sets)"),
		),
	)
}

// --- tool handlers ---

// handleRegisterEntity registers an entity built from type and key pairs.
func (s *Server) handleRegisterEntity(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.client == nil {
		return mcpgo.NewToolResultError("client is unavailable"), nil
	}

	entityType, err := intelmesh.ParseEntityType(req.GetString("type", ""))
	if err != nil {
		return mcpgo.NewToolResultErrorf("invalid type: %s", err.Error()), nil
	}

	keyTypes, keyValues, err := parseEntityKeys(req.GetString("keys", ""))
	if err != nil {
		return mcpgo.NewToolResultErrorf("invalid keys: %s", err.Error()), nil
	}

	form := intelmesh.NewEntityForm(entityType)
	for i := range keyTypes {
		form.AddKey(keyTypes[i], keyValues[i])
	}

	ref, err := s.client.Entities.Register(ctx, form)
	if err != nil {
		return mcpgo.NewToolResultErrorf("register failed: %s", err.Error()), nil
	}

	id, err := ref.UUID()
	if err != nil {
		return mcpgo.NewToolResultErrorf("register returned a bad reference: %s", err.Error()), nil
	}
	s.logger.Info("mcp: registered entity", "uuid", id, "type", entityType)

	return toolResultJSON(ref.Raw())
}

// handleViewObservation fetches one observation and returns its raw document.
func (s *Server) handleViewObservation(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.client == nil {
		return mcpgo.NewToolResultError("client is unavailable"), nil
	}

	observationUUID, err := uuid.Parse(req.GetString("uuid", ""))
	if err != nil {
		return mcpgo.NewToolResultErrorf("invalid uuid: %s", err.Error()), nil
	}

	view, err := s.client.Observations.View(ctx, observationUUID)
	if err != nil {
		return mcpgo.NewToolResultErrorf("view failed: %s", err.Error()), nil
	}
	return toolResultJSON(view.Raw())
}

// handleForecastRelationship forecasts one relationship between two entities.
func (s *Server) handleForecastRelationship(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.client == nil {
		return mcpgo.NewToolResultError("client is unavailable"), nil
	}

	sourceUUID, err := uuid.Parse(req.GetString("source_uuid", ""))
	if err != nil {
		return mcpgo.NewToolResultErrorf("invalid source_uuid: %s", err.Error()), nil
	}
	targetUUID, err := uuid.Parse(req.GetString("target_uuid", ""))
	if err != nil {
		return mcpgo.NewToolResultErrorf("invalid target_uuid: %s", err.Error()), nil
	}
	kind, err := intelmesh.ParseRelationshipKind(req.GetString("kind", ""))
	if err != nil {
		return mcpgo.NewToolResultErrorf("invalid kind: %s", err.Error()), nil
	}

	var opts intelmesh.RelationshipForecastOpts
	if at := req.GetString("forecast_at", ""); at != "" {
		forecastAt, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return mcpgo.NewToolResultErrorf("invalid forecast_at: %s", err.Error()), nil
		}
		opts.ForecastAt = &forecastAt
	}
	if req.GetBool("valuable_facts", false) {
		opts.ValuableFacts = intelmesh.Bool(true)
	}

	forecast, err := s.client.Relationships.Forecast(ctx, sourceUUID, targetUUID, kind, &opts)
	if err != nil {
		return mcpgo.NewToolResultErrorf("forecast failed: %s", err.Error()), nil
	}
	return toolResultJSON(forecast.Raw())
}

// handleForecastAttribute forecasts the values of one entity attribute.
func (s *Server) handleForecastAttribute(ctx context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	if s.client == nil {
		return mcpgo.NewToolResultError("client is unavailable"), nil
	}

	entityUUID, err := uuid.Parse(req.GetString("entity_uuid", ""))
	if err != nil {
		return mcpgo.NewToolResultErrorf("invalid entity_uuid: %s", err.Error()), nil
	}
	attribute, err := intelmesh.ParseAttributeName(req.GetString("attribute", ""))
	if err != nil {
		return mcpgo.NewToolResultErrorf("invalid attribute: %s", err.Error()), nil
	}

	var opts intelmesh.AttributeForecastOpts
	if at := req.GetString("forecast_at", ""); at != "" {
		forecastAt, err := time.Parse(time.RFC3339, at)
		if err != nil {
			return mcpgo.NewToolResultErrorf("invalid forecast_at: %s", err.Error()), nil
		}
		opts.ForecastAt = &forecastAt
	}

	forecast, err := s.client.Entities.ForecastAttributeValues(ctx, entityUUID, attribute, &opts)
	if err != nil {
		return mcpgo.NewToolResultErrorf("forecast failed: %s", err.Error()), nil
	}
	return toolResultJSON(forecast.Raw())
}

// handleListVocabulary returns one or all closed vocabularies.
func (s *Server) handleListVocabulary(_ context.Context, req mcpgo.CallToolRequest) (*mcpgo.CallToolResult, error) {
	vocab := vocabularies()

	set := req.GetString("set", "")
	if set == "" {
		return toolResultJSON(vocab)
	}

	values, ok := vocab[set]
	if !ok {
		names := make([]string, 0, len(vocab))
		for name := range vocab {
			names = append(names, name)
		}
		sort.Strings(names)
		return mcpgo.NewToolResultErrorf("unknown set %q: want one of %s", set, strings.Join(names, ", ")), nil
	}
	return toolResultJSON(map[string][]string{set: values})
}
