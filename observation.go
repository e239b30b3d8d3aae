package intelmesh

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

const genericObservationsPath = "/enrichment/observations/generics"

// GenericObservationsAPI works with generic observations. A generic
// observation is the main observation shape: a container of arbitrary
// attribute and relationship facts seen at one moment in time.
type GenericObservationsAPI struct {
	connector *Connector
}

// NewGenericObservationsAPI builds the endpoint family on top of a connector.
func NewGenericObservationsAPI(connector *Connector) *GenericObservationsAPI {
	return &GenericObservationsAPI{connector: connector}
}

// Register registers a generic observation.
//
// The observation is always registered unless it contains logic errors;
// entity key value validation errors are ignored. Calls
// POST /enrichment/observations/generics.
//
// Semantic error codes specific to this call: DuplicatedEntityAttribute,
// InvalidAttribute, InvalidAttributeValue, InvalidKeySet,
// InvalidRelationship, InvalidShareLevel, InvalidTime.
func (api *GenericObservationsAPI) Register(ctx context.Context, form *GenericObservationForm) (*RefView, error) {
	body, err := api.connector.DoPost(ctx, genericObservationsPath, form.JSON())
	if err != nil {
		return nil, fmt.Errorf("observations: registering: %w", err)
	}
	doc, err := asObject(body)
	if err != nil {
		return nil, fmt.Errorf("observations: registering: %w", err)
	}
	ref := NewRefView(doc)
	return &ref, nil
}

// View fetches a registered generic observation. Calls
// GET /enrichment/observations/generics/{observationUUID}.
func (api *GenericObservationsAPI) View(ctx context.Context, observationUUID uuid.UUID) (*GenericObservationView, error) {
	path := fmt.Sprintf("%s/%s", genericObservationsPath, observationUUID)
	body, err := api.connector.DoGet(ctx, path, nil)
	if err != nil {
		return nil, fmt.Errorf("observations: fetching view: %w", err)
	}
	doc, err := asObject(body)
	if err != nil {
		return nil, fmt.Errorf("observations: fetching view: %w", err)
	}
	view := NewGenericObservationView(doc)
	return &view, nil
}

// GenericObservationForm builds the wire document for registering a generic
// observation. Construct it with the observation's share level and seen-at
// time, then chain AddAttributeFact and AddEntityRelationship for every fact
// observed:
//
//	domain := intelmesh.NewEntityForm(intelmesh.EntityTypeDomainName).
//		AddKey(intelmesh.EntityKeyTypeString, "test.com")
//	addr := intelmesh.NewEntityForm(intelmesh.EntityTypeIPAddress).
//		AddKey(intelmesh.EntityKeyTypeString, "8.8.8.8")
//	form := intelmesh.NewGenericObservationForm(intelmesh.ShareLevelGreen, time.Now()).
//		AddAttributeFact(domain, intelmesh.AttributeNameIsIoC, true, 0.9).
//		AddEntityRelationship(domain, intelmesh.RelationshipKindResolvesTo, addr, 0.5)
type GenericObservationForm struct {
	jsonForm
}

// NewGenericObservationForm starts an observation form. seenAt is the moment
// the facts were observed.
func NewGenericObservationForm(shareLevel ShareLevel, seenAt time.Time) *GenericObservationForm {
	f := &GenericObservationForm{newJSONForm()}
	f.data["shareLevel"] = string(shareLevel)
	f.data["seenAt"] = formatTimestamp(seenAt)
	return f
}

// content returns the content sub-document, creating it on first use.
func (f *GenericObservationForm) content() map[string]any {
	c, ok := f.data["content"].(map[string]any)
	if !ok {
		c = make(map[string]any)
		f.data["content"] = c
	}
	return c
}

// SetDataSource attributes the observation to a data source instead of the
// calling client's own source.
func (f *GenericObservationForm) SetDataSource(sourceUUID uuid.UUID) *GenericObservationForm {
	f.data["dataSourceUUID"] = sourceUUID.String()
	return f
}

// AddAttributeFact records that an entity had the given attribute value at
// the observation's seen-at time.
//
// entity is either an inline *EntityForm or RegisteredEntity(uuid); an entity
// referenced by UUID must already be registered. The value type depends on
// the attribute name and entity type. Confidence must be in range (0;1];
// zero means the server default of 1. The range is enforced server-side.
func (f *GenericObservationForm) AddAttributeFact(entity EntityRef, attributeName AttributeName, value any, confidence float64) *GenericObservationForm {
	content := f.content()
	facts, _ := content["entityAttributeValues"].([]any)
	facts = append(facts, map[string]any{
		"entity":        entityDocument(entity),
		"attributeName": string(attributeName),
		"value":         value,
		"confidence":    confidenceValue(confidence),
	})
	content["entityAttributeValues"] = facts
	return f
}

// AddEntityRelationship records a directed relationship between two entities.
//
// source and target follow the same rules as AddAttributeFact's entity.
// Confidence must be in range (0;1]; zero means the server default of 1.
func (f *GenericObservationForm) AddEntityRelationship(source EntityRef, kind RelationshipKind, target EntityRef, confidence float64) *GenericObservationForm {
	content := f.content()
	relationships, _ := content["entityRelationships"].([]any)
	relationships = append(relationships, map[string]any{
		"source":     entityDocument(source),
		"kind":       string(kind),
		"target":     entityDocument(target),
		"confidence": confidenceValue(confidence),
	})
	content["entityRelationships"] = relationships
	return f
}

// JSON returns a deep-copied snapshot of the form's wire document. The
// snapshot reflects every mutation made before the call and is detached from
// later ones. A form holding no facts still carries an empty content object.
func (f *GenericObservationForm) JSON() map[string]any {
	doc := f.snapshot()
	if _, ok := doc["content"]; !ok {
		doc["content"] = make(map[string]any)
	}
	return doc
}

// entityDocument serializes an EntityRef, keeping a nil ref as JSON null for
// the server to reject.
func entityDocument(entity EntityRef) any {
	if entity == nil {
		return nil
	}
	return entity.entityDocument()
}

// confidenceValue encodes unset confidence as JSON null so the server applies
// its default.
func confidenceValue(confidence float64) any {
	if confidence == 0 {
		return nil
	}
	return confidence
}

// GenericObservationView is a registered generic observation, as returned by
// GenericObservationsAPI.View.
type GenericObservationView struct {
	jsonView
}

// NewGenericObservationView wraps a decoded observation document.
func NewGenericObservationView(doc map[string]any) GenericObservationView {
	return GenericObservationView{jsonView{name: "GenericObservationView", data: doc}}
}

// Reporter returns the data source that reported the observation.
func (v GenericObservationView) Reporter() (RefView, error) {
	doc, err := v.object("reporter")
	if err != nil {
		return RefView{}, err
	}
	return NewRefView(doc), nil
}

// DataSource returns the data source the observation is attributed to.
func (v GenericObservationView) DataSource() (RefView, error) {
	doc, err := v.object("dataSource")
	if err != nil {
		return RefView{}, err
	}
	return NewRefView(doc), nil
}

// ShareLevel returns the observation's share level.
func (v GenericObservationView) ShareLevel() (ShareLevel, error) {
	s, err := v.str("shareLevel")
	if err != nil {
		return "", err
	}
	level, err := ParseShareLevel(s)
	if err != nil {
		return "", v.malformed("shareLevel", err)
	}
	return level, nil
}

// SeenAt returns when the observation's facts were seen. The server's UTC
// offset is preserved.
func (v GenericObservationView) SeenAt() (time.Time, error) {
	return v.timeField("seenAt")
}

// RegisteredAt returns when the observation was registered.
func (v GenericObservationView) RegisteredAt() (time.Time, error) {
	return v.timeField("registeredAt")
}

// Content returns the observation's fact content.
func (v GenericObservationView) Content() (GenericObservationContentView, error) {
	doc, err := v.object("content")
	if err != nil {
		return GenericObservationContentView{}, err
	}
	return NewGenericObservationContentView(doc), nil
}

// GenericObservationContentView is the fact content of a generic observation.
type GenericObservationContentView struct {
	jsonView
}

// NewGenericObservationContentView wraps a decoded content document.
func NewGenericObservationContentView(doc map[string]any) GenericObservationContentView {
	return GenericObservationContentView{jsonView{name: "GenericObservationContentView", data: doc}}
}

// EntityAttributeValues returns the observation's attribute facts.
func (v GenericObservationContentView) EntityAttributeValues() ([]AttributeValueView, error) {
	docs, err := v.objectList("entityAttributeValues")
	if err != nil {
		return nil, err
	}
	facts := make([]AttributeValueView, len(docs))
	for i, doc := range docs {
		facts[i] = NewAttributeValueView(doc)
	}
	return facts, nil
}

// EntityRelationships returns the observation's relationship facts.
func (v GenericObservationContentView) EntityRelationships() ([]RelationshipView, error) {
	docs, err := v.objectList("entityRelationships")
	if err != nil {
		return nil, err
	}
	relationships := make([]RelationshipView, len(docs))
	for i, doc := range docs {
		relationships[i] = NewRelationshipView(doc)
	}
	return relationships, nil
}

// ExpiresAt returns when the observation's facts expire, if the server set
// an expiry.
func (v GenericObservationContentView) ExpiresAt() (time.Time, bool, error) {
	return v.optTime("expiresAt")
}

// AttributeValueView is one attribute fact inside observation content.
type AttributeValueView struct {
	jsonView
}

// NewAttributeValueView wraps a decoded attribute fact document.
func NewAttributeValueView(doc map[string]any) AttributeValueView {
	return AttributeValueView{jsonView{name: "AttributeValueView", data: doc}}
}

// Entity returns the entity the fact is about. Its UUID may be the zero UUID
// if the entity's keys were invalid during registration.
func (v AttributeValueView) Entity() (EntityView, error) {
	doc, err := v.object("entity")
	if err != nil {
		return EntityView{}, err
	}
	return NewEntityView(doc), nil
}

// AttributeName returns the fact's attribute name.
func (v AttributeValueView) AttributeName() (AttributeName, error) {
	s, err := v.str("attributeName")
	if err != nil {
		return "", err
	}
	name, err := ParseAttributeName(s)
	if err != nil {
		return "", v.malformed("attributeName", err)
	}
	return name, nil
}

// Value returns the attribute value. The concrete type depends on the
// attribute name and entity type.
func (v AttributeValueView) Value() (any, error) {
	return v.field("value")
}

// Confidence returns the fact confidence.
func (v AttributeValueView) Confidence() (float64, error) {
	return v.f64("confidence")
}
