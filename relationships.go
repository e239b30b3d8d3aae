package intelmesh

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
)

const relationshipsPath = "/observable/relationships"

// RelationshipsAPI forecasts relationships between observable entities.
type RelationshipsAPI struct {
	connector *Connector
}

// NewRelationshipsAPI builds the endpoint family on top of a connector.
func NewRelationshipsAPI(connector *Connector) *RelationshipsAPI {
	return &RelationshipsAPI{connector: connector}
}

// RelationshipForecastOpts are the optional parameters of Forecast. Nil
// fields are left out of the request entirely.
type RelationshipForecastOpts struct {
	// ForecastAt builds the forecast at the given moment instead of the
	// current time.
	ForecastAt *time.Time

	// ValuableFacts asks the server to attach the list of valuable facts
	// the forecast is built on.
	ValuableFacts *bool
}

// Forecast returns the platform's forecast of a relationship of the given
// kind between two registered entities. opts may be nil.
//
// Calls GET /observable/relationships/{sourceUUID}/{kind}/{targetUUID}, with
// the kind rendered as its kebab-case path segment.
func (api *RelationshipsAPI) Forecast(ctx context.Context, sourceUUID, targetUUID uuid.UUID, kind RelationshipKind, opts *RelationshipForecastOpts) (*RelationshipsForecastView, error) {
	segment, err := kind.PathSegment()
	if err != nil {
		return nil, fmt.Errorf("relationships: %w", err)
	}
	path := fmt.Sprintf("%s/%s/%s/%s", relationshipsPath, sourceUUID, segment, targetUUID)

	params := url.Values{}
	if opts != nil {
		if opts.ForecastAt != nil {
			params.Set("forecastAt", formatTimestamp(*opts.ForecastAt))
		}
		if opts.ValuableFacts != nil {
			params.Set("valuableFacts", strconv.FormatBool(*opts.ValuableFacts))
		}
	}

	body, err := api.connector.DoGet(ctx, path, params)
	if err != nil {
		return nil, fmt.Errorf("relationships: forecasting: %w", err)
	}
	doc, err := asObject(body)
	if err != nil {
		return nil, fmt.Errorf("relationships: forecasting: %w", err)
	}
	view := NewRelationshipsForecastView(doc)
	return &view, nil
}

// RelationshipsForecastView is the forecast of one relationship, as returned
// by RelationshipsAPI.Forecast.
type RelationshipsForecastView struct {
	jsonView
}

// NewRelationshipsForecastView wraps a decoded forecast document.
func NewRelationshipsForecastView(doc map[string]any) RelationshipsForecastView {
	return RelationshipsForecastView{jsonView{name: "RelationshipsForecastView", data: doc}}
}

// Relationship returns the forecasted relationship.
func (v RelationshipsForecastView) Relationship() (RelationshipView, error) {
	doc, err := v.object("relationship")
	if err != nil {
		return RelationshipView{}, err
	}
	return NewRelationshipView(doc), nil
}

// Confidence returns the forecast confidence. It is 0 when the platform
// holds no valuable facts about the relationship.
func (v RelationshipsForecastView) Confidence() (float64, error) {
	return v.f64("confidence")
}

// ValuableFacts returns the facts the forecast is built on, in descending
// order of confidence. The list is only present when the forecast was
// requested with ValuableFacts; an empty present list differs from an absent
// one.
func (v RelationshipsForecastView) ValuableFacts() ([]ValuableFactView, bool, error) {
	docs, ok, err := v.optObjectList("valuableFacts")
	if err != nil || !ok {
		return nil, false, err
	}
	facts := make([]ValuableFactView, len(docs))
	for i, doc := range docs {
		facts[i] = NewValuableFactView(doc)
	}
	return facts, true, nil
}

// RelationshipView is one directed relationship between two entities.
//
// Observation content spells the relationship keys source/kind/target while
// the forecast endpoint spells them sourceEntity/relationKind/targetEntity;
// accessors accept either spelling.
type RelationshipView struct {
	jsonView
}

// NewRelationshipView wraps a decoded relationship document.
func NewRelationshipView(doc map[string]any) RelationshipView {
	return RelationshipView{jsonView{name: "RelationshipView", data: doc}}
}

// Source returns the relationship's source entity. Its UUID may be the zero
// UUID if the entity's keys were invalid during registration.
func (v RelationshipView) Source() (EntityView, error) {
	doc, err := v.object(v.pick("source", "sourceEntity"))
	if err != nil {
		return EntityView{}, err
	}
	return NewEntityView(doc), nil
}

// Kind returns the kind of the relationship.
func (v RelationshipView) Kind() (RelationshipKind, error) {
	key := v.pick("kind", "relationKind")
	s, err := v.str(key)
	if err != nil {
		return "", err
	}
	kind, err := ParseRelationshipKind(s)
	if err != nil {
		return "", v.malformed(key, err)
	}
	return kind, nil
}

// Target returns the relationship's target entity. Its UUID may be the zero
// UUID if the entity's keys were invalid during registration.
func (v RelationshipView) Target() (EntityView, error) {
	doc, err := v.object(v.pick("target", "targetEntity"))
	if err != nil {
		return EntityView{}, err
	}
	return NewEntityView(doc), nil
}

// Confidence returns the relationship fact confidence.
func (v RelationshipView) Confidence() (float64, error) {
	return v.f64("confidence")
}

// ValuableFactView is one fact a forecast is built on.
type ValuableFactView struct {
	jsonView
}

// NewValuableFactView wraps a decoded valuable fact document.
func NewValuableFactView(doc map[string]any) ValuableFactView {
	return ValuableFactView{jsonView{name: "ValuableFactView", data: doc}}
}

// DataSource returns the data source that contributed the fact.
func (v ValuableFactView) DataSource() (RefView, error) {
	doc, err := v.object("dataSource")
	if err != nil {
		return RefView{}, err
	}
	return NewRefView(doc), nil
}

// ShareLevel returns the fact's share level.
func (v ValuableFactView) ShareLevel() (ShareLevel, error) {
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

// SeenAt returns when the fact was seen.
func (v ValuableFactView) SeenAt() (time.Time, error) {
	return v.timeField("seenAt")
}

// Confidence returns the confidence the fact was registered with.
func (v ValuableFactView) Confidence() (float64, error) {
	return v.f64("confidence")
}

// FinalConfidence returns the fact's confidence after the platform weighed
// in data source reliability and fact age.
func (v ValuableFactView) FinalConfidence() (float64, error) {
	return v.f64("finalConfidence")
}

// Value returns the fact's attribute value if the fact carries one.
// Relationship facts do not.
func (v ValuableFactView) Value() (any, bool) {
	return v.optAny("value")
}
