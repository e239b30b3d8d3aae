package intelmesh

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
)

const entitiesPath = "/observable/entities"

// EntitiesAPI registers observable entities and forecasts their attributes
// and links.
type EntitiesAPI struct {
	connector *Connector
}

// NewEntitiesAPI builds the endpoint family on top of a connector.
func NewEntitiesAPI(connector *Connector) *EntitiesAPI {
	return &EntitiesAPI{connector: connector}
}

// Register registers an entity by its key set, or returns a reference to the
// already registered entity carrying the same keys. Calls
// POST /observable/entities.
//
// Semantic error codes specific to this call: InvalidKeySet.
func (api *EntitiesAPI) Register(ctx context.Context, form *EntityForm) (*RefView, error) {
	body, err := api.connector.DoPost(ctx, entitiesPath, form.JSON())
	if err != nil {
		return nil, fmt.Errorf("entities: registering: %w", err)
	}
	doc, err := asObject(body)
	if err != nil {
		return nil, fmt.Errorf("entities: registering: %w", err)
	}
	ref := NewRefView(doc)
	return &ref, nil
}

// AttributeForecastOpts are the optional parameters of
// ForecastAttributeValues. Nil fields are left out of the request.
type AttributeForecastOpts struct {
	// ForecastAt builds the forecast at the given moment instead of the
	// current time.
	ForecastAt *time.Time
}

// ForecastAttributeValues returns the platform's forecast of the values an
// entity's attribute holds. opts may be nil.
//
// Calls GET /observable/entities/{entityUUID}/attributes/{attributeName}.
func (api *EntitiesAPI) ForecastAttributeValues(ctx context.Context, entityUUID uuid.UUID, attributeName AttributeName, opts *AttributeForecastOpts) (*AttributeForecastView, error) {
	path := fmt.Sprintf("%s/%s/attributes/%s", entitiesPath, entityUUID, attributeName)

	params := url.Values{}
	if opts != nil && opts.ForecastAt != nil {
		params.Set("forecastAt", formatTimestamp(*opts.ForecastAt))
	}

	body, err := api.connector.DoGet(ctx, path, params)
	if err != nil {
		return nil, fmt.Errorf("entities: forecasting attribute: %w", err)
	}
	doc, err := asObject(body)
	if err != nil {
		return nil, fmt.Errorf("entities: forecasting attribute: %w", err)
	}
	view := NewAttributeForecastView(doc)
	return &view, nil
}

// LinkForecastOpts are the optional parameters of ForecastLinks and
// ForecastLinksStatistic. Nil fields are left out of the request.
type LinkForecastOpts struct {
	// ForecastAt builds the forecast at the given moment instead of the
	// current time.
	ForecastAt *time.Time
}

// ForecastLinks returns the forecasted links of an entity. opts may be nil.
//
// Calls GET /observable/entities/{entityUUID}/links.
func (api *EntitiesAPI) ForecastLinks(ctx context.Context, entityUUID uuid.UUID, opts *LinkForecastOpts) ([]LinkForecastView, error) {
	path := fmt.Sprintf("%s/%s/links", entitiesPath, entityUUID)

	params := url.Values{}
	if opts != nil && opts.ForecastAt != nil {
		params.Set("forecastAt", formatTimestamp(*opts.ForecastAt))
	}

	body, err := api.connector.DoGet(ctx, path, params)
	if err != nil {
		return nil, fmt.Errorf("entities: forecasting links: %w", err)
	}
	docs, err := asObjectList(body)
	if err != nil {
		return nil, fmt.Errorf("entities: forecasting links: %w", err)
	}
	links := make([]LinkForecastView, len(docs))
	for i, doc := range docs {
		links[i] = NewLinkForecastView(doc)
	}
	return links, nil
}

// ForecastLinksStatistic returns per-link-type statistics over an entity's
// forecasted links. opts may be nil.
//
// Calls GET /observable/entities/{entityUUID}/links/statistic.
func (api *EntitiesAPI) ForecastLinksStatistic(ctx context.Context, entityUUID uuid.UUID, opts *LinkForecastOpts) ([]LinkStatisticView, error) {
	path := fmt.Sprintf("%s/%s/links/statistic", entitiesPath, entityUUID)

	params := url.Values{}
	if opts != nil && opts.ForecastAt != nil {
		params.Set("forecastAt", formatTimestamp(*opts.ForecastAt))
	}

	body, err := api.connector.DoGet(ctx, path, params)
	if err != nil {
		return nil, fmt.Errorf("entities: forecasting links statistic: %w", err)
	}
	docs, err := asObjectList(body)
	if err != nil {
		return nil, fmt.Errorf("entities: forecasting links statistic: %w", err)
	}
	stats := make([]LinkStatisticView, len(docs))
	for i, doc := range docs {
		stats[i] = NewLinkStatisticView(doc)
	}
	return stats, nil
}

// AttributeForecastView is the forecast of one entity attribute, as returned
// by EntitiesAPI.ForecastAttributeValues.
type AttributeForecastView struct {
	jsonView
}

// NewAttributeForecastView wraps a decoded attribute forecast document.
func NewAttributeForecastView(doc map[string]any) AttributeForecastView {
	return AttributeForecastView{jsonView{name: "AttributeForecastView", data: doc}}
}

// Values returns the forecasted attribute values with their confidences.
func (v AttributeForecastView) Values() ([]AttributeValueForecastView, error) {
	docs, err := v.objectList("values")
	if err != nil {
		return nil, err
	}
	values := make([]AttributeValueForecastView, len(docs))
	for i, doc := range docs {
		values[i] = NewAttributeValueForecastView(doc)
	}
	return values, nil
}

// HasConflicts reports whether data sources disagree about the attribute's
// value.
func (v AttributeForecastView) HasConflicts() (bool, error) {
	return v.boolean("hasConflicts")
}

// AttributeValueForecastView is one forecasted value of an attribute.
type AttributeValueForecastView struct {
	jsonView
}

// NewAttributeValueForecastView wraps a decoded forecasted value document.
func NewAttributeValueForecastView(doc map[string]any) AttributeValueForecastView {
	return AttributeValueForecastView{jsonView{name: "AttributeValueForecastView", data: doc}}
}

// Value returns the forecasted value. The concrete type depends on the
// attribute name and entity type.
func (v AttributeValueForecastView) Value() (any, error) {
	return v.field("value")
}

// Confidence returns the forecast confidence of this value.
func (v AttributeValueForecastView) Confidence() (float64, error) {
	return v.f64("confidence")
}

// ValuableFacts returns the facts the value forecast is built on, in
// descending order of confidence, when the server attached them.
func (v AttributeValueForecastView) ValuableFacts() ([]ValuableFactView, bool, error) {
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

// LinkForecastView is one forecasted link of an entity, as returned by
// EntitiesAPI.ForecastLinks.
type LinkForecastView struct {
	jsonView
}

// NewLinkForecastView wraps a decoded link forecast document.
func NewLinkForecastView(doc map[string]any) LinkForecastView {
	return LinkForecastView{jsonView{name: "LinkForecastView", data: doc}}
}

// Link returns the forecasted link.
func (v LinkForecastView) Link() (LinkView, error) {
	doc, err := v.object("link")
	if err != nil {
		return LinkView{}, err
	}
	return NewLinkView(doc), nil
}

// Confidence returns the link forecast confidence.
func (v LinkForecastView) Confidence() (float64, error) {
	return v.f64("confidence")
}

// LinkView is a link between the forecasted entity and a related entity.
type LinkView struct {
	jsonView
}

// NewLinkView wraps a decoded link document.
func NewLinkView(doc map[string]any) LinkView {
	return LinkView{jsonView{name: "LinkView", data: doc}}
}

// Direction tells how the link points relative to the entity the forecast
// was requested for.
func (v LinkView) Direction() (LinkDirection, error) {
	s, err := v.str("direction")
	if err != nil {
		return "", err
	}
	direction, err := ParseLinkDirection(s)
	if err != nil {
		return "", v.malformed("direction", err)
	}
	return direction, nil
}

// RelationKind returns the kind of relationship behind the link.
func (v LinkView) RelationKind() (RelationshipKind, error) {
	s, err := v.str("relationKind")
	if err != nil {
		return "", err
	}
	kind, err := ParseRelationshipKind(s)
	if err != nil {
		return "", v.malformed("relationKind", err)
	}
	return kind, nil
}

// RelatedEntity returns the entity on the far side of the link.
func (v LinkView) RelatedEntity() (EntityView, error) {
	doc, err := v.object("relatedEntity")
	if err != nil {
		return EntityView{}, err
	}
	return NewEntityView(doc), nil
}

// LinkStatisticView aggregates an entity's forecasted links of one type, as
// returned by EntitiesAPI.ForecastLinksStatistic.
type LinkStatisticView struct {
	jsonView
}

// NewLinkStatisticView wraps a decoded link statistic document.
func NewLinkStatisticView(doc map[string]any) LinkStatisticView {
	return LinkStatisticView{jsonView{name: "LinkStatisticView", data: doc}}
}

// LinkType identifies the link type the statistic is about.
func (v LinkStatisticView) LinkType() (LinkTypeView, error) {
	doc, err := v.object("linkType")
	if err != nil {
		return LinkTypeView{}, err
	}
	return NewLinkTypeView(doc), nil
}

// Links returns the link counts per confidence range.
func (v LinkStatisticView) Links() (LinkCountsView, error) {
	doc, err := v.object("links")
	if err != nil {
		return LinkCountsView{}, err
	}
	return NewLinkCountsView(doc), nil
}

// LinkTypeView identifies one type of link: its direction, relationship kind
// and related entity type.
type LinkTypeView struct {
	jsonView
}

// NewLinkTypeView wraps a decoded link type document.
func NewLinkTypeView(doc map[string]any) LinkTypeView {
	return LinkTypeView{jsonView{name: "LinkTypeView", data: doc}}
}

// URL returns the URL listing the entity's links of this type, if the server
// included one.
func (v LinkTypeView) URL() (string, bool, error) {
	return v.optStr("url")
}

// LinkDirection returns the direction of links of this type.
func (v LinkTypeView) LinkDirection() (LinkDirection, error) {
	s, err := v.str("linkDirection")
	if err != nil {
		return "", err
	}
	direction, err := ParseLinkDirection(s)
	if err != nil {
		return "", v.malformed("linkDirection", err)
	}
	return direction, nil
}

// RelationKind returns the relationship kind of links of this type.
func (v LinkTypeView) RelationKind() (RelationshipKind, error) {
	s, err := v.str("relationKind")
	if err != nil {
		return "", err
	}
	kind, err := ParseRelationshipKind(s)
	if err != nil {
		return "", v.malformed("relationKind", err)
	}
	return kind, nil
}

// RelatedEntitiesType returns the entity type on the far side of links of
// this type.
func (v LinkTypeView) RelatedEntitiesType() (EntityType, error) {
	s, err := v.str("relatedEntitiesType")
	if err != nil {
		return "", err
	}
	t, err := ParseEntityType(s)
	if err != nil {
		return "", v.malformed("relatedEntitiesType", err)
	}
	return t, nil
}

// LinkCountsView is the distribution of an entity's links of one type over
// confidence ranges.
type LinkCountsView struct {
	jsonView
}

// NewLinkCountsView wraps a decoded link counts document.
func NewLinkCountsView(doc map[string]any) LinkCountsView {
	return LinkCountsView{jsonView{name: "LinkCountsView", data: doc}}
}

// Total returns the total number of links of the type.
func (v LinkCountsView) Total() (int64, error) {
	return v.i64("total")
}

// DistributionByConfidence returns link counts bucketed by confidence range.
func (v LinkCountsView) DistributionByConfidence() ([]ConfidenceRangeCountView, error) {
	docs, err := v.objectList("distributionByConfidence")
	if err != nil {
		return nil, err
	}
	buckets := make([]ConfidenceRangeCountView, len(docs))
	for i, doc := range docs {
		buckets[i] = NewConfidenceRangeCountView(doc)
	}
	return buckets, nil
}

// ConfidenceRangeCountView is one bucket of a link confidence distribution.
type ConfidenceRangeCountView struct {
	jsonView
}

// NewConfidenceRangeCountView wraps a decoded distribution bucket document.
func NewConfidenceRangeCountView(doc map[string]any) ConfidenceRangeCountView {
	return ConfidenceRangeCountView{jsonView{name: "ConfidenceRangeCountView", data: doc}}
}

// ConfidenceRange returns the bucket's half-open confidence range as
// [lower, upper].
func (v ConfidenceRangeCountView) ConfidenceRange() ([2]float64, error) {
	items, err := v.list("confidenceRange")
	if err != nil {
		return [2]float64{}, err
	}
	if len(items) != 2 {
		return [2]float64{}, v.malformed("confidenceRange", fmt.Errorf("expected 2 bounds, got %d", len(items)))
	}
	var bounds [2]float64
	for i, item := range items {
		f, err := toFloat64(item)
		if err != nil {
			return [2]float64{}, v.malformed(fmt.Sprintf("confidenceRange[%d]", i), err)
		}
		bounds[i] = f
	}
	return bounds, nil
}

// Count returns the number of links falling in the bucket's range.
func (v ConfidenceRangeCountView) Count() (int64, error) {
	return v.i64("count")
}
