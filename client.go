package intelmesh

import "time"

// Client is the IntelMesh API client. It groups one API value per REST
// resource family; all families share a single Connector and no state is
// kept across calls, so a Client is safe for concurrent use.
type Client struct {
	// Observations works with generic observations.
	Observations *GenericObservationsAPI

	// Entities registers observable entities and forecasts their
	// attributes and links.
	Entities *EntitiesAPI

	// Relationships forecasts relationships between entities.
	Relationships *RelationshipsAPI
}

// New validates cfg and builds a Client.
func New(cfg Config) (*Client, error) {
	connector, err := NewConnector(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithConnector(connector), nil
}

// NewWithConnector builds a Client around an existing connector.
func NewWithConnector(connector *Connector) *Client {
	return &Client{
		Observations:  NewGenericObservationsAPI(connector),
		Entities:      NewEntitiesAPI(connector),
		Relationships: NewRelationshipsAPI(connector),
	}
}

// Bool returns a pointer to v. Use it to fill optional request parameters.
func Bool(v bool) *bool { return &v }

// Time returns a pointer to v. Use it to fill optional request parameters.
func Time(v time.Time) *time.Time { return &v }
