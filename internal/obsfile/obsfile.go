// Package obsfile reads generic observations from YAML files and turns them
// into SDK form builders. It is the input format of `imctl observation
// register --file`. Vocabulary values are checked while parsing, so a typo in
// an attribute name fails before anything goes over the wire.
package obsfile

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	intelmesh "github.com/intelmesh/intelmesh-go"
)

// File is the on-disk YAML description of one generic observation. YAML being
// a superset of JSON, JSON documents parse too.
//
// SeenAt stays a string so that both quoted and unquoted timestamps decode;
// it must be RFC3339 and defaults to the current time when omitted.
type File struct {
	ShareLevel     string          `yaml:"shareLevel"`
	SeenAt         string          `yaml:"seenAt"`
	DataSource     string          `yaml:"dataSource"`
	AttributeFacts []AttributeFact `yaml:"attributeFacts"`
	Relationships  []Relationship  `yaml:"relationships"`
}

// Entity names an observable entity, either inline by type and key set or by
// the UUID of an already registered one.
type Entity struct {
	UUID string      `yaml:"uuid"`
	Type string      `yaml:"type"`
	Keys []EntityKey `yaml:"keys"`
}

// EntityKey is one natural key of an inline entity.
type EntityKey struct {
	Type  string `yaml:"type"`
	Value string `yaml:"value"`
}

// AttributeFact states that an entity's attribute had a value at seenAt.
// A zero confidence is sent as null so the server applies its default.
type AttributeFact struct {
	Entity     Entity  `yaml:"entity"`
	Attribute  string  `yaml:"attribute"`
	Value      any     `yaml:"value"`
	Confidence float64 `yaml:"confidence"`
}

// Relationship states that two entities were related at seenAt.
type Relationship struct {
	Source     Entity  `yaml:"source"`
	Kind       string  `yaml:"kind"`
	Target     Entity  `yaml:"target"`
	Confidence float64 `yaml:"confidence"`
}

// Load reads an observation file from disk and builds the form.
func Load(path string) (*intelmesh.GenericObservationForm, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading observation file: %w", err)
	}
	return Parse(data)
}

// Parse decodes an observation document and builds the form. Unknown YAML
// fields are rejected.
func Parse(data []byte) (*intelmesh.GenericObservationForm, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var file File
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("parsing observation file: %w", err)
	}

	level, err := intelmesh.ParseShareLevel(file.ShareLevel)
	if err != nil {
		return nil, fmt.Errorf("shareLevel: %w", err)
	}

	seenAt := time.Now().UTC()
	if file.SeenAt != "" {
		seenAt, err = time.Parse(time.RFC3339, file.SeenAt)
		if err != nil {
			return nil, fmt.Errorf("seenAt: invalid RFC3339 timestamp %q: %w", file.SeenAt, err)
		}
	}

	form := intelmesh.NewGenericObservationForm(level, seenAt)

	if file.DataSource != "" {
		sourceUUID, err := uuid.Parse(file.DataSource)
		if err != nil {
			return nil, fmt.Errorf("dataSource: %w", err)
		}
		form.SetDataSource(sourceUUID)
	}

	for i, fact := range file.AttributeFacts {
		entity, err := entityRef(fact.Entity)
		if err != nil {
			return nil, fmt.Errorf("attributeFacts[%d]: %w", i, err)
		}
		attribute, err := intelmesh.ParseAttributeName(fact.Attribute)
		if err != nil {
			return nil, fmt.Errorf("attributeFacts[%d]: attribute: %w", i, err)
		}
		form.AddAttributeFact(entity, attribute, fact.Value, fact.Confidence)
	}

	for i, rel := range file.Relationships {
		source, err := entityRef(rel.Source)
		if err != nil {
			return nil, fmt.Errorf("relationships[%d]: source: %w", i, err)
		}
		kind, err := intelmesh.ParseRelationshipKind(rel.Kind)
		if err != nil {
			return nil, fmt.Errorf("relationships[%d]: kind: %w", i, err)
		}
		target, err := entityRef(rel.Target)
		if err != nil {
			return nil, fmt.Errorf("relationships[%d]: target: %w", i, err)
		}
		form.AddEntityRelationship(source, kind, target, rel.Confidence)
	}

	return form, nil
}

// entityRef turns a YAML entity into the SDK's uuid-or-form union.
func entityRef(e Entity) (intelmesh.EntityRef, error) {
	if e.UUID != "" {
		if e.Type != "" || len(e.Keys) > 0 {
			return nil, fmt.Errorf("entity: uuid and inline type/keys are mutually exclusive")
		}
		id, err := uuid.Parse(e.UUID)
		if err != nil {
			return nil, fmt.Errorf("entity: uuid: %w", err)
		}
		return intelmesh.RegisteredEntity(id), nil
	}

	if e.Type == "" {
		return nil, fmt.Errorf("entity: type or uuid required")
	}
	entityType, err := intelmesh.ParseEntityType(e.Type)
	if err != nil {
		return nil, fmt.Errorf("entity: type: %w", err)
	}

	form := intelmesh.NewEntityForm(entityType)
	for i, key := range e.Keys {
		keyType, err := intelmesh.ParseEntityKeyType(key.Type)
		if err != nil {
			return nil, fmt.Errorf("entity: keys[%d]: type: %w", i, err)
		}
		form.AddKey(keyType, key.Value)
	}
	return form, nil
}
