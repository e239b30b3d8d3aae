package intelmesh

import "github.com/google/uuid"

// EntityForm describes an observable entity by its type and natural keys.
//
// Entities are identified by key sets rather than by UUID at registration
// time: a domain name is keyed by its string form, a file by its hashes.
type EntityForm struct {
	jsonForm
}

// NewEntityForm starts an entity form of the given type.
func NewEntityForm(entityType EntityType) *EntityForm {
	f := &EntityForm{newJSONForm()}
	f.data["type"] = string(entityType)
	return f
}

// AddKey adds a natural key to the entity. Valid key types depend on the
// entity type.
func (f *EntityForm) AddKey(keyType EntityKeyType, value string) *EntityForm {
	keys, _ := f.data["keys"].([]any)
	keys = append(keys, map[string]any{
		"type":  string(keyType),
		"value": value,
	})
	f.data["keys"] = keys
	return f
}

// JSON returns a deep-copied snapshot of the form's wire document. The
// snapshot reflects every mutation made before the call and is detached from
// later ones.
func (f *EntityForm) JSON() map[string]any {
	return f.snapshot()
}

func (f *EntityForm) entityDocument() map[string]any {
	return f.JSON()
}

// EntityRef identifies an entity inside an observation fact. Two
// implementations exist: an inline *EntityForm describing the entity by its
// keys, and RegisteredEntity naming an entity already registered on the
// platform by its UUID.
type EntityRef interface {
	entityDocument() map[string]any
}

type registeredEntityRef struct {
	id uuid.UUID
}

// RegisteredEntity refers to an already registered entity by UUID.
func RegisteredEntity(entityUUID uuid.UUID) EntityRef {
	return registeredEntityRef{id: entityUUID}
}

func (r registeredEntityRef) entityDocument() map[string]any {
	return map[string]any{"uuid": r.id.String()}
}

// EntityView is an observable entity as returned inside observation content
// and forecasts.
type EntityView struct {
	jsonView
}

// NewEntityView wraps a decoded entity document.
func NewEntityView(doc map[string]any) EntityView {
	return EntityView{jsonView{name: "EntityView", data: doc}}
}

// UUID returns the entity's identifier. A zero UUID is a valid value: the
// platform assigns it when the entity's keys failed validation at
// registration time.
func (v EntityView) UUID() (uuid.UUID, error) {
	return v.uuidField("uuid")
}

// URL returns the absolute URL of the entity, if the server included one.
func (v EntityView) URL() (string, bool, error) {
	return v.optStr("url")
}

// Type returns the entity type.
func (v EntityView) Type() (EntityType, error) {
	s, err := v.str("type")
	if err != nil {
		return "", err
	}
	t, err := ParseEntityType(s)
	if err != nil {
		return "", v.malformed("type", err)
	}
	return t, nil
}

// Keys returns the entity's natural keys.
func (v EntityView) Keys() ([]EntityKeyView, error) {
	docs, err := v.objectList("keys")
	if err != nil {
		return nil, err
	}
	keys := make([]EntityKeyView, len(docs))
	for i, doc := range docs {
		keys[i] = NewEntityKeyView(doc)
	}
	return keys, nil
}

// EntityKeyView is one natural key of an entity.
type EntityKeyView struct {
	jsonView
}

// NewEntityKeyView wraps a decoded entity key document.
func NewEntityKeyView(doc map[string]any) EntityKeyView {
	return EntityKeyView{jsonView{name: "EntityKeyView", data: doc}}
}

// Type returns the key type.
func (v EntityKeyView) Type() (EntityKeyType, error) {
	s, err := v.str("type")
	if err != nil {
		return "", err
	}
	t, err := ParseEntityKeyType(s)
	if err != nil {
		return "", v.malformed("type", err)
	}
	return t, nil
}

// Value returns the key value.
func (v EntityKeyView) Value() (string, error) {
	return v.str("value")
}
