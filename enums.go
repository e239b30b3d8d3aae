package intelmesh

import "fmt"

// Vocabularies below are closed: the API only ever emits and accepts the
// listed members, and ParseX constructors reject anything else with
// *UnknownEnumValueError. Constant values are the exact wire spellings.

// EntityType classifies an observable entity.
type EntityType string

const (
	EntityTypeDomainName   EntityType = "DomainName"
	EntityTypeIPAddress    EntityType = "IPAddress"
	EntityTypeEmailAddress EntityType = "EmailAddress"
	EntityTypePhoneNumber  EntityType = "PhoneNumber"
	EntityTypeIdentity     EntityType = "Identity"
	EntityTypeFile         EntityType = "File"
	EntityTypeURL          EntityType = "URL"
)

// ValidEntityTypes is the set of all valid entity types.
var ValidEntityTypes = []EntityType{
	EntityTypeDomainName,
	EntityTypeIPAddress,
	EntityTypeEmailAddress,
	EntityTypePhoneNumber,
	EntityTypeIdentity,
	EntityTypeFile,
	EntityTypeURL,
}

// IsValid returns true if the entity type is recognized.
func (t EntityType) IsValid() bool {
	for _, v := range ValidEntityTypes {
		if t == v {
			return true
		}
	}
	return false
}

// ParseEntityType converts a wire string to an EntityType.
func ParseEntityType(s string) (EntityType, error) {
	t := EntityType(s)
	if !t.IsValid() {
		return "", &UnknownEnumValueError{Enum: "EntityType", Value: s}
	}
	return t, nil
}

// EntityKeyType classifies a natural key of an entity. Which key types an
// entity can carry depends on its type: files are keyed by hashes, most other
// entities by their string representation.
type EntityKeyType string

const (
	EntityKeyTypeString    EntityKeyType = "String"
	EntityKeyTypeMD5       EntityKeyType = "MD5Hash"
	EntityKeyTypeSHA1      EntityKeyType = "SHA1Hash"
	EntityKeyTypeSHA256    EntityKeyType = "SHA256Hash"
	EntityKeyTypeIANAID    EntityKeyType = "IANAID"
	EntityKeyTypeNICHandle EntityKeyType = "NICHandle"
	EntityKeyTypeRIPEID    EntityKeyType = "RIPEID"
)

// ValidEntityKeyTypes is the set of all valid entity key types.
var ValidEntityKeyTypes = []EntityKeyType{
	EntityKeyTypeString,
	EntityKeyTypeMD5,
	EntityKeyTypeSHA1,
	EntityKeyTypeSHA256,
	EntityKeyTypeIANAID,
	EntityKeyTypeNICHandle,
	EntityKeyTypeRIPEID,
}

// IsValid returns true if the entity key type is recognized.
func (t EntityKeyType) IsValid() bool {
	for _, v := range ValidEntityKeyTypes {
		if t == v {
			return true
		}
	}
	return false
}

// ParseEntityKeyType converts a wire string to an EntityKeyType.
func ParseEntityKeyType(s string) (EntityKeyType, error) {
	t := EntityKeyType(s)
	if !t.IsValid() {
		return "", &UnknownEnumValueError{Enum: "EntityKeyType", Value: s}
	}
	return t, nil
}

// AttributeName identifies an attribute of an observable entity. Value types
// differ per attribute: IsIoC carries a bool, Names a string, Size a number.
type AttributeName string

const (
	AttributeNameClass        AttributeName = "Class"
	AttributeNameDisplayNames AttributeName = "DisplayNames"
	AttributeNameIsDGA        AttributeName = "IsDGA"
	AttributeNameIsDelegated  AttributeName = "IsDelegated"
	AttributeNameIsIoC        AttributeName = "IsIoC"
	AttributeNameIsMalicious  AttributeName = "IsMalicious"
	AttributeNameIsTrusted    AttributeName = "IsTrusted"
	AttributeNameNames        AttributeName = "Names"
	AttributeNameNodeRoles    AttributeName = "NodeRoles"
	AttributeNameSectors      AttributeName = "Sectors"
	AttributeNameSize         AttributeName = "Size"
	AttributeNameThumbnail    AttributeName = "Thumbnail"
)

// ValidAttributeNames is the set of all valid attribute names.
var ValidAttributeNames = []AttributeName{
	AttributeNameClass,
	AttributeNameDisplayNames,
	AttributeNameIsDGA,
	AttributeNameIsDelegated,
	AttributeNameIsIoC,
	AttributeNameIsMalicious,
	AttributeNameIsTrusted,
	AttributeNameNames,
	AttributeNameNodeRoles,
	AttributeNameSectors,
	AttributeNameSize,
	AttributeNameThumbnail,
}

// IsValid returns true if the attribute name is recognized.
func (a AttributeName) IsValid() bool {
	for _, v := range ValidAttributeNames {
		if a == v {
			return true
		}
	}
	return false
}

// ParseAttributeName converts a wire string to an AttributeName.
func ParseAttributeName(s string) (AttributeName, error) {
	a := AttributeName(s)
	if !a.IsValid() {
		return "", &UnknownEnumValueError{Enum: "AttributeName", Value: s}
	}
	return a, nil
}

// RelationshipKind classifies a directed relationship between two entities.
// Resolves and ResolvesTo are both listed: older observations still carry the
// former while the current vocabulary uses the latter.
type RelationshipKind string

const (
	RelationshipKindBelongsTo  RelationshipKind = "BelongsTo"
	RelationshipKindConnectsTo RelationshipKind = "ConnectsTo"
	RelationshipKindContains   RelationshipKind = "Contains"
	RelationshipKindDrops      RelationshipKind = "Drops"
	RelationshipKindExploits   RelationshipKind = "Exploits"
	RelationshipKindHas        RelationshipKind = "Has"
	RelationshipKindHosts      RelationshipKind = "Hosts"
	RelationshipKindLocates    RelationshipKind = "Locates"
	RelationshipKindOwns       RelationshipKind = "Owns"
	RelationshipKindResolves   RelationshipKind = "Resolves"
	RelationshipKindResolvesTo RelationshipKind = "ResolvesTo"
	RelationshipKindServes     RelationshipKind = "Serves"
	RelationshipKindSupports   RelationshipKind = "Supports"
	RelationshipKindTargets    RelationshipKind = "Targets"
	RelationshipKindUses       RelationshipKind = "Uses"
	RelationshipKindVariantOf  RelationshipKind = "VariantOf"
)

// ValidRelationshipKinds is the set of all valid relationship kinds.
var ValidRelationshipKinds = []RelationshipKind{
	RelationshipKindBelongsTo,
	RelationshipKindConnectsTo,
	RelationshipKindContains,
	RelationshipKindDrops,
	RelationshipKindExploits,
	RelationshipKindHas,
	RelationshipKindHosts,
	RelationshipKindLocates,
	RelationshipKindOwns,
	RelationshipKindResolves,
	RelationshipKindResolvesTo,
	RelationshipKindServes,
	RelationshipKindSupports,
	RelationshipKindTargets,
	RelationshipKindUses,
	RelationshipKindVariantOf,
}

// IsValid returns true if the relationship kind is recognized.
func (k RelationshipKind) IsValid() bool {
	for _, v := range ValidRelationshipKinds {
		if k == v {
			return true
		}
	}
	return false
}

// ParseRelationshipKind converts a wire string to a RelationshipKind.
func ParseRelationshipKind(s string) (RelationshipKind, error) {
	k := RelationshipKind(s)
	if !k.IsValid() {
		return "", &UnknownEnumValueError{Enum: "RelationshipKind", Value: s}
	}
	return k, nil
}

// relationshipKindPaths maps each relationship kind to its URL path segment.
// The mapping is maintained by hand so that a renamed kind can never change a
// route silently; PathSegment fails on a kind with no entry.
var relationshipKindPaths = map[RelationshipKind]string{
	RelationshipKindBelongsTo:  "belongs-to",
	RelationshipKindConnectsTo: "connects-to",
	RelationshipKindContains:   "contains",
	RelationshipKindDrops:      "drops",
	RelationshipKindExploits:   "exploits",
	RelationshipKindHas:        "has",
	RelationshipKindHosts:      "hosts",
	RelationshipKindLocates:    "locates",
	RelationshipKindOwns:       "owns",
	RelationshipKindResolves:   "resolves",
	RelationshipKindResolvesTo: "resolves-to",
	RelationshipKindServes:     "serves",
	RelationshipKindSupports:   "supports",
	RelationshipKindTargets:    "targets",
	RelationshipKindUses:       "uses",
	RelationshipKindVariantOf:  "variant-of",
}

// PathSegment returns the kebab-case URL path segment for the kind, for
// example "resolves-to" for ResolvesTo.
func (k RelationshipKind) PathSegment() (string, error) {
	seg, ok := relationshipKindPaths[k]
	if !ok {
		return "", fmt.Errorf("no path segment for relationship kind: %w",
			&UnknownEnumValueError{Enum: "RelationshipKind", Value: string(k)})
	}
	return seg, nil
}

// ShareLevel is the TLP dissemination marking of an observation or fact.
type ShareLevel string

const (
	ShareLevelWhite ShareLevel = "White"
	ShareLevelGreen ShareLevel = "Green"
	ShareLevelAmber ShareLevel = "Amber"
	ShareLevelRed   ShareLevel = "Red"
)

// ValidShareLevels is the set of all valid share levels, least restrictive
// first.
var ValidShareLevels = []ShareLevel{
	ShareLevelWhite,
	ShareLevelGreen,
	ShareLevelAmber,
	ShareLevelRed,
}

// IsValid returns true if the share level is recognized.
func (l ShareLevel) IsValid() bool {
	for _, v := range ValidShareLevels {
		if l == v {
			return true
		}
	}
	return false
}

// ParseShareLevel converts a wire string to a ShareLevel.
func ParseShareLevel(s string) (ShareLevel, error) {
	l := ShareLevel(s)
	if !l.IsValid() {
		return "", &UnknownEnumValueError{Enum: "ShareLevel", Value: s}
	}
	return l, nil
}

// ObservationType classifies the shape of an observation's content.
type ObservationType string

const (
	ObservationTypeDNSLookup      ObservationType = "DNSLookup"
	ObservationTypeWhoisLookup    ObservationType = "WhoisLookup"
	ObservationTypeNetworkSession ObservationType = "NetworkSession"
	ObservationTypeScanSession    ObservationType = "ScanSession"
	ObservationTypeThreat         ObservationType = "Threat"
	ObservationTypeGeneric        ObservationType = "Generic"
)

// ValidObservationTypes is the set of all valid observation types.
var ValidObservationTypes = []ObservationType{
	ObservationTypeDNSLookup,
	ObservationTypeWhoisLookup,
	ObservationTypeNetworkSession,
	ObservationTypeScanSession,
	ObservationTypeThreat,
	ObservationTypeGeneric,
}

// IsValid returns true if the observation type is recognized.
func (t ObservationType) IsValid() bool {
	for _, v := range ValidObservationTypes {
		if t == v {
			return true
		}
	}
	return false
}

// ParseObservationType converts a wire string to an ObservationType.
func ParseObservationType(s string) (ObservationType, error) {
	t := ObservationType(s)
	if !t.IsValid() {
		return "", &UnknownEnumValueError{Enum: "ObservationType", Value: s}
	}
	return t, nil
}

// LinkDirection tells how a forecasted link points relative to the entity the
// forecast was requested for.
type LinkDirection string

const (
	LinkDirectionForward LinkDirection = "Forward"
	LinkDirectionReverse LinkDirection = "Reverse"
)

// ValidLinkDirections is the set of all valid link directions.
var ValidLinkDirections = []LinkDirection{
	LinkDirectionForward,
	LinkDirectionReverse,
}

// IsValid returns true if the link direction is recognized.
func (d LinkDirection) IsValid() bool {
	for _, v := range ValidLinkDirections {
		if d == v {
			return true
		}
	}
	return false
}

// ParseLinkDirection converts a wire string to a LinkDirection.
func ParseLinkDirection(s string) (LinkDirection, error) {
	d := LinkDirection(s)
	if !d.IsValid() {
		return "", &UnknownEnumValueError{Enum: "LinkDirection", Value: s}
	}
	return d, nil
}
