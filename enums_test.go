package intelmesh

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityTypeIsValid(t *testing.T) {
	for _, v := range ValidEntityTypes {
		t.Run(string(v), func(t *testing.T) {
			assert.True(t, v.IsValid())
		})
	}
	assert.False(t, EntityType("Satellite").IsValid())
}

func TestEntityKeyTypeIsValid(t *testing.T) {
	for _, v := range ValidEntityKeyTypes {
		t.Run(string(v), func(t *testing.T) {
			assert.True(t, v.IsValid())
		})
	}
	assert.False(t, EntityKeyType("CRC32").IsValid())
}

func TestAttributeNameIsValid(t *testing.T) {
	for _, v := range ValidAttributeNames {
		t.Run(string(v), func(t *testing.T) {
			assert.True(t, v.IsValid())
		})
	}
	assert.False(t, AttributeName("Mood").IsValid())
}

func TestRelationshipKindIsValid(t *testing.T) {
	for _, v := range ValidRelationshipKinds {
		t.Run(string(v), func(t *testing.T) {
			assert.True(t, v.IsValid())
		})
	}
	assert.False(t, RelationshipKind("Ignores").IsValid())
}

func TestShareLevelIsValid(t *testing.T) {
	for _, v := range ValidShareLevels {
		t.Run(string(v), func(t *testing.T) {
			assert.True(t, v.IsValid())
		})
	}
	assert.False(t, ShareLevel("Ultraviolet").IsValid())
}

func TestObservationTypeIsValid(t *testing.T) {
	for _, v := range ValidObservationTypes {
		t.Run(string(v), func(t *testing.T) {
			assert.True(t, v.IsValid())
		})
	}
	assert.False(t, ObservationType("Rumor").IsValid())
}

func TestLinkDirectionIsValid(t *testing.T) {
	for _, v := range ValidLinkDirections {
		t.Run(string(v), func(t *testing.T) {
			assert.True(t, v.IsValid())
		})
	}
	assert.False(t, LinkDirection("Sideways").IsValid())
}

func TestParseRoundTripsValidMembers(t *testing.T) {
	for _, v := range ValidEntityTypes {
		parsed, err := ParseEntityType(string(v))
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
	for _, v := range ValidEntityKeyTypes {
		parsed, err := ParseEntityKeyType(string(v))
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
	for _, v := range ValidAttributeNames {
		parsed, err := ParseAttributeName(string(v))
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
	for _, v := range ValidRelationshipKinds {
		parsed, err := ParseRelationshipKind(string(v))
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
	for _, v := range ValidShareLevels {
		parsed, err := ParseShareLevel(string(v))
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
	for _, v := range ValidObservationTypes {
		parsed, err := ParseObservationType(string(v))
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
	for _, v := range ValidLinkDirections {
		parsed, err := ParseLinkDirection(string(v))
		require.NoError(t, err)
		assert.Equal(t, v, parsed)
	}
}

func TestParseRejectsUnknownValues(t *testing.T) {
	_, err := ParseShareLevel("Ultraviolet")
	var unknown *UnknownEnumValueError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "ShareLevel", unknown.Enum)
	assert.Equal(t, "Ultraviolet", unknown.Value)

	_, err = ParseEntityType("")
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "EntityType", unknown.Enum)

	_, err = ParseRelationshipKind("resolves-to") // path spelling is not wire spelling
	require.ErrorAs(t, err, &unknown)
}

func TestRelationshipKindPathSegments(t *testing.T) {
	kebab := regexp.MustCompile(`^[a-z]+(-[a-z]+)*$`)
	seen := make(map[string]RelationshipKind)

	for _, kind := range ValidRelationshipKinds {
		seg, err := kind.PathSegment()
		require.NoError(t, err, "kind %s has no path segment", kind)
		assert.Regexp(t, kebab, seg)

		prev, dup := seen[seg]
		assert.False(t, dup, "segment %q used by both %s and %s", seg, prev, kind)
		seen[seg] = kind
	}

	seg, err := RelationshipKindResolvesTo.PathSegment()
	require.NoError(t, err)
	assert.Equal(t, "resolves-to", seg)

	seg, err = RelationshipKindResolves.PathSegment()
	require.NoError(t, err)
	assert.Equal(t, "resolves", seg)
}

func TestPathSegmentUnknownKind(t *testing.T) {
	_, err := RelationshipKind("Ignores").PathSegment()
	require.Error(t, err)

	var unknown *UnknownEnumValueError
	assert.ErrorAs(t, err, &unknown)
}
