package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exprfilter/exprfilter/value"
)

func TestParseFieldTypePrimitives(t *testing.T) {
	cases := map[string]value.FieldType{
		"bytes": value.TypeBytes,
		"int":   value.TypeInt,
		"bool":  value.TypeBool,
		"ip":    value.TypeIP,
	}
	for s, want := range cases {
		got, err := parseFieldType(s)
		require.NoError(t, err, s)
		assert.True(t, got.Equal(want), s)
	}
}

func TestParseFieldTypeContainers(t *testing.T) {
	got, err := parseFieldType("array<int>")
	require.NoError(t, err)
	assert.True(t, got.Equal(value.ArrayOf(value.TypeInt)))

	got, err = parseFieldType("map<bytes>")
	require.NoError(t, err)
	assert.True(t, got.Equal(value.MapOf(value.TypeBytes)))
}

func TestParseFieldTypeRejectsUnknown(t *testing.T) {
	_, err := parseFieldType("nonsense")
	assert.Error(t, err)
}

func TestBuildSchemaFromFieldMap(t *testing.T) {
	sch, err := buildSchema(map[string]string{
		"port": "int",
		"tags": "array<bytes>",
	})
	require.NoError(t, err)

	id, ok := sch.FieldID("port")
	require.True(t, ok)
	assert.True(t, sch.FieldType(id).Equal(value.TypeInt))
}

func TestBuildSchemaRejectsBadType(t *testing.T) {
	_, err := buildSchema(map[string]string{"port": "notatype"})
	assert.Error(t, err)
}
