package schema_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exprfilter/exprfilter/schema"
	"github.com/exprfilter/exprfilter/value"
)

func buildTestSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.NewBuilder().
		Field("foo", value.TypeInt).
		Field("bar", value.TypeBytes).
		Build()
	require.NoError(t, err)
	return s
}

func TestFieldRegistrationAndRetrieval(t *testing.T) {
	s := buildTestSchema(t)

	fooID, ok := s.FieldID("foo")
	require.True(t, ok)
	assert.True(t, s.FieldType(fooID).Equal(value.TypeInt))

	barID, ok := s.FieldID("bar")
	require.True(t, ok)
	assert.True(t, s.FieldType(barID).Equal(value.TypeBytes))

	_, ok = s.FieldID("baz")
	assert.False(t, ok)
}

func TestFieldIDsAreLexicographicAndDense(t *testing.T) {
	s := buildTestSchema(t)
	assert.Equal(t, 2, s.NumFields())

	barID, _ := s.FieldID("bar")
	fooID, _ := s.FieldID("foo")
	assert.Equal(t, schema.FieldID(0), barID) // "bar" < "foo"
	assert.Equal(t, schema.FieldID(1), fooID)
	assert.Equal(t, "bar", s.FieldName(barID))
	assert.Equal(t, "foo", s.FieldName(fooID))
}

func TestBuilderOverwriteField(t *testing.T) {
	s, err := schema.NewBuilder().
		Field("foo", value.TypeInt).
		Field("foo", value.TypeBytes).
		Build()
	require.NoError(t, err)

	id, ok := s.FieldID("foo")
	require.True(t, ok)
	assert.True(t, s.FieldType(id).Equal(value.TypeBytes))
	assert.Equal(t, 1, s.NumFields())
}

func TestBuilderRejectsEmptyName(t *testing.T) {
	_, err := schema.NewBuilder().Field("", value.TypeInt).Build()
	assert.Error(t, err)
}
