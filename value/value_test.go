package value_test

import (
	"encoding/json"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exprfilter/exprfilter/value"
)

func TestFieldTypeIsPrimitive(t *testing.T) {
	assert.True(t, value.TypeInt.IsPrimitive())
	assert.True(t, value.TypeBytes.IsPrimitive())
	assert.True(t, value.TypeBool.IsPrimitive())
	assert.True(t, value.TypeIP.IsPrimitive())
	assert.False(t, value.ArrayOf(value.TypeInt).IsPrimitive())
	assert.False(t, value.MapOf(value.TypeInt).IsPrimitive())
}

func TestValueTypeOf(t *testing.T) {
	assert.True(t, value.NewInt(1).TypeOf().Equal(value.TypeInt))
	assert.True(t, value.NewBytes([]byte("abc")).TypeOf().Equal(value.TypeBytes))
	assert.True(t, value.NewBool(true).TypeOf().Equal(value.TypeBool))

	ip := netip.MustParseAddr("127.0.0.1")
	assert.True(t, value.NewIP(ip).TypeOf().Equal(value.TypeIP))

	arr := value.NewArray([]value.Value{value.NewInt(1), value.NewInt(2)})
	assert.True(t, arr.TypeOf().Equal(value.ArrayOf(value.TypeInt)))

	m := value.NewMap(map[string]value.Value{})
	assert.True(t, m.TypeOf().Equal(value.MapOf(value.TypeUnknown)))
}

func TestEmptyArrayTypeInference(t *testing.T) {
	arr := value.NewArray(nil)
	assert.True(t, arr.TypeOf().Equal(value.ArrayOf(value.TypeUnknown)))

	hint := value.ArrayOf(value.TypeBytes)
	assert.True(t, arr.TypeOfWithHint(&hint).Equal(value.ArrayOf(value.TypeBytes)))
}

func TestEmptyMapTypeInference(t *testing.T) {
	m := value.NewMap(nil)
	assert.True(t, m.TypeOf().Equal(value.MapOf(value.TypeUnknown)))
}

func TestMixedArrayInfersUnknown(t *testing.T) {
	arr := value.NewArray([]value.Value{value.NewInt(1), value.NewBool(true)})
	assert.True(t, arr.TypeOf().Equal(value.ArrayOf(value.TypeUnknown)))
}

func TestValueJSONRoundTrip(t *testing.T) {
	ip := netip.MustParseAddr("192.168.1.1")
	original := value.NewArray([]value.Value{
		value.NewInt(1),
		value.NewBytes([]byte("foo")),
		value.NewBool(false),
		value.NewIP(ip),
	})

	b, err := json.Marshal(original)
	require.NoError(t, err)

	var decoded value.Value
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.True(t, original.Equal(decoded))
}

func TestValueEqual(t *testing.T) {
	a := value.NewMap(map[string]value.Value{"x": value.NewInt(1)})
	b := value.NewMap(map[string]value.Value{"x": value.NewInt(1)})
	c := value.NewMap(map[string]value.Value{"x": value.NewInt(2)})
	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
