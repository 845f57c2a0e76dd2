package function_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exprfilter/exprfilter/function"
	"github.com/exprfilter/exprfilter/value"
)

func TestRegisterAndCallLen(t *testing.T) {
	reg := function.NewBuilder().RegisterBuiltins().Build()
	id, ok := reg.ID("len")
	require.True(t, ok)

	arr := value.NewArray([]value.Value{value.NewInt(1), value.NewInt(2)})
	result, ok := reg.Call(id, []value.Value{arr})
	require.True(t, ok)
	assert.Equal(t, int64(2), result.Int())
}

func TestUpperFunction(t *testing.T) {
	reg := function.NewBuilder().RegisterBuiltins().Build()
	id, _ := reg.ID("upper")
	result, ok := reg.Call(id, []value.Value{value.NewBytes([]byte("hello"))})
	require.True(t, ok)
	assert.Equal(t, "HELLO", string(result.Bytes()))
}

func TestSumFunctionSkipsNonInt(t *testing.T) {
	reg := function.NewBuilder().RegisterBuiltins().Build()
	id, _ := reg.ID("sum")
	arr := value.NewArray([]value.Value{value.NewInt(1), value.NewBool(true), value.NewInt(2), value.NewInt(3)})
	result, ok := reg.Call(id, []value.Value{arr})
	require.True(t, ok)
	assert.Equal(t, int64(6), result.Int())
}

func TestStartsEndsWith(t *testing.T) {
	reg := function.NewBuilder().RegisterBuiltins().Build()
	startsID, _ := reg.ID("starts_with")
	endsID, _ := reg.ID("ends_with")

	result, ok := reg.Call(startsID, []value.Value{value.NewBytes([]byte("hello world")), value.NewBytes([]byte("hello"))})
	require.True(t, ok)
	assert.True(t, result.Bool())

	result, ok = reg.Call(endsID, []value.Value{value.NewBytes([]byte("hello world")), value.NewBytes([]byte("world"))})
	require.True(t, ok)
	assert.True(t, result.Bool())
}

func TestArgumentMismatchReturnsNoResult(t *testing.T) {
	reg := function.NewBuilder().RegisterBuiltins().Build()
	id, _ := reg.ID("len")
	_, ok := reg.Call(id, []value.Value{value.NewInt(1)})
	assert.False(t, ok)
}

func TestBuiltinFastPathTags(t *testing.T) {
	reg := function.NewBuilder().RegisterBuiltins().Build()
	id, _ := reg.ID("len")
	assert.Equal(t, function.BuiltinLen, reg.Builtin(id))
}

func TestUnknownFunctionNotRegistered(t *testing.T) {
	reg := function.NewBuilder().RegisterBuiltins().Build()
	_, ok := reg.ID("missing_fn")
	assert.False(t, ok)
}

func TestUserFunctionHasNoFastPath(t *testing.T) {
	reg := function.NewBuilder().
		RegisterBuiltins().
		Register("always_true", func(args []value.Value) (value.Value, bool) {
			return value.NewBool(true), true
		}).
		Build()

	id, ok := reg.ID("always_true")
	require.True(t, ok)
	assert.Equal(t, function.NotBuiltin, reg.Builtin(id))

	result, ok := reg.Call(id, nil)
	require.True(t, ok)
	assert.True(t, result.Bool())
}
