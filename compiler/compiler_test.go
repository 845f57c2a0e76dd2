package compiler_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exprfilter/exprfilter/bytecode"
	"github.com/exprfilter/exprfilter/compiler"
	"github.com/exprfilter/exprfilter/function"
	"github.com/exprfilter/exprfilter/parser"
	"github.com/exprfilter/exprfilter/schema"
	"github.com/exprfilter/exprfilter/value"
)

func testSchema(t *testing.T) *schema.Schema {
	t.Helper()
	s, err := schema.NewBuilder().
		Field("foo", value.TypeInt).
		Field("bar", value.TypeBytes).
		Build()
	require.NoError(t, err)
	return s
}

func compile(t *testing.T, sch *schema.Schema, funcs *function.Registry, expr string) *compiler.CompiledFilter {
	t.Helper()
	tree, err := parser.Parse(expr, sch)
	require.NoError(t, err)
	return compiler.Compile(tree, sch, funcs)
}

func TestFieldResolvesToLoadField(t *testing.T) {
	sch := testSchema(t)
	funcs := function.NewBuilder().Build()
	cf := compile(t, sch, funcs, `foo == 1`)

	require.Len(t, cf.Bytecode, 3)
	assert.Equal(t, bytecode.LoadField, cf.Bytecode[0].Op)
	fooID, _ := sch.FieldID("foo")
	assert.Equal(t, fooID, cf.Bytecode[0].Field)
	assert.Equal(t, bytecode.LoadLiteral, cf.Bytecode[1].Op)
	assert.Equal(t, bytecode.CompareEq, cf.Bytecode[2].Op)
}

func TestUnregisteredNameResolvesToLoadLiteral(t *testing.T) {
	sch := testSchema(t)
	funcs := function.NewBuilder().Build()
	cf := compile(t, sch, funcs, `nonexistent == 1`)

	assert.Equal(t, bytecode.LoadLiteral, cf.Bytecode[0].Op)
	assert.Equal(t, value.NewBytes([]byte("nonexistent")), cf.Bytecode[0].Literal)
}

func TestUnknownFunctionEmitsSentinel(t *testing.T) {
	sch := testSchema(t)
	funcs := function.NewBuilder().Build()
	cf := compile(t, sch, funcs, `nope(foo)`)

	last := cf.Bytecode[len(cf.Bytecode)-1]
	assert.Equal(t, bytecode.CallFunction, last.Op)
	assert.Equal(t, bytecode.UnknownFunctionID, last.FuncID)
}

func TestKnownFunctionResolvesID(t *testing.T) {
	sch := testSchema(t)
	funcs := function.NewBuilder().RegisterBuiltins().Build()
	cf := compile(t, sch, funcs, `len(bar)`)

	last := cf.Bytecode[len(cf.Bytecode)-1]
	assert.Equal(t, bytecode.CallFunction, last.Op)
	id, ok := funcs.ID("len")
	require.True(t, ok)
	assert.Equal(t, id, last.FuncID)
	assert.Equal(t, 1, last.Argc)
}

func TestWildcardGlobPrecompiledForLiteralPattern(t *testing.T) {
	sch := testSchema(t)
	funcs := function.NewBuilder().Build()
	cf := compile(t, sch, funcs, `bar wildcard "b*r"`)

	g, ok := cf.Glob("b*r", false)
	require.True(t, ok)
	assert.True(t, g.Match("bar"))
	assert.False(t, g.Match("xar"))
}

func TestStrictWildcardSetsStrictFlag(t *testing.T) {
	sch := testSchema(t)
	funcs := function.NewBuilder().Build()
	cf := compile(t, sch, funcs, `bar strict wildcard "B*R"`)

	var found bool
	for _, instr := range cf.Bytecode {
		if instr.Op == bytecode.CompareWildcard {
			found = true
			assert.True(t, instr.Strict)
		}
	}
	assert.True(t, found)

	_, ok := cf.Glob("B*R", true)
	assert.True(t, ok)
}

func TestWildcardGlobNotPrecompiledForDynamicPattern(t *testing.T) {
	sch, err := schema.NewBuilder().
		Field("bar", value.TypeBytes).
		Field("pattern", value.TypeBytes).
		Build()
	require.NoError(t, err)
	funcs := function.NewBuilder().Build()
	cf := compile(t, sch, funcs, `bar wildcard pattern`)

	_, ok := cf.Glob("pattern", false)
	assert.False(t, ok)
}

func TestCompileGlobPatternEscapesQuestionMark(t *testing.T) {
	g, err := compiler.CompileGlobPattern("a?b*c", false)
	require.NoError(t, err)
	assert.True(t, g.Match("a?bxc"))
	assert.False(t, g.Match("axbxc"))
}

func TestListLiteralCompilesToArrayLiteral(t *testing.T) {
	sch := testSchema(t)
	funcs := function.NewBuilder().Build()
	cf := compile(t, sch, funcs, `foo in {1 2 3}`)

	require.Len(t, cf.Bytecode, 3)
	assert.Equal(t, bytecode.LoadLiteral, cf.Bytecode[1].Op)
	assert.Len(t, cf.Bytecode[1].Literal.Array(), 3)
}
