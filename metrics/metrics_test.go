package metrics_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exprfilter/exprfilter/compiler"
	"github.com/exprfilter/exprfilter/filterctx"
	"github.com/exprfilter/exprfilter/function"
	"github.com/exprfilter/exprfilter/metrics"
	"github.com/exprfilter/exprfilter/parser"
	"github.com/exprfilter/exprfilter/schema"
	"github.com/exprfilter/exprfilter/value"
)

func TestInstrumentedEvaluatorReturnsSameResultAsWrapped(t *testing.T) {
	sch, err := schema.NewBuilder().Field("port", value.TypeInt).Build()
	require.NoError(t, err)
	funcs := function.NewBuilder().RegisterBuiltins().Build()

	tree, err := parser.Parse(`port == 80`, sch)
	require.NoError(t, err)
	cf := compiler.Compile(tree, sch, funcs)

	ctx := filterctx.New(sch)
	require.NoError(t, ctx.Set("port", value.NewInt(80)))

	ie := &metrics.InstrumentedEvaluator{}
	result, err := ie.Evaluate(cf, ctx)
	require.NoError(t, err)
	assert.True(t, result)
}

func TestInstrumentedEvaluatorSurfacesErrors(t *testing.T) {
	sch, err := schema.NewBuilder().Field("tags", value.ArrayOf(value.TypeBytes)).Build()
	require.NoError(t, err)
	funcs := function.NewBuilder().RegisterBuiltins().Build()

	tree, err := parser.Parse(`unknown_function(tags)`, sch)
	require.NoError(t, err)
	cf := compiler.Compile(tree, sch, funcs)
	ctx := filterctx.New(sch)

	ie := &metrics.InstrumentedEvaluator{}
	_, err = ie.Evaluate(cf, ctx)
	assert.Error(t, err)
}
