// SPDX-License-Identifier: Apache-2.0

// Package compiler lowers an expression tree into the flat bytecode the
// vm package executes, resolving field and function names to dense ids
// along the way. No type checking happens here: a mismatched comparison
// is left to surface as "false" at evaluation time, matching the
// engine's existing black-box behavior.
package compiler

import (
	"strings"

	"github.com/exprfilter/exprfilter/ast"
	"github.com/exprfilter/exprfilter/bytecode"
	"github.com/exprfilter/exprfilter/function"
	"github.com/exprfilter/exprfilter/schema"
	"github.com/exprfilter/exprfilter/value"
	"github.com/gobwas/glob"
)

// globKey identifies a precompiled wildcard pattern by its literal text
// and case sensitivity.
type globKey struct {
	pattern string
	strict  bool
}

// CompiledFilter owns the bytecode for one compiled expression plus
// shared handles to the Schema and FunctionRegistry used to produce it,
// and a cache of glob.Glob matchers precompiled for every wildcard
// comparison whose pattern is a compile-time literal.
type CompiledFilter struct {
	Bytecode  []bytecode.Instruction
	Schema    *schema.Schema
	Functions *function.Registry
	globCache map[globKey]glob.Glob
}

// Compile lowers expr into a CompiledFilter bound to sch and funcs via
// a post-order traversal: for each node, children are emitted first,
// then the node's own opcode(s).
func Compile(expr ast.Node, sch *schema.Schema, funcs *function.Registry) *CompiledFilter {
	cf := &CompiledFilter{
		Schema:    sch,
		Functions: funcs,
		globCache: make(map[globKey]glob.Glob),
	}
	precompileGlobs(expr, sch, cf.globCache)
	var code []bytecode.Instruction
	emit(expr, sch, funcs, &code)
	cf.Bytecode = code
	return cf
}

// Glob looks up a precompiled pattern. Callers (the evaluator) fall back
// to compiling on demand when a pattern was not known at compile time —
// e.g. the right-hand side of a wildcard comparison is itself a field
// load rather than a literal.
func (cf *CompiledFilter) Glob(pattern string, strict bool) (glob.Glob, bool) {
	g, ok := cf.globCache[globKey{pattern: pattern, strict: strict}]
	return g, ok
}

func emit(n ast.Node, sch *schema.Schema, funcs *function.Registry, code *[]bytecode.Instruction) {
	switch t := n.(type) {
	case *ast.LogicalExpr:
		emit(t.Left, sch, funcs, code)
		emit(t.Right, sch, funcs, code)
		if t.Op == ast.And {
			*code = append(*code, bytecode.Instruction{Op: bytecode.LogicalAnd})
		} else {
			*code = append(*code, bytecode.Instruction{Op: bytecode.LogicalOr})
		}

	case *ast.Comparison:
		emit(t.Left, sch, funcs, code)
		emit(t.Right, sch, funcs, code)
		*code = append(*code, compareInstruction(t.Op))

	case *ast.Not:
		emit(t.Child, sch, funcs, code)
		*code = append(*code, bytecode.Instruction{Op: bytecode.LogicalNot})

	case *ast.ValueNode:
		if t.Value.Kind() == value.Bytes {
			if id, ok := sch.FieldID(string(t.Value.Bytes())); ok {
				*code = append(*code, bytecode.Instruction{Op: bytecode.LoadField, Field: id})
				return
			}
		}
		*code = append(*code, bytecode.Instruction{Op: bytecode.LoadLiteral, Literal: t.Value})

	case *ast.List:
		*code = append(*code, bytecode.Instruction{Op: bytecode.LoadLiteral, Literal: value.NewArray(t.Values)})

	case *ast.FunctionCall:
		for _, arg := range t.Args {
			emit(arg, sch, funcs, code)
		}
		id, ok := funcs.ID(t.Name)
		if !ok {
			id = bytecode.UnknownFunctionID
		}
		*code = append(*code, bytecode.Instruction{Op: bytecode.CallFunction, FuncID: id, Argc: len(t.Args)})
	}
}

func compareInstruction(op ast.CompareOp) bytecode.Instruction {
	switch op {
	case ast.Eq:
		return bytecode.Instruction{Op: bytecode.CompareEq}
	case ast.Neq:
		return bytecode.Instruction{Op: bytecode.CompareNeq}
	case ast.Lt:
		return bytecode.Instruction{Op: bytecode.CompareLt}
	case ast.Lte:
		return bytecode.Instruction{Op: bytecode.CompareLte}
	case ast.Gt:
		return bytecode.Instruction{Op: bytecode.CompareGt}
	case ast.Gte:
		return bytecode.Instruction{Op: bytecode.CompareGte}
	case ast.In:
		return bytecode.Instruction{Op: bytecode.CompareIn}
	case ast.NotIn:
		return bytecode.Instruction{Op: bytecode.CompareNotIn}
	case ast.Matches:
		return bytecode.Instruction{Op: bytecode.CompareMatches}
	case ast.Wildcard:
		return bytecode.Instruction{Op: bytecode.CompareWildcard, Strict: false}
	case ast.StrictWildcard:
		return bytecode.Instruction{Op: bytecode.CompareWildcard, Strict: true}
	case ast.Contains:
		return bytecode.Instruction{Op: bytecode.CompareContains}
	default:
		return bytecode.Instruction{Op: bytecode.CompareEq}
	}
}

// precompileGlobs walks the tree collecting every wildcard comparison
// whose pattern is a literal, compiling each into the shared cache once
// rather than once per evaluation. A bare name that resolves to a schema
// field is a field load, not a literal, and is skipped.
func precompileGlobs(n ast.Node, sch *schema.Schema, cache map[globKey]glob.Glob) {
	switch t := n.(type) {
	case *ast.LogicalExpr:
		precompileGlobs(t.Left, sch, cache)
		precompileGlobs(t.Right, sch, cache)
	case *ast.Not:
		precompileGlobs(t.Child, sch, cache)
	case *ast.FunctionCall:
		for _, arg := range t.Args {
			precompileGlobs(arg, sch, cache)
		}
	case *ast.Comparison:
		precompileGlobs(t.Left, sch, cache)
		precompileGlobs(t.Right, sch, cache)
		if t.Op != ast.Wildcard && t.Op != ast.StrictWildcard {
			return
		}
		lit, ok := t.Right.(*ast.ValueNode)
		if !ok || lit.Value.Kind() != value.Bytes {
			return
		}
		strict := t.Op == ast.StrictWildcard
		pattern := string(lit.Value.Bytes())
		if _, isField := sch.FieldID(pattern); isField {
			return
		}
		key := globKey{pattern: pattern, strict: strict}
		if _, exists := cache[key]; exists {
			return
		}
		if g, err := CompileGlobPattern(pattern, strict); err == nil {
			cache[key] = g
		}
	}
}

// CompileGlobPattern builds a glob.Glob for pattern where '*' is the
// only metacharacter — any other gobwas/glob special character
// (including '?', which gobwas treats as a single-char wildcard by
// default) is escaped so it matches itself literally. Case-insensitive
// matching is achieved by lowercasing pattern and the matched text
// before compiling/matching, not by any glob.Glob option.
func CompileGlobPattern(pattern string, strict bool) (glob.Glob, error) {
	if !strict {
		pattern = strings.ToLower(pattern)
	}
	parts := strings.Split(pattern, "*")
	for i, p := range parts {
		parts[i] = glob.QuoteMeta(p)
	}
	return glob.Compile(strings.Join(parts, "*"))
}
