// SPDX-License-Identifier: Apache-2.0

// Package vm implements the Evaluator: a stack-machine interpreter that
// executes a CompiledFilter's bytecode against a Context.
package vm

import (
	"strings"
	"unicode/utf8"

	"github.com/exprfilter/exprfilter/bytecode"
	"github.com/exprfilter/exprfilter/compiler"
	"github.com/exprfilter/exprfilter/ferr"
	"github.com/exprfilter/exprfilter/filterctx"
	"github.com/exprfilter/exprfilter/function"
	"github.com/exprfilter/exprfilter/value"
)

// RegexBackend performs the `matches` operator's regex test. It is
// pluggable: a nil Evaluator.Regex degrades `matches` to substring
// containment, the fallback the engine this was distilled from used
// when compiled without its optional regex feature.
type RegexBackend interface {
	// Match reports whether s matches the pattern. A malformed pattern
	// should report false rather than error — `matches` never errors.
	Match(pattern, s string) bool
}

// Evaluator executes a CompiledFilter's bytecode. The zero value is
// ready to use with a nil Regex (substring-containment fallback).
type Evaluator struct {
	Regex RegexBackend
}

// Evaluate runs cf's bytecode against ctx and returns the resulting
// boolean, or an error for any of its failure modes: an unknown
// function id, a built-in/user callable returning no-result, a stack
// underflow inside an instruction, or an empty stack at termination.
func (e *Evaluator) Evaluate(cf *compiler.CompiledFilter, ctx *filterctx.Context) (bool, error) {
	stack := make([]value.Value, 0, 16)

	for _, instr := range cf.Bytecode {
		switch instr.Op {
		case bytecode.LoadField:
			v, ok := ctx.Get(instr.Field)
			if !ok {
				v = value.NewBool(false)
			}
			stack = append(stack, v)

		case bytecode.LoadLiteral:
			stack = append(stack, instr.Literal)

		case bytecode.CallFunction:
			if instr.Argc > len(stack) {
				return false, ferr.New(ferr.KindExecution, "stack underflow calling function")
			}
			split := len(stack) - instr.Argc
			args := stack[split:]
			stack = stack[:split]

			if instr.FuncID == bytecode.UnknownFunctionID {
				return false, ferr.New(ferr.KindFunction, "unknown function")
			}
			var result value.Value
			var ok bool
			if tag := cf.Functions.Builtin(instr.FuncID); tag != function.NotBuiltin {
				result, ok = callBuiltinFastPath(tag, args)
			} else {
				result, ok = cf.Functions.Call(instr.FuncID, args)
			}
			if !ok {
				return false, ferr.New(ferr.KindFunction, "function %q returned no result", cf.Functions.Name(instr.FuncID))
			}
			stack = append(stack, result)

		case bytecode.CompareEq, bytecode.CompareNeq, bytecode.CompareLt, bytecode.CompareLte,
			bytecode.CompareGt, bytecode.CompareGte, bytecode.CompareIn, bytecode.CompareNotIn,
			bytecode.CompareMatches, bytecode.CompareWildcard, bytecode.CompareContains:
			if len(stack) < 2 {
				return false, ferr.New(ferr.KindExecution, "stack underflow in comparison")
			}
			right := stack[len(stack)-1]
			left := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			result := e.compare(cf, instr, left, right)
			stack = append(stack, value.NewBool(result))

		case bytecode.LogicalAnd:
			if len(stack) < 2 {
				return false, ferr.New(ferr.KindExecution, "stack underflow in &&")
			}
			right := stack[len(stack)-1]
			left := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			if !truthy(left) {
				stack = append(stack, value.NewBool(false))
			} else {
				stack = append(stack, value.NewBool(truthy(right)))
			}

		case bytecode.LogicalOr:
			if len(stack) < 2 {
				return false, ferr.New(ferr.KindExecution, "stack underflow in ||")
			}
			right := stack[len(stack)-1]
			left := stack[len(stack)-2]
			stack = stack[:len(stack)-2]
			if truthy(left) {
				stack = append(stack, value.NewBool(true))
			} else {
				stack = append(stack, value.NewBool(truthy(right)))
			}

		case bytecode.LogicalNot:
			if len(stack) < 1 {
				return false, ferr.New(ferr.KindExecution, "stack underflow in not")
			}
			top := stack[len(stack)-1]
			stack[len(stack)-1] = value.NewBool(!truthy(top))
		}
	}

	if len(stack) == 0 {
		return false, ferr.New(ferr.KindExecution, "empty stack after execution")
	}
	top := stack[len(stack)-1]
	if top.Kind() == value.Bool {
		return top.Bool(), nil
	}
	return truthy(top), nil
}

// truthy implements the engine's total coercion to bool.
func truthy(v value.Value) bool {
	switch v.Kind() {
	case value.Bool:
		return v.Bool()
	case value.Int:
		return v.Int() != 0
	case value.Bytes:
		return true
	case value.IP:
		return true
	case value.Array:
		return len(v.Array()) > 0
	case value.Map:
		return len(v.Map()) > 0
	default:
		return false
	}
}

func (e *Evaluator) compare(cf *compiler.CompiledFilter, instr bytecode.Instruction, left, right value.Value) bool {
	switch instr.Op {
	case bytecode.CompareEq:
		return left.Equal(right)
	case bytecode.CompareNeq:
		return !left.Equal(right)
	case bytecode.CompareLt:
		return ordered(left, right, func(a, b int64) bool { return a < b })
	case bytecode.CompareLte:
		return ordered(left, right, func(a, b int64) bool { return a <= b })
	case bytecode.CompareGt:
		return ordered(left, right, func(a, b int64) bool { return a > b })
	case bytecode.CompareGte:
		return ordered(left, right, func(a, b int64) bool { return a >= b })
	case bytecode.CompareIn:
		return memberOf(left, right)
	case bytecode.CompareNotIn:
		return !memberOf(left, right)
	case bytecode.CompareMatches:
		return e.matches(left, right)
	case bytecode.CompareWildcard:
		return e.wildcard(cf, left, right, instr.Strict)
	case bytecode.CompareContains:
		return contains(left, right)
	default:
		return false
	}
}

func ordered(left, right value.Value, cmp func(a, b int64) bool) bool {
	if left.Kind() != value.Int || right.Kind() != value.Int {
		return false
	}
	return cmp(left.Int(), right.Int())
}

func memberOf(needle, haystack value.Value) bool {
	if haystack.Kind() != value.Array {
		return false
	}
	for _, v := range haystack.Array() {
		if needle.Equal(v) {
			return true
		}
	}
	return false
}

func (e *Evaluator) matches(left, right value.Value) bool {
	if left.Kind() != value.Bytes || right.Kind() != value.Bytes {
		return false
	}
	lb, rb := left.Bytes(), right.Bytes()
	if !utf8.Valid(lb) || !utf8.Valid(rb) {
		return false
	}
	s, pat := string(lb), string(rb)
	if e.Regex != nil {
		return e.Regex.Match(pat, s)
	}
	return strings.Contains(s, pat)
}

func (e *Evaluator) wildcard(cf *compiler.CompiledFilter, left, right value.Value, strict bool) bool {
	if left.Kind() != value.Bytes || right.Kind() != value.Bytes {
		return false
	}
	s := string(left.Bytes())
	pattern := string(right.Bytes())
	if !strict {
		s = strings.ToLower(s)
	}

	g, ok := cf.Glob(pattern, strict)
	if !ok {
		compiled, err := compiler.CompileGlobPattern(pattern, strict)
		if err != nil {
			return false
		}
		g = compiled
	}
	return g.Match(s)
}

// callBuiltinFastPath dispatches a built-in call by enum tag rather than
// through the registry's indirection, mirroring the engine's original
// enum-tag fast path for the small fixed set of built-ins.
func callBuiltinFastPath(tag function.Builtin, args []value.Value) (value.Value, bool) {
	switch tag {
	case function.BuiltinLen:
		return function.Len(args)
	case function.BuiltinUpper:
		return function.Upper(args)
	case function.BuiltinLower:
		return function.Lower(args)
	case function.BuiltinSum:
		return function.Sum(args)
	case function.BuiltinStartsWith:
		return function.StartsWith(args)
	case function.BuiltinEndsWith:
		return function.EndsWith(args)
	default:
		return value.Value{}, false
	}
}

func contains(left, right value.Value) bool {
	if left.Kind() == value.Bytes && right.Kind() == value.Bytes {
		lb, rb := left.Bytes(), right.Bytes()
		if !utf8.Valid(lb) || !utf8.Valid(rb) {
			return false
		}
		return strings.Contains(string(lb), string(rb))
	}
	if left.Kind() == value.Array {
		for _, v := range left.Array() {
			if v.Equal(right) {
				return true
			}
		}
		return false
	}
	return false
}
