// SPDX-License-Identifier: Apache-2.0

// Package bytecode defines the flat, pointer-free instruction stream the
// Compiler emits and the Evaluator executes.
package bytecode

import (
	"github.com/exprfilter/exprfilter/function"
	"github.com/exprfilter/exprfilter/schema"
	"github.com/exprfilter/exprfilter/value"
)

// Op identifies an Instruction's opcode.
type Op int

// Op values. One compare opcode exists per ast.CompareOp; CompareWildcard
// covers both wildcard flavors, selected by Instruction.Strict.
const (
	LoadField Op = iota
	LoadLiteral
	CallFunction
	CompareEq
	CompareNeq
	CompareLt
	CompareLte
	CompareGt
	CompareGte
	CompareIn
	CompareNotIn
	CompareMatches
	CompareWildcard
	CompareContains
	LogicalAnd
	LogicalOr
	LogicalNot
)

// UnknownFunctionID is the sentinel emitted by the Compiler for a
// FunctionCall referencing a name absent from the FunctionRegistry. The
// Evaluator must raise a function-not-found error on encountering it.
const UnknownFunctionID = function.UnknownID

// Instruction is one entry in a CompiledFilter's bytecode. Only the
// fields relevant to Op are meaningful; the others are zero.
type Instruction struct {
	Op       Op
	Field    schema.FieldID
	Literal  value.Value
	FuncID   function.ID
	Argc     int
	Strict   bool // CompareWildcard only: true selects the case-sensitive variant
}
