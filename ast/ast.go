// SPDX-License-Identifier: Apache-2.0

// Package ast defines the expression tree the Parser produces and the
// Compiler consumes. Every node implements Node; concrete shapes mirror
// the surface grammar one-to-one rather than collapsing into a single
// generic node, so the compiler's lowering switch stays exhaustive and
// compiler-checked.
package ast

import (
	"fmt"
	"strings"

	"github.com/exprfilter/exprfilter/value"
)

// Node is implemented by every expression-tree node.
type Node interface {
	node()
}

// LogicalOp identifies && / || in a LogicalExpr.
type LogicalOp int

const (
	And LogicalOp = iota
	Or
)

func (op LogicalOp) String() string {
	if op == And {
		return "&&"
	}
	return "||"
}

// CompareOp identifies the operator in a Comparison node.
type CompareOp int

// CompareOp values, one per comparison opcode named in the grammar.
const (
	Eq CompareOp = iota
	Neq
	Lt
	Lte
	Gt
	Gte
	In
	NotIn
	Matches
	Wildcard
	StrictWildcard
	Contains
)

func (op CompareOp) String() string {
	switch op {
	case Eq:
		return "=="
	case Neq:
		return "!="
	case Lt:
		return "<"
	case Lte:
		return "<="
	case Gt:
		return ">"
	case Gte:
		return ">="
	case In:
		return "in"
	case NotIn:
		return "not in"
	case Matches:
		return "matches"
	case Wildcard:
		return "wildcard"
	case StrictWildcard:
		return "strict wildcard"
	case Contains:
		return "contains"
	default:
		return fmt.Sprintf("CompareOp(%d)", int(op))
	}
}

// LogicalExpr is `left op right` for && / ||.
type LogicalExpr struct {
	Op    LogicalOp
	Left  Node
	Right Node
}

func (*LogicalExpr) node() {}

// Comparison is `left op right` for every comparison operator.
type Comparison struct {
	Left  Node
	Op    CompareOp
	Right Node
}

func (*Comparison) node() {}

// Not is `not child`.
type Not struct {
	Child Node
}

func (*Not) node() {}

// ValueNode wraps a literal. A bare identifier and a string literal are
// indistinguishable here — both are Bytes — disambiguation between
// field reference and string literal happens in the Compiler.
type ValueNode struct {
	Value value.Value
}

func (*ValueNode) node() {}

// FunctionCall is `name(args...)`.
type FunctionCall struct {
	Name string
	Args []Node
}

func (*FunctionCall) node() {}

// List is a `{ ... }` literal: a whitespace-separated sequence of
// literals with no nested lists or calls.
type List struct {
	Values []value.Value
}

func (*List) node() {}

// String renders n in surface-like syntax for debugging. It always emits
// the symbolic operator form, parenthesizes every LogicalExpr and
// Comparison, and quotes every Bytes value with Go %q escaping. The
// output is not guaranteed to parse back: a quoted Bytes value in
// left-operand position is rejected by the parser, and an array held in a
// ValueNode renders in Go slice notation ("[1 2]") rather than as a
// `{ ... }` list.
func String(n Node) string {
	var b strings.Builder
	writeNode(&b, n)
	return b.String()
}

func writeNode(b *strings.Builder, n Node) {
	switch t := n.(type) {
	case *LogicalExpr:
		b.WriteByte('(')
		writeNode(b, t.Left)
		b.WriteByte(' ')
		b.WriteString(t.Op.String())
		b.WriteByte(' ')
		writeNode(b, t.Right)
		b.WriteByte(')')
	case *Comparison:
		b.WriteByte('(')
		writeNode(b, t.Left)
		b.WriteByte(' ')
		b.WriteString(t.Op.String())
		b.WriteByte(' ')
		writeNode(b, t.Right)
		b.WriteByte(')')
	case *Not:
		b.WriteString("not ")
		writeNode(b, t.Child)
	case *ValueNode:
		writeValue(b, t.Value)
	case *FunctionCall:
		b.WriteString(t.Name)
		b.WriteByte('(')
		for i, a := range t.Args {
			if i > 0 {
				b.WriteByte(',')
			}
			writeNode(b, a)
		}
		b.WriteByte(')')
	case *List:
		b.WriteByte('{')
		for i, v := range t.Values {
			if i > 0 {
				b.WriteByte(' ')
			}
			writeValue(b, v)
		}
		b.WriteByte('}')
	default:
		b.WriteString(fmt.Sprintf("<unknown node %T>", n))
	}
}

func writeValue(b *strings.Builder, v value.Value) {
	switch v.Kind() {
	case value.Bytes:
		fmt.Fprintf(b, "%q", v.Bytes())
	case value.Int:
		fmt.Fprintf(b, "%d", v.Int())
	case value.Bool:
		fmt.Fprintf(b, "%t", v.Bool())
	default:
		fmt.Fprintf(b, "%v", v)
	}
}
