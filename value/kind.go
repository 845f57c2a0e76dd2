// SPDX-License-Identifier: Apache-2.0

// Package value implements the engine's typed value model: FieldType
// (the static type of a schema field) and Value (a runtime literal),
// mirroring the Rust FieldType/LiteralValue pair this engine was
// distilled from.
package value

import "fmt"

// Kind identifies the shape of a FieldType or Value, independent of any
// nested element type.
type Kind int

// Kind values cover every supported field/value shape. Array and Map
// carry a nested element FieldType, so Kind alone never fully describes
// a composite type.
const (
	Bytes Kind = iota
	Int
	Bool
	IP
	Array
	Map
	Unknown
)

func (k Kind) String() string {
	switch k {
	case Bytes:
		return "Bytes"
	case Int:
		return "Int"
	case Bool:
		return "Bool"
	case IP:
		return "Ip"
	case Array:
		return "Array"
	case Map:
		return "Map"
	case Unknown:
		return "Unknown"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// FieldType is the static type of a schema field or an inferred literal.
// Array and Map are parameterized by their element type, matching the
// original's Array(Box<FieldType>)/Map(Box<FieldType>) shape.
type FieldType struct {
	Kind Kind
	Elem *FieldType // non-nil only when Kind is Array or Map
}

// Primitive type constants, safe to share since FieldType is immutable
// once constructed for these cases.
var (
	TypeBytes   = FieldType{Kind: Bytes}
	TypeInt     = FieldType{Kind: Int}
	TypeBool    = FieldType{Kind: Bool}
	TypeIP      = FieldType{Kind: IP}
	TypeUnknown = FieldType{Kind: Unknown}
)

// ArrayOf builds the Array(elem) field type.
func ArrayOf(elem FieldType) FieldType {
	e := elem
	return FieldType{Kind: Array, Elem: &e}
}

// MapOf builds the Map(elem) field type.
func MapOf(elem FieldType) FieldType {
	e := elem
	return FieldType{Kind: Map, Elem: &e}
}

// IsPrimitive reports whether t is one of Bytes/Int/Bool/Ip.
func (t FieldType) IsPrimitive() bool {
	switch t.Kind {
	case Bytes, Int, Bool, IP:
		return true
	default:
		return false
	}
}

// Equal reports structural equality, recursing into Array/Map element
// types.
func (t FieldType) Equal(other FieldType) bool {
	if t.Kind != other.Kind {
		return false
	}
	if t.Kind != Array && t.Kind != Map {
		return true
	}
	if t.Elem == nil || other.Elem == nil {
		return t.Elem == other.Elem
	}
	return t.Elem.Equal(*other.Elem)
}

func (t FieldType) String() string {
	switch t.Kind {
	case Array:
		return fmt.Sprintf("Array(%s)", t.Elem.String())
	case Map:
		return fmt.Sprintf("Map(%s)", t.Elem.String())
	default:
		return t.Kind.String()
	}
}
