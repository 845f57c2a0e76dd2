package value

import (
	"fmt"
	"net/netip"
)

// Value is a runtime literal: exactly one of the per-kind fields below is
// meaningful, selected by Kind. Bytes/Array/Map hold Go slices and maps,
// which already have Go's native reference-copy semantics — copying a
// Value copies a slice header or map header, not the underlying storage,
// giving the same "cheap to clone, shared buffer" property the original
// got from explicit Arc<...> wrapping.
type Value struct {
	kind  Kind
	bytes []byte
	i     int64
	b     bool
	ip    netip.Addr
	arr   []Value
	m     map[string]Value
}

// NewBytes builds a Bytes value. b is retained, not copied.
func NewBytes(b []byte) Value { return Value{kind: Bytes, bytes: b} }

// NewInt builds an Int value.
func NewInt(i int64) Value { return Value{kind: Int, i: i} }

// NewBool builds a Bool value.
func NewBool(b bool) Value { return Value{kind: Bool, b: b} }

// NewIP builds an Ip value.
func NewIP(ip netip.Addr) Value { return Value{kind: IP, ip: ip} }

// NewArray builds an Array value. elems is retained, not copied.
func NewArray(elems []Value) Value { return Value{kind: Array, arr: elems} }

// NewMap builds a Map value. m is retained, not copied.
func NewMap(m map[string]Value) Value { return Value{kind: Map, m: m} }

// Kind reports the value's runtime kind.
func (v Value) Kind() Kind { return v.kind }

// Bytes returns the underlying byte slice. Panics if Kind() != Bytes.
func (v Value) Bytes() []byte {
	if v.kind != Bytes {
		panic(fmt.Sprintf("value: Bytes() called on %s", v.kind))
	}
	return v.bytes
}

// Int returns the underlying int64. Panics if Kind() != Int.
func (v Value) Int() int64 {
	if v.kind != Int {
		panic(fmt.Sprintf("value: Int() called on %s", v.kind))
	}
	return v.i
}

// Bool returns the underlying bool. Panics if Kind() != Bool.
func (v Value) Bool() bool {
	if v.kind != Bool {
		panic(fmt.Sprintf("value: Bool() called on %s", v.kind))
	}
	return v.b
}

// IP returns the underlying address. Panics if Kind() != Ip.
func (v Value) IP() netip.Addr {
	if v.kind != IP {
		panic(fmt.Sprintf("value: IP() called on %s", v.kind))
	}
	return v.ip
}

// Array returns the underlying element slice. Panics if Kind() != Array.
func (v Value) Array() []Value {
	if v.kind != Array {
		panic(fmt.Sprintf("value: Array() called on %s", v.kind))
	}
	return v.arr
}

// Map returns the underlying map. Panics if Kind() != Map.
func (v Value) Map() map[string]Value {
	if v.kind != Map {
		panic(fmt.Sprintf("value: Map() called on %s", v.kind))
	}
	return v.m
}

// TypeOf infers v's FieldType with no hint for empty containers, so an
// empty array or map infers to Array(Unknown)/Map(Unknown).
func (v Value) TypeOf() FieldType {
	return v.TypeOfWithHint(nil)
}

// TypeOfWithHint infers v's FieldType. When v is an empty Array or Map
// and hint names the corresponding container type, the hint's element
// type is used instead of defaulting to Unknown. This mirrors the
// original's get_type_with_hint and its deliberate asymmetry: an empty
// array/map's type depends on context, not just its own content.
func (v Value) TypeOfWithHint(hint *FieldType) FieldType {
	switch v.kind {
	case Bytes:
		return TypeBytes
	case Int:
		return TypeInt
	case Bool:
		return TypeBool
	case IP:
		return TypeIP
	case Array:
		if len(v.arr) == 0 {
			if hint != nil && hint.Kind == Array && hint.Elem != nil {
				return ArrayOf(*hint.Elem)
			}
			return ArrayOf(TypeUnknown)
		}
		first := v.arr[0].TypeOf()
		for _, e := range v.arr[1:] {
			if !e.TypeOf().Equal(first) {
				return ArrayOf(TypeUnknown)
			}
		}
		return ArrayOf(first)
	case Map:
		if len(v.m) == 0 {
			if hint != nil && hint.Kind == Map && hint.Elem != nil {
				return MapOf(*hint.Elem)
			}
			return MapOf(TypeUnknown)
		}
		var first FieldType
		set := false
		for _, e := range v.m {
			t := e.TypeOf()
			if !set {
				first = t
				set = true
				continue
			}
			if !t.Equal(first) {
				return MapOf(TypeUnknown)
			}
		}
		return MapOf(first)
	default:
		return TypeUnknown
	}
}

// Equal reports deep structural equality, recursing into Array/Map
// elements. Values of different kinds are never equal.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case Bytes:
		return string(v.bytes) == string(other.bytes)
	case Int:
		return v.i == other.i
	case Bool:
		return v.b == other.b
	case IP:
		return v.ip == other.ip
	case Array:
		if len(v.arr) != len(other.arr) {
			return false
		}
		for i := range v.arr {
			if !v.arr[i].Equal(other.arr[i]) {
				return false
			}
		}
		return true
	case Map:
		if len(v.m) != len(other.m) {
			return false
		}
		for k, a := range v.m {
			b, ok := other.m[k]
			if !ok || !a.Equal(b) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func (v Value) String() string {
	switch v.kind {
	case Bytes:
		return fmt.Sprintf("%q", v.bytes)
	case Int:
		return fmt.Sprintf("%d", v.i)
	case Bool:
		return fmt.Sprintf("%t", v.b)
	case IP:
		return v.ip.String()
	case Array:
		return fmt.Sprintf("%v", v.arr)
	case Map:
		return fmt.Sprintf("%v", v.m)
	default:
		return "<invalid value>"
	}
}
