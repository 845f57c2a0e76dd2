package value

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/netip"
)

// wireValue is the JSON-on-the-wire shape for a Value: a tagged union
// keyed by kind, matching how the original's serde-derived LiteralValue
// round-trips through serde_json (bytes as base64, everything else
// structurally).
type wireValue struct {
	Kind  string            `json:"kind"`
	Bytes string            `json:"bytes,omitempty"`
	Int   *int64            `json:"int,omitempty"`
	Bool  *bool             `json:"bool,omitempty"`
	IP    string            `json:"ip,omitempty"`
	Array []wireValue       `json:"array,omitempty"`
	Map   map[string]wireValue `json:"map,omitempty"`
}

// MarshalJSON encodes v as a tagged-union object.
func (v Value) MarshalJSON() ([]byte, error) {
	w, err := toWire(v)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

func toWire(v Value) (wireValue, error) {
	switch v.kind {
	case Bytes:
		return wireValue{Kind: "bytes", Bytes: base64.StdEncoding.EncodeToString(v.bytes)}, nil
	case Int:
		i := v.i
		return wireValue{Kind: "int", Int: &i}, nil
	case Bool:
		b := v.b
		return wireValue{Kind: "bool", Bool: &b}, nil
	case IP:
		return wireValue{Kind: "ip", IP: v.ip.String()}, nil
	case Array:
		arr := make([]wireValue, len(v.arr))
		for i, e := range v.arr {
			w, err := toWire(e)
			if err != nil {
				return wireValue{}, err
			}
			arr[i] = w
		}
		return wireValue{Kind: "array", Array: arr}, nil
	case Map:
		m := make(map[string]wireValue, len(v.m))
		for k, e := range v.m {
			w, err := toWire(e)
			if err != nil {
				return wireValue{}, err
			}
			m[k] = w
		}
		return wireValue{Kind: "map", Map: m}, nil
	default:
		return wireValue{}, fmt.Errorf("value: cannot marshal kind %s", v.kind)
	}
}

// UnmarshalJSON decodes a tagged-union object produced by MarshalJSON.
func (v *Value) UnmarshalJSON(data []byte) error {
	var w wireValue
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	out, err := fromWire(w)
	if err != nil {
		return err
	}
	*v = out
	return nil
}

func fromWire(w wireValue) (Value, error) {
	switch w.Kind {
	case "bytes":
		b, err := base64.StdEncoding.DecodeString(w.Bytes)
		if err != nil {
			return Value{}, fmt.Errorf("value: invalid bytes encoding: %w", err)
		}
		return NewBytes(b), nil
	case "int":
		if w.Int == nil {
			return Value{}, fmt.Errorf("value: missing int field")
		}
		return NewInt(*w.Int), nil
	case "bool":
		if w.Bool == nil {
			return Value{}, fmt.Errorf("value: missing bool field")
		}
		return NewBool(*w.Bool), nil
	case "ip":
		addr, err := netip.ParseAddr(w.IP)
		if err != nil {
			return Value{}, fmt.Errorf("value: invalid ip: %w", err)
		}
		return NewIP(addr), nil
	case "array":
		arr := make([]Value, len(w.Array))
		for i, e := range w.Array {
			val, err := fromWire(e)
			if err != nil {
				return Value{}, err
			}
			arr[i] = val
		}
		return NewArray(arr), nil
	case "map":
		m := make(map[string]Value, len(w.Map))
		for k, e := range w.Map {
			val, err := fromWire(e)
			if err != nil {
				return Value{}, err
			}
			m[k] = val
		}
		return NewMap(m), nil
	default:
		return Value{}, fmt.Errorf("value: unknown kind %q", w.Kind)
	}
}
