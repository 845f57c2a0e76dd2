// SPDX-License-Identifier: Apache-2.0

// Package filterctx implements Context: the per-record mapping from
// field-id to Value the Evaluator reads from. Unlike the original
// engine's name-keyed HashMap, Context here is a flat array indexed by
// the Schema's field-id bijection, so evaluation never does a string
// lookup.
package filterctx

import (
	"encoding/json"

	"github.com/exprfilter/exprfilter/ferr"
	"github.com/exprfilter/exprfilter/schema"
	"github.com/exprfilter/exprfilter/value"
)

// Context is single-owner mutable between evaluations; it is read-only
// during evaluation and not safe to mutate concurrently with an
// in-flight Evaluate call on the same Context.
type Context struct {
	schema *schema.Schema
	slots  []value.Value
	set    []bool
}

// New returns an empty Context sized for sch. Every slot reads as
// absent until Set is called.
func New(sch *schema.Schema) *Context {
	n := sch.NumFields()
	return &Context{
		schema: sch,
		slots:  make([]value.Value, n),
		set:    make([]bool, n),
	}
}

// Set writes value into the slot for field, type-checking it against
// the schema. Writing an empty Array(Unknown) into an Array(T) slot is
// permitted regardless of T — the one deliberate asymmetry in an
// otherwise strict structural check, inherited from the engine this was
// distilled from.
func (c *Context) Set(field string, v value.Value) error {
	id, ok := c.schema.FieldID(field)
	if !ok {
		return ferr.New(ferr.KindFieldNotFound, "field not found: %s", field)
	}
	expected := c.schema.FieldType(id)

	if expected.Kind == value.Array && v.Kind() == value.Array && len(v.Array()) == 0 {
		got := v.TypeOf()
		if got.Elem != nil && got.Elem.Kind == value.Unknown {
			c.slots[id] = v
			c.set[id] = true
			return nil
		}
	}

	got := v.TypeOfWithHint(&expected)
	if !got.Equal(expected) {
		return ferr.New(ferr.KindType, "type mismatch for field %q: expected %s, got %s", field, expected, got)
	}
	c.slots[id] = v
	c.set[id] = true
	return nil
}

// Get reads the value at field-id id. The second return is false when
// the slot was never written.
func (c *Context) Get(id schema.FieldID) (value.Value, bool) {
	if int(id) < 0 || int(id) >= len(c.slots) || !c.set[id] {
		return value.Value{}, false
	}
	return c.slots[id], true
}

// Schema returns the schema this Context was built against.
func (c *Context) Schema() *schema.Schema {
	return c.schema
}

// wireContext is the JSON-on-the-wire shape: a field-name keyed object,
// so a Context round-trips independently of any particular field-id
// assignment as long as the decoding side shares the same Schema.
type wireContext map[string]value.Value

// MarshalJSON encodes every set field, keyed by name.
func (c *Context) MarshalJSON() ([]byte, error) {
	w := make(wireContext, len(c.slots))
	for id := range c.slots {
		if !c.set[id] {
			continue
		}
		w[c.schema.FieldName(schema.FieldID(id))] = c.slots[id]
	}
	return json.Marshal(w)
}

// UnmarshalJSON decodes a wire-encoded Context produced by MarshalJSON.
// c must already carry a Schema (built via New); fields absent from
// that schema are rejected with a FieldNotFound error.
func (c *Context) UnmarshalJSON(data []byte) error {
	if c.schema == nil {
		return ferr.New(ferr.KindOther, "context: UnmarshalJSON called without a schema; call New first")
	}
	var w wireContext
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	for name, v := range w {
		if err := c.Set(name, v); err != nil {
			return err
		}
	}
	return nil
}
