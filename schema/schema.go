// SPDX-License-Identifier: Apache-2.0

// Package schema defines the set of fields a filter expression may
// reference, together with the field-id bijection the compiler and
// evaluator use to avoid string lookups at evaluation time.
//
// The original engine this package was distilled from keyed its schema
// by field name alone; assigning every field a dense integer id,
// fixed at build time in lexicographic order, is a deliberate addition
// so Context storage can be a flat, pointer-free slice instead of a
// map.
package schema

import (
	"fmt"
	"sort"

	"github.com/exprfilter/exprfilter/value"
)

// FieldID identifies a schema field by position rather than by name.
type FieldID int

// Schema is an immutable field-name/type registry built by Builder.
type Schema struct {
	names  []string // index == FieldID, lexicographically sorted
	types  []value.FieldType
	byName map[string]FieldID
}

// Builder accumulates fields before Build assigns ids.
type Builder struct {
	fields map[string]value.FieldType
	err    error
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{fields: make(map[string]value.FieldType)}
}

// Field registers name with the given type. Like the original's
// builder, registering the same name twice overwrites the previous
// type rather than erroring — last write wins.
func (b *Builder) Field(name string, ty value.FieldType) *Builder {
	if name == "" {
		b.err = fmt.Errorf("schema: field name cannot be empty")
		return b
	}
	b.fields[name] = ty
	return b
}

// Build finalizes the schema, assigning each field a FieldID in
// lexicographic order of its name so that two schemas built from the
// same field set always agree on ids.
func (b *Builder) Build() (*Schema, error) {
	if b.err != nil {
		return nil, b.err
	}
	names := make([]string, 0, len(b.fields))
	for name := range b.fields {
		names = append(names, name)
	}
	sort.Strings(names)

	s := &Schema{
		names:  names,
		types:  make([]value.FieldType, len(names)),
		byName: make(map[string]FieldID, len(names)),
	}
	for i, name := range names {
		s.types[i] = b.fields[name]
		s.byName[name] = FieldID(i)
	}
	return s, nil
}

// FieldID returns the id assigned to name and whether it is registered.
func (s *Schema) FieldID(name string) (FieldID, bool) {
	id, ok := s.byName[name]
	return id, ok
}

// FieldType returns the type registered for id. Panics if id is out of
// range; callers only ever hold ids handed back by FieldID or the
// compiler, so an out-of-range id is a programming error.
func (s *Schema) FieldType(id FieldID) value.FieldType {
	return s.types[id]
}

// FieldName returns the name registered for id.
func (s *Schema) FieldName(id FieldID) string {
	return s.names[id]
}

// NumFields returns the number of registered fields, i.e. the size a
// Context built against this schema must allocate.
func (s *Schema) NumFields() int {
	return len(s.names)
}

// Fields returns the field names in id order.
func (s *Schema) Fields() []string {
	out := make([]string, len(s.names))
	copy(out, s.names)
	return out
}
