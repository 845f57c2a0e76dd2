// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"strings"

	"github.com/exprfilter/exprfilter/schema"
	"github.com/exprfilter/exprfilter/value"
)

// buildSchema turns a name->type-string map (as loaded from a schema
// description file) into a Schema. Type strings are one of the
// primitive names ("bytes", "int", "bool", "ip") or a container written
// as "array<elem>" / "map<elem>".
func buildSchema(fields map[string]string) (*schema.Schema, error) {
	b := schema.NewBuilder()
	for name, typeStr := range fields {
		ft, err := parseFieldType(typeStr)
		if err != nil {
			return nil, fmt.Errorf("field %q: %w", name, err)
		}
		b.Field(name, ft)
	}
	return b.Build()
}

func parseFieldType(s string) (value.FieldType, error) {
	s = strings.TrimSpace(s)
	switch {
	case s == "bytes":
		return value.TypeBytes, nil
	case s == "int":
		return value.TypeInt, nil
	case s == "bool":
		return value.TypeBool, nil
	case s == "ip":
		return value.TypeIP, nil
	case strings.HasPrefix(s, "array<") && strings.HasSuffix(s, ">"):
		elem, err := parseFieldType(s[len("array<") : len(s)-1])
		if err != nil {
			return value.FieldType{}, err
		}
		return value.ArrayOf(elem), nil
	case strings.HasPrefix(s, "map<") && strings.HasSuffix(s, ">"):
		elem, err := parseFieldType(s[len("map<") : len(s)-1])
		if err != nil {
			return value.FieldType{}, err
		}
		return value.MapOf(elem), nil
	default:
		return value.FieldType{}, fmt.Errorf("unrecognized field type %q", s)
	}
}
