// SPDX-License-Identifier: Apache-2.0

// Package function implements the filter engine's FunctionRegistry: an
// immutable-after-build mapping from function name to a callable plus a
// dense integer function-id, with a fast-path dispatch tag for the
// built-in functions.
package function

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/exprfilter/exprfilter/value"
)

// ID identifies a registered function by position rather than by name.
// UnknownID is the sentinel the compiler emits for an unresolved name;
// the evaluator must treat it as a function-not-found error.
type ID int

// UnknownID is the sentinel id for an unresolved function reference.
const UnknownID ID = math.MaxInt

// Callable consumes a sequence of argument Values and returns either a
// result Value or (zero, false) to signal an argument-kind mismatch —
// the engine's "no result" outcome.
type Callable func(args []value.Value) (value.Value, bool)

// Builtin is the fast-path dispatch tag for functions RegisterBuiltins
// installs. The evaluator may switch on this instead of invoking the
// Callable indirection.
type Builtin int

// Builtin tags, one per function named in the built-in table. NotBuiltin
// marks a user-registered function with no fast path.
const (
	NotBuiltin Builtin = iota
	BuiltinLen
	BuiltinUpper
	BuiltinLower
	BuiltinSum
	BuiltinStartsWith
	BuiltinEndsWith
)

type entry struct {
	name    string
	call    Callable
	builtin Builtin
}

// Registry is an immutable-after-build mapping from function name to a
// callable, plus the name<->id bijection the compiler and evaluator use
// to avoid string comparisons after compile time.
type Registry struct {
	entries []entry
	byName  map[string]ID
}

// Builder accumulates function registrations before Build freezes them.
type Builder struct {
	byName map[string]entry
}

// NewBuilder returns an empty Builder.
func NewBuilder() *Builder {
	return &Builder{byName: make(map[string]entry)}
}

// Register installs name with the given callable. Re-registering a name
// overwrites the previous callable.
func (b *Builder) Register(name string, call Callable) *Builder {
	b.byName[name] = entry{name: name, call: call, builtin: NotBuiltin}
	return b
}

func (b *Builder) registerBuiltin(name string, tag Builtin, call Callable) *Builder {
	b.byName[name] = entry{name: name, call: call, builtin: tag}
	return b
}

// RegisterBuiltins installs the six standard functions: len, upper,
// lower, sum, starts_with, ends_with.
func (b *Builder) RegisterBuiltins() *Builder {
	b.registerBuiltin("len", BuiltinLen, Len)
	b.registerBuiltin("upper", BuiltinUpper, Upper)
	b.registerBuiltin("lower", BuiltinLower, Lower)
	b.registerBuiltin("sum", BuiltinSum, Sum)
	b.registerBuiltin("starts_with", BuiltinStartsWith, StartsWith)
	b.registerBuiltin("ends_with", BuiltinEndsWith, EndsWith)
	return b
}

// Build assigns each registered name a dense ID in lexicographic order
// and freezes the registry.
func (b *Builder) Build() *Registry {
	names := make([]string, 0, len(b.byName))
	for name := range b.byName {
		names = append(names, name)
	}
	sort.Strings(names)

	r := &Registry{
		entries: make([]entry, len(names)),
		byName:  make(map[string]ID, len(names)),
	}
	for i, name := range names {
		r.entries[i] = b.byName[name]
		r.byName[name] = ID(i)
	}
	return r
}

// ID returns the id assigned to name and whether it is registered.
func (r *Registry) ID(name string) (ID, bool) {
	id, ok := r.byName[name]
	return id, ok
}

// Name returns the name registered for id.
func (r *Registry) Name(id ID) string {
	return r.entries[id].name
}

// Builtin returns the fast-path tag for id, or NotBuiltin for a
// user-registered function.
func (r *Registry) Builtin(id ID) Builtin {
	return r.entries[id].builtin
}

// Call invokes the callable registered for id.
func (r *Registry) Call(id ID, args []value.Value) (value.Value, bool) {
	return r.entries[id].call(args)
}

// Len implements the len(Array) -> Int built-in.
func Len(args []value.Value) (value.Value, bool) {
	if len(args) != 1 || args[0].Kind() != value.Array {
		return value.Value{}, false
	}
	return value.NewInt(int64(len(args[0].Array()))), true
}

// Upper implements the upper(Bytes) -> Bytes built-in: Unicode
// case-mapping over valid UTF-8, with invalid UTF-8 passed through via
// Go's standard replacement-on-decode behavior.
func Upper(args []value.Value) (value.Value, bool) {
	if len(args) != 1 || args[0].Kind() != value.Bytes {
		return value.Value{}, false
	}
	return value.NewBytes([]byte(strings.ToUpper(string(args[0].Bytes())))), true
}

// Lower implements the lower(Bytes) -> Bytes built-in.
func Lower(args []value.Value) (value.Value, bool) {
	if len(args) != 1 || args[0].Kind() != value.Bytes {
		return value.Value{}, false
	}
	return value.NewBytes([]byte(strings.ToLower(string(args[0].Bytes())))), true
}

// Sum implements the sum(Array of Int) -> Int built-in; non-Int
// elements are skipped rather than causing a mismatch.
func Sum(args []value.Value) (value.Value, bool) {
	if len(args) != 1 || args[0].Kind() != value.Array {
		return value.Value{}, false
	}
	var total int64
	for _, v := range args[0].Array() {
		if v.Kind() == value.Int {
			total += v.Int()
		}
	}
	return value.NewInt(total), true
}

// StartsWith implements the starts_with(Bytes, Bytes) -> Bool built-in.
func StartsWith(args []value.Value) (value.Value, bool) {
	if len(args) != 2 || args[0].Kind() != value.Bytes || args[1].Kind() != value.Bytes {
		return value.Value{}, false
	}
	ok := strings.HasPrefix(toUTF8(args[0].Bytes()), toUTF8(args[1].Bytes()))
	return value.NewBool(ok), true
}

// EndsWith implements the ends_with(Bytes, Bytes) -> Bool built-in.
func EndsWith(args []value.Value) (value.Value, bool) {
	if len(args) != 2 || args[0].Kind() != value.Bytes || args[1].Kind() != value.Bytes {
		return value.Value{}, false
	}
	ok := strings.HasSuffix(toUTF8(args[0].Bytes()), toUTF8(args[1].Bytes()))
	return value.NewBool(ok), true
}

func toUTF8(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	return strings.ToValidUTF8(string(b), string(utf8.RuneError))
}
