// SPDX-License-Identifier: Apache-2.0

// Package ferr defines the single error type shared across the filter
// engine's parser, compiler, and evaluator.
package ferr

import (
	"fmt"

	"github.com/samber/oops"
)

// Kind classifies the circumstance under which an Error was produced.
type Kind string

// Kind constants cover every failure mode the engine can surface.
const (
	KindParse         Kind = "parse"
	KindType          Kind = "type"
	KindFieldNotFound Kind = "field_not_found"
	KindFunction      Kind = "function"
	KindExecution     Kind = "execution"
	KindOther         Kind = "other"
)

// Error is the engine's single error type. Callers distinguish failure
// modes by inspecting Kind rather than by type-switching on distinct
// error types.
type Error struct {
	Kind   Kind
	Msg    string
	Offset int // byte offset into source text; meaningful only for KindParse
	err    error
}

func (e *Error) Error() string {
	if e.Kind == KindParse {
		return fmt.Sprintf("%s at byte %d: %s", e.Kind, e.Offset, e.Msg)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// Unwrap exposes the wrapped cause, if any, for errors.Is/As chains.
func (e *Error) Unwrap() error {
	return e.err
}

// New builds an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind, preserving err as the cause and
// attaching oops-style context for diagnostics.
func Wrap(kind Kind, err error, format string, args ...any) *Error {
	msg := fmt.Sprintf(format, args...)
	return &Error{
		Kind: kind,
		Msg:  msg,
		err:  oops.Code(string(kind)).Wrapf(err, msg),
	}
}

// ParseError builds a KindParse error carrying the byte offset at which
// the parser got stuck.
func ParseError(offset int, format string, args ...any) *Error {
	return &Error{Kind: KindParse, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// Is reports whether err is an *Error with the given Kind.
func Is(err error, kind Kind) bool {
	var fe *Error
	if e, ok := err.(*Error); ok {
		fe = e
	} else {
		return false
	}
	return fe.Kind == kind
}
