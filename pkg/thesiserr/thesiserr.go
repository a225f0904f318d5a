// Copyright 2024 The Erigon Authors
// This file is part of Erigon.
//
// Erigon is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Erigon is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Erigon. If not, see <http://www.gnu.org/licenses/>.

// Package thesiserr defines the observable error kinds raised by the
// core: validation failures, resolver failures, and domain
// errors raised while inserting, tagging, or removing theses.
package thesiserr

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind distinguishes the error taxonomy. It is the thing
// callers should switch on, not the error's message text.
type Kind int

const (
	// InvalidSyntax: a value failed its regex (Alias/Tag/RelationKind/RawText).
	InvalidSyntax Kind = iota
	// InvalidCommand: a DSL paragraph is malformed or its op/line-count
	// combination is not in the grammar table.
	InvalidCommand
	// UnknownAlias: the aliases resolver could not resolve an alias.
	UnknownAlias
	// UnknownThesis: a reference names an id that is not stored.
	UnknownThesis
	// UnsupportedKind: a relation kind is not in the configured set.
	UnsupportedKind
	// DanglingReference: a relation's from/to endpoint is not stored.
	DanglingReference
	// Duplicate: insertion of an id that already exists.
	Duplicate
	// AliasInUse: alias conflict on set_alias or insert.
	AliasInUse
	// EncodingFailure: canonical binary encoding failed (should not occur).
	EncodingFailure
	// ChestError: propagated from the underlying chest.
	ChestError
)

func (k Kind) String() string {
	switch k {
	case InvalidSyntax:
		return "InvalidSyntax"
	case InvalidCommand:
		return "InvalidCommand"
	case UnknownAlias:
		return "UnknownAlias"
	case UnknownThesis:
		return "UnknownThesis"
	case UnsupportedKind:
		return "UnsupportedKind"
	case DanglingReference:
		return "DanglingReference"
	case Duplicate:
		return "Duplicate"
	case AliasInUse:
		return "AliasInUse"
	case EncodingFailure:
		return "EncodingFailure"
	case ChestError:
		return "ChestError"
	default:
		return "Unknown"
	}
}

// Error is the concrete error type returned across package boundaries.
// It carries a Kind for programmatic matching (via errors.As) plus a
// human message built with enough context to identify the offending
// thesis or command, and wraps an optional underlying cause.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// New builds an Error of the given kind with a formatted message.
func New(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap builds an Error of the given kind, wrapping cause and annotating
// it with a formatted message in the pkg/errors.Wrapf style, but
// carrying a structured Kind alongside the text.
func Wrap(cause error, kind Kind, format string, args ...any) error {
	if cause == nil {
		return New(kind, format, args...)
	}
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// Is reports whether err is a *Error of the given kind, unwrapping
// through any wrapping chain (pkg/errors or stdlib).
func Is(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}
