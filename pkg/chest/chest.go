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

// Package chest declares the abstract transactional object chest the
// core depends on: a document store with path-addressed
// field access and secondary indexes over field values. The concrete
// realization lives in internal/chestkv, backed by go.etcd.io/bbolt.
package chest

import (
	"encoding/json"

	"github.com/mentalblood0/thesis/pkg/objectid"
)

// Path addresses a field inside a stored document, e.g. Path{"content",
// "Relation", "from"}. An empty Path addresses the whole object.
type Path []string

// PathSegments builds a Path from its segments.
func PathSegments(segments ...string) Path {
	return Path(segments)
}

// IndexKind distinguishes equality lookup over a scalar field (Direct)
// from membership lookup over an array field (Array).
type IndexKind int

const (
	Direct IndexKind = iota
	Array
)

// MatchClause is one term of a Select query: it matches an object
// where the field at Path equals (Direct) or contains (Array) Value. Select results are the intersection of all clauses.
type MatchClause struct {
	Kind  IndexKind
	Path  Path
	Value any
}

// Object is a stored document as returned by Objects().
type Object struct {
	ID    objectid.ObjectId
	Value json.RawMessage
}

// ObjectIDIter lazily yields matching object ids, surfacing errors
// alongside each step rather than panicking or buffering everything
// eagerly, the same Next/error shape database/sql.Rows uses.
type ObjectIDIter interface {
	// Next advances the iterator. ok is false once exhausted; err stops
	// iteration immediately.
	Next() (id objectid.ObjectId, ok bool, err error)
}

// ObjectIter lazily yields stored objects, in the chest's own order.
type ObjectIter interface {
	Next() (obj Object, ok bool, err error)
}

// Tx is a read-only, snapshot-consistent transaction over the chest.
type Tx interface {
	Get(id objectid.ObjectId, path Path) (json.RawMessage, bool, error)
	ContainsObjectWithID(id objectid.ObjectId) (bool, error)
	ContainsElement(id objectid.ObjectId, path Path, value any) (bool, error)
	GetElementIndex(id objectid.ObjectId, path Path, value any) (int, bool, error)
	Select(clauses []MatchClause) (ObjectIDIter, error)
	Objects() (ObjectIter, error)
}

// RwTx is a single, exclusive read-write transaction over the chest. It
// embeds Tx: read-your-writes within the same transaction.
type RwTx interface {
	Tx
	InsertWithID(id objectid.ObjectId, value json.RawMessage) error
	Push(id objectid.ObjectId, path Path, value any) error
	Update(id objectid.ObjectId, path Path, value any) error
	// Remove deletes the whole object when path is empty, otherwise the
	// field or array element it addresses.
	Remove(id objectid.ObjectId, path Path) error
}

// Chest is the lifecycle surface: scoped acquisition of a write or read
// transaction with guaranteed release on all exit paths, including a
// panicking scope.
type Chest interface {
	LockAllAndWrite(scope func(RwTx) error) error
	LockAllWritesAndRead(scope func(Tx) error) error
	Close() error
}
