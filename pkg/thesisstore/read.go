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

// Package thesisstore implements the transactional read/write engine
// and the store façade over an abstract chest.
package thesisstore

import (
	"encoding/json"

	"github.com/mentalblood0/thesis/pkg/chest"
	"github.com/mentalblood0/thesis/pkg/objectid"
	"github.com/mentalblood0/thesis/pkg/thesis"
	"github.com/mentalblood0/thesis/pkg/thesiserr"
)

// ReadTx is a snapshot-consistent, non-mutating transaction.
type ReadTx struct {
	tx chest.Tx
}

// GetThesis looks up a thesis by id.
func (r *ReadTx) GetThesis(id objectid.ObjectId) (*thesis.Thesis, bool, error) {
	return getThesis(r.tx, id)
}

// GetThesisIDByAlias resolves an alias to its thesis id; at most one by R3.
func (r *ReadTx) GetThesisIDByAlias(alias thesis.Alias) (objectid.ObjectId, bool, error) {
	return getThesisIDByAlias(r.tx, alias)
}

// GetAliasByThesisID returns the alias of a thesis, if it has one.
func (r *ReadTx) GetAliasByThesisID(id objectid.ObjectId) (*thesis.Alias, bool, error) {
	return getAliasByThesisID(r.tx, id)
}

// WhereReferenced returns the ids of every thesis that references id, via
// Text.references or via Relation.from/to.
func (r *ReadTx) WhereReferenced(id objectid.ObjectId) ([]objectid.ObjectId, error) {
	return whereReferenced(r.tx, id)
}

// ThesisExists reports whether id names a stored thesis.
func (r *ReadTx) ThesisExists(id objectid.ObjectId) (bool, error) {
	return r.tx.ContainsObjectWithID(id)
}

// IterTheses enumerates every stored thesis, in the chest's own order.
func (r *ReadTx) IterTheses() (*ThesisIter, error) {
	return iterTheses(r.tx)
}

// ThesisIter lazily decodes stored documents into Thesis values.
type ThesisIter struct {
	inner chest.ObjectIter
}

// Next advances the iterator.
func (it *ThesisIter) Next() (objectid.ObjectId, thesis.Thesis, bool, error) {
	obj, ok, err := it.inner.Next()
	if err != nil || !ok {
		return objectid.ObjectId{}, thesis.Thesis{}, ok, err
	}
	var t thesis.Thesis
	if err := json.Unmarshal(obj.Value, &t); err != nil {
		return objectid.ObjectId{}, thesis.Thesis{}, false, thesiserr.Wrap(err, thesiserr.EncodingFailure,
			"decoding stored thesis %s", obj.ID)
	}
	return obj.ID, t, true, nil
}

func iterTheses(tx chest.Tx) (*ThesisIter, error) {
	inner, err := tx.Objects()
	if err != nil {
		return nil, thesiserr.Wrap(err, thesiserr.ChestError, "enumerating theses")
	}
	return &ThesisIter{inner: inner}, nil
}

func getThesis(tx chest.Tx, id objectid.ObjectId) (*thesis.Thesis, bool, error) {
	raw, found, err := tx.Get(id, chest.Path{})
	if err != nil {
		return nil, false, thesiserr.Wrap(err, thesiserr.ChestError, "reading thesis %s", id)
	}
	if !found {
		return nil, false, nil
	}
	var t thesis.Thesis
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, false, thesiserr.Wrap(err, thesiserr.EncodingFailure, "decoding thesis %s", id)
	}
	return &t, true, nil
}

func getThesisIDByAlias(tx chest.Tx, alias thesis.Alias) (objectid.ObjectId, bool, error) {
	iter, err := tx.Select([]chest.MatchClause{
		{Kind: chest.Direct, Path: chest.PathSegments("alias"), Value: string(alias)},
	})
	if err != nil {
		return objectid.ObjectId{}, false, thesiserr.Wrap(err, thesiserr.ChestError, "looking up alias %q", string(alias))
	}
	id, ok, err := iter.Next()
	if err != nil {
		return objectid.ObjectId{}, false, thesiserr.Wrap(err, thesiserr.ChestError, "looking up alias %q", string(alias))
	}
	return id, ok, nil
}

func getAliasByThesisID(tx chest.Tx, id objectid.ObjectId) (*thesis.Alias, bool, error) {
	raw, found, err := tx.Get(id, chest.PathSegments("alias"))
	if err != nil {
		return nil, false, thesiserr.Wrap(err, thesiserr.ChestError, "reading alias of %s", id)
	}
	if !found {
		return nil, false, nil
	}
	var alias *thesis.Alias
	if err := json.Unmarshal(raw, &alias); err != nil {
		return nil, false, thesiserr.Wrap(err, thesiserr.EncodingFailure, "decoding alias of %s", id)
	}
	if alias == nil {
		return nil, false, nil
	}
	return alias, true, nil
}

func whereReferenced(tx chest.Tx, id objectid.ObjectId) ([]objectid.ObjectId, error) {
	clauses := []chest.MatchClause{
		{Kind: chest.Array, Path: chest.PathSegments("content", "Text", "references"), Value: id},
	}
	textMentioners, err := collectSelect(tx, clauses)
	if err != nil {
		return nil, thesiserr.Wrap(err, thesiserr.ChestError, "finding text references to %s", id)
	}

	fromMentioners, err := collectSelect(tx, []chest.MatchClause{
		{Kind: chest.Direct, Path: chest.PathSegments("content", "Relation", "from"), Value: id},
	})
	if err != nil {
		return nil, thesiserr.Wrap(err, thesiserr.ChestError, "finding relations from %s", id)
	}

	toMentioners, err := collectSelect(tx, []chest.MatchClause{
		{Kind: chest.Direct, Path: chest.PathSegments("content", "Relation", "to"), Value: id},
	})
	if err != nil {
		return nil, thesiserr.Wrap(err, thesiserr.ChestError, "finding relations to %s", id)
	}

	return append(append(textMentioners, fromMentioners...), toMentioners...), nil
}

func collectSelect(tx chest.Tx, clauses []chest.MatchClause) ([]objectid.ObjectId, error) {
	iter, err := tx.Select(clauses)
	if err != nil {
		return nil, err
	}
	var result []objectid.ObjectId
	for {
		id, ok, err := iter.Next()
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		result = append(result, id)
	}
	return result, nil
}
