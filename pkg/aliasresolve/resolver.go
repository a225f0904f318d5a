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

// Package aliasresolve implements the aliases resolver: a
// bundle of a read view over the store and an in-memory map of aliases
// introduced earlier in the current batch, used while parsing the
// command DSL and inline text references.
package aliasresolve

import (
	"github.com/mentalblood0/thesis/pkg/objectid"
	"github.com/mentalblood0/thesis/pkg/thesis"
	"github.com/mentalblood0/thesis/pkg/thesiserr"
)

// ReadView is the narrow slice of a read transaction the resolver
// depends on. Defined here, rather than imported from pkg/thesisstore,
// so that package never needs to import the store back.
type ReadView interface {
	GetThesisIDByAlias(alias thesis.Alias) (objectid.ObjectId, bool, error)
	ThesisExists(id objectid.ObjectId) (bool, error)
}

// Resolver bundles a read view with aliases bound earlier in the current
// batch; in-batch bindings take precedence over store state.
type Resolver struct {
	View          ReadView
	knownAliases map[thesis.Alias]objectid.ObjectId
}

// New builds a Resolver reading through view.
func New(view ReadView) *Resolver {
	return &Resolver{View: view, knownAliases: make(map[thesis.Alias]objectid.ObjectId)}
}

// Resolve implements thesis.Resolver.
func (r *Resolver) Resolve(ref thesis.Reference) (objectid.ObjectId, error) {
	if ref.IsID {
		exists, err := r.View.ThesisExists(ref.ID)
		if err != nil {
			return objectid.ObjectId{}, thesiserr.Wrap(err, thesiserr.ChestError,
				"checking existence of thesis %s", ref.ID)
		}
		if !exists {
			return objectid.ObjectId{}, thesiserr.New(thesiserr.UnknownThesis,
				"can not find thesis with id %s", ref.ID)
		}
		return ref.ID, nil
	}

	if id, ok := r.knownAliases[ref.Alias]; ok {
		return id, nil
	}
	id, ok, err := r.View.GetThesisIDByAlias(ref.Alias)
	if err != nil {
		return objectid.ObjectId{}, thesiserr.Wrap(err, thesiserr.ChestError,
			"looking up alias %q", string(ref.Alias))
	}
	if !ok {
		return objectid.ObjectId{}, thesiserr.New(thesiserr.UnknownAlias,
			"can not find thesis id by alias %q", string(ref.Alias))
	}
	return id, nil
}

// Remember records an in-batch binding, taking precedence over store
// state for the remainder of the batch.
func (r *Resolver) Remember(alias thesis.Alias, id objectid.ObjectId) {
	r.knownAliases[alias] = id
}
