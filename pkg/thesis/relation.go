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

package thesis

import "github.com/mentalblood0/thesis/pkg/objectid"

// Relation is a typed binary edge between two theses. Kind
// membership in a configured supported set is checked at insertion time
// (pkg/thesisstore), not here.
type Relation struct {
	From objectid.ObjectId `json:"from"`
	To   objectid.ObjectId `json:"to"`
	Kind RelationKind      `json:"kind"`
}

// Validate checks the relation's own syntactic invariants.
func (r Relation) Validate() error {
	return r.Kind.Validate()
}
