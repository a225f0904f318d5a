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

import (
	"github.com/mentalblood0/thesis/pkg/objectid"
)

// Reference is either a symbolic Alias or a raw ObjectId, as written by a
// user in the command DSL or inside text. Exactly one of Alias/ID is set;
// IsID reports which.
type Reference struct {
	ID    objectid.ObjectId
	Alias Alias
	IsID  bool
}

// ParseReference classifies a bare token (not bracketed, not prefixed)
// as an id or an alias. Every valid alias is non-whitespace, the same
// shape as many other strings, so the distinguishing signal used here
// is the 22-character base64url id shape, checked first.
func ParseReference(token string) (Reference, error) {
	if objectid.LooksLikeID(token) {
		id, err := objectid.Parse(token)
		if err == nil {
			return Reference{ID: id, IsID: true}, nil
		}
	}
	alias := Alias(token)
	if err := alias.Validate(); err != nil {
		return Reference{}, err
	}
	return Reference{Alias: alias}, nil
}

func (r Reference) String() string {
	if r.IsID {
		return r.ID.String()
	}
	return string(r.Alias)
}

// Resolver resolves a Reference to a concrete ObjectId.
// ParseText depends only on this narrow interface so the text package
// never imports the store or the resolver implementation.
type Resolver interface {
	Resolve(ref Reference) (objectid.ObjectId, error)
}
