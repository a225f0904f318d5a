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
	"regexp"

	"github.com/mentalblood0/thesis/pkg/thesiserr"
)

// RelationKind names the type of a binary relation between two theses.
// Must also belong to the configured supported set, checked at insertion
// time (see pkg/thesisstore), not here. Syntactically any sequence of
// word characters and whitespace is accepted, not restricted to English
// letters only.
type RelationKind string

var relationKindRegex = regexp.MustCompile(`^[\w\s]+$`)

// Validate reports whether k is a syntactically valid relation kind,
// independent of whether it is in any particular supported set.
func (k RelationKind) Validate() error {
	if !relationKindRegex.MatchString(string(k)) {
		return thesiserr.New(thesiserr.InvalidSyntax,
			"relation kind must be a word-and-whitespace sequence, %q is not", string(k))
	}
	return nil
}
