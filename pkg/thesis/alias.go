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

// Alias is a non-empty, whitespace-free string naming a thesis. Unique
// across live theses (R3).
type Alias string

var aliasRegex = regexp.MustCompile(`^\S+$`)

// Validate reports whether a is a syntactically valid alias.
func (a Alias) Validate() error {
	if !aliasRegex.MatchString(string(a)) {
		return thesiserr.New(thesiserr.InvalidSyntax,
			"alias must be one or more non-whitespace characters, %q is not", string(a))
	}
	return nil
}
