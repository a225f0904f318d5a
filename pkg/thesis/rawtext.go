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
	"strings"

	"github.com/mentalblood0/thesis/pkg/thesiserr"
)

// RawText is one span of plain text between (or around) inline
// references inside a Text. It never contains reference brackets.
//
// Mixed-script parts are allowed: Cyrillic and Latin
// letters may mix freely within one part; only whitespace-only or empty
// parts are rejected (the regex below excludes empty parts since it
// requires one or more characters; Validate rejects whitespace-only ones).
type RawText string

var rawTextRegex = regexp.MustCompile(`^[0-9\p{Cyrillic}\p{Latin}\s,\-:.'"]+$`)

// Validate reports whether r is a syntactically valid raw text span.
func (r RawText) Validate() error {
	if !rawTextRegex.MatchString(string(r)) {
		return thesiserr.New(thesiserr.InvalidSyntax,
			"text part must be letters, digits, whitespace and , - : . ' \" punctuation, %q is not", string(r))
	}
	if strings.TrimSpace(string(r)) == "" {
		return thesiserr.New(thesiserr.InvalidSyntax,
			"text part must not be whitespace only, %q is", string(r))
	}
	return nil
}
