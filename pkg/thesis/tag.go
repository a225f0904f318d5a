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

// Tag is a word-character label attached to a thesis. A thesis carries a
// deduplicated set of tags (R4).
type Tag string

var tagRegex = regexp.MustCompile(`^\w+$`)

// Validate reports whether t is a syntactically valid tag.
func (t Tag) Validate() error {
	if !tagRegex.MatchString(string(t)) {
		return thesiserr.New(thesiserr.InvalidSyntax,
			"tag must be a word-character sequence, %q is not", string(t))
	}
	return nil
}

// Tags is a set of Tag, preserving first-seen order; Add is idempotent.
type Tags []Tag

// Add appends tag if not already present, returning whether it was added.
func (t *Tags) Add(tag Tag) bool {
	for _, existing := range *t {
		if existing == tag {
			return false
		}
	}
	*t = append(*t, tag)
	return true
}

// Remove deletes the first occurrence of tag, reporting whether one was found.
func (t *Tags) Remove(tag Tag) bool {
	for i, existing := range *t {
		if existing == tag {
			*t = append((*t)[:i], (*t)[i+1:]...)
			return true
		}
	}
	return false
}

// Contains reports whether tag is present.
func (t Tags) Contains(tag Tag) bool {
	for _, existing := range t {
		if existing == tag {
			return true
		}
	}
	return false
}
