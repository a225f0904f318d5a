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

// Thesis composes an optional alias, immutable content, and a mutable
// tag set. Its id is the content's id: alias and tags never
// participate in identity (invariant I1).
type Thesis struct {
	Alias   *Alias   `json:"alias"`
	Content Content  `json:"content"`
	Tags    Tags     `json:"tags"`
}

// New builds a Thesis from content, an optional alias, and a starting
// tag set.
func New(content Content, alias *Alias, tags Tags) Thesis {
	return Thesis{Alias: alias, Content: content, Tags: tags}
}

// ID delegates to the content's id (invariant I1).
func (t Thesis) ID() (objectid.ObjectId, error) {
	return ContentID(t.Content)
}

// References returns the thesis's outgoing references.
func (t Thesis) References() []objectid.ObjectId {
	return t.Content.References()
}

// Validate checks the alias (if any), the content, and every tag.
func (t Thesis) Validate() error {
	if t.Alias != nil {
		if err := t.Alias.Validate(); err != nil {
			return err
		}
	}
	if err := t.Content.Validate(); err != nil {
		return err
	}
	for _, tag := range t.Tags {
		if err := tag.Validate(); err != nil {
			return err
		}
	}
	return nil
}
