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

// Package command implements the batched-edit DSL: a
// paragraph-oriented text format that parses into a sequence of
// validated Command values for a write transaction to execute.
package command

import (
	"github.com/mentalblood0/thesis/pkg/objectid"
	"github.com/mentalblood0/thesis/pkg/thesis"
)

// Command is the sealed union of operations the parser can produce. The
// concrete types below are the only implementations.
type Command interface {
	isCommand()
}

// AddThesis inserts a new thesis (text or relation content), optionally
// under alias.
type AddThesis struct {
	Thesis thesis.Thesis
}

// RemoveThesis removes the thesis named by ID, cascading per R5.
type RemoveThesis struct {
	ID objectid.ObjectId
}

// AddTags appends each tag to ID's tag set, idempotently.
type AddTags struct {
	ID   objectid.ObjectId
	Tags []thesis.Tag
}

// RemoveTags removes each tag from ID's tag set, if present.
type RemoveTags struct {
	ID   objectid.ObjectId
	Tags []thesis.Tag
}

// SetAlias renames ID's alias to Alias.
type SetAlias struct {
	ID    objectid.ObjectId
	Alias thesis.Alias
}

func (AddThesis) isCommand()    {}
func (RemoveThesis) isCommand() {}
func (AddTags) isCommand()      {}
func (RemoveTags) isCommand()   {}
func (SetAlias) isCommand()     {}
