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

package command_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mentalblood0/thesis/pkg/aliasresolve"
	"github.com/mentalblood0/thesis/pkg/command"
	"github.com/mentalblood0/thesis/pkg/objectid"
	"github.com/mentalblood0/thesis/pkg/thesis"
)

// emptyView is a ReadView with nothing stored: every batch in these
// tests is self-contained, resolving only aliases it itself introduces.
type emptyView struct{}

func (emptyView) GetThesisIDByAlias(thesis.Alias) (objectid.ObjectId, bool, error) {
	return objectid.ObjectId{}, false, nil
}

func (emptyView) ThesisExists(objectid.ObjectId) (bool, error) {
	return false, nil
}

func newResolver() *aliasresolve.Resolver {
	return aliasresolve.New(emptyView{})
}

func TestParseAddTextThesis(t *testing.T) {
	commands, err := command.Parse("+ premise\nAll models are wrong.", newResolver())
	require.NoError(t, err)
	require.Len(t, commands, 1)

	add, ok := commands[0].(command.AddThesis)
	require.True(t, ok)
	require.NotNil(t, add.Thesis.Alias)
	assert.Equal(t, thesis.Alias("premise"), *add.Thesis.Alias)
	assert.NotNil(t, add.Thesis.Content.Text)
}

func TestParseAddRelationReferencingEarlierAlias(t *testing.T) {
	input := "+ premise\nAll models are wrong.\n\n+ conclusion\nSome models are useful.\n\n+\npremise\nsupports\nconclusion"
	commands, err := command.Parse(input, newResolver())
	require.NoError(t, err)
	require.Len(t, commands, 3)

	relationCmd, ok := commands[2].(command.AddThesis)
	require.True(t, ok)
	require.NotNil(t, relationCmd.Thesis.Content.Relation)
	assert.Equal(t, thesis.RelationKind("supports"), relationCmd.Thesis.Content.Relation.Kind)
}

func TestParseRemoveThesis(t *testing.T) {
	input := "+ premise\nAll models are wrong.\n\n-\npremise"
	commands, err := command.Parse(input, newResolver())
	require.NoError(t, err)
	require.Len(t, commands, 2)
	_, ok := commands[1].(command.RemoveThesis)
	assert.True(t, ok)
}

func TestParseAddAndRemoveTags(t *testing.T) {
	input := "+ premise\nAll models are wrong.\n\n#\npremise\nstatistics\nmodeling\n\n^\npremise\nstatistics"
	commands, err := command.Parse(input, newResolver())
	require.NoError(t, err)
	require.Len(t, commands, 3)

	addTags, ok := commands[1].(command.AddTags)
	require.True(t, ok)
	assert.Equal(t, []thesis.Tag{"statistics", "modeling"}, addTags.Tags)

	removeTags, ok := commands[2].(command.RemoveTags)
	require.True(t, ok)
	assert.Equal(t, []thesis.Tag{"statistics"}, removeTags.Tags)
}

func TestParseSetAlias(t *testing.T) {
	input := "+ premise\nAll models are wrong.\n\n@ renamed\npremise"
	commands, err := command.Parse(input, newResolver())
	require.NoError(t, err)
	require.Len(t, commands, 2)

	setAlias, ok := commands[1].(command.SetAlias)
	require.True(t, ok)
	assert.Equal(t, thesis.Alias("renamed"), setAlias.Alias)
}

func TestParseFailsFastOnMalformedParagraph(t *testing.T) {
	input := "+ premise\nAll models are wrong.\n\n!!! not a valid op\nsecond line"
	_, err := command.Parse(input, newResolver())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "paragraph 2")
}

func TestParseRejectsUnresolvedAlias(t *testing.T) {
	_, err := command.Parse("-\ndoes-not-exist", newResolver())
	assert.Error(t, err)
}
