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

package thesis_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/mentalblood0/thesis/pkg/objectid"
	"github.com/mentalblood0/thesis/pkg/thesis"
)

func textContent(raw string) thesis.Content {
	return thesis.NewTextContent(thesis.Text{RawTextParts: []thesis.RawText{thesis.RawText(raw)}})
}

func TestContentIDIsDeterministic(t *testing.T) {
	c := textContent("hello world")
	id1, err := thesis.ContentID(c)
	require.NoError(t, err)
	id2, err := thesis.ContentID(c)
	require.NoError(t, err)
	assert.Equal(t, id1, id2)
}

func TestContentIDDiffersForDifferentContent(t *testing.T) {
	id1, err := thesis.ContentID(textContent("hello world"))
	require.NoError(t, err)
	id2, err := thesis.ContentID(textContent("goodbye world"))
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestContentIDIgnoresAliasAndTags(t *testing.T) {
	content := textContent("stable identity")
	alias := thesis.Alias("an-alias")

	withoutAlias := thesis.New(content, nil, nil)
	withAlias := thesis.New(content, &alias, thesis.Tags{"tag1", "tag2"})

	idWithout, err := withoutAlias.ID()
	require.NoError(t, err)
	idWith, err := withAlias.ID()
	require.NoError(t, err)

	assert.Equal(t, idWithout, idWith)
}

func TestContentIDDeterministicProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.StringMatching(`[0-9A-Za-z ]{1,40}`).Draw(t, "raw")
		content := textContent(raw)

		id1, err := thesis.ContentID(content)
		require.NoError(t, err)
		id2, err := thesis.ContentID(content)
		require.NoError(t, err)

		assert.Equal(t, id1, id2)
	})
}

func TestContentValidateRejectsNeitherVariant(t *testing.T) {
	var c thesis.Content
	assert.Error(t, c.Validate())
}

func TestContentValidateRejectsBothVariants(t *testing.T) {
	c := thesis.Content{
		Text:     &thesis.Text{RawTextParts: []thesis.RawText{"x"}},
		Relation: &thesis.Relation{Kind: "supports"},
	}
	assert.Error(t, c.Validate())
}

func TestRelationReferencesAreFromAndTo(t *testing.T) {
	var from, to objectid.ObjectId
	to[0] = 1
	c := thesis.NewRelationContent(thesis.Relation{From: from, To: to, Kind: "supports"})
	assert.Equal(t, []objectid.ObjectId{from, to}, c.References())
}
