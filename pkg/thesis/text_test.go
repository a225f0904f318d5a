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

	"github.com/mentalblood0/thesis/pkg/objectid"
	"github.com/mentalblood0/thesis/pkg/thesis"
)

// stubResolver resolves aliases from a fixed map (failing for any alias
// not in it) and passes ids through unchecked, for tests that only care
// about the text tokenizer, not real alias resolution.
type stubResolver struct {
	ids map[string]objectid.ObjectId
}

func (s stubResolver) Resolve(ref thesis.Reference) (objectid.ObjectId, error) {
	if ref.IsID {
		return ref.ID, nil
	}
	id, ok := s.ids[string(ref.Alias)]
	if !ok {
		return objectid.ObjectId{}, assert.AnError
	}
	return id, nil
}

func someID(b byte) objectid.ObjectId {
	var id objectid.ObjectId
	id[0] = b
	return id
}

func TestParseTextPlainNoReferences(t *testing.T) {
	resolver := stubResolver{ids: map[string]objectid.ObjectId{}}
	text, err := thesis.ParseText("just plain text", resolver)
	require.NoError(t, err)
	assert.Equal(t, "just plain text", text.Compose())
	assert.False(t, text.StartWithReference)
}

func TestParseTextWithMidReference(t *testing.T) {
	target := someID(7)
	resolver := stubResolver{ids: map[string]objectid.ObjectId{"premise": target}}
	text, err := thesis.ParseText("before [premise] after", resolver)
	require.NoError(t, err)

	assert.Equal(t, []objectid.ObjectId{target}, text.References)
	assert.False(t, text.StartWithReference)
	assert.Equal(t, "before ["+target.String()+"] after", text.Compose())
}

func TestParseTextStartingWithReference(t *testing.T) {
	target := someID(9)
	resolver := stubResolver{ids: map[string]objectid.ObjectId{"premise": target}}
	text, err := thesis.ParseText("[premise] follows from this", resolver)
	require.NoError(t, err)

	assert.True(t, text.StartWithReference)
	assert.Equal(t, "["+target.String()+"] follows from this", text.Compose())
}

func TestParseTextRejectsUnresolvableReference(t *testing.T) {
	resolver := stubResolver{ids: map[string]objectid.ObjectId{}}
	_, err := thesis.ParseText("see [missing] for details", resolver)
	assert.Error(t, err)
}

func TestParseTextByRawIDReference(t *testing.T) {
	target := someID(3)
	resolver := stubResolver{ids: map[string]objectid.ObjectId{}}
	text, err := thesis.ParseText("refer to ["+target.String()+"] directly", resolver)
	require.NoError(t, err)
	assert.Equal(t, []objectid.ObjectId{target}, text.References)
}
