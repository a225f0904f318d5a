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

package objectid_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/mentalblood0/thesis/pkg/objectid"
)

func TestParseStringRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		raw := rapid.SliceOfN(rapid.Byte(), objectid.Size, objectid.Size).Draw(t, "digest")
		id, err := objectid.FromBytes(raw)
		require.NoError(t, err)

		text := id.String()
		assert.True(t, objectid.LooksLikeID(text))

		parsed, err := objectid.Parse(text)
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})
}

func TestFromBytesRejectsWrongLength(t *testing.T) {
	_, err := objectid.FromBytes([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestParseRejectsMalformedText(t *testing.T) {
	for _, bad := range []string{"", "short", "contains spaces here!!", "toolongtoolongtoolongtoolong"} {
		_, err := objectid.Parse(bad)
		assert.Errorf(t, err, "expected %q to be rejected", bad)
	}
}

func TestCompareOrdersBytewise(t *testing.T) {
	a, err := objectid.FromBytes(make([]byte, objectid.Size))
	require.NoError(t, err)
	bBytes := make([]byte, objectid.Size)
	bBytes[objectid.Size-1] = 1
	b, err := objectid.FromBytes(bBytes)
	require.NoError(t, err)

	assert.True(t, a.Less(b))
	assert.False(t, b.Less(a))
	assert.Equal(t, 0, a.Compare(a))
}

func TestMarshalUnmarshalText(t *testing.T) {
	raw := make([]byte, objectid.Size)
	for i := range raw {
		raw[i] = byte(i)
	}
	id, err := objectid.FromBytes(raw)
	require.NoError(t, err)

	text, err := id.MarshalText()
	require.NoError(t, err)

	var roundTripped objectid.ObjectId
	require.NoError(t, roundTripped.UnmarshalText(text))
	assert.Equal(t, id, roundTripped)
}
