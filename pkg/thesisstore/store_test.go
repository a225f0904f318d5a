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

package thesisstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/mentalblood0/thesis/internal/chestkv"
	"github.com/mentalblood0/thesis/pkg/objectid"
	"github.com/mentalblood0/thesis/pkg/thesis"
	"github.com/mentalblood0/thesis/pkg/thesiserr"
	"github.com/mentalblood0/thesis/pkg/thesisstore"
)

func newTestStore(t *testing.T) *thesisstore.Store {
	t.Helper()
	db, err := chestkv.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return thesisstore.New(db, thesisstore.WithSupportedKinds([]thesis.RelationKind{"supports", "contradicts"}))
}

func TestInsertAndGetThesisRoundTrip(t *testing.T) {
	store := newTestStore(t)
	alias := thesis.Alias("premise")
	t1 := thesis.New(thesis.NewTextContent(thesis.Text{RawTextParts: []thesis.RawText{"All models are wrong."}}), &alias, nil)

	var insertedID = mustInsert(t, store, t1)

	var fetched thesis.Thesis
	require.NoError(t, store.WithRead(func(r *thesisstore.ReadTx) error {
		got, found, err := r.GetThesis(insertedID)
		require.NoError(t, err)
		require.True(t, found)
		fetched = *got
		return nil
	}))
	require.NotNil(t, fetched.Alias)
	require.Equal(t, alias, *fetched.Alias)
}

func TestGetThesisIDByAlias(t *testing.T) {
	store := newTestStore(t)
	alias := thesis.Alias("premise")
	t1 := thesis.New(thesis.NewTextContent(thesis.Text{RawTextParts: []thesis.RawText{"text body"}}), &alias, nil)
	id := mustInsert(t, store, t1)

	require.NoError(t, store.WithRead(func(r *thesisstore.ReadTx) error {
		found, ok, err := r.GetThesisIDByAlias(alias)
		require.NoError(t, err)
		require.True(t, ok)
		require.Equal(t, id, found)
		return nil
	}))
}

func TestDuplicateAliasRejected(t *testing.T) {
	store := newTestStore(t)
	alias := thesis.Alias("premise")
	t1 := thesis.New(thesis.NewTextContent(thesis.Text{RawTextParts: []thesis.RawText{"one"}}), &alias, nil)
	t2 := thesis.New(thesis.NewTextContent(thesis.Text{RawTextParts: []thesis.RawText{"two"}}), &alias, nil)

	mustInsert(t, store, t1)

	err := store.WithWrite(func(w *thesisstore.WriteTx) error {
		_, err := w.InsertThesis(t2)
		return err
	})
	require.Error(t, err)
}

func TestTagAndUntagAreIdempotent(t *testing.T) {
	store := newTestStore(t)
	t1 := thesis.New(thesis.NewTextContent(thesis.Text{RawTextParts: []thesis.RawText{"tagged thesis"}}), nil, nil)
	id := mustInsert(t, store, t1)

	require.NoError(t, store.WithWrite(func(w *thesisstore.WriteTx) error {
		require.NoError(t, w.TagThesis(id, "statistics"))
		require.NoError(t, w.TagThesis(id, "statistics"))
		return nil
	}))

	require.NoError(t, store.WithRead(func(r *thesisstore.ReadTx) error {
		got, found, err := r.GetThesis(id)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, thesis.Tags{"statistics"}, got.Tags)
		return nil
	}))

	require.NoError(t, store.WithWrite(func(w *thesisstore.WriteTx) error {
		require.NoError(t, w.UntagThesis(id, "statistics"))
		require.NoError(t, w.UntagThesis(id, "statistics"))
		return nil
	}))

	require.NoError(t, store.WithRead(func(r *thesisstore.ReadTx) error {
		got, found, err := r.GetThesis(id)
		require.NoError(t, err)
		require.True(t, found)
		require.Empty(t, got.Tags)
		return nil
	}))
}

func TestRelationRequiresSupportedKindAndExistingEndpoints(t *testing.T) {
	store := newTestStore(t)
	t1 := thesis.New(thesis.NewTextContent(thesis.Text{RawTextParts: []thesis.RawText{"a"}}), nil, nil)
	t2 := thesis.New(thesis.NewTextContent(thesis.Text{RawTextParts: []thesis.RawText{"b"}}), nil, nil)
	id1 := mustInsert(t, store, t1)
	id2 := mustInsert(t, store, t2)

	relation := thesis.New(thesis.NewRelationContent(thesis.Relation{From: id1, To: id2, Kind: "unsupported_kind"}), nil, nil)
	err := store.WithWrite(func(w *thesisstore.WriteTx) error {
		_, err := w.InsertThesis(relation)
		return err
	})
	require.Error(t, err)
	require.True(t, thesiserr.Is(err, thesiserr.UnsupportedKind))

	var missing objectid.ObjectId
	missing[0] = 0xff
	dangling := thesis.New(thesis.NewRelationContent(thesis.Relation{From: id1, To: missing, Kind: "supports"}), nil, nil)
	err = store.WithWrite(func(w *thesisstore.WriteTx) error {
		_, err := w.InsertThesis(dangling)
		return err
	})
	require.Error(t, err)
	require.True(t, thesiserr.Is(err, thesiserr.DanglingReference))

	relation.Content.Relation.Kind = "supports"
	_ = mustInsert(t, store, relation)
}

func TestRemoveThesisCascadesToReferencingText(t *testing.T) {
	store := newTestStore(t)

	aliasA := thesis.Alias("a")
	aliasB := thesis.Alias("b")
	a := thesis.New(thesis.NewTextContent(thesis.Text{RawTextParts: []thesis.RawText{"alpha"}}), &aliasA, nil)
	idA := mustInsert(t, store, a)

	b := thesis.New(thesis.NewTextContent(thesis.Text{
		RawTextParts:       []thesis.RawText{" refers back"},
		References:         []objectid.ObjectId{idA},
		StartWithReference: true,
	}), &aliasB, nil)
	idB := mustInsert(t, store, b)

	require.NoError(t, store.WithWrite(func(w *thesisstore.WriteTx) error {
		return w.RemoveThesis(idA)
	}))

	require.NoError(t, store.WithRead(func(r *thesisstore.ReadTx) error {
		_, foundA, err := r.GetThesis(idA)
		require.NoError(t, err)
		require.False(t, foundA)
		_, foundB, err := r.GetThesis(idB)
		require.NoError(t, err)
		require.False(t, foundB)
		return nil
	}))
}

func TestRemoveThesisRelationRemovalIsNonRecursive(t *testing.T) {
	store := newTestStore(t)

	aliasA := thesis.Alias("a")
	aliasB := thesis.Alias("b")
	a := thesis.New(thesis.NewTextContent(thesis.Text{RawTextParts: []thesis.RawText{"alpha"}}), &aliasA, nil)
	idA := mustInsert(t, store, a)
	b := thesis.New(thesis.NewTextContent(thesis.Text{RawTextParts: []thesis.RawText{"beta"}}), &aliasB, nil)
	idB := mustInsert(t, store, b)

	relation := thesis.New(thesis.NewRelationContent(thesis.Relation{From: idA, To: idB, Kind: "supports"}), nil, nil)
	idR := mustInsert(t, store, relation)

	m := thesis.New(thesis.NewTextContent(thesis.Text{
		RawTextParts:       []thesis.RawText{" mentions the relation"},
		References:         []objectid.ObjectId{idR},
		StartWithReference: true,
	}), nil, nil)
	idM := mustInsert(t, store, m)

	require.NoError(t, store.WithWrite(func(w *thesisstore.WriteTx) error {
		return w.RemoveThesis(idA)
	}))

	require.NoError(t, store.WithRead(func(r *thesisstore.ReadTx) error {
		_, foundA, err := r.GetThesis(idA)
		require.NoError(t, err)
		require.False(t, foundA, "removed thesis should be gone")

		_, foundR, err := r.GetThesis(idR)
		require.NoError(t, err)
		require.False(t, foundR, "relation touching the removed thesis should be gone")

		_, foundB, err := r.GetThesis(idB)
		require.NoError(t, err)
		require.True(t, foundB, "the relation's other endpoint never referenced the removed thesis and must survive")

		_, foundM, err := r.GetThesis(idM)
		require.NoError(t, err)
		require.True(t, foundM, "relation removal is non-recursive: nothing cascades from the relation's own id")
		return nil
	}))
}

func TestSetAliasRenamesWithoutChangingID(t *testing.T) {
	store := newTestStore(t)
	alias := thesis.Alias("old")
	t1 := thesis.New(thesis.NewTextContent(thesis.Text{RawTextParts: []thesis.RawText{"renameable"}}), &alias, nil)
	id := mustInsert(t, store, t1)

	require.NoError(t, store.WithWrite(func(w *thesisstore.WriteTx) error {
		return w.SetAlias(id, "new")
	}))

	require.NoError(t, store.WithRead(func(r *thesisstore.ReadTx) error {
		_, foundOld, err := r.GetThesisIDByAlias("old")
		require.NoError(t, err)
		require.False(t, foundOld)

		gotID, foundNew, err := r.GetThesisIDByAlias("new")
		require.NoError(t, err)
		require.True(t, foundNew)
		require.Equal(t, id, gotID)

		got, found, err := r.GetThesis(id)
		require.NoError(t, err)
		require.True(t, found)
		require.Equal(t, thesis.Alias("new"), *got.Alias)
		return nil
	}))
}

func mustInsert(t *testing.T, store *thesisstore.Store, th thesis.Thesis) objectid.ObjectId {
	t.Helper()
	var id objectid.ObjectId
	require.NoError(t, store.WithWrite(func(w *thesisstore.WriteTx) error {
		inserted, err := w.InsertThesis(th)
		require.NoError(t, err)
		id = inserted
		return nil
	}))
	return id
}
