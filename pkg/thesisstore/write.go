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

package thesisstore

import (
	"encoding/json"
	"strconv"

	jsoniter "github.com/json-iterator/go"
	"go.uber.org/zap"

	"github.com/mentalblood0/thesis/pkg/aliasresolve"
	"github.com/mentalblood0/thesis/pkg/chest"
	"github.com/mentalblood0/thesis/pkg/command"
	"github.com/mentalblood0/thesis/pkg/objectid"
	"github.com/mentalblood0/thesis/pkg/thesis"
	"github.com/mentalblood0/thesis/pkg/thesiserr"
)

var writeJSON = jsoniter.ConfigCompatibleWithStandardLibrary

// WriteTx is the single exclusive write transaction over the chest
// WriteTx is the single exclusive write transaction over the chest.
// All of its operations read-your-writes within the same
// transaction.
type WriteTx struct {
	tx             chest.RwTx
	supportedKinds map[thesis.RelationKind]struct{}
	logger         *zap.Logger
}

// GetThesis, GetThesisIDByAlias, GetAliasByThesisID, WhereReferenced, and
// ThesisExists are the read-side of a write transaction.

func (w *WriteTx) GetThesis(id objectid.ObjectId) (*thesis.Thesis, bool, error) {
	return getThesis(w.tx, id)
}

func (w *WriteTx) GetThesisIDByAlias(alias thesis.Alias) (objectid.ObjectId, bool, error) {
	return getThesisIDByAlias(w.tx, alias)
}

func (w *WriteTx) GetAliasByThesisID(id objectid.ObjectId) (*thesis.Alias, bool, error) {
	return getAliasByThesisID(w.tx, id)
}

func (w *WriteTx) WhereReferenced(id objectid.ObjectId) ([]objectid.ObjectId, error) {
	return whereReferenced(w.tx, id)
}

func (w *WriteTx) ThesisExists(id objectid.ObjectId) (bool, error) {
	return w.tx.ContainsObjectWithID(id)
}

// Resolver returns an aliases resolver reading through this transaction,
// for use while parsing a batch of commands.
func (w *WriteTx) Resolver() *aliasresolve.Resolver {
	return aliasresolve.New(w)
}

// InsertThesis stores t, after checking referential integrity for a
// Relation. Fails Duplicate if the id already exists.
func (w *WriteTx) InsertThesis(t thesis.Thesis) (objectid.ObjectId, error) {
	if err := t.Validate(); err != nil {
		return objectid.ObjectId{}, err
	}
	id, err := t.ID()
	if err != nil {
		return objectid.ObjectId{}, thesiserr.Wrap(err, thesiserr.EncodingFailure, "computing thesis id")
	}

	exists, err := w.tx.ContainsObjectWithID(id)
	if err != nil {
		return objectid.ObjectId{}, thesiserr.Wrap(err, thesiserr.ChestError, "checking for existing thesis %s", id)
	}
	if exists {
		return objectid.ObjectId{}, thesiserr.New(thesiserr.Duplicate,
			"thesis %s already exists", id)
	}

	if t.Content.Relation != nil {
		relation := t.Content.Relation
		if _, ok := w.supportedKinds[relation.Kind]; !ok {
			return objectid.ObjectId{}, thesiserr.New(thesiserr.UnsupportedKind,
				"relation kind %q is not supported", string(relation.Kind))
		}
		for _, endpoint := range []objectid.ObjectId{relation.From, relation.To} {
			ok, err := w.tx.ContainsObjectWithID(endpoint)
			if err != nil {
				return objectid.ObjectId{}, thesiserr.Wrap(err, thesiserr.ChestError, "checking relation endpoint %s", endpoint)
			}
			if !ok {
				return objectid.ObjectId{}, thesiserr.New(thesiserr.DanglingReference,
					"relation endpoint %s is not a stored thesis", endpoint)
			}
		}
	}

	if t.Alias != nil {
		if _, taken, err := getThesisIDByAlias(w.tx, *t.Alias); err != nil {
			return objectid.ObjectId{}, err
		} else if taken {
			return objectid.ObjectId{}, thesiserr.New(thesiserr.AliasInUse,
				"alias %q is already in use", string(*t.Alias))
		}
	}

	encoded, err := writeJSON.Marshal(t)
	if err != nil {
		return objectid.ObjectId{}, thesiserr.Wrap(err, thesiserr.EncodingFailure, "encoding thesis %s", id)
	}
	if err := w.tx.InsertWithID(id, json.RawMessage(encoded)); err != nil {
		return objectid.ObjectId{}, thesiserr.Wrap(err, thesiserr.ChestError, "inserting thesis %s", id)
	}
	if w.logger != nil {
		w.logger.Debug("inserted thesis", zap.String("thesis_id", id.String()))
	}
	return id, nil
}

// TagThesis appends tag to id's tags, idempotently (R4).
func (w *WriteTx) TagThesis(id objectid.ObjectId, tag thesis.Tag) error {
	if err := tag.Validate(); err != nil {
		return err
	}
	has, err := w.tx.ContainsElement(id, chest.PathSegments("tags"), tag)
	if err != nil {
		return thesiserr.Wrap(err, thesiserr.ChestError, "checking tags of %s", id)
	}
	if has {
		return nil
	}
	if err := w.tx.Push(id, chest.PathSegments("tags"), tag); err != nil {
		return thesiserr.Wrap(err, thesiserr.ChestError, "tagging %s with %q", id, string(tag))
	}
	return nil
}

// UntagThesis removes the first occurrence of tag from id's tags; a
// no-op if absent.
func (w *WriteTx) UntagThesis(id objectid.ObjectId, tag thesis.Tag) error {
	index, found, err := w.tx.GetElementIndex(id, chest.PathSegments("tags"), tag)
	if err != nil {
		return thesiserr.Wrap(err, thesiserr.ChestError, "locating tag %q on %s", string(tag), id)
	}
	if !found {
		return nil
	}
	if err := w.tx.Remove(id, chest.PathSegments("tags", itoa(index))); err != nil {
		return thesiserr.Wrap(err, thesiserr.ChestError, "untagging %s of %q", id, string(tag))
	}
	return nil
}

// SetAlias replaces id's alias field. Enforces R3 strictly: fails
// AliasInUse if another live thesis already holds alias.
func (w *WriteTx) SetAlias(id objectid.ObjectId, alias thesis.Alias) error {
	if err := alias.Validate(); err != nil {
		return err
	}
	existing, taken, err := getThesisIDByAlias(w.tx, alias)
	if err != nil {
		return err
	}
	if taken && existing != id {
		return thesiserr.New(thesiserr.AliasInUse, "alias %q is already in use", string(alias))
	}
	if err := w.tx.Update(id, chest.PathSegments("alias"), alias); err != nil {
		return thesiserr.Wrap(err, thesiserr.ChestError, "setting alias of %s to %q", id, string(alias))
	}
	return nil
}

// RemoveThesis deletes id, cascading per R5: every relation touching id,
// and every text thesis that mentions id, transitively. A no-op if id is
// already absent. Implemented iteratively with an explicit work-list and
// a visited set, so it terminates even over a cycle of mutually
// referencing text theses.
func (w *WriteTx) RemoveThesis(id objectid.ObjectId) error {
	queue := []objectid.ObjectId{id}
	visited := make(map[objectid.ObjectId]struct{})

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if _, seen := visited[current]; seen {
			continue
		}
		visited[current] = struct{}{}

		exists, err := w.tx.ContainsObjectWithID(current)
		if err != nil {
			return thesiserr.Wrap(err, thesiserr.ChestError, "checking thesis %s before removal", current)
		}
		if !exists {
			continue
		}

		relationIDs, err := collectSelect(w.tx, []chest.MatchClause{
			{Kind: chest.Direct, Path: chest.PathSegments("content", "Relation", "from"), Value: current},
		})
		if err != nil {
			return thesiserr.Wrap(err, thesiserr.ChestError, "finding relations from %s", current)
		}
		toIDs, err := collectSelect(w.tx, []chest.MatchClause{
			{Kind: chest.Direct, Path: chest.PathSegments("content", "Relation", "to"), Value: current},
		})
		if err != nil {
			return thesiserr.Wrap(err, thesiserr.ChestError, "finding relations to %s", current)
		}
		relationIDs = append(relationIDs, toIDs...)

		mentioners, err := collectSelect(w.tx, []chest.MatchClause{
			{Kind: chest.Array, Path: chest.PathSegments("content", "Text", "references"), Value: current},
		})
		if err != nil {
			return thesiserr.Wrap(err, thesiserr.ChestError, "finding text mentions of %s", current)
		}

		if err := w.tx.Remove(current, chest.Path{}); err != nil {
			return thesiserr.Wrap(err, thesiserr.ChestError, "removing thesis %s", current)
		}
		if w.logger != nil {
			w.logger.Debug("removed thesis", zap.String("thesis_id", current.String()))
		}

		// Relations touching current are deleted outright: a relation carries
		// no further references, so its removal never cascades further.
		for _, relationID := range relationIDs {
			if _, seen := visited[relationID]; seen {
				continue
			}
			visited[relationID] = struct{}{}
			stillExists, err := w.tx.ContainsObjectWithID(relationID)
			if err != nil {
				return thesiserr.Wrap(err, thesiserr.ChestError, "checking relation %s before removal", relationID)
			}
			if !stillExists {
				continue
			}
			if err := w.tx.Remove(relationID, chest.Path{}); err != nil {
				return thesiserr.Wrap(err, thesiserr.ChestError, "removing relation %s", relationID)
			}
			if w.logger != nil {
				w.logger.Debug("removed relation", zap.String("thesis_id", relationID.String()))
			}
		}
		for _, mentionerID := range mentioners {
			if _, seen := visited[mentionerID]; !seen {
				queue = append(queue, mentionerID)
			}
		}
	}
	return nil
}

// ExecuteCommand dispatches a parsed Command to the corresponding write
// write operation.
func (w *WriteTx) ExecuteCommand(cmd command.Command) error {
	switch c := cmd.(type) {
	case command.AddThesis:
		_, err := w.InsertThesis(c.Thesis)
		return err
	case command.RemoveThesis:
		return w.RemoveThesis(c.ID)
	case command.AddTags:
		for _, tag := range c.Tags {
			if err := w.TagThesis(c.ID, tag); err != nil {
				return err
			}
		}
		return nil
	case command.RemoveTags:
		for _, tag := range c.Tags {
			if err := w.UntagThesis(c.ID, tag); err != nil {
				return err
			}
		}
		return nil
	case command.SetAlias:
		return w.SetAlias(c.ID, c.Alias)
	default:
		return thesiserr.New(thesiserr.InvalidCommand, "unknown command type %T", cmd)
	}
}

func itoa(i int) string {
	return strconv.Itoa(i)
}
