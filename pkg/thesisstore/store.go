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
	"fmt"

	"go.uber.org/zap"

	"github.com/mentalblood0/thesis/pkg/chest"
	"github.com/mentalblood0/thesis/pkg/command"
	"github.com/mentalblood0/thesis/pkg/thesis"
	"github.com/mentalblood0/thesis/pkg/thesiserr"
)

// Store is the top-level façade over a chest: it carries the
// configuration a write transaction needs (which relation kinds are
// supported, where to log) and hands out scoped ReadTx/WriteTx values.
type Store struct {
	chest          chest.Chest
	supportedKinds map[thesis.RelationKind]struct{}
	logger         *zap.Logger
}

// Option configures a Store at construction time.
type Option func(*Store)

// WithSupportedKinds restricts which relation kinds InsertThesis accepts.
func WithSupportedKinds(kinds []thesis.RelationKind) Option {
	return func(s *Store) {
		set := make(map[thesis.RelationKind]struct{}, len(kinds))
		for _, k := range kinds {
			set[k] = struct{}{}
		}
		s.supportedKinds = set
	}
}

// WithLogger attaches a logger; a nil logger (the default) disables
// per-operation logging.
func WithLogger(logger *zap.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// New builds a Store over an already-open chest.
func New(c chest.Chest, opts ...Option) *Store {
	s := &Store{chest: c, supportedKinds: map[thesis.RelationKind]struct{}{}}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// WithRead runs scope inside a read-only transaction.
func (s *Store) WithRead(scope func(*ReadTx) error) error {
	return s.chest.LockAllWritesAndRead(func(tx chest.Tx) error {
		return scope(&ReadTx{tx: tx})
	})
}

// WithWrite runs scope inside the single exclusive write transaction.
func (s *Store) WithWrite(scope func(*WriteTx) error) error {
	return s.chest.LockAllAndWrite(func(tx chest.RwTx) error {
		return scope(&WriteTx{tx: tx, supportedKinds: s.supportedKinds, logger: s.logger})
	})
}

// Close releases the underlying chest.
func (s *Store) Close() error {
	return s.chest.Close()
}

// ApplyBatch parses input as a command DSL batch and executes every
// resulting command inside one write transaction. The whole batch is
// parsed before any command executes, so references resolve against the
// state before the batch plus the aliases bound earlier in it. It
// returns one summary line per executed command, in order.
func (s *Store) ApplyBatch(input string) ([]string, error) {
	var summaries []string
	err := s.WithWrite(func(w *WriteTx) error {
		commands, err := command.Parse(input, w.Resolver())
		if err != nil {
			return thesiserr.Wrap(err, thesiserr.InvalidCommand, "parsing command batch")
		}
		for _, cmd := range commands {
			if err := w.ExecuteCommand(cmd); err != nil {
				return err
			}
			summaries = append(summaries, summarizeCommand(cmd))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return summaries, nil
}

func summarizeCommand(cmd command.Command) string {
	switch c := cmd.(type) {
	case command.AddThesis:
		id, err := c.Thesis.ID()
		if err != nil {
			return "add thesis: <unidentifiable>"
		}
		return fmt.Sprintf("add thesis %s", id)
	case command.RemoveThesis:
		return fmt.Sprintf("remove thesis %s", c.ID)
	case command.AddTags:
		return fmt.Sprintf("add %d tag(s) to %s", len(c.Tags), c.ID)
	case command.RemoveTags:
		return fmt.Sprintf("remove %d tag(s) from %s", len(c.Tags), c.ID)
	case command.SetAlias:
		return fmt.Sprintf("set alias of %s to %q", c.ID, string(c.Alias))
	default:
		return "unknown command"
	}
}
