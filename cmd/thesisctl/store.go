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

package main

import (
	"github.com/pkg/errors"

	"github.com/mentalblood0/thesis/internal/chestkv"
	"github.com/mentalblood0/thesis/internal/config"
	"github.com/mentalblood0/thesis/internal/obslog"
	"github.com/mentalblood0/thesis/pkg/thesisstore"
)

// openStore loads configPath and opens the chest it names, returning a
// Store and a closer the caller must invoke.
func openStore(configPath string) (*thesisstore.Store, func() error, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "loading config %q", configPath)
	}
	db, err := chestkv.Open(cfg.Chest.Path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "opening chest %q", cfg.Chest.Path)
	}
	store := thesisstore.New(db,
		thesisstore.WithSupportedKinds(cfg.SupportedRelationsKinds),
		thesisstore.WithLogger(obslog.New("info")),
	)
	return store, store.Close, nil
}
