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
	"github.com/spf13/cobra"

	"github.com/mentalblood0/thesis/internal/chestkv"
	"github.com/mentalblood0/thesis/internal/config"
)

func newInitCmd() *cobra.Command {
	var configPath, chestPath string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "create an empty chest file and a starter config",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := chestkv.Open(chestPath)
			if err != nil {
				return errors.Wrapf(err, "creating chest at %q", chestPath)
			}
			if err := db.Close(); err != nil {
				return errors.Wrap(err, "closing newly created chest")
			}
			if err := config.Save(configPath, config.Default(chestPath)); err != nil {
				return errors.Wrapf(err, "writing config to %q", configPath)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "thesis.yaml", "path to write the starter config")
	cmd.Flags().StringVar(&chestPath, "chest", "thesis.db", "path to create the chest file")
	return cmd
}
