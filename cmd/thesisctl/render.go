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
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mentalblood0/thesis/internal/graphrender"
	"github.com/mentalblood0/thesis/pkg/thesisstore"
)

func newRenderCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "render",
		Short: "render the whole chest as a Graphviz DOT graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore(configPath)
			if err != nil {
				return err
			}
			defer closeStore()

			return store.WithRead(func(r *thesisstore.ReadTx) error {
				iter, err := r.IterTheses()
				if err != nil {
					return err
				}
				graph, err := graphrender.Render(iter, graphrender.DefaultOptions())
				if err != nil {
					return err
				}
				fmt.Fprint(cmd.OutOrStdout(), graph.String())
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "thesis.yaml", "path to the store config")
	return cmd
}
