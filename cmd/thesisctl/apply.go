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
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newApplyCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "apply <batch-file>",
		Short: "parse a DSL batch and execute it in one write transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			batch, err := os.ReadFile(args[0])
			if err != nil {
				return errors.Wrapf(err, "reading batch file %q", args[0])
			}
			store, closeStore, err := openStore(configPath)
			if err != nil {
				return err
			}
			defer closeStore()

			summaries, err := store.ApplyBatch(string(batch))
			if err != nil {
				return errors.Wrap(err, "applying batch")
			}
			for _, summary := range summaries {
				fmt.Fprintln(cmd.OutOrStdout(), summary)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "thesis.yaml", "path to the store config")
	return cmd
}
