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

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/mentalblood0/thesis/pkg/aliasresolve"
	"github.com/mentalblood0/thesis/pkg/thesis"
	"github.com/mentalblood0/thesis/pkg/thesisstore"
)

func newGetCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "get <alias-or-id>",
		Short: "look up a thesis by alias or id and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore(configPath)
			if err != nil {
				return err
			}
			defer closeStore()

			ref, err := thesis.ParseReference(args[0])
			if err != nil {
				return errors.Wrapf(err, "parsing reference %q", args[0])
			}

			return store.WithRead(func(r *thesisstore.ReadTx) error {
				id, err := aliasresolve.New(r).Resolve(ref)
				if err != nil {
					return err
				}
				t, found, err := r.GetThesis(id)
				if err != nil {
					return err
				}
				if !found {
					return errors.Errorf("thesis %s not found", id)
				}
				fmt.Fprintln(cmd.OutOrStdout(), describeThesis(id.String(), *t))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "thesis.yaml", "path to the store config")
	return cmd
}

func describeThesis(id string, t thesis.Thesis) string {
	header := id
	if t.Alias != nil {
		header = fmt.Sprintf("%s (%s)", string(*t.Alias), id)
	}
	body := ""
	switch {
	case t.Content.Text != nil:
		body = t.Content.Text.Compose()
	case t.Content.Relation != nil:
		r := t.Content.Relation
		body = fmt.Sprintf("%s --[%s]--> %s", r.From, string(r.Kind), r.To)
	}
	if len(t.Tags) > 0 {
		return fmt.Sprintf("%s: %s  tags=%v", header, body, t.Tags)
	}
	return fmt.Sprintf("%s: %s", header, body)
}
