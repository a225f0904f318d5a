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

// Package config loads the on-disk YAML configuration for a thesis
// store: where its chest file lives and which relation kinds it accepts.
package config

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/mentalblood0/thesis/pkg/thesis"
)

// ChestConfig names the on-disk location of the chest file.
type ChestConfig struct {
	Path string `yaml:"path"`
}

// Config is the full shape of a thesisctl configuration file.
type Config struct {
	Chest                    ChestConfig           `yaml:"chest"`
	SupportedRelationsKinds  []thesis.RelationKind `yaml:"supported_relations_kinds"`
}

// Load reads and validates the YAML config at path. Every entry in
// SupportedRelationsKinds must itself be a syntactically valid
// RelationKind; an invalid one fails fast rather than surfacing later
// as a confusing UnsupportedKind at insert time.
func Load(path string) (Config, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "reading config file %q", path)
	}
	var cfg Config
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, errors.Wrapf(err, "parsing config file %q", path)
	}
	if cfg.Chest.Path == "" {
		return Config{}, errors.Errorf("config %q: chest.path is required", path)
	}
	for _, kind := range cfg.SupportedRelationsKinds {
		if err := kind.Validate(); err != nil {
			return Config{}, errors.Wrapf(err, "config %q: invalid supported relation kind %q", path, string(kind))
		}
	}
	return cfg, nil
}

// Default returns a starter config suitable for `thesisctl init`.
func Default(chestPath string) Config {
	return Config{
		Chest: ChestConfig{Path: chestPath},
		SupportedRelationsKinds: []thesis.RelationKind{
			"supports",
			"contradicts",
			"refines",
		},
	}
}

// Save writes cfg as YAML to path.
func Save(path string, cfg Config) error {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encoding config")
	}
	if err := os.WriteFile(path, out, 0o644); err != nil {
		return errors.Wrapf(err, "writing config file %q", path)
	}
	return nil
}
