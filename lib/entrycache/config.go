// Copyright (C) 2026  Directory Cache Contributors
//
// SPDX-License-Identifier: GPL-2.0-or-later

package entrycache

import (
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Config holds the knobs a host sets before calling Open.
type Config struct {
	// MaxSize is the soft cap on resident entries.  Eviction runs
	// whenever an Insert pushes residency above this; it is a soft
	// cap because pinned entries are never evicted, so actual
	// residency can exceed MaxSize while entries stay borrowed.
	MaxSize int `yaml:"max_size"`

	// NegativeCacheSize bounds the number of "name not found" results
	// remembered to short-circuit repeat failed lookups.  Zero
	// disables the negative cache.
	NegativeCacheSize int `yaml:"negative_cache_size"`
}

// DefaultConfig returns the settings used if a host doesn't load its
// own Config.
func DefaultConfig() Config {
	return Config{
		MaxSize:           4096,
		NegativeCacheSize: 1024,
	}
}

// LoadConfig reads a Config from a YAML file, filling in
// DefaultConfig for anything the file leaves unset.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	bs, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrap(err, "entrycache: reading config")
	}
	if err := yaml.Unmarshal(bs, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "entrycache: parsing config")
	}
	if cfg.MaxSize <= 0 {
		return Config{}, errors.Errorf("entrycache: max_size must be positive, got %d", cfg.MaxSize)
	}
	return cfg, nil
}
