// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config.go
// Summary: User configuration: settings, colors, theme, and bindings
// loaded from the first pedrc found on the discovery path.

package config

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Settings mirrors the [settings] section.
type Settings struct {
	Lines        bool `toml:"lines"`
	Spotlight    bool `toml:"spotlight"`
	Eol          bool `toml:"eol"`
	TabHard      bool `toml:"tab-hard"`
	TabSize      int  `toml:"tab-size"`
	TrackLateral bool `toml:"track-lateral"`
}

// Config is the merged user configuration.
type Config struct {
	Settings Settings          `toml:"settings"`
	Colors   map[string]int    `toml:"colors"`
	Theme    map[string]string `toml:"theme"`
	Bindings map[string]string `toml:"bindings"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Settings: Settings{
			TabSize: 4,
		},
		Colors:   map[string]int{},
		Theme:    map[string]string{},
		Bindings: DefaultBindings(),
	}
}

// Load returns the defaults merged with the configuration file at path,
// or with the first discovered pedrc when path is empty. No file at all
// yields plain defaults; a present but invalid file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		var ok bool
		path, ok = Discover()
		if !ok {
			return cfg, nil
		}
	}
	var ext Config
	if _, err := toml.DecodeFile(path, &ext); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	cfg.merge(&ext)
	return cfg, nil
}

// merge folds ext over the receiver. Color, theme, and binding entries
// extend the defaults rather than replacing the whole table.
func (c *Config) merge(ext *Config) {
	c.Settings = ext.Settings
	if c.Settings.TabSize == 0 {
		c.Settings.TabSize = 4
	}
	for k, v := range ext.Colors {
		c.Colors[k] = v
	}
	for k, v := range ext.Theme {
		c.Theme[k] = v
	}
	for k, v := range ext.Bindings {
		c.Bindings[k] = v
	}
}
