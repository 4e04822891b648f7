// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/syntax/syntax.go
// Summary: Syntax definitions: a filename regex plus an ordered rule list.
// Usage: Loaded from TOML files in the syntax directory; matched against
// buffer names to pick the tokenizer rule set.

package syntax

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// Rule pairs a compiled regex with the color id its matches receive.
// Precedence is the rule's position in the definition file.
type Rule struct {
	Pattern *regexp.Regexp
	Color   int
}

// Definition is a named rule set applying to files whose names match
// Files.
type Definition struct {
	Name  string
	Files *regexp.Regexp
	Rules []Rule
}

// ColorResolver turns a color reference from a definition file (theme
// slot, color name, or number) into a palette index.
type ColorResolver func(name string) (int, bool)

// defFile mirrors the on-disk TOML shape.
type defFile struct {
	Name  string `toml:"name"`
	Files string `toml:"files"`
	Rules []struct {
		Pattern string `toml:"pattern"`
		Color   string `toml:"color"`
	} `toml:"rules"`
}

// ParseError reports a bad definition file.
type ParseError struct {
	Path   string
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Detail)
}

// LoadDefinition reads and compiles one TOML definition file.
func LoadDefinition(path string, resolve ColorResolver) (*Definition, error) {
	var df defFile
	if _, err := toml.DecodeFile(path, &df); err != nil {
		return nil, &ParseError{Path: path, Detail: err.Error()}
	}
	if df.Name == "" {
		df.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	files, err := regexp.Compile(df.Files)
	if err != nil {
		return nil, &ParseError{Path: path, Detail: fmt.Sprintf("files regex: %v", err)}
	}
	def := &Definition{Name: df.Name, Files: files}
	for i, r := range df.Rules {
		pat, err := regexp.Compile(r.Pattern)
		if err != nil {
			return nil, &ParseError{Path: path, Detail: fmt.Sprintf("rule %d: %v", i, err)}
		}
		color, ok := resolve(r.Color)
		if !ok {
			return nil, &ParseError{Path: path, Detail: fmt.Sprintf("rule %d: unknown color %q", i, r.Color)}
		}
		def.Rules = append(def.Rules, Rule{Pattern: pat, Color: color})
	}
	return def, nil
}

// Registry holds all loaded definitions.
type Registry struct {
	defs []*Definition
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add registers a definition.
func (r *Registry) Add(def *Definition) {
	r.defs = append(r.defs, def)
}

// LoadDir loads every *.toml file under dir. Missing directories are not
// an error; bad files are.
func (r *Registry) LoadDir(dir string, resolve ColorResolver) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".toml") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	for _, name := range names {
		def, err := LoadDefinition(filepath.Join(dir, name), resolve)
		if err != nil {
			return err
		}
		r.Add(def)
	}
	return nil
}

// Match returns the first definition whose filename regex matches name,
// or nil.
func (r *Registry) Match(name string) *Definition {
	for _, def := range r.defs {
		if def.Files.MatchString(name) {
			return def
		}
	}
	return nil
}

// Names returns the loaded definition names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, 0, len(r.defs))
	for _, def := range r.defs {
		out = append(out, def.Name)
	}
	return out
}
