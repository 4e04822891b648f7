// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/config_test.go
// Summary: Configuration loading, merging, and defaults.

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadExplicitMissingErrors(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent"))
	if err == nil {
		t.Fatalf("explicit missing path must error, got %+v", cfg)
	}
}

func TestLoadAndMerge(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "pedrc")
	body := `
[settings]
lines = true
tab-size = 8

[colors]
paper = 230

[theme]
text-fg = "paper"

[bindings]
"C-u" = "undo"
`
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !cfg.Settings.Lines || cfg.Settings.TabSize != 8 {
		t.Fatalf("settings %+v", cfg.Settings)
	}
	if cfg.Colors["paper"] != 230 {
		t.Fatalf("colors %+v", cfg.Colors)
	}
	if cfg.Theme["text-fg"] != "paper" {
		t.Fatalf("theme %+v", cfg.Theme)
	}
	if cfg.Bindings["C-u"] != "undo" {
		t.Fatalf("bindings missing override")
	}
	if cfg.Bindings["C-q"] != "quit" {
		t.Fatalf("default bindings lost in merge")
	}
}

func TestLoadRejectsBadToml(t *testing.T) {
	p := filepath.Join(t.TempDir(), "pedrc")
	if err := os.WriteFile(p, []byte("[settings\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestDefaultTabSize(t *testing.T) {
	if Default().Settings.TabSize != 4 {
		t.Fatalf("default tab size")
	}
}

func TestDefaultBindingsCopied(t *testing.T) {
	a := DefaultBindings()
	a["C-q"] = "something-else"
	if DefaultBindings()["C-q"] != "quit" {
		t.Fatalf("DefaultBindings shares state")
	}
}
