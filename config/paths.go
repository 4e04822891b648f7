// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: config/paths.go
// Summary: Discovery order for the configuration file and syntax
// directories.

package config

import (
	"os"
	"path/filepath"
)

// rcCandidates returns the pedrc locations in priority order.
func rcCandidates() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".pedrc"),
		filepath.Join(home, ".ped", "pedrc"),
		filepath.Join(home, ".config", "ped", "pedrc"),
	}
}

// Discover returns the first existing configuration file.
func Discover() (string, bool) {
	for _, p := range rcCandidates() {
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			return p, true
		}
	}
	return "", false
}

// SyntaxDirs returns the syntax definition directories in priority
// order; callers load from the first that yields any definitions.
func SyntaxDirs() []string {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return []string{
		filepath.Join(home, ".ped", "syntax"),
		filepath.Join(home, ".config", "ped", "syntax"),
	}
}
