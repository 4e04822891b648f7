// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/clip/clip.go
// Summary: Editor-local clipboard plus best-effort OS clipboard routing.

package clip

import (
	"log"

	"github.com/atotto/clipboard"
)

// Clip holds the editor-local clipboard. Global variants go through the
// system clipboard and fall back to the local content when that fails.
type Clip struct {
	local []rune
}

// New returns an empty clipboard.
func New() *Clip {
	return &Clip{}
}

// Set stores scalars locally.
func (c *Clip) Set(rs []rune) {
	c.local = append([]rune(nil), rs...)
}

// Get returns the local content.
func (c *Clip) Get() []rune {
	return append([]rune(nil), c.local...)
}

// SetGlobal stores scalars locally and pushes them to the OS clipboard.
// OS failures are logged, not surfaced; the local copy still succeeds.
func (c *Clip) SetGlobal(rs []rune) {
	c.Set(rs)
	if err := clipboard.WriteAll(string(rs)); err != nil {
		log.Printf("clip: system clipboard write failed: %v", err)
	}
}

// GetGlobal reads the OS clipboard, falling back to the local content.
func (c *Clip) GetGlobal() []rune {
	s, err := clipboard.ReadAll()
	if err != nil {
		log.Printf("clip: system clipboard read failed: %v", err)
		return c.Get()
	}
	return []rune(s)
}
