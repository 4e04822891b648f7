// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/control/complete.go
// Summary: Completers backing modal questions: yes/no answers, file
// paths, buffer names, and operation names.

package control

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Completer supplies candidates for a question's current input and a
// short hint rendered after it.
type Completer interface {
	Candidates(prefix string) []string
	Hint(prefix string) string
}

// commonPrefix returns the longest shared prefix of the candidates.
func commonPrefix(cands []string) string {
	if len(cands) == 0 {
		return ""
	}
	p := cands[0]
	for _, c := range cands[1:] {
		for !strings.HasPrefix(c, p) {
			p = p[:len(p)-1]
			if p == "" {
				return ""
			}
		}
	}
	return p
}

// listHint renders up to a handful of candidates inline.
func listHint(cands []string) string {
	if len(cands) == 0 {
		return ""
	}
	const max = 5
	shown := cands
	more := ""
	if len(shown) > max {
		shown = shown[:max]
		more = " …"
	}
	return "{" + strings.Join(shown, " ") + more + "}"
}

// yesNo answers y/n questions; yesNoAll adds the a answer used by the
// save-on-quit walk.
type yesNo struct{ all bool }

// YesNo returns a y/n completer.
func YesNo() Completer { return yesNo{} }

// YesNoAll returns a y/n/a completer.
func YesNoAll() Completer { return yesNo{all: true} }

func (c yesNo) options() []string {
	if c.all {
		return []string{"y", "n", "a"}
	}
	return []string{"y", "n"}
}

func (c yesNo) Candidates(prefix string) []string {
	var out []string
	for _, o := range c.options() {
		if strings.HasPrefix(o, prefix) {
			out = append(out, o)
		}
	}
	return out
}

func (c yesNo) Hint(string) string {
	return "[" + strings.Join(c.options(), "/") + "]"
}

// filePath completes filesystem paths case-insensitively and expands a
// leading ~.
type filePath struct{}

// FilePath returns the path completer.
func FilePath() Completer { return filePath{} }

func (filePath) Candidates(prefix string) []string {
	expanded := expandHome(prefix)
	dir, stem := filepath.Split(expanded)
	if dir == "" {
		dir = "."
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	stemLower := strings.ToLower(stem)
	var out []string
	for _, e := range entries {
		name := e.Name()
		if !strings.HasPrefix(strings.ToLower(name), stemLower) {
			continue
		}
		full := filepath.Join(dir, name)
		if e.IsDir() {
			full += string(filepath.Separator)
		}
		// Keep the user's ~ spelling in the completion.
		if strings.HasPrefix(prefix, "~") {
			if home, err := os.UserHomeDir(); err == nil {
				full = "~" + strings.TrimPrefix(full, home)
			}
		}
		out = append(out, full)
	}
	sort.Strings(out)
	return out
}

func (c filePath) Hint(prefix string) string {
	cands := c.Candidates(prefix)
	names := make([]string, len(cands))
	for i, c := range cands {
		names[i] = filepath.Base(strings.TrimSuffix(c, string(filepath.Separator)))
	}
	return listHint(names)
}

// bufferName completes open buffer names.
type bufferName struct{ env *Env }

// BufferName returns a completer over the environment's open buffers.
func BufferName(env *Env) Completer { return bufferName{env: env} }

func (c bufferName) Candidates(prefix string) []string {
	var out []string
	for _, name := range c.env.BufferNames() {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	return out
}

func (c bufferName) Hint(prefix string) string {
	return listHint(c.Candidates(prefix))
}

// opName completes operation names for describe-key style prompts.
type opName struct{ env *Env }

// OpName returns a completer over registered operation names.
func OpName(env *Env) Completer { return opName{env: env} }

func (c opName) Candidates(prefix string) []string {
	var out []string
	for _, name := range c.env.ops.Names() {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	return out
}

func (c opName) Hint(prefix string) string {
	return listHint(c.Candidates(prefix))
}
