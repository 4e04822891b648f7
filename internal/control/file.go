// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/control/file.go
// Summary: File-backed buffer loading and saving, honoring each
// buffer's line-ending and tab modes.

package control

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/framegrace/ped/internal/editor"
	"github.com/framegrace/ped/internal/syntax"
	"github.com/framegrace/ped/internal/theming"
)

// OpenPath loads (or creates) an editor for path. An existing buffer on
// the same path is reused. Missing files open as empty dirty-on-save
// buffers.
func (env *Env) OpenPath(path string) (*editor.Editor, error) {
	abs, err := filepath.Abs(expandHome(path))
	if err != nil {
		return nil, err
	}
	for _, ed := range env.editors {
		if ed.Path == abs {
			return ed, nil
		}
	}
	content := ""
	eol := editor.EolLF
	if data, err := os.ReadFile(abs); err == nil {
		content, eol = normalizeEol(string(data))
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	ed := editor.New(filepath.Base(abs), content, env.Theme.Color(theming.SlotText))
	ed.Path = abs
	ed.EolMode = eol
	ed.TabHard = env.Cfg.Settings.TabHard
	ed.TabSize = env.Cfg.Settings.TabSize
	env.assignSyntax(ed, content)
	env.AddEditor(ed)
	return ed, nil
}

// assignSyntax picks a local definition by filename, falling back to
// language detection for the chroma lexer.
func (env *Env) assignSyntax(ed *editor.Editor, content string) {
	if env.Syntaxes != nil {
		if def := env.Syntaxes.Match(filepath.Base(ed.Path)); def != nil {
			ed.Syntax = def
			ed.Spans().SetNeedsRescan(true)
			return
		}
	}
	ed.Language = syntax.DetectLanguage(filepath.Base(ed.Path), []byte(content))
	if ed.Language != "" {
		ed.Spans().SetNeedsRescan(true)
	}
}

// normalizeEol strips \r\n down to \n, reporting which mode the file
// used.
func normalizeEol(s string) (string, editor.EolMode) {
	if strings.Contains(s, "\r\n") {
		return strings.ReplaceAll(s, "\r\n", "\n"), editor.EolCRLF
	}
	return s, editor.EolLF
}

// renderForSave applies the buffer's eol and tab modes to its content.
func renderForSave(ed *editor.Editor) string {
	s := ed.Buf().String()
	if !ed.TabHard {
		s = strings.ReplaceAll(s, "\t", strings.Repeat(" ", ed.TabSize))
	}
	if ed.EolMode == editor.EolCRLF {
		s = strings.ReplaceAll(s, "\n", "\r\n")
	}
	return s
}

// SaveEditor writes ed to its backing path.
func (env *Env) SaveEditor(ed *editor.Editor) error {
	if ed.Path == "" {
		return fmt.Errorf("%w: buffer has no path", ErrNotFound)
	}
	if err := os.WriteFile(ed.Path, []byte(renderForSave(ed)), 0o644); err != nil {
		return fmt.Errorf("save %s: %w", ed.Path, err)
	}
	ed.SetDirty(false)
	return nil
}

// SaveEditorAs rebinds ed to a new path and writes it. Saving @scratch
// to a real path hands its content to a fresh file-backed buffer and
// clears the scratch.
func (env *Env) SaveEditorAs(ed *editor.Editor, path string) (*editor.Editor, error) {
	abs, err := filepath.Abs(expandHome(path))
	if err != nil {
		return nil, err
	}
	if ed.Name == ScratchName {
		fresh := editor.New(filepath.Base(abs), ed.Buf().String(), ed.DefaultColor())
		fresh.Path = abs
		fresh.EolMode = ed.EolMode
		fresh.TabHard = ed.TabHard
		fresh.TabSize = ed.TabSize
		env.assignSyntax(fresh, "")
		if err := env.SaveEditor(fresh); err != nil {
			return nil, err
		}
		env.AddEditor(fresh)
		clearScratch(ed)
		return fresh, nil
	}
	ed.Path = abs
	ed.Name = filepath.Base(abs)
	env.assignSyntax(ed, "")
	if err := env.SaveEditor(ed); err != nil {
		return nil, err
	}
	return ed, nil
}

// clearScratch empties the scratch buffer outside the undo log.
func clearScratch(ed *editor.Editor) {
	ed.MoveTop()
	n := ed.Buf().Len()
	if n > 0 {
		ed.Buf().Remove(0, n)
		ed.Spans().CollapseAt(0, n)
	}
	ed.SetDirty(false)
	ed.MoveTop()
}

// expandHome substitutes a leading ~ with the home directory.
func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return path
}
