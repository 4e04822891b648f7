// Copyright © 2026 Ped contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
//
// File: internal/control/env.go
// Summary: Operation environment: scoped access to the focused editor,
// the workspace, open buffers, clipboard, and the echo row.
// Usage: Handed to every operation handler; owns the buffer registry
// including the ephemeral @name buffers.

package control

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/framegrace/ped/config"
	"github.com/framegrace/ped/internal/clip"
	"github.com/framegrace/ped/internal/editor"
	"github.com/framegrace/ped/internal/syntax"
	"github.com/framegrace/ped/internal/theming"
	"github.com/framegrace/ped/internal/workspace"
)

// ErrCancelled marks a user-cancelled interaction.
var ErrCancelled = errors.New("cancelled")

// ErrNotFound marks a missing buffer or file.
var ErrNotFound = errors.New("not found")

// ScratchName is the always-present ephemeral buffer.
const ScratchName = "@scratch"

// Env is the scoped world an operation runs in.
type Env struct {
	Ws       *workspace.Workspace
	Cfg      *config.Config
	Theme    *theming.Theme
	Clip     *clip.Clip
	Syntaxes *syntax.Registry

	editors []*editor.Editor

	echoText string

	ops   *Registry
	binds BindingLister
}

// BindingLister is the slice of the binding trie the environment needs
// for help listings.
type BindingLister interface {
	Each(func(seq, op string))
	OpFor(op string) (string, bool)
}

// NewEnv wires an environment; the @scratch buffer always exists.
func NewEnv(ws *workspace.Workspace, cfg *config.Config, th *theming.Theme, syn *syntax.Registry) *Env {
	env := &Env{
		Ws:       ws,
		Cfg:      cfg,
		Theme:    th,
		Clip:     clip.New(),
		Syntaxes: syn,
	}
	env.AddEditor(env.newEphemeral(ScratchName, "", false))
	return env
}

// SetDispatch attaches the operation registry and binding trie; done
// after construction because operations close over the environment.
func (env *Env) SetDispatch(ops *Registry, binds BindingLister) {
	env.ops = ops
	env.binds = binds
}

// Focused returns the focused editor, or nil with no windows.
func (env *Env) Focused() *editor.Editor {
	w := env.Ws.Focused()
	if w == nil {
		return nil
	}
	return w.Ed
}

// Echo replaces the echo row message.
func (env *Env) Echo(format string, args ...any) {
	env.echoText = fmt.Sprintf(format, args...)
}

// EchoText returns the pending echo message.
func (env *Env) EchoText() string { return env.echoText }

// ClearEcho empties the echo row.
func (env *Env) ClearEcho() { env.echoText = "" }

// Editors returns the open buffers in creation order.
func (env *Env) Editors() []*editor.Editor { return env.editors }

// AddEditor registers a buffer.
func (env *Env) AddEditor(ed *editor.Editor) {
	env.editors = append(env.editors, ed)
}

// FindEditor returns the buffer with the given display name.
func (env *Env) FindEditor(name string) (*editor.Editor, bool) {
	for _, ed := range env.editors {
		if ed.Name == name {
			return ed, true
		}
	}
	return nil, false
}

// RemoveEditor drops a buffer from the registry. @scratch stays.
func (env *Env) RemoveEditor(ed *editor.Editor) {
	if ed.Name == ScratchName {
		return
	}
	for i, e := range env.editors {
		if e == ed {
			env.editors = append(env.editors[:i], env.editors[i+1:]...)
			return
		}
	}
}

// newEphemeral builds an @name buffer. All are readonly except
// @scratch.
func (env *Env) newEphemeral(name, content string, readonly bool) *editor.Editor {
	ed := editor.New(name, content, env.Theme.Color(theming.SlotText))
	ed.Ephemeral = true
	ed.Readonly = readonly
	ed.SetDirty(false)
	return ed
}

// Ephemeral returns the named @buffer, regenerating listing buffers on
// every request so they reflect current state.
func (env *Env) Ephemeral(name string) (*editor.Editor, error) {
	if name == ScratchName {
		ed, _ := env.FindEditor(ScratchName)
		return ed, nil
	}
	var content string
	switch name {
	case "@help":
		content = env.helpText()
	case "@keys":
		content = env.keysText()
	case "@operations":
		content = env.operationsText()
	case "@bindings":
		content = env.bindingsText()
	case "@colors":
		content = env.colorsText()
	default:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if ed, ok := env.FindEditor(name); ok {
		env.RemoveEditor(ed)
	}
	ed := env.newEphemeral(name, content, true)
	env.AddEditor(ed)
	return ed, nil
}

// SwitchTo shows ed in the focused window.
func (env *Env) SwitchTo(ed *editor.Editor) {
	w := env.Ws.Focused()
	if w == nil {
		return
	}
	w.Ed = ed
	w.ShowLines = env.Cfg.Settings.Lines && !ed.Ephemeral
	w.ShowSpotlight = env.Cfg.Settings.Spotlight
	w.ShowEol = env.Cfg.Settings.Eol
	w.Layout(w.OriginRow, w.OriginCol, w.Rows, w.Cols)
}

// CycleEditor focuses the previous or next buffer in the registry.
func (env *Env) CycleEditor(delta int) {
	cur := env.Focused()
	if cur == nil || len(env.editors) == 0 {
		return
	}
	idx := 0
	for i, ed := range env.editors {
		if ed == cur {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(env.editors)) % len(env.editors)
	env.SwitchTo(env.editors[idx])
}

// helpText builds the @help content from live bindings.
func (env *Env) helpText() string {
	var sb strings.Builder
	sb.WriteString("ped help\n\n")
	sb.WriteString("Keys are shown as sequences of canonical names; C- is control,\n")
	sb.WriteString("M- is the ESC prefix, S- is shift.\n\n")
	sb.WriteString(env.bindingsText())
	return sb.String()
}

// keysText lists the canonical key names usable in bindings.
func (env *Env) keysText() string {
	names := []string{
		"ESC", "ret", "tab", "del", "insert", "delete",
		"up", "down", "left", "right", "home", "end", "pageup", "pagedown",
		"f1 .. f12",
		"C-<char>, M-<char>, S- prefixes on motion keys",
		"mouse-press, mouse-release, scroll-up, scroll-down, scroll-left, scroll-right",
	}
	return "key names\n\n" + strings.Join(names, "\n") + "\n"
}

// operationsText lists every registered operation with its summary.
func (env *Env) operationsText() string {
	var sb strings.Builder
	sb.WriteString("operations\n\n")
	for _, name := range env.ops.Names() {
		fmt.Fprintf(&sb, "%-24s %s\n", name, env.ops.Describe(name))
	}
	return sb.String()
}

// bindingsText lists active bindings sorted by operation.
func (env *Env) bindingsText() string {
	type pair struct{ seq, op string }
	var pairs []pair
	env.binds.Each(func(seq, op string) {
		pairs = append(pairs, pair{seq, op})
	})
	sort.Slice(pairs, func(i, j int) bool {
		if pairs[i].op != pairs[j].op {
			return pairs[i].op < pairs[j].op
		}
		return pairs[i].seq < pairs[j].seq
	})
	var sb strings.Builder
	sb.WriteString("bindings\n\n")
	for _, p := range pairs {
		fmt.Fprintf(&sb, "%-16s %s\n", p.seq, p.op)
	}
	return sb.String()
}

// colorsText lists the color name table.
func (env *Env) colorsText() string {
	var sb strings.Builder
	sb.WriteString("colors\n\n")
	table := env.Theme.Colors()
	for _, name := range table.Names() {
		fmt.Fprintf(&sb, "%-16s %3d\n", name, table.Value(name))
	}
	return sb.String()
}

// BufferNames returns all open buffer names, for completion.
func (env *Env) BufferNames() []string {
	out := make([]string, 0, len(env.editors))
	for _, ed := range env.editors {
		out = append(out, ed.Name)
	}
	sort.Strings(out)
	return out
}
